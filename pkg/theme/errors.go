package theme

import "errors"

var (
	// ErrTemplateNotFound indicates neither the theme nor the base has the file.
	ErrTemplateNotFound = errors.New("theme: template not found")

	// ErrRenderFailed indicates a template failed to parse or execute.
	ErrRenderFailed = errors.New("theme: failed to render template")
)
