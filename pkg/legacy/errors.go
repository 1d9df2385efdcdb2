package legacy

import "errors"

var (
	ErrNotFound           = errors.New("legacy: module file not found")
	ErrRenderFailed       = errors.New("legacy: failed to render module file")
	ErrInvalidFrontMatter = errors.New("legacy: invalid front matter")
)
