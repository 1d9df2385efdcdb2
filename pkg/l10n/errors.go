package l10n

import "errors"

var (
	ErrEmptyLanguage   = errors.New("l10n: language cannot be empty")
	ErrInvalidLanguage = errors.New("l10n: invalid language tag")
	ErrInvalidFile     = errors.New("l10n: invalid translation file")
)
