package profile

import "errors"

var (
	ErrTokenNotFound  = errors.New("profile: token not found or already used")
	ErrTokenStore     = errors.New("profile: token store failed")
	ErrInvalidVisitor = errors.New("profile: visitor url is required")
)
