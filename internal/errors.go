package internal

import (
	"errors"
	"net/http"
)

// HTTPError is a handler failure that carries a response status.
// Returned from a lifecycle phase it sets the page status and queues
// Message as a notice; the page is still rendered.
type HTTPError struct {
	// Err is the underlying error (for logging, not exposed to users).
	Err error

	// Message is the user-facing message. It is translated before display.
	Message string

	// Code is the HTTP status code (e.g., 403, 404).
	Code int
}

func (e *HTTPError) Error() string {
	if e.Message == "" {
		return http.StatusText(e.Code)
	}
	return e.Message
}

func (e *HTTPError) Unwrap() error {
	return e.Err
}

func (e *HTTPError) StatusCode() int {
	return e.Code
}

func (e *HTTPError) StatusText() string {
	return http.StatusText(e.Code)
}

// HTTPErrorOption configures an HTTPError.
type HTTPErrorOption func(*HTTPError)

// NewHTTPError creates a new HTTPError with the given status code and message.
func NewHTTPError(code int, message string, opts ...HTTPErrorOption) *HTTPError {
	e := &HTTPError{
		Code:    code,
		Message: message,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func WithError(err error) HTTPErrorOption {
	return func(e *HTTPError) {
		e.Err = err
	}
}

// Convenience constructors for common HTTP errors.

func ErrBadRequest(message string, opts ...HTTPErrorOption) *HTTPError {
	return NewHTTPError(http.StatusBadRequest, message, opts...)
}

// ErrForbidden uses the message the post-hoc 403 check looks for when
// message is empty.
func ErrForbidden(message string, opts ...HTTPErrorOption) *HTTPError {
	if message == "" {
		message = PermissionDenied
	}
	return NewHTTPError(http.StatusForbidden, message, opts...)
}

func ErrNotFound(message string, opts ...HTTPErrorOption) *HTTPError {
	return NewHTTPError(http.StatusNotFound, message, opts...)
}

func ErrInternal(message string, opts ...HTTPErrorOption) *HTTPError {
	return NewHTTPError(http.StatusInternalServerError, message, opts...)
}

func ErrServiceUnavailable(message string, opts ...HTTPErrorOption) *HTTPError {
	return NewHTTPError(http.StatusServiceUnavailable, message, opts...)
}

// AsHTTPError extracts the HTTPError from an error chain if present.
// Returns nil if there is none.
func AsHTTPError(err error) *HTTPError {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr
	}
	return nil
}

// Sentinel errors of the front controller.
var (
	ErrPhaseFailed   = errors.New("frontdoor: module phase failed")
	ErrHookFailed    = errors.New("frontdoor: hook failed")
	ErrRenderFailed  = errors.New("frontdoor: page render failed")
	ErrSessionFailed = errors.New("frontdoor: session store failed")
)
