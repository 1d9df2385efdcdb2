package session

import "errors"

// Session errors.
var (
	// ErrNotFound is returned when a session does not exist.
	ErrNotFound = errors.New("session: not found")

	// ErrExpired is returned when a session has expired.
	ErrExpired = errors.New("session: expired")

	// ErrInvalidToken is returned when a session token is empty.
	ErrInvalidToken = errors.New("session: invalid token")
)
