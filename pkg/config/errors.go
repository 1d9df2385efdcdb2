package config

import "errors"

var (
	ErrNotFound      = errors.New("config: key not found")
	ErrNoLocalConfig = errors.New("config: local config file not found")
	ErrInvalidFile   = errors.New("config: invalid local config file")
	ErrQueryFailed   = errors.New("config: database lookup failed")
	ErrInvalidBoot   = errors.New("config: invalid environment")
	ErrNotConfigured = errors.New("config: database store not configured")
)
