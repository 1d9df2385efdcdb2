package db

import "errors"

var (
	ErrFailedToParseDBConfig    = errors.New("db: failed to parse database configuration")
	ErrFailedToOpenDBConnection = errors.New("db: failed to open database connection")
	ErrHealthcheckFailed        = errors.New("db: healthcheck failed")
	ErrSetDialect               = errors.New("db migrator: failed to set dialect")
	ErrApplyMigrations          = errors.New("db migrator: failed to apply migrations")
	ErrNotConfigured            = errors.New("db: no connection string configured")
	ErrUserNotFound             = errors.New("db: user not found")
	ErrQueryFailed              = errors.New("db: query failed")
)
