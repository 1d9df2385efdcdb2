package logger

import (
	"context"
	"log/slog"

	"github.com/getsentry/sentry-go"
	sentryslog "github.com/getsentry/sentry-go/slog"
)

// SentryConfig enables the Sentry sink when DSN is set.
type SentryConfig struct {
	DSN         string `env:"SENTRY_DSN"`
	Environment string `env:"SENTRY_ENVIRONMENT" envDefault:"production"`
	Release     string `env:"SENTRY_RELEASE"`
	// ErrorsOnly stops warnings from being shipped as Sentry logs.
	ErrorsOnly bool `env:"SENTRY_ERRORS_ONLY"`
}

// newSentryHandler returns nil when Sentry is off or fails to start. Init
// failures are reported through fallback.
func newSentryHandler(cfg SentryConfig, fallback slog.Handler) slog.Handler {
	if cfg.DSN == "" {
		return nil
	}
	err := sentry.Init(sentry.ClientOptions{
		Dsn:         cfg.DSN,
		Environment: cfg.Environment,
		Release:     cfg.Release,
		EnableLogs:  true,
	})
	if err != nil {
		slog.New(fallback).Error("sentry disabled", slog.String("error", err.Error()))
		return nil
	}

	logLevels := []slog.Level{slog.LevelWarn, slog.LevelError}
	if cfg.ErrorsOnly {
		logLevels = []slog.Level{slog.LevelError}
	}
	return sentryslog.Option{
		EventLevel: []slog.Level{slog.LevelError},
		LogLevel:   logLevels,
	}.NewSentryHandler(context.Background())
}
