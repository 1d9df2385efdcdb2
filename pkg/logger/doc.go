// Package logger builds the process *slog.Logger.
//
// Output goes to stdout as JSON or text at the configured level. When a Sentry
// DSN is set, warnings are also shipped as Sentry logs and errors become
// Sentry events. ContextExtractor values add request-scoped attributes (such
// as the request id) to every record written with a context:
//
//	log := logger.FromConfig(boot.Log, middlewares.RequestIDExtractor())
//	log.InfoContext(ctx, "page rendered", "module", "home")
//
// NewNope returns a logger that discards everything and is the default for
// applications and tests that never configure one.
package logger
