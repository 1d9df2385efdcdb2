package frontdoor

import (
	"context"
	"io/fs"
	"log/slog"
	"net/http"
	"time"

	"github.com/dmitrymomot/frontdoor/internal"
	"github.com/dmitrymomot/frontdoor/pkg/config"
	"github.com/dmitrymomot/frontdoor/pkg/health"
	"github.com/dmitrymomot/frontdoor/pkg/hook"
	"github.com/dmitrymomot/frontdoor/pkg/l10n"
	"github.com/dmitrymomot/frontdoor/pkg/logger"
	"github.com/dmitrymomot/frontdoor/pkg/profile"
	"github.com/dmitrymomot/frontdoor/pkg/session"
	"github.com/dmitrymomot/frontdoor/pkg/theme"
	"github.com/dmitrymomot/frontdoor/pkg/views"
)

// Type aliases - public API
type (
	// App is the front controller. It serves every request that is not a
	// health, metrics or static route.
	App = internal.App

	// Context is the per-request state handed to modules, hooks and themes.
	Context = internal.Context

	// HandlerFunc is the signature wrapped by middleware.
	HandlerFunc = internal.HandlerFunc

	// Middleware wraps the front controller.
	Middleware = internal.Middleware

	// ErrorHandler handles errors that escape the front controller.
	ErrorHandler = internal.ErrorHandler

	// Option configures the application.
	Option = internal.Option

	// RunOption configures the server runtime.
	RunOption = internal.RunOption

	// HealthOption configures health check endpoints.
	HealthOption = internal.HealthOption

	// SessionOption configures the session cookie.
	SessionOption = internal.SessionOption

	// ContextExtractor extracts a slog attribute from context.
	ContextExtractor = logger.ContextExtractor

	// Route is the parsed request path.
	Route = internal.Route

	// Mode is the environment bitset computed per request.
	Mode = internal.Mode

	// HTTPError is an error carrying an HTTP status.
	HTTPError = internal.HTTPError

	// Addon is a statically registered extension.
	Addon = internal.Addon

	// FuncModule is a module made of optional phase functions.
	FuncModule = internal.FuncModule

	// ThemeHooks let the active theme adjust the page around the module.
	ThemeHooks = internal.ThemeHooks

	// UserStore looks up local account data.
	UserStore = internal.UserStore

	// LoadFunc reports the system load average.
	LoadFunc = internal.LoadFunc

	// HookFunc is a hook handler.
	HookFunc = hook.Func

	// NavItem is an entry of the navigation bar.
	NavItem = views.NavItem

	// Session is the per-visitor session.
	Session = session.Session

	// SessionStore persists sessions.
	SessionStore = session.Store

	// ConfigStore reads site configuration.
	ConfigStore = config.Store
)

// Module phase interfaces. A controller implements any subset.
type (
	Initer       = internal.Initer
	RawContenter = internal.RawContenter
	Poster       = internal.Poster
	AfterPoster  = internal.AfterPoster
	Contenter    = internal.Contenter
)

// Modules served instead of the requested one.
const (
	ModuleInstall     = internal.ModuleInstall
	ModuleMaintenance = internal.ModuleMaintenance
)

// Errors
var (
	ErrPhaseFailed   = internal.ErrPhaseFailed
	ErrHookFailed    = internal.ErrHookFailed
	ErrRenderFailed  = internal.ErrRenderFailed
	ErrSessionFailed = internal.ErrSessionFailed
)

// New creates the front controller with the given options.
//
// Example:
//
//	app := frontdoor.New(
//	    frontdoor.WithConfig(cfg),
//	    frontdoor.WithControllers(modules.Defaults(users, auth)...),
//	    frontdoor.WithModuleFiles(modules.Files(), "."),
//	)
//
//	err := app.Run(":8080", frontdoor.Logger(log))
func New(opts ...Option) *App {
	return internal.New(opts...)
}

// App options

// WithVersion sets the value of the X-Frontdoor-Version header.
func WithVersion(v string) Option {
	return internal.WithVersion(v)
}

// WithConfig sets the site configuration store.
func WithConfig(s config.Store) Option {
	return internal.WithConfig(s)
}

// WithLocalConfig records whether the node has a local config file.
func WithLocalConfig(present bool) Option {
	return internal.WithLocalConfig(present)
}

// WithDatabaseCheck sets the probe used to decide whether the database is
// reachable.
func WithDatabaseCheck(fn health.CheckFunc) Option {
	return internal.WithDatabaseCheck(fn)
}

// WithConfigTableCheck sets the probe used to decide whether the config
// table exists.
func WithConfigTableCheck(fn health.CheckFunc) Option {
	return internal.WithConfigTableCheck(fn)
}

// WithCatalog sets the translation catalog.
func WithCatalog(cat *l10n.Catalog) Option {
	return internal.WithCatalog(cat)
}

// WithSession sets the session store and cookie options.
func WithSession(store session.Store, opts ...SessionOption) Option {
	return internal.WithSession(store, opts...)
}

// WithTokens sets the OpenWebAuth token store.
func WithTokens(t *profile.Tokens) Option {
	return internal.WithTokens(t)
}

// WithUsers sets the local account lookup.
func WithUsers(u UserStore) Option {
	return internal.WithUsers(u)
}

// WithHook registers fn for a hook event.
func WithHook(event string, fn hook.Func) Option {
	return internal.WithHook(event, fn)
}

// WithAddons registers addons. Only those listed in system.addon are
// active.
func WithAddons(addons ...*Addon) Option {
	return internal.WithAddons(addons...)
}

// WithControllers registers module controllers. A controller serves the
// module whose name, with the first letter upper-cased, matches its type
// name.
func WithControllers(ctrls ...any) Option {
	return internal.WithControllers(ctrls...)
}

// WithModuleFiles serves file modules from dir/mod inside fsys.
func WithModuleFiles(fsys fs.FS, dir string) Option {
	return internal.WithModuleFiles(fsys, dir)
}

// WithTheme sets the page renderer.
func WithTheme(r *theme.Renderer) Option {
	return internal.WithTheme(r)
}

// WithThemeHooks sets the theme callbacks.
func WithThemeHooks(h ThemeHooks) Option {
	return internal.WithThemeHooks(h)
}

// WithNav replaces the default navigation items.
func WithNav(items ...NavItem) Option {
	return internal.WithNav(items...)
}

// WithAdmission sets the in-flight request limit and the maximum load
// average. Zero disables a limit.
func WithAdmission(maxInFlight int64, maxLoad float64) Option {
	return internal.WithAdmission(maxInFlight, maxLoad)
}

// WithLoadFunc overrides how the load average is read.
func WithLoadFunc(fn LoadFunc) Option {
	return internal.WithLoadFunc(fn)
}

// WithMiddleware wraps the front controller. Middleware runs in the order
// provided.
func WithMiddleware(mw ...Middleware) Option {
	return internal.WithMiddleware(mw...)
}

// WithHTTPMiddleware adds net/http middleware in front of every route.
func WithHTTPMiddleware(mw ...func(http.Handler) http.Handler) Option {
	return internal.WithHTTPMiddleware(mw...)
}

// WithMetricsHandler mounts a metrics endpoint at path.
func WithMetricsHandler(path string, h http.Handler) Option {
	return internal.WithMetricsHandler(path, h)
}

// WithStaticFiles mounts a static file handler at the given pattern.
// Directory listings are disabled.
//
// Example:
//
//	//go:embed public
//	var assets embed.FS
//
//	frontdoor.New(
//	    frontdoor.WithStaticFiles("/static/", assets, "public"),
//	)
func WithStaticFiles(pattern string, fsys fs.FS, subDir string) Option {
	return internal.WithStaticFiles(pattern, fsys, subDir)
}

// WithErrorHandler sets a custom handler for errors that escape the front
// controller.
func WithErrorHandler(h ErrorHandler) Option {
	return internal.WithErrorHandler(h)
}

// WithHealthChecks configures the health check endpoints.
// Liveness (/health/live): Always returns OK if process is running.
// Readiness (/health/ready): Runs all configured checks.
//
// Example:
//
//	frontdoor.WithHealthChecks(
//	    frontdoor.WithReadinessCheck("db", db.Healthcheck(pool)),
//	)
func WithHealthChecks(opts ...HealthOption) Option {
	return internal.WithHealthChecks(opts...)
}

// WithLogger creates a logger with a component name and optional extractors.
//
// Example:
//
//	frontdoor.New(
//	    frontdoor.WithLogger("frontdoor", requestIDExtractor),
//	)
func WithLogger(component string, extractors ...ContextExtractor) Option {
	return internal.WithLogger(component, extractors...)
}

// WithCustomLogger sets a fully custom logger.
func WithCustomLogger(l *slog.Logger) Option {
	return internal.WithCustomLogger(l)
}

// Session options

// WithSessionCookieName sets the session cookie name.
func WithSessionCookieName(name string) SessionOption {
	return internal.WithSessionCookieName(name)
}

// WithSessionMaxAge sets the session lifetime in seconds.
func WithSessionMaxAge(seconds int) SessionOption {
	return internal.WithSessionMaxAge(seconds)
}

// WithSessionDomain sets the cookie domain.
func WithSessionDomain(domain string) SessionOption {
	return internal.WithSessionDomain(domain)
}

// WithSessionSecure sets the Secure flag.
func WithSessionSecure(secure bool) SessionOption {
	return internal.WithSessionSecure(secure)
}

// WithSessionSameSite sets the SameSite attribute.
func WithSessionSameSite(sameSite http.SameSite) SessionOption {
	return internal.WithSessionSameSite(sameSite)
}

// WithSessionSecret signs the session cookie with HMAC-SHA256.
// Secrets shorter than 32 bytes are ignored.
func WithSessionSecret(secret string) SessionOption {
	return internal.WithSessionSecret(secret)
}

// Health check options

// WithLivenessPath sets a custom liveness endpoint path.
// Defaults to "/health/live".
func WithLivenessPath(path string) HealthOption {
	return internal.WithLivenessPath(path)
}

// WithReadinessPath sets a custom readiness endpoint path.
// Defaults to "/health/ready".
func WithReadinessPath(path string) HealthOption {
	return internal.WithReadinessPath(path)
}

// WithReadinessCheck adds a named readiness check.
func WithReadinessCheck(name string, fn health.CheckFunc) HealthOption {
	return internal.WithReadinessCheck(name, fn)
}

// Run options

// Logger sets the server logger.
// If nil, logging is disabled.
func Logger(l *slog.Logger) RunOption {
	return internal.Logger(l)
}

// ShutdownTimeout sets the timeout for graceful shutdown.
// Defaults to 30 seconds.
func ShutdownTimeout(d time.Duration) RunOption {
	return internal.ShutdownTimeout(d)
}

// ShutdownHook registers a cleanup function to run during shutdown.
// Hooks are called in the order they were registered.
//
// Example:
//
//	frontdoor.ShutdownHook(db.Shutdown(pool))
func ShutdownHook(fn func(context.Context) error) RunOption {
	return internal.ShutdownHook(fn)
}

// WithContext sets a custom base context for signal handling.
func WithContext(ctx context.Context) RunOption {
	return internal.WithContext(ctx)
}

// Errors

// NewHTTPError creates an error that renders with the given status.
func NewHTTPError(code int, message string) *HTTPError {
	return internal.NewHTTPError(code, message)
}

// ContextValue retrieves a typed value from the context.
// Returns the zero value of T if the key is not found or type assertion fails.
func ContextValue[T any](c Context, key any) T {
	if v, ok := c.Get(key).(T); ok {
		return v
	}
	var zero T
	return zero
}
