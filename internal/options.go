package internal

import (
	"io/fs"
	"log/slog"
	"net/http"
	"strings"

	"github.com/dmitrymomot/frontdoor/pkg/config"
	"github.com/dmitrymomot/frontdoor/pkg/health"
	"github.com/dmitrymomot/frontdoor/pkg/hook"
	"github.com/dmitrymomot/frontdoor/pkg/l10n"
	"github.com/dmitrymomot/frontdoor/pkg/legacy"
	"github.com/dmitrymomot/frontdoor/pkg/logger"
	"github.com/dmitrymomot/frontdoor/pkg/profile"
	"github.com/dmitrymomot/frontdoor/pkg/session"
	"github.com/dmitrymomot/frontdoor/pkg/theme"
	"github.com/dmitrymomot/frontdoor/pkg/views"
)

// Option configures the application.
type Option func(*App)

// WithVersion sets the value of the X-Frontdoor-Version header.
func WithVersion(v string) Option {
	return func(a *App) {
		if v != "" {
			a.version = v
		}
	}
}

// WithConfig sets the runtime configuration store.
//
// Example:
//
//	frontdoor.WithConfig(config.Chain(local, config.Cached(config.NewPostgres(pool), time.Minute)))
func WithConfig(s config.Store) Option {
	return func(a *App) {
		if s != nil {
			a.config = s
		}
	}
}

// WithLocalConfig marks the node as installed: a local config file was
// found at boot.
func WithLocalConfig(present bool) Option {
	return func(a *App) {
		a.env.localConfig = present
	}
}

// WithDatabaseCheck sets the probe that decides whether the database is
// reachable.
func WithDatabaseCheck(fn health.CheckFunc) Option {
	return func(a *App) {
		a.env.dbCheck = fn
	}
}

// WithConfigTableCheck sets the probe that decides whether the config
// table can be read. It only runs when the database check passes.
func WithConfigTableCheck(fn health.CheckFunc) Option {
	return func(a *App) {
		a.env.configCheck = fn
	}
}

// WithCatalog sets the translation catalog. Defaults to the built-in
// locales.
func WithCatalog(cat *l10n.Catalog) Option {
	return func(a *App) {
		if cat != nil {
			a.catalog = cat
		}
	}
}

// WithSession configures session storage.
// Sessions are loaded on every request and saved automatically before
// the response is written.
//
// Example:
//
//	frontdoor.WithSession(session.NewRedisStore(rdb),
//	    frontdoor.WithSessionCookieName("__sid"),
//	    frontdoor.WithSessionSecure(true),
//	)
func WithSession(store session.Store, opts ...SessionOption) Option {
	return func(a *App) {
		a.sessions = NewSessionManager(store, opts...)
	}
}

// WithTokens enables OpenWebAuth token redemption through the owt query
// parameter.
func WithTokens(t *profile.Tokens) Option {
	return func(a *App) {
		a.tokens = t
	}
}

// WithUsers sets the store used to look up a local user's language.
func WithUsers(u UserStore) Option {
	return func(a *App) {
		a.users = u
	}
}

// WithHook registers an application hook. App hooks run before addon
// hooks on the same event.
//
// Example:
//
//	frontdoor.WithHook(hook.PageEnd, func(ctx context.Context, p hook.Payload) (hook.Payload, error) {
//	    p.Content += "<!-- served -->"
//	    return p, nil
//	})
func WithHook(event string, fn hook.Func) Option {
	return func(a *App) {
		a.hooks.Register(event, fn)
	}
}

// WithAddons registers addons. An addon is only active when its name is
// listed in the system.addon config key.
func WithAddons(addons ...*Addon) Option {
	return func(a *App) {
		for _, addon := range addons {
			if addon != nil && addon.Name != "" {
				a.addons = append(a.addons, addon)
			}
		}
	}
}

// WithControllers registers module controllers. A controller is bound to
// the module named after its type: *Home serves /home.
func WithControllers(ctrls ...any) Option {
	return func(a *App) {
		a.pending = append(a.pending, ctrls...)
	}
}

// WithModuleFiles serves pages under <dir>/mod in fsys as modules when no
// addon or controller claims the name. Markdown is preferred over HTML.
//
// Example:
//
//	//go:embed mod
//	var pages embed.FS
//
//	frontdoor.WithModuleFiles(pages, ".")
func WithModuleFiles(fsys fs.FS, dir string) Option {
	return func(a *App) {
		sub, err := fs.Sub(fsys, dir)
		if err != nil {
			panic(err)
		}
		a.files = legacy.NewLoader(sub)
	}
}

// WithTheme replaces the page renderer.
func WithTheme(r *theme.Renderer) Option {
	return func(a *App) {
		if r != nil {
			a.theme.renderer = r
		}
	}
}

// WithThemeHooks sets theme callbacks run around the content phases.
func WithThemeHooks(h ThemeHooks) Option {
	return func(a *App) {
		a.theme.hooks = h
	}
}

// WithNav replaces the navigation bar items.
func WithNav(items ...views.NavItem) Option {
	return func(a *App) {
		a.nav = items
	}
}

// WithAdmission limits concurrent requests and the host load average.
// A zero value disables the matching check.
func WithAdmission(maxInFlight int64, maxLoad float64) Option {
	return func(a *App) {
		a.maxInFlight = maxInFlight
		a.maxLoad = maxLoad
	}
}

// WithLoadFunc replaces the load average source. Defaults to
// /proc/loadavg.
func WithLoadFunc(fn LoadFunc) Option {
	return func(a *App) {
		a.loadFunc = fn
	}
}

// WithMiddleware adds middleware around the front controller pipeline.
// Middleware is applied in the order provided.
func WithMiddleware(mw ...Middleware) Option {
	return func(a *App) {
		a.middlewares = append(a.middlewares, mw...)
	}
}

// WithHTTPMiddleware adds net/http middleware to the router. It wraps
// health and metrics endpoints too.
func WithHTTPMiddleware(mw ...func(http.Handler) http.Handler) Option {
	return func(a *App) {
		a.httpMiddlewares = append(a.httpMiddlewares, mw...)
	}
}

// WithMetricsHandler mounts h at path, for example a Prometheus handler.
func WithMetricsHandler(path string, h http.Handler) Option {
	return func(a *App) {
		if path == "" {
			path = "/metrics"
		}
		a.metricsPath = path
		a.metricsHandler = h
	}
}

// WithStaticFiles mounts a static file handler at the given pattern.
// Directory listings are disabled. Files are served with default cache headers.
//
// Example:
//
//	//go:embed public
//	var assets embed.FS
//
//	frontdoor.WithStaticFiles("/view/", assets, "public")
func WithStaticFiles(pattern string, fsys fs.FS, subDir string) Option {
	return func(a *App) {
		subFS, err := fs.Sub(fsys, subDir)
		if err != nil {
			panic(err)
		}

		fileServer := http.StripPrefix(strings.TrimSuffix(pattern, "/"), http.FileServerFS(subFS))

		handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Block directory listings
			if strings.HasSuffix(r.URL.Path, "/") {
				http.NotFound(w, r)
				return
			}

			w.Header().Set("Cache-Control", "public, max-age=3600")
			w.Header().Set("X-Content-Type-Options", "nosniff")

			fileServer.ServeHTTP(w, r)
		})

		a.staticRoutes = append(a.staticRoutes, staticRoute{handler: handler, pattern: pattern})
	}
}

type staticRoute struct {
	handler http.Handler
	pattern string
}

// WithErrorHandler sets a custom handler for errors that escape the
// pipeline.
//
// Example:
//
//	frontdoor.WithErrorHandler(func(c frontdoor.Context, err error) error {
//	    c.LogError("request failed", "error", err)
//	    c.Response().WriteHeader(http.StatusInternalServerError)
//	    return nil
//	})
func WithErrorHandler(h ErrorHandler) Option {
	return func(a *App) {
		a.errorHandler = h
	}
}

// WithHealthChecks enables health check endpoints with optional configuration.
// Liveness (/health/live): Always returns OK if process is running.
// Readiness (/health/ready): Runs all configured checks.
//
// Example:
//
//	frontdoor.WithHealthChecks(
//	    frontdoor.WithReadinessCheck("db", db.Healthcheck(pool)),
//	    frontdoor.WithReadinessCheck("redis", redis.Healthcheck(client)),
//	)
func WithHealthChecks(opts ...HealthOption) Option {
	return func(a *App) {
		cfg := &healthConfig{
			livenessPath:  defaultLivenessPath,
			readinessPath: defaultReadinessPath,
			checks:        make(health.Checks),
		}
		for _, opt := range opts {
			opt(cfg)
		}
		a.healthConfig = cfg
	}
}

// WithLogger creates a logger with a component name and optional extractors.
// The component name is added to every log entry for easy filtering.
// Extractors pull values from context (e.g., request_id).
//
// Example:
//
//	frontdoor.New(
//	    frontdoor.WithLogger("frontdoor", requestIDExtractor),
//	)
func WithLogger(component string, extractors ...logger.ContextExtractor) Option {
	return func(a *App) {
		a.logger = logger.New(extractors...).With("component", component)
	}
}

// WithCustomLogger sets a fully custom logger.
// Use this when you need complete control over logging configuration.
//
// Example:
//
//	frontdoor.New(
//	    frontdoor.WithCustomLogger(logger.FromConfig(cfg)),
//	)
func WithCustomLogger(l *slog.Logger) Option {
	return func(a *App) {
		if l != nil {
			a.logger = l
		}
	}
}
