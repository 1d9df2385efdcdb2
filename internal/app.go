package internal

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/dmitrymomot/frontdoor/pkg/cache"
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

// Default server timeouts (hardcoded, opinionated).
const (
	defaultReadTimeout       = 15 * time.Second
	defaultWriteTimeout      = 30 * time.Second
	defaultIdleTimeout       = 120 * time.Second
	defaultReadHeaderTimeout = 5 * time.Second
	defaultMaxHeaderBytes    = 1 << 20 // 1MB
	defaultShutdownTimeout   = 30 * time.Second
)

// Default in-flight request limit.
const defaultMaxInFlight = 512

// DefaultNav is the navigation bar used when none is configured.
// Labels are translation keys; URLs are relative to the base URL.
var DefaultNav = []views.NavItem{
	{Key: "home", Label: "Home", URL: "home"},
	{Key: "network", Label: "Network", URL: "network"},
	{Key: "help", Label: "Help", URL: "help"},
	{Key: "login", Label: "Login", URL: "login"},
}

// App is the front controller. Every path not claimed by a health or
// metrics endpoint runs through the same pipeline: environment checks,
// session, remote identity, module resolution, lifecycle, page assembly.
// App is immutable after creation - all configuration is done via New().
type App struct {
	router       chi.Router
	errorHandler ErrorHandler
	healthConfig *healthConfig
	logger       *slog.Logger
	version      string

	config   config.Store
	catalog  *l10n.Catalog
	sessions *SessionManager
	tokens   *profile.Tokens
	users    UserStore

	hooks       *hook.Registry
	addons      []*Addon
	controllers map[string]any
	pending     []any
	files       *legacy.Loader
	theme       themeConfig
	nav         []views.NavItem

	env         *modeDetector
	admission   *admission
	maxInFlight int64
	maxLoad     float64
	loadFunc    LoadFunc

	middlewares     []Middleware
	httpMiddlewares []func(http.Handler) http.Handler
	metricsPath     string
	metricsHandler  http.Handler
	staticRoutes    []staticRoute
}

type themeConfig struct {
	renderer *theme.Renderer
	hooks    ThemeHooks
}

// New creates a new application with the given options.
//
// Example:
//
//	app := frontdoor.New(
//	    frontdoor.WithConfig(store),
//	    frontdoor.WithSession(session.NewRedisStore(rdb)),
//	    frontdoor.WithControllers(&modules.Home{}, &modules.Xrd{}),
//	)
func New(opts ...Option) *App {
	a := &App{
		router:      chi.NewRouter(),
		logger:      logger.NewNope(), // Default: noop logger (before options)
		version:     "dev",
		config:      config.NewStatic(nil),
		hooks:       hook.NewRegistry(),
		controllers: make(map[string]any),
		nav:         DefaultNav,
		maxInFlight: defaultMaxInFlight,
		env:         &modeDetector{},
		theme:       themeConfig{renderer: theme.New(views.Templates(), "")},
	}

	for _, opt := range opts {
		opt(a)
	}

	if a.catalog == nil {
		a.catalog = defaultCatalog(a.logger)
	}
	if a.sessions == nil {
		a.sessions = NewSessionManager(session.NewMemoryStore(cache.WithCleanupInterval(time.Minute)))
	}
	for _, ctrl := range a.pending {
		if !isController(ctrl) {
			a.logger.Warn("controller implements no lifecycle phase, ignored", slog.String("type", controllerName(ctrl)))
			continue
		}
		a.controllers[controllerName(ctrl)] = ctrl
	}
	for _, addon := range a.addons {
		addon.registry = hook.NewRegistry()
		for event, fn := range addon.Hooks {
			addon.registry.Register(event, fn)
		}
	}

	a.env.config = a.config
	a.env.cache = cache.NewMemory[Mode]()
	a.admission = newAdmission(a.maxInFlight, a.maxLoad, a.loadFunc)

	a.setupRoutes()
	return a
}

func defaultCatalog(l *slog.Logger) *l10n.Catalog {
	cat, err := l10n.New(l10n.WithYAMLDir(views.Locales()))
	if err != nil {
		l.Error("load built-in translations", slog.Any("error", err))
		cat, _ = l10n.New()
	}
	return cat
}

// Router returns the underlying chi.Router for the App.
func (a *App) Router() chi.Router {
	return a.router
}

// ServeHTTP implements http.Handler.
func (a *App) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	a.router.ServeHTTP(w, r)
}

// Close releases the caches owned by the App.
func (a *App) Close() error {
	return errors.Join(a.env.Close(), a.admission.Close())
}

// setupRoutes mounts the health and metrics endpoints and sends
// everything else to the front controller.
func (a *App) setupRoutes() {
	a.router.Use(middleware.RealIP)
	for _, mw := range a.httpMiddlewares {
		a.router.Use(mw)
	}

	if a.healthConfig != nil {
		a.router.Get(a.healthConfig.livenessPath, health.LivenessHandler())
		a.router.Get(a.healthConfig.readinessPath, health.ReadinessHandler(a.healthConfig.checks, health.WithLogger(a.logger)))
	}
	if a.metricsHandler != nil {
		a.router.Handle(a.metricsPath, a.metricsHandler)
	}
	for _, sr := range a.staticRoutes {
		a.router.Handle(strings.TrimSuffix(sr.pattern, "/")+"/*", sr.handler)
	}

	a.router.HandleFunc("/", a.handle)
	a.router.HandleFunc("/*", a.handle)
}

// healthConfig holds health check endpoint configuration.
type healthConfig struct {
	checks        health.Checks
	livenessPath  string
	readinessPath string
}

// Default health check paths.
const (
	defaultLivenessPath  = "/health/live"
	defaultReadinessPath = "/health/ready"
)

// HealthOption configures health check endpoints.
type HealthOption func(*healthConfig)

// WithLivenessPath sets a custom liveness endpoint path.
// Defaults to "/health/live".
func WithLivenessPath(path string) HealthOption {
	return func(c *healthConfig) {
		if path != "" {
			c.livenessPath = path
		}
	}
}

// WithReadinessPath sets a custom readiness endpoint path.
// Defaults to "/health/ready".
func WithReadinessPath(path string) HealthOption {
	return func(c *healthConfig) {
		if path != "" {
			c.readinessPath = path
		}
	}
}

// WithReadinessCheck adds a named readiness check.
// Checks run in parallel during readiness probe.
//
// Example:
//
//	frontdoor.WithReadinessCheck("db", db.Healthcheck(pool))
func WithReadinessCheck(name string, fn health.CheckFunc) HealthOption {
	return func(c *healthConfig) {
		if c.checks == nil {
			c.checks = make(health.Checks)
		}
		c.checks[name] = fn
	}
}
