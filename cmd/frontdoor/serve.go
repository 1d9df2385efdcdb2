package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/dmitrymomot/frontdoor"
	"github.com/dmitrymomot/frontdoor/middlewares"
	"github.com/dmitrymomot/frontdoor/modules"
	"github.com/dmitrymomot/frontdoor/pkg/config"
	"github.com/dmitrymomot/frontdoor/pkg/db"
	"github.com/dmitrymomot/frontdoor/pkg/l10n"
	"github.com/dmitrymomot/frontdoor/pkg/logger"
	"github.com/dmitrymomot/frontdoor/pkg/profile"
	"github.com/dmitrymomot/frontdoor/pkg/redis"
	"github.com/dmitrymomot/frontdoor/pkg/session"
	"github.com/dmitrymomot/frontdoor/pkg/theme"
	"github.com/dmitrymomot/frontdoor/pkg/views"
)

func serveCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			boot, err := config.LoadBoot()
			if err != nil {
				return err
			}
			if addr != "" {
				boot.Addr = addr
			}
			return serve(cmd.Context(), boot)
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", "", "Listen address (overrides FRONTDOOR_ADDR)")

	return cmd
}

func serve(ctx context.Context, boot config.Boot) error {
	log := logger.FromConfig(boot.Log, middlewares.RequestIDExtractor())

	local, err := config.LoadFile(boot.LocalConfigFile)
	localPresent := err == nil
	switch {
	case errors.Is(err, config.ErrNoLocalConfig):
		log.Warn("local config file missing, serving installer", "path", boot.LocalConfigFile)
		local = config.NewStatic(nil)
	case err != nil:
		return err
	}

	dbase, err := openDatabase(ctx, boot.DB, boot.ConfigCacheTTL, local, log)
	if err != nil {
		return err
	}
	store := dbase.store
	readiness := dbase.readiness
	runOpts := append([]frontdoor.RunOption{frontdoor.Logger(log)}, dbase.hooks...)

	var (
		sessions = session.NewMemoryStore()
		tokens   = profile.NewMemoryTokens()
	)
	if boot.Redis.URL != "" {
		client, err := redis.Open(ctx, boot.Redis)
		if err != nil {
			return err
		}
		sessions = session.NewRedisStore(client)
		tokens = profile.NewRedisTokens(client)
		readiness = append(readiness, frontdoor.WithReadinessCheck("redis", redis.Healthcheck(client)))
		runOpts = append(runOpts, frontdoor.ShutdownHook(redis.Shutdown(client)))
	}
	runOpts = append(runOpts, frontdoor.ShutdownHook(func(context.Context) error {
		return errors.Join(sessions.Close(), tokens.Close())
	}))

	catalog, err := l10n.New(
		l10n.WithDefaultLanguage(boot.DefaultLanguage),
		l10n.WithYAMLDir(views.Locales()),
	)
	if err != nil {
		return err
	}

	themes := views.Templates()
	if boot.ThemeDir != "" {
		themes = os.DirFS(boot.ThemeDir)
	}
	themeName := config.String(ctx, store, "system", "theme", "")

	metrics := middlewares.NewMetrics()

	app := frontdoor.New(
		frontdoor.WithVersion(version),
		frontdoor.WithCustomLogger(log),
		frontdoor.WithConfig(store),
		frontdoor.WithLocalConfig(localPresent),
		frontdoor.WithDatabaseCheck(dbase.dbCheck),
		frontdoor.WithConfigTableCheck(dbase.tableCheck),
		frontdoor.WithCatalog(catalog),
		frontdoor.WithSession(sessions,
			frontdoor.WithSessionSecret(boot.SessionSecret),
			frontdoor.WithSessionSecure(boot.SecureCookies),
		),
		frontdoor.WithTokens(tokens),
		frontdoor.WithUsers(userStore(dbase.users)),
		frontdoor.WithTheme(theme.New(themes, themeName)),
		frontdoor.WithAdmission(boot.MaxInFlight, boot.MaxLoad),
		frontdoor.WithMiddleware(
			middlewares.RequestID(),
			metrics.Middleware(),
			middlewares.Recover(),
		),
		frontdoor.WithMetricsHandler("/metrics", metrics.Handler()),
		frontdoor.WithHealthChecks(readiness...),
		frontdoor.WithControllers(modules.Defaults(accounts(dbase.users), nil)...),
		frontdoor.WithModuleFiles(modules.Files(), "."),
	)

	log.Info("starting server", "addr", boot.Addr, "version", version)
	return app.Run(boot.Addr, runOpts...)
}

// userStore avoids handing a typed nil to the app.
func userStore(u *db.Users) frontdoor.UserStore {
	if u == nil {
		return nil
	}
	return u
}

func accounts(u *db.Users) modules.Accounts {
	if u == nil {
		return nil
	}
	return u
}

const bootPingTimeout = 5 * time.Second

// database is the Postgres-backed part of the wiring. Without a connection
// string the site keeps install-mode defaults.
type database struct {
	store      config.Store
	users      *db.Users
	dbCheck    func(context.Context) error
	tableCheck func(context.Context) error
	readiness  []frontdoor.HealthOption
	hooks      []frontdoor.RunOption
}

// openDatabase wires the pool lazily. A database that is down at boot
// fails the per-request probe until it comes back; it does not fail the
// process.
func openDatabase(ctx context.Context, cfg db.Config, ttl time.Duration, local config.Store, log *slog.Logger) (database, error) {
	d := database{
		store:      local,
		dbCheck:    func(context.Context) error { return db.ErrNotConfigured },
		tableCheck: func(context.Context) error { return config.ErrNotConfigured },
	}

	pool, err := db.Open(ctx, cfg)
	switch {
	case errors.Is(err, db.ErrNotConfigured):
		log.Warn("database not configured")
		return d, nil
	case err != nil:
		return d, err
	}

	pctx, cancel := context.WithTimeout(ctx, bootPingTimeout)
	defer cancel()
	if err := pool.Ping(pctx); err != nil {
		log.Warn("database not reachable yet", "error", err)
	}

	pg := config.NewPostgres(pool)
	cached := config.Cached(pg, ttl)
	d.store = config.Chain(cached, local)
	d.users = db.NewUsers(pool)
	d.dbCheck = db.Healthcheck(pool)
	d.tableCheck = pg.Available
	d.readiness = []frontdoor.HealthOption{frontdoor.WithReadinessCheck("db", d.dbCheck)}
	d.hooks = []frontdoor.RunOption{
		frontdoor.ShutdownHook(func(context.Context) error { return cached.Close() }),
		frontdoor.ShutdownHook(db.Shutdown(pool)),
	}
	return d, nil
}
