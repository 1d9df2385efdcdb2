package internal

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/dmitrymomot/frontdoor/pkg/logger"
)

// RunOption configures App.Run.
type RunOption func(*runConfig)

type runConfig struct {
	logger          *slog.Logger
	shutdownTimeout time.Duration
	hooks           []func(context.Context) error
	ctx             context.Context
}

// Logger sets the logger used for server lifecycle messages.
func Logger(l *slog.Logger) RunOption {
	return func(c *runConfig) {
		if l != nil {
			c.logger = l
		}
	}
}

// ShutdownTimeout bounds graceful shutdown, including hooks. Defaults to 30s.
func ShutdownTimeout(d time.Duration) RunOption {
	return func(c *runConfig) {
		if d > 0 {
			c.shutdownTimeout = d
		}
	}
}

// ShutdownHook registers fn to run after the listener is closed. Hooks run
// in registration order; the App's own caches are released last.
//
//	frontdoor.ShutdownHook(db.Shutdown(pool))
func ShutdownHook(fn func(context.Context) error) RunOption {
	return func(c *runConfig) {
		if fn != nil {
			c.hooks = append(c.hooks, fn)
		}
	}
}

// WithContext sets the parent of the signal context. Cancelling it stops the
// server like SIGTERM does.
func WithContext(ctx context.Context) RunOption {
	return func(c *runConfig) {
		if ctx != nil {
			c.ctx = ctx
		}
	}
}

// Run listens on addr and serves until SIGINT, SIGTERM or the WithContext
// context ends.
//
//	err := app.Run(":8080", frontdoor.Logger(log), frontdoor.ShutdownHook(db.Shutdown(pool)))
func (a *App) Run(addr string, opts ...RunOption) error {
	if addr == "" {
		addr = ":8080"
	}
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	return a.serveListener(ln, opts...)
}

func (a *App) serveListener(ln net.Listener, opts ...RunOption) error {
	cfg := runConfig{
		logger:          logger.NewNope(),
		shutdownTimeout: defaultShutdownTimeout,
		ctx:             context.Background(),
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	srv := &http.Server{
		Handler:           a.router,
		ReadTimeout:       defaultReadTimeout,
		WriteTimeout:      defaultWriteTimeout,
		IdleTimeout:       defaultIdleTimeout,
		ReadHeaderTimeout: defaultReadHeaderTimeout,
		MaxHeaderBytes:    defaultMaxHeaderBytes,
	}

	ctx, stop := signal.NotifyContext(cfg.ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		cfg.logger.Info("server starting", slog.String("address", ln.Addr().String()))
		if err := srv.Serve(ln); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		cfg.logger.Info("shutting down server")

		sctx, cancel := context.WithTimeout(context.Background(), cfg.shutdownTimeout)
		defer cancel()

		errs := []error{srv.Shutdown(sctx)}
		for _, hook := range cfg.hooks {
			if err := hook(sctx); err != nil {
				cfg.logger.Error("shutdown hook failed", slog.Any("error", err))
				errs = append(errs, err)
			}
		}
		errs = append(errs, a.Close())
		return errors.Join(errs...)
	})

	err := g.Wait()
	if err != nil {
		cfg.logger.Error("shutdown completed with errors", slog.Any("error", err))
		return err
	}
	cfg.logger.Info("shutdown completed")
	return nil
}
