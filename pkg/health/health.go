package health

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/dmitrymomot/frontdoor/pkg/logger"
)

const (
	StatusHealthy   = "healthy"
	StatusUnhealthy = "unhealthy"
)

const defaultTimeout = 5 * time.Second

// CheckFunc probes one dependency. db.Healthcheck and redis.Healthcheck
// return one.
type CheckFunc func(ctx context.Context) error

// Checks maps a check name to its probe.
type Checks map[string]CheckFunc

// Response is the aggregated outcome of a Run.
type Response struct {
	Status string           `json:"status"`
	Checks map[string]Check `json:"checks,omitempty"`
}

// Check is the outcome of one probe.
type Check struct {
	Status  string `json:"status"`
	Error   string `json:"error,omitempty"`
	Latency string `json:"latency"`
}

// Passed reports whether the named check ran and succeeded.
func (r *Response) Passed(name string) bool {
	if r == nil {
		return false
	}
	c, ok := r.Checks[name]
	return ok && c.Status == StatusHealthy
}

// Err is nil when every check passed. Otherwise it joins ErrCheckFailed
// with each failure, sorted by name.
func (r *Response) Err() error {
	if r == nil || r.Status == StatusHealthy {
		return nil
	}
	errs := []error{ErrCheckFailed}
	for _, name := range slices.Sorted(maps.Keys(r.Checks)) {
		if c := r.Checks[name]; c.Status != StatusHealthy {
			errs = append(errs, fmt.Errorf("%s: %s", name, c.Error))
		}
	}
	return errors.Join(errs...)
}

type options struct {
	log     *slog.Logger
	timeout time.Duration
}

// Option configures Run and the probe handlers.
type Option func(*options)

// WithTimeout bounds the whole run. Defaults to 5s.
func WithTimeout(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.timeout = d
		}
	}
}

// WithLogger logs failed checks at warn level.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.log = l
		}
	}
}

func collect(opts []Option) options {
	o := options{log: logger.NewNope(), timeout: defaultTimeout}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Run executes checks concurrently under one shared deadline.
func Run(ctx context.Context, checks Checks, opts ...Option) *Response {
	return run(ctx, checks, collect(opts))
}

func run(ctx context.Context, checks Checks, o options) *Response {
	resp := &Response{Status: StatusHealthy}
	if len(checks) == 0 {
		return resp
	}

	ctx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	resp.Checks = make(map[string]Check, len(checks))
	var (
		mu sync.Mutex
		wg sync.WaitGroup
	)
	for name, probe := range checks {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c := probeOne(ctx, probe)
			if c.Status != StatusHealthy {
				o.log.WarnContext(ctx, "health check failed", "check", name, "error", c.Error)
			}
			mu.Lock()
			defer mu.Unlock()
			resp.Checks[name] = c
			if c.Status != StatusHealthy {
				resp.Status = StatusUnhealthy
			}
		}()
	}
	wg.Wait()
	return resp
}

func probeOne(ctx context.Context, probe CheckFunc) Check {
	start := time.Now()
	var err error
	if probe == nil {
		err = errors.New("no probe")
	} else {
		err = probe(ctx)
	}
	c := Check{Status: StatusHealthy, Latency: time.Since(start).Round(time.Microsecond).String()}
	if err != nil {
		c.Status = StatusUnhealthy
		c.Error = err.Error()
	}
	return c
}
