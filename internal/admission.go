package internal

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/dmitrymomot/frontdoor/pkg/cache"
)

// LoadFunc returns the current one-minute load average.
type LoadFunc func(ctx context.Context) (float64, error)

const (
	loadCacheKey = "loadavg"
	loadCacheTTL = time.Second
	retryAfter   = 120
)

// admission rejects requests when too many are in flight or the host is
// overloaded.
type admission struct {
	inFlight *semaphore.Weighted
	maxLoad  float64
	load     LoadFunc
	cache    *cache.Memory[float64]
}

func newAdmission(maxInFlight int64, maxLoad float64, load LoadFunc) *admission {
	a := &admission{
		maxLoad: maxLoad,
		load:    load,
		cache:   cache.NewMemory[float64](),
	}
	if maxInFlight > 0 {
		a.inFlight = semaphore.NewWeighted(maxInFlight)
	}
	if a.load == nil {
		a.load = procLoadAvg
	}
	return a
}

// Admit reserves a slot. The returned release func must be called when
// ok is true.
func (a *admission) Admit(ctx context.Context) (release func(), ok bool) {
	if a.overloaded(ctx) {
		return nil, false
	}
	if a.inFlight == nil {
		return func() {}, true
	}
	if !a.inFlight.TryAcquire(1) {
		return nil, false
	}
	return func() { a.inFlight.Release(1) }, true
}

func (a *admission) overloaded(ctx context.Context) bool {
	if a.maxLoad <= 0 {
		return false
	}
	load, err := cache.GetOrSet(ctx, a.cache, loadCacheKey, func(ctx context.Context) (float64, time.Duration, error) {
		v, err := a.load(ctx)
		return v, loadCacheTTL, err
	})
	if err != nil {
		return false
	}
	return load > a.maxLoad
}

func (a *admission) Close() error {
	return a.cache.Close()
}

// procLoadAvg reads the one-minute load average from /proc/loadavg.
func procLoadAvg(context.Context) (float64, error) {
	b, err := os.ReadFile("/proc/loadavg")
	if err != nil {
		return 0, fmt.Errorf("read loadavg: %w", err)
	}
	return parseLoadAvg(string(b))
}

func parseLoadAvg(s string) (float64, error) {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return 0, fmt.Errorf("parse loadavg: empty input")
	}
	v, err := strconv.ParseFloat(fields[0], 64)
	if err != nil {
		return 0, fmt.Errorf("parse loadavg: %w", err)
	}
	return v, nil
}
