package internal

import (
	"context"
	"strings"
	"time"

	"github.com/dmitrymomot/frontdoor/pkg/cache"
	"github.com/dmitrymomot/frontdoor/pkg/config"
	"github.com/dmitrymomot/frontdoor/pkg/health"
)

// Mode describes which parts of the environment are usable.
type Mode uint8

const (
	LocalConfigPresent Mode = 1 << iota
	DBAvailable
	DBConfigAvailable
	MaintenanceDisabled
)

const modeNormal = LocalConfigPresent | DBAvailable | DBConfigAvailable | MaintenanceDisabled

// Has reports whether every bit of f is set.
func (m Mode) Has(f Mode) bool {
	return m&f == f
}

// IsInstall reports an unconfigured node: no local config or no config
// table.
func (m Mode) IsInstall() bool {
	return !m.Has(LocalConfigPresent) || !m.Has(DBConfigAvailable)
}

// IsNormal reports a fully configured node outside maintenance.
func (m Mode) IsNormal() bool {
	return m.Has(modeNormal)
}

func (m Mode) String() string {
	if m.IsNormal() {
		return "normal"
	}
	var parts []string
	for _, f := range []struct {
		bit  Mode
		name string
	}{
		{LocalConfigPresent, "local_config"},
		{DBAvailable, "db"},
		{DBConfigAvailable, "db_config"},
		{MaintenanceDisabled, "no_maintenance"},
	} {
		if m.Has(f.bit) {
			parts = append(parts, f.name)
		}
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, "|")
}

const (
	modeCacheKey = "mode"
	modeCacheTTL = time.Second
	modeTimeout  = 2 * time.Second
)

// modeDetector probes the environment. Results are cached briefly so a
// busy node does not ping the database on every request.
type modeDetector struct {
	localConfig bool
	dbCheck     health.CheckFunc
	configCheck health.CheckFunc
	config      config.Store
	cache       *cache.Memory[Mode]
}

func (d *modeDetector) Detect(ctx context.Context) Mode {
	m, err := cache.GetOrSet(ctx, d.cache, modeCacheKey, func(ctx context.Context) (Mode, time.Duration, error) {
		return d.probe(ctx), modeCacheTTL, nil
	})
	if err != nil {
		return d.probe(ctx)
	}
	return m
}

func (d *modeDetector) probe(ctx context.Context) Mode {
	var m Mode
	if d.localConfig {
		m |= LocalConfigPresent
	}

	checks := health.Checks{}
	if d.dbCheck != nil {
		checks["db"] = d.dbCheck
	}
	if d.configCheck != nil {
		checks["config"] = d.configCheck
	}
	resp := health.Run(ctx, checks, health.WithTimeout(modeTimeout))

	if resp.Passed("db") {
		m |= DBAvailable
	}
	if m.Has(DBAvailable) && resp.Passed("config") {
		m |= DBConfigAvailable
	}
	if !config.Bool(ctx, d.config, "system", "maintenance") {
		m |= MaintenanceDisabled
	}
	return m
}

func (d *modeDetector) Close() error {
	return d.cache.Close()
}
