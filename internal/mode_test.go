package internal

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/frontdoor/pkg/cache"
	"github.com/dmitrymomot/frontdoor/pkg/config"
)

func TestMode(t *testing.T) {
	t.Parallel()

	assert.True(t, modeNormal.IsNormal())
	assert.False(t, modeNormal.IsInstall())
	assert.Equal(t, "normal", modeNormal.String())

	assert.True(t, Mode(0).IsInstall())
	assert.Equal(t, "none", Mode(0).String())

	m := LocalConfigPresent | DBAvailable
	assert.True(t, m.IsInstall(), "config table missing")
	assert.Equal(t, "local_config|db", m.String())

	m = LocalConfigPresent | DBAvailable | DBConfigAvailable
	assert.False(t, m.IsInstall())
	assert.False(t, m.IsNormal(), "maintenance")
}

func TestModeDetector(t *testing.T) {
	t.Parallel()

	ok := func(context.Context) error { return nil }
	down := func(context.Context) error { return errors.New("down") }

	tests := []struct {
		name   string
		local  bool
		db     func(context.Context) error
		table  func(context.Context) error
		values map[string]map[string]string
		want   Mode
	}{
		{"normal", true, ok, ok, nil, modeNormal},
		{"no local config", false, ok, ok, nil, DBAvailable | DBConfigAvailable | MaintenanceDisabled},
		{"db down hides config table", true, down, ok, nil, LocalConfigPresent | MaintenanceDisabled},
		{"config table missing", true, ok, down, nil, LocalConfigPresent | DBAvailable | MaintenanceDisabled},
		{"no probes", true, nil, nil, nil, LocalConfigPresent | MaintenanceDisabled},
		{
			"maintenance", true, ok, ok,
			map[string]map[string]string{"system": {"maintenance": "1"}},
			LocalConfigPresent | DBAvailable | DBConfigAvailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			d := &modeDetector{
				localConfig: tt.local,
				dbCheck:     tt.db,
				configCheck: tt.table,
				config:      config.NewStatic(tt.values),
				cache:       cache.NewMemory[Mode](),
			}
			t.Cleanup(func() { _ = d.Close() })
			assert.Equal(t, tt.want, d.Detect(context.Background()))
		})
	}
}

func TestModeDetector_Caches(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	d := &modeDetector{
		localConfig: true,
		dbCheck: func(context.Context) error {
			calls.Add(1)
			return nil
		},
		config: config.NewStatic(nil),
		cache:  cache.NewMemory[Mode](),
	}
	t.Cleanup(func() { _ = d.Close() })

	for range 5 {
		d.Detect(context.Background())
	}
	assert.Equal(t, int32(1), calls.Load())
}

func TestModeDetector_RecoversWhenDatabaseReturns(t *testing.T) {
	t.Parallel()

	var up atomic.Bool
	d := &modeDetector{
		localConfig: true,
		dbCheck: func(context.Context) error {
			if !up.Load() {
				return errors.New("connection refused")
			}
			return nil
		},
		configCheck: func(context.Context) error { return nil },
		config:      config.NewStatic(nil),
		cache:       cache.NewMemory[Mode](),
	}
	t.Cleanup(func() { _ = d.Close() })

	ctx := context.Background()
	assert.False(t, d.Detect(ctx).Has(DBAvailable))

	up.Store(true)
	require.NoError(t, d.cache.Delete(ctx, modeCacheKey))
	assert.True(t, d.Detect(ctx).IsNormal())
}
