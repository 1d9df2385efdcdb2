package health_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/frontdoor/pkg/health"
)

func TestRun(t *testing.T) {
	t.Parallel()

	t.Run("no checks", func(t *testing.T) {
		t.Parallel()
		resp := health.Run(context.Background(), nil)
		assert.Equal(t, health.StatusHealthy, resp.Status)
		assert.False(t, resp.Passed("db"))
		assert.NoError(t, resp.Err())
	})

	t.Run("mixed results", func(t *testing.T) {
		t.Parallel()
		resp := health.Run(context.Background(), health.Checks{
			"db":     func(context.Context) error { return nil },
			"config": func(context.Context) error { return errors.New("relation does not exist") },
		})
		assert.Equal(t, health.StatusUnhealthy, resp.Status)
		assert.True(t, resp.Passed("db"))
		assert.False(t, resp.Passed("config"))
		assert.Equal(t, "relation does not exist", resp.Checks["config"].Error)
		assert.NotEmpty(t, resp.Checks["db"].Latency)

		err := resp.Err()
		require.ErrorIs(t, err, health.ErrCheckFailed)
		assert.Contains(t, err.Error(), "config: relation does not exist")
	})

	t.Run("timeout cancels slow checks", func(t *testing.T) {
		t.Parallel()
		resp := health.Run(context.Background(), health.Checks{
			"slow": func(ctx context.Context) error {
				<-ctx.Done()
				return ctx.Err()
			},
		}, health.WithTimeout(10*time.Millisecond))
		assert.False(t, resp.Passed("slow"))
	})

	t.Run("nil probe fails", func(t *testing.T) {
		t.Parallel()
		resp := health.Run(context.Background(), health.Checks{"redis": nil})
		assert.Equal(t, health.StatusUnhealthy, resp.Status)
	})

	t.Run("nil response", func(t *testing.T) {
		t.Parallel()
		var resp *health.Response
		assert.False(t, resp.Passed("db"))
	})
}

func TestReadinessHandler(t *testing.T) {
	t.Parallel()

	h := health.ReadinessHandler(health.Checks{
		"db": func(context.Context) error { return errors.New("down") },
	})

	rec := httptest.NewRecorder()
	h(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "Service Unavailable", rec.Body.String())

	rec = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health/ready?format=json", nil)
	h(rec, req)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), `"status":"unhealthy"`)
	assert.Equal(t, "no-store", rec.Header().Get("Cache-Control"))
}

func TestLivenessHandler(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	health.LivenessHandler()(rec, httptest.NewRequest(http.MethodGet, "/health/live", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK", rec.Body.String())
}
