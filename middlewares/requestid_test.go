package middlewares_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/frontdoor/internal"
	"github.com/dmitrymomot/frontdoor/middlewares"
)

func TestRequestID(t *testing.T) {
	t.Parallel()

	t.Run("generates new request ID when not present", func(t *testing.T) {
		t.Parallel()

		rec := httptest.NewRecorder()
		ctx := newTestContext(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		var captured string
		err := middlewares.RequestID()(func(c internal.Context) error {
			captured = middlewares.GetRequestID(c)
			return nil
		})(ctx)

		require.NoError(t, err)
		require.Equal(t, captured, rec.Header().Get("X-Request-ID"))
		_, err = uuid.Parse(captured)
		require.NoError(t, err)
	})

	t.Run("uses the first matching upstream header", func(t *testing.T) {
		t.Parallel()

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-Correlation-ID", "corr-1")
		req.Header.Set("X-Request-ID", "req-1")
		rec := httptest.NewRecorder()

		err := middlewares.RequestID()(func(internal.Context) error { return nil })(newTestContext(rec, req))
		require.NoError(t, err)
		require.Equal(t, "req-1", rec.Header().Get("X-Request-ID"))
	})

	t.Run("rejects unprintable upstream id", func(t *testing.T) {
		t.Parallel()

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-Request-ID", "bad id\twith spaces")
		rec := httptest.NewRecorder()

		mw := middlewares.RequestID(middlewares.WithRequestIDGenerator(func() string { return "fresh" }))
		err := mw(func(internal.Context) error { return nil })(newTestContext(rec, req))
		require.NoError(t, err)
		require.Equal(t, "fresh", rec.Header().Get("X-Request-ID"))
	})

	t.Run("custom headers and generator", func(t *testing.T) {
		t.Parallel()

		rec := httptest.NewRecorder()
		mw := middlewares.RequestID(
			middlewares.WithRequestIDHeaders("X-Trace"),
			middlewares.WithRequestIDGenerator(func() string { return "fixed" }),
			middlewares.WithRequestIDResponseHeader("X-Trace"),
		)
		err := mw(func(internal.Context) error { return nil })(newTestContext(rec, httptest.NewRequest(http.MethodGet, "/", nil)))
		require.NoError(t, err)
		require.Equal(t, "fixed", rec.Header().Get("X-Trace"))
	})

	t.Run("no ID outside the middleware", func(t *testing.T) {
		t.Parallel()
		ctx := newTestContext(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
		require.Empty(t, middlewares.GetRequestID(ctx))
	})
}

func TestRequestIDExtractor(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "abc")
	ctx := newTestContext(httptest.NewRecorder(), req)

	err := middlewares.RequestID()(func(c internal.Context) error {
		attr, ok := middlewares.RequestIDExtractor()(c.Request().Context())
		require.True(t, ok)
		require.Equal(t, "request_id", attr.Key)
		require.Equal(t, "abc", attr.Value.String())
		return nil
	})(ctx)
	require.NoError(t, err)

	_, ok := middlewares.RequestIDExtractor()(httptest.NewRequest(http.MethodGet, "/", nil).Context())
	require.False(t, ok)
}
