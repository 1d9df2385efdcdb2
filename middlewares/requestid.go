package middlewares

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/dmitrymomot/frontdoor/internal"
	"github.com/dmitrymomot/frontdoor/pkg/logger"
)

type requestIDKey struct{}

// maxRequestIDLen bounds an ID accepted from upstream.
const maxRequestIDLen = 128

// DefaultRequestIDHeaders are checked in order for an upstream request id.
var DefaultRequestIDHeaders = []string{"X-Request-ID", "X-Correlation-ID"}

type requestIDConfig struct {
	headers  []string
	generate func() string
	respond  string
}

// RequestIDOption configures RequestID.
type RequestIDOption func(*requestIDConfig)

// WithRequestIDHeaders replaces the upstream headers to look at.
func WithRequestIDHeaders(headers ...string) RequestIDOption {
	return func(cfg *requestIDConfig) { cfg.headers = headers }
}

// WithRequestIDGenerator replaces uuid.NewString.
func WithRequestIDGenerator(gen func() string) RequestIDOption {
	return func(cfg *requestIDConfig) {
		if gen != nil {
			cfg.generate = gen
		}
	}
}

// WithRequestIDResponseHeader names the response header carrying the id.
func WithRequestIDResponseHeader(header string) RequestIDOption {
	return func(cfg *requestIDConfig) { cfg.respond = header }
}

// RequestID tags every request with an id. An upstream id is reused when
// it is short and printable, otherwise a new one is generated.
func RequestID(opts ...RequestIDOption) internal.Middleware {
	cfg := requestIDConfig{
		headers:  DefaultRequestIDHeaders,
		generate: uuid.NewString,
		respond:  "X-Request-ID",
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	return func(next internal.HandlerFunc) internal.HandlerFunc {
		return func(c internal.Context) error {
			id := upstreamID(c, cfg.headers)
			if id == "" {
				id = cfg.generate()
			}
			c.Set(requestIDKey{}, id)
			if cfg.respond != "" {
				c.Response().Header().Set(cfg.respond, id)
			}
			return next(c)
		}
	}
}

func upstreamID(c internal.Context, headers []string) string {
	for _, h := range headers {
		if v := c.Request().Header.Get(h); validRequestID(v) {
			return v
		}
	}
	return ""
}

func validRequestID(v string) bool {
	if v == "" || len(v) > maxRequestIDLen {
		return false
	}
	for i := 0; i < len(v); i++ {
		if v[i] < 0x21 || v[i] > 0x7e {
			return false
		}
	}
	return true
}

// GetRequestID returns the id assigned by RequestID, or "".
func GetRequestID(c internal.Context) string {
	id, _ := c.Get(requestIDKey{}).(string)
	return id
}

// RequestIDExtractor adds "request_id" to records logged with a request
// context.
func RequestIDExtractor() logger.ContextExtractor {
	return func(ctx context.Context) (slog.Attr, bool) {
		id, _ := ctx.Value(requestIDKey{}).(string)
		if id == "" {
			return slog.Attr{}, false
		}
		return slog.String("request_id", id), true
	}
}
