package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
)

// Config selects the stdout handler and the optional Sentry sink.
type Config struct {
	Level  string `env:"FRONTDOOR_LOG_LEVEL" envDefault:"info"`
	Format string `env:"FRONTDOOR_LOG_FORMAT" envDefault:"json"`
	Sentry SentryConfig
}

// New creates a JSON logger at info level.
func New(extractors ...ContextExtractor) *slog.Logger {
	return FromConfig(Config{}, extractors...)
}

// FromConfig creates a logger from cfg. Unknown levels fall back to info,
// unknown formats to JSON.
func FromConfig(cfg Config, extractors ...ContextExtractor) *slog.Logger {
	return newLogger(os.Stdout, cfg, extractors...)
}

// NewNope creates a logger that discards all output.
func NewNope() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newLogger(w io.Writer, cfg Config, extractors ...ContextExtractor) *slog.Logger {
	var h slog.Handler
	opts := &slog.HandlerOptions{Level: parseLevel(cfg.Level)}
	if strings.EqualFold(cfg.Format, "text") {
		h = slog.NewTextHandler(w, opts)
	} else {
		h = slog.NewJSONHandler(w, opts)
	}

	if s := newSentryHandler(cfg.Sentry, h); s != nil {
		h = fanout{h, s}
	}
	return slog.New(withExtractors(h, extractors))
}

func parseLevel(s string) slog.Level {
	var lvl slog.Level
	if s == "" || lvl.UnmarshalText([]byte(s)) != nil {
		return slog.LevelInfo
	}
	return lvl
}

// fanout writes each record to every handler that accepts its level.
type fanout []slog.Handler

func (f fanout) Enabled(ctx context.Context, level slog.Level) bool {
	for _, h := range f {
		if h.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (f fanout) Handle(ctx context.Context, rec slog.Record) error {
	var first error
	for _, h := range f {
		if !h.Enabled(ctx, rec.Level) {
			continue
		}
		if err := h.Handle(ctx, rec.Clone()); err != nil && first == nil {
			first = err
		}
	}
	return first
}

func (f fanout) WithAttrs(attrs []slog.Attr) slog.Handler {
	out := make(fanout, len(f))
	for i, h := range f {
		out[i] = h.WithAttrs(attrs)
	}
	return out
}

func (f fanout) WithGroup(name string) slog.Handler {
	out := make(fanout, len(f))
	for i, h := range f {
		out[i] = h.WithGroup(name)
	}
	return out
}
