package logger

import (
	"context"
	"log/slog"
)

// ContextExtractor pulls one attribute out of a request context.
type ContextExtractor func(ctx context.Context) (slog.Attr, bool)

type extracting struct {
	next       slog.Handler
	extractors []ContextExtractor
}

func withExtractors(next slog.Handler, extractors []ContextExtractor) slog.Handler {
	var keep []ContextExtractor
	for _, ex := range extractors {
		if ex != nil {
			keep = append(keep, ex)
		}
	}
	if len(keep) == 0 {
		return next
	}
	return extracting{next: next, extractors: keep}
}

func (h extracting) Enabled(ctx context.Context, level slog.Level) bool {
	return h.next.Enabled(ctx, level)
}

func (h extracting) Handle(ctx context.Context, rec slog.Record) error {
	if ctx != nil {
		for _, ex := range h.extractors {
			if attr, ok := ex(ctx); ok {
				rec.AddAttrs(attr)
			}
		}
	}
	return h.next.Handle(ctx, rec)
}

func (h extracting) WithAttrs(attrs []slog.Attr) slog.Handler {
	return extracting{next: h.next.WithAttrs(attrs), extractors: h.extractors}
}

func (h extracting) WithGroup(name string) slog.Handler {
	return extracting{next: h.next.WithGroup(name), extractors: h.extractors}
}
