package internal

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/dmitrymomot/frontdoor/pkg/hook"
)

// ContextFrom returns the request Context a hook was called with.
func ContextFrom(ctx context.Context) (Context, bool) {
	c, ok := ctx.(Context)
	return c, ok
}

// callHook runs the application hooks for event, then those of each enabled
// addon in registration order. A failing chain is logged and its last good
// payload is kept.
func (a *App) callHook(c *requestContext, event string, p hook.Payload) hook.Payload {
	p = a.runChain(c, a.hooks, event, p)
	for _, addon := range c.addons {
		p = a.runChain(c, addon.registry, event, p)
	}
	return p
}

func (a *App) runChain(c *requestContext, r *hook.Registry, event string, p hook.Payload) hook.Payload {
	if r == nil || !r.Has(event) {
		return p
	}
	next, err := r.Call(c, event, p)
	if err != nil {
		c.LogWarn("hook chain stopped", slog.String("event", event), slog.Any("error", fmt.Errorf("%w: %w", ErrHookFailed, err)))
	}
	return next
}
