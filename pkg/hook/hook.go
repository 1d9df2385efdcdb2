package hook

import (
	"context"
	"fmt"
	"maps"
	"net/url"
	"slices"
	"sync"
)

// Well-known event names raised by the front controller.
const (
	InitEvent           = "init_1"
	AppMenuEvent        = "app_menu"
	PageContentTopEvent = "page_content_top"
	PageEndEvent        = "page_end"
	ZrlInitEvent        = "zrl_init"
)

// Module event suffixes. The full event name is "<module>_mod_<phase>".
const (
	modInit         = "init"
	modPost         = "post"
	modAfterPost    = "afterpost"
	modContent      = "content"
	modAfterContent = "aftercontent"
)

// ModInit returns the event raised before a module's init phase.
func ModInit(module string) string { return modEvent(module, modInit) }

// ModPost returns the event raised before a module's post phase.
func ModPost(module string) string { return modEvent(module, modPost) }

// ModAfterPost returns the event raised before a module's afterpost phase.
func ModAfterPost(module string) string { return modEvent(module, modAfterPost) }

// ModContent returns the event raised before a module's content phase.
func ModContent(module string) string { return modEvent(module, modContent) }

// ModAfterContent returns the event raised after a module's content phase.
func ModAfterContent(module string) string { return modEvent(module, modAfterContent) }

func modEvent(module, phase string) string {
	return fmt.Sprintf("%s_mod_%s", module, phase)
}

// Link is a labelled URL, used for the application menu.
type Link struct {
	Label string
	URL   string
}

// Payload is the value threaded through a chain of callbacks.
type Payload struct {
	Form    url.Values
	Module  string
	Content string
	Apps    []Link
}

// clone returns a copy that shares no mutable state with p.
func (p Payload) clone() Payload {
	out := p
	if p.Form != nil {
		out.Form = make(url.Values, len(p.Form))
		for k, v := range p.Form {
			out.Form[k] = slices.Clone(v)
		}
	}
	out.Apps = slices.Clone(p.Apps)
	return out
}

// Func is a hook callback.
type Func func(ctx context.Context, p Payload) (Payload, error)

// Registry holds callbacks per event name.
// It is safe for concurrent use.
type Registry struct {
	hooks map[string][]Func
	mu    sync.RWMutex
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{hooks: make(map[string][]Func)}
}

// Register appends fn to the chain for event.
// Nil callbacks and empty event names are ignored.
func (r *Registry) Register(event string, fn Func) {
	if event == "" || fn == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.hooks[event] = append(r.hooks[event], fn)
}

// Has reports whether at least one callback is registered for event.
func (r *Registry) Has(event string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.hooks[event]) > 0
}

// Events returns the registered event names in sorted order.
func (r *Registry) Events() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Sorted(maps.Keys(r.hooks))
}

// Call runs the chain for event, feeding each callback the previous result.
// On error the chain stops and the last successful payload is returned
// together with the error wrapped in ErrCallback.
func (r *Registry) Call(ctx context.Context, event string, p Payload) (Payload, error) {
	r.mu.RLock()
	chain := slices.Clone(r.hooks[event])
	r.mu.RUnlock()

	for i, fn := range chain {
		next, err := fn(ctx, p.clone())
		if err != nil {
			return p, fmt.Errorf("%w: %s[%d]: %w", ErrCallback, event, i, err)
		}
		p = next
	}
	return p, nil
}
