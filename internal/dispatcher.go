package internal

import (
	"fmt"
	"log/slog"

	"github.com/dmitrymomot/frontdoor/pkg/hook"
)

// State is the lifecycle position of a dispatched module.
type State int

const (
	StateNotStarted State = iota
	StateInitDone
	StateRawTerminal
	StatePostDone
	StateAfterPostDone
	StateContentDone
	StateErrored
	// StateWritten means a phase wrote the response itself, usually a
	// redirect. Nothing else is rendered.
	StateWritten
)

func (s State) String() string {
	switch s {
	case StateNotStarted:
		return "not_started"
	case StateInitDone:
		return "init_done"
	case StateRawTerminal:
		return "raw_terminal"
	case StatePostDone:
		return "post_done"
	case StateAfterPostDone:
		return "afterpost_done"
	case StateContentDone:
		return "content_done"
	case StateErrored:
		return "errored"
	case StateWritten:
		return "written"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Terminal reports whether the response is complete and must not be
// assembled.
func (s State) Terminal() bool {
	return s == StateRawTerminal || s == StateWritten
}

// ThemeHooks let the active theme adjust the page around the module.
type ThemeHooks struct {
	// Init runs after the init phase.
	Init func(c Context)
	// ContentLoaded runs after the content phase.
	ContentLoaded func(c Context)
}

// phases is the uniform view of a bound handler.
type phases struct {
	init      func(Context) error
	raw       func(Context) error
	post      func(Context) error
	afterPost func(Context) error
	content   func(Context) (string, error)
}

func (a *App) phasesFor(b Binding) phases {
	switch b.Kind {
	case BindingAddon:
		m := b.Addon.Module
		return phases{init: m.Init, post: m.Post, afterPost: m.AfterPost, content: m.Content}
	case BindingController:
		var p phases
		if v, ok := b.Controller.(Initer); ok {
			p.init = v.Init
		}
		if v, ok := b.Controller.(RawContenter); ok {
			p.raw = v.RawContent
		}
		if v, ok := b.Controller.(Poster); ok {
			p.post = v.Post
		}
		if v, ok := b.Controller.(AfterPoster); ok {
			p.afterPost = v.AfterPost
		}
		if v, ok := b.Controller.(Contenter); ok {
			p.content = v.Content
		}
		return p
	case BindingFile:
		return phases{content: a.fileContent(b.File)}
	default:
		return phases{}
	}
}

// fileContent renders a file module. A front matter title replaces the
// default page title.
func (a *App) fileContent(name string) func(Context) (string, error) {
	return func(c Context) (string, error) {
		p, err := a.files.Load(name)
		if err != nil {
			return "", err
		}
		if p.Title != "" {
			c.Page().SetTitle(p.Title)
		}
		return p.HTML, nil
	}
}

// dispatch runs the lifecycle of a bound module. Content is appended in
// hook, handler, hook order. Once the error flag is set the remaining
// phases are skipped; theme hooks still run.
func (a *App) dispatch(c *requestContext, b Binding) State {
	m := b.Module
	p := a.phasesFor(b)
	c.page.SetTitle(m)

	a.callHook(c, hook.ModInit(m), hook.Payload{Module: m})
	a.runPhase(c, "init", p.init)
	if c.Written() {
		return StateWritten
	}
	state := StateInitDone

	if p.raw != nil && !c.failed {
		a.runPhase(c, "raw_content", p.raw)
		return StateRawTerminal
	}

	if a.theme.hooks.Init != nil {
		a.theme.hooks.Init(c)
	}

	if !c.failed && c.IsPost() {
		if err := c.request.ParseForm(); err != nil {
			c.LogWarn("parse form", slog.Any("error", err))
		}
		a.callHook(c, hook.ModPost(m), hook.Payload{Module: m, Form: c.request.PostForm})
		a.runPhase(c, "post", p.post)
		if c.Written() {
			return StateWritten
		}
		state = StatePostDone
	}

	if !c.failed {
		a.callHook(c, hook.ModAfterPost(m), hook.Payload{Module: m})
		a.runPhase(c, "afterpost", p.afterPost)
		if c.Written() {
			return StateWritten
		}
		state = StateAfterPostDone
	}

	if !c.failed {
		before := a.callHook(c, hook.ModContent(m), hook.Payload{Module: m, Content: c.page.Content()})
		c.page.Replace(before.Content)

		var out string
		if p.content != nil {
			var err error
			out, err = p.content(c)
			if err != nil {
				c.Fail(fmt.Errorf("%w: content: %w", ErrPhaseFailed, err))
			}
		}
		if c.Written() {
			return StateWritten
		}

		after := a.callHook(c, hook.ModAfterContent(m), hook.Payload{Module: m, Content: out})
		c.page.Append(after.Content)
		state = StateContentDone
	}

	if a.theme.hooks.ContentLoaded != nil {
		a.theme.hooks.ContentLoaded(c)
	}

	if c.failed {
		return StateErrored
	}
	return state
}

func (a *App) runPhase(c *requestContext, name string, fn func(Context) error) {
	if fn == nil {
		return
	}
	if err := fn(c); err != nil {
		c.Fail(fmt.Errorf("%w: %s: %w", ErrPhaseFailed, name, err))
	}
}
