package internal

import (
	"log/slog"
	"net/http"
	"net/url"
	"regexp"

	"github.com/dmitrymomot/frontdoor/pkg/config"
	"github.com/dmitrymomot/frontdoor/pkg/views"
)

// prefetchPattern matches template placeholders some browsers prefetch.
var prefetchPattern = regexp.MustCompile(`\{[0-9]\}`)

// resolve binds the request to a handler. A non-empty redirect means a
// compatibility alias matched and nothing was bound.
func (a *App) resolve(c *requestContext) (b Binding, redirect string) {
	if c.module == "" {
		if target, ok := compatRedirect(c.route); ok {
			return Binding{}, target
		}
		if r, ok := compatRename(c.route); ok {
			c.route = r
		}
	}

	module := c.Module()

	if addon := c.enabledAddon(module); addon != nil && addon.Module != nil {
		private := config.String(c, c.config, "config", "private_addons", "") == "1"
		if addon.App && private && !c.IsLocalUser() {
			c.Info(AddonsNeedLogin)
		} else {
			return Binding{Kind: BindingAddon, Module: module, Addon: addon}, ""
		}
	}

	if ctrl, ok := a.controllers[ucfirst(module)]; ok {
		return Binding{Kind: BindingController, Module: module, Controller: ctrl}, ""
	}

	if a.files.Exists(module) {
		return Binding{Kind: BindingFile, Module: module, File: module}, ""
	}

	return Binding{Kind: BindingUnresolved, Module: module}, ""
}

// unresolved handles a request no module claimed. It reports false when
// the request was answered with an empty response and must stop.
func (a *App) unresolved(c *requestContext) bool {
	if isPrefetch(c.route.RawQuery) {
		c.responseWriter.WriteHeader(http.StatusOK)
		return false
	}

	c.LogDebug("page not found",
		slog.String("uri", c.request.RequestURI),
		slog.String("address", c.request.RemoteAddr),
		slog.String("query", c.route.RawQuery),
	)

	c.SetStatus(http.StatusNotFound)
	html, err := views.Render(c, views.NotFound(c.T(PageNotFound)))
	if err != nil {
		c.LogError("render not found", slog.Any("error", err))
	}
	c.page.Replace(html)
	return true
}

func isPrefetch(rawQuery string) bool {
	if prefetchPattern.MatchString(rawQuery) {
		return true
	}
	q, err := url.QueryUnescape(rawQuery)
	return err == nil && prefetchPattern.MatchString(q)
}

// enabledAddon returns the enabled addon named name.
func (c *requestContext) enabledAddon(name string) *Addon {
	for _, addon := range c.addons {
		if addon.Name == name {
			return addon
		}
	}
	return nil
}
