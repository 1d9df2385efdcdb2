package internal

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/dmitrymomot/frontdoor/pkg/config"
	"github.com/dmitrymomot/frontdoor/pkg/hook"
	"github.com/dmitrymomot/frontdoor/pkg/views"
)

// errForeignContext is returned when a middleware replaced the request
// Context with its own implementation.
var errForeignContext = errors.New("frontdoor: middleware replaced the request context")

// handle is the catch-all route. It builds the request Context and runs
// the pipeline through the configured middleware.
func (a *App) handle(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w)
	c := newRequestContext(rw, r, a.logger, a.config)

	h := a.serve
	for i := len(a.middlewares) - 1; i >= 0; i-- {
		h = a.middlewares[i](h)
	}

	if err := h(c); err != nil {
		a.handleError(c, err)
		return
	}
	if !c.Written() {
		c.responseWriter.WriteHeader(c.status)
	}
}

// serve runs one request from environment checks to the rendered page.
func (a *App) serve(ctx Context) error {
	c, ok := ctx.(*requestContext)
	if !ok {
		return errForeignContext
	}

	c.baseURL = strings.TrimRight(config.String(c, a.config, "system", "url", ""), "/")
	c.mode = a.env.Detect(c)

	if c.mode.Has(LocalConfigPresent) && !c.mode.Has(DBAvailable) {
		c.LogError("database unavailable", slog.String("mode", c.mode.String()))
		a.writeStatusPage(c, http.StatusInternalServerError, "Error 500 - Internal Server Error", DBUnavailable)
		return nil
	}

	release, admitted := a.admission.Admit(c)
	if !admitted {
		h := c.responseWriter.Header()
		h.Set("Retry-After", strconv.Itoa(retryAfter))
		h.Set("Refresh", fmt.Sprintf("%d; url=%s/%s", retryAfter, c.baseURL, c.route.QueryString()))
		c.LogWarn("request rejected, node overloaded", slog.String("address", c.request.RemoteAddr))
		a.writeStatusPage(c, http.StatusServiceUnavailable, "Error 503 - Service Temporarily Unavailable", Overloaded)
		return nil
	}
	defer release()

	if !c.mode.IsInstall() {
		if a.upgradeToHTTPS(c) {
			return nil
		}
		c.addons = a.enabledAddons(c)
		a.callHook(c, hook.InitEvent, hook.Payload{Module: c.route.Module})
	}

	if err := a.startSession(c); err != nil {
		return err
	}
	c.translator = a.catalog.Translator(a.selectLanguage(c))

	if !a.handleZrl(c) {
		return nil
	}
	a.handleOwt(c)

	if !c.IsAuthenticated() {
		c.responseWriter.Header().Set("X-Account-Management-Status", "none")
	}

	switch {
	case c.mode.IsInstall() && c.route.Module != "view":
		c.module = ModuleInstall
	case !c.mode.Has(MaintenanceDisabled) && c.route.Module != "view":
		c.module = ModuleMaintenance
	default:
		c.addons = a.enabledAddons(c)
	}

	c.page.SetNavSelected("nothing")

	var apps []hook.Link
	if c.IsLocalUser() || config.String(c, a.config, "config", "private_addons", "") != "1" {
		apps = a.callHook(c, hook.AppMenuEvent, hook.Payload{Module: c.Module(), Apps: a.appMenu(c)}).Apps
	}

	b, redirect := a.resolve(c)
	if redirect != "" {
		return c.Redirect(redirect)
	}
	c.binding = b.Kind
	if b.Kind == BindingUnresolved && !a.unresolved(c) {
		return nil
	}

	if c.mode.IsNormal() {
		top := a.callHook(c, hook.PageContentTopEvent, hook.Payload{Module: c.Module(), Content: c.page.Content()})
		c.page.Replace(top.Content)
	}

	if b.Kind != BindingUnresolved {
		state := a.dispatch(c, b)
		c.LogDebug("module dispatched",
			slog.String("module", b.Module),
			slog.String("binding", b.Kind.String()),
			slog.String("handler", b.name()),
			slog.String("state", state.String()),
		)
		if state.Terminal() {
			return nil
		}
	}

	a.assemble(c, apps)
	return nil
}

// startSession loads the visitor session and arranges for it to be saved
// before the first byte of the response.
func (a *App) startSession(c *requestContext) error {
	sess, err := a.sessions.Start(c, c.request)
	if sess == nil {
		return errors.Join(ErrSessionFailed, err)
	}
	if err != nil {
		c.LogWarn("session store unavailable, starting a new session", slog.Any("error", err))
	}
	c.session = sess

	c.responseWriter.OnBeforeWrite(func() {
		if err := a.sessions.Save(c, c.responseWriter, c.session); err != nil {
			c.LogError("failed to save session", slog.Any("error", errors.Join(ErrSessionFailed, err)))
		}
	})
	return nil
}

// upgradeToHTTPS redirects plain GET requests to the https base URL when
// the node enforces TLS. It reports whether a redirect was written.
func (a *App) upgradeToHTTPS(c *requestContext) bool {
	if !config.Bool(c, a.config, "system", "force_ssl") ||
		config.Int(c, a.config, "system", "ssl_policy", 0) != sslPolicyFull ||
		!strings.HasPrefix(c.baseURL, "https://") ||
		c.request.Method != http.MethodGet ||
		requestScheme(c.request) != "http" {
		return false
	}
	http.Redirect(c.responseWriter, c.request, c.baseURL+"/"+c.route.QueryString(), http.StatusFound)
	return true
}

func requestScheme(r *http.Request) string {
	if r.TLS != nil {
		return "https"
	}
	if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
		return strings.ToLower(proto)
	}
	return "http"
}

// enabledAddons returns the registered addons listed in system.addon, in
// registration order.
func (a *App) enabledAddons(c *requestContext) []*Addon {
	names := config.List(c, a.config, "system", "addon")
	if len(names) == 0 {
		return nil
	}
	enabled := make(map[string]bool, len(names))
	for _, n := range names {
		enabled[n] = true
	}
	var out []*Addon
	for _, addon := range a.addons {
		if enabled[addon.Name] {
			out = append(out, addon)
		}
	}
	return out
}

// appMenu lists the enabled app addons.
func (a *App) appMenu(c *requestContext) []hook.Link {
	var links []hook.Link
	for _, addon := range c.addons {
		if addon.App {
			links = append(links, hook.Link{Label: c.T(addon.label()), URL: c.resolveURL(addon.Name)})
		}
	}
	return links
}

// writeStatusPage writes a standalone error page and ends the request.
func (a *App) writeStatusPage(c *requestContext, code int, title, message string) {
	if c.Written() {
		return
	}
	c.responseWriter.Header().Set("Content-Type", "text/html; charset=utf-8")
	c.responseWriter.WriteHeader(code)
	if err := views.StatusPage(code, title, c.T(message)).Render(c, c.responseWriter); err != nil {
		c.LogError("render status page", slog.Any("error", err))
	}
}

// handleError handles errors that escaped the pipeline.
func (a *App) handleError(c *requestContext, err error) {
	if a.errorHandler != nil {
		if herr := a.errorHandler(c, err); herr == nil {
			return
		}
	}
	c.LogError("request failed", slog.Any("error", err))
	a.writeStatusPage(c, http.StatusInternalServerError, "Error 500 - Internal Server Error", "")
}
