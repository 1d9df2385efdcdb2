package internal

import (
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"strings"

	"github.com/a-h/templ"

	"github.com/dmitrymomot/frontdoor/pkg/config"
	"github.com/dmitrymomot/frontdoor/pkg/hook"
	"github.com/dmitrymomot/frontdoor/pkg/rawfilter"
	"github.com/dmitrymomot/frontdoor/pkg/sanitizer"
	"github.com/dmitrymomot/frontdoor/pkg/theme"
	"github.com/dmitrymomot/frontdoor/pkg/views"
)

const (
	modeRaw     = "raw"
	modeMinimal = theme.TemplateMinimal

	sslPolicyFull = 2
	hstsValue     = "max-age=31536000"
)

// Modules that render without navigation.
const (
	ModuleInstall     = "install"
	ModuleMaintenance = "maintenance"
)

// assemble turns the page document into the response. The default head
// and footer come before what the module added.
func (a *App) assemble(c *requestContext, apps []hook.Link) {
	if !c.page.Finalize() {
		return
	}

	head := a.renderFragment(c, views.Head(c.baseURL, a.theme.renderer.Name())) + c.page.Head()
	footer := a.renderFragment(c, views.Footer(c.baseURL)) + c.page.Footer()

	if c.permissionDenied() {
		c.SetStatus(http.StatusForbidden)
	}

	end := a.callHook(c, hook.PageEndEvent, hook.Payload{Module: c.Module(), Content: c.page.Content()})
	c.page.Replace(end.Content)

	if m := c.Module(); m != ModuleInstall && m != ModuleMaintenance {
		c.page.SetNav(a.renderFragment(c, views.Nav(a.navItems(c), c.page.NavSelected(), navApps(apps))))
	}

	mode := c.request.URL.Query().Get("mode")
	content := c.page.Content()

	if mode == modeRaw || mode == modeMinimal {
		frag, err := rawfilter.Fragment(content)
		if err != nil {
			c.LogWarn("filter page", slog.Any("error", err))
		}
		if mode == modeRaw {
			c.responseWriter.Header().Set("Content-Type", "text/html; charset=utf-8")
			c.responseWriter.WriteHeader(c.status)
			_, _ = c.responseWriter.Write([]byte(rawfilter.Unwrap(frag)))
			return
		}
		content = frag
	}

	a.setPageHeaders(c)

	var messages template.HTML
	if mode != modeMinimal {
		notices, infos := c.session.TakeMessages()
		messages = template.HTML(a.renderFragment(c, views.Messages(sanitizeAll(notices), sanitizeAll(infos))))
	}

	out, err := a.theme.renderer.Render(mode, theme.Page{
		Title:    c.page.Title(),
		Language: c.Language(),
		Head:     template.HTML(head),
		Nav:      template.HTML(c.page.Nav()),
		Messages: messages,
		Content:  template.HTML(content),
		Footer:   template.HTML(footer),
	})
	if err != nil {
		a.handleError(c, fmt.Errorf("%w: %w", ErrRenderFailed, err))
		return
	}

	c.responseWriter.WriteHeader(c.status)
	_, _ = c.responseWriter.Write([]byte(out))
}

func (a *App) setPageHeaders(c *requestContext) {
	h := c.responseWriter.Header()
	h.Set("X-Frontdoor-Version", a.version)
	h.Set("Content-Type", "text/html; charset=utf-8")
	if config.Bool(c, c.config, "system", "hsts") && config.Int(c, c.config, "system", "ssl_policy", 0) == sslPolicyFull {
		h.Set("Strict-Transport-Security", hstsValue)
	}
	h.Set("X-Content-Type-Options", "nosniff")
	h.Set("X-XSS-Protection", "1; mode=block")
	h.Set("X-Permitted-Cross-Domain-Policies", "none")
	h.Set("X-Frame-Options", "sameorigin")
}

// permissionDenied reports whether a queued notice mentions the
// translated "Permission denied" message, ignoring case.
func (c *requestContext) permissionDenied() bool {
	needle := strings.ToLower(c.T(PermissionDenied))
	return strings.Contains(strings.ToLower(strings.Join(c.session.SysMsg, "")), needle)
}

// navItems translates the configured items. Login is offered to visitors
// without a local account only.
func (a *App) navItems(c *requestContext) []views.NavItem {
	items := make([]views.NavItem, 0, len(a.nav))
	for _, it := range a.nav {
		if it.Key == "login" && c.IsLocalUser() {
			continue
		}
		items = append(items, views.NavItem{
			Key:   it.Key,
			Label: c.T(it.Label),
			URL:   c.resolveURL(it.URL),
		})
	}
	return items
}

func navApps(apps []hook.Link) []views.NavItem {
	out := make([]views.NavItem, 0, len(apps))
	for _, app := range apps {
		out = append(out, views.NavItem{Label: app.Label, URL: app.URL})
	}
	return out
}

func sanitizeAll(msgs []string) []string {
	out := make([]string, 0, len(msgs))
	for _, m := range msgs {
		if s := sanitizer.Message(m); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// renderFragment renders a component; failures are logged and yield "".
func (a *App) renderFragment(c *requestContext, comp templ.Component) string {
	out, err := views.Render(c, comp)
	if err != nil {
		c.LogError("render fragment", slog.Any("error", err))
		return ""
	}
	return out
}
