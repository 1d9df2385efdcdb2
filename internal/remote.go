package internal

import (
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/dmitrymomot/frontdoor/pkg/hook"
	"github.com/dmitrymomot/frontdoor/pkg/profile"
	"github.com/dmitrymomot/frontdoor/pkg/views"
)

// handleZrl processes a zrl identity claim. It reports false when the
// claim was rejected and the response is complete.
func (a *App) handleZrl(c *requestContext) bool {
	zrl := c.request.URL.Query().Get(profile.ZrlParam)
	if zrl == "" || !c.mode.IsNormal() {
		return true
	}

	c.setQueryString(profile.StripZrls(c.route.QueryString()))
	if c.IsLocalUser() {
		return true
	}

	if !profile.ValidZrl(zrl) {
		c.LogDebug("invalid zrl parameter", slog.String("zrl", zrl), slog.String("address", c.request.RemoteAddr))
		c.responseWriter.WriteHeader(http.StatusForbidden)
		_ = views.Forbidden().Render(c, c.responseWriter)
		return false
	}

	c.session.SetRemoteIdentity(zrl)
	a.callHook(c, hook.ZrlInitEvent, hook.Payload{Module: c.Module(), Content: zrl})
	return true
}

// handleOwt redeems an OpenWebAuth token. Unknown or reused tokens are
// ignored.
func (a *App) handleOwt(c *requestContext) {
	token := c.request.URL.Query().Get(profile.OwtParam)
	if token == "" || !c.mode.IsNormal() {
		return
	}

	c.setQueryString(profile.StripQueryParam(c.route.QueryString(), profile.OwtParam))
	if a.tokens == nil {
		return
	}

	visitor, err := a.tokens.Consume(c, token)
	if err != nil {
		if errors.Is(err, profile.ErrTokenNotFound) {
			c.LogDebug("owt token not found", slog.String("address", c.request.RemoteAddr))
		} else {
			c.LogWarn("owt token lookup", slog.Any("error", err))
		}
		return
	}

	c.session.SetRemoteVisitor(visitor.URL)
	name := visitor.Name
	if name == "" {
		name = visitor.URL
	}
	c.Info(OWTWelcome, c.hostname(), name)
	c.LogInfo("openwebauth visitor", slog.String("visitor", visitor.URL))
}

// setQueryString replaces the query after zrl/owt stripping. The request
// URL follows so Query sees the same values.
func (c *requestContext) setQueryString(qs string) {
	_, rawQuery, _ := strings.Cut(qs, "?")
	c.route = c.route.WithQuery(rawQuery)
	u := *c.request.URL
	u.RawQuery = rawQuery
	r := c.request.Clone(c.request.Context())
	r.URL = &u
	c.request = r
}

// hostname is the configured site host, or the request host.
func (c *requestContext) hostname() string {
	if u, err := url.Parse(c.baseURL); err == nil && u.Host != "" {
		return u.Host
	}
	return c.request.Host
}
