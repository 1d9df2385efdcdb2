package modules_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/beevik/etree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/frontdoor"
	"github.com/dmitrymomot/frontdoor/modules"
	"github.com/dmitrymomot/frontdoor/pkg/config"
	"github.com/dmitrymomot/frontdoor/pkg/db"
	"github.com/dmitrymomot/frontdoor/pkg/logger"
)

type accounts map[string]string

func (a accounts) ByNickname(_ context.Context, nickname string) (string, error) {
	if uid, ok := a[nickname]; ok {
		return uid, nil
	}
	return "", db.ErrUserNotFound
}

var auth = modules.AuthenticatorFunc(func(_ context.Context, nickname, password string) (string, error) {
	if nickname == "alice" && password == "secret" {
		return "1", nil
	}
	return "", modules.ErrInvalidCredentials
})

func newApp(t *testing.T, cfg map[string]map[string]string, opts ...frontdoor.Option) *frontdoor.App {
	t.Helper()

	values := map[string]map[string]string{
		"system": {"url": "https://example.org"},
		"config": {"sitename": "Testsite"},
	}
	for cat, kv := range cfg {
		if values[cat] == nil {
			values[cat] = map[string]string{}
		}
		for k, v := range kv {
			values[cat][k] = v
		}
	}

	pass := func(context.Context) error { return nil }
	base := []frontdoor.Option{
		frontdoor.WithCustomLogger(logger.NewNope()),
		frontdoor.WithConfig(config.NewStatic(values)),
		frontdoor.WithLocalConfig(true),
		frontdoor.WithDatabaseCheck(pass),
		frontdoor.WithConfigTableCheck(pass),
		frontdoor.WithAdmission(0, 0),
		frontdoor.WithControllers(modules.Defaults(accounts{"alice": "1"}, auth)...),
		frontdoor.WithModuleFiles(modules.Files(), "."),
	}
	app := frontdoor.New(append(base, opts...)...)
	t.Cleanup(func() { _ = app.Close() })
	return app
}

func get(app http.Handler, target string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	r := httptest.NewRequest(http.MethodGet, target, nil)
	for _, ck := range cookies {
		r.AddCookie(ck)
	}
	w := httptest.NewRecorder()
	app.ServeHTTP(w, r)
	return w
}

func login(app http.Handler, nickname, password string) *httptest.ResponseRecorder {
	form := url.Values{"nickname": {nickname}, "password": {password}}
	r := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(form.Encode()))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	app.ServeHTTP(w, r)
	return w
}

func TestHome(t *testing.T) {
	t.Parallel()

	app := newApp(t, nil)

	t.Run("anonymous visitor sees welcome", func(t *testing.T) {
		t.Parallel()
		w := get(app, "/")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "<h1>Welcome to Testsite</h1>")
		assert.Contains(t, w.Body.String(), `href="https://example.org/login"`)
	})

	t.Run("local user goes to network", func(t *testing.T) {
		t.Parallel()
		w := login(app, "alice", "secret")
		require.Equal(t, http.StatusFound, w.Code)

		w = get(app, "/home", w.Result().Cookies()...)
		require.Equal(t, http.StatusFound, w.Code)
		assert.Equal(t, "https://example.org/network", w.Header().Get("Location"))
	})
}

func TestLogin(t *testing.T) {
	t.Parallel()

	app := newApp(t, nil)

	t.Run("form", func(t *testing.T) {
		t.Parallel()
		w := get(app, "/login")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `<form id="login-form" method="post" action="https://example.org/login">`)
		assert.Contains(t, w.Body.String(), `name="password"`)
	})

	t.Run("success binds session", func(t *testing.T) {
		t.Parallel()
		w := login(app, "alice", "secret")
		require.Equal(t, http.StatusFound, w.Code)
		assert.Equal(t, "https://example.org/network", w.Header().Get("Location"))
		assert.NotEmpty(t, w.Result().Cookies())
	})

	t.Run("wrong password", func(t *testing.T) {
		t.Parallel()
		w := login(app, "alice", "nope")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `<div class="notice">Login failed.</div>`)
	})

	t.Run("no authenticator", func(t *testing.T) {
		t.Parallel()
		bare := newApp(t, nil, frontdoor.WithControllers(&modules.Login{}))
		w := login(bare, "alice", "secret")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "Login failed.")
	})
}

func TestXrd(t *testing.T) {
	t.Parallel()

	app := newApp(t, nil)

	t.Run("acct uri", func(t *testing.T) {
		t.Parallel()
		w := get(app, "/xrd?uri=acct:alice@example.org")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "application/xrd+xml; charset=utf-8", w.Header().Get("Content-Type"))
		assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))

		doc := etree.NewDocument()
		require.NoError(t, doc.ReadFromString(w.Body.String()))
		root := doc.Root()
		require.NotNil(t, root)
		assert.Equal(t, "XRD", root.Tag)
		assert.Equal(t, "acct:alice@example.org", root.SelectElement("Subject").Text())
		assert.Equal(t, "https://example.org/profile/alice", root.SelectElement("Alias").Text())

		links := root.SelectElements("Link")
		require.Len(t, links, 3)
		assert.Equal(t, "http://webfinger.net/rel/profile-page", links[0].SelectAttrValue("rel", ""))
		assert.Equal(t, "https://example.org/feed/alice", links[1].SelectAttrValue("href", ""))
	})

	t.Run("resource profile url", func(t *testing.T) {
		t.Parallel()
		w := get(app, "/xrd?resource="+url.QueryEscape("https://example.org/profile/alice"))
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "<Subject>acct:alice@example.org</Subject>")
	})

	tests := []struct {
		name   string
		target string
	}{
		{"unknown user", "/xrd?uri=acct:bob@example.org"},
		{"foreign host", "/xrd?uri=acct:alice@remote.example"},
		{"missing parameter", "/xrd"},
		{"not a profile url", "/xrd?uri=" + url.QueryEscape("https://example.org/channel/alice")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			w := get(app, tt.target)
			assert.Equal(t, http.StatusNotFound, w.Code)
			assert.NotContains(t, w.Body.String(), "<XRD")
		})
	}
}

func TestInstall(t *testing.T) {
	t.Parallel()

	app := newApp(t, nil, frontdoor.WithLocalConfig(false))
	w := get(app, "/profile/alice")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "<h1>Installation</h1>")
	assert.Contains(t, w.Body.String(), "frontdoor migrate")
}

func TestMaintenance(t *testing.T) {
	t.Parallel()

	app := newApp(t, map[string]map[string]string{
		"system": {"maintenance": "1", "maintenance_reason": "Upgrading <db>"},
	})
	w := get(app, "/network")

	require.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, "600", w.Header().Get("Retry-After"))
	assert.Contains(t, w.Body.String(), "<h1>System down for maintenance</h1>")
	assert.Contains(t, w.Body.String(), "<p>Upgrading &lt;db&gt;</p>")
}

func TestHelpFile(t *testing.T) {
	t.Parallel()

	app := newApp(t, nil)
	w := get(app, "/help")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Getting started")
	assert.Contains(t, w.Body.String(), "<title>Help")
}
