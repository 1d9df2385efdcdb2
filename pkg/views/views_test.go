package views_test

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"testing"

	"github.com/a-h/templ"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/frontdoor/pkg/l10n"
	"github.com/dmitrymomot/frontdoor/pkg/views"
)

func TestNotFound(t *testing.T) {
	t.Parallel()

	out, err := views.Render(context.Background(), views.NotFound("Page <not> found."))
	require.NoError(t, err)
	assert.Equal(t, "<h1>Page &lt;not&gt; found.</h1>", out)
}

func TestForbidden(t *testing.T) {
	t.Parallel()

	out, err := views.Render(context.Background(), views.Forbidden())
	require.NoError(t, err)
	assert.Equal(t, "<h1>403 Forbidden</h1>", out)
}

func TestRender_Fragments(t *testing.T) {
	t.Parallel()

	t.Run("in order skipping nil", func(t *testing.T) {
		t.Parallel()

		out, err := views.Render(context.Background(), views.Messages([]string{"saved"}, nil), nil, views.NotFound("gone"))
		require.NoError(t, err)
		assert.Equal(t, `<div id="sysmsg"><div class="notice">saved</div></div><h1>gone</h1>`, out)
	})

	t.Run("first error stops rendering", func(t *testing.T) {
		t.Parallel()

		failing := templ.ComponentFunc(func(context.Context, io.Writer) error { return errors.New("write failed") })
		out, err := views.Render(context.Background(), views.Forbidden(), failing, views.NotFound("never"))
		require.Error(t, err)
		assert.Empty(t, out)
	})

	t.Run("no fragments", func(t *testing.T) {
		t.Parallel()

		out, err := views.Render(context.Background())
		require.NoError(t, err)
		assert.Empty(t, out)
	})
}

func TestStatusPage(t *testing.T) {
	t.Parallel()

	out, err := views.Render(context.Background(), views.StatusPage(503, "Service Unavailable", "Try later"))
	require.NoError(t, err)
	assert.Contains(t, out, "<title>503 Service Unavailable</title>")
	assert.Contains(t, out, "<p>Try later</p>")
}

func TestNav(t *testing.T) {
	t.Parallel()

	items := []views.NavItem{
		{Key: "home", Label: "Home", URL: "/home"},
		{Key: "network", Label: "Network", URL: "/network"},
	}

	t.Run("marks selected item", func(t *testing.T) {
		t.Parallel()
		out, err := views.Render(context.Background(), views.Nav(items, "network", nil))
		require.NoError(t, err)
		assert.Contains(t, out, `<li id="nav-home"><a href="/home">Home</a></li>`)
		assert.Contains(t, out, `<li id="nav-network" class="selected">`)
		assert.NotContains(t, out, "apps-menu")
	})

	t.Run("nothing selected", func(t *testing.T) {
		t.Parallel()
		out, err := views.Render(context.Background(), views.Nav(items, "nothing", nil))
		require.NoError(t, err)
		assert.NotContains(t, out, "selected")
	})

	t.Run("apps menu", func(t *testing.T) {
		t.Parallel()
		apps := []views.NavItem{{Label: "Calendar", URL: "/calendar"}}
		out, err := views.Render(context.Background(), views.Nav(items, "", apps))
		require.NoError(t, err)
		assert.Contains(t, out, `<ul id="apps-menu"><li><a href="/calendar">Calendar</a></li></ul>`)
	})
}

func TestMessages(t *testing.T) {
	t.Parallel()

	out, err := views.Render(context.Background(), views.Messages(nil, nil))
	require.NoError(t, err)
	assert.Empty(t, out)

	out, err = views.Render(context.Background(), views.Messages([]string{"Permission denied."}, []string{"a <b>"}))
	require.NoError(t, err)
	assert.Equal(t, `<div id="sysmsg"><div class="notice">Permission denied.</div><div class="info">a &lt;b&gt;</div></div>`, out)
}

func TestEmbeddedAssets(t *testing.T) {
	t.Parallel()

	for _, name := range []string{"base/default.html", "base/minimal.html", "base/none.html"} {
		_, err := fs.Stat(views.Templates(), name)
		require.NoError(t, err, name)
	}

	cat, err := l10n.New(l10n.WithYAMLDir(views.Locales()))
	require.NoError(t, err)
	assert.Equal(t, []string{"en", "de", "fr"}, cat.Languages())
	assert.Equal(t, "Seite nicht gefunden.", cat.Translator("de").T("Page not found."))
}
