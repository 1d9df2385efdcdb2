package theme_test

import (
	"html/template"
	"sync"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/frontdoor/pkg/theme"
)

func testFS() fstest.MapFS {
	return fstest.MapFS{
		"base/default.html":          {Data: []byte(`<html><title>{{.Title}}</title>{{.Nav}}<main>{{.Content}}</main>{{.Footer}}</html>`)},
		"base/minimal.html":          {Data: []byte(`<section>{{.Content}}</section>`)},
		"themes/frio/default.html":   {Data: []byte(`<frio>{{.Content}}</frio>`)},
		"themes/broken/default.html": {Data: []byte(`{{.Content`)},
	}
}

func TestTemplateFor(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "default", theme.TemplateFor(""))
	assert.Equal(t, "minimal", theme.TemplateFor("minimal"))
	assert.Equal(t, "none", theme.TemplateFor("none"))
	assert.Equal(t, "default", theme.TemplateFor("raw"))
	assert.Equal(t, "default", theme.TemplateFor("../../etc/passwd"))
}

func TestRenderer_PathForFile(t *testing.T) {
	t.Parallel()

	frio := theme.New(testFS(), "frio")
	assert.Equal(t, "themes/frio/default.html", frio.PathForFile("default.html"))
	assert.Equal(t, "base/minimal.html", frio.PathForFile("minimal.html"))
	assert.Empty(t, frio.PathForFile("none.html"))

	unnamed := theme.New(testFS(), "")
	assert.Equal(t, "base/default.html", unnamed.PathForFile("default.html"))
}

func TestRenderer_Render(t *testing.T) {
	t.Parallel()

	page := theme.Page{
		Title:   "network",
		Nav:     template.HTML(`<nav>menu</nav>`),
		Content: template.HTML(`<p>hello</p>`),
	}

	t.Run("theme override", func(t *testing.T) {
		t.Parallel()
		out, err := theme.New(testFS(), "frio").Render("", page)
		require.NoError(t, err)
		assert.Equal(t, `<frio><p>hello</p></frio>`, out)
	})

	t.Run("base fallback", func(t *testing.T) {
		t.Parallel()
		out, err := theme.New(testFS(), "vier").Render("default", page)
		require.NoError(t, err)
		assert.Contains(t, out, `<title>network</title><nav>menu</nav><main><p>hello</p></main>`)
	})

	t.Run("minimal template", func(t *testing.T) {
		t.Parallel()
		out, err := theme.New(testFS(), "vier").Render("minimal", page)
		require.NoError(t, err)
		assert.Equal(t, `<section><p>hello</p></section>`, out)
	})

	t.Run("missing none template falls back to default", func(t *testing.T) {
		t.Parallel()
		out, err := theme.New(testFS(), "vier").Render("none", page)
		require.NoError(t, err)
		assert.Contains(t, out, "<main>")
	})

	t.Run("title is escaped", func(t *testing.T) {
		t.Parallel()
		out, err := theme.New(testFS(), "vier").Render("", theme.Page{Title: "<script>"})
		require.NoError(t, err)
		assert.Contains(t, out, "&lt;script&gt;")
	})

	t.Run("parse error", func(t *testing.T) {
		t.Parallel()
		_, err := theme.New(testFS(), "broken").Render("", page)
		require.ErrorIs(t, err, theme.ErrRenderFailed)
	})

	t.Run("no templates at all", func(t *testing.T) {
		t.Parallel()
		_, err := theme.New(fstest.MapFS{}, "frio").Render("", page)
		require.ErrorIs(t, err, theme.ErrTemplateNotFound)
	})

	t.Run("concurrent renders share the cache", func(t *testing.T) {
		t.Parallel()
		r := theme.New(testFS(), "frio")
		var wg sync.WaitGroup
		for range 10 {
			wg.Go(func() {
				out, err := r.Render("", page)
				assert.NoError(t, err)
				assert.Equal(t, `<frio><p>hello</p></frio>`, out)
			})
		}
		wg.Wait()
	})
}
