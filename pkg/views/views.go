// Package views holds the built-in page templates, translation tables and
// the HTML components shared by every theme.
package views

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"io"
	"io/fs"
	"strconv"

	"github.com/a-h/templ"
)

//go:embed templates
var templates embed.FS

//go:embed locales
var locales embed.FS

// Templates returns the built-in theme filesystem (base/*.html).
func Templates() fs.FS {
	return sub(templates, "templates")
}

// Locales returns the built-in translation tables ({lang}/*.yaml).
func Locales() fs.FS {
	return sub(locales, "locales")
}

func sub(fsys fs.FS, dir string) fs.FS {
	s, err := fs.Sub(fsys, dir)
	if err != nil {
		panic(err)
	}
	return s
}

// Render renders fragments in order into one string. Nil fragments are skipped.
func Render(ctx context.Context, fragments ...templ.Component) (string, error) {
	var buf bytes.Buffer
	for _, f := range fragments {
		if f == nil {
			continue
		}
		if err := f.Render(ctx, &buf); err != nil {
			return "", err
		}
	}
	return buf.String(), nil
}

// NotFound is the content fragment of an unresolved module.
func NotFound(message string) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		_, err := fmt.Fprintf(w, `<h1>%s</h1>`, templ.EscapeString(message))
		return err
	})
}

// Forbidden is written when a zrl parameter is rejected.
func Forbidden() templ.Component {
	return templ.Raw("<h1>403 Forbidden</h1>")
}

// StatusPage is a standalone page for environment failures such as a
// missing database or an overloaded node.
func StatusPage(code int, title, message string) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		_, err := fmt.Fprintf(w,
			`<!DOCTYPE html><html><head><title>%s %s</title></head><body><h1>%s</h1><p>%s</p></body></html>`,
			strconv.Itoa(code), templ.EscapeString(title), templ.EscapeString(title), templ.EscapeString(message))
		return err
	})
}

// Head is the default head fragment.
func Head(baseURL, themeName string) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		_, err := fmt.Fprintf(w,
			`<meta charset="utf-8"><base href="%s/"><link rel="stylesheet" href="%s/view/theme/%s/style.css">`,
			templ.EscapeString(baseURL), templ.EscapeString(baseURL), templ.EscapeString(themeName))
		return err
	})
}

// Footer is the default footer fragment.
func Footer(baseURL string) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		_, err := fmt.Fprintf(w, `<script src="%s/view/js/main.js" defer></script>`, templ.EscapeString(baseURL))
		return err
	})
}
