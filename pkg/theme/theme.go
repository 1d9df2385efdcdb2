// Package theme locates and renders page templates.
//
// Templates live in a filesystem laid out as
//
//	themes/<name>/<file>   theme specific overrides
//	base/<file>            shared fallbacks
//
// A page template receives a Page and lays out the head, navigation,
// content and footer fragments produced by the request.
package theme

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"path"
	"sync"
)

// Page template names accepted through the "mode" query parameter.
const (
	TemplateDefault = "default"
	TemplateMinimal = "minimal"
	TemplateNone    = "none"
)

// TemplateFor maps a requested mode to a page template name.
// Anything outside the allowed set falls back to the default template.
func TemplateFor(mode string) string {
	switch mode {
	case TemplateMinimal, TemplateNone:
		return mode
	default:
		return TemplateDefault
	}
}

// Page is the data handed to a page template.
type Page struct {
	Title    string
	Language string
	Head     template.HTML
	Nav      template.HTML
	Messages template.HTML
	Content  template.HTML
	Footer   template.HTML
}

// Renderer renders page templates of one theme. Parsed templates are cached.
type Renderer struct {
	fs    fs.FS
	name  string
	cache map[string]*template.Template
	mu    sync.RWMutex
}

// New returns a renderer for the named theme.
func New(fsys fs.FS, name string) *Renderer {
	return &Renderer{
		fs:    fsys,
		name:  name,
		cache: make(map[string]*template.Template),
	}
}

// Name returns the theme name.
func (r *Renderer) Name() string {
	return r.name
}

// PathForFile returns the theme's copy of file, the shared copy, or ""
// when neither exists.
func (r *Renderer) PathForFile(file string) string {
	candidates := []string{
		path.Join("themes", r.name, file),
		path.Join("base", file),
	}
	for _, p := range candidates {
		if r.name == "" && p == candidates[0] {
			continue
		}
		if _, err := fs.Stat(r.fs, p); err == nil {
			return p
		}
	}
	return ""
}

// Render executes the page template for mode. An unknown mode, or a mode
// without a template file, renders the default template.
func (r *Renderer) Render(mode string, data Page) (string, error) {
	tmpl, err := r.lookup(TemplateFor(mode) + ".html")
	if errors.Is(err, ErrTemplateNotFound) {
		tmpl, err = r.lookup(TemplateDefault + ".html")
	}
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("%w: %v", ErrRenderFailed, err)
	}
	return buf.String(), nil
}

func (r *Renderer) lookup(file string) (*template.Template, error) {
	r.mu.RLock()
	if cached, ok := r.cache[file]; ok {
		r.mu.RUnlock()
		return cached, nil
	}
	r.mu.RUnlock()

	r.mu.Lock()
	defer r.mu.Unlock()

	if cached, ok := r.cache[file]; ok {
		return cached, nil
	}

	p := r.PathForFile(file)
	if p == "" {
		return nil, fmt.Errorf("%w: %s", ErrTemplateNotFound, file)
	}

	content, err := fs.ReadFile(r.fs, p)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrTemplateNotFound, p, err)
	}

	tmpl, err := template.New(file).Parse(string(content))
	if err != nil {
		return nil, fmt.Errorf("%w: parse %s: %v", ErrRenderFailed, p, err)
	}

	r.cache[file] = tmpl
	return tmpl, nil
}
