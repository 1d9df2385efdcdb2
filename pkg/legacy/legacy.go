// Package legacy serves modules that exist only as files: mod/<name>.md
// rendered from Markdown, or mod/<name>.html used as a fragment.
//
// Both kinds may start with YAML front matter:
//
//	---
//	title: Help
//	---
//	# Getting started
package legacy

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"regexp"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"gopkg.in/yaml.v3"

	"github.com/dmitrymomot/frontdoor/pkg/sanitizer"
)

// Dir is the directory holding file modules.
const Dir = "mod"

var validName = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// ValidName reports whether name may be mapped to a file.
func ValidName(name string) bool {
	return validName.MatchString(name)
}

// Page is a loaded file module.
type Page struct {
	Metadata map[string]any
	Title    string
	HTML     string
}

// Loader reads file modules from a filesystem.
type Loader struct {
	fs fs.FS
	md goldmark.Markdown
}

// NewLoader returns a loader over fsys, which must contain the mod directory.
func NewLoader(fsys fs.FS) *Loader {
	return &Loader{
		fs: fsys,
		md: goldmark.New(goldmark.WithExtensions(extension.GFM)),
	}
}

// Path returns the file backing module name, preferring Markdown, or "".
func (l *Loader) Path(name string) string {
	if l == nil || l.fs == nil || !ValidName(name) {
		return ""
	}
	for _, ext := range []string{".md", ".html"} {
		p := path.Join(Dir, name+ext)
		if st, err := fs.Stat(l.fs, p); err == nil && !st.IsDir() {
			return p
		}
	}
	return ""
}

// Exists reports whether module name is backed by a file.
func (l *Loader) Exists(name string) bool {
	return l.Path(name) != ""
}

// Load reads and renders module name. The result is sanitized.
func (l *Loader) Load(name string) (*Page, error) {
	p := l.Path(name)
	if p == "" {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}

	content, err := fs.ReadFile(l.fs, p)
	if err != nil {
		return nil, errors.Join(ErrNotFound, err)
	}

	meta, body, err := splitFrontMatter(content)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", p, err)
	}

	html := string(body)
	if path.Ext(p) == ".md" {
		var buf bytes.Buffer
		if err := l.md.Convert(body, &buf); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrRenderFailed, p, err)
		}
		html = buf.String()
	}

	page := &Page{
		Metadata: meta,
		HTML:     sanitizer.Fragment(html),
	}
	if title, ok := meta["title"].(string); ok {
		page.Title = title
	}
	return page, nil
}

// splitFrontMatter separates a leading "---" delimited YAML block from the body.
func splitFrontMatter(content []byte) (map[string]any, []byte, error) {
	delimiter := []byte("---")
	meta := make(map[string]any)

	if !bytes.HasPrefix(content, delimiter) {
		return meta, content, nil
	}

	rest := bytes.TrimLeft(bytes.TrimPrefix(content, delimiter), "\r\n")
	end := bytes.Index(rest, delimiter)
	if end == -1 {
		return nil, nil, fmt.Errorf("%w: closing delimiter not found", ErrInvalidFrontMatter)
	}

	if block := bytes.TrimSpace(rest[:end]); len(block) > 0 {
		if err := yaml.Unmarshal(block, &meta); err != nil {
			return nil, nil, fmt.Errorf("%w: %v", ErrInvalidFrontMatter, err)
		}
	}

	body := rest[end+len(delimiter):]
	body = bytes.TrimPrefix(body, []byte("\r"))
	body = bytes.TrimPrefix(body, []byte("\n"))
	return meta, body, nil
}
