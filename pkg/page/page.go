// Package page holds the response document a request accumulates while its
// module runs: title, content body and the head, footer and navigation fragments.
package page

import "strings"

// Document is the page being built for a single request.
// Content only grows; Replace exists for hook chains that rewrite the body as a
// whole and for the raw/minimal filter, which runs after all phases.
type Document struct {
	title       string
	head        string
	footer      string
	nav         string
	navSelected string
	content     strings.Builder
	finalized   bool
}

// New creates an empty document.
func New() *Document {
	return &Document{}
}

// Title returns the page title.
func (d *Document) Title() string { return d.title }

// SetTitle sets the page title.
func (d *Document) SetTitle(title string) { d.title = title }

// Content returns the accumulated body.
func (d *Document) Content() string { return d.content.String() }

// Append adds s to the end of the body.
func (d *Document) Append(s string) {
	d.content.WriteString(s)
}

// Replace swaps the body for s.
func (d *Document) Replace(s string) {
	d.content.Reset()
	d.content.WriteString(s)
}

// Head returns the head fragment.
func (d *Document) Head() string { return d.head }

// AppendHead adds markup to the head fragment.
func (d *Document) AppendHead(s string) { d.head += s }

// Footer returns the footer fragment.
func (d *Document) Footer() string { return d.footer }

// AppendFooter adds markup to the footer fragment.
func (d *Document) AppendFooter(s string) { d.footer += s }

// Nav returns the navigation fragment.
func (d *Document) Nav() string { return d.nav }

// SetNav sets the navigation fragment.
func (d *Document) SetNav(s string) { d.nav = s }

// NavSelected returns the highlighted navigation item.
func (d *Document) NavSelected() string { return d.navSelected }

// SetNavSelected marks a navigation item as active.
func (d *Document) SetNavSelected(item string) { d.navSelected = item }

// Finalize marks the document as complete. It reports false if the document
// was already finalized.
func (d *Document) Finalize() bool {
	if d.finalized {
		return false
	}
	d.finalized = true
	return true
}

// Finalized reports whether Finalize has been called.
func (d *Document) Finalized() bool { return d.finalized }
