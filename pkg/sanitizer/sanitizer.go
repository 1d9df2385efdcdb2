// Package sanitizer cleans text and HTML that ends up in rendered pages.
package sanitizer

import (
	"html"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	strictPolicy   *bluemonday.Policy
	fragmentPolicy *bluemonday.Policy
	initOnce       sync.Once
)

func initPolicies() {
	initOnce.Do(func() {
		strictPolicy = bluemonday.StrictPolicy()

		// Legacy page fragments: formatting, headings, links and the
		// id/class attributes the raw filter and themes rely on.
		fragmentPolicy = bluemonday.UGCPolicy()
		fragmentPolicy.AllowAttrs("id", "class").Globally()
		fragmentPolicy.RequireNoFollowOnLinks(true)
	})
}

// Message reduces a system message to plain text. Entities produced by the
// policy are decoded so that templates escape the text exactly once.
func Message(s string) string {
	initPolicies()
	return strings.TrimSpace(html.UnescapeString(strictPolicy.Sanitize(s)))
}

// Fragment removes scripts, event handlers and unsafe URLs from an HTML
// fragment while keeping ordinary markup.
func Fragment(s string) string {
	initPolicies()
	return fragmentPolicy.Sanitize(s)
}
