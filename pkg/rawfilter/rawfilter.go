// Package rawfilter extracts conversation threads from a rendered page for
// embedded clients that ask for a raw or minimal response.
//
// The page is parsed into a DOM tree, every element whose id contains the
// thread wrapper marker is kept, and the kept elements are reassembled under a
// single <root> element. Everything else is discarded.
package rawfilter

import (
	"errors"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// WrapperMarker is the id fragment that identifies a thread wrapper element.
const WrapperMarker = "tread-wrapper-"

const (
	rootOpen  = "<root>"
	rootClose = "</root>"
)

// ErrParse is returned when the page cannot be parsed.
var ErrParse = errors.New("rawfilter: failed to parse page")

// Fragment returns the thread wrappers found in html wrapped in <root></root>.
// Nested wrappers are emitted once, as part of their outermost ancestor.
func Fragment(html string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", errors.Join(ErrParse, err)
	}

	selector := "[id*='" + WrapperMarker + "']"

	var b strings.Builder
	b.WriteString(rootOpen)

	var walkErr error
	doc.Find(selector).Each(func(_ int, s *goquery.Selection) {
		if walkErr != nil {
			return
		}
		if s.ParentsFiltered(selector).Length() > 0 {
			return
		}
		outer, err := goquery.OuterHtml(s)
		if err != nil {
			walkErr = errors.Join(ErrParse, err)
			return
		}
		b.WriteString(outer)
	})
	if walkErr != nil {
		return "", walkErr
	}

	b.WriteString(rootClose)
	return b.String(), nil
}

// Raw returns the thread wrappers found in html without the <root> envelope.
func Raw(html string) (string, error) {
	frag, err := Fragment(html)
	if err != nil {
		return "", err
	}
	return Unwrap(frag), nil
}

// Unwrap strips the <root> envelope produced by Fragment.
func Unwrap(fragment string) string {
	s := strings.TrimPrefix(fragment, rootOpen)
	return strings.TrimSuffix(s, rootClose)
}
