package internal

import (
	"net/url"
	"strings"
)

// DefaultModule is served when the path is empty.
const DefaultModule = "home"

// Route is the parsed request path. It is immutable for the request; the
// only rewrite ([Route.WithModule]) returns a new value.
type Route struct {
	// Segments are the non-empty path segments in order.
	Segments []string
	// Module is the first segment, or DefaultModule.
	Module string
	// Cmd is the path without the leading slash.
	Cmd string
	// RawQuery is the query string without "?".
	RawQuery string
}

// ParseRoute builds a Route from a request URL.
func ParseRoute(u *url.URL) Route {
	cmd := strings.Trim(u.Path, "/")

	var segments []string
	for s := range strings.SplitSeq(cmd, "/") {
		if s != "" {
			segments = append(segments, s)
		}
	}

	module := DefaultModule
	if len(segments) > 0 {
		module = segments[0]
	}

	return Route{
		Segments: segments,
		Module:   module,
		Cmd:      cmd,
		RawQuery: u.RawQuery,
	}
}

// QueryString is the cmd plus the query, as used in redirect targets.
func (r Route) QueryString() string {
	if r.RawQuery == "" {
		return r.Cmd
	}
	return r.Cmd + "?" + r.RawQuery
}

// Arg returns the i-th segment or "".
func (r Route) Arg(i int) string {
	if i < 0 || i >= len(r.Segments) {
		return ""
	}
	return r.Segments[i]
}

// WithModule returns a copy with the first segment replaced.
func (r Route) WithModule(module string) Route {
	segments := append([]string{module}, r.rest()...)
	return Route{
		Segments: segments,
		Module:   module,
		Cmd:      strings.Join(segments, "/"),
		RawQuery: r.RawQuery,
	}
}

// WithQuery returns a copy with a different raw query.
func (r Route) WithQuery(rawQuery string) Route {
	r.Segments = append([]string(nil), r.Segments...)
	r.RawQuery = rawQuery
	return r
}

func (r Route) rest() []string {
	if len(r.Segments) < 2 {
		return nil
	}
	return r.Segments[1:]
}

// moduleAliases redirect a whole legacy module.
var moduleAliases = map[string]string{
	"stream":        "network?f=&order=post",
	"conversations": "message",
	"commented":     "network?f=&order=comment",
	"liked":         "network?f=&order=comment",
	"activity":      "network/?f=&conv=1",
}

// cmdAliases redirect one exact legacy path.
var cmdAliases = map[string]string{
	"status_messages/new":   "bookmarklet",
	"user/edit":             "settings",
	"tag_followings/manage": "search",
}

// compatRedirect returns the redirect target for a legacy path.
func compatRedirect(r Route) (string, bool) {
	if target, ok := moduleAliases[r.Module]; ok {
		return target, true
	}
	target, ok := cmdAliases[r.Cmd]
	return target, ok
}

// compatRename reports whether the route is an alias served in place by
// another module.
func compatRename(r Route) (Route, bool) {
	if r.Cmd == "users/sign_in" {
		return r.WithModule("login"), true
	}
	return r, false
}
