// Package profile handles remote visitor identification on incoming links:
// the zrl profile hint and OpenWebAuth one-time tokens (owt).
package profile

import (
	"net/url"
	"strings"
)

// Query parameters carrying remote identity.
const (
	ZrlParam = "zrl"
	OwtParam = "owt"
)

// StripQueryParam removes every occurrence of param from a query string of
// the form "path?a=1&b=2". The order of the remaining parameters is kept
// and a dangling "?" is dropped.
func StripQueryParam(qs, param string) string {
	path, query, found := strings.Cut(qs, "?")
	if !found {
		return qs
	}

	parts := strings.Split(query, "&")
	kept := parts[:0]
	for _, p := range parts {
		if p == "" {
			continue
		}
		key, _, _ := strings.Cut(p, "=")
		if key == param {
			continue
		}
		kept = append(kept, p)
	}

	if len(kept) == 0 {
		return path
	}
	return path + "?" + strings.Join(kept, "&")
}

// StripZrls removes the zrl parameter from a query string.
func StripZrls(qs string) string {
	return StripQueryParam(qs, ZrlParam)
}

// ValidZrl reports whether a zrl value looks like a profile link: it has no
// query and its path contains "/profile/".
func ValidZrl(zrl string) bool {
	u, err := url.Parse(zrl)
	if err != nil {
		return false
	}
	return u.RawQuery == "" && strings.Contains(u.Path, "/profile/")
}
