package modules

import (
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/beevik/etree"

	"github.com/dmitrymomot/frontdoor"
	"github.com/dmitrymomot/frontdoor/pkg/db"
)

const xrdNamespace = "http://docs.oasis-open.org/ns/xri/xrd-1.0"

// Xrd serves the XRD identity document of a local account, looked up by
// the uri or resource query parameter (acct:nick@host or a profile URL).
type Xrd struct {
	Accounts Accounts
}

func (x *Xrd) RawContent(c frontdoor.Context) error {
	subject := c.Query("uri")
	if subject == "" {
		subject = c.Query("resource")
	}

	nick, ok := localNickname(subject, c.BaseURL(), c.Request().Host)
	if !ok || x.Accounts == nil {
		http.Error(c.Response(), http.StatusText(http.StatusNotFound), http.StatusNotFound)
		return nil
	}

	if _, err := x.Accounts.ByNickname(c, nick); err != nil {
		if !errors.Is(err, db.ErrUserNotFound) {
			c.LogWarn("xrd lookup", "nickname", nick, "error", err)
		}
		http.Error(c.Response(), http.StatusText(http.StatusNotFound), http.StatusNotFound)
		return nil
	}

	doc := xrdDocument(c.BaseURL(), nick, hostOf(c.BaseURL(), c.Request().Host))
	out, err := doc.WriteToString()
	if err != nil {
		return err
	}

	h := c.Response().Header()
	h.Set("Content-Type", "application/xrd+xml; charset=utf-8")
	h.Set("Access-Control-Allow-Origin", "*")
	c.Response().WriteHeader(http.StatusOK)
	_, err = c.Response().Write([]byte(out))
	return err
}

func xrdDocument(baseURL, nick, host string) *etree.Document {
	profile := baseURL + "/profile/" + nick

	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	root := doc.CreateElement("XRD")
	root.CreateAttr("xmlns", xrdNamespace)
	root.CreateElement("Subject").SetText("acct:" + nick + "@" + host)
	root.CreateElement("Alias").SetText(profile)

	links := []struct{ rel, typ, href string }{
		{"http://webfinger.net/rel/profile-page", "text/html", profile},
		{"http://schemas.google.com/g/2010#updates-from", "application/atom+xml", baseURL + "/feed/" + nick},
		{"self", "application/activity+json", profile},
	}
	for _, l := range links {
		link := root.CreateElement("Link")
		link.CreateAttr("rel", l.rel)
		link.CreateAttr("type", l.typ)
		link.CreateAttr("href", l.href)
	}

	doc.Indent(2)
	return doc
}

// localNickname extracts the nickname from an acct: URI or a profile URL
// on this host.
func localNickname(subject, baseURL, requestHost string) (string, bool) {
	host := hostOf(baseURL, requestHost)
	subject = strings.TrimPrefix(subject, "acct:")

	if nick, domain, ok := strings.Cut(subject, "@"); ok && !strings.Contains(subject, "/") {
		return nick, nick != "" && strings.EqualFold(domain, host)
	}

	u, err := url.Parse(subject)
	if err != nil || !strings.EqualFold(u.Host, host) {
		return "", false
	}
	nick, ok := strings.CutPrefix(strings.Trim(u.Path, "/"), "profile/")
	return nick, ok && nick != "" && !strings.Contains(nick, "/")
}

func hostOf(baseURL, fallback string) string {
	if u, err := url.Parse(baseURL); err == nil && u.Host != "" {
		return u.Host
	}
	return fallback
}
