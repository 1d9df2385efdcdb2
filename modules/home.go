package modules

import (
	"fmt"
	"html"

	"github.com/dmitrymomot/frontdoor"
	"github.com/dmitrymomot/frontdoor/pkg/config"
)

// Home is the landing page. Logged in users go straight to their network
// stream.
type Home struct{}

func (Home) Init(c frontdoor.Context) error {
	if c.IsLocalUser() {
		return c.Redirect("network")
	}
	c.Page().SetNavSelected("home")
	return nil
}

func (Home) Content(c frontdoor.Context) (string, error) {
	site := config.String(c, c.Config(), "config", "sitename", "Frontdoor")
	return fmt.Sprintf(`<h1>%s</h1><p><a href="%s/login">%s</a></p>`,
		html.EscapeString(c.T("Welcome to %s", site)),
		html.EscapeString(c.BaseURL()),
		html.EscapeString(c.T("Login"))), nil
}
