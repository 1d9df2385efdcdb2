package modules

import (
	"fmt"
	"html"

	"github.com/dmitrymomot/frontdoor"
)

// Install is served for every path until the node has a local config file
// and a config table.
type Install struct{}

func (Install) Init(c frontdoor.Context) error {
	c.Page().SetTitle(c.T("Installation"))
	return nil
}

func (Install) Content(c frontdoor.Context) (string, error) {
	return fmt.Sprintf(`<h1>%s</h1><p>%s</p><pre>frontdoor migrate</pre>`,
		html.EscapeString(c.T("Installation")),
		html.EscapeString(c.T("The database is not configured. Set DATABASE_CONN_URL and run the migrations."))), nil
}
