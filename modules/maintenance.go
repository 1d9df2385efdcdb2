package modules

import (
	"fmt"
	"html"
	"net/http"
	"strconv"

	"github.com/dmitrymomot/frontdoor"
	"github.com/dmitrymomot/frontdoor/pkg/config"
)

const maintenanceRetryAfter = 600

// Maintenance is served for every path while system.maintenance is set.
type Maintenance struct{}

func (Maintenance) Init(c frontdoor.Context) error {
	c.SetStatus(http.StatusServiceUnavailable)
	c.Response().Header().Set("Retry-After", strconv.Itoa(maintenanceRetryAfter))
	c.Page().SetTitle(c.T("System down for maintenance"))
	return nil
}

func (Maintenance) Content(c frontdoor.Context) (string, error) {
	out := fmt.Sprintf("<h1>%s</h1>", html.EscapeString(c.T("System down for maintenance")))
	if reason := config.String(c, c.Config(), "system", "maintenance_reason", ""); reason != "" {
		out += fmt.Sprintf("<p>%s</p>", html.EscapeString(reason))
	}
	return out, nil
}
