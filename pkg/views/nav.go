package views

import (
	"context"
	"fmt"
	"io"

	"github.com/a-h/templ"
)

// NavItem is one entry of the navigation bar.
type NavItem struct {
	Key   string
	Label string
	URL   string
}

// Nav renders the navigation bar. The item whose key equals selected is
// marked; apps come from the app_menu hook.
func Nav(items []NavItem, selected string, apps []NavItem) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		if _, err := io.WriteString(w, `<nav id="topbar"><ul>`); err != nil {
			return err
		}
		for _, it := range items {
			class := ""
			if it.Key == selected {
				class = ` class="selected"`
			}
			if _, err := fmt.Fprintf(w, `<li id="nav-%s"%s><a href="%s">%s</a></li>`,
				templ.EscapeString(it.Key), class, templ.EscapeString(it.URL), templ.EscapeString(it.Label)); err != nil {
				return err
			}
		}
		if _, err := io.WriteString(w, `</ul>`); err != nil {
			return err
		}
		if len(apps) > 0 {
			if _, err := io.WriteString(w, `<ul id="apps-menu">`); err != nil {
				return err
			}
			for _, app := range apps {
				if _, err := fmt.Fprintf(w, `<li><a href="%s">%s</a></li>`,
					templ.EscapeString(app.URL), templ.EscapeString(app.Label)); err != nil {
					return err
				}
			}
			if _, err := io.WriteString(w, `</ul>`); err != nil {
				return err
			}
		}
		_, err := io.WriteString(w, `</nav>`)
		return err
	})
}

// Messages renders queued notices and infos. Messages must already be
// plain text.
func Messages(notices, infos []string) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		if len(notices) == 0 && len(infos) == 0 {
			return nil
		}
		if _, err := io.WriteString(w, `<div id="sysmsg">`); err != nil {
			return err
		}
		for _, n := range notices {
			if _, err := fmt.Fprintf(w, `<div class="notice">%s</div>`, templ.EscapeString(n)); err != nil {
				return err
			}
		}
		for _, i := range infos {
			if _, err := fmt.Fprintf(w, `<div class="info">%s</div>`, templ.EscapeString(i)); err != nil {
				return err
			}
		}
		_, err := io.WriteString(w, `</div>`)
		return err
	})
}
