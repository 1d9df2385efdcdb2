package internal

import (
	"context"
	"errors"
	"log/slog"

	"github.com/dmitrymomot/frontdoor/pkg/db"
)

// UserStore looks up local account data. *db.Users implements it.
type UserStore interface {
	Language(ctx context.Context, uid string) (string, error)
}

// selectLanguage negotiates the browser language, then lets the session
// override it. An authenticated session without a language adopts the
// browser language, or the stored language of its local account.
func (a *App) selectLanguage(c *requestContext) string {
	lang := a.catalog.Negotiate(c.request.Header.Get("Accept-Language"))

	sess := c.session
	if sess.IsAuthenticated() && sess.Language == "" {
		sess.SetLanguage(lang)
		if uid := sess.LocalUserID(); uid != "" && a.users != nil {
			stored, err := a.users.Language(c, uid)
			switch {
			case err == nil && stored != "":
				sess.SetLanguage(stored)
			case err != nil && !errors.Is(err, db.ErrUserNotFound):
				c.LogWarn("load user language", slog.String("uid", uid), slog.Any("error", err))
			}
		}
	}

	if sess.Language != "" && sess.Language != lang {
		lang = sess.Language
	}
	return lang
}
