package modules

import (
	"context"
	"errors"
	"fmt"
	"html"

	"github.com/dmitrymomot/frontdoor"
)

// ErrInvalidCredentials is returned by an Authenticator that rejects the
// nickname or password.
var ErrInvalidCredentials = errors.New("modules: invalid credentials")

// Authenticator checks local credentials and returns the account uid.
type Authenticator interface {
	Authenticate(ctx context.Context, nickname, password string) (string, error)
}

// AuthenticatorFunc adapts a function to Authenticator.
type AuthenticatorFunc func(ctx context.Context, nickname, password string) (string, error)

func (f AuthenticatorFunc) Authenticate(ctx context.Context, nickname, password string) (string, error) {
	return f(ctx, nickname, password)
}

// Login shows the login form and binds the session to the account on a
// successful POST.
type Login struct {
	Auth Authenticator
}

func (*Login) Init(c frontdoor.Context) error {
	c.Page().SetNavSelected("login")
	return nil
}

func (l *Login) Post(c frontdoor.Context) error {
	if c.IsLocalUser() {
		return c.Redirect("network")
	}
	if l.Auth == nil {
		c.Notice("Login failed.")
		return nil
	}

	uid, err := l.Auth.Authenticate(c, c.Form("nickname"), c.Form("password"))
	if err != nil {
		if !errors.Is(err, ErrInvalidCredentials) {
			c.LogWarn("authenticate", "error", err)
		}
		c.Notice("Login failed.")
		return nil
	}

	c.Session().Login(uid)
	c.LogInfo("local login", "uid", uid)
	return c.Redirect("network")
}

func (*Login) Content(c frontdoor.Context) (string, error) {
	if c.IsLocalUser() {
		return "", nil
	}
	return fmt.Sprintf(`<form id="login-form" method="post" action="%s/login">`+
		`<input type="text" name="nickname" placeholder="%s">`+
		`<input type="password" name="password" placeholder="%s">`+
		`<button type="submit">%s</button></form>`,
		html.EscapeString(c.BaseURL()),
		html.EscapeString(c.T("Nickname")),
		html.EscapeString(c.T("Password")),
		html.EscapeString(c.T("Login"))), nil
}
