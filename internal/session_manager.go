package internal

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/frontdoor/pkg/cookie"
	"github.com/dmitrymomot/frontdoor/pkg/session"
)

const (
	defaultSessionCookieName = "__sid"
	defaultSessionMaxAge     = 86400 * 30 // 30 days
)

// SessionManager moves sessions between the cookie and the store.
type SessionManager struct {
	store      session.Store
	cookies    *cookie.Manager
	cookieOpts []cookie.Option
	cookieName string
	maxAge     int
}

// SessionOption configures the SessionManager.
type SessionOption func(*SessionManager)

// NewSessionManager creates a SessionManager over store.
func NewSessionManager(store session.Store, opts ...SessionOption) *SessionManager {
	sm := &SessionManager{
		store:      store,
		cookieName: defaultSessionCookieName,
		maxAge:     defaultSessionMaxAge,
	}

	for _, opt := range opts {
		opt(sm)
	}
	sm.cookies = cookie.New(sm.cookieOpts...)

	return sm
}

// WithSessionCookieName sets the session cookie name. Default: "__sid".
func WithSessionCookieName(name string) SessionOption {
	return func(sm *SessionManager) {
		if name != "" {
			sm.cookieName = name
		}
	}
}

// WithSessionMaxAge sets the session lifetime in seconds. Default: 30 days.
func WithSessionMaxAge(seconds int) SessionOption {
	return func(sm *SessionManager) {
		if seconds > 0 {
			sm.maxAge = seconds
		}
	}
}

// WithSessionDomain sets the cookie domain.
func WithSessionDomain(domain string) SessionOption {
	return func(sm *SessionManager) {
		sm.cookieOpts = append(sm.cookieOpts, cookie.WithDomain(domain))
	}
}

// WithSessionSecure marks the cookie Secure.
func WithSessionSecure(secure bool) SessionOption {
	return func(sm *SessionManager) {
		sm.cookieOpts = append(sm.cookieOpts, cookie.WithSecure(secure))
	}
}

// WithSessionSameSite sets the cookie SameSite mode. Default: Lax.
func WithSessionSameSite(sameSite http.SameSite) SessionOption {
	return func(sm *SessionManager) {
		sm.cookieOpts = append(sm.cookieOpts, cookie.WithSameSite(sameSite))
	}
}

// WithSessionSecret signs the session cookie. Secrets shorter than 32
// bytes are ignored. Cookies with a bad signature start a fresh session.
func WithSessionSecret(secret string) SessionOption {
	return func(sm *SessionManager) {
		sm.cookieOpts = append(sm.cookieOpts, cookie.WithSecret(secret))
	}
}

// Start returns the session named by the request cookie, or a fresh one
// when there is none. A fresh session is only stored once it changes.
// Store failures other than a missing or expired session are returned
// together with a fresh session so the request can still be served.
func (sm *SessionManager) Start(ctx context.Context, r *http.Request) (*session.Session, error) {
	var loadErr error
	if token, err := sm.cookies.Read(r, sm.cookieName); err == nil {
		sess, err := sm.store.Get(ctx, token)
		if err == nil {
			sess.LastActiveAt = time.Now()
			return sess, nil
		}
		if !errors.Is(err, session.ErrNotFound) && !errors.Is(err, session.ErrExpired) {
			loadErr = err
		}
	}

	sess, err := sm.newSession()
	if err != nil {
		return nil, errors.Join(loadErr, err)
	}
	return sess, loadErr
}

func (sm *SessionManager) newSession() (*session.Session, error) {
	token, err := generateToken()
	if err != nil {
		return nil, fmt.Errorf("generate session token: %w", err)
	}
	sess := session.New(uuid.NewString(), token, time.Now().Add(time.Duration(sm.maxAge)*time.Second))
	sess.ClearDirty()
	return sess, nil
}

// Save persists a dirty session and, for a new one, sets the cookie.
// It must run before the response header is written.
func (sm *SessionManager) Save(ctx context.Context, w http.ResponseWriter, sess *session.Session) error {
	if sess == nil || !sess.IsDirty() {
		return nil
	}

	if sess.IsNew() {
		if err := sm.store.Create(ctx, sess); err != nil {
			return err
		}
		sess.ClearNew()
		sm.cookies.Write(w, sm.cookieName, sess.Token, sm.maxAge)
	} else if err := sm.store.Update(ctx, sess); err != nil {
		return err
	}

	sess.ClearDirty()
	return nil
}

// Destroy removes the session from the store and expires the cookie.
func (sm *SessionManager) Destroy(ctx context.Context, w http.ResponseWriter, sess *session.Session) error {
	sm.cookies.Expire(w, sm.cookieName)
	if sess == nil || sess.IsNew() {
		return nil
	}
	return sm.store.Delete(ctx, sess.Token)
}

// CookieName returns the session cookie name.
func (sm *SessionManager) CookieName() string {
	return sm.cookieName
}

// Store returns the underlying session store.
func (sm *SessionManager) Store() session.Store {
	return sm.store
}

func generateToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("read random bytes: %w", err)
	}
	return base64.URLEncoding.EncodeToString(b), nil
}
