package cookie

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"net/http"
	"strings"
)

// Errors.
var (
	ErrNotFound = errors.New("cookie: not found")
	ErrBadSig   = errors.New("cookie: invalid signature")
)

// MinSecretLen is the shortest secret accepted by WithSecret.
const MinSecretLen = 32

// Manager reads and writes cookies with shared attributes. With a secret
// set, values are signed with HMAC-SHA256 and verified on read.
type Manager struct {
	secret   []byte // nil = values are written as is
	domain   string
	path     string
	secure   bool
	httpOnly bool
	sameSite http.SameSite
}

// Option configures the Manager.
type Option func(*Manager)

// New creates a cookie Manager with the given options.
func New(opts ...Option) *Manager {
	m := &Manager{
		path:     "/",
		httpOnly: true,
		sameSite: http.SameSiteLaxMode,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// WithSecret enables signing. Secrets shorter than MinSecretLen are
// ignored.
func WithSecret(secret string) Option {
	return func(m *Manager) {
		if len(secret) >= MinSecretLen {
			m.secret = []byte(secret)
		}
	}
}

// WithDomain sets the cookie domain.
func WithDomain(domain string) Option {
	return func(m *Manager) {
		m.domain = domain
	}
}

// WithPath sets the cookie path.
func WithPath(path string) Option {
	return func(m *Manager) {
		if path != "" {
			m.path = path
		}
	}
}

// WithSecure sets the Secure flag.
func WithSecure(secure bool) Option {
	return func(m *Manager) {
		m.secure = secure
	}
}

// WithHTTPOnly sets the HttpOnly flag.
func WithHTTPOnly(httpOnly bool) Option {
	return func(m *Manager) {
		m.httpOnly = httpOnly
	}
}

// WithSameSite sets the SameSite attribute.
func WithSameSite(ss http.SameSite) Option {
	return func(m *Manager) {
		m.sameSite = ss
	}
}

// Signed reports whether values are signed.
func (m *Manager) Signed() bool {
	return m.secret != nil
}

// Read returns the value of the named cookie. Signed values whose
// signature does not match yield ErrBadSig.
func (m *Manager) Read(r *http.Request, name string) (string, error) {
	c, err := r.Cookie(name)
	if err != nil || c.Value == "" {
		return "", ErrNotFound
	}
	if m.secret == nil {
		return c.Value, nil
	}

	// Format: base64(value).base64(signature)
	enc, encSig, ok := strings.Cut(c.Value, ".")
	if !ok {
		return "", ErrBadSig
	}
	value, err := base64.RawURLEncoding.DecodeString(enc)
	if err != nil {
		return "", ErrBadSig
	}
	sig, err := base64.RawURLEncoding.DecodeString(encSig)
	if err != nil {
		return "", ErrBadSig
	}
	if !hmac.Equal(sig, m.sign(value)) {
		return "", ErrBadSig
	}
	return string(value), nil
}

// Write sets the named cookie. A negative maxAge expires it.
func (m *Manager) Write(w http.ResponseWriter, name, value string, maxAge int) {
	if m.secret != nil && value != "" {
		value = base64.RawURLEncoding.EncodeToString([]byte(value)) +
			"." + base64.RawURLEncoding.EncodeToString(m.sign([]byte(value)))
	}
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     m.path,
		Domain:   m.domain,
		MaxAge:   maxAge,
		Secure:   m.secure,
		HttpOnly: m.httpOnly,
		SameSite: m.sameSite,
	})
}

// Expire removes the named cookie from the client.
func (m *Manager) Expire(w http.ResponseWriter, name string) {
	m.Write(w, name, "", -1)
}

func (m *Manager) sign(value []byte) []byte {
	mac := hmac.New(sha256.New, m.secret)
	mac.Write(value)
	return mac.Sum(nil)
}
