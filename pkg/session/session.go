// Package session holds the per-visitor state carried between requests:
// the local account, remote visitor identity, language and queued messages.
package session

import (
	"errors"
	"slices"
	"time"
)

// Session represents a visitor session.
// Exported fields are persisted by the store; setters mark it dirty.
type Session struct {
	CreatedAt    time.Time `json:"created_at"`
	LastActiveAt time.Time `json:"last_active_at"`
	ExpiresAt    time.Time `json:"expires_at"`

	UserID        *string        `json:"uid,omitempty"` // local account, nil for visitors
	Values        map[string]any `json:"values,omitempty"`
	ID            string         `json:"id"`
	Token         string         `json:"token"`
	Language      string         `json:"language,omitempty"`
	MyURL         string         `json:"my_url,omitempty"`
	VisitorHome   string         `json:"visitor_home,omitempty"`
	SysMsg        []string       `json:"sysmsg,omitempty"`
	SysMsgInfo    []string       `json:"sysmsg_info,omitempty"`
	Authenticated bool           `json:"authenticated"`

	dirty bool
	isNew bool
}

// New creates a new session with the given ID and token.
func New(id, token string, expiresAt time.Time) *Session {
	now := time.Now()
	return &Session{
		ID:           id,
		Token:        token,
		Values:       make(map[string]any),
		CreatedAt:    now,
		LastActiveAt: now,
		ExpiresAt:    expiresAt,
		isNew:        true,
		dirty:        true,
	}
}

// IsLocalUser reports whether a local account is logged in.
func (s *Session) IsLocalUser() bool {
	return s != nil && s.UserID != nil && *s.UserID != ""
}

// LocalUserID returns the local account id or "".
func (s *Session) LocalUserID() string {
	if !s.IsLocalUser() {
		return ""
	}
	return *s.UserID
}

// IsAuthenticated reports whether the caller is a local user or an
// authenticated remote visitor.
func (s *Session) IsAuthenticated() bool {
	return s != nil && (s.Authenticated || s.IsLocalUser())
}

// Login binds the session to a local account.
func (s *Session) Login(uid string) {
	s.UserID = &uid
	s.Authenticated = true
	s.dirty = true
}

// SetLanguage stores the session language.
func (s *Session) SetLanguage(lang string) {
	if s.Language == lang {
		return
	}
	s.Language = lang
	s.dirty = true
}

// SetRemoteIdentity records the profile URL a remote visitor claims.
// A claim matching the verified visitor home changes nothing; any other
// claim replaces my_url and drops the authenticated flag.
func (s *Session) SetRemoteIdentity(myURL string) {
	if s.VisitorHome == myURL {
		return
	}
	s.MyURL = myURL
	s.Authenticated = false
	s.dirty = true
}

// SetRemoteVisitor marks the session as a verified remote visitor.
func (s *Session) SetRemoteVisitor(profileURL string) {
	s.Authenticated = true
	s.MyURL = profileURL
	s.VisitorHome = profileURL
	s.dirty = true
}

// AddNotice queues an error or warning for display.
func (s *Session) AddNotice(msg string) {
	if msg == "" || slices.Contains(s.SysMsg, msg) {
		return
	}
	s.SysMsg = append(s.SysMsg, msg)
	s.dirty = true
}

// AddInfo queues an informational message for display.
func (s *Session) AddInfo(msg string) {
	if msg == "" || slices.Contains(s.SysMsgInfo, msg) {
		return
	}
	s.SysMsgInfo = append(s.SysMsgInfo, msg)
	s.dirty = true
}

// TakeMessages returns and clears the queued notices and infos.
func (s *Session) TakeMessages() (notices, infos []string) {
	notices, infos = s.SysMsg, s.SysMsgInfo
	if len(notices) > 0 || len(infos) > 0 {
		s.SysMsg, s.SysMsgInfo = nil, nil
		s.dirty = true
	}
	return notices, infos
}

// SetValue stores a value in the session.
func (s *Session) SetValue(key string, val any) {
	if s.Values == nil {
		s.Values = make(map[string]any)
	}
	s.Values[key] = val
	s.dirty = true
}

// GetValue retrieves a value from the session.
func (s *Session) GetValue(key string) (any, bool) {
	if s.Values == nil {
		return nil, false
	}
	val, ok := s.Values[key]
	return val, ok
}

// DeleteValue removes a value from the session.
// Marks the session as dirty only if the key existed.
func (s *Session) DeleteValue(key string) {
	if s.Values == nil {
		return
	}
	if _, exists := s.Values[key]; exists {
		delete(s.Values, key)
		s.dirty = true
	}
}

// IsDirty returns true if the session has unsaved changes.
func (s *Session) IsDirty() bool {
	return s.dirty
}

// ClearDirty marks the session as saved.
func (s *Session) ClearDirty() {
	s.dirty = false
}

// MarkDirty marks the session as needing to be saved.
func (s *Session) MarkDirty() {
	s.dirty = true
}

// IsNew returns true if the session has not been persisted yet.
func (s *Session) IsNew() bool {
	return s.isNew
}

// ClearNew marks the session as persisted.
func (s *Session) ClearNew() {
	s.isNew = false
}

// clone copies the session so that stored and loaded values share no
// maps or slices. The copy is neither new nor dirty.
func (s *Session) clone() Session {
	c := *s
	c.dirty, c.isNew = false, false
	if s.UserID != nil {
		uid := *s.UserID
		c.UserID = &uid
	}
	if s.Values != nil {
		c.Values = make(map[string]any, len(s.Values))
		for k, v := range s.Values {
			c.Values[k] = v
		}
	}
	c.SysMsg = slices.Clone(s.SysMsg)
	c.SysMsgInfo = slices.Clone(s.SysMsgInfo)
	return c
}

// IsExpired returns true if the session has expired.
func (s *Session) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}

// Value is a typed helper to retrieve session values.
func Value[T any](s *Session, key string) (T, error) {
	var zero T
	if s == nil {
		return zero, ErrNotFound
	}

	val, ok := s.GetValue(key)
	if !ok {
		return zero, ErrNotFound
	}

	typed, ok := val.(T)
	if !ok {
		return zero, errors.New("session: type mismatch for key: " + key)
	}

	return typed, nil
}

// ValueOr returns defaultVal if the key is missing or has another type.
func ValueOr[T any](s *Session, key string, defaultVal T) T {
	val, err := Value[T](s, key)
	if err != nil {
		return defaultVal
	}
	return val
}
