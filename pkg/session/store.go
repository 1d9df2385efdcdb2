package session

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/dmitrymomot/frontdoor/pkg/cache"
)

// Store defines session persistence. Sessions are addressed by token.
type Store interface {
	// Create persists a new session.
	Create(ctx context.Context, s *Session) error

	// Get retrieves a session by its token.
	// Returns ErrNotFound if the session doesn't exist.
	// Returns ErrExpired if the session has expired.
	Get(ctx context.Context, token string) (*Session, error)

	// Update saves changes to an existing session.
	Update(ctx context.Context, s *Session) error

	// Delete removes a session by its token.
	Delete(ctx context.Context, token string) error
}

// CacheStore keeps sessions in a pkg/cache backend. Entries expire with
// the session.
type CacheStore struct {
	c cache.Cache[Session]
}

// NewCacheStore wraps any cache backend.
func NewCacheStore(c cache.Cache[Session]) *CacheStore {
	return &CacheStore{c: c}
}

// NewMemoryStore keeps sessions in process memory.
func NewMemoryStore(opts ...cache.MemoryOption) *CacheStore {
	return NewCacheStore(cache.NewMemory[Session](opts...))
}

// NewRedisStore keeps sessions in Redis as JSON under the "session" prefix.
func NewRedisStore(client redis.UniversalClient) *CacheStore {
	return NewCacheStore(cache.NewRedis[Session](client, nil, cache.WithPrefix("session")))
}

// Create implements Store.
func (s *CacheStore) Create(ctx context.Context, sess *Session) error {
	return s.put(ctx, sess)
}

// Update implements Store.
func (s *CacheStore) Update(ctx context.Context, sess *Session) error {
	return s.put(ctx, sess)
}

func (s *CacheStore) put(ctx context.Context, sess *Session) error {
	if sess == nil || sess.Token == "" {
		return ErrInvalidToken
	}
	ttl := time.Until(sess.ExpiresAt)
	if ttl <= 0 {
		return ErrExpired
	}
	return s.c.Set(ctx, sess.Token, sess.clone(), ttl)
}

// Get implements Store.
func (s *CacheStore) Get(ctx context.Context, token string) (*Session, error) {
	if token == "" {
		return nil, ErrInvalidToken
	}

	sess, err := s.c.Get(ctx, token)
	if err != nil {
		if errors.Is(err, cache.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if sess.IsExpired() {
		_ = s.c.Delete(ctx, token)
		return nil, ErrExpired
	}

	loaded := sess.clone()
	return &loaded, nil
}

// Delete implements Store.
func (s *CacheStore) Delete(ctx context.Context, token string) error {
	return s.c.Delete(ctx, token)
}

// Close releases the backend.
func (s *CacheStore) Close() error {
	return s.c.Close()
}

var _ Store = (*CacheStore)(nil)
