package profile

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/dmitrymomot/frontdoor/pkg/cache"
)

// DefaultTokenTTL bounds how long an issued OpenWebAuth token stays valid.
const DefaultTokenTTL = 5 * time.Minute

// Visitor is the remote identity an OpenWebAuth token vouches for.
type Visitor struct {
	URL  string `json:"url"`
	Name string `json:"name"`
}

// Tokens stores OpenWebAuth one-time tokens. A token is consumed on first
// use.
type Tokens struct {
	c   cache.Cache[Visitor]
	ttl time.Duration
}

// NewTokens wraps a cache backend.
func NewTokens(c cache.Cache[Visitor], ttl time.Duration) *Tokens {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &Tokens{c: c, ttl: ttl}
}

// NewMemoryTokens keeps tokens in process memory.
func NewMemoryTokens() *Tokens {
	return NewTokens(cache.NewMemory[Visitor](cache.WithCleanupInterval(time.Minute)), DefaultTokenTTL)
}

// NewRedisTokens keeps tokens in Redis under the "owt" prefix.
func NewRedisTokens(client redis.UniversalClient) *Tokens {
	return NewTokens(cache.NewRedis[Visitor](client, nil, cache.WithPrefix("owt")), DefaultTokenTTL)
}

// Issue creates a token for v.
func (t *Tokens) Issue(ctx context.Context, v Visitor) (string, error) {
	if v.URL == "" {
		return "", ErrInvalidVisitor
	}
	token := uuid.NewString()
	if err := t.c.Set(ctx, token, v, t.ttl); err != nil {
		return "", errors.Join(ErrTokenStore, err)
	}
	return token, nil
}

// Consume returns the visitor for token and invalidates it.
func (t *Tokens) Consume(ctx context.Context, token string) (Visitor, error) {
	if token == "" {
		return Visitor{}, ErrTokenNotFound
	}
	v, err := t.c.Take(ctx, token)
	if err != nil {
		if errors.Is(err, cache.ErrNotFound) {
			return Visitor{}, ErrTokenNotFound
		}
		return Visitor{}, errors.Join(ErrTokenStore, err)
	}
	return v, nil
}

// Close releases the backend.
func (t *Tokens) Close() error {
	return t.c.Close()
}
