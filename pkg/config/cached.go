package config

import (
	"context"
	"errors"
	"time"

	"github.com/dmitrymomot/frontdoor/pkg/cache"
)

const maxCachedKeys = 4096

type cachedValue struct {
	value string
	found bool
}

// CachedStore memoizes lookups of another store, including misses.
// Concurrent misses on one key reach the underlying store once.
type CachedStore struct {
	next  Store
	cache *cache.Memory[cachedValue]
	ttl   time.Duration
}

// Cached wraps next with an in-memory cache holding entries for ttl.
func Cached(next Store, ttl time.Duration) *CachedStore {
	return &CachedStore{
		next:  next,
		cache: cache.NewMemory[cachedValue](cache.WithDefaultTTL(ttl), cache.WithMaxEntries(maxCachedKeys)),
		ttl:   ttl,
	}
}

// Get implements Store.
func (c *CachedStore) Get(ctx context.Context, cat, key string) (string, error) {
	v, err := cache.GetOrSet(ctx, c.cache, "config:"+cat+":"+key, func(ctx context.Context) (cachedValue, time.Duration, error) {
		s, err := c.next.Get(ctx, cat, key)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				return cachedValue{}, c.ttl, nil
			}
			return cachedValue{}, 0, err
		}
		return cachedValue{value: s, found: true}, c.ttl, nil
	})
	if err != nil {
		return "", err
	}
	if !v.found {
		return "", ErrNotFound
	}
	return v.value, nil
}

// Flush drops all cached values.
func (c *CachedStore) Flush(ctx context.Context) error {
	return c.cache.Clear(ctx)
}

// Close stops the cache janitor.
func (c *CachedStore) Close() error {
	return c.cache.Close()
}
