package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/singleflight"
)

// Cache is a key-value store with per-entry expiry.
//
// The ttl passed to Set is interpreted as:
//   - > 0: the entry expires after ttl
//   - 0: the backend's default TTL applies
//   - < 0: the entry does not expire
type Cache[V any] interface {
	// Get returns ErrNotFound for missing and expired keys.
	Get(ctx context.Context, key string) (V, error)
	Set(ctx context.Context, key string, value V, ttl time.Duration) error
	// Take returns the value and removes it. Two concurrent Takes of one
	// key never both succeed.
	Take(ctx context.Context, key string) (V, error)
	Delete(ctx context.Context, key string) error
	// Clear removes every entry owned by this cache.
	Clear(ctx context.Context) error
	Close() error
}

// Marshaler converts values for byte-oriented backends.
type Marshaler[V any] interface {
	Marshal(v V) ([]byte, error)
	Unmarshal(data []byte) (V, error)
}

// JSON is the default Marshaler.
type JSON[V any] struct{}

func (JSON[V]) Marshal(v V) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, errors.Join(ErrMarshal, err)
	}
	return data, nil
}

func (JSON[V]) Unmarshal(data []byte) (V, error) {
	var v V
	if err := json.Unmarshal(data, &v); err != nil {
		return v, errors.Join(ErrUnmarshal, err)
	}
	return v, nil
}

var flights singleflight.Group

type loaded[V any] struct {
	value V
	ttl   time.Duration
}

// GetOrSet returns the cached value for key or loads it with fn.
// Concurrent misses of the same cache and key share one fn call. A failed
// load is not cached.
func GetOrSet[V any](ctx context.Context, c Cache[V], key string, fn func(ctx context.Context) (V, time.Duration, error)) (V, error) {
	if v, err := c.Get(ctx, key); err == nil {
		return v, nil
	}

	res, err, _ := flights.Do(fmt.Sprintf("%p/%s", c, key), func() (any, error) {
		// A flight that finished between our miss and Do already stored it.
		if v, err := c.Get(ctx, key); err == nil {
			return loaded[V]{value: v}, nil
		}
		v, ttl, err := fn(ctx)
		if err != nil {
			return nil, err
		}
		_ = c.Set(ctx, key, v, ttl)
		return loaded[V]{value: v, ttl: ttl}, nil
	})
	if err != nil {
		var zero V
		return zero, err
	}
	return res.(loaded[V]).value, nil
}
