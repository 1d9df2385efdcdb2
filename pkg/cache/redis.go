package cache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisOption configures a Redis cache.
type RedisOption func(*redisConfig)

type redisConfig struct {
	prefix string
	ttl    time.Duration
}

// WithPrefix namespaces keys as "<prefix>:<key>". Clear then only removes
// keys under the prefix.
func WithPrefix(prefix string) RedisOption {
	return func(c *redisConfig) { c.prefix = prefix }
}

// WithRedisDefaultTTL sets the expiry used when Set gets a zero ttl.
// Default: 1 hour.
func WithRedisDefaultTTL(d time.Duration) RedisOption {
	return func(c *redisConfig) { c.ttl = d }
}

// Redis is a Cache stored in Redis. Values are encoded with a Marshaler.
// Close does not close the client; its owner does that.
type Redis[V any] struct {
	client redis.UniversalClient
	codec  Marshaler[V]
	prefix string
	ttl    time.Duration
}

// NewRedis creates a Redis cache. A nil Marshaler selects JSON.
//
//	sessions := cache.NewRedis[session.Session](client, nil, cache.WithPrefix("session"))
func NewRedis[V any](client redis.UniversalClient, codec Marshaler[V], opts ...RedisOption) *Redis[V] {
	cfg := redisConfig{ttl: defaultTTL}
	for _, opt := range opts {
		opt(&cfg)
	}
	if codec == nil {
		codec = JSON[V]{}
	}
	return &Redis[V]{client: client, codec: codec, prefix: cfg.prefix, ttl: cfg.ttl}
}

// Get implements Cache.
func (r *Redis[V]) Get(ctx context.Context, key string) (V, error) {
	return r.decode(r.client.Get(ctx, r.key(key)).Bytes())
}

// Set implements Cache.
func (r *Redis[V]) Set(ctx context.Context, key string, value V, ttl time.Duration) error {
	data, err := r.codec.Marshal(value)
	if err != nil {
		return err
	}
	if ttl == 0 {
		ttl = r.ttl
	}
	// Redis treats a zero expiration as "keep forever".
	return r.client.Set(ctx, r.key(key), data, max(ttl, 0)).Err()
}

// Take implements Cache with GETDEL.
func (r *Redis[V]) Take(ctx context.Context, key string) (V, error) {
	return r.decode(r.client.GetDel(ctx, r.key(key)).Bytes())
}

// Delete implements Cache.
func (r *Redis[V]) Delete(ctx context.Context, key string) error {
	return r.client.Del(ctx, r.key(key)).Err()
}

// Clear implements Cache. Without a prefix it flushes the whole database.
func (r *Redis[V]) Clear(ctx context.Context) error {
	if r.prefix == "" {
		return r.client.FlushDB(ctx).Err()
	}

	iter := r.client.Scan(ctx, 0, r.prefix+":*", 100).Iterator()
	for iter.Next(ctx) {
		if err := r.client.Del(ctx, iter.Val()).Err(); err != nil {
			return err
		}
	}
	return iter.Err()
}

// Close implements Cache. It is a no-op.
func (r *Redis[V]) Close() error {
	return nil
}

func (r *Redis[V]) key(k string) string {
	if r.prefix == "" {
		return k
	}
	return r.prefix + ":" + k
}

func (r *Redis[V]) decode(data []byte, err error) (V, error) {
	if err != nil {
		var zero V
		if errors.Is(err, redis.Nil) {
			return zero, ErrNotFound
		}
		return zero, err
	}
	return r.codec.Unmarshal(data)
}

var _ Cache[any] = (*Redis[any])(nil)
