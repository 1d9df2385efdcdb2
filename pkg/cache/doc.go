// Package cache provides a generic Cache with an in-memory and a Redis
// backend.
//
// The front controller uses it for sessions, OpenWebAuth tokens, the
// cached runtime config, the environment mode and the load average
// sample. Memory keeps entries in process with LRU eviction and a
// background sweeper; Redis stores them as JSON under an optional prefix.
//
//	c := cache.NewMemory[string](cache.WithMaxEntries(4096))
//	defer c.Close()
//
//	v, err := cache.GetOrSet(ctx, c, "key", func(ctx context.Context) (string, time.Duration, error) {
//	    return load(ctx)
//	})
//
// Take reads and removes an entry in one step, which makes it suitable
// for single-use tokens. Missing and expired keys yield [ErrNotFound].
package cache
