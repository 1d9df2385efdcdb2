package cache_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/frontdoor/pkg/cache"
)

func newMemory[V any](t *testing.T, opts ...cache.MemoryOption) *cache.Memory[V] {
	t.Helper()
	c := cache.NewMemory[V](opts...)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestMemory_GetSet(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("miss", func(t *testing.T) {
		t.Parallel()
		c := newMemory[string](t)
		_, err := c.Get(ctx, "missing")
		require.ErrorIs(t, err, cache.ErrNotFound)
	})

	t.Run("hit and overwrite", func(t *testing.T) {
		t.Parallel()
		c := newMemory[int](t)
		require.NoError(t, c.Set(ctx, "k", 1, time.Minute))
		require.NoError(t, c.Set(ctx, "k", 2, time.Minute))

		v, err := c.Get(ctx, "k")
		require.NoError(t, err)
		assert.Equal(t, 2, v)
		assert.Equal(t, 1, c.Len())
	})

	t.Run("expired entry", func(t *testing.T) {
		t.Parallel()
		c := newMemory[string](t, cache.WithCleanupInterval(0))
		require.NoError(t, c.Set(ctx, "k", "v", time.Millisecond))
		time.Sleep(5 * time.Millisecond)

		_, err := c.Get(ctx, "k")
		require.ErrorIs(t, err, cache.ErrNotFound)
		assert.Zero(t, c.Len(), "expired entries are dropped on access")
	})

	t.Run("default ttl", func(t *testing.T) {
		t.Parallel()
		c := newMemory[string](t, cache.WithDefaultTTL(time.Millisecond), cache.WithCleanupInterval(0))
		require.NoError(t, c.Set(ctx, "k", "v", 0))
		time.Sleep(5 * time.Millisecond)

		_, err := c.Get(ctx, "k")
		require.ErrorIs(t, err, cache.ErrNotFound)
	})

	t.Run("negative ttl never expires", func(t *testing.T) {
		t.Parallel()
		c := newMemory[string](t, cache.WithDefaultTTL(time.Millisecond), cache.WithCleanupInterval(0))
		require.NoError(t, c.Set(ctx, "k", "v", -1))
		time.Sleep(5 * time.Millisecond)

		v, err := c.Get(ctx, "k")
		require.NoError(t, err)
		assert.Equal(t, "v", v)
	})
}

func TestMemory_Take(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("removes entry", func(t *testing.T) {
		t.Parallel()
		c := newMemory[string](t)
		require.NoError(t, c.Set(ctx, "token", "alice", time.Minute))

		v, err := c.Take(ctx, "token")
		require.NoError(t, err)
		assert.Equal(t, "alice", v)

		_, err = c.Take(ctx, "token")
		require.ErrorIs(t, err, cache.ErrNotFound)
	})

	t.Run("expired entry", func(t *testing.T) {
		t.Parallel()
		c := newMemory[string](t, cache.WithCleanupInterval(0))
		require.NoError(t, c.Set(ctx, "token", "alice", time.Millisecond))
		time.Sleep(5 * time.Millisecond)

		_, err := c.Take(ctx, "token")
		require.ErrorIs(t, err, cache.ErrNotFound)
	})

	t.Run("single winner", func(t *testing.T) {
		t.Parallel()
		c := newMemory[int](t)
		require.NoError(t, c.Set(ctx, "once", 1, time.Minute))

		var wins atomic.Int32
		var wg sync.WaitGroup
		for range 32 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				if _, err := c.Take(ctx, "once"); err == nil {
					wins.Add(1)
				}
			}()
		}
		wg.Wait()
		assert.Equal(t, int32(1), wins.Load())
	})
}

func TestMemory_DeleteClearClose(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	c := cache.NewMemory[string]()

	require.NoError(t, c.Set(ctx, "a", "1", time.Minute))
	require.NoError(t, c.Set(ctx, "b", "2", time.Minute))

	require.NoError(t, c.Delete(ctx, "a"))
	require.NoError(t, c.Delete(ctx, "missing"))
	_, err := c.Get(ctx, "a")
	require.ErrorIs(t, err, cache.ErrNotFound)

	require.NoError(t, c.Clear(ctx))
	assert.Zero(t, c.Len())

	require.NoError(t, c.Close())
	require.NoError(t, c.Close(), "close is idempotent")
	require.ErrorIs(t, c.Set(ctx, "a", "1", time.Minute), cache.ErrClosed)
	require.ErrorIs(t, c.Delete(ctx, "a"), cache.ErrClosed)
	require.ErrorIs(t, c.Clear(ctx), cache.ErrClosed)
}

func TestMemory_MaxEntries(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	c := newMemory[int](t, cache.WithMaxEntries(2))

	require.NoError(t, c.Set(ctx, "a", 1, time.Minute))
	require.NoError(t, c.Set(ctx, "b", 2, time.Minute))
	_, err := c.Get(ctx, "a") // a is now the most recently used
	require.NoError(t, err)
	require.NoError(t, c.Set(ctx, "c", 3, time.Minute))

	assert.Equal(t, 2, c.Len())
	_, err = c.Get(ctx, "b")
	require.ErrorIs(t, err, cache.ErrNotFound, "least recently used entry is evicted")
	_, err = c.Get(ctx, "a")
	require.NoError(t, err)
}

func TestMemory_Sweep(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	c := newMemory[string](t, cache.WithCleanupInterval(5*time.Millisecond))
	require.NoError(t, c.Set(ctx, "k", "v", time.Millisecond))

	assert.Eventually(t, func() bool { return c.Len() == 0 }, time.Second, 5*time.Millisecond)
}

func TestGetOrSet(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("loads once per key", func(t *testing.T) {
		t.Parallel()
		c := newMemory[string](t)
		var calls atomic.Int32
		load := func(context.Context) (string, time.Duration, error) {
			calls.Add(1)
			time.Sleep(10 * time.Millisecond)
			return "value", time.Minute, nil
		}

		var wg sync.WaitGroup
		for range 16 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				v, err := cache.GetOrSet(ctx, c, "k", load)
				assert.NoError(t, err)
				assert.Equal(t, "value", v)
			}()
		}
		wg.Wait()
		assert.Equal(t, int32(1), calls.Load())

		v, err := c.Get(ctx, "k")
		require.NoError(t, err)
		assert.Equal(t, "value", v)
	})

	t.Run("errors are not cached", func(t *testing.T) {
		t.Parallel()
		c := newMemory[string](t)
		boom := errors.New("boom")

		_, err := cache.GetOrSet(ctx, c, "k", func(context.Context) (string, time.Duration, error) {
			return "", 0, boom
		})
		require.ErrorIs(t, err, boom)

		_, err = c.Get(ctx, "k")
		require.ErrorIs(t, err, cache.ErrNotFound)
	})

	t.Run("separate caches do not share flights", func(t *testing.T) {
		t.Parallel()
		a, b := newMemory[int](t), newMemory[int](t)

		va, err := cache.GetOrSet(ctx, a, "k", func(context.Context) (int, time.Duration, error) { return 1, time.Minute, nil })
		require.NoError(t, err)
		vb, err := cache.GetOrSet(ctx, b, "k", func(context.Context) (int, time.Duration, error) { return 2, time.Minute, nil })
		require.NoError(t, err)

		assert.Equal(t, 1, va)
		assert.Equal(t, 2, vb)
	})
}

func TestJSON(t *testing.T) {
	t.Parallel()

	type visitor struct {
		URL string `json:"url"`
	}

	var codec cache.JSON[visitor]
	data, err := codec.Marshal(visitor{URL: "https://remote.example/profile/bob"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"url":"https://remote.example/profile/bob"}`, string(data))

	_, err = codec.Unmarshal([]byte("{"))
	require.ErrorIs(t, err, cache.ErrUnmarshal)

	_, err = cache.JSON[chan int]{}.Marshal(make(chan int))
	require.ErrorIs(t, err, cache.ErrMarshal)
}
