package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpen_InvalidURL(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	_, err := Open(ctx, Config{})
	require.ErrorIs(t, err, ErrEmptyConnectionURL)

	for _, url := range []string{
		"http://localhost:6379",
		"localhost:6379",
		"postgres://localhost:6379",
		"redis://localhost:notaport/0",
	} {
		t.Run(url, func(t *testing.T) {
			t.Parallel()
			client, err := Open(ctx, Config{URL: url})
			require.ErrorIs(t, err, ErrFailedToParseURL)
			assert.Nil(t, client)
		})
	}
}

func TestOpen_CanceledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Open(ctx, Config{
		URL:           "redis://127.0.0.1:1/0",
		DialTimeout:   50 * time.Millisecond,
		RetryAttempts: 3,
		RetryInterval: time.Second,
	})
	require.ErrorIs(t, err, ErrConnectionFailed)
	require.ErrorIs(t, err, context.Canceled)
}

func TestApplyConfig(t *testing.T) {
	t.Parallel()

	opts := &goredis.Options{PoolSize: 1, ReadTimeout: time.Second}
	applyConfig(opts, Config{PoolSize: 20, MinIdleConns: 3, WriteTimeout: 2 * time.Second})

	assert.Equal(t, 20, opts.PoolSize)
	assert.Equal(t, 3, opts.MinIdleConns)
	assert.Equal(t, time.Second, opts.ReadTimeout, "zero values keep the parsed setting")
	assert.Equal(t, 2*time.Second, opts.WriteTimeout)
}

func TestHealthcheck_NilClient(t *testing.T) {
	t.Parallel()

	require.ErrorIs(t, Healthcheck(nil)(context.Background()), ErrHealthcheckFailed)
}

type closer struct{ err error }

func (c closer) Close() error { return c.err }

func TestShutdown(t *testing.T) {
	t.Parallel()

	require.NoError(t, Shutdown(closer{})(context.Background()))

	boom := errors.New("boom")
	require.ErrorIs(t, Shutdown(closer{err: boom})(context.Background()), boom)
}
