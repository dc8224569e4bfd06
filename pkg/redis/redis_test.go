package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/blogsmith/pkg/redis"
)

func TestConnect(t *testing.T) {
	t.Parallel()

	t.Run("connects to a live server", func(t *testing.T) {
		t.Parallel()

		mr := miniredis.RunT(t)
		client, err := redis.Connect(context.Background(), redis.Config{
			URL:            "redis://" + mr.Addr(),
			ConnectTimeout: 5 * time.Second,
			RetryAttempts:  1,
			RetryInterval:  time.Millisecond,
		})
		require.NoError(t, err)
		t.Cleanup(func() { _ = client.Close() })

		require.NoError(t, redis.Healthcheck(client)(context.Background()))
	})

	t.Run("rejects malformed url", func(t *testing.T) {
		t.Parallel()

		_, err := redis.Connect(context.Background(), redis.Config{URL: "://nope"})
		require.ErrorIs(t, err, redis.ErrInvalidURL)
	})

	t.Run("gives up after retries", func(t *testing.T) {
		t.Parallel()

		_, err := redis.Connect(context.Background(), redis.Config{
			URL:            "redis://127.0.0.1:1",
			ConnectTimeout: time.Second,
			RetryAttempts:  2,
			RetryInterval:  time.Millisecond,
		})
		require.ErrorIs(t, err, redis.ErrNotReady)
	})
}
