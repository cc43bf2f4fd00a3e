package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/fwojciec/legalfeed"
	lfredis "github.com/fwojciec/legalfeed/redis"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
)

func TestSourceLimiter(t *testing.T) {
	t.Parallel()

	t.Run("implements legalfeed.SourceLimiter interface", func(t *testing.T) {
		t.Parallel()
		var _ legalfeed.SourceLimiter = lfredis.NewSourceLimiter(nil, time.Second)
	})

	t.Run("per-source interval overrides the default", func(t *testing.T) {
		t.Parallel()

		limiter := lfredis.NewSourceLimiter(nil, 2*time.Second, lfredis.WithInterval(legalfeed.SourceTSJ, time.Second))

		assert.Equal(t, time.Second, limiter.Interval(legalfeed.SourceTSJ))
		assert.Equal(t, 2*time.Second, limiter.Interval(legalfeed.SourceGaceta))
	})

	t.Run("zero interval never touches redis", func(t *testing.T) {
		t.Parallel()

		// A nil client would panic if used.
		limiter := lfredis.NewSourceLimiter(nil, 0)

		assert.NoError(t, limiter.Wait(context.Background(), legalfeed.SourceGaceta))
	})

	t.Run("reports an unreachable server", func(t *testing.T) {
		t.Parallel()

		client := redis.NewClient(&redis.Options{
			Addr:        "127.0.0.1:1",
			DialTimeout: 50 * time.Millisecond,
			MaxRetries:  -1,
		})
		defer client.Close()
		limiter := lfredis.NewSourceLimiter(client, time.Second)

		err := limiter.Wait(context.Background(), legalfeed.SourceGaceta)

		assert.Error(t, err)
	})
}
