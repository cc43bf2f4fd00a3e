// Package redis provides a legalfeed.SourceLimiter shared across processes
// through github.com/redis/go-redis/v9.
package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/fwojciec/legalfeed"
	"github.com/redis/go-redis/v9"
)

// DefaultKeyPrefix namespaces limiter keys.
const DefaultKeyPrefix = "legalfeed:ratelimit:"

// minPoll bounds how often a waiting process re-checks the lease.
const minPoll = 10 * time.Millisecond

var _ legalfeed.SourceLimiter = (*SourceLimiter)(nil)

// SourceLimiter spaces requests to each source across every process sharing
// one Redis. A request takes a lease with SET NX PX <interval>; whoever
// holds the lease may proceed, everyone else waits for it to expire.
type SourceLimiter struct {
	client    redis.Cmdable
	prefix    string
	interval  time.Duration
	intervals map[legalfeed.Source]time.Duration
}

// Option configures a SourceLimiter.
type Option func(*SourceLimiter)

// WithInterval overrides the interval for a single source.
func WithInterval(source legalfeed.Source, d time.Duration) Option {
	return func(l *SourceLimiter) {
		l.intervals[source] = d
	}
}

// WithKeyPrefix sets the key prefix.
func WithKeyPrefix(prefix string) Option {
	return func(l *SourceLimiter) {
		l.prefix = prefix
	}
}

// NewSourceLimiter creates a SourceLimiter using client.
func NewSourceLimiter(client redis.Cmdable, interval time.Duration, opts ...Option) *SourceLimiter {
	l := &SourceLimiter{
		client:    client,
		prefix:    DefaultKeyPrefix,
		interval:  interval,
		intervals: make(map[legalfeed.Source]time.Duration),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// NewClient connects to the Redis server at addr and verifies the connection.
func NewClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("connect to redis at %s: %w", addr, err)
	}
	return rdb, nil
}

// Interval returns the minimum spacing enforced for source.
func (l *SourceLimiter) Interval(source legalfeed.Source) time.Duration {
	if d, ok := l.intervals[source]; ok {
		return d
	}
	return l.interval
}

// Wait blocks until this process holds the source's lease. Returns an error
// if the context is canceled or Redis cannot be reached.
func (l *SourceLimiter) Wait(ctx context.Context, source legalfeed.Source) error {
	interval := l.Interval(source)
	if interval <= 0 {
		return ctx.Err()
	}
	key := l.prefix + string(source)

	for {
		ok, err := l.client.SetNX(ctx, key, 1, interval).Result()
		if err != nil {
			return fmt.Errorf("acquire rate limit lease for %s: %w", source, err)
		}
		if ok {
			return nil
		}

		ttl, err := l.client.PTTL(ctx, key).Result()
		if err != nil {
			return fmt.Errorf("read rate limit lease for %s: %w", source, err)
		}
		if ttl < minPoll {
			ttl = minPoll
		}

		timer := time.NewTimer(ttl)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}
