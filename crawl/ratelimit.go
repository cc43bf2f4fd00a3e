package crawl

import (
	"context"
	"sync"
	"time"

	"github.com/fwojciec/legalfeed"
	"golang.org/x/time/rate"
)

var _ legalfeed.SourceLimiter = (*SourceLimiter)(nil)

// SourceLimiter provides per-source politeness intervals using token buckets.
// Each source gets its own limiter with a burst of 1, so consecutive requests
// to one source are spaced by at least its interval while different sources
// proceed independently.
type SourceLimiter struct {
	mu        sync.Mutex
	limiters  map[legalfeed.Source]*rate.Limiter
	intervals map[legalfeed.Source]time.Duration
	interval  time.Duration
}

// LimiterOption configures a SourceLimiter.
type LimiterOption func(*SourceLimiter)

// WithInterval overrides the interval for a single source.
func WithInterval(source legalfeed.Source, d time.Duration) LimiterOption {
	return func(l *SourceLimiter) {
		l.intervals[source] = d
	}
}

// NewSourceLimiter creates a SourceLimiter that spaces requests to each
// source by interval unless overridden per source.
func NewSourceLimiter(interval time.Duration, opts ...LimiterOption) *SourceLimiter {
	l := &SourceLimiter{
		limiters:  make(map[legalfeed.Source]*rate.Limiter),
		intervals: make(map[legalfeed.Source]time.Duration),
		interval:  interval,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Interval returns the minimum spacing enforced for source.
func (l *SourceLimiter) Interval(source legalfeed.Source) time.Duration {
	if d, ok := l.intervals[source]; ok {
		return d
	}
	return l.interval
}

// Wait blocks until the source's interval has elapsed since the previous
// permitted request. Returns an error if the context is canceled first.
func (l *SourceLimiter) Wait(ctx context.Context, source legalfeed.Source) error {
	l.mu.Lock()
	limiter, ok := l.limiters[source]
	if !ok {
		limit := rate.Inf
		if d := l.Interval(source); d > 0 {
			limit = rate.Every(d)
		}
		limiter = rate.NewLimiter(limit, 1)
		l.limiters[source] = limiter
	}
	l.mu.Unlock()

	return limiter.Wait(ctx)
}
