package legalfeed

import (
	"context"
	"strings"
	"time"
)

// Source identifies a remote publisher. It doubles as the cache namespace
// and the rate limiter key, so it must be a single safe path segment.
type Source string

// Known sources.
const (
	SourceGaceta Source = "gaceta"
	SourceTSJ    Source = "tsj"
)

// Validate returns an error if the source cannot be used as a cache namespace.
func (s Source) Validate() error {
	if s == "" {
		return Errorf(EINVALID, "source required")
	}
	if s == "." || s == ".." || strings.ContainsAny(string(s), `/\`) {
		return Errorf(EINVALID, "invalid source %q: path traversal", s)
	}
	return nil
}

// Defaults observed on the government sites.
const (
	DefaultMinInterval = 2 * time.Second
	DefaultMaxRetries  = 3
	DefaultRetryDelay  = 5 * time.Second
	GacetaCacheTTL     = 48 * time.Hour
	TSJCacheTTL        = 24 * time.Hour
)

// SourceConfig holds the politeness, retry, and freshness settings for one source.
type SourceConfig struct {
	MinInterval time.Duration `json:"minInterval"`
	MaxRetries  int           `json:"maxRetries"`
	RetryDelay  time.Duration `json:"retryDelay"`
	CacheTTL    time.Duration `json:"cacheTtl"`
}

// DefaultSourceConfig returns the defaults for a source. Gazette norms change
// less often than court listings, so the gazette keeps pages twice as long.
func DefaultSourceConfig(source Source) SourceConfig {
	cfg := SourceConfig{
		MinInterval: DefaultMinInterval,
		MaxRetries:  DefaultMaxRetries,
		RetryDelay:  DefaultRetryDelay,
		CacheTTL:    TSJCacheTTL,
	}
	if source == SourceGaceta {
		cfg.CacheTTL = GacetaCacheTTL
	}
	return cfg
}

// Clock supplies the current time. Record timestamps and cache expiry read
// time through a Clock so tests can control it.
type Clock interface {
	Now() time.Time
}

// ClockFunc adapts a function to the Clock interface.
type ClockFunc func() time.Time

// Now returns f().
func (f ClockFunc) Now() time.Time { return f() }

// SystemClock reads the wall clock.
var SystemClock Clock = ClockFunc(time.Now)

// SourceLimiter provides per-source politeness intervals.
type SourceLimiter interface {
	// Wait blocks until the source's minimum interval has elapsed since the
	// previous permitted request to it.
	// Returns an error only if the context is canceled.
	Wait(ctx context.Context, source Source) error
}

type sourceContextKey struct{}

// NewSourceContext returns a copy of ctx that carries source. Transports use
// it to charge extra requests, such as robots.txt, to the right limiter.
func NewSourceContext(ctx context.Context, source Source) context.Context {
	return context.WithValue(ctx, sourceContextKey{}, source)
}

// SourceFromContext returns the source carried by ctx, if any.
func SourceFromContext(ctx context.Context) (Source, bool) {
	source, ok := ctx.Value(sourceContextKey{}).(Source)
	return source, ok
}
