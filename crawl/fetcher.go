package crawl

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/fwojciec/legalfeed"
)

var _ legalfeed.Fetcher = (*Fetcher)(nil)

// SleepFunc waits for d or until ctx is done, returning ctx.Err() in the
// latter case.
type SleepFunc func(ctx context.Context, d time.Duration) error

// Sleep is the default SleepFunc.
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Fetcher implements legalfeed.Fetcher on top of a Transport, adding the
// cache, the per-source politeness interval and linear-backoff retries.
type Fetcher struct {
	transport legalfeed.Transport
	cache     legalfeed.CacheStore
	limiter   legalfeed.SourceLimiter
	configs   map[legalfeed.Source]legalfeed.SourceConfig
	sleep     SleepFunc
}

// FetcherOption configures a Fetcher.
type FetcherOption func(*Fetcher)

// WithSourceConfig sets retry and cache settings for a source. Sources
// without a config use legalfeed.DefaultSourceConfig.
func WithSourceConfig(source legalfeed.Source, cfg legalfeed.SourceConfig) FetcherOption {
	return func(f *Fetcher) {
		f.configs[source] = cfg
	}
}

// WithSleep replaces the backoff sleep, mainly for tests.
func WithSleep(fn SleepFunc) FetcherOption {
	return func(f *Fetcher) {
		f.sleep = fn
	}
}

// NewFetcher creates a Fetcher.
func NewFetcher(transport legalfeed.Transport, cache legalfeed.CacheStore, limiter legalfeed.SourceLimiter, opts ...FetcherOption) *Fetcher {
	f := &Fetcher{
		transport: transport,
		cache:     cache,
		limiter:   limiter,
		configs:   make(map[legalfeed.Source]legalfeed.SourceConfig),
		sleep:     Sleep,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Config returns the effective settings for source.
func (f *Fetcher) Config(source legalfeed.Source) legalfeed.SourceConfig {
	if cfg, ok := f.configs[source]; ok {
		return cfg
	}
	return legalfeed.DefaultSourceConfig(source)
}

// Fetch returns the decoded body of url. It never returns an error: failures
// are reported through FetchOutcome.Failure.
//
// A 4xx other than 429 and a robots.txt disallow end the fetch at once.
// A 429, a 5xx, or a network error is retried after RetryDelay*attempt,
// up to MaxRetries attempts in total.
func (f *Fetcher) Fetch(ctx context.Context, source legalfeed.Source, url string, useCache bool) legalfeed.FetchOutcome {
	if useCache {
		if body, ok := f.cached(url); ok {
			return legalfeed.FetchOutcome{Body: body, FromCache: true}
		}
	}

	ctx = legalfeed.NewSourceContext(ctx, source)
	cfg := f.Config(source)
	maxAttempts := max(cfg.MaxRetries, 1)

	out := legalfeed.FetchOutcome{Failure: legalfeed.FailureNetwork}
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		out.Attempts = attempt

		if err := f.limiter.Wait(ctx, source); err != nil {
			return out
		}

		raw, err := f.transport.Get(ctx, url)
		if err == nil {
			body := DecodeBody(raw)
			f.store(url, body, source, cfg.CacheTTL)
			return legalfeed.FetchOutcome{Body: body, Attempts: attempt}
		}

		var statusErr *legalfeed.StatusError
		isStatus := errors.As(err, &statusErr)
		switch {
		case legalfeed.ErrorCode(err) == legalfeed.EFORBIDDEN:
			out.Failure = legalfeed.FailureDisallowed
			return out
		case isStatus && !statusErr.Retryable():
			out.Failure = legalfeed.FailureHTTP
			out.StatusCode = statusErr.StatusCode
			return out
		case isStatus:
			out.StatusCode = statusErr.StatusCode
		}

		if ctx.Err() != nil {
			return out
		}

		// Don't sleep after the last attempt
		if attempt < maxAttempts {
			if err := f.sleep(ctx, cfg.RetryDelay*time.Duration(attempt)); err != nil {
				return out
			}
		}
	}
	return out
}

func (f *Fetcher) cached(url string) (string, bool) {
	if f.cache == nil {
		return "", false
	}
	payload, ok := f.cache.Get(url)
	if !ok {
		return "", false
	}
	var body string
	if err := json.Unmarshal(payload, &body); err != nil {
		return "", false
	}
	return body, true
}

// store writes body to the cache. Cache write failures are not fetch
// failures: the caller still gets the body.
func (f *Fetcher) store(url, body string, source legalfeed.Source, ttl time.Duration) {
	if f.cache == nil {
		return
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return
	}
	_ = f.cache.Set(url, payload, source, ttl)
}
