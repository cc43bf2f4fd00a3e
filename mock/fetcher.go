package mock

import (
	"context"

	"github.com/fwojciec/legalfeed"
)

var _ legalfeed.Fetcher = (*Fetcher)(nil)

// Fetcher is a mock implementation of legalfeed.Fetcher.
type Fetcher struct {
	FetchFn func(ctx context.Context, source legalfeed.Source, url string, useCache bool) legalfeed.FetchOutcome
}

func (f *Fetcher) Fetch(ctx context.Context, source legalfeed.Source, url string, useCache bool) legalfeed.FetchOutcome {
	return f.FetchFn(ctx, source, url, useCache)
}

var _ legalfeed.Transport = (*Transport)(nil)

// Transport is a mock implementation of legalfeed.Transport.
type Transport struct {
	GetFn   func(ctx context.Context, url string) ([]byte, error)
	CloseFn func() error
}

func (t *Transport) Get(ctx context.Context, url string) ([]byte, error) {
	return t.GetFn(ctx, url)
}

func (t *Transport) Close() error {
	return t.CloseFn()
}

var _ legalfeed.SourceLimiter = (*SourceLimiter)(nil)

// SourceLimiter is a mock implementation of legalfeed.SourceLimiter.
type SourceLimiter struct {
	WaitFn func(ctx context.Context, source legalfeed.Source) error
}

func (l *SourceLimiter) Wait(ctx context.Context, source legalfeed.Source) error {
	return l.WaitFn(ctx, source)
}
