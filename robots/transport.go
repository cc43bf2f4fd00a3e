// Package robots provides a legalfeed.Transport decorator that honors
// robots.txt using github.com/temoto/robotstxt.
package robots

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"sync"

	"github.com/fwojciec/legalfeed"
	"github.com/temoto/robotstxt"
)

// Ensure Transport implements legalfeed.Transport at compile time.
var _ legalfeed.Transport = (*Transport)(nil)

// Transport refuses URLs that the host's robots.txt disallows for the
// configured user agent. Rules are fetched once per host through the wrapped
// transport.
//
// A missing robots.txt (4xx) allows everything and is remembered. A network
// error, 429 or 5xx allows the current request and is retried on the next one.
type Transport struct {
	next      legalfeed.Transport
	userAgent string
	limiter   legalfeed.SourceLimiter

	mu     sync.Mutex
	groups map[string]*robotstxt.Group
}

// Option configures a Transport.
type Option func(*Transport)

// WithLimiter makes the page request that follows a robots.txt fetch wait
// on limiter again, so the two requests are spaced like any others. The
// source is read from the request context (legalfeed.SourceFromContext).
func WithLimiter(l legalfeed.SourceLimiter) Option {
	return func(t *Transport) {
		t.limiter = l
	}
}

// NewTransport wraps next.
func NewTransport(next legalfeed.Transport, userAgent string, opts ...Option) *Transport {
	t := &Transport{
		next:      next,
		userAgent: userAgent,
		groups:    make(map[string]*robotstxt.Group),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Get returns an EFORBIDDEN error for disallowed URLs and delegates
// everything else.
func (t *Transport) Get(ctx context.Context, rawURL string) ([]byte, error) {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return t.next.Get(ctx, rawURL)
	}

	group, fetched := t.group(ctx, u)
	if group != nil && !group.Test(u.EscapedPath()) {
		return nil, legalfeed.Errorf(legalfeed.EFORBIDDEN, "%s is disallowed by robots.txt", rawURL)
	}
	if fetched {
		if err := t.wait(ctx); err != nil {
			return nil, err
		}
	}
	return t.next.Get(ctx, rawURL)
}

func (t *Transport) wait(ctx context.Context) error {
	if t.limiter == nil {
		return nil
	}
	source, ok := legalfeed.SourceFromContext(ctx)
	if !ok {
		return nil
	}
	return t.limiter.Wait(ctx, source)
}

// group returns the rules for u's host and whether robots.txt was requested
// to get them.
func (t *Transport) group(ctx context.Context, u *url.URL) (*robotstxt.Group, bool) {
	host := u.Scheme + "://" + u.Host

	t.mu.Lock()
	group, ok := t.groups[host]
	t.mu.Unlock()
	if ok {
		return group, false
	}

	group, keep := t.fetchGroup(ctx, host)
	if keep && ctx.Err() == nil {
		t.mu.Lock()
		t.groups[host] = group
		t.mu.Unlock()
	}
	return group, true
}

// fetchGroup reports whether the result may be remembered for the host.
func (t *Transport) fetchGroup(ctx context.Context, host string) (*robotstxt.Group, bool) {
	status := http.StatusOK
	body, err := t.next.Get(ctx, host+"/robots.txt")
	if err != nil {
		var statusErr *legalfeed.StatusError
		if !errors.As(err, &statusErr) || statusErr.Retryable() {
			return nil, false
		}
		status = statusErr.StatusCode
	}

	data, err := robotstxt.FromStatusAndBytes(status, body)
	if err != nil {
		return nil, true
	}
	return data.FindGroup(t.userAgent), true
}

// Close closes the wrapped transport.
func (t *Transport) Close() error {
	return t.next.Close()
}
