// Package http provides a net/http implementation of legalfeed.Transport
// for the government sites, which serve plain server-rendered HTML.
package http

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/fwojciec/legalfeed"
)

// DefaultTimeout is the socket timeout for one request.
const DefaultTimeout = 30 * time.Second

// Browser-like defaults. Basic bot filters on the sources reject requests
// that do not look like a desktop browser.
const (
	DefaultUserAgent      = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
	DefaultAccept         = "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8"
	DefaultAcceptLanguage = "es-VE,es;q=0.9,en;q=0.8"
)

// maxBodyBytes caps a response body; decision pages with full text stay
// well under this.
const maxBodyBytes = 20 << 20

// Ensure Transport implements legalfeed.Transport at compile time.
var _ legalfeed.Transport = (*Transport)(nil)

// Transport retrieves raw pages over HTTP with browser-like headers.
type Transport struct {
	client    *http.Client
	timeout   time.Duration
	userAgent string
}

// Option configures a Transport.
type Option func(*Transport)

// WithTimeout sets the timeout for HTTP requests.
// Defaults to DefaultTimeout (30s) if not specified.
func WithTimeout(d time.Duration) Option {
	return func(t *Transport) {
		t.timeout = d
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(t *Transport) {
		t.userAgent = ua
	}
}

// WithClient uses c instead of a client built from the timeout.
func WithClient(c *http.Client) Option {
	return func(t *Transport) {
		t.client = c
	}
}

// NewTransport creates a new HTTP Transport.
func NewTransport(opts ...Option) *Transport {
	t := &Transport{
		timeout:   DefaultTimeout,
		userAgent: DefaultUserAgent,
	}
	for _, opt := range opts {
		opt(t)
	}

	if t.client == nil {
		t.client = &http.Client{
			Timeout: t.timeout,
		}
	}

	return t
}

// UserAgent returns the User-Agent sent with every request.
func (t *Transport) UserAgent() string {
	return t.userAgent
}

// Get retrieves the raw body of url. Non-2xx responses are returned as
// *legalfeed.StatusError.
func (t *Transport) Get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", t.userAgent)
	req.Header.Set("Accept", DefaultAccept)
	req.Header.Set("Accept-Language", DefaultAcceptLanguage)

	resp, err := t.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, &legalfeed.StatusError{StatusCode: resp.StatusCode, URL: url}
	}

	return io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
}

// Close releases resources. For the HTTP transport this is a no-op since
// http.Client doesn't require explicit cleanup.
func (t *Transport) Close() error {
	return nil
}
