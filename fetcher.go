package legalfeed

import (
	"context"
	"fmt"
	"net/http"
)

// Transport performs a single GET without caching, politeness or retries.
type Transport interface {
	// Get returns the raw response body. A non-2xx response is reported as
	// a *StatusError.
	Get(ctx context.Context, url string) ([]byte, error)

	// Close releases any resources held by the transport.
	Close() error
}

// StatusError reports a non-2xx HTTP response.
type StatusError struct {
	StatusCode int
	URL        string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("HTTP %d for %s", e.StatusCode, e.URL)
}

// Retryable reports whether the request may succeed if repeated.
func (e *StatusError) Retryable() bool {
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= 500
}

// FailureKind describes why a fetch produced no body.
type FailureKind int

// Failure kinds.
const (
	FailureNone FailureKind = iota
	// FailureNetwork covers connection errors, timeouts and exhausted retries.
	FailureNetwork
	// FailureHTTP is a terminal 4xx response.
	FailureHTTP
	// FailureDisallowed means robots.txt forbids the URL.
	FailureDisallowed
)

func (k FailureKind) String() string {
	switch k {
	case FailureNone:
		return "none"
	case FailureNetwork:
		return "network"
	case FailureHTTP:
		return "http"
	case FailureDisallowed:
		return "disallowed"
	}
	return fmt.Sprintf("FailureKind(%d)", int(k))
}

// FetchOutcome is the result of one logical fetch. Failures are values.
type FetchOutcome struct {
	Body       string
	FromCache  bool
	Failure    FailureKind
	StatusCode int
	Attempts   int
}

// OK reports whether the fetch produced a body.
func (o FetchOutcome) OK() bool {
	return o.Failure == FailureNone
}

// Fetcher retrieves decoded page text, consulting the cache, obeying the
// source's politeness interval and retrying transient failures.
type Fetcher interface {
	// Fetch never returns an error. With useCache false the cache read is
	// skipped but a successful body still refreshes the cache.
	Fetch(ctx context.Context, source Source, url string, useCache bool) FetchOutcome
}
