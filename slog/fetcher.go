// Package slog decorates legalfeed services with structured logging.
package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/legalfeed"
)

// Ensure LoggingFetcher implements legalfeed.Fetcher.
var _ legalfeed.Fetcher = (*LoggingFetcher)(nil)

// LoggingFetcher wraps a Fetcher and logs every logical fetch.
type LoggingFetcher struct {
	next   legalfeed.Fetcher
	logger *slog.Logger
}

// NewLoggingFetcher creates a new LoggingFetcher.
func NewLoggingFetcher(next legalfeed.Fetcher, logger *slog.Logger) *LoggingFetcher {
	return &LoggingFetcher{next: next, logger: logger}
}

// Fetch delegates to the wrapped fetcher. Failures log at warn level.
func (f *LoggingFetcher) Fetch(ctx context.Context, source legalfeed.Source, url string, useCache bool) (out legalfeed.FetchOutcome) {
	defer func(begin time.Time) {
		level := slog.LevelInfo
		attrs := []any{
			"source", source,
			"url", url,
			"bytes", len(out.Body),
			"cached", out.FromCache,
			"attempts", out.Attempts,
			"duration", time.Since(begin),
		}
		if !out.OK() {
			level = slog.LevelWarn
			attrs = append(attrs, "failure", out.Failure.String(), "status", out.StatusCode)
		}
		f.logger.Log(ctx, level, "fetch", attrs...)
	}(time.Now())
	return f.next.Fetch(ctx, source, url, useCache)
}

// Ensure LoggingTransport implements legalfeed.Transport.
var _ legalfeed.Transport = (*LoggingTransport)(nil)

// LoggingTransport wraps a Transport and logs each raw request at debug
// level.
type LoggingTransport struct {
	next   legalfeed.Transport
	logger *slog.Logger
}

// NewLoggingTransport creates a new LoggingTransport.
func NewLoggingTransport(next legalfeed.Transport, logger *slog.Logger) *LoggingTransport {
	return &LoggingTransport{next: next, logger: logger}
}

// Get delegates to the wrapped transport and logs the request.
func (t *LoggingTransport) Get(ctx context.Context, url string) (body []byte, err error) {
	defer func(begin time.Time) {
		t.logger.Debug("get",
			"url", url,
			"bytes", len(body),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return t.next.Get(ctx, url)
}

// Close delegates to the wrapped transport.
func (t *LoggingTransport) Close() error {
	return t.next.Close()
}
