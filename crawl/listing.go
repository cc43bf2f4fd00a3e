package crawl

import (
	"encoding/json"
	"time"

	"github.com/fwojciec/legalfeed"
)

// CachedList returns the records stored under key, or runs load and keeps
// a non-empty result for ttl. With useCache false the stored list is not
// read but a fresh result still replaces it. cached is true for a stored
// hit and whenever load reports that it was served from cached pages.
func CachedList[T any](
	cache legalfeed.CacheStore,
	key string,
	source legalfeed.Source,
	ttl time.Duration,
	useCache bool,
	decode func([]byte) ([]T, error),
	load func() (records []T, fromCache bool),
) (records []T, cached bool) {
	if useCache {
		if payload, ok := cache.Get(key); ok {
			if records, err := decode(payload); err == nil {
				return records, true
			}
		}
	}

	records, cached = load()
	if len(records) > 0 {
		if payload, err := legalfeed.MarshalRecords(records); err == nil {
			_ = cache.Set(key, json.RawMessage(payload), source, ttl)
		}
	}
	return records, cached
}

// Limit truncates records to max. A non-positive max keeps
// legalfeed.DefaultMaxResults records. The result is never nil.
func Limit[T any](records []T, max int) []T {
	if max <= 0 {
		max = legalfeed.DefaultMaxResults
	}
	if records == nil {
		return []T{}
	}
	if len(records) > max {
		return records[:max]
	}
	return records
}

// Filter returns the records for which keep is true, preserving order.
func Filter[T any](records []T, keep func(T) bool) []T {
	out := make([]T, 0, len(records))
	for _, r := range records {
		if keep(r) {
			out = append(out, r)
		}
	}
	return out
}
