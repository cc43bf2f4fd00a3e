package legalfeed

import (
	"encoding/json"
	"net/url"
	"strings"
	"time"
)

// CacheEntry is one persisted cache record.
type CacheEntry struct {
	Key       string          `json:"key"`
	Payload   json.RawMessage `json:"payload"`
	CreatedAt time.Time       `json:"createdAt"`
	ExpiresAt time.Time       `json:"expiresAt"`
	Source    Source          `json:"source"`
	SizeBytes int64           `json:"sizeBytes"`
}

// Expired reports whether the entry is no longer servable at now.
func (e *CacheEntry) Expired(now time.Time) bool {
	return !now.Before(e.ExpiresAt)
}

// CacheStats summarizes the contents of a cache.
type CacheStats struct {
	Dir            string `json:"cacheDir"`
	Count          int    `json:"cachedItemCount"`
	TotalSizeBytes int64  `json:"cacheSizeBytes"`
}

// CacheStore is a TTL-expiring key/value store partitioned by source.
// Implementations never surface read errors: a missing, corrupted or expired
// entry is a miss, and corrupted or expired entries are removed.
type CacheStore interface {
	// Get returns the payload stored under key if it has not expired.
	Get(key string) (json.RawMessage, bool)

	// Set stores payload under key in the source's namespace, replacing any
	// previous entry for key. Returns EINVALID if ttl is not positive or the
	// source is not a valid namespace.
	Set(key string, payload json.RawMessage, source Source, ttl time.Duration) error

	// Clear removes every entry of source, or every entry when source is
	// empty, and returns the number removed.
	Clear(source Source) (int, error)

	// Stats counts the entries of source, or of the whole cache when source
	// is empty.
	Stats(source Source) (CacheStats, error)
}

// RequestKey builds a stable identity for a logical request. Parameters are
// sorted so the same semantic request maps to the same key regardless of
// argument order. Empty parameter values are dropped.
func RequestKey(source Source, kind, query string, params map[string]string) string {
	v := url.Values{}
	for k, val := range params {
		if val != "" {
			v.Set(k, val)
		}
	}
	var b strings.Builder
	b.WriteString(string(source))
	b.WriteByte(':')
	b.WriteString(kind)
	b.WriteByte(':')
	b.WriteString(strings.ToLower(strings.TrimSpace(query)))
	if enc := v.Encode(); enc != "" {
		b.WriteByte('?')
		b.WriteString(enc)
	}
	return b.String()
}
