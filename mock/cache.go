package mock

import (
	"encoding/json"
	"time"

	"github.com/fwojciec/legalfeed"
)

var _ legalfeed.CacheStore = (*CacheStore)(nil)

// CacheStore is a mock implementation of legalfeed.CacheStore.
type CacheStore struct {
	GetFn   func(key string) (json.RawMessage, bool)
	SetFn   func(key string, payload json.RawMessage, source legalfeed.Source, ttl time.Duration) error
	ClearFn func(source legalfeed.Source) (int, error)
	StatsFn func(source legalfeed.Source) (legalfeed.CacheStats, error)
}

func (c *CacheStore) Get(key string) (json.RawMessage, bool) {
	return c.GetFn(key)
}

func (c *CacheStore) Set(key string, payload json.RawMessage, source legalfeed.Source, ttl time.Duration) error {
	return c.SetFn(key, payload, source, ttl)
}

func (c *CacheStore) Clear(source legalfeed.Source) (int, error) {
	return c.ClearFn(source)
}

func (c *CacheStore) Stats(source legalfeed.Source) (legalfeed.CacheStats, error) {
	return c.StatsFn(source)
}
