package crawl_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/fwojciec/legalfeed"
	"github.com/fwojciec/legalfeed/crawl"
	"github.com/fwojciec/legalfeed/mock"
	"github.com/stretchr/testify/assert"
)

// memCache is a CacheStore mock backed by a map.
func memCache() (*mock.CacheStore, map[string]json.RawMessage) {
	entries := map[string]json.RawMessage{}
	return &mock.CacheStore{
		GetFn: func(key string) (json.RawMessage, bool) {
			p, ok := entries[key]
			return p, ok
		},
		SetFn: func(key string, payload json.RawMessage, _ legalfeed.Source, _ time.Duration) error {
			entries[key] = payload
			return nil
		},
	}, entries
}

func TestCachedList(t *testing.T) {
	t.Parallel()

	t.Run("stores a fresh result and serves it next time", func(t *testing.T) {
		t.Parallel()

		cache, entries := memCache()
		loads := 0
		load := func() ([]*legalfeed.GacetaEntry, bool) {
			loads++
			return []*legalfeed.GacetaEntry{{Number: "6.152", Type: legalfeed.GacetaExtraordinaria}}, false
		}

		first, cached := crawl.CachedList(cache, "k", legalfeed.SourceGaceta, time.Hour, true, legalfeed.UnmarshalGacetas, load)
		assert.False(t, cached)
		assert.Len(t, first, 1)
		assert.Contains(t, entries, "k")

		second, cached := crawl.CachedList(cache, "k", legalfeed.SourceGaceta, time.Hour, true, legalfeed.UnmarshalGacetas, load)
		assert.True(t, cached)
		assert.Equal(t, first[0].Number, second[0].Number)
		assert.Equal(t, 1, loads)
	})

	t.Run("bypasses the stored result but refreshes it", func(t *testing.T) {
		t.Parallel()

		cache, entries := memCache()
		entries["k"] = json.RawMessage(`[{"numero":"1","tipo":"ordinaria"}]`)

		got, cached := crawl.CachedList(cache, "k", legalfeed.SourceGaceta, time.Hour, false, legalfeed.UnmarshalGacetas,
			func() ([]*legalfeed.GacetaEntry, bool) {
				return []*legalfeed.GacetaEntry{{Number: "2", Type: legalfeed.GacetaOrdinaria}}, true
			})

		assert.True(t, cached, "load served from cached pages")
		assert.Equal(t, "2", got[0].Number)
		assert.Contains(t, string(entries["k"]), `"numero":"2"`)
	})

	t.Run("does not store empty results", func(t *testing.T) {
		t.Parallel()

		cache, entries := memCache()

		got, _ := crawl.CachedList(cache, "k", legalfeed.SourceGaceta, time.Hour, true, legalfeed.UnmarshalGacetas,
			func() ([]*legalfeed.GacetaEntry, bool) { return nil, false })

		assert.Empty(t, got)
		assert.NotContains(t, entries, "k")
	})

	t.Run("reloads when the stored payload is corrupt", func(t *testing.T) {
		t.Parallel()

		cache, entries := memCache()
		entries["k"] = json.RawMessage(`{not json`)

		got, cached := crawl.CachedList(cache, "k", legalfeed.SourceGaceta, time.Hour, true, legalfeed.UnmarshalGacetas,
			func() ([]*legalfeed.GacetaEntry, bool) {
				return []*legalfeed.GacetaEntry{{Number: "3"}}, false
			})

		assert.False(t, cached)
		assert.Equal(t, "3", got[0].Number)
	})
}

func TestLimit(t *testing.T) {
	t.Parallel()

	records := make([]int, 30)

	assert.Len(t, crawl.Limit(records, 5), 5)
	assert.Len(t, crawl.Limit(records, 0), legalfeed.DefaultMaxResults)
	assert.Len(t, crawl.Limit(records[:3], 10), 3)
	assert.NotNil(t, crawl.Limit[int](nil, 10))
}

func TestFilter(t *testing.T) {
	t.Parallel()

	got := crawl.Filter([]int{1, 2, 3, 4}, func(n int) bool { return n%2 == 0 })

	assert.Equal(t, []int{2, 4}, got)
}
