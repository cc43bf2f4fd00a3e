// Package bloom provides record de-duplication using Bloom filters.
package bloom

import "github.com/bits-and-blooms/bloom/v3"

// DefaultFPRate keeps the chance of dropping a distinct record negligible
// for listing-sized inputs.
const DefaultFPRate = 1e-6

// Filter wraps a Bloom filter for record key de-duplication.
type Filter struct {
	f *bloom.BloomFilter
}

// NewFilter creates a new Bloom filter sized for n expected items
// with the given false positive rate.
func NewFilter(n uint, fpRate float64) *Filter {
	if n == 0 {
		n = 1
	}
	return &Filter{
		f: bloom.NewWithEstimates(n, fpRate),
	}
}

// TestAndAdd reports whether key might have been added before and adds it.
// False positives are possible; false negatives are not.
func (f *Filter) TestAndAdd(key string) bool {
	return f.f.TestAndAddString(key)
}

// Dedupe returns records in order with repeated keys dropped, keeping the
// first occurrence. Records with an empty key are always kept.
func Dedupe[T any](records []T, key func(T) string) []T {
	f := NewFilter(uint(len(records)), DefaultFPRate)
	out := make([]T, 0, len(records))
	for _, r := range records {
		k := key(r)
		if k != "" && f.TestAndAdd(k) {
			continue
		}
		out = append(out, r)
	}
	return out
}
