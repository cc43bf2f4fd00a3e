package bloom_test

import (
	"fmt"
	"testing"

	"github.com/fwojciec/legalfeed"
	"github.com/fwojciec/legalfeed/bloom"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilter_TestAndAdd(t *testing.T) {
	t.Parallel()

	f := bloom.NewFilter(10, bloom.DefaultFPRate)

	assert.False(t, f.TestAndAdd("6.152:extraordinaria"))
	assert.True(t, f.TestAndAdd("6.152:extraordinaria"))
	assert.False(t, f.TestAndAdd("6.152:ordinaria"))
}

func TestFilter_ZeroSizedFilterStillWorks(t *testing.T) {
	t.Parallel()

	f := bloom.NewFilter(0, bloom.DefaultFPRate)

	assert.False(t, f.TestAndAdd("a"))
	assert.True(t, f.TestAndAdd("a"))
}

func TestFilter_FalsePositiveRate(t *testing.T) {
	t.Parallel()

	const (
		numItems   = 10000
		fpRate     = 0.01
		testProbes = 10000
	)

	// Sized for every key it will see, since probing also adds.
	f := bloom.NewFilter(numItems+testProbes, fpRate)

	for i := range numItems {
		f.TestAndAdd(fmt.Sprintf("scon:added:%d", i))
	}

	falsePositives := 0
	for i := range testProbes {
		if f.TestAndAdd(fmt.Sprintf("scon:notadded:%d", i)) {
			falsePositives++
		}
	}

	// Allow up to 2% to account for statistical variance
	actualRate := float64(falsePositives) / float64(testProbes)
	assert.Less(t, actualRate, 0.02, "false positive rate %f exceeds 2%%", actualRate)
}

func TestDedupe(t *testing.T) {
	t.Parallel()

	t.Run("keeps first occurrence in order", func(t *testing.T) {
		t.Parallel()

		records := []*legalfeed.ScrapedDecision{
			{Number: "1", Sala: legalfeed.SalaConstitucional, URL: "http://h/decisiones/scon/1.html", Ponente: "first"},
			{Number: "2", Sala: legalfeed.SalaConstitucional, URL: "http://h/decisiones/scon/2.html"},
			{Number: "1", Sala: legalfeed.SalaConstitucional, URL: "http://h/decisiones/scon/1.html", Ponente: "second"},
		}

		got := bloom.Dedupe(records, (*legalfeed.ScrapedDecision).Key)

		require.Len(t, got, 2)
		assert.Equal(t, "first", got[0].Ponente)
		assert.Equal(t, "2", got[1].Number)
	})

	t.Run("keeps records without a key", func(t *testing.T) {
		t.Parallel()

		got := bloom.Dedupe([]string{"", "", "a", "a"}, func(s string) string { return s })

		assert.Equal(t, []string{"", "", "a"}, got)
	})

	t.Run("empty input", func(t *testing.T) {
		t.Parallel()

		got := bloom.Dedupe([]string(nil), func(s string) string { return s })

		assert.Empty(t, got)
	})
}
