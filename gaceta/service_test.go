package gaceta_test

import (
	"context"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/fwojciec/legalfeed"
	"github.com/fwojciec/legalfeed/fs"
	"github.com/fwojciec/legalfeed/gaceta"
	"github.com/fwojciec/legalfeed/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2024, 3, 20, 12, 0, 0, 0, time.UTC)

const searchPage = `<html><body>
<div class="resultado">
  <h3><a href="/normas/lot">Ley Orgánica del Trabajo</a></h3>
  <p>Gaceta Oficial N° 6.076 Extraordinario del 7 de mayo de 2012. Vigente.</p>
</div>
<div class="resultado">
  <h3><a href="/normas/rpt">Reglamento Parcial del Trabajo</a></h3>
  <p>Gaceta Oficial N° 38.426 de fecha 28/04/2006. Vigente.</p>
</div>
<div class="resultado">
  <h3><a href="/normas/lot">Ley Orgánica del Trabajo</a></h3>
  <p>Gaceta Oficial N° 6.076 Extraordinario del 7 de mayo de 2012. Vigente.</p>
</div>
<table>
<tr><td>N° 6.152</td><td>18/03/2024</td><td>Extraordinaria</td><td><a href="/g/6152.pdf">PDF</a></td></tr>
<tr><td>N° 42.850</td><td>01/02/2024</td><td>Ordinaria</td><td><a href="/g/42850.pdf">PDF</a></td></tr>
<tr><td>N° 42.860</td><td>sin fecha</td><td>Ordinaria</td><td><a href="/g/42860.pdf">PDF</a></td></tr>
</table>
</body></html>`

// fakeFetcher serves pages by URL and records requests.
type fakeFetcher struct {
	mu        sync.Mutex
	pages     map[string]string
	fromCache bool
	requests  []string
}

func (f *fakeFetcher) mock() *mock.Fetcher {
	return &mock.Fetcher{
		FetchFn: func(_ context.Context, source legalfeed.Source, rawURL string, _ bool) legalfeed.FetchOutcome {
			f.mu.Lock()
			defer f.mu.Unlock()
			f.requests = append(f.requests, rawURL)
			if source != legalfeed.SourceGaceta {
				return legalfeed.FetchOutcome{Failure: legalfeed.FailureHTTP}
			}
			for prefix, body := range f.pages {
				if strings.HasPrefix(rawURL, prefix) {
					return legalfeed.FetchOutcome{Body: body, FromCache: f.fromCache, Attempts: 1}
				}
			}
			return legalfeed.FetchOutcome{Failure: legalfeed.FailureHTTP, StatusCode: 404, Attempts: 1}
		},
	}
}

func (f *fakeFetcher) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.requests)
}

func newService(t *testing.T, f *fakeFetcher) (*gaceta.Service, *fs.CacheStore) {
	t.Helper()
	clock := legalfeed.ClockFunc(func() time.Time { return now })
	cache := fs.NewCacheStore(t.TempDir(), fs.WithClock(clock))
	s, err := gaceta.NewService(f.mock(), cache, gaceta.WithClock(clock))
	require.NoError(t, err)
	return s, cache
}

func searchPages() map[string]string {
	return map[string]string{gaceta.DefaultBaseURL + "/-/gacetas": searchPage}
}

func TestNewService_RejectsInvalidBaseURL(t *testing.T) {
	t.Parallel()

	_, err := gaceta.NewService(&mock.Fetcher{}, &mock.CacheStore{}, gaceta.WithBaseURL("::"))

	require.Error(t, err)
	assert.Equal(t, legalfeed.EINVALID, legalfeed.ErrorCode(err))
}

func TestService_SearchNorms(t *testing.T) {
	t.Parallel()

	t.Run("extracts, de-duplicates and builds the search URL", func(t *testing.T) {
		t.Parallel()

		f := &fakeFetcher{pages: searchPages()}
		s, _ := newService(t, f)

		res := s.SearchNorms(context.Background(), "ley orgánica trabajo", legalfeed.NormFilter{}, legalfeed.SearchOptions{UseCache: true})

		require.Len(t, res.Records, 2)
		assert.Equal(t, 2, res.TotalResults)
		assert.Equal(t, "ley orgánica trabajo", res.Query)
		assert.False(t, res.Cached)
		assert.Nil(t, res.Filters)
		assert.Equal(t, "Ley Orgánica del Trabajo", res.Records[0].Name)
		assert.Equal(t, "http://www.tsj.gob.ve/normas/lot", res.Records[0].URL)

		require.Len(t, f.requests, 1)
		u, err := url.Parse(f.requests[0])
		require.NoError(t, err)
		assert.Equal(t, "/gaceta-oficial/-/gacetas", u.Path)
		assert.Equal(t, "ley orgánica trabajo", u.Query().Get("palabra"))
	})

	t.Run("filters by type and counts before truncation", func(t *testing.T) {
		t.Parallel()

		f := &fakeFetcher{pages: searchPages()}
		s, _ := newService(t, f)

		res := s.SearchNorms(context.Background(), "trabajo", legalfeed.NormFilter{Type: legalfeed.NormReglamento}, legalfeed.SearchOptions{UseCache: true})
		require.Len(t, res.Records, 1)
		assert.Equal(t, legalfeed.NormReglamento, res.Records[0].Type)
		assert.Equal(t, map[string]string{"tipo": "reglamento"}, res.Filters)

		res = s.SearchNorms(context.Background(), "trabajo", legalfeed.NormFilter{}, legalfeed.SearchOptions{MaxResults: 1, UseCache: true})
		assert.Len(t, res.Records, 1)
		assert.Equal(t, 2, res.TotalResults)
	})

	t.Run("filters by date range", func(t *testing.T) {
		t.Parallel()

		f := &fakeFetcher{pages: searchPages()}
		s, _ := newService(t, f)

		res := s.SearchNorms(context.Background(), "trabajo", legalfeed.NormFilter{DateFrom: "01-01-2010"}, legalfeed.SearchOptions{})

		require.Len(t, res.Records, 1)
		assert.Equal(t, "07-05-2012", res.Records[0].GacetaDate)
	})

	t.Run("second search is served from the result cache", func(t *testing.T) {
		t.Parallel()

		f := &fakeFetcher{pages: searchPages()}
		s, _ := newService(t, f)

		first := s.SearchNorms(context.Background(), "Trabajo", legalfeed.NormFilter{}, legalfeed.SearchOptions{UseCache: true})
		second := s.SearchNorms(context.Background(), "  trabajo ", legalfeed.NormFilter{}, legalfeed.SearchOptions{UseCache: true})

		assert.False(t, first.Cached)
		assert.True(t, second.Cached)
		assert.Equal(t, first.Records, second.Records)
		assert.Equal(t, 1, f.count())
	})

	t.Run("bypassing the cache fetches again", func(t *testing.T) {
		t.Parallel()

		f := &fakeFetcher{pages: searchPages()}
		s, _ := newService(t, f)

		s.SearchNorms(context.Background(), "trabajo", legalfeed.NormFilter{}, legalfeed.SearchOptions{UseCache: true})
		res := s.SearchNorms(context.Background(), "trabajo", legalfeed.NormFilter{}, legalfeed.SearchOptions{UseCache: false})

		assert.False(t, res.Cached)
		assert.Equal(t, 2, f.count())
	})

	t.Run("page served from fetch cache marks result cached", func(t *testing.T) {
		t.Parallel()

		f := &fakeFetcher{pages: searchPages(), fromCache: true}
		s, _ := newService(t, f)

		res := s.SearchNorms(context.Background(), "trabajo", legalfeed.NormFilter{}, legalfeed.SearchOptions{UseCache: true})

		assert.True(t, res.Cached)
	})

	t.Run("fetch failure yields empty result", func(t *testing.T) {
		t.Parallel()

		f := &fakeFetcher{}
		s, _ := newService(t, f)

		res := s.SearchNorms(context.Background(), "trabajo", legalfeed.NormFilter{}, legalfeed.SearchOptions{UseCache: true})

		assert.NotNil(t, res.Records)
		assert.Empty(t, res.Records)
		assert.Zero(t, res.TotalResults)
		assert.False(t, res.Cached)
	})
}

func TestService_SearchGacetas(t *testing.T) {
	t.Parallel()

	f := &fakeFetcher{pages: searchPages()}
	s, _ := newService(t, f)

	res := s.SearchGacetas(context.Background(), "6152", legalfeed.GacetaFilter{Type: legalfeed.GacetaOrdinaria}, legalfeed.SearchOptions{UseCache: true})

	require.Len(t, res.Records, 2)
	assert.Equal(t, "42.850", res.Records[0].Number)
	assert.Equal(t, "http://www.tsj.gob.ve/g/42850.pdf", res.Records[0].PDFURL)
	assert.Equal(t, now, res.Records[0].ScrapedAt)
}

func TestService_FindGaceta(t *testing.T) {
	t.Parallel()

	t.Run("matches the normalized number exactly", func(t *testing.T) {
		t.Parallel()

		f := &fakeFetcher{pages: searchPages()}
		s, _ := newService(t, f)

		g, ok := s.FindGaceta(context.Background(), "6152", "")

		require.True(t, ok)
		assert.Equal(t, "6.152", g.Number)
		assert.Equal(t, legalfeed.GacetaExtraordinaria, g.Type)
	})

	t.Run("respects the issue type", func(t *testing.T) {
		t.Parallel()

		f := &fakeFetcher{pages: searchPages()}
		s, _ := newService(t, f)

		_, ok := s.FindGaceta(context.Background(), "6.152", legalfeed.GacetaOrdinaria)

		assert.False(t, ok)
	})

	t.Run("caches the hit", func(t *testing.T) {
		t.Parallel()

		f := &fakeFetcher{pages: searchPages()}
		s, _ := newService(t, f)

		_, ok := s.FindGaceta(context.Background(), "42,850", "")
		require.True(t, ok)
		g, ok := s.FindGaceta(context.Background(), "42850", "")

		require.True(t, ok)
		assert.Equal(t, "42.850", g.Number)
		assert.Equal(t, 1, f.count())
	})

	t.Run("no number", func(t *testing.T) {
		t.Parallel()

		f := &fakeFetcher{pages: searchPages()}
		s, _ := newService(t, f)

		_, ok := s.FindGaceta(context.Background(), "abc", "")

		assert.False(t, ok)
		assert.Zero(t, f.count())
	})
}

func TestService_RecentGacetas(t *testing.T) {
	t.Parallel()

	t.Run("keeps recent and undated issues", func(t *testing.T) {
		t.Parallel()

		f := &fakeFetcher{pages: map[string]string{gaceta.DefaultBaseURL: searchPage}}
		s, _ := newService(t, f)

		got := s.RecentGacetas(context.Background(), "", 30, 10)

		require.Len(t, got, 2)
		assert.Equal(t, "6.152", got[0].Number)
		assert.Equal(t, "42.860", got[1].Number)
		assert.Equal(t, []string{gaceta.DefaultBaseURL}, f.requests)
	})

	t.Run("wider window and type filter", func(t *testing.T) {
		t.Parallel()

		f := &fakeFetcher{pages: map[string]string{gaceta.DefaultBaseURL: searchPage}}
		s, _ := newService(t, f)

		got := s.RecentGacetas(context.Background(), legalfeed.GacetaOrdinaria, 60, 1)

		require.Len(t, got, 1)
		assert.Equal(t, "42.850", got[0].Number)
	})

	t.Run("fetch failure yields empty slice", func(t *testing.T) {
		t.Parallel()

		s, _ := newService(t, &fakeFetcher{})

		got := s.RecentGacetas(context.Background(), "", 30, 10)

		assert.NotNil(t, got)
		assert.Empty(t, got)
	})
}

func TestService_VerifyNorm(t *testing.T) {
	t.Parallel()

	t.Run("high confidence when name, number and date match", func(t *testing.T) {
		t.Parallel()

		s, _ := newService(t, &fakeFetcher{pages: searchPages()})

		v := s.VerifyNorm(context.Background(), "Ley Orgánica del Trabajo", "6076", "07-05-2012")

		assert.True(t, v.Verified)
		assert.InDelta(t, 1.0, v.Confidence, 1e-9)
		require.NotEmpty(t, v.Matches)
		assert.Equal(t, "6.076", v.Matches[0].GacetaNumber)
		assert.Contains(t, v.Message, "alta confianza")
	})

	t.Run("medium confidence on name only", func(t *testing.T) {
		t.Parallel()

		s, _ := newService(t, &fakeFetcher{pages: searchPages()})

		v := s.VerifyNorm(context.Background(), "Ley Orgánica del Trabajo", "", "")

		assert.True(t, v.Verified)
		assert.InDelta(t, 0.5, v.Confidence, 1e-9)
		assert.Contains(t, v.Message, "confianza media")
	})

	t.Run("number alone is not enough", func(t *testing.T) {
		t.Parallel()

		s, _ := newService(t, &fakeFetcher{pages: searchPages()})

		v := s.VerifyNorm(context.Background(), "Código Civil", "38.426", "")

		assert.False(t, v.Verified)
		assert.InDelta(t, 0.3, v.Confidence, 1e-9)
		assert.Contains(t, v.Message, "Posible coincidencia")
	})

	t.Run("no results", func(t *testing.T) {
		t.Parallel()

		s, _ := newService(t, &fakeFetcher{})

		v := s.VerifyNorm(context.Background(), "Ley inexistente", "", "")

		assert.False(t, v.Verified)
		assert.Empty(t, v.Matches)
		assert.Equal(t, "No se encontraron resultados para esta norma", v.Message)
	})
}

func TestService_ClearCacheAndStatus(t *testing.T) {
	t.Parallel()

	f := &fakeFetcher{pages: searchPages()}
	s, cache := newService(t, f)

	s.SearchNorms(context.Background(), "trabajo", legalfeed.NormFilter{}, legalfeed.SearchOptions{UseCache: true})
	require.NoError(t, cache.Set("tsj:other", []byte(`"x"`), legalfeed.SourceTSJ, time.Hour))

	st := s.Status(context.Background())
	assert.Equal(t, legalfeed.SourceGaceta, st.Source)
	assert.Equal(t, gaceta.DefaultBaseURL, st.BaseURL)
	assert.Equal(t, cache.Dir(), st.CacheDir)
	assert.Equal(t, 1, st.CachedItemCount)
	assert.Positive(t, st.CacheSizeBytes)
	assert.InDelta(t, 2.0, st.RateLimitSeconds, 1e-9)
	assert.InDelta(t, 48.0, st.CacheTTLHours, 1e-9)

	assert.Equal(t, 1, s.ClearCache(context.Background()))
	assert.Zero(t, s.Status(context.Background()).CachedItemCount)

	_, ok := cache.Get("tsj:other")
	assert.True(t, ok, "other sources keep their entries")
}
