// Package gaceta reads norms and gazette issues from the Gaceta Oficial
// listings published by the TSJ.
package gaceta

import (
	"context"
	"fmt"
	"net/url"
	"sort"
	"strings"

	"github.com/fwojciec/legalfeed"
	"github.com/fwojciec/legalfeed/bloom"
	"github.com/fwojciec/legalfeed/crawl"
	"github.com/fwojciec/legalfeed/goquery"
)

// DefaultBaseURL is the Gaceta Oficial listing page.
const DefaultBaseURL = "http://www.tsj.gob.ve/gaceta-oficial"

const source = legalfeed.SourceGaceta

// verifyMaxResults bounds the search behind VerifyNorm.
const verifyMaxResults = 10

// Ensure Service implements legalfeed.NormService.
var _ legalfeed.NormService = (*Service)(nil)

// Service implements legalfeed.NormService.
type Service struct {
	fetcher legalfeed.Fetcher
	cache   legalfeed.CacheStore
	clock   legalfeed.Clock
	config  legalfeed.SourceConfig
	baseURL string
	extract *goquery.Extractor
}

// Option configures a Service.
type Option func(*Service)

// WithBaseURL points the service at a different host, e.g. a test server.
func WithBaseURL(u string) Option {
	return func(s *Service) {
		s.baseURL = strings.TrimRight(u, "/")
	}
}

// WithClock sets the clock used for timestamps and recent-window cutoffs.
func WithClock(c legalfeed.Clock) Option {
	return func(s *Service) {
		s.clock = c
	}
}

// WithConfig sets the source configuration reported by Status and used as
// the TTL of cached search results.
func WithConfig(cfg legalfeed.SourceConfig) Option {
	return func(s *Service) {
		s.config = cfg
	}
}

// NewService creates a Service that fetches through fetcher and keeps
// search results in cache.
func NewService(fetcher legalfeed.Fetcher, cache legalfeed.CacheStore, opts ...Option) (*Service, error) {
	s := &Service{
		fetcher: fetcher,
		cache:   cache,
		clock:   legalfeed.SystemClock,
		config:  legalfeed.DefaultSourceConfig(source),
		baseURL: DefaultBaseURL,
	}
	for _, opt := range opts {
		opt(s)
	}
	extract, err := goquery.NewExtractor(s.baseURL, goquery.WithClock(s.clock))
	if err != nil {
		return nil, err
	}
	s.extract = extract
	return s, nil
}

func (s *Service) searchURL(query string) string {
	return s.baseURL + "/-/gacetas?palabra=" + url.QueryEscape(strings.TrimSpace(query))
}

// page fetches rawURL and reports whether a body is available.
func (s *Service) page(ctx context.Context, rawURL string, useCache bool) (body string, fromCache, ok bool) {
	out := s.fetcher.Fetch(ctx, source, rawURL, useCache)
	if !out.OK() {
		return "", false, false
	}
	return out.Body, out.FromCache, true
}

// SearchNorms searches the gazette for norms matching query.
func (s *Service) SearchNorms(ctx context.Context, query string, filter legalfeed.NormFilter, opts legalfeed.SearchOptions) *legalfeed.SearchResult[*legalfeed.ScrapedNorm] {
	begin := s.clock.Now()
	key := legalfeed.RequestKey(source, "norms", query, filter.Params())

	norms, cached := crawl.CachedList(s.cache, key, source, s.config.CacheTTL, opts.UseCache, legalfeed.UnmarshalNorms,
		func() ([]*legalfeed.ScrapedNorm, bool) {
			body, fromCache, ok := s.page(ctx, s.searchURL(query), opts.UseCache)
			if !ok {
				return nil, false
			}
			norms := bloom.Dedupe(s.extract.Norms(body), (*legalfeed.ScrapedNorm).Key)
			return crawl.Filter(norms, filter.Match), fromCache
		})

	return &legalfeed.SearchResult[*legalfeed.ScrapedNorm]{
		Query:        query,
		Filters:      legalfeed.ActiveParams(filter.Params()),
		TotalResults: len(norms),
		Records:      crawl.Limit(norms, opts.Limit()),
		Elapsed:      s.clock.Now().Sub(begin),
		Cached:       cached,
	}
}

// SearchGacetas searches the gazette for issues matching query.
func (s *Service) SearchGacetas(ctx context.Context, query string, filter legalfeed.GacetaFilter, opts legalfeed.SearchOptions) *legalfeed.SearchResult[*legalfeed.GacetaEntry] {
	begin := s.clock.Now()
	key := legalfeed.RequestKey(source, "gacetas", query, filter.Params())

	entries, cached := crawl.CachedList(s.cache, key, source, s.config.CacheTTL, opts.UseCache, legalfeed.UnmarshalGacetas,
		func() ([]*legalfeed.GacetaEntry, bool) {
			body, fromCache, ok := s.page(ctx, s.searchURL(query), opts.UseCache)
			if !ok {
				return nil, false
			}
			entries := bloom.Dedupe(s.extract.GacetaEntries(body), (*legalfeed.GacetaEntry).Key)
			return crawl.Filter(entries, filter.Match), fromCache
		})

	return &legalfeed.SearchResult[*legalfeed.GacetaEntry]{
		Query:        query,
		Filters:      legalfeed.ActiveParams(filter.Params()),
		TotalResults: len(entries),
		Records:      crawl.Limit(entries, opts.Limit()),
		Elapsed:      s.clock.Now().Sub(begin),
		Cached:       cached,
	}
}

// FindGaceta searches for numero and returns the issue with exactly that
// number. "6152", "6,152" and "6.152" name the same issue.
func (s *Service) FindGaceta(ctx context.Context, numero string, typ legalfeed.GacetaType) (*legalfeed.GacetaEntry, bool) {
	numero = goquery.NormalizeGacetaNumber(numero)
	if numero == "" {
		return nil, false
	}
	key := legalfeed.RequestKey(source, "gaceta", numero, map[string]string{"tipo": string(typ)})

	found, _ := crawl.CachedList(s.cache, key, source, s.config.CacheTTL, true, legalfeed.UnmarshalGacetas,
		func() ([]*legalfeed.GacetaEntry, bool) {
			res := s.SearchGacetas(ctx, numero, legalfeed.GacetaFilter{Type: typ}, legalfeed.SearchOptions{UseCache: true})
			for _, g := range res.Records {
				if g.Number == numero {
					return []*legalfeed.GacetaEntry{g}, res.Cached
				}
			}
			return nil, res.Cached
		})
	if len(found) == 0 {
		return nil, false
	}
	return found[0], true
}

// RecentGacetas reads the main listing and keeps issues dated within the
// last days days. Issues without a parseable date are kept.
func (s *Service) RecentGacetas(ctx context.Context, typ legalfeed.GacetaType, days, max int) []*legalfeed.GacetaEntry {
	if days <= 0 {
		days = legalfeed.DefaultRecentDays
	}
	body, _, ok := s.page(ctx, s.baseURL, true)
	if !ok {
		return []*legalfeed.GacetaEntry{}
	}

	cutoff := s.clock.Now().AddDate(0, 0, -days)
	entries := bloom.Dedupe(s.extract.GacetaEntries(body), (*legalfeed.GacetaEntry).Key)
	entries = crawl.Filter(entries, func(g *legalfeed.GacetaEntry) bool {
		return (typ == "" || g.Type == typ) && legalfeed.OnOrAfter(g.Date, cutoff)
	})
	return crawl.Limit(entries, max)
}

// Match scores, in tenths: name 5, gazette number 3, date 2.
const (
	nameScore   = 5
	numberScore = 3
	dateScore   = 2

	verifiedScore       = 5
	highConfidenceScore = 7
)

// VerifyNorm searches for name and scores each result against the expected
// gazette number and date. The norm counts as verified when the best match
// scores at least 0.5.
func (s *Service) VerifyNorm(ctx context.Context, name, numero, fecha string) *legalfeed.Verification {
	v := &legalfeed.Verification{
		Name:           name,
		ExpectedNumber: numero,
		ExpectedDate:   fecha,
		Matches:        []legalfeed.NormMatch{},
	}

	res := s.SearchNorms(ctx, name, legalfeed.NormFilter{}, legalfeed.SearchOptions{MaxResults: verifyMaxResults, UseCache: true})
	if len(res.Records) == 0 {
		v.Message = "No se encontraron resultados para esta norma"
		return v
	}

	wantName := strings.ToLower(strings.TrimSpace(name))
	wantNumber := goquery.NormalizeGacetaNumber(numero)
	best := 0
	for _, n := range res.Records {
		score := 0
		got := strings.ToLower(n.Name)
		if wantName != "" && (strings.Contains(got, wantName) || (got != "" && strings.Contains(wantName, got))) {
			score += nameScore
		}
		if wantNumber != "" && strings.Contains(n.GacetaNumber, wantNumber) {
			score += numberScore
		}
		if fecha != "" && fecha == n.GacetaDate {
			score += dateScore
		}
		if score == 0 {
			continue
		}
		if score > best {
			best = score
		}
		v.Matches = append(v.Matches, legalfeed.NormMatch{
			Name:         n.Name,
			GacetaNumber: n.GacetaNumber,
			GacetaDate:   n.GacetaDate,
			Score:        float64(score) / 10,
			URL:          n.URL,
		})
	}
	if len(v.Matches) == 0 {
		v.Message = "No se encontraron coincidencias exactas"
		return v
	}

	sort.SliceStable(v.Matches, func(i, j int) bool {
		return v.Matches[i].Score > v.Matches[j].Score
	})
	v.Confidence = float64(best) / 10
	pct := best * 10

	switch {
	case best >= highConfidenceScore:
		v.Verified = true
		v.Message = fmt.Sprintf("Norma verificada con alta confianza (%d%%)", pct)
	case best >= verifiedScore:
		v.Verified = true
		v.Message = fmt.Sprintf("Norma encontrada con confianza media (%d%%)", pct)
	default:
		v.Message = fmt.Sprintf("Posible coincidencia encontrada (%d%%)", pct)
	}
	return v
}

// ClearCache removes every cached gazette page and search result.
func (s *Service) ClearCache(ctx context.Context) int {
	n, _ := s.cache.Clear(source)
	return n
}

// Status reports configuration and cache usage.
func (s *Service) Status(ctx context.Context) legalfeed.Status {
	stats, _ := s.cache.Stats(source)
	return legalfeed.Status{
		Source:           source,
		BaseURL:          s.baseURL,
		CacheDir:         stats.Dir,
		CachedItemCount:  stats.Count,
		CacheSizeBytes:   stats.TotalSizeBytes,
		RateLimitSeconds: s.config.MinInterval.Seconds(),
		CacheTTLHours:    s.config.CacheTTL.Hours(),
	}
}
