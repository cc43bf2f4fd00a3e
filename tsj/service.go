// Package tsj reads decisions published by the chambers of the Tribunal
// Supremo de Justicia.
package tsj

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/fwojciec/legalfeed"
	"github.com/fwojciec/legalfeed/bloom"
	"github.com/fwojciec/legalfeed/crawl"
	"github.com/fwojciec/legalfeed/goquery"
)

// DefaultBaseURL is the host serving TSJ decision listings.
const DefaultBaseURL = "http://historico.tsj.gob.ve"

const source = legalfeed.SourceTSJ

// findMaxResults bounds the narrow search behind FindDecision.
const findMaxResults = 5

// Listing directories are named after the month in Spanish.
var monthNames = [...]string{
	"enero", "febrero", "marzo", "abril", "mayo", "junio",
	"julio", "agosto", "septiembre", "octubre", "noviembre", "diciembre",
}

// Ensure Service implements legalfeed.DecisionService.
var _ legalfeed.DecisionService = (*Service)(nil)

// Service implements legalfeed.DecisionService.
type Service struct {
	fetcher legalfeed.Fetcher
	cache   legalfeed.CacheStore
	clock   legalfeed.Clock
	config  legalfeed.SourceConfig
	baseURL string
	body    legalfeed.Extractor
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

// WithClock sets the clock used for timestamps and listing months.
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

// WithBodyExtractor sets the strategy that pulls full text from decision
// pages. Defaults to goquery.BodyExtractor.
func WithBodyExtractor(e legalfeed.Extractor) Option {
	return func(s *Service) {
		s.body = e
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
		body:    goquery.NewBodyExtractor(),
	}
	for _, opt := range opts {
		opt(s)
	}
	extract, err := goquery.NewExtractor(s.baseURL, goquery.WithClock(s.clock), goquery.WithBodyExtractor(s.body))
	if err != nil {
		return nil, err
	}
	s.extract = extract
	return s, nil
}

func (s *Service) searchURL(sala legalfeed.Sala, query string) string {
	return fmt.Sprintf("%s/decisiones/%s/busconft.asp?palabra=%s", s.baseURL, sala, url.QueryEscape(strings.TrimSpace(query)))
}

func (s *Service) listingURL(sala legalfeed.Sala, month time.Month) string {
	return fmt.Sprintf("%s/decisiones/%s/%s/", s.baseURL, sala, monthNames[month-1])
}

// SearchDecisions queries each chamber's search page in turn, or only the
// filtered chamber, and stops once enough raw results are collected.
// Filters run on the collected decisions; with opts.Details the returned
// decisions are enriched from their detail pages.
func (s *Service) SearchDecisions(ctx context.Context, query string, filter legalfeed.DecisionFilter, opts legalfeed.SearchOptions) *legalfeed.SearchResult[*legalfeed.ScrapedDecision] {
	begin := s.clock.Now()
	limit := opts.Limit()
	key := legalfeed.RequestKey(source, "decisions", query, filter.Params())

	decisions, cached := crawl.CachedList(s.cache, key, source, s.config.CacheTTL, opts.UseCache, legalfeed.UnmarshalDecisions,
		func() ([]*legalfeed.ScrapedDecision, bool) {
			salas := legalfeed.Salas()
			if filter.Sala != "" {
				salas = []legalfeed.Sala{filter.Sala}
			}

			var raw []*legalfeed.ScrapedDecision
			fromCache := false
			for _, sala := range salas {
				if ctx.Err() != nil {
					break
				}
				out := s.fetcher.Fetch(ctx, source, s.searchURL(sala, query), opts.UseCache)
				if !out.OK() {
					continue
				}
				fromCache = fromCache || out.FromCache
				raw = append(raw, s.extract.Decisions(out.Body, sala)...)
				if len(raw) >= limit {
					break
				}
			}
			raw = bloom.Dedupe(raw, (*legalfeed.ScrapedDecision).Key)
			return crawl.Filter(raw, filter.Match), fromCache
		})

	records := crawl.Limit(decisions, limit)
	if opts.Details {
		for _, d := range records {
			s.enrich(ctx, d, opts.UseCache)
		}
	}

	return &legalfeed.SearchResult[*legalfeed.ScrapedDecision]{
		Query:        query,
		Filters:      legalfeed.ActiveParams(filter.Params()),
		TotalResults: len(decisions),
		Records:      records,
		Elapsed:      s.clock.Now().Sub(begin),
		Cached:       cached,
	}
}

// FindDecision searches for "sentencia <numero> [year]" and enriches the
// first decision whose number matches. Leading zeros are ignored.
func (s *Service) FindDecision(ctx context.Context, numero string, sala legalfeed.Sala, year int) (*legalfeed.ScrapedDecision, bool) {
	want := trimNumber(numero)
	if want == "" {
		return nil, false
	}
	query := "sentencia " + want
	if year > 0 {
		query += fmt.Sprintf(" %d", year)
	}

	res := s.SearchDecisions(ctx, query, legalfeed.DecisionFilter{Sala: sala}, legalfeed.SearchOptions{MaxResults: findMaxResults, UseCache: true})
	for _, d := range res.Records {
		if trimNumber(d.Number) == want {
			return s.enrich(ctx, d, true), true
		}
	}
	return nil, false
}

// EnrichDecision fills d from its detail page.
func (s *Service) EnrichDecision(ctx context.Context, d *legalfeed.ScrapedDecision) *legalfeed.ScrapedDecision {
	return s.enrich(ctx, d, true)
}

func (s *Service) enrich(ctx context.Context, d *legalfeed.ScrapedDecision, useCache bool) *legalfeed.ScrapedDecision {
	if d == nil || d.URL == "" {
		return d
	}
	out := s.fetcher.Fetch(ctx, source, d.URL, useCache)
	if !out.OK() {
		return d
	}
	return s.extract.DecisionDetail(out.Body, d)
}

// RecentDecisions reads the chamber's listings for the current month and
// the month 30 days back, and keeps decisions dated within the last days
// days. Undated decisions are kept. An empty sala reads the Sala
// Constitucional.
func (s *Service) RecentDecisions(ctx context.Context, sala legalfeed.Sala, days, max int) []*legalfeed.ScrapedDecision {
	if sala == "" {
		sala = legalfeed.SalaConstitucional
	}
	if days <= 0 {
		days = legalfeed.DefaultRecentDays
	}
	if max <= 0 {
		max = legalfeed.DefaultMaxResults
	}

	now := s.clock.Now()
	months := []time.Month{now.Month()}
	if prev := now.AddDate(0, 0, -30).Month(); prev != now.Month() {
		months = append(months, prev)
	}

	var decisions []*legalfeed.ScrapedDecision
	for _, m := range months {
		out := s.fetcher.Fetch(ctx, source, s.listingURL(sala, m), true)
		if !out.OK() {
			continue
		}
		decisions = append(decisions, s.extract.Decisions(out.Body, sala)...)
		if len(decisions) >= max {
			break
		}
	}

	cutoff := now.AddDate(0, 0, -days)
	decisions = bloom.Dedupe(decisions, (*legalfeed.ScrapedDecision).Key)
	decisions = crawl.Filter(decisions, func(d *legalfeed.ScrapedDecision) bool {
		return legalfeed.OnOrAfter(d.Date, cutoff)
	})
	return crawl.Limit(decisions, max)
}

// ClearCache removes every cached TSJ page and search result.
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

func trimNumber(n string) string {
	n = strings.TrimSpace(n)
	if t := strings.TrimLeft(n, "0"); t != "" {
		return t
	}
	return n
}
