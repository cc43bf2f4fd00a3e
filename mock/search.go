package mock

import (
	"context"

	"github.com/fwojciec/legalfeed"
)

var _ legalfeed.NormService = (*NormService)(nil)

// NormService is a mock implementation of legalfeed.NormService.
type NormService struct {
	SearchNormsFn   func(ctx context.Context, query string, filter legalfeed.NormFilter, opts legalfeed.SearchOptions) *legalfeed.SearchResult[*legalfeed.ScrapedNorm]
	SearchGacetasFn func(ctx context.Context, query string, filter legalfeed.GacetaFilter, opts legalfeed.SearchOptions) *legalfeed.SearchResult[*legalfeed.GacetaEntry]
	FindGacetaFn    func(ctx context.Context, numero string, typ legalfeed.GacetaType) (*legalfeed.GacetaEntry, bool)
	RecentGacetasFn func(ctx context.Context, typ legalfeed.GacetaType, days, max int) []*legalfeed.GacetaEntry
	VerifyNormFn    func(ctx context.Context, name, numero, fecha string) *legalfeed.Verification
	ClearCacheFn    func(ctx context.Context) int
	StatusFn        func(ctx context.Context) legalfeed.Status
}

func (s *NormService) SearchNorms(ctx context.Context, query string, filter legalfeed.NormFilter, opts legalfeed.SearchOptions) *legalfeed.SearchResult[*legalfeed.ScrapedNorm] {
	return s.SearchNormsFn(ctx, query, filter, opts)
}

func (s *NormService) SearchGacetas(ctx context.Context, query string, filter legalfeed.GacetaFilter, opts legalfeed.SearchOptions) *legalfeed.SearchResult[*legalfeed.GacetaEntry] {
	return s.SearchGacetasFn(ctx, query, filter, opts)
}

func (s *NormService) FindGaceta(ctx context.Context, numero string, typ legalfeed.GacetaType) (*legalfeed.GacetaEntry, bool) {
	return s.FindGacetaFn(ctx, numero, typ)
}

func (s *NormService) RecentGacetas(ctx context.Context, typ legalfeed.GacetaType, days, max int) []*legalfeed.GacetaEntry {
	return s.RecentGacetasFn(ctx, typ, days, max)
}

func (s *NormService) VerifyNorm(ctx context.Context, name, numero, fecha string) *legalfeed.Verification {
	return s.VerifyNormFn(ctx, name, numero, fecha)
}

func (s *NormService) ClearCache(ctx context.Context) int {
	return s.ClearCacheFn(ctx)
}

func (s *NormService) Status(ctx context.Context) legalfeed.Status {
	return s.StatusFn(ctx)
}

var _ legalfeed.DecisionService = (*DecisionService)(nil)

// DecisionService is a mock implementation of legalfeed.DecisionService.
type DecisionService struct {
	SearchDecisionsFn func(ctx context.Context, query string, filter legalfeed.DecisionFilter, opts legalfeed.SearchOptions) *legalfeed.SearchResult[*legalfeed.ScrapedDecision]
	FindDecisionFn    func(ctx context.Context, numero string, sala legalfeed.Sala, year int) (*legalfeed.ScrapedDecision, bool)
	EnrichDecisionFn  func(ctx context.Context, d *legalfeed.ScrapedDecision) *legalfeed.ScrapedDecision
	RecentDecisionsFn func(ctx context.Context, sala legalfeed.Sala, days, max int) []*legalfeed.ScrapedDecision
	ClearCacheFn      func(ctx context.Context) int
	StatusFn          func(ctx context.Context) legalfeed.Status
}

func (s *DecisionService) SearchDecisions(ctx context.Context, query string, filter legalfeed.DecisionFilter, opts legalfeed.SearchOptions) *legalfeed.SearchResult[*legalfeed.ScrapedDecision] {
	return s.SearchDecisionsFn(ctx, query, filter, opts)
}

func (s *DecisionService) FindDecision(ctx context.Context, numero string, sala legalfeed.Sala, year int) (*legalfeed.ScrapedDecision, bool) {
	return s.FindDecisionFn(ctx, numero, sala, year)
}

func (s *DecisionService) EnrichDecision(ctx context.Context, d *legalfeed.ScrapedDecision) *legalfeed.ScrapedDecision {
	return s.EnrichDecisionFn(ctx, d)
}

func (s *DecisionService) RecentDecisions(ctx context.Context, sala legalfeed.Sala, days, max int) []*legalfeed.ScrapedDecision {
	return s.RecentDecisionsFn(ctx, sala, days, max)
}

func (s *DecisionService) ClearCache(ctx context.Context) int {
	return s.ClearCacheFn(ctx)
}

func (s *DecisionService) Status(ctx context.Context) legalfeed.Status {
	return s.StatusFn(ctx)
}
