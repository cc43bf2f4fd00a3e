// Package crawl provides the polite fetch pipeline shared by the source
// connectors: per-source rate limiting, retries with linear backoff, body
// decoding, and concurrent fan-out across sources.
package crawl

import (
	"context"
	"time"

	"github.com/fwojciec/legalfeed"
	"golang.org/x/sync/errgroup"
)

// Results holds the outcome of a search across every source.
type Results struct {
	Query     string                                              `json:"query"`
	Norms     *legalfeed.SearchResult[*legalfeed.ScrapedNorm]     `json:"norms,omitempty"`
	Decisions *legalfeed.SearchResult[*legalfeed.ScrapedDecision] `json:"decisions,omitempty"`
	Elapsed   time.Duration                                       `json:"elapsed"`
}

// Total returns the number of records returned across sources.
func (r *Results) Total() int {
	n := 0
	if r.Norms != nil {
		n += len(r.Norms.Records)
	}
	if r.Decisions != nil {
		n += len(r.Decisions.Records)
	}
	return n
}

// SearchAll runs the same query against the gazette and the court at once.
// Each source gets a single worker so the per-source politeness interval is
// never exceeded. A nil service is skipped.
func SearchAll(ctx context.Context, query string, opts legalfeed.SearchOptions, norms legalfeed.NormService, decisions legalfeed.DecisionService) *Results {
	begin := time.Now()
	results := &Results{Query: query}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(2)

	if norms != nil {
		g.Go(func() error {
			results.Norms = norms.SearchNorms(gctx, query, legalfeed.NormFilter{}, opts)
			return nil
		})
	}
	if decisions != nil {
		g.Go(func() error {
			results.Decisions = decisions.SearchDecisions(gctx, query, legalfeed.DecisionFilter{}, opts)
			return nil
		})
	}
	_ = g.Wait()

	results.Elapsed = time.Since(begin)
	return results
}
