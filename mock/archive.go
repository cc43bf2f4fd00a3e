package mock

import (
	"context"

	"github.com/fwojciec/legalfeed"
)

var _ legalfeed.Archive = (*Archive)(nil)

// Archive is a mock implementation of legalfeed.Archive.
type Archive struct {
	ArchiveDecisionsFn func(ctx context.Context, decisions []*legalfeed.ScrapedDecision) (int, error)
	ArchiveNormsFn     func(ctx context.Context, norms []*legalfeed.ScrapedNorm) (int, error)
	ArchiveGacetasFn   func(ctx context.Context, gacetas []*legalfeed.GacetaEntry) (int, error)
	FindArchivedFn     func(ctx context.Context, filter legalfeed.ArchiveFilter) ([]*legalfeed.ArchivedRecord, error)
}

func (a *Archive) ArchiveDecisions(ctx context.Context, decisions []*legalfeed.ScrapedDecision) (int, error) {
	return a.ArchiveDecisionsFn(ctx, decisions)
}

func (a *Archive) ArchiveNorms(ctx context.Context, norms []*legalfeed.ScrapedNorm) (int, error) {
	return a.ArchiveNormsFn(ctx, norms)
}

func (a *Archive) ArchiveGacetas(ctx context.Context, gacetas []*legalfeed.GacetaEntry) (int, error) {
	return a.ArchiveGacetasFn(ctx, gacetas)
}

func (a *Archive) FindArchived(ctx context.Context, filter legalfeed.ArchiveFilter) ([]*legalfeed.ArchivedRecord, error) {
	return a.FindArchivedFn(ctx, filter)
}
