package main

import (
	"github.com/fwojciec/legalfeed"
	"github.com/fwojciec/legalfeed/crawl"
)

// Run executes the search command.
func (c *SearchCmd) Run(deps *Dependencies) error {
	results := crawl.SearchAll(deps.Ctx, c.Query,
		legalfeed.SearchOptions{MaxResults: c.Max, UseCache: !c.NoCache},
		deps.Norms, deps.Decisions,
	)
	if err := deps.emit(results); err != nil {
		return err
	}

	if deps.Archive == nil {
		return nil
	}
	total := 0
	if results.Norms != nil {
		n, err := deps.Archive.ArchiveNorms(deps.Ctx, results.Norms.Records)
		if err != nil {
			return deps.fail(err)
		}
		total += n
	}
	if results.Decisions != nil {
		n, err := deps.Archive.ArchiveDecisions(deps.Ctx, results.Decisions.Records)
		if err != nil {
			return deps.fail(err)
		}
		total += n
	}
	return deps.archived(total, nil)
}
