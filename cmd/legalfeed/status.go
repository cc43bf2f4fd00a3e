package main

import "github.com/fwojciec/legalfeed"

// Run executes the status command.
func (c *StatusCmd) Run(deps *Dependencies) error {
	statuses := []legalfeed.Status{
		deps.Norms.Status(deps.Ctx),
		deps.Decisions.Status(deps.Ctx),
	}
	return deps.emit(statuses)
}

// Run executes the clear-cache command.
func (c *ClearCacheCmd) Run(deps *Dependencies) error {
	source, err := parseSource(c.Source)
	if err != nil {
		return deps.fail(err)
	}

	removed := 0
	if source == nil || *source == legalfeed.SourceGaceta {
		removed += deps.Norms.ClearCache(deps.Ctx)
	}
	if source == nil || *source == legalfeed.SourceTSJ {
		removed += deps.Decisions.ClearCache(deps.Ctx)
	}
	return deps.emit(map[string]int{"removed": removed})
}
