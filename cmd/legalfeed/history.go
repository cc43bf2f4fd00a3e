package main

import "github.com/fwojciec/legalfeed"

// Run executes the history command.
func (c *HistoryCmd) Run(deps *Dependencies) error {
	source, err := parseSource(c.Source)
	if err != nil {
		return deps.fail(err)
	}
	kind, err := parseKind(c.Kind)
	if err != nil {
		return deps.fail(err)
	}

	records, err := deps.Archive.FindArchived(deps.Ctx, legalfeed.ArchiveFilter{
		Source: source,
		Kind:   kind,
		Limit:  c.Limit,
		Offset: c.Offset,
	})
	if err != nil {
		return deps.fail(err)
	}

	return deps.emit(records)
}
