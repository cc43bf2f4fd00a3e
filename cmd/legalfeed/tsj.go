package main

import "github.com/fwojciec/legalfeed"

// Run executes the tsj search command.
func (c *TSJSearchCmd) Run(deps *Dependencies) error {
	sala, err := parseSala(c.Sala)
	if err != nil {
		return deps.fail(err)
	}
	if err := validateDates(c.From, c.To); err != nil {
		return deps.fail(err)
	}

	res := deps.Decisions.SearchDecisions(deps.Ctx, c.Query,
		legalfeed.DecisionFilter{Sala: sala, BindingOnly: c.Binding, DateFrom: c.From, DateTo: c.To},
		legalfeed.SearchOptions{MaxResults: c.Max, UseCache: !c.NoCache, Details: c.Details},
	)
	if err := deps.emit(res); err != nil {
		return err
	}

	if deps.Archive != nil {
		return deps.archived(deps.Archive.ArchiveDecisions(deps.Ctx, res.Records))
	}
	return nil
}

// Run executes the tsj get command.
func (c *TSJGetCmd) Run(deps *Dependencies) error {
	sala, err := parseSala(c.Sala)
	if err != nil {
		return deps.fail(err)
	}

	d, ok := deps.Decisions.FindDecision(deps.Ctx, c.Number, sala, c.Year)
	if !ok {
		return deps.fail(legalfeed.Errorf(legalfeed.ENOTFOUND, "decision %s not found", c.Number))
	}
	out := *d
	if !c.Text {
		out.FullText = ""
	}
	if err := deps.emit(&out); err != nil {
		return err
	}

	if deps.Archive != nil {
		return deps.archived(deps.Archive.ArchiveDecisions(deps.Ctx, []*legalfeed.ScrapedDecision{d}))
	}
	return nil
}

// Run executes the tsj recent command.
func (c *TSJRecentCmd) Run(deps *Dependencies) error {
	sala, err := parseSala(c.Sala)
	if err != nil {
		return deps.fail(err)
	}

	decisions := deps.Decisions.RecentDecisions(deps.Ctx, sala, c.Days, c.Max)
	if err := deps.emit(decisions); err != nil {
		return err
	}

	if deps.Archive != nil {
		return deps.archived(deps.Archive.ArchiveDecisions(deps.Ctx, decisions))
	}
	return nil
}
