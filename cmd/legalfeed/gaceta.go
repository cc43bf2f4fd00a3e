package main

import "github.com/fwojciec/legalfeed"

// Run executes the gaceta search command.
func (c *GacetaSearchCmd) Run(deps *Dependencies) error {
	typ, err := parseNormType(c.Type)
	if err != nil {
		return deps.fail(err)
	}
	if err := validateDates(c.From, c.To); err != nil {
		return deps.fail(err)
	}

	res := deps.Norms.SearchNorms(deps.Ctx, c.Query,
		legalfeed.NormFilter{Type: typ, DateFrom: c.From, DateTo: c.To},
		legalfeed.SearchOptions{MaxResults: c.Max, UseCache: !c.NoCache},
	)
	if err := deps.emit(res); err != nil {
		return err
	}

	if deps.Archive != nil {
		return deps.archived(deps.Archive.ArchiveNorms(deps.Ctx, res.Records))
	}
	return nil
}

// Run executes the gaceta issues command.
func (c *GacetaIssuesCmd) Run(deps *Dependencies) error {
	typ, err := parseGacetaType(c.Type)
	if err != nil {
		return deps.fail(err)
	}
	if err := validateDates(c.From, c.To); err != nil {
		return deps.fail(err)
	}

	res := deps.Norms.SearchGacetas(deps.Ctx, c.Query,
		legalfeed.GacetaFilter{Type: typ, DateFrom: c.From, DateTo: c.To},
		legalfeed.SearchOptions{MaxResults: c.Max, UseCache: !c.NoCache},
	)
	if err := deps.emit(res); err != nil {
		return err
	}

	if deps.Archive != nil {
		return deps.archived(deps.Archive.ArchiveGacetas(deps.Ctx, res.Records))
	}
	return nil
}

// Run executes the gaceta get command.
func (c *GacetaGetCmd) Run(deps *Dependencies) error {
	typ, err := parseGacetaType(c.Type)
	if err != nil {
		return deps.fail(err)
	}

	g, ok := deps.Norms.FindGaceta(deps.Ctx, c.Number, typ)
	if !ok {
		return deps.fail(legalfeed.Errorf(legalfeed.ENOTFOUND, "gaceta %s not found", c.Number))
	}
	if err := deps.emit(g); err != nil {
		return err
	}

	if deps.Archive != nil {
		return deps.archived(deps.Archive.ArchiveGacetas(deps.Ctx, []*legalfeed.GacetaEntry{g}))
	}
	return nil
}

// Run executes the gaceta recent command.
func (c *GacetaRecentCmd) Run(deps *Dependencies) error {
	typ, err := parseGacetaType(c.Type)
	if err != nil {
		return deps.fail(err)
	}

	entries := deps.Norms.RecentGacetas(deps.Ctx, typ, c.Days, c.Max)
	if err := deps.emit(entries); err != nil {
		return err
	}

	if deps.Archive != nil {
		return deps.archived(deps.Archive.ArchiveGacetas(deps.Ctx, entries))
	}
	return nil
}

// Run executes the gaceta verify command.
func (c *GacetaVerifyCmd) Run(deps *Dependencies) error {
	if err := validateDates(c.Date); err != nil {
		return deps.fail(err)
	}

	v := deps.Norms.VerifyNorm(deps.Ctx, c.Name, c.Number, c.Date)
	return deps.emit(v)
}
