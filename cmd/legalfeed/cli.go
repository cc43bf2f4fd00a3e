package main

import (
	"context"
	"io"
	"time"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/legalfeed"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx       context.Context
	Stdout    io.Writer
	Stderr    io.Writer
	Norms     legalfeed.NormService
	Decisions legalfeed.DecisionService
	// Archive is nil unless archiving is enabled or the command reads it.
	Archive legalfeed.Archive
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Config kong.ConfigFlag `help:"Load flag values from a JSON file"`

	CacheDir      string        `name:"cache-dir" env:"LEGALFEED_CACHE_DIR" default:"${cache_dir}" help:"Directory for cached pages and search results"`
	DB            string        `name:"db" env:"LEGALFEED_DB" default:"${db_path}" help:"SQLite archive path"`
	GacetaRate    time.Duration `name:"gaceta-rate-limit" env:"LEGALFEED_GACETA_RATE_LIMIT" default:"2s" help:"Minimum interval between requests to the Gaceta Oficial"`
	TSJRate       time.Duration `name:"tsj-rate-limit" env:"LEGALFEED_TSJ_RATE_LIMIT" default:"2s" help:"Minimum interval between requests to the TSJ"`
	MaxRetries    int           `name:"max-retries" env:"LEGALFEED_MAX_RETRIES" default:"3" help:"Attempts per page before giving up"`
	RetryDelay    time.Duration `name:"retry-delay" env:"LEGALFEED_RETRY_DELAY" default:"5s" help:"Base delay between attempts, multiplied by the attempt number"`
	GacetaTTL     time.Duration `name:"gaceta-ttl" env:"LEGALFEED_GACETA_TTL" default:"48h" help:"Cache lifetime for Gaceta Oficial pages"`
	TSJTTL        time.Duration `name:"tsj-ttl" env:"LEGALFEED_TSJ_TTL" default:"24h" help:"Cache lifetime for TSJ pages"`
	Timeout       time.Duration `env:"LEGALFEED_TIMEOUT" default:"30s" help:"Timeout for one page load"`
	Transport     string        `env:"LEGALFEED_TRANSPORT" enum:"http,browser" default:"http" help:"Page transport (http, browser)"`
	Robots        bool          `env:"LEGALFEED_ROBOTS" negatable:"" default:"true" help:"Honor robots.txt"`
	BodyExtractor string        `name:"body-extractor" env:"LEGALFEED_BODY_EXTRACTOR" enum:"default,trafilatura,readability" default:"default" help:"Decision full-text extractor (default, trafilatura, readability)"`
	GacetaURL     string        `name:"gaceta-url" env:"LEGALFEED_GACETA_URL" default:"${gaceta_url}" help:"Gaceta Oficial base URL"`
	TSJURL        string        `name:"tsj-url" env:"LEGALFEED_TSJ_URL" default:"${tsj_url}" help:"TSJ base URL"`
	RedisAddr     string        `name:"redis-addr" env:"LEGALFEED_REDIS_ADDR" help:"Share the rate limit across processes through this Redis server"`
	RedisPassword string        `name:"redis-password" env:"LEGALFEED_REDIS_PASSWORD" help:"Redis password"`
	RedisDB       int           `name:"redis-db" env:"LEGALFEED_REDIS_DB" default:"0" help:"Redis database number"`
	Archive       bool          `env:"LEGALFEED_ARCHIVE" help:"Record results in the SQLite archive"`
	Verbose       bool          `short:"v" env:"LEGALFEED_VERBOSE" help:"Log every request"`

	Gaceta     GacetaCmd     `cmd:"" help:"Query the Gaceta Oficial"`
	TSJ        TSJCmd        `cmd:"" name:"tsj" help:"Query TSJ decisions"`
	Search     SearchCmd     `cmd:"" help:"Search both sources at once"`
	Status     StatusCmd     `cmd:"" help:"Show source configuration and cache usage"`
	ClearCache ClearCacheCmd `cmd:"" name:"clear-cache" help:"Remove cached pages and results"`
	History    HistoryCmd    `cmd:"" help:"List archived records"`
}

// sourceConfig returns the politeness, retry and TTL settings for source.
func (c *CLI) sourceConfig(source legalfeed.Source) legalfeed.SourceConfig {
	cfg := legalfeed.SourceConfig{
		MinInterval: c.TSJRate,
		MaxRetries:  c.MaxRetries,
		RetryDelay:  c.RetryDelay,
		CacheTTL:    c.TSJTTL,
	}
	if source == legalfeed.SourceGaceta {
		cfg.MinInterval = c.GacetaRate
		cfg.CacheTTL = c.GacetaTTL
	}
	return cfg
}

// GacetaCmd groups the Gaceta Oficial subcommands.
type GacetaCmd struct {
	Search GacetaSearchCmd `cmd:"" help:"Search norms published in the gazette"`
	Issues GacetaIssuesCmd `cmd:"" help:"Search gazette issues"`
	Get    GacetaGetCmd    `cmd:"" help:"Look up a gazette issue by number"`
	Recent GacetaRecentCmd `cmd:"" help:"List recently published issues"`
	Verify GacetaVerifyCmd `cmd:"" help:"Check that a norm was published as cited"`
}

// GacetaSearchCmd is the "gaceta search" subcommand.
type GacetaSearchCmd struct {
	Query   string `arg:"" help:"Search terms"`
	Type    string `help:"Keep only this norm type (e.g. ley_organica, decreto)"`
	From    string `help:"Earliest gazette date (DD-MM-YYYY)"`
	To      string `help:"Latest gazette date (DD-MM-YYYY)"`
	Max     int    `short:"n" default:"20" help:"Maximum results"`
	NoCache bool   `name:"no-cache" help:"Ignore cached results"`
}

// GacetaIssuesCmd is the "gaceta issues" subcommand.
type GacetaIssuesCmd struct {
	Query   string `arg:"" help:"Search terms"`
	Type    string `help:"Keep only this issue type (ordinaria, extraordinaria, oficial)"`
	From    string `help:"Earliest issue date (DD-MM-YYYY)"`
	To      string `help:"Latest issue date (DD-MM-YYYY)"`
	Max     int    `short:"n" default:"20" help:"Maximum results"`
	NoCache bool   `name:"no-cache" help:"Ignore cached results"`
}

// GacetaGetCmd is the "gaceta get" subcommand.
type GacetaGetCmd struct {
	Number string `arg:"" help:"Issue number (6152, 6.152 and 6,152 are equivalent)"`
	Type   string `help:"Issue type (ordinaria, extraordinaria, oficial)"`
}

// GacetaRecentCmd is the "gaceta recent" subcommand.
type GacetaRecentCmd struct {
	Type string `help:"Keep only this issue type (ordinaria, extraordinaria, oficial)"`
	Days int    `default:"30" help:"Look-back window in days"`
	Max  int    `short:"n" default:"20" help:"Maximum results"`
}

// GacetaVerifyCmd is the "gaceta verify" subcommand.
type GacetaVerifyCmd struct {
	Name   string `arg:"" help:"Norm name as cited"`
	Number string `name:"numero" help:"Cited gazette number"`
	Date   string `name:"fecha" help:"Cited gazette date (DD-MM-YYYY)"`
}

// TSJCmd groups the TSJ subcommands.
type TSJCmd struct {
	Search TSJSearchCmd `cmd:"" help:"Search decisions"`
	Get    TSJGetCmd    `cmd:"" help:"Look up a decision by number"`
	Recent TSJRecentCmd `cmd:"" help:"List recent decisions of a chamber"`
}

// TSJSearchCmd is the "tsj search" subcommand.
type TSJSearchCmd struct {
	Query   string `arg:"" help:"Search terms"`
	Sala    string `help:"Chamber code (scon, spa, scc, scp, scs, selec, sp)"`
	Binding bool   `help:"Keep only binding decisions"`
	From    string `help:"Earliest decision date (DD-MM-YYYY)"`
	To      string `help:"Latest decision date (DD-MM-YYYY)"`
	Max     int    `short:"n" default:"20" help:"Maximum results"`
	Details bool   `help:"Fetch each decision's detail page"`
	NoCache bool   `name:"no-cache" help:"Ignore cached results"`
}

// TSJGetCmd is the "tsj get" subcommand.
type TSJGetCmd struct {
	Number string `arg:"" help:"Decision number"`
	Sala   string `help:"Chamber code (scon, spa, scc, scp, scs, selec, sp)"`
	Year   int    `help:"Decision year"`
	Text   bool   `help:"Include the full text"`
}

// TSJRecentCmd is the "tsj recent" subcommand.
type TSJRecentCmd struct {
	Sala string `enum:"scon,spa,scc,scp,scs,selec,sp" default:"scon" help:"Chamber code"`
	Days int    `default:"30" help:"Look-back window in days"`
	Max  int    `short:"n" default:"20" help:"Maximum results"`
}

// SearchCmd is the "search" subcommand.
type SearchCmd struct {
	Query   string `arg:"" help:"Search terms"`
	Max     int    `short:"n" default:"20" help:"Maximum results per source"`
	NoCache bool   `name:"no-cache" help:"Ignore cached results"`
}

// StatusCmd is the "status" subcommand.
type StatusCmd struct{}

// ClearCacheCmd is the "clear-cache" subcommand.
type ClearCacheCmd struct {
	Source string `help:"Clear only this source (gaceta, tsj)"`
}

// HistoryCmd is the "history" subcommand.
type HistoryCmd struct {
	Source string `help:"Only records from this source (gaceta, tsj)"`
	Kind   string `help:"Only records of this kind (decision, norm, gaceta)"`
	Limit  int    `short:"n" default:"20" help:"Maximum records"`
	Offset int    `help:"Records to skip"`
}

func parseSala(s string) (legalfeed.Sala, error) {
	sala := legalfeed.Sala(s)
	if s != "" && !sala.Valid() {
		return "", legalfeed.Errorf(legalfeed.EINVALID, "unknown chamber %q", s)
	}
	return sala, nil
}

func parseGacetaType(s string) (legalfeed.GacetaType, error) {
	if s == "" {
		return "", nil
	}
	for _, t := range legalfeed.GacetaTypes() {
		if string(t) == s {
			return t, nil
		}
	}
	return "", legalfeed.Errorf(legalfeed.EINVALID, "unknown gaceta type %q", s)
}

func parseNormType(s string) (legalfeed.NormType, error) {
	if s == "" {
		return "", nil
	}
	for _, t := range legalfeed.NormTypes() {
		if string(t) == s {
			return t, nil
		}
	}
	return "", legalfeed.Errorf(legalfeed.EINVALID, "unknown norm type %q", s)
}

func parseSource(s string) (*legalfeed.Source, error) {
	if s == "" {
		return nil, nil
	}
	source := legalfeed.Source(s)
	if source != legalfeed.SourceGaceta && source != legalfeed.SourceTSJ {
		return nil, legalfeed.Errorf(legalfeed.EINVALID, "unknown source %q", s)
	}
	return &source, nil
}

func parseKind(s string) (*legalfeed.RecordKind, error) {
	if s == "" {
		return nil, nil
	}
	kind := legalfeed.RecordKind(s)
	switch kind {
	case legalfeed.KindDecision, legalfeed.KindNorm, legalfeed.KindGaceta:
		return &kind, nil
	}
	return nil, legalfeed.Errorf(legalfeed.EINVALID, "unknown record kind %q", s)
}

// validateDates rejects bounds that are not DD-MM-YYYY dates.
func validateDates(dates ...string) error {
	for _, d := range dates {
		if d == "" {
			continue
		}
		if _, err := legalfeed.ParseDate(d); err != nil {
			return legalfeed.Errorf(legalfeed.EINVALID, "invalid date %q: expected DD-MM-YYYY", d)
		}
	}
	return nil
}
