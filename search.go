package legalfeed

import (
	"context"
	"strconv"
	"time"
)

const (
	// DefaultMaxResults caps search results when the caller does not.
	DefaultMaxResults = 20

	// DefaultRecentDays is the look-back window for recent listings.
	DefaultRecentDays = 30
)

// SearchOptions controls how a connector search runs.
type SearchOptions struct {
	MaxResults int
	UseCache   bool
	// Details fetches each decision's detail page. TSJ only.
	Details bool
}

// Limit returns MaxResults or DefaultMaxResults when unset.
func (o SearchOptions) Limit() int {
	if o.MaxResults <= 0 {
		return DefaultMaxResults
	}
	return o.MaxResults
}

// ActiveParams returns params without empty values, or nil when none
// remain.
func ActiveParams(params map[string]string) map[string]string {
	var out map[string]string
	for k, v := range params {
		if v == "" {
			continue
		}
		if out == nil {
			out = make(map[string]string)
		}
		out[k] = v
	}
	return out
}

// NormFilter narrows a norm search after extraction.
type NormFilter struct {
	Type     NormType
	DateFrom string
	DateTo   string
}

// Params returns the filter as request-key parameters.
func (f NormFilter) Params() map[string]string {
	return map[string]string{"tipo": string(f.Type), "desde": f.DateFrom, "hasta": f.DateTo}
}

// Match reports whether n passes the filter.
func (f NormFilter) Match(n *ScrapedNorm) bool {
	if f.Type != "" && n.Type != f.Type {
		return false
	}
	return InDateRange(n.GacetaDate, f.DateFrom, f.DateTo)
}

// GacetaFilter narrows a gazette search after extraction.
type GacetaFilter struct {
	Type     GacetaType
	DateFrom string
	DateTo   string
}

// Params returns the filter as request-key parameters.
func (f GacetaFilter) Params() map[string]string {
	return map[string]string{"tipo": string(f.Type), "desde": f.DateFrom, "hasta": f.DateTo}
}

// Match reports whether g passes the filter.
func (f GacetaFilter) Match(g *GacetaEntry) bool {
	if f.Type != "" && g.Type != f.Type {
		return false
	}
	return InDateRange(g.Date, f.DateFrom, f.DateTo)
}

// DecisionFilter narrows a decision search after extraction.
type DecisionFilter struct {
	Sala        Sala
	BindingOnly bool
	DateFrom    string
	DateTo      string
}

// Params returns the filter as request-key parameters.
func (f DecisionFilter) Params() map[string]string {
	p := map[string]string{"sala": string(f.Sala), "desde": f.DateFrom, "hasta": f.DateTo}
	if f.BindingOnly {
		p["vinculante"] = strconv.FormatBool(true)
	}
	return p
}

// Match reports whether d passes the filter.
func (f DecisionFilter) Match(d *ScrapedDecision) bool {
	if f.Sala != "" && d.Sala != f.Sala {
		return false
	}
	if f.BindingOnly && !d.Binding {
		return false
	}
	return InDateRange(d.Date, f.DateFrom, f.DateTo)
}

// SearchResult is the outcome of one connector search. Connectors construct
// it; callers must treat it as read-only.
type SearchResult[T any] struct {
	Query   string            `json:"query"`
	Filters map[string]string `json:"filters,omitempty"`
	// TotalResults counts filtered matches before truncation.
	TotalResults int           `json:"totalResults"`
	Records      []T           `json:"records"`
	Elapsed      time.Duration `json:"elapsed"`
	Cached       bool          `json:"cached"`
}

// Status describes a connector's configuration and cache usage.
type Status struct {
	Source           Source  `json:"source"`
	BaseURL          string  `json:"baseUrl"`
	CacheDir         string  `json:"cacheDir"`
	CachedItemCount  int     `json:"cachedItemCount"`
	CacheSizeBytes   int64   `json:"cacheSizeBytes"`
	RateLimitSeconds float64 `json:"rateLimitSeconds"`
	CacheTTLHours    float64 `json:"cacheTtlHours"`
}

// NormMatch is one candidate found while verifying a norm's publication.
type NormMatch struct {
	Name         string  `json:"nombre"`
	GacetaNumber string  `json:"gacetaNumero"`
	GacetaDate   string  `json:"gacetaFecha"`
	Score        float64 `json:"score"`
	URL          string  `json:"url"`
}

// Verification reports whether a norm appears to be published as claimed.
type Verification struct {
	Verified       bool        `json:"verified"`
	Name           string      `json:"nombre"`
	ExpectedNumber string      `json:"expectedNumero,omitempty"`
	ExpectedDate   string      `json:"expectedFecha,omitempty"`
	Matches        []NormMatch `json:"matches"`
	Confidence     float64     `json:"confidence"`
	Message        string      `json:"message"`
}

// NormService reads the Gaceta Oficial. Failures yield empty results.
type NormService interface {
	SearchNorms(ctx context.Context, query string, filter NormFilter, opts SearchOptions) *SearchResult[*ScrapedNorm]
	SearchGacetas(ctx context.Context, query string, filter GacetaFilter, opts SearchOptions) *SearchResult[*GacetaEntry]

	// FindGaceta returns the issue whose number matches numero exactly.
	// An empty typ matches any issue type.
	FindGaceta(ctx context.Context, numero string, typ GacetaType) (*GacetaEntry, bool)

	// RecentGacetas returns issues published in the last days days. Issues
	// whose date cannot be parsed are included.
	RecentGacetas(ctx context.Context, typ GacetaType, days, max int) []*GacetaEntry

	// VerifyNorm scores published norms against the expected name, gazette
	// number and date.
	VerifyNorm(ctx context.Context, name, numero, fecha string) *Verification

	// ClearCache removes this source's cache entries and returns the count.
	ClearCache(ctx context.Context) int

	Status(ctx context.Context) Status
}

// DecisionService reads TSJ decisions. Failures yield empty results.
type DecisionService interface {
	SearchDecisions(ctx context.Context, query string, filter DecisionFilter, opts SearchOptions) *SearchResult[*ScrapedDecision]

	// FindDecision returns the decision with the given number, enriched with
	// its detail page. Empty sala searches every chamber; zero year any year.
	FindDecision(ctx context.Context, numero string, sala Sala, year int) (*ScrapedDecision, bool)

	// EnrichDecision fills d from its detail page and returns it. On fetch
	// failure d is returned unchanged.
	EnrichDecision(ctx context.Context, d *ScrapedDecision) *ScrapedDecision

	// RecentDecisions returns decisions from the current and previous month
	// listings dated within the last days days. Undated decisions are
	// included.
	RecentDecisions(ctx context.Context, sala Sala, days, max int) []*ScrapedDecision

	ClearCache(ctx context.Context) int
	Status(ctx context.Context) Status
}
