package goquery

import (
	"net/url"
	"path"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/legalfeed"
)

// Extractor turns listing and detail pages into records. Relative links are
// resolved against the base URL and ScrapedAt is read from the clock.
type Extractor struct {
	base  *url.URL
	clock legalfeed.Clock
	body  legalfeed.Extractor
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithClock sets the clock used for ScrapedAt timestamps.
func WithClock(c legalfeed.Clock) Option {
	return func(e *Extractor) {
		e.clock = c
	}
}

// WithBodyExtractor sets the strategy used to pull the full text out of a
// decision page. Defaults to BodyExtractor.
func WithBodyExtractor(b legalfeed.Extractor) Option {
	return func(e *Extractor) {
		e.body = b
	}
}

// NewExtractor creates an Extractor for pages served under baseURL.
func NewExtractor(baseURL string, opts ...Option) (*Extractor, error) {
	base, err := url.Parse(baseURL)
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, legalfeed.Errorf(legalfeed.EINVALID, "invalid base URL: %q", baseURL)
	}
	e := &Extractor{
		base:  base,
		clock: legalfeed.SystemClock,
		body:  NewBodyExtractor(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// parse never fails in practice: the HTML5 parser accepts any input.
func parse(html string) *goquery.Document {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		doc, _ = goquery.NewDocumentFromReader(strings.NewReader(""))
	}
	return doc
}

var digitsRe = regexp.MustCompile(`^\d{1,3}(?:[.,]\d{3})+$|^\d{3,}$`)

// GacetaEntries extracts gazette issues from a listing table. A row counts
// when it names a gazette number or links to a PDF. Rows repeating an
// already seen number and type are dropped.
func (e *Extractor) GacetaEntries(html string) []*legalfeed.GacetaEntry {
	doc := parse(html)
	now := e.clock.Now()
	seen := make(map[string]bool)
	entries := []*legalfeed.GacetaEntry{}

	doc.Find("tr").Each(func(_ int, row *goquery.Selection) {
		// Layout tables wrap the listing; only the innermost rows are records.
		if row.Find("tr").Length() > 0 {
			return
		}
		text := visibleText(row)
		if text == "" {
			return
		}

		number := ParseGacetaNumber(text)
		if number == "" {
			row.Find("td").EachWithBreak(func(_ int, cell *goquery.Selection) bool {
				if c := cleanText(cell.Text()); digitsRe.MatchString(c) {
					number = NormalizeGacetaNumber(c)
					return false
				}
				return true
			})
		}

		var pdfURL, link string
		row.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
			href, _ := a.Attr("href")
			resolved := resolveURL(e.base, href)
			if resolved == "" {
				return
			}
			if pdfURL == "" && strings.HasSuffix(strings.ToLower(stripQuery(resolved)), ".pdf") {
				pdfURL = resolved
				return
			}
			if link == "" {
				link = resolved
			}
		})
		if number == "" && pdfURL == "" {
			return
		}

		entry := &legalfeed.GacetaEntry{
			Number:    number,
			Date:      NormalizeDate(text),
			Type:      DetectGacetaType(text),
			PDFURL:    pdfURL,
			URL:       link,
			ScrapedAt: now,
		}
		if seen[entry.Key()] {
			return
		}
		seen[entry.Key()] = true
		entries = append(entries, entry)
	})
	return entries
}

const (
	minNormTextLen = 20
	maxNameLen     = 100
	maxSummaryLen  = 500
)

var resultClassRe = regexp.MustCompile(`(?i)resultado|item|entry`)

// Norms extracts norms from a search result page. Result containers are
// div, tr or li elements whose class mentions "resultado", "item" or
// "entry". Containers with fewer than 20 characters of text are noise.
func (e *Extractor) Norms(html string) []*legalfeed.ScrapedNorm {
	doc := parse(html)
	now := e.clock.Now()
	norms := []*legalfeed.ScrapedNorm{}

	doc.Find("div[class], tr[class], li[class]").Each(func(_ int, sel *goquery.Selection) {
		class, _ := sel.Attr("class")
		if !resultClassRe.MatchString(class) {
			return
		}
		// Nested result containers: keep the innermost.
		if sel.Find("div[class], tr[class], li[class]").FilterFunction(func(_ int, inner *goquery.Selection) bool {
			c, _ := inner.Attr("class")
			return resultClassRe.MatchString(c)
		}).Length() > 0 {
			return
		}

		text := visibleText(sel)
		if len([]rune(text)) < minNormTextLen {
			return
		}

		name := cleanText(sel.Find("h1, h2, h3, h4, h5, h6, strong, b").First().Text())
		if name == "" {
			name = truncate(text, maxNameLen)
		}

		norm := &legalfeed.ScrapedNorm{
			Name:         name,
			Type:         DetectNormType(name),
			GacetaNumber: ParseGacetaNumber(text),
			GacetaDate:   NormalizeDate(text),
			GacetaType:   legalfeed.GacetaOficial,
			Status:       DetectNormStatus(text),
			Summary:      truncate(text, maxSummaryLen),
			ScrapedAt:    now,
		}
		if norm.GacetaNumber != "" {
			norm.GacetaType = DetectGacetaType(text)
		}
		if href, ok := sel.Find("a[href]").First().Attr("href"); ok {
			norm.URL = resolveURL(e.base, href)
		}
		norms = append(norms, norm)
	})
	return norms
}

var (
	decisionHrefRe = regexp.MustCompile(`(?i)/decisiones/.+\.html?$`)
	fileNumberRe   = regexp.MustCompile(`^(\d+)`)
	// 123-150324-24-0001.HTML: number, DDMMYY, expediente.
	fileSchemeRe = regexp.MustCompile(`^(\d+)-(\d{2})(\d{2})(\d{2})-(\d{2,4}-\d+)`)
)

// Decisions extracts decisions from a TSJ listing or search page. Every
// anchor pointing at a decision document becomes a record; the enclosing
// row supplies date and binding hints. The chamber comes from the URL when
// it names one, otherwise sala is used.
func (e *Extractor) Decisions(html string, sala legalfeed.Sala) []*legalfeed.ScrapedDecision {
	doc := parse(html)
	now := e.clock.Now()
	seen := make(map[string]bool)
	decisions := []*legalfeed.ScrapedDecision{}

	doc.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
		href, _ := a.Attr("href")
		resolved := resolveURL(e.base, href)
		if resolved == "" || !decisionHrefRe.MatchString(stripQuery(resolved)) || seen[resolved] {
			return
		}
		seen[resolved] = true

		row := a.Closest("tr, li, p, div")
		if row.Length() == 0 {
			row = a.Parent()
		}
		rowText := visibleText(row)

		d := &legalfeed.ScrapedDecision{
			Sala:      salaFromURL(resolved, sala),
			URL:       resolved,
			Binding:   strings.Contains(fold(rowText), "vinculante"),
			ScrapedAt: now,
		}

		file := path.Base(stripQuery(resolved))
		if m := fileSchemeRe.FindStringSubmatch(file); m != nil {
			d.Number = m[1]
			d.Date, _ = formatDate(m[2], atoi(m[3]), "20"+m[4])
			d.Expediente = m[5]
		} else if m := fileNumberRe.FindStringSubmatch(file); m != nil {
			d.Number = m[1]
		}
		if d.Date == "" {
			d.Date = NormalizeDate(rowText)
		}
		if d.Number == "" {
			d.Number = cleanText(a.Text())
		}
		decisions = append(decisions, d)
	})
	return decisions
}

// salaFromURL returns the chamber code in a /decisiones/{code}/ path, or
// fallback when the path names none.
func salaFromURL(rawURL string, fallback legalfeed.Sala) legalfeed.Sala {
	u, err := url.Parse(rawURL)
	if err != nil {
		return fallback
	}
	parts := strings.Split(strings.Trim(u.Path, "/"), "/")
	for i, p := range parts {
		if strings.EqualFold(p, "decisiones") && i+1 < len(parts) {
			if s := legalfeed.Sala(strings.ToLower(parts[i+1])); s.Valid() {
				return s
			}
		}
	}
	return fallback
}

func stripQuery(u string) string {
	if i := strings.IndexAny(u, "?#"); i >= 0 {
		return u[:i]
	}
	return u
}

func atoi(s string) int {
	n := 0
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return 0
		}
		n = n*10 + int(s[i]-'0')
	}
	return n
}
