package goquery

import (
	"regexp"
	"strings"

	"github.com/fwojciec/legalfeed"
)

const (
	maxPartiesLen  = 500
	maxMatterLen   = 200
	minFullTextLen = 100
)

var (
	expedienteRe = regexp.MustCompile(`(?i)Expediente(?:\s+N[°ºo]?\.?)?\s*:?\s*([A-Za-z0-9][\w./-]*\d[\w./-]*)?`)
	ponenteRe    = regexp.MustCompile(`(?i)(?:Magistrad[oa]\s+)?Ponente\s*:\s*(.*)`)
	partiesRe    = regexp.MustCompile(`(?i)(?:Partes|Recurrente|Demandante)\s*:\s*(.*)`)
	matterRe     = regexp.MustCompile(`(?i)(?:Materia|Asunto)\s*:\s*(.*)`)
)

// DecisionDetail fills d with what a decision page adds to its listing
// entry: expediente, ponente, parties, matter, full text and summary. A
// missing date is taken from the page. Fields not found on the page keep
// their listing values. d is modified in place and returned.
func (e *Extractor) DecisionDetail(html string, d *legalfeed.ScrapedDecision) *legalfeed.ScrapedDecision {
	if d == nil {
		d = &legalfeed.ScrapedDecision{}
	}
	doc := parse(html)
	ls := lines(doc.Selection)
	text := strings.Join(ls, "\n")

	if v := firstLineMatch(expedienteRe, ls); v != "" {
		d.Expediente = v
	}
	if v := firstLineMatch(ponenteRe, ls); v != "" {
		d.Ponente = v
	}
	if v := firstLineMatch(partiesRe, ls); v != "" {
		d.Parties = truncate(v, maxPartiesLen)
	}
	if v := firstLineMatch(matterRe, ls); v != "" {
		d.Matter = truncate(v, maxMatterLen)
	}
	if d.Date == "" {
		d.Date = NormalizeDate(text)
	}
	if strings.Contains(fold(text), "vinculante") {
		d.Binding = true
	}

	if e.body != nil {
		if res, err := e.body.Extract(html); err == nil && res != nil {
			if full := strings.TrimSpace(res.Text); len(full) > minFullTextLen {
				d.FullText = full
				d.Summary = summarize(full)
			}
		}
	}
	return d
}

// firstLineMatch returns the first non-empty capture of re. A label that
// ends its line ("Ponente:" in one cell, the name in the next) takes the
// following line as its value.
func firstLineMatch(re *regexp.Regexp, ls []string) string {
	for i, l := range ls {
		m := re.FindStringSubmatch(l)
		if m == nil {
			continue
		}
		if v := strings.TrimSpace(m[1]); v != "" {
			return v
		}
		if strings.HasSuffix(l, ":") && i+1 < len(ls) && !strings.HasSuffix(ls[i+1], ":") {
			return ls[i+1]
		}
	}
	return ""
}

func summarize(text string) string {
	flat := cleanText(text)
	s := truncate(flat, maxSummaryLen)
	if len(s) < len(flat) {
		return s + "..."
	}
	return s
}
