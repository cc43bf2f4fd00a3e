package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/legalfeed"
)

// Ensure BodyExtractor implements legalfeed.Extractor.
var _ legalfeed.Extractor = (*BodyExtractor)(nil)

// bodySelectors are tried in order; TSJ pages keep the decision text in
// div.texto or td.contenido, older pages only in body.
var bodySelectors = []string{"div.texto", "td.contenido", "body"}

// BodyExtractor pulls decision text from the first known content container
// holding more than 100 characters.
type BodyExtractor struct{}

// NewBodyExtractor creates a new BodyExtractor.
func NewBodyExtractor() *BodyExtractor {
	return &BodyExtractor{}
}

// Extract returns the page title and the text of the first content
// container with enough text. Text is empty when none qualifies.
func (b *BodyExtractor) Extract(html string) (*legalfeed.ExtractResult, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, legalfeed.Errorf(legalfeed.EINVALID, "failed to parse HTML: %v", err)
	}

	result := &legalfeed.ExtractResult{
		Title: cleanText(doc.Find("title").First().Text()),
	}
	for _, selector := range bodySelectors {
		sel := doc.Find(selector).First()
		if sel.Length() == 0 {
			continue
		}
		text := strings.Join(lines(sel), "\n")
		if len(text) > minFullTextLen {
			result.Text = text
			break
		}
	}
	return result, nil
}
