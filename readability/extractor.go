// Package readability provides an alternative enhanced decision body
// extractor backed by github.com/go-shiori/go-readability.
package readability

import (
	"strings"

	"github.com/fwojciec/legalfeed"
	"github.com/go-shiori/go-readability"
)

// Ensure Extractor implements legalfeed.Extractor at compile time.
var _ legalfeed.Extractor = (*Extractor)(nil)

// Extractor wraps go-readability to extract the main text of a page.
type Extractor struct{}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract processes raw HTML and returns the article text with blank lines
// collapsed.
func (e *Extractor) Extract(rawHTML string) (*legalfeed.ExtractResult, error) {
	if rawHTML == "" {
		return nil, legalfeed.Errorf(legalfeed.EINVALID, "empty HTML input")
	}

	article, err := readability.FromReader(strings.NewReader(rawHTML), nil)
	if err != nil {
		return nil, legalfeed.Errorf(legalfeed.EINVALID, "failed to extract content: %v", err)
	}

	var lines []string
	for _, line := range strings.Split(article.TextContent, "\n") {
		if line = strings.Join(strings.Fields(line), " "); line != "" {
			lines = append(lines, line)
		}
	}

	return &legalfeed.ExtractResult{
		Title: article.Title,
		Text:  strings.Join(lines, "\n"),
	}, nil
}
