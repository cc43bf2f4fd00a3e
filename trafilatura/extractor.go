// Package trafilatura provides the enhanced decision body extractor backed
// by github.com/markusmobius/go-trafilatura.
package trafilatura

import (
	"strings"

	"github.com/fwojciec/legalfeed"
	"github.com/markusmobius/go-trafilatura"
	"golang.org/x/net/html"
)

// Ensure Extractor implements legalfeed.Extractor at compile time.
var _ legalfeed.Extractor = (*Extractor)(nil)

// Extractor wraps go-trafilatura to extract the main text of a page.
type Extractor struct{}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract processes raw HTML and returns the main content as plain text,
// one paragraph per line.
func (e *Extractor) Extract(rawHTML string) (*legalfeed.ExtractResult, error) {
	if rawHTML == "" {
		return nil, legalfeed.Errorf(legalfeed.EINVALID, "empty HTML input")
	}

	opts := trafilatura.Options{
		EnableFallback: true,
	}

	result, err := trafilatura.Extract(strings.NewReader(rawHTML), opts)
	if err != nil {
		return nil, legalfeed.Errorf(legalfeed.EINVALID, "failed to extract content: %v", err)
	}

	text := result.ContentText
	if result.ContentNode != nil {
		text = renderText(result.ContentNode)
	}

	return &legalfeed.ExtractResult{
		Title: result.Metadata.Title,
		Text:  text,
	}, nil
}

var blocks = map[string]bool{
	"p": true, "div": true, "br": true, "li": true, "tr": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"blockquote": true, "pre": true, "table": true,
}

// renderText flattens n into text with a line break after every block.
func renderText(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
		if n.Type == html.ElementNode && blocks[n.Data] {
			b.WriteByte('\n')
		}
	}
	walk(n)

	var out []string
	for _, line := range strings.Split(b.String(), "\n") {
		if line = strings.Join(strings.Fields(line), " "); line != "" {
			out = append(out, line)
		}
	}
	return strings.Join(out, "\n")
}
