package legalfeed

// ExtractResult contains the readable body of a page.
type ExtractResult struct {
	Title string
	Text  string
}

// Extractor pulls the readable body text out of a full HTML page.
type Extractor interface {
	Extract(html string) (*ExtractResult, error)
}
