package mock

import "github.com/fwojciec/legalfeed"

var _ legalfeed.Extractor = (*Extractor)(nil)

// Extractor is a mock implementation of legalfeed.Extractor.
type Extractor struct {
	ExtractFn func(html string) (*legalfeed.ExtractResult, error)
}

func (e *Extractor) Extract(html string) (*legalfeed.ExtractResult, error) {
	return e.ExtractFn(html)
}
