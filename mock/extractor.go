package mock

import "github.com/fwojciec/artex"

var _ artex.Extractor = (*Extractor)(nil)

// Extractor is a mock implementation of artex.Extractor.
type Extractor struct {
	ExtractFn func(html string) (*artex.ExtractResult, error)
}

func (e *Extractor) Extract(html string) (*artex.ExtractResult, error) {
	return e.ExtractFn(html)
}
