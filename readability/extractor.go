// Package readability provides a generic (rule-less) article extractor
// backed by go-readability. It is the fallback for sites that have no
// extraction rule.
package readability

import (
	"strings"

	"github.com/fwojciec/artex"
	"github.com/go-shiori/go-readability"
)

// Ensure Extractor implements artex.Extractor at compile time.
var _ artex.Extractor = (*Extractor)(nil)

// Extractor wraps go-readability to extract main content from HTML.
type Extractor struct{}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract processes raw HTML and returns the main content. The result is
// not sanitized; run it through ProcessGenericHTML before display.
func (e *Extractor) Extract(rawHTML string) (*artex.ExtractResult, error) {
	if rawHTML == "" {
		return nil, artex.Errorf(artex.EINVALID, "empty HTML input")
	}

	article, err := readability.FromReader(strings.NewReader(rawHTML), nil)
	if err != nil {
		return nil, err
	}

	return &artex.ExtractResult{
		Title:       article.Title,
		ContentHTML: article.Content,
	}, nil
}
