// Package trafilatura provides a generic (rule-less) article extractor
// backed by go-trafilatura, an alternative to the readability fallback
// with stronger boilerplate removal on news sites.
package trafilatura

import (
	"bytes"
	"strings"

	"github.com/fwojciec/artex"
	"github.com/markusmobius/go-trafilatura"
	"golang.org/x/net/html"
)

// Ensure Extractor implements artex.Extractor at compile time.
var _ artex.Extractor = (*Extractor)(nil)

// Extractor wraps go-trafilatura to extract main content from HTML.
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

	opts := trafilatura.Options{
		EnableFallback: true,
	}

	result, err := trafilatura.Extract(strings.NewReader(rawHTML), opts)
	if err != nil {
		return nil, err
	}

	var contentHTML string
	if result.ContentNode != nil {
		contentHTML, err = renderNode(result.ContentNode)
		if err != nil {
			return nil, err
		}
	}

	return &artex.ExtractResult{
		Title:       result.Metadata.Title,
		ContentHTML: contentHTML,
	}, nil
}

// renderNode converts an html.Node to a string.
func renderNode(n *html.Node) (string, error) {
	var buf bytes.Buffer
	if err := html.Render(&buf, n); err != nil {
		return "", err
	}
	return buf.String(), nil
}
