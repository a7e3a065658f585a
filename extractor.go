package artex

// ExtractResult holds the content extracted from an HTML page by a
// generic (rule-less) extractor.
type ExtractResult struct {
	// Title is the page title extracted from metadata.
	Title string

	// ContentHTML is the main content as clean HTML with boilerplate
	// (nav, footer, sidebar, ads) removed. It is NOT sanitized; callers
	// pass it through ProcessGenericHTML before display.
	ContentHTML string
}

// Extractor extracts main content from HTML pages without a site rule.
// Used for best-effort output on sites that have no ExtractionRule; the
// rule-driven pipeline never consults it.
type Extractor interface {
	Extract(html string) (*ExtractResult, error)
}
