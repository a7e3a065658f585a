package artex

// Converter converts HTML to Markdown.
type Converter interface {
	// Convert transforms a normalized HTML fragment into Markdown.
	Convert(html string) (string, error)
}
