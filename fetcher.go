package artex

import "context"

// Fetcher retrieves raw HTML from URLs. It supplies the initial page and
// each pagination page; retry strategy is entirely the implementation's
// concern.
type Fetcher interface {
	// Fetch retrieves the HTML at url.
	// The context controls timeout and cancellation.
	Fetch(ctx context.Context, url string) (html string, err error)

	// Close releases underlying resources.
	// Must be called when the Fetcher is no longer needed.
	Close() error
}
