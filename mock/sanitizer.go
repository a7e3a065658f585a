package mock

import "github.com/fwojciec/artex"

var _ artex.Sanitizer = (*Sanitizer)(nil)

// Sanitizer is a mock implementation of artex.Sanitizer.
type Sanitizer struct {
	SanitizeFn func(html string, extraTags []string) (string, error)
}

func (s *Sanitizer) Sanitize(html string, extraTags []string) (string, error) {
	return s.SanitizeFn(html, extraTags)
}
