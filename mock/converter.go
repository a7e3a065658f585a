package mock

import "github.com/fwojciec/artex"

var _ artex.Converter = (*Converter)(nil)

// Converter is a mock implementation of artex.Converter.
type Converter struct {
	ConvertFn func(html string) (string, error)
}

func (c *Converter) Convert(html string) (string, error) {
	return c.ConvertFn(html)
}
