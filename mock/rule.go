package mock

import "github.com/fwojciec/artex"

var _ artex.RuleRepository = (*RuleRepository)(nil)

// RuleRepository is a mock implementation of artex.RuleRepository.
type RuleRepository struct {
	RuleForFn func(domainKey string) (artex.ExtractionRule, bool)
}

func (r *RuleRepository) RuleFor(domainKey string) (artex.ExtractionRule, bool) {
	return r.RuleForFn(domainKey)
}
