package slog

import (
	"log/slog"

	"github.com/fwojciec/artex"
)

// Ensure LoggingRuleRepository implements artex.RuleRepository.
var _ artex.RuleRepository = (*LoggingRuleRepository)(nil)

// LoggingRuleRepository wraps a RuleRepository with debug logging of rule
// lookups, making rule-coverage gaps visible in batch run logs.
type LoggingRuleRepository struct {
	next   artex.RuleRepository
	logger *slog.Logger
}

// NewLoggingRuleRepository creates a new LoggingRuleRepository.
func NewLoggingRuleRepository(next artex.RuleRepository, logger *slog.Logger) *LoggingRuleRepository {
	return &LoggingRuleRepository{next: next, logger: logger}
}

// RuleFor delegates to the wrapped repository and logs misses.
func (r *LoggingRuleRepository) RuleFor(domainKey string) (artex.ExtractionRule, bool) {
	rule, ok := r.next.RuleFor(domainKey)
	if !ok {
		r.logger.Debug("no rule for site", "site", domainKey)
	}
	return rule, ok
}
