package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/artex"
)

// Ensure LoggingFeedService implements artex.FeedService.
var _ artex.FeedService = (*LoggingFeedService)(nil)

// LoggingFeedService wraps a FeedService with debug logging.
type LoggingFeedService struct {
	next   artex.FeedService
	logger *slog.Logger
}

// NewLoggingFeedService creates a new LoggingFeedService.
func NewLoggingFeedService(next artex.FeedService, logger *slog.Logger) *LoggingFeedService {
	return &LoggingFeedService{next: next, logger: logger}
}

// DiscoverArticles delegates to the wrapped service and logs the operation.
func (s *LoggingFeedService) DiscoverArticles(ctx context.Context, feedURL string) (refs []artex.ArticleRef, err error) {
	defer func(begin time.Time) {
		s.logger.Info("feed discovery",
			"url", feedURL,
			"count", len(refs),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.DiscoverArticles(ctx, feedURL)
}
