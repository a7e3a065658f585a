package mock

import (
	"context"

	"github.com/fwojciec/artex"
)

var _ artex.FeedService = (*FeedService)(nil)

// FeedService is a mock implementation of artex.FeedService.
type FeedService struct {
	DiscoverArticlesFn func(ctx context.Context, feedURL string) ([]artex.ArticleRef, error)
}

func (s *FeedService) DiscoverArticles(ctx context.Context, feedURL string) ([]artex.ArticleRef, error) {
	return s.DiscoverArticlesFn(ctx, feedURL)
}
