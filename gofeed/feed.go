// Package gofeed implements artex.FeedService on the gofeed parser,
// discovering article URLs from RSS and Atom feeds.
package gofeed

import (
	"context"

	"github.com/fwojciec/artex"
	"github.com/mmcdole/gofeed"
)

// Ensure FeedService implements artex.FeedService at compile time.
var _ artex.FeedService = (*FeedService)(nil)

// FeedService discovers articles from RSS and Atom feeds. The underlying
// parser detects the format automatically.
type FeedService struct {
	parser *gofeed.Parser
}

// NewFeedService creates a FeedService.
func NewFeedService() *FeedService {
	return &FeedService{parser: gofeed.NewParser()}
}

// DiscoverArticles fetches the feed and returns one reference per entry
// that carries a link. Entries without a link are skipped.
func (s *FeedService) DiscoverArticles(ctx context.Context, feedURL string) ([]artex.ArticleRef, error) {
	feed, err := s.parser.ParseURLWithContext(feedURL, ctx)
	if err != nil {
		return nil, artex.Errorf(artex.EFETCH, "failed to parse feed %q: %v", feedURL, err)
	}

	refs := make([]artex.ArticleRef, 0, len(feed.Items))
	for _, item := range feed.Items {
		if item == nil || item.Link == "" {
			continue
		}
		ref := artex.ArticleRef{
			URL:   item.Link,
			Title: item.Title,
		}
		// RSS pubDate and Atom published/updated are normalized by the
		// parser; prefer published.
		if item.PublishedParsed != nil {
			ref.PublishedAt = *item.PublishedParsed
		} else if item.UpdatedParsed != nil {
			ref.PublishedAt = *item.UpdatedParsed
		}
		refs = append(refs, ref)
	}
	return refs, nil
}
