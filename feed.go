package artex

import (
	"context"
	"time"
)

// ArticleRef is a pointer to an article discovered in a feed.
type ArticleRef struct {
	URL         string
	Title       string
	PublishedAt time.Time
}

// FeedService discovers article URLs for a site.
// Implementations hide the feed format (RSS/Atom, news sitemaps).
type FeedService interface {
	DiscoverArticles(ctx context.Context, feedURL string) ([]ArticleRef, error)
}
