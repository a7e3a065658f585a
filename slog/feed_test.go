package slog_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/fwojciec/artex"
	"github.com/fwojciec/artex/mock"
	artexslog "github.com/fwojciec/artex/slog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggingFeedService_DiscoverArticles(t *testing.T) {
	t.Parallel()

	t.Run("logs discovery with count", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		inner := &mock.FeedService{
			DiscoverArticlesFn: func(_ context.Context, _ string) ([]artex.ArticleRef, error) {
				return []artex.ArticleRef{
					{URL: "https://example.com/posts/1"},
					{URL: "https://example.com/posts/2"},
				}, nil
			},
		}

		svc := artexslog.NewLoggingFeedService(inner, logger)
		refs, err := svc.DiscoverArticles(context.Background(), "https://example.com/feed")

		require.NoError(t, err)
		assert.Len(t, refs, 2)
		output := buf.String()
		assert.Contains(t, output, "feed discovery")
		assert.Contains(t, output, "url=https://example.com/feed")
		assert.Contains(t, output, "count=2")
	})

	t.Run("logs error on failure", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		inner := &mock.FeedService{
			DiscoverArticlesFn: func(_ context.Context, _ string) ([]artex.ArticleRef, error) {
				return nil, artex.Errorf(artex.EFETCH, "feed unavailable")
			},
		}

		svc := artexslog.NewLoggingFeedService(inner, logger)
		_, err := svc.DiscoverArticles(context.Background(), "https://example.com/feed")

		require.Error(t, err)
		assert.Contains(t, buf.String(), "feed unavailable")
	})
}
