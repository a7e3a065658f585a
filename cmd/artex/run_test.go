package main_test

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/fwojciec/artex"
	main "github.com/fwojciec/artex/cmd/artex"
	"github.com/fwojciec/artex/extract"
	"github.com/fwojciec/artex/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunCmd_Run(t *testing.T) {
	t.Parallel()

	t.Run("processes a feed and prints the summary", func(t *testing.T) {
		t.Parallel()

		feeds := &mock.FeedService{
			DiscoverArticlesFn: func(_ context.Context, feedURL string) ([]artex.ArticleRef, error) {
				assert.Equal(t, "https://example.com/feed", feedURL)
				return []artex.ArticleRef{
					{URL: "https://example.com/posts/1", Title: "First Post"},
				}, nil
			},
		}

		fetcher := &mock.Fetcher{
			FetchFn: func(_ context.Context, _ string) (string, error) {
				return "<html><body><article><p>Body text</p></article></body></html>", nil
			},
		}

		rules := &mock.RuleRepository{
			RuleForFn: func(_ string) (artex.ExtractionRule, bool) {
				return artex.ExtractionRule{Site: "example.com", MainSelector: "article"}, true
			},
		}

		var saved []*artex.Article
		articles := &mock.ArticleService{
			CreateArticleFn: func(_ context.Context, a *artex.Article) error {
				saved = append(saved, a)
				return nil
			},
		}

		stdout := &bytes.Buffer{}
		stderr := &bytes.Buffer{}

		deps := &main.Dependencies{
			Ctx:    testContext(),
			Stdout: stdout,
			Stderr: stderr,
			Runner: &extract.Runner{
				Rules:       rules,
				Feeds:       feeds,
				Fetcher:     fetcher,
				Pipeline:    newTestPipeline(),
				Articles:    articles,
				Concurrency: 2,
				RetryDelays: []time.Duration{0},
			},
		}

		cmd := &main.RunCmd{Feed: "https://example.com/feed"}

		err := cmd.Run(deps)

		require.NoError(t, err)
		require.Len(t, saved, 1)
		assert.Contains(t, stdout.String(), "Saved 1 articles")
		assert.Contains(t, stderr.String(), "Processing 1 articles")
		assert.Contains(t, stderr.String(), "[1/1]")
	})

	t.Run("reports failures in the summary", func(t *testing.T) {
		t.Parallel()

		feeds := &mock.FeedService{
			DiscoverArticlesFn: func(_ context.Context, _ string) ([]artex.ArticleRef, error) {
				return []artex.ArticleRef{
					{URL: "https://example.com/posts/broken"},
				}, nil
			},
		}

		fetcher := &mock.Fetcher{
			FetchFn: func(_ context.Context, _ string) (string, error) {
				return "", artex.Errorf(artex.EFETCH, "connection refused")
			},
		}

		rules := &mock.RuleRepository{
			RuleForFn: func(_ string) (artex.ExtractionRule, bool) {
				return artex.ExtractionRule{}, false
			},
		}

		stdout := &bytes.Buffer{}
		stderr := &bytes.Buffer{}

		deps := &main.Dependencies{
			Ctx:    testContext(),
			Stdout: stdout,
			Stderr: stderr,
			Runner: &extract.Runner{
				Rules:       rules,
				Feeds:       feeds,
				Fetcher:     fetcher,
				Pipeline:    newTestPipeline(),
				Articles:    &mock.ArticleService{},
				Concurrency: 1,
				RetryDelays: []time.Duration{0},
			},
		}

		cmd := &main.RunCmd{Feed: "https://example.com/feed"}

		err := cmd.Run(deps)

		require.NoError(t, err)
		assert.Contains(t, stdout.String(), "1 failed")
		assert.Contains(t, stderr.String(), "connection refused")
	})

	t.Run("returns error when discovery fails", func(t *testing.T) {
		t.Parallel()

		feeds := &mock.FeedService{
			DiscoverArticlesFn: func(_ context.Context, _ string) ([]artex.ArticleRef, error) {
				return nil, artex.Errorf(artex.EFETCH, "feed unavailable")
			},
		}

		stdout := &bytes.Buffer{}
		stderr := &bytes.Buffer{}

		deps := &main.Dependencies{
			Ctx:    testContext(),
			Stdout: stdout,
			Stderr: stderr,
			Runner: &extract.Runner{
				Rules: &mock.RuleRepository{},
				Feeds: feeds,
			},
		}

		cmd := &main.RunCmd{Feed: "https://example.com/feed"}

		err := cmd.Run(deps)

		require.Error(t, err)
		assert.Contains(t, stderr.String(), "error:")
		assert.Empty(t, stdout.String())
	})
}
