package main_test

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/fwojciec/artex"
	main "github.com/fwojciec/artex/cmd/artex"
	"github.com/fwojciec/artex/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArticlesListCmd_Run(t *testing.T) {
	t.Parallel()

	t.Run("lists articles with ID, date, site, and title", func(t *testing.T) {
		t.Parallel()

		articles := &mock.ArticleService{
			FindArticlesFn: func(_ context.Context, filter artex.ArticleFilter) ([]*artex.Article, error) {
				assert.Nil(t, filter.Site)
				assert.Equal(t, 20, filter.Limit)
				return []*artex.Article{
					{
						ID:        "art-1",
						Site:      "example.com",
						Title:     "First Post",
						FetchedAt: time.Date(2026, 8, 20, 10, 0, 0, 0, time.UTC),
					},
					{
						ID:        "art-2",
						Site:      "other.example.org",
						Title:     "Second Post",
						FetchedAt: time.Date(2026, 8, 21, 11, 0, 0, 0, time.UTC),
					},
				}, nil
			},
		}

		stdout := &bytes.Buffer{}
		stderr := &bytes.Buffer{}

		deps := &main.Dependencies{
			Ctx:      testContext(),
			Stdout:   stdout,
			Stderr:   stderr,
			Articles: articles,
		}

		cmd := &main.ArticlesListCmd{Limit: 20}

		err := cmd.Run(deps)

		require.NoError(t, err)
		output := stdout.String()
		assert.Contains(t, output, "art-1")
		assert.Contains(t, output, "2026-08-20")
		assert.Contains(t, output, "example.com")
		assert.Contains(t, output, "First Post")
		assert.Contains(t, output, "art-2")
		assert.Contains(t, output, "Second Post")
		assert.Empty(t, stderr.String())
	})

	t.Run("filters by site", func(t *testing.T) {
		t.Parallel()

		articles := &mock.ArticleService{
			FindArticlesFn: func(_ context.Context, filter artex.ArticleFilter) ([]*artex.Article, error) {
				require.NotNil(t, filter.Site)
				assert.Equal(t, "example.com", *filter.Site)
				return nil, nil
			},
		}

		stdout := &bytes.Buffer{}

		deps := &main.Dependencies{
			Ctx:      testContext(),
			Stdout:   stdout,
			Stderr:   &bytes.Buffer{},
			Articles: articles,
		}

		cmd := &main.ArticlesListCmd{Site: "example.com", Limit: 20}

		require.NoError(t, cmd.Run(deps))
	})

	t.Run("shows helpful message when no articles exist", func(t *testing.T) {
		t.Parallel()

		articles := &mock.ArticleService{
			FindArticlesFn: func(_ context.Context, _ artex.ArticleFilter) ([]*artex.Article, error) {
				return nil, nil
			},
		}

		stdout := &bytes.Buffer{}

		deps := &main.Dependencies{
			Ctx:      testContext(),
			Stdout:   stdout,
			Stderr:   &bytes.Buffer{},
			Articles: articles,
		}

		cmd := &main.ArticlesListCmd{Limit: 20}

		require.NoError(t, cmd.Run(deps))
		assert.Contains(t, stdout.String(), "No articles")
	})

	t.Run("returns error when find fails", func(t *testing.T) {
		t.Parallel()

		articles := &mock.ArticleService{
			FindArticlesFn: func(_ context.Context, _ artex.ArticleFilter) ([]*artex.Article, error) {
				return nil, artex.Errorf(artex.EINTERNAL, "database error")
			},
		}

		stdout := &bytes.Buffer{}
		stderr := &bytes.Buffer{}

		deps := &main.Dependencies{
			Ctx:      testContext(),
			Stdout:   stdout,
			Stderr:   stderr,
			Articles: articles,
		}

		cmd := &main.ArticlesListCmd{Limit: 20}

		err := cmd.Run(deps)

		require.Error(t, err)
		assert.Contains(t, stderr.String(), "error:")
		assert.Empty(t, stdout.String())
	})
}

func TestArticlesShowCmd_Run(t *testing.T) {
	t.Parallel()

	t.Run("prints the stored article", func(t *testing.T) {
		t.Parallel()

		articles := &mock.ArticleService{
			FindArticleByIDFn: func(_ context.Context, id string) (*artex.Article, error) {
				assert.Equal(t, "art-1", id)
				return &artex.Article{
					ID:          "art-1",
					Title:       "First Post",
					SourceURL:   "https://example.com/posts/1",
					ContentHTML: "<p>Body text</p>",
				}, nil
			},
		}

		stdout := &bytes.Buffer{}

		deps := &main.Dependencies{
			Ctx:      testContext(),
			Stdout:   stdout,
			Stderr:   &bytes.Buffer{},
			Articles: articles,
		}

		cmd := &main.ArticlesShowCmd{ID: "art-1"}

		require.NoError(t, cmd.Run(deps))
		output := stdout.String()
		assert.Contains(t, output, "Title: First Post")
		assert.Contains(t, output, "Source: https://example.com/posts/1")
		assert.Contains(t, output, "<p>Body text</p>")
	})

	t.Run("converts to markdown with --markdown", func(t *testing.T) {
		t.Parallel()

		articles := &mock.ArticleService{
			FindArticleByIDFn: func(_ context.Context, _ string) (*artex.Article, error) {
				return &artex.Article{ID: "art-1", ContentHTML: "<p>Body text</p>"}, nil
			},
		}

		converter := &mock.Converter{
			ConvertFn: func(html string) (string, error) {
				assert.Equal(t, "<p>Body text</p>", html)
				return "Body text as markdown", nil
			},
		}

		stdout := &bytes.Buffer{}

		deps := &main.Dependencies{
			Ctx:       testContext(),
			Stdout:    stdout,
			Stderr:    &bytes.Buffer{},
			Articles:  articles,
			Converter: converter,
		}

		cmd := &main.ArticlesShowCmd{ID: "art-1", Markdown: true}

		require.NoError(t, cmd.Run(deps))
		assert.Contains(t, stdout.String(), "Body text as markdown")
	})

	t.Run("returns error when article does not exist", func(t *testing.T) {
		t.Parallel()

		articles := &mock.ArticleService{
			FindArticleByIDFn: func(_ context.Context, _ string) (*artex.Article, error) {
				return nil, artex.Errorf(artex.ENOTFOUND, "article not found")
			},
		}

		stdout := &bytes.Buffer{}
		stderr := &bytes.Buffer{}

		deps := &main.Dependencies{
			Ctx:      testContext(),
			Stdout:   stdout,
			Stderr:   stderr,
			Articles: articles,
		}

		cmd := &main.ArticlesShowCmd{ID: "missing"}

		err := cmd.Run(deps)

		require.Error(t, err)
		assert.Contains(t, stderr.String(), "article not found")
		assert.Empty(t, stdout.String())
	})
}

func TestArticlesDeleteCmd_Run(t *testing.T) {
	t.Parallel()

	t.Run("deletes the article", func(t *testing.T) {
		t.Parallel()

		var deletedID string
		articles := &mock.ArticleService{
			DeleteArticleFn: func(_ context.Context, id string) error {
				deletedID = id
				return nil
			},
		}

		stdout := &bytes.Buffer{}

		deps := &main.Dependencies{
			Ctx:      testContext(),
			Stdout:   stdout,
			Stderr:   &bytes.Buffer{},
			Articles: articles,
		}

		cmd := &main.ArticlesDeleteCmd{ID: "art-1"}

		require.NoError(t, cmd.Run(deps))
		assert.Equal(t, "art-1", deletedID)
		assert.Contains(t, stdout.String(), "Deleted article art-1")
	})

	t.Run("returns error when delete fails", func(t *testing.T) {
		t.Parallel()

		articles := &mock.ArticleService{
			DeleteArticleFn: func(_ context.Context, _ string) error {
				return artex.Errorf(artex.ENOTFOUND, "article not found")
			},
		}

		stdout := &bytes.Buffer{}
		stderr := &bytes.Buffer{}

		deps := &main.Dependencies{
			Ctx:      testContext(),
			Stdout:   stdout,
			Stderr:   stderr,
			Articles: articles,
		}

		cmd := &main.ArticlesDeleteCmd{ID: "missing"}

		err := cmd.Run(deps)

		require.Error(t, err)
		assert.Contains(t, stderr.String(), "error:")
		assert.Empty(t, stdout.String())
	})
}
