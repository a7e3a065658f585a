package main

import (
	"fmt"

	"github.com/fwojciec/artex"
)

// Run executes the articles list command.
func (c *ArticlesListCmd) Run(deps *Dependencies) error {
	filter := artex.ArticleFilter{Limit: c.Limit}
	if c.Site != "" {
		filter.Site = &c.Site
	}

	articles, err := deps.Articles.FindArticles(deps.Ctx, filter)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", artex.ErrorMessage(err))
		return err
	}

	if len(articles) == 0 {
		fmt.Fprintln(deps.Stdout, "No articles found.")
		return nil
	}

	for _, a := range articles {
		title := a.Title
		if title == "" {
			title = "(untitled)"
		}
		fmt.Fprintf(deps.Stdout, "%s  %s  %s  %s\n",
			a.ID, a.FetchedAt.Format("2006-01-02"), a.Site, title)
	}
	return nil
}

// Run executes the articles show command.
func (c *ArticlesShowCmd) Run(deps *Dependencies) error {
	article, err := deps.Articles.FindArticleByID(deps.Ctx, c.ID)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", artex.ErrorMessage(err))
		return err
	}

	if article.Title != "" {
		fmt.Fprintf(deps.Stdout, "Title: %s\n", article.Title)
	}
	fmt.Fprintf(deps.Stdout, "Source: %s\n\n", article.SourceURL)

	if c.Markdown {
		md, err := deps.Converter.Convert(article.ContentHTML)
		if err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", artex.ErrorMessage(err))
			return err
		}
		fmt.Fprintln(deps.Stdout, md)
		return nil
	}

	fmt.Fprintln(deps.Stdout, article.ContentHTML)
	return nil
}

// Run executes the articles delete command.
func (c *ArticlesDeleteCmd) Run(deps *Dependencies) error {
	if err := deps.Articles.DeleteArticle(deps.Ctx, c.ID); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", artex.ErrorMessage(err))
		return err
	}
	fmt.Fprintf(deps.Stdout, "Deleted article %s\n", c.ID)
	return nil
}
