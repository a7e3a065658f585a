package main

import (
	"fmt"
	"time"

	"github.com/fwojciec/artex"
	"github.com/fwojciec/artex/extract"
)

// Run executes the extract command.
func (c *ExtractCmd) Run(deps *Dependencies) error {
	key := artex.DomainKey(c.URL)
	rule, ok := deps.Rules.RuleFor(key)
	if !ok {
		fmt.Fprintf(deps.Stderr, "No rule for %q. Try 'artex generic %s'.\n", key, c.URL)
		return artex.Errorf(artex.ENOTFOUND, "no rule for site %q", key)
	}

	rawHTML, err := deps.Fetcher.Fetch(deps.Ctx, c.URL)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", artex.ErrorMessage(err))
		return err
	}

	content, err := deps.Pipeline.ExtractArticle(deps.Ctx, rawHTML, rule, c.URL)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", artex.ErrorMessage(err))
		return err
	}

	if c.Save {
		article := &artex.Article{
			Site:        key,
			SourceURL:   c.URL,
			Title:       extract.PageTitle(rawHTML),
			ContentHTML: content,
			ContentHash: extract.ContentHash(content),
			FetchedAt:   time.Now().UTC(),
		}
		if err := deps.Articles.CreateArticle(deps.Ctx, article); err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", artex.ErrorMessage(err))
			return err
		}
		fmt.Fprintf(deps.Stdout, "Saved article %s\n", article.ID)
		return nil
	}

	return c.print(deps, content)
}

func (c *ExtractCmd) print(deps *Dependencies, content string) error {
	if c.Markdown {
		md, err := deps.Converter.Convert(content)
		if err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", artex.ErrorMessage(err))
			return err
		}
		fmt.Fprintln(deps.Stdout, md)
		return nil
	}
	fmt.Fprintln(deps.Stdout, content)
	return nil
}
