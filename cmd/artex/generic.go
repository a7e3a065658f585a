package main

import (
	"fmt"

	"github.com/fwojciec/artex"
)

// Run executes the generic command.
func (c *GenericCmd) Run(deps *Dependencies) error {
	rawHTML, err := deps.Fetcher.Fetch(deps.Ctx, c.URL)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", artex.ErrorMessage(err))
		return err
	}

	extracted, err := deps.Fallback.Extract(rawHTML)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", artex.ErrorMessage(err))
		return err
	}

	content, err := deps.Pipeline.ProcessGenericHTML(deps.Ctx, extracted.ContentHTML, c.URL, nil, nil)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", artex.ErrorMessage(err))
		return err
	}

	if extracted.Title != "" {
		fmt.Fprintf(deps.Stdout, "Title: %s\n\n", extracted.Title)
	}

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
