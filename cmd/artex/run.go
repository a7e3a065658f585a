package main

import (
	"fmt"

	"github.com/fwojciec/artex"
	"github.com/fwojciec/artex/extract"
)

const progressURLWidth = 60

// Run executes the run command.
func (c *RunCmd) Run(deps *Dependencies) error {
	progress := func(event extract.ProgressEvent) {
		switch event.Type {
		case extract.ProgressStarted:
			fmt.Fprintf(deps.Stderr, "Processing %d articles\n", event.Total)
		case extract.ProgressCompleted:
			fmt.Fprintf(deps.Stderr, "[%d/%d] %s\n",
				event.Completed, event.Total, extract.TruncateURL(event.URL, progressURLWidth))
		case extract.ProgressFailed:
			fmt.Fprintf(deps.Stderr, "[%d/%d] %s: %s\n",
				event.Completed, event.Total, extract.TruncateURL(event.URL, progressURLWidth),
				artex.ErrorMessage(event.Error))
		case extract.ProgressFinished:
			fmt.Fprintf(deps.Stderr, "Done\n")
		}
	}

	result, err := deps.Runner.RunFeed(deps.Ctx, c.Feed, progress)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", artex.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Saved %d articles (%s)", result.Saved, extract.FormatBytes(result.Bytes))
	if result.Empty > 0 {
		fmt.Fprintf(deps.Stdout, ", %d empty", result.Empty)
	}
	if result.Failed > 0 {
		fmt.Fprintf(deps.Stdout, ", %d failed", result.Failed)
	}
	fmt.Fprintln(deps.Stdout)
	return nil
}
