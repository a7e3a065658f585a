package main

import (
	"context"
	"io"

	"github.com/fwojciec/artex"
	"github.com/fwojciec/artex/extract"
	"github.com/fwojciec/artex/sqlite"
	"github.com/fwojciec/artex/yaml"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx       context.Context
	Stdout    io.Writer
	Stderr    io.Writer
	DB        *sqlite.DB
	Articles  artex.ArticleService
	Rules     *yaml.Repository
	Fetcher   artex.Fetcher
	Fallback  artex.Extractor
	Converter artex.Converter
	Pipeline  *extract.Pipeline
	Runner    *extract.Runner
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Extract  ExtractCmd  `cmd:"" help:"Extract one article by URL"`
	Generic  GenericCmd  `cmd:"" help:"Extract one article without a site rule"`
	Run      RunCmd      `cmd:"" help:"Extract every article discovered from a feed"`
	Articles ArticlesCmd `cmd:"" help:"Manage stored articles"`
	Rules    RulesCmd    `cmd:"" help:"Inspect configured extraction rules"`
}

// ExtractCmd is the "extract" subcommand.
type ExtractCmd struct {
	URL      string `arg:"" help:"Article URL"`
	Save     bool   `short:"s" help:"Store the extracted article"`
	Markdown bool   `short:"m" help:"Print Markdown instead of HTML"`
}

// GenericCmd is the "generic" subcommand.
type GenericCmd struct {
	URL      string `arg:"" help:"Article URL"`
	Markdown bool   `short:"m" help:"Print Markdown instead of HTML"`
}

// RunCmd is the "run" subcommand.
type RunCmd struct {
	Feed        string `arg:"" help:"Feed or news sitemap URL"`
	Sitemap     bool   `help:"Treat the URL as an XML sitemap instead of RSS/Atom"`
	Concurrency int    `short:"c" default:"10" help:"Concurrent fetch limit"`
}

// ArticlesCmd groups the stored-article subcommands.
type ArticlesCmd struct {
	List   ArticlesListCmd   `cmd:"" help:"List stored articles"`
	Show   ArticlesShowCmd   `cmd:"" help:"Print one stored article"`
	Delete ArticlesDeleteCmd `cmd:"" help:"Delete a stored article"`
}

// ArticlesListCmd is the "articles list" subcommand.
type ArticlesListCmd struct {
	Site  string `help:"Only articles from this site"`
	Limit int    `default:"20" help:"Maximum number of articles"`
}

// ArticlesShowCmd is the "articles show" subcommand.
type ArticlesShowCmd struct {
	ID       string `arg:"" help:"Article ID"`
	Markdown bool   `short:"m" help:"Print Markdown instead of HTML"`
}

// ArticlesDeleteCmd is the "articles delete" subcommand.
type ArticlesDeleteCmd struct {
	ID string `arg:"" help:"Article ID"`
}

// RulesCmd groups the rule subcommands.
type RulesCmd struct {
	List RulesListCmd `cmd:"" help:"List configured sites"`
}

// RulesListCmd is the "rules list" subcommand.
type RulesListCmd struct{}
