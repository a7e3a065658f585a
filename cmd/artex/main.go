package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/artex"
	"github.com/fwojciec/artex/bluemonday"
	"github.com/fwojciec/artex/extract"
	artexgofeed "github.com/fwojciec/artex/gofeed"
	"github.com/fwojciec/artex/htmltomarkdown"
	artexhttp "github.com/fwojciec/artex/http"
	artexslog "github.com/fwojciec/artex/slog"
	"github.com/fwojciec/artex/sqlite"
	"github.com/fwojciec/artex/trafilatura"
	"github.com/fwojciec/artex/yaml"
	"log/slog"
)

func main() {
	ctx := context.Background()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// defaultEmbedHosts are the third-party embed providers whose scripts and
// iframes survive sanitization by default.
var defaultEmbedHosts = []string{
	"platform.twitter.com",
	"www.youtube.com",
	"youtube.com",
	"player.vimeo.com",
	"www.instagram.com",
}

// Main represents the program.
type Main struct {
	// Database path. Set before calling Run().
	DBPath string

	// Rules directory. Set before calling Run().
	RulesDir string

	// SQLite database used by SQLite service implementations.
	DB *sqlite.DB

	// Services for end-to-end testing.
	ArticleService artex.ArticleService
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{
		DBPath:   defaultDBPath(),
		RulesDir: defaultRulesDir(),
	}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	if m.DB != nil {
		return m.DB.Close()
	}
	return nil
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("artex"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'artex --help' to see available commands")
	}

	cmd := args[0]
	if cmd == "help" || cmd == "--help" || cmd == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	m.DB = sqlite.NewDB(m.DBPath)
	if err := m.DB.Open(); err != nil {
		fmt.Fprintf(stderr, "Hint: Set ARTEX_DB to use a different database path\n")
		return fmt.Errorf("failed to open database at %q: %w", m.DBPath, err)
	}
	defer m.Close()

	logger := slog.New(slog.NewTextHandler(stderr, nil))

	rules := yaml.NewRepository()
	if m.RulesDir != "" {
		if _, statErr := os.Stat(m.RulesDir); statErr == nil {
			if err := rules.LoadDir(m.RulesDir); err != nil {
				return fmt.Errorf("failed to load rules from %q: %w", m.RulesDir, err)
			}
		}
	}

	fetcher := artexhttp.NewFetcher()
	defer fetcher.Close()

	m.ArticleService = sqlite.NewArticleService(m.DB)

	deps.DB = m.DB
	deps.Articles = m.ArticleService
	deps.Rules = rules
	deps.Fetcher = artexslog.NewLoggingFetcher(fetcher, logger)
	deps.Converter = htmltomarkdown.NewConverter()
	deps.Pipeline = &extract.Pipeline{
		Sanitizer:    bluemonday.NewSanitizer(defaultEmbedHosts),
		NewSanitizer: func(hosts []string) artex.Sanitizer { return bluemonday.NewSanitizer(hosts) },
		Fetcher:      deps.Fetcher,
		Logger:       logger,
	}
	deps.Fallback = trafilatura.NewExtractor()

	if cmd == "run" {
		var feeds artex.FeedService
		if cli.Run.Sitemap {
			feeds = artexhttp.NewSitemapService(nil)
		} else {
			feeds = artexgofeed.NewFeedService()
		}

		deps.Runner = &extract.Runner{
			Rules:       artexslog.NewLoggingRuleRepository(rules, logger),
			Feeds:       artexslog.NewLoggingFeedService(feeds, logger),
			Fetcher:     deps.Fetcher,
			Pipeline:    deps.Pipeline,
			Articles:    m.ArticleService,
			Fallback:    deps.Fallback,
			RateLimiter: extract.NewDomainLimiter(1.0),
			Concurrency: cli.Run.Concurrency,
		}
	}

	return kongCtx.Run(deps)
}

func defaultDBPath() string {
	if path := os.Getenv("ARTEX_DB"); path != "" {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "artex.db"
	}
	dir := filepath.Join(home, ".artex")
	_ = os.MkdirAll(dir, 0755)
	return filepath.Join(dir, "artex.db")
}

func defaultRulesDir() string {
	if path := os.Getenv("ARTEX_RULES"); path != "" {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "rules"
	}
	return filepath.Join(home, ".artex", "rules")
}
