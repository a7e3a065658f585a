// Package extract orchestrates the article extraction pipeline: rule
// application, sanitization, media normalization, pagination assembly and
// output formatting. It also provides the batch runner that processes
// many articles concurrently.
package extract

import (
	"context"
	"log/slog"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
	"github.com/fwojciec/artex"
	artexquery "github.com/fwojciec/artex/goquery"
)

// Pipeline converts raw article HTML into a normalized, sanitized
// fragment. A Pipeline holds no per-extraction state and is safe for
// concurrent use by multiple workers.
type Pipeline struct {
	// Sanitizer filters every fragment before output. Required.
	Sanitizer artex.Sanitizer

	// NewSanitizer builds sanitizers bound to a caller-supplied embed
	// host allowlist for ProcessGenericHTML. Optional; Sanitizer is
	// used when unset.
	NewSanitizer artex.SanitizerFactory

	// Fetcher retrieves continuation pages. Optional; pagination is
	// skipped when unset.
	Fetcher artex.Fetcher

	// Engine applies rules and normalizes media. Optional; a default
	// engine is used when unset.
	Engine *artexquery.Engine

	// Logger receives site/page context for recoverable failures.
	Logger *slog.Logger

	// MaxPages bounds pagination assembly. Defaults to DefaultMaxPages.
	MaxPages int
}

// ExtractArticle runs the full pipeline for one article. Any stage
// failure is logged with site and page context and converted to an
// empty-string result; callers must treat an empty string as "extraction
// failed", never as "article has no content".
func (p *Pipeline) ExtractArticle(ctx context.Context, rawHTML string, rule artex.ExtractionRule, pageURL string) (string, error) {
	engine := p.engine()

	doc, err := engine.Parse(rawHTML)
	if err != nil {
		p.fail(rule.Site, pageURL, "parse", err)
		return "", err
	}

	root, err := engine.Apply(doc, rule)
	if err != nil {
		p.fail(rule.Site, pageURL, "apply rule", err)
		return "", err
	}

	base := parseBase(pageURL)
	fragment, err := p.processRoot(root, rule, base)
	if err != nil {
		p.fail(rule.Site, pageURL, "process root", err)
		return "", err
	}

	// Continuation pages are only assembled for selector-rooted rules;
	// custom-root sites are single-page by definition.
	if rule.Root == nil && p.Fetcher != nil {
		fragment += p.assemblePages(ctx, doc, rule, pageURL)
	}

	out, err := Format(fragment, FormatOptions{
		MaxBrRun:          rule.MaxBrRun,
		StripAffiliateIDs: rule.StripAffiliateIDs,
		StyleDataImages:   rule.StyleDataImages,
		BaseURL:           rule.BaseURL,
		RemoveTagPattern:  rule.RemoveTagPattern,
		RemovePattern:     rule.RemovePattern,
		AppendTweetLoader: rule.ConvertTweets,
		PrettyPrint:       true,
	})
	if err != nil {
		p.fail(rule.Site, pageURL, "format", err)
		return "", err
	}

	return strings.TrimSpace(out), nil
}

// ProcessGenericHTML sanitizes, media-normalizes and absolutizes HTML
// whose structural extraction already happened upstream. removeSelectors
// are applied before sanitization; allowedEmbedHosts scopes surviving
// script and iframe sources.
func (p *Pipeline) ProcessGenericHTML(ctx context.Context, rawHTML, pageURL string, removeSelectors []string, allowedEmbedHosts []string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	engine := p.engine()

	doc, err := engine.Parse(rawHTML)
	if err != nil {
		p.fail("generic", pageURL, "parse", err)
		return "", err
	}

	body := doc.Find("body")
	for _, expr := range removeSelectors {
		m, err := cascadia.Compile(expr)
		if err != nil {
			p.warn("skipping invalid remove selector", "page", pageURL, "selector", expr, "err", err)
			continue
		}
		body.FindMatcher(m).Remove()
	}

	fragment, err := body.Html()
	if err != nil {
		p.fail("generic", pageURL, "serialize", err)
		return "", artex.Errorf(artex.EINTERNAL, "failed to serialize fragment: %v", err)
	}

	sanitizer := p.Sanitizer
	if p.NewSanitizer != nil {
		sanitizer = p.NewSanitizer(allowedEmbedHosts)
	}
	clean := p.sanitize(sanitizer, fragment, nil, "generic", pageURL)

	normalized, err := p.normalizeMedia(clean, artexquery.MediaOptions{BaseURL: parseBase(pageURL)})
	if err != nil {
		p.fail("generic", pageURL, "normalize media", err)
		return "", err
	}

	out, err := Format(normalized, FormatOptions{BaseURL: pageURL, PrettyPrint: true})
	if err != nil {
		p.fail("generic", pageURL, "format", err)
		return "", err
	}

	return strings.TrimSpace(out), nil
}

// processRoot serializes the article root, sanitizes it, and normalizes
// its media elements.
func (p *Pipeline) processRoot(root *goquery.Selection, rule artex.ExtractionRule, base *url.URL) (string, error) {
	fragment, err := artexquery.Serialize(root)
	if err != nil {
		return "", err
	}

	clean := p.sanitize(p.Sanitizer, fragment, rule.AllowedTags, rule.Site, "")

	return p.normalizeMedia(clean, artexquery.MediaOptions{
		LazyAttrs:      rule.LazyAttrs,
		BaseURL:        base,
		ResolveAnchors: rule.UnwrapAnchors,
	})
}

// sanitize runs the sanitizer, falling back to its safe output when the
// sanitizer reports a recoverable failure.
func (p *Pipeline) sanitize(sanitizer artex.Sanitizer, fragment string, extraTags []string, site, page string) string {
	clean, err := sanitizer.Sanitize(fragment, extraTags)
	if err != nil {
		// ESANITIZE ships a stripped-but-safe fallback in clean.
		p.warn("sanitizer degraded to safe fallback", "site", site, "page", page, "err", err)
	}
	return clean
}

// normalizeMedia reparses a sanitized fragment and rewrites its media
// elements as canonical tags.
func (p *Pipeline) normalizeMedia(fragment string, opts artexquery.MediaOptions) (string, error) {
	doc, err := p.engine().Parse(fragment)
	if err != nil {
		return "", err
	}

	body := doc.Find("body")
	p.engine().NormalizeMedia(body, opts)

	out, err := body.Html()
	if err != nil {
		return "", artex.Errorf(artex.EINTERNAL, "failed to serialize fragment: %v", err)
	}
	return out, nil
}

func (p *Pipeline) engine() *artexquery.Engine {
	if p.Engine != nil {
		return p.Engine
	}
	return artexquery.NewEngine(p.Logger)
}

// parseBase parses a page URL into an absolutization base.
// Returns nil for empty or unparseable URLs.
func parseBase(pageURL string) *url.URL {
	if pageURL == "" {
		return nil
	}
	u, err := url.Parse(pageURL)
	if err != nil || !u.IsAbs() {
		return nil
	}
	return u
}

func (p *Pipeline) fail(site, page, stage string, err error) {
	if p.Logger != nil {
		p.Logger.Error("extraction failed", "site", site, "page", page, "stage", stage, "err", err)
	}
}

func (p *Pipeline) warn(msg string, args ...any) {
	if p.Logger != nil {
		p.Logger.Warn(msg, args...)
	}
}
