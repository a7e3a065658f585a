package artex

import (
	"net/url"
	"strings"

	"golang.org/x/net/html"
)

// RootFunc locates article root nodes that CSS selectors cannot express
// (e.g., "the <p> following a heading whose text equals X"). It receives
// the parsed document root and returns the body nodes, or nil when the
// page has no recognizable body.
//
// Custom locators are registered in code, never loaded from rule files;
// keep them small and rare.
type RootFunc func(doc *html.Node) []*html.Node

// ExtractionRule is the immutable per-site configuration describing how to
// isolate and clean one article's body. A rule is pure data: applying the
// same rule to the same HTML is deterministic.
//
// Every optional transform is disabled when its field is unset; absence of
// a flag never implicitly enables a pass.
type ExtractionRule struct {
	// Site is the domain key this rule applies to (see DomainKey).
	Site string `yaml:"site"`

	// MainSelector locates the article body element(s).
	MainSelector string `yaml:"main_selector"`

	// Root overrides MainSelector for sites whose body cannot be located
	// with a CSS selector. Rules with a custom root skip pagination.
	Root RootFunc `yaml:"-"`

	// RemoveSelectors are applied in order against the article root.
	// A selector matching nothing is a no-op; an invalid selector is
	// skipped with a warning.
	RemoveSelectors []string `yaml:"remove_selectors"`

	// UnwrapAnchors replaces anchors that wrap thumbnails and point at
	// full-size media with the media itself.
	UnwrapAnchors bool `yaml:"unwrap_anchors"`

	// LazyAttrs names lazy-loading attributes (e.g., "data-src") to
	// promote to src before media normalization.
	LazyAttrs []string `yaml:"lazy_attrs"`

	// IframeSuffix is appended to iframe src values that lack it.
	IframeSuffix string `yaml:"iframe_suffix"`

	// VideoSelector matches video player containers to collapse into a
	// plain <video> tag.
	VideoSelector string `yaml:"video_selector"`

	// RemoveEmptySelector matches elements to delete when they contain
	// neither text nor media.
	RemoveEmptySelector string `yaml:"remove_empty_selector"`

	// AllowedTags overrides the sanitizer's default extra tag allowlist
	// (iframe, script, noscript). An empty non-nil list allows none.
	AllowedTags []string `yaml:"allowed_tags"`

	// MaxBrRun collapses runs of more than this many <br> tags into one.
	// Zero disables the pass.
	MaxBrRun int `yaml:"max_br_run"`

	// StripAffiliateIDs removes affiliate-ID path segments from URLs.
	StripAffiliateIDs bool `yaml:"strip_affiliate_ids"`

	// StyleDataImages injects inline sizing attributes on data: image
	// sources to avoid layout jank.
	StyleDataImages bool `yaml:"style_data_images"`

	// ConvertImgur rewrites imgur embed blocks to plain image tags.
	ConvertImgur bool `yaml:"convert_imgur"`

	// ConvertTweets appends the tweet widget loader when the fragment
	// contains a tweet embed block.
	ConvertTweets bool `yaml:"convert_tweets"`

	// RemoveTagPattern removes serialized tags matching this regular
	// expression during formatting.
	RemoveTagPattern string `yaml:"remove_tag_pattern"`

	// BaseURL overrides the page URL as the base for absolutizing
	// relative src attributes.
	BaseURL string `yaml:"base_url"`

	// RemovePattern removes arbitrary content matching this regular
	// expression from the final string.
	RemovePattern string `yaml:"remove_pattern"`
}

// Validate returns an error if the rule cannot locate an article body.
func (r *ExtractionRule) Validate() error {
	if r.MainSelector == "" && r.Root == nil {
		return Errorf(EINVALID, "rule for %q has no main selector or root locator", r.Site)
	}
	return nil
}

// RuleRepository looks up extraction rules by domain key.
// Absence of a rule is a defined, non-error outcome: extraction of an
// unknown site yields an empty string.
type RuleRepository interface {
	RuleFor(domainKey string) (ExtractionRule, bool)
}

// multiTenantHosts are blog platforms where one hostname serves many
// independent sites; the first path segment identifies the tenant.
var multiTenantHosts = map[string]bool{
	"ameblo.jp":        true,
	"blog.livedoor.jp": true,
	"medium.com":       true,
	"note.com":         true,
}

// DomainKey derives the rule lookup key for a page URL: the hostname with
// a single "www.", "m." or "amp." prefix stripped, with the first path
// segment appended for multi-tenant blog hosts.
// Returns an empty string for unparseable or host-less URLs.
func DomainKey(pageURL string) string {
	u, err := url.Parse(pageURL)
	if err != nil || u.Hostname() == "" {
		return ""
	}

	host := strings.ToLower(u.Hostname())
	for _, prefix := range []string{"www.", "m.", "amp."} {
		if rest := strings.TrimPrefix(host, prefix); rest != host && strings.Contains(rest, ".") {
			host = rest
			break
		}
	}

	if multiTenantHosts[host] {
		if seg := firstPathSegment(u.Path); seg != "" {
			return host + "/" + seg
		}
	}
	return host
}

// firstPathSegment returns the first non-empty path segment, without slashes.
func firstPathSegment(path string) string {
	for _, seg := range strings.Split(path, "/") {
		if seg != "" {
			return seg
		}
	}
	return ""
}
