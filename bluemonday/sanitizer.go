// Package bluemonday implements the artex.Sanitizer on the bluemonday
// allowlist sanitizer. It is the single security boundary of the
// pipeline: no externally-controlled markup reaches the output without
// passing through it.
package bluemonday

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/artex"
	"github.com/microcosm-cc/bluemonday"
)

// Ensure Sanitizer implements artex.Sanitizer at compile time.
var _ artex.Sanitizer = (*Sanitizer)(nil)

// baseContentTags are always allowed; they carry article text and
// normalized media. Sectioning tags (article, main, section) are
// included so a serialized article root survives re-sanitization of its
// own output.
var baseContentTags = []string{
	"a", "abbr", "article", "b", "blockquote", "br", "caption", "code",
	"dd", "div", "dl", "dt", "em", "figcaption", "figure", "h1", "h2",
	"h3", "h4", "h5", "h6", "hr", "i", "img", "li", "main", "mark", "ol",
	"p", "pre", "q", "ruby", "rp", "rt", "s", "section", "small",
	"source", "span", "strong", "sub", "sup", "table", "tbody", "td",
	"tfoot", "th", "thead", "time", "tr", "u", "ul", "video", "wbr",
}

// Sanitizer filters HTML fragments against a tag/attribute allowlist.
// Script and iframe elements survive only when their src host is in the
// allowed embed host set. A Sanitizer is immutable and safe for
// concurrent use.
type Sanitizer struct {
	allowedEmbedHosts []string
}

// NewSanitizer creates a Sanitizer permitting script and iframe sources
// from the given hosts (subdomains included). An empty set removes all
// scripts and iframes regardless of the tag allowlist.
func NewSanitizer(allowedEmbedHosts []string) *Sanitizer {
	return &Sanitizer{allowedEmbedHosts: allowedEmbedHosts}
}

// Sanitize filters the fragment. extraTags extends the base content tag
// set; nil selects artex.DefaultExtraTags, an empty slice allows no
// extra tags. On parser failure it returns the fragment stripped of all
// script and iframe tags together with an ESANITIZE error.
func (s *Sanitizer) Sanitize(fragment string, extraTags []string) (string, error) {
	if extraTags == nil {
		extraTags = artex.DefaultExtraTags
	}

	prefiltered, err := s.filterEmbedHosts(fragment)
	if err != nil {
		return stripUnsafe(fragment), artex.Errorf(artex.ESANITIZE, "failed to parse fragment: %v", err)
	}

	return s.policy(extraTags).Sanitize(prefiltered), nil
}

// filterEmbedHosts removes inline scripts and any script/iframe whose
// source host is not in the allowed embed host set. This runs before the
// allowlist policy because bluemonday filters attributes, not hosts.
func (s *Sanitizer) filterEmbedHosts(fragment string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return "", err
	}

	body := doc.Find("body")
	body.Find("script, iframe").Each(func(_ int, sel *goquery.Selection) {
		src, _ := sel.Attr("src")
		if src == "" || !s.hostAllowed(src) {
			sel.Remove()
		}
	})

	return body.Html()
}

// hostAllowed reports whether the URL's host is one of the allowed embed
// hosts or a subdomain of one.
func (s *Sanitizer) hostAllowed(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return false
	}
	host := strings.ToLower(u.Hostname())
	for _, allowed := range s.allowedEmbedHosts {
		if host == allowed || strings.HasSuffix(host, "."+allowed) {
			return true
		}
	}
	return false
}

// policy builds the allowlist policy for one sanitize call. Policies are
// cheap to construct and keeping them per-call avoids shared mutable
// configuration across concurrent extractions.
func (s *Sanitizer) policy(extraTags []string) *bluemonday.Policy {
	p := bluemonday.NewPolicy()
	p.AllowElements(baseContentTags...)
	if len(extraTags) > 0 {
		p.AllowElements(extraTags...)
	}

	p.AllowAttrs(artex.StructuralAttrs...).Globally()
	p.AllowAttrs("class", "loading", "width", "height").Globally()
	// Lazy-loading attributes must survive sanitization; media resolution
	// runs after it and reads the real URL from them.
	p.AllowAttrs(artex.DefaultLazyAttrs...).Globally()
	p.AllowAttrs("type").OnElements("source")
	p.AllowAttrs("data-id").OnElements("blockquote")
	p.AllowAttrs("async", "charset").OnElements("script")
	p.AllowAttrs("allowfullscreen", "frameborder").OnElements("iframe")

	p.AllowURLSchemes("http", "https")
	p.AllowRelativeURLs(true)
	p.AllowDataURIImages()

	return p
}

var (
	scriptBlockPattern = regexp.MustCompile(`(?is)<script\b[^>]*>.*?</script>`)
	iframeBlockPattern = regexp.MustCompile(`(?is)<iframe\b[^>]*>.*?</iframe>`)
	strayTagPattern    = regexp.MustCompile(`(?i)</?(?:script|iframe)\b[^>]*>`)
)

// stripUnsafe is the safe fallback when the fragment cannot be parsed:
// it removes all script and iframe markup at the string level and keeps
// the rest untouched.
func stripUnsafe(fragment string) string {
	fragment = scriptBlockPattern.ReplaceAllString(fragment, "")
	fragment = iframeBlockPattern.ReplaceAllString(fragment, "")
	return strayTagPattern.ReplaceAllString(fragment, "")
}
