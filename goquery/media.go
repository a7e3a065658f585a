package goquery

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/artex"
	"golang.org/x/net/html"
)

// MediaOptions configures media normalization.
type MediaOptions struct {
	// LazyAttrs are the lazy-loading attribute names checked first during
	// resolution. Nil selects artex.DefaultLazyAttrs.
	LazyAttrs []string

	// BaseURL, when set, is used to absolutize resolved media URLs.
	BaseURL *url.URL

	// ResolveAnchors also runs anchors through the resolution chain,
	// replacing those that point at media. Non-media anchors are kept.
	ResolveAnchors bool
}

// NormalizeMedia re-emits every resolvable image and video in the
// selection as a canonical tag carrying loading=lazy,
// referrerpolicy=no-referrer and the marker class. Media elements that
// yield no resolvable URL are removed rather than left dangling.
//
// Tags already carrying the marker class are skipped, so running
// normalization twice on its own output is a no-op.
func (e *Engine) NormalizeMedia(root *goquery.Selection, opts MediaOptions) {
	lazyAttrs := opts.LazyAttrs
	if lazyAttrs == nil {
		lazyAttrs = artex.DefaultLazyAttrs
	}

	root.Find("img, video").Each(func(_ int, s *goquery.Selection) {
		if s.HasClass(artex.MarkerClass) {
			return
		}
		// Inline data images survive untouched; the formatter injects
		// sizing attributes for them later.
		if src, _ := s.Attr("src"); strings.HasPrefix(src, "data:") {
			return
		}

		candidate, ok := ResolveMediaURL(s, lazyAttrs)
		if !ok {
			s.Remove()
			return
		}
		emitCanonical(s, candidate, opts.BaseURL)
	})

	if opts.ResolveAnchors {
		root.Find("a").Each(func(_ int, s *goquery.Selection) {
			if s.HasClass(artex.MarkerClass) || s.Find("."+artex.MarkerClass).Length() > 0 {
				return
			}
			candidate, ok := ResolveMediaURL(s, lazyAttrs)
			if !ok {
				return // an ordinary link, keep it
			}
			emitCanonical(s, candidate, opts.BaseURL)
		})
	}
}

// ResolveMediaURL determines the real media URL for an element.
// Resolution priority, first match wins:
//
//  1. configured lazy-loading attributes matching the media pattern
//  2. the element's direct src (href for anchors), excluding data: URIs
//  3. for anchors, media URLs embedded in query-string parameter values
//  4. for anchors and containers without a usable target, the first
//     descendant img/video/source, resolved recursively
//  5. for anchors, trimmed text content that is a bare media URL
func ResolveMediaURL(s *goquery.Selection, lazyAttrs []string) (artex.MediaCandidate, bool) {
	name := goquery.NodeName(s)
	isAnchor := name == "a"

	// (1) lazy attributes
	for _, attr := range lazyAttrs {
		if val, ok := s.Attr(attr); ok && artex.IsMediaURL(val) {
			return classify(val, name), true
		}
	}

	// (2) direct source
	if isAnchor {
		if href, ok := s.Attr("href"); ok && artex.IsMediaURL(href) && !strings.HasPrefix(href, "data:") {
			return classify(href, name), true
		}
	} else {
		if src, ok := s.Attr("src"); ok && src != "" && !strings.HasPrefix(src, "data:") {
			return classify(src, name), true
		}
	}

	if !isAnchor && name != "div" && name != "figure" && name != "p" {
		return artex.MediaCandidate{}, false
	}

	// (3) query-string parameter values
	if isAnchor {
		if href, ok := s.Attr("href"); ok {
			if u, err := url.Parse(href); err == nil {
				for _, vals := range u.Query() {
					for _, v := range vals {
						if artex.IsMediaURL(v) {
							return classify(v, name), true
						}
					}
				}
			}
		}
	}

	// (4) first resolvable media descendant
	var nested artex.MediaCandidate
	var found bool
	s.Find("img, video, source").EachWithBreak(func(_ int, c *goquery.Selection) bool {
		if cand, ok := ResolveMediaURL(c, lazyAttrs); ok {
			nested, found = cand, true
			return false
		}
		return true
	})
	if found {
		return nested, true
	}

	// (5) bare media URL as anchor text
	if isAnchor {
		text := strings.TrimSpace(s.Text())
		if strings.HasPrefix(text, "http") && artex.IsMediaURL(text) {
			return classify(text, name), true
		}
	}

	return artex.MediaCandidate{}, false
}

// classify determines the media kind from the URL pattern, falling back to
// the element type for extensionless sources.
func classify(rawURL, elementName string) artex.MediaCandidate {
	if kind, ok := artex.ClassifyMediaURL(rawURL); ok {
		return artex.MediaCandidate{URL: rawURL, Kind: kind}
	}
	if elementName == "video" || elementName == "source" {
		return artex.MediaCandidate{URL: rawURL, Kind: artex.MediaVideo}
	}
	return artex.MediaCandidate{URL: rawURL, Kind: artex.MediaImage}
}

// emitCanonical replaces s with the canonical tag for the candidate.
func emitCanonical(s *goquery.Selection, candidate artex.MediaCandidate, base *url.URL) {
	src := absolutize(candidate.URL, base)
	switch candidate.Kind {
	case artex.MediaVideo:
		s.ReplaceWithHtml(canonicalVideoTag(src))
	default:
		alt, _ := s.Attr("alt")
		s.ReplaceWithHtml(canonicalImageTag(src, alt))
	}
}

// absolutize resolves raw against base when it is not already absolute.
func absolutize(raw string, base *url.URL) string {
	if base == nil {
		return raw
	}
	u, err := url.Parse(raw)
	if err != nil || u.IsAbs() {
		return raw
	}
	return base.ResolveReference(u).String()
}

// canonicalImageTag renders the canonical image markup for a resolved URL.
func canonicalImageTag(src, alt string) string {
	return `<img src="` + html.EscapeString(src) +
		`" alt="` + html.EscapeString(alt) +
		`" loading="lazy" referrerpolicy="no-referrer" class="` + artex.MarkerClass + `"/>`
}

// canonicalVideoTag renders the canonical video markup for a resolved URL.
func canonicalVideoTag(src string) string {
	return `<video src="` + html.EscapeString(src) +
		`" controls playsinline referrerpolicy="no-referrer" class="` + artex.MarkerClass + `"></video>`
}
