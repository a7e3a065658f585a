package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/artex"
)

// unwrapMediaAnchors replaces anchors that wrap a thumbnail and point at
// full-size media with the image itself, retargeted to the anchor's href.
// Anchors without an image child are left for the media resolver.
func unwrapMediaAnchors(root *goquery.Selection) {
	root.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		if !artex.IsMediaURL(href) || strings.HasPrefix(href, "data:") {
			return
		}

		img := s.Find("img").First()
		if img.Length() == 0 {
			return
		}

		img.SetAttr("src", href)
		s.ReplaceWithSelection(img)
	})
}

// promoteLazySources copies lazy-loading attribute values into src so the
// media resolver sees them as direct sources. This must run before generic
// media normalization. Images and videos are promoted only when the value
// matches the media pattern; iframes accept any http(s) value.
func promoteLazySources(root *goquery.Selection, lazyAttrs []string) {
	root.Find("img, video, source, iframe").Each(func(_ int, s *goquery.Selection) {
		for _, attr := range lazyAttrs {
			val, ok := s.Attr(attr)
			if !ok || val == "" {
				continue
			}

			if goquery.NodeName(s) == "iframe" {
				if !strings.HasPrefix(val, "http") && !strings.HasPrefix(val, "//") {
					continue
				}
			} else if !artex.IsMediaURL(val) {
				continue
			}

			s.SetAttr("src", val)
			s.RemoveAttr(attr)
			return
		}
	})
}

// fixIframeSuffix appends a rule-specified suffix to iframe src values
// that lack it. Some sites serve embed URLs that only work with a
// trailing path or query segment.
func fixIframeSuffix(root *goquery.Selection, suffix string) {
	root.Find("iframe[src]").Each(func(_ int, s *goquery.Selection) {
		src, _ := s.Attr("src")
		if src == "" || strings.HasSuffix(src, suffix) {
			return
		}
		s.SetAttr("src", src+suffix)
	})
}

// simplifyVideos collapses player containers matched by the rule's video
// selector into a plain <video> tag. It expects <source> children to be
// present already (lazy promotion runs first).
func (e *Engine) simplifyVideos(root *goquery.Selection, rule artex.ExtractionRule) {
	m, ok := e.compile(rule.Site, rule.VideoSelector)
	if !ok {
		return
	}

	root.FindMatcher(m).Each(func(_ int, s *goquery.Selection) {
		src := firstVideoSource(s)
		if src == "" {
			return
		}
		s.ReplaceWithHtml(canonicalVideoTag(src))
	})
}

// firstVideoSource finds the playable URL for a player container: the
// container's own src, or the first <source>/<video> descendant with one.
func firstVideoSource(s *goquery.Selection) string {
	if src, ok := s.Attr("src"); ok && src != "" {
		return src
	}
	var found string
	s.Find("source[src], video[src]").EachWithBreak(func(_ int, c *goquery.Selection) bool {
		if src, _ := c.Attr("src"); src != "" {
			found = src
			return false
		}
		return true
	})
	return found
}

// removeEmpty deletes matched elements that contain neither text nor media.
func (e *Engine) removeEmpty(root *goquery.Selection, rule artex.ExtractionRule) {
	m, ok := e.compile(rule.Site, rule.RemoveEmptySelector)
	if !ok {
		return
	}

	root.FindMatcher(m).Each(func(_ int, s *goquery.Selection) {
		if strings.TrimSpace(s.Text()) != "" {
			return
		}
		if s.Find("img, video, iframe, source").Length() > 0 {
			return
		}
		s.Remove()
	})
}

// promoteNoscriptContent replaces <noscript> blocks that carry fallback
// media markup with that markup. The parser stores noscript children as
// raw text, so the content arrives via Text().
func promoteNoscriptContent(root *goquery.Selection) {
	root.Find("noscript").Each(func(_ int, s *goquery.Selection) {
		// Parsed-children case (scripting-disabled parses).
		if s.Find("iframe, img").Length() > 0 {
			inner, err := s.Html()
			if err == nil && inner != "" {
				s.ReplaceWithHtml(inner)
			}
			return
		}

		raw := s.Text()
		if strings.Contains(raw, "<iframe") || strings.Contains(raw, "<img") {
			s.ReplaceWithHtml(raw)
		}
	})
}
