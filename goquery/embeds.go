package goquery

import (
	"regexp"

	"github.com/PuerkitoBio/goquery"
)

// imgurIframePattern extracts the embed ID from imgur iframe URLs like
// //imgur.com/a/Abc12/embed or https://i.imgur.com/Abc12/embed.
var imgurIframePattern = regexp.MustCompile(`(?i)^(?:https?:)?//(?:www\.|i\.)?imgur\.com/(?:a/)?([A-Za-z0-9]{3,})(?:/embed)?/?(?:[?#].*)?$`)

// convertImgurEmbeds rewrites imgur embed blocks to canonical image tags
// using the embed ID, bypassing generic media resolution. Both the
// blockquote form (<blockquote data-id="...">) and the iframe form are
// handled.
func convertImgurEmbeds(root *goquery.Selection) {
	root.Find("blockquote[data-id]").Each(func(_ int, s *goquery.Selection) {
		id, _ := s.Attr("data-id")
		if id == "" {
			return
		}
		s.ReplaceWithHtml(canonicalImageTag("https://i.imgur.com/"+id+".jpg", ""))
	})

	root.Find("iframe[src]").Each(func(_ int, s *goquery.Selection) {
		src, _ := s.Attr("src")
		m := imgurIframePattern.FindStringSubmatch(src)
		if m == nil {
			return
		}
		s.ReplaceWithHtml(canonicalImageTag("https://i.imgur.com/"+m[1]+".jpg", ""))
	})
}
