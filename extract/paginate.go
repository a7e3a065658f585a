package extract

import (
	"context"
	"net/url"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/artex"
)

// DefaultMaxPages is the hard cap on continuation pages assembled into a
// single article.
const DefaultMaxPages = 20

// bodyContainerSelectors are the containers recognized as an article body
// on continuation pages. Detection requires one of these to match.
var bodyContainerSelectors = []string{
	"article",
	".article-body",
	".entry-content",
	".post-body",
	"#article-body",
}

// nextLinkSelectors locate the link to the next page of a multi-page
// article, most specific first.
var nextLinkSelectors = []string{
	`link[rel="next"]`,
	`a[rel="next"]`,
	".pagination a.next",
	".pager a.next",
	"a.next",
}

// detectNextPage reports the absolute URL of the article's next page, or
// "" when doc is not a recognized multi-page article. Detection is
// conservative: the body container, a paragraph inside it, and a
// resolvable next link must all be present simultaneously.
func detectNextPage(doc *goquery.Document, pageURL *url.URL) string {
	body := findBodyContainer(doc)
	if body == nil || body.Find("p").Length() == 0 {
		return ""
	}

	for _, expr := range nextLinkSelectors {
		href, ok := doc.Find(expr).First().Attr("href")
		if !ok || href == "" {
			continue
		}
		if next := resolveNext(pageURL, href); next != "" {
			return next
		}
	}
	return ""
}

func findBodyContainer(doc *goquery.Document) *goquery.Selection {
	for _, expr := range bodyContainerSelectors {
		if sel := doc.Find(expr).First(); sel.Length() > 0 {
			return sel
		}
	}
	return nil
}

// resolveNext turns a next-link href into an absolute URL. Fragment-only
// and non-http references are rejected.
func resolveNext(pageURL *url.URL, href string) string {
	ref, err := url.Parse(href)
	if err != nil {
		return ""
	}
	if pageURL != nil {
		ref = pageURL.ResolveReference(ref)
	}
	if !ref.IsAbs() || (ref.Scheme != "http" && ref.Scheme != "https") {
		return ""
	}
	if pageURL != nil && ref.String() == pageURL.String() {
		return ""
	}
	return ref.String()
}

// assemblePages follows next-page links from the first page's document
// and returns the concatenated continuation fragments, each processed
// through the same per-page flow as the first page. Fetch or extraction
// failure on page N keeps pages 1..N-1; a cycle or the page cap ends the
// walk. The first page itself is never re-fetched.
func (p *Pipeline) assemblePages(ctx context.Context, first *goquery.Document, rule artex.ExtractionRule, pageURL string) string {
	maxPages := p.MaxPages
	if maxPages <= 0 {
		maxPages = DefaultMaxPages
	}

	base := parseBase(pageURL)
	seen := map[string]bool{}
	if base != nil {
		seen[base.String()] = true
	}

	var out string
	next := detectNextPage(first, base)
	for pages := 1; next != "" && pages < maxPages; pages++ {
		if ctx.Err() != nil {
			break
		}
		if seen[next] {
			p.warn("pagination cycle detected", "site", rule.Site, "page", next)
			break
		}
		seen[next] = true

		rawHTML, err := p.Fetcher.Fetch(ctx, next)
		if err != nil {
			p.warn("continuation page fetch failed, keeping partial article",
				"site", rule.Site, "page", next, "err", err)
			break
		}

		doc, err := p.engine().Parse(rawHTML)
		if err != nil {
			p.warn("continuation page parse failed, keeping partial article",
				"site", rule.Site, "page", next, "err", err)
			break
		}

		root, err := p.engine().Apply(doc, rule)
		if err != nil {
			p.warn("continuation page extraction failed, keeping partial article",
				"site", rule.Site, "page", next, "err", err)
			break
		}

		nextBase := parseBase(next)
		fragment, err := p.processRoot(root, rule, nextBase)
		if err != nil {
			p.warn("continuation page processing failed, keeping partial article",
				"site", rule.Site, "page", next, "err", err)
			break
		}
		out += fragment

		next = detectNextPage(doc, nextBase)
	}
	return out
}
