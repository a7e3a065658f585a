package http

import (
	"context"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/beevik/etree"
	"github.com/fwojciec/artex"
)

// Ensure SitemapService implements artex.FeedService.
var _ artex.FeedService = (*SitemapService)(nil)

// SitemapService discovers article URLs from XML sitemaps, including
// Google News sitemaps carrying per-article metadata. Sitemap indexes
// are followed recursively.
type SitemapService struct {
	client *http.Client
}

// NewSitemapService creates a new SitemapService with the given HTTP client.
// If client is nil, http.DefaultClient is used.
func NewSitemapService(client *http.Client) *SitemapService {
	if client == nil {
		client = http.DefaultClient
	}
	return &SitemapService{client: client}
}

// DiscoverArticles returns the article references listed in the sitemap
// at sitemapURL, deduplicated by URL. Returns an empty slice (not nil)
// when the sitemap lists nothing.
func (s *SitemapService) DiscoverArticles(ctx context.Context, sitemapURL string) ([]artex.ArticleRef, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	refs, err := s.processSitemap(ctx, sitemapURL, seen)
	if err != nil {
		return nil, err
	}

	deduped := make([]artex.ArticleRef, 0, len(refs))
	seenURLs := make(map[string]bool)
	for _, ref := range refs {
		if seenURLs[ref.URL] {
			continue
		}
		seenURLs[ref.URL] = true
		deduped = append(deduped, ref)
	}
	return deduped, nil
}

// processSitemap fetches and parses one sitemap document, handling both
// urlset and sitemapindex roots.
func (s *SitemapService) processSitemap(ctx context.Context, sitemapURL string, seen map[string]bool) ([]artex.ArticleRef, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Avoid processing the same sitemap twice.
	if seen[sitemapURL] {
		return nil, nil
	}
	seen[sitemapURL] = true

	body, err := s.fetchURL(ctx, sitemapURL)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	doc := etree.NewDocument()
	if _, err := doc.ReadFrom(body); err != nil {
		return nil, artex.Errorf(artex.EINVALID, "failed to parse sitemap XML from %q: %v", sitemapURL, err)
	}

	root := doc.Root()
	if root == nil {
		return nil, artex.Errorf(artex.EINVALID, "empty sitemap XML at %q", sitemapURL)
	}

	if root.Tag == "sitemapindex" {
		return s.processSitemapIndex(ctx, root, seen)
	}

	return parseURLSet(root), nil
}

// processSitemapIndex processes a <sitemapindex> element recursively.
func (s *SitemapService) processSitemapIndex(ctx context.Context, root *etree.Element, seen map[string]bool) ([]artex.ArticleRef, error) {
	var all []artex.ArticleRef

	for _, sitemap := range root.SelectElements("sitemap") {
		loc := sitemap.SelectElement("loc")
		if loc == nil {
			continue
		}
		sitemapURL := strings.TrimSpace(loc.Text())
		if sitemapURL == "" {
			continue
		}

		refs, err := s.processSitemap(ctx, sitemapURL, seen)
		if err != nil {
			return nil, err
		}
		all = append(all, refs...)
	}

	return all, nil
}

// parseURLSet extracts article references from a <urlset> element. News
// sitemap entries contribute title and publication date; plain entries
// fall back to lastmod.
func parseURLSet(root *etree.Element) []artex.ArticleRef {
	var refs []artex.ArticleRef
	for _, urlEl := range root.SelectElements("url") {
		loc := urlEl.SelectElement("loc")
		if loc == nil {
			continue
		}
		u := strings.TrimSpace(loc.Text())
		if u == "" {
			continue
		}

		ref := artex.ArticleRef{URL: u}
		if news := urlEl.SelectElement("news:news"); news != nil {
			if title := news.SelectElement("news:title"); title != nil {
				ref.Title = strings.TrimSpace(title.Text())
			}
			if pub := news.SelectElement("news:publication_date"); pub != nil {
				ref.PublishedAt = parseSitemapTime(pub.Text())
			}
		} else if lastmod := urlEl.SelectElement("lastmod"); lastmod != nil {
			ref.PublishedAt = parseSitemapTime(lastmod.Text())
		}
		refs = append(refs, ref)
	}
	return refs
}

// parseSitemapTime parses the date formats sitemaps use in the wild.
// Unparseable values yield the zero time.
func parseSitemapTime(raw string) time.Time {
	raw = strings.TrimSpace(raw)
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05-07:00", "2006-01-02"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t
		}
	}
	return time.Time{}
}

// fetchURL fetches a URL and returns the response body.
func (s *SitemapService) fetchURL(ctx context.Context, targetURL string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, targetURL, nil)
	if err != nil {
		return nil, artex.Errorf(artex.EINVALID, "invalid sitemap URL %q: %v", targetURL, err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, artex.Errorf(artex.EFETCH, "failed to fetch %q: %v", targetURL, err)
	}

	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, artex.Errorf(artex.EFETCH, "HTTP %d for %s", resp.StatusCode, targetURL)
	}

	return resp.Body, nil
}
