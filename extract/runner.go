package extract

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"sync/atomic"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/cespare/xxhash/v2"
	"github.com/fwojciec/artex"
	"github.com/fwojciec/artex/bloom"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// Bloom filter sizing for feed deduplication.
const (
	dedupeExpectedURLs      = 10000
	dedupeFalsePositiveRate = 0.01
)

// Runner processes batches of articles discovered from feeds: fetch,
// extract, and store. Sites without a rule fall back to the generic
// extractor when one is configured.
type Runner struct {
	Rules       artex.RuleRepository
	Feeds       artex.FeedService
	Fetcher     artex.Fetcher
	Pipeline    *Pipeline
	Articles    artex.ArticleWriter
	Fallback    artex.Extractor
	RateLimiter artex.DomainLimiter
	Concurrency int
	RetryDelays []time.Duration
}

// Result holds the outcome of a batch run.
type Result struct {
	Saved  int
	Failed int
	Empty  int
	Bytes  int
}

// ProgressEvent reports progress during a batch run.
type ProgressEvent struct {
	Type      ProgressType
	Completed int
	Total     int
	URL       string
	Error     error
}

// ProgressType indicates the type of progress event.
type ProgressType int

const (
	ProgressStarted ProgressType = iota
	ProgressCompleted
	ProgressFailed
	ProgressFinished
)

// ProgressFunc is a callback for reporting run progress.
type ProgressFunc func(event ProgressEvent)

// runResult holds the outcome of processing a single article URL. A nil
// article with a nil error means extraction produced no content.
type runResult struct {
	position int
	url      string
	article  *artex.Article
	err      error
}

// RunFeed discovers article URLs from a feed and processes each one
// through the extraction pipeline, storing the results. The progress
// callback, if provided, receives events as the run proceeds.
func (r *Runner) RunFeed(ctx context.Context, feedURL string, progress ProgressFunc) (*Result, error) {
	refs, err := r.Feeds.DiscoverArticles(ctx, feedURL)
	if err != nil {
		return nil, fmt.Errorf("feed discovery: %w", err)
	}

	// Feeds commonly repeat entries across categories; keep first sight.
	seen := bloom.NewFilter(dedupeExpectedURLs, dedupeFalsePositiveRate)
	deduped := refs[:0:0]
	for _, ref := range refs {
		if seen.Test(ref.URL) {
			continue
		}
		seen.Add(ref.URL)
		deduped = append(deduped, ref)
	}

	if len(deduped) == 0 {
		return &Result{}, nil
	}

	concurrency := r.Concurrency
	if concurrency <= 0 {
		concurrency = 10
	}

	resultCh := make(chan runResult, len(deduped))

	var completed atomic.Int64
	total := len(deduped)

	if progress != nil {
		progress(ProgressEvent{Type: ProgressStarted, Total: total})
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	go func() {
		for i, ref := range deduped {
			i, ref := i, ref
			g.Go(func() error {
				resultCh <- r.processURL(gctx, i, ref)
				return nil
			})
		}
		_ = g.Wait()
		close(resultCh)
	}()

	results := make([]runResult, len(deduped))
	var failedCount int
	for result := range resultCh {
		completed.Add(1)
		results[result.position] = result

		if result.err != nil {
			failedCount++
			if progress != nil {
				progress(ProgressEvent{
					Type:      ProgressFailed,
					Completed: int(completed.Load()),
					Total:     total,
					URL:       result.url,
					Error:     result.err,
				})
			}
		} else if progress != nil {
			progress(ProgressEvent{
				Type:      ProgressCompleted,
				Completed: int(completed.Load()),
				Total:     total,
				URL:       result.url,
			})
		}
	}

	var savedCount, emptyCount, totalBytes int
	for _, result := range results {
		if result.err != nil {
			continue
		}
		if result.article == nil {
			emptyCount++
			continue
		}

		if err := r.Articles.CreateArticle(ctx, result.article); err != nil {
			failedCount++
			continue
		}

		savedCount++
		totalBytes += len(result.article.ContentHTML)
	}

	if progress != nil {
		progress(ProgressEvent{Type: ProgressFinished, Completed: total, Total: total})
	}

	return &Result{
		Saved:  savedCount,
		Failed: failedCount,
		Empty:  emptyCount,
		Bytes:  totalBytes,
	}, nil
}

// processURL fetches and extracts a single article.
func (r *Runner) processURL(ctx context.Context, position int, ref artex.ArticleRef) runResult {
	result := runResult{position: position, url: ref.URL}

	if r.RateLimiter != nil {
		u, err := url.Parse(ref.URL)
		if err != nil {
			result.err = artex.Errorf(artex.EINVALID, "invalid article URL %q: %v", ref.URL, err)
			return result
		}
		if err := r.RateLimiter.Wait(ctx, u.Host); err != nil {
			result.err = err
			return result
		}
	}

	delays := r.RetryDelays
	if delays == nil {
		delays = DefaultRetryDelays()
	}
	rawHTML, err := FetchWithRetryDelays(ctx, ref.URL, r.Fetcher.Fetch, nil, delays)
	if err != nil {
		result.err = artex.Errorf(artex.EFETCH, "failed to fetch %q: %v", ref.URL, err)
		return result
	}

	key := artex.DomainKey(ref.URL)
	title := ref.Title

	var content string
	if rule, ok := r.Rules.RuleFor(key); ok {
		content, err = r.Pipeline.ExtractArticle(ctx, rawHTML, rule, ref.URL)
	} else if r.Fallback != nil {
		var extracted *artex.ExtractResult
		extracted, err = r.Fallback.Extract(rawHTML)
		if err == nil {
			if title == "" {
				title = extracted.Title
			}
			content, err = r.Pipeline.ProcessGenericHTML(ctx, extracted.ContentHTML, ref.URL, nil, nil)
		}
	}
	if err != nil {
		result.err = err
		return result
	}
	if content == "" {
		return result
	}

	if title == "" {
		title = PageTitle(rawHTML)
	}

	result.article = &artex.Article{
		ID:          uuid.New().String(),
		Site:        key,
		SourceURL:   ref.URL,
		Title:       title,
		ContentHTML: content,
		ContentHash: ContentHash(content),
		FetchedAt:   time.Now().UTC(),
	}
	return result
}

// ContentHash returns the xxhash digest of content, hex-encoded. Stored
// alongside articles so re-runs can detect unchanged content.
func ContentHash(content string) string {
	return fmt.Sprintf("%x", xxhash.Sum64String(content))
}

// PageTitle extracts the document title as a last-resort article title.
func PageTitle(rawHTML string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(doc.Find("title").First().Text())
}

// TruncateURL shortens a URL for display, keeping the more informative
// tail end.
func TruncateURL(url string, maxLen int) string {
	if maxLen <= 0 {
		return ""
	}
	if maxLen < 4 {
		return url[:min(len(url), maxLen)]
	}
	if len(url) <= maxLen {
		return url
	}
	return "..." + url[len(url)-maxLen+3:]
}

// FormatBytes formats bytes in human-readable form.
func FormatBytes(bytes int) string {
	const (
		KB = 1024
		MB = KB * 1024
	)
	switch {
	case bytes >= MB:
		return fmt.Sprintf("%.1f MB", float64(bytes)/float64(MB))
	case bytes >= KB:
		return fmt.Sprintf("%.1f KB", float64(bytes)/float64(KB))
	default:
		return fmt.Sprintf("%d B", bytes)
	}
}
