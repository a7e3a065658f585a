package goquery_test

import (
	"net/url"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/artex"
	artexquery "github.com/fwojciec/artex/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// parseFragment wraps a fragment in a body and returns the body selection.
func parseFragment(t *testing.T, fragment string) *goquery.Selection {
	t.Helper()

	doc, err := goquery.NewDocumentFromReader(strings.NewReader("<html><body>" + fragment + "</body></html>"))
	require.NoError(t, err)
	return doc.Find("body")
}

// serialize renders the children of the body selection.
func serializeBody(t *testing.T, body *goquery.Selection) string {
	t.Helper()

	out, err := body.Html()
	require.NoError(t, err)
	return out
}

func TestResolveMediaURL(t *testing.T) {
	t.Parallel()

	lazyAttrs := []string{"data-src", "data-lazy-src"}

	t.Run("lazy attribute wins over direct src", func(t *testing.T) {
		t.Parallel()

		body := parseFragment(t, `<img data-src="https://example.com/real.jpg" src="https://example.com/placeholder.jpg">`)

		candidate, ok := artexquery.ResolveMediaURL(body.Find("img"), lazyAttrs)

		require.True(t, ok)
		assert.Equal(t, "https://example.com/real.jpg", candidate.URL)
		assert.Equal(t, artex.MediaImage, candidate.Kind)
	})

	t.Run("falls back to direct src", func(t *testing.T) {
		t.Parallel()

		body := parseFragment(t, `<img src="https://example.com/pic.png">`)

		candidate, ok := artexquery.ResolveMediaURL(body.Find("img"), lazyAttrs)

		require.True(t, ok)
		assert.Equal(t, "https://example.com/pic.png", candidate.URL)
	})

	t.Run("skips data URIs", func(t *testing.T) {
		t.Parallel()

		body := parseFragment(t, `<img src="data:image/png;base64,AAAA">`)

		_, ok := artexquery.ResolveMediaURL(body.Find("img"), lazyAttrs)

		assert.False(t, ok)
	})

	t.Run("anchor resolves media URL from query parameter", func(t *testing.T) {
		t.Parallel()

		body := parseFragment(t, `<a href="https://example.com/view?media=https%3A%2F%2Fcdn.example.com%2Fa.jpg">photo</a>`)

		candidate, ok := artexquery.ResolveMediaURL(body.Find("a"), lazyAttrs)

		require.True(t, ok)
		assert.Equal(t, "https://cdn.example.com/a.jpg", candidate.URL)
	})

	t.Run("anchor without usable href resolves first media descendant", func(t *testing.T) {
		t.Parallel()

		body := parseFragment(t, `<a href="#gallery"><img data-src="https://example.com/nested.webp"></a>`)

		candidate, ok := artexquery.ResolveMediaURL(body.Find("a"), lazyAttrs)

		require.True(t, ok)
		assert.Equal(t, "https://example.com/nested.webp", candidate.URL)
	})

	t.Run("anchor resolves bare media URL from text", func(t *testing.T) {
		t.Parallel()

		body := parseFragment(t, `<a href="#"> https://example.com/bare.gif </a>`)

		candidate, ok := artexquery.ResolveMediaURL(body.Find("a"), lazyAttrs)

		require.True(t, ok)
		assert.Equal(t, "https://example.com/bare.gif", candidate.URL)
	})

	t.Run("classifies video extension as video", func(t *testing.T) {
		t.Parallel()

		body := parseFragment(t, `<a href="https://example.com/clip.mp4">clip</a>`)

		candidate, ok := artexquery.ResolveMediaURL(body.Find("a"), lazyAttrs)

		require.True(t, ok)
		assert.Equal(t, artex.MediaVideo, candidate.Kind)
	})

	t.Run("extensionless video src classified by element", func(t *testing.T) {
		t.Parallel()

		body := parseFragment(t, `<video src="https://cdn.example.com/stream/123"></video>`)

		candidate, ok := artexquery.ResolveMediaURL(body.Find("video"), lazyAttrs)

		require.True(t, ok)
		assert.Equal(t, artex.MediaVideo, candidate.Kind)
	})

	t.Run("ordinary anchor does not resolve", func(t *testing.T) {
		t.Parallel()

		body := parseFragment(t, `<a href="https://example.com/other-article">read more</a>`)

		_, ok := artexquery.ResolveMediaURL(body.Find("a"), lazyAttrs)

		assert.False(t, ok)
	})
}

func TestEngine_NormalizeMedia(t *testing.T) {
	t.Parallel()

	base, err := url.Parse("https://x.com/dir/")
	require.NoError(t, err)

	t.Run("re-emits image as canonical tag", func(t *testing.T) {
		t.Parallel()

		e := artexquery.NewEngine(nil)
		body := parseFragment(t, `<img data-src="https://example.com/a.jpg" class="lazyload" width="10">`)

		e.NormalizeMedia(body, artexquery.MediaOptions{})

		out := serializeBody(t, body)
		assert.Contains(t, out, `src="https://example.com/a.jpg"`)
		assert.Contains(t, out, `loading="lazy"`)
		assert.Contains(t, out, `referrerpolicy="no-referrer"`)
		assert.Contains(t, out, artex.MarkerClass)
		assert.NotContains(t, out, "lazyload")
	})

	t.Run("normalization is idempotent", func(t *testing.T) {
		t.Parallel()

		e := artexquery.NewEngine(nil)
		body := parseFragment(t, `<img src="https://example.com/a.jpg" alt="pic">`)

		e.NormalizeMedia(body, artexquery.MediaOptions{})
		once := serializeBody(t, body)
		e.NormalizeMedia(body, artexquery.MediaOptions{})
		twice := serializeBody(t, body)

		assert.Equal(t, once, twice)
	})

	t.Run("removes unresolvable media elements", func(t *testing.T) {
		t.Parallel()

		e := artexquery.NewEngine(nil)
		body := parseFragment(t, `<p>text</p><img alt="broken">`)

		e.NormalizeMedia(body, artexquery.MediaOptions{})

		out := serializeBody(t, body)
		assert.Contains(t, out, "<p>text</p>")
		assert.NotContains(t, out, "<img")
	})

	t.Run("keeps data URI images untouched", func(t *testing.T) {
		t.Parallel()

		e := artexquery.NewEngine(nil)
		body := parseFragment(t, `<img src="data:image/png;base64,AAAA">`)

		e.NormalizeMedia(body, artexquery.MediaOptions{})

		out := serializeBody(t, body)
		assert.Contains(t, out, "data:image/png;base64,AAAA")
	})

	t.Run("absolutizes resolved URLs against base", func(t *testing.T) {
		t.Parallel()

		e := artexquery.NewEngine(nil)
		body := parseFragment(t, `<img src="a/b.jpg">`)

		e.NormalizeMedia(body, artexquery.MediaOptions{BaseURL: base})

		out := serializeBody(t, body)
		assert.Contains(t, out, `src="https://x.com/dir/a/b.jpg"`)
	})

	t.Run("already absolute URL is unchanged", func(t *testing.T) {
		t.Parallel()

		e := artexquery.NewEngine(nil)
		body := parseFragment(t, `<img src="https://cdn.example.com/a.jpg">`)

		e.NormalizeMedia(body, artexquery.MediaOptions{BaseURL: base})

		out := serializeBody(t, body)
		assert.Contains(t, out, `src="https://cdn.example.com/a.jpg"`)
	})

	t.Run("emits canonical video for video candidates", func(t *testing.T) {
		t.Parallel()

		e := artexquery.NewEngine(nil)
		body := parseFragment(t, `<video data-src="https://example.com/clip.mp4"></video>`)

		e.NormalizeMedia(body, artexquery.MediaOptions{})

		out := serializeBody(t, body)
		assert.Contains(t, out, `<video src="https://example.com/clip.mp4" controls playsinline`)
	})

	t.Run("resolves media anchors only when enabled", func(t *testing.T) {
		t.Parallel()

		e := artexquery.NewEngine(nil)

		body := parseFragment(t, `<a href="https://example.com/full.jpg">photo</a>`)
		e.NormalizeMedia(body, artexquery.MediaOptions{})
		assert.Contains(t, serializeBody(t, body), "<a ")

		body = parseFragment(t, `<a href="https://example.com/full.jpg">photo</a>`)
		e.NormalizeMedia(body, artexquery.MediaOptions{ResolveAnchors: true})
		out := serializeBody(t, body)
		assert.NotContains(t, out, "<a ")
		assert.Contains(t, out, `src="https://example.com/full.jpg"`)
	})

	t.Run("keeps ordinary anchors when resolving anchors", func(t *testing.T) {
		t.Parallel()

		e := artexquery.NewEngine(nil)
		body := parseFragment(t, `<a href="/other-article">read more</a>`)

		e.NormalizeMedia(body, artexquery.MediaOptions{ResolveAnchors: true})

		out := serializeBody(t, body)
		assert.Contains(t, out, "read more")
	})
}
