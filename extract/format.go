package extract

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/fwojciec/artex"
	"github.com/yosssi/gohtml"
)

// FormatOptions configures the string-level output passes. Every pass is
// skipped when its field is unset; absence of a flag never implicitly
// enables a transform.
type FormatOptions struct {
	// MaxBrRun collapses runs of more than this many <br> tags to one.
	MaxBrRun int

	// StripAffiliateIDs removes affiliate-ID path segments from URLs.
	StripAffiliateIDs bool

	// StyleDataImages injects inline sizing and alt attributes on
	// data: image sources.
	StyleDataImages bool

	// BaseURL rewrites remaining non-absolute src attributes.
	BaseURL string

	// RemoveTagPattern removes serialized markup matching this regex.
	RemoveTagPattern string

	// RemovePattern removes arbitrary content matching this regex.
	RemovePattern string

	// AppendTweetLoader appends the tweet widget loader when the
	// fragment contains a tweet embed block and no loader survived the
	// removal passes.
	AppendTweetLoader bool

	// PrettyPrint indents the final fragment.
	PrettyPrint bool
}

// tweetWidgetSrc is the tweet widget loader; appended at most once per
// fragment, and only when a tweet embed block is present.
const tweetWidgetSrc = "https://platform.twitter.com/widgets.js"

const tweetLoaderTag = `<script async src="` + tweetWidgetSrc + `" charset="utf-8"></script>`

var (
	affiliatePattern = regexp.MustCompile(`/ref=[A-Za-z0-9_\-.%]+`)
	dataImagePattern = regexp.MustCompile(`(?i)<img\b[^>]*\bsrc="data:[^"]*"[^>]*>`)
	// The prefix group rejects hyphenated attributes (data-src,
	// data-lazy-src); only bare src is absolutized.
	srcAttrPattern = regexp.MustCompile(`(^|[^-\w])src="([^"]+)"`)
)

// Format applies the string-level passes to a serialized fragment, in a
// fixed order, strictly after all DOM work: br collapsing, affiliate-ID
// stripping, data-image styling, src absolutization, rule regex removal,
// pretty-printing.
func Format(fragment string, opts FormatOptions) (string, error) {
	out := fragment

	if opts.MaxBrRun > 0 {
		out = collapseBrRuns(out, opts.MaxBrRun)
	}

	if opts.StripAffiliateIDs {
		out = affiliatePattern.ReplaceAllString(out, "")
	}

	if opts.StyleDataImages {
		out = styleDataImages(out)
	}

	if opts.BaseURL != "" {
		absolutized, err := absolutizeSources(out, opts.BaseURL)
		if err != nil {
			return "", err
		}
		out = absolutized
	}

	for _, pattern := range []string{opts.RemoveTagPattern, opts.RemovePattern} {
		if pattern == "" {
			continue
		}
		re, err := regexp.Compile(pattern)
		if err != nil {
			return "", artex.Errorf(artex.EINVALID, "invalid removal pattern %q: %v", pattern, err)
		}
		out = re.ReplaceAllString(out, "")
	}

	// After the removal passes, so a pattern that strips an existing
	// loader cannot leave a tweet embed without one.
	if opts.AppendTweetLoader && strings.Contains(out, "twitter-tweet") && !strings.Contains(out, tweetWidgetSrc) {
		out += tweetLoaderTag
	}

	if opts.PrettyPrint {
		out = gohtml.Format(out)
	}

	return out, nil
}

// collapseBrRuns reduces any run of more than max consecutive <br> tags
// to a single one. Runs of max or fewer are untouched.
func collapseBrRuns(fragment string, max int) string {
	re := regexp.MustCompile(fmt.Sprintf(`(?i)(?:<br\s*/?>\s*){%d,}`, max+1))
	return re.ReplaceAllString(fragment, "<br/>")
}

// styleDataImages injects sizing and alt attributes into inline data
// images so they do not cause layout jank before styles load.
func styleDataImages(fragment string) string {
	return dataImagePattern.ReplaceAllStringFunc(fragment, func(tag string) string {
		var extra string
		if !strings.Contains(tag, "style=") {
			extra += ` style="max-width:100%;height:auto"`
		}
		if !strings.Contains(tag, "alt=") {
			extra += ` alt=""`
		}
		if extra == "" {
			return tag
		}

		closing := ">"
		if strings.HasSuffix(tag, "/>") {
			closing = "/>"
		}
		return strings.TrimSuffix(tag, closing) + extra + closing
	})
}

// absolutizeSources rewrites every remaining non-absolute src attribute
// against the base URL. Absolute, protocol-relative and data: sources
// are unchanged.
func absolutizeSources(fragment, baseURL string) (string, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return "", artex.Errorf(artex.EINVALID, "invalid base URL %q: %v", baseURL, err)
	}

	return srcAttrPattern.ReplaceAllStringFunc(fragment, func(match string) string {
		i := strings.Index(match, `src="`)
		prefix := match[:i]
		raw := match[i+len(`src="`) : len(match)-1]
		if strings.HasPrefix(raw, "http://") || strings.HasPrefix(raw, "https://") ||
			strings.HasPrefix(raw, "//") || strings.HasPrefix(raw, "data:") {
			return match
		}
		ref, err := url.Parse(raw)
		if err != nil {
			return match
		}
		return prefix + `src="` + base.ResolveReference(ref).String() + `"`
	}), nil
}
