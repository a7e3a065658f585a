package artex

import "regexp"

// MediaKind classifies a resolved media URL.
type MediaKind string

// Media kinds.
const (
	MediaImage MediaKind = "image"
	MediaVideo MediaKind = "video"
)

// MarkerClass is placed on normalized media tags so later passes skip
// them. It is the idempotence guard: running normalization twice on its
// own output is a no-op.
const MarkerClass = "artex-media"

// DefaultLazyAttrs are the lazy-loading attribute names checked when a
// rule does not configure its own.
var DefaultLazyAttrs = []string{"data-src", "data-lazy-src", "data-original"}

var (
	imageURLPattern = regexp.MustCompile(`(?i)\.(jpe?g|png|gif|webp|bmp|avif)(?:[?#][^"'\s]*)?$`)
	videoURLPattern = regexp.MustCompile(`(?i)\.(mp4|webm|m4v|mov|ogv)(?:[?#][^"'\s]*)?$`)
)

// MediaCandidate is the transient result of resolving an element's real
// media URL. It is consumed immediately to emit a canonical tag, never
// stored.
type MediaCandidate struct {
	URL  string
	Kind MediaKind
}

// ClassifyMediaURL reports whether raw points at a media file and, if so,
// whether it is an image or a video.
func ClassifyMediaURL(raw string) (MediaKind, bool) {
	switch {
	case videoURLPattern.MatchString(raw):
		return MediaVideo, true
	case imageURLPattern.MatchString(raw):
		return MediaImage, true
	}
	return "", false
}

// IsMediaURL reports whether raw points at an image or video file.
func IsMediaURL(raw string) bool {
	_, ok := ClassifyMediaURL(raw)
	return ok
}
