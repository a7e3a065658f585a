package artex

// DefaultExtraTags is the built-in extra tag allowlist used by sanitizers
// when a rule does not override it.
var DefaultExtraTags = []string{"iframe", "script", "noscript"}

// StructuralAttrs is the attribute set always permitted by sanitizers.
// It is the minimum needed by normalized media tags.
var StructuralAttrs = []string{"src", "alt", "href", "controls", "playsinline", "referrerpolicy"}

// SanitizerFactory builds a Sanitizer bound to an embed host allowlist.
// Script and iframe elements survive sanitization only when their source
// host is in the set.
type SanitizerFactory func(allowedEmbedHosts []string) Sanitizer

// Sanitizer removes unsafe tags and attributes from an HTML fragment while
// preserving permitted embeds. It is the single security boundary: no
// externally-controlled markup reaches the output without passing through
// it.
type Sanitizer interface {
	// Sanitize filters the fragment against the tag allowlist.
	// extraTags extends the base content tag set; nil selects
	// DefaultExtraTags, an empty slice allows no extra tags.
	// On parser failure the implementation returns a safe fallback
	// (input stripped of all script and iframe tags) along with an
	// ESANITIZE error.
	Sanitize(html string, extraTags []string) (string, error)
}
