// Package artex converts article pages from heterogeneous content sites
// into normalized, sanitized HTML fragments suitable for mobile display.
// It applies declarative per-site extraction rules to isolate the article
// body, strips unsafe markup through an allowlist sanitizer, resolves the
// real source URL for lazy-loaded and embedded media, and assembles
// multi-page articles into one document.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., goquery/, bluemonday/, sqlite/).
package artex
