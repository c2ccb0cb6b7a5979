// Package appcast contains the core domain model for the Sparkle update feed.
//
// It wraps the feed document (rss → channel → item) with namespace-aware
// operations: find-or-create of the channel container, replace-by-build
// upsert of items, and the structural validation rule set. Sparkle fields
// are resolved by any prefix the document binds to the namespace URI, with
// the canonical "sparkle" prefix as fallback.
package appcast
