// Package profilecache stores player profile summaries for batch enrichment.
//
// Entries are kept for a retention period and carry the time they were cached. A lookup
// reports an entry as fresh while it is younger than the freshness window; stale entries
// are still returned so callers can use them and re-cache.
package profilecache
