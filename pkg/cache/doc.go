// Package cache provides a generic, thread-safe, in-process key/value cache
// with per-entry expiry.
//
// The cache implements lazy TTL semantics with the following features:
//
// - Per-entry TTL; a TTL of zero (or less) means the entry never expires
// - Expired entries are removed when a Get discovers them
// - Optional janitor goroutine that sweeps entries already past expiry
// - Values are copied on the way in and out through a configurable Clone func
// - Monotonic time source, immune to wall-clock adjustments
// - Prometheus metrics for observability
// - Deterministic cache key helper
//
// # Basic Usage
//
//	c := cache.New(cache.Config[[]byte]{
//		Name:  "pages",
//		Clone: bytes.Clone,
//	})
//	defer c.Close()
//
//	c.Set(cache.Key("page", "home"), body, 30*time.Second)
//
//	if v, ok := c.Get(cache.Key("page", "home")); ok {
//		// Cache hit - v is an independent copy
//	}
//
//	c.Invalidate(cache.Key("page", "home"))
//	c.Clear()
//
// # Expiry
//
// An entry set with ttl t is a hit for any Get up to and including the instant
// now+t, and a miss for any Get strictly after it. Expiry is evaluated with
// the monotonic reading carried by time.Now, so stepping the wall clock
// neither resurrects nor prematurely kills entries.
//
// Without a janitor, an expired entry that is never read again stays in memory
// until it is invalidated, overwritten or cleared. Set Config.CleanupInterval
// to reclaim such entries in the background; the janitor never touches live
// entries.
//
// # Concurrency
//
// A single mutex guards the store. Every public method holds it for its full
// duration, so operations on one Cache are linearizable. The mutex is not
// shared with any other component.
//
// # Metrics
//
// The cache exports Prometheus metrics, labelled by Config.Name:
//
//   - itemcache_cache_hits_total{cache}
//   - itemcache_cache_misses_total{cache}
//   - itemcache_cache_expirations_total{cache,reason} - reason is "lazy" or "janitor"
//   - itemcache_cache_invalidations_total{cache}
//   - itemcache_cache_entries{cache}
package cache
