// Package metrics exposes the Prometheus registry used by item-cache.
// All metrics are defined in their respective packages (cache, repository, items)
// to maintain modularity and avoid circular dependencies.
//
// This package documents the available metrics and serves them over HTTP.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry is the Prometheus registerer all item-cache metrics are registered with.
// Metrics are registered via promauto in their respective packages.
var Registry = prometheus.DefaultRegisterer

// Gatherer is the source scraped by Handler.
var Gatherer = prometheus.DefaultGatherer

// Handler returns the /metrics exposition handler.
func Handler() http.Handler {
	return promhttp.HandlerFor(Gatherer, promhttp.HandlerOpts{})
}

// Metrics Documentation
//
// Cache Metrics (pkg/cache), labelled by cache name:
//   - itemcache_cache_hits_total{cache} (Counter): Lookups answered from the cache
//   - itemcache_cache_misses_total{cache} (Counter): Lookups that found nothing live
//   - itemcache_cache_expirations_total{cache, reason} (Counter): Expired entries removed (reason: lazy, janitor)
//   - itemcache_cache_invalidations_total{cache} (Counter): Entries removed by Invalidate
//   - itemcache_cache_entries{cache} (Gauge): Entries currently held, expired or not
//
// Repository Metrics (pkg/repository):
//   - itemcache_repository_operations_total{operation, result} (Counter): CRUD calls (result: ok, not_found)
//   - itemcache_repository_entities (Gauge): Entities currently stored
//
// Read Metrics (pkg/items):
//   - itemcache_reads_total{kind, source} (Counter): Reads by kind (list, item) and source (cache, repository)
//
// Example Prometheus Queries:
//
//   # Cache Hit Rate
//   sum(rate(itemcache_cache_hits_total[5m])) /
//   (sum(rate(itemcache_cache_hits_total[5m])) + sum(rate(itemcache_cache_misses_total[5m])))
//
//   # Share of item reads served by the repository
//   rate(itemcache_reads_total{kind="item",source="repository"}[5m]) /
//   sum(rate(itemcache_reads_total{kind="item"}[5m]))
//
//   # Lookups of unknown ids
//   rate(itemcache_repository_operations_total{result="not_found"}[5m])
