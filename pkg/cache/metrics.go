package cache

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// CacheHits tracks cache hits by cache name
	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "itemcache_cache_hits_total",
			Help: "Total number of cache hits",
		},
		[]string{"cache"},
	)

	// CacheMisses tracks cache misses, including lazily expired entries
	CacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "itemcache_cache_misses_total",
			Help: "Total number of cache misses",
		},
		[]string{"cache"},
	)

	// CacheExpirations tracks entries removed because their TTL elapsed
	CacheExpirations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "itemcache_cache_expirations_total",
			Help: "Total number of expired cache entries removed",
		},
		[]string{"cache", "reason"}, // "lazy", "janitor"
	)

	// CacheInvalidations tracks explicit removals of present keys
	CacheInvalidations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "itemcache_cache_invalidations_total",
			Help: "Total number of cache entries removed by invalidation",
		},
		[]string{"cache"},
	)

	// CacheEntries tracks the current number of stored entries, expired or not
	CacheEntries = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "itemcache_cache_entries",
			Help: "Current number of entries held by the cache",
		},
		[]string{"cache"},
	)
)

const (
	expiryReasonLazy    = "lazy"
	expiryReasonJanitor = "janitor"
)
