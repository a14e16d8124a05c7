package cache

import (
	"context"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/Sternrassler/item-cache/pkg/logging"
)

// DefaultName labels metrics and logs of caches created without a name.
const DefaultName = "default"

// Clock supplies the current instant used for expiry arithmetic.
type Clock interface {
	Now() time.Time
}

// systemClock reads time.Now, whose monotonic reading keeps After/Sub
// correct across wall-clock steps.
type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// Config holds cache configuration.
type Config[V any] struct {
	// Name labels metrics and logs (default: DefaultName).
	Name string

	// Clone copies a value when it enters or leaves the cache.
	// Nil means values are copied by plain assignment, which is only
	// an independent copy for value types without shared references.
	Clone func(V) V

	// CleanupInterval enables the janitor when > 0. Lazy expiry on Get
	// applies regardless.
	CleanupInterval time.Duration

	// Clock overrides the time source (default: time.Now).
	Clock Clock

	// Logger overrides the component logger.
	Logger *zerolog.Logger
}

// Cache is a concurrency-safe in-memory key/value cache with per-entry TTL.
//
// The zero value is not usable; create caches with New. A Cache owns its
// janitor goroutine, if any. Call Close to stop it.
type Cache[V any] struct {
	mu    sync.Mutex
	items map[string]entry[V]

	name   string
	clone  func(V) V
	clock  Clock
	logger zerolog.Logger

	hits           prometheus.Counter
	misses         prometheus.Counter
	lazyExpired    prometheus.Counter
	janitorExpired prometheus.Counter
	invalidations  prometheus.Counter
	entries        prometheus.Gauge

	// Janitor ownership.
	cancel    context.CancelFunc
	wg        sync.WaitGroup
	closeOnce sync.Once
}

// New creates a cache and starts the janitor if cfg.CleanupInterval > 0.
//
// New never returns a nil Cache.
func New[V any](cfg Config[V]) *Cache[V] {
	name := cfg.Name
	if name == "" {
		name = DefaultName
	}

	clone := cfg.Clone
	if clone == nil {
		clone = func(v V) V { return v }
	}

	var clock Clock = systemClock{}
	if cfg.Clock != nil {
		clock = cfg.Clock
	}

	logger := logging.NewLogger("cache").With().Str("cache", name).Logger()
	if cfg.Logger != nil {
		logger = cfg.Logger.With().Str("cache", name).Logger()
	}

	c := &Cache[V]{
		items:          make(map[string]entry[V]),
		name:           name,
		clone:          clone,
		clock:          clock,
		logger:         logger,
		hits:           CacheHits.WithLabelValues(name),
		misses:         CacheMisses.WithLabelValues(name),
		lazyExpired:    CacheExpirations.WithLabelValues(name, expiryReasonLazy),
		janitorExpired: CacheExpirations.WithLabelValues(name, expiryReasonJanitor),
		invalidations:  CacheInvalidations.WithLabelValues(name),
		entries:        CacheEntries.WithLabelValues(name),
	}
	c.entries.Set(0)

	if cfg.CleanupInterval > 0 {
		ctx, cancel := context.WithCancel(context.Background())
		c.cancel = cancel
		c.wg.Add(1)
		go c.janitor(ctx, cfg.CleanupInterval)
	}

	return c
}

// Name returns the cache name used in metrics and logs.
func (c *Cache[V]) Name() string {
	return c.name
}

// Set stores a copy of value under key, overwriting any existing entry.
//
// ttl semantics:
//   - ttl > 0: the entry expires at now+ttl
//   - ttl <= 0: the entry never expires
func (c *Cache[V]) Set(key string, value V, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items[key] = newEntry(c.clone(value), c.clock.Now(), ttl)
	c.entries.Set(float64(len(c.items)))

	c.logger.Debug().Str("key", key).Dur("ttl", ttl).Msg("cache set")
}

// Get returns a copy of the value stored under key.
//
// It performs lazy expiration: an entry found past its expiry is removed and
// reported as a miss.
func (c *Cache[V]) Get(key string) (V, bool) {
	var zero V

	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.items[key]
	if !ok {
		c.misses.Inc()
		c.logger.Debug().Str("key", key).Msg("cache miss")
		return zero, false
	}

	if e.isExpired(c.clock.Now()) {
		delete(c.items, key)
		c.entries.Set(float64(len(c.items)))
		c.lazyExpired.Inc()
		c.misses.Inc()
		c.logger.Debug().Str("key", key).Msg("cache entry expired")
		return zero, false
	}

	c.hits.Inc()
	c.logger.Debug().Str("key", key).Msg("cache hit")
	return c.clone(e.value), true
}

// TTL returns the remaining lifetime of the entry under key.
// The boolean is false when the key is absent or expired. A live entry
// without expiry reports (0, true).
func (c *Cache[V]) TTL(key string) (time.Duration, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.items[key]
	if !ok {
		return 0, false
	}
	now := c.clock.Now()
	if e.isExpired(now) {
		return 0, false
	}
	return e.ttl(now), true
}

// Invalidate removes the entry under key. Absent keys are a no-op.
func (c *Cache[V]) Invalidate(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.items[key]; !ok {
		return
	}
	delete(c.items, key)
	c.entries.Set(float64(len(c.items)))
	c.invalidations.Inc()

	c.logger.Debug().Str("key", key).Msg("cache invalidate")
}

// Clear removes all entries.
func (c *Cache[V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	n := len(c.items)
	c.items = make(map[string]entry[V])
	c.entries.Set(0)

	c.logger.Debug().Int("removed", n).Msg("cache cleared")
}

// Len returns the number of stored entries.
//
// Len includes entries that have expired but have not been removed yet.
func (c *Cache[V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

// DeleteExpired removes every entry already past its expiry and returns how
// many were removed. Live entries are never touched.
func (c *Cache[V]) DeleteExpired() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.deleteExpiredLocked()
}

// deleteExpiredLocked is O(n) over all entries.
func (c *Cache[V]) deleteExpiredLocked() int {
	now := c.clock.Now()
	removed := 0
	for key, e := range c.items {
		if e.isExpired(now) {
			delete(c.items, key)
			removed++
		}
	}
	if removed > 0 {
		c.entries.Set(float64(len(c.items)))
		c.janitorExpired.Add(float64(removed))
	}
	return removed
}

// Close stops the janitor, if running. The cache stays usable afterwards
// with lazy expiry only.
//
// Close is safe to call multiple times.
func (c *Cache[V]) Close() error {
	c.closeOnce.Do(func() {
		if c.cancel != nil {
			c.cancel()
		}
		c.wg.Wait()
	})
	return nil
}
