package items

import (
	"fmt"
	"time"

	"github.com/Sternrassler/item-cache/pkg/cache"
)

// Cache key convention.
var (
	// ListKey holds the cached listing of all entities.
	ListKey = cache.Key("items", "list")
)

// itemKeyPrefix namespaces entity keys.
var itemKeyPrefix = cache.Key("item") + cache.KeySeparator

// ItemKey returns the cache key holding a single entity. The id is used
// verbatim, so ids differing only in whitespace or separators never share
// a key.
func ItemKey(id string) string {
	return itemKeyPrefix + id
}

// Config holds cache-aside policy configuration.
type Config struct {
	// ListTTL is how long a cached listing stays valid (0 = no expiry).
	ListTTL time.Duration

	// ItemTTL is how long a cached entity stays valid (0 = no expiry).
	ItemTTL time.Duration

	// Coalesce shares one repository load between concurrent misses on
	// the same key.
	Coalesce bool
}

// DefaultConfig returns the default cache-aside policy.
func DefaultConfig() Config {
	return Config{
		ListTTL: 30 * time.Second,
		ItemTTL: 60 * time.Second,
	}
}

// Validate rejects negative TTLs.
func (c Config) Validate() error {
	if c.ListTTL < 0 {
		return fmt.Errorf("list ttl must be >= 0 (got %s)", c.ListTTL)
	}
	if c.ItemTTL < 0 {
		return fmt.Errorf("item ttl must be >= 0 (got %s)", c.ItemTTL)
	}
	return nil
}
