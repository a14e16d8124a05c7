package cache

import "time"

// entry is a stored value with its optional expiry instant.
// hasExpiry=false means the entry never expires.
type entry[V any] struct {
	value     V
	expiresAt time.Time
	hasExpiry bool
}

func newEntry[V any](value V, now time.Time, ttl time.Duration) entry[V] {
	e := entry[V]{value: value}
	if ttl > 0 {
		e.hasExpiry = true
		e.expiresAt = now.Add(ttl)
	}
	return e
}

// isExpired reports whether now is strictly after the expiry instant.
func (e entry[V]) isExpired(now time.Time) bool {
	return e.hasExpiry && now.After(e.expiresAt)
}

// ttl returns the time until expiration.
// Returns 0 if already expired or if the entry never expires.
func (e entry[V]) ttl(now time.Time) time.Duration {
	if !e.hasExpiry {
		return 0
	}
	ttl := e.expiresAt.Sub(now)
	if ttl < 0 {
		return 0
	}
	return ttl
}
