// Package testutil provides testing utilities for the item cache.
package testutil

import (
	"sync"
	"time"
)

// FakeClock is a manually advanced clock for deterministic expiry tests.
// It starts at the real current instant so its readings keep a monotonic
// component, and only moves when Advance is called.
type FakeClock struct {
	mu  sync.Mutex
	now time.Time

	// Tracking
	Calls int
}

// NewFakeClock creates a clock frozen at the current instant.
func NewFakeClock() *FakeClock {
	return &FakeClock{now: time.Now()}
}

// Now returns the current fake instant.
func (c *FakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Calls++
	return c.now
}

// Advance moves the clock forward by d.
func (c *FakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}
