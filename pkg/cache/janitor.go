package cache

import (
	"context"
	"time"
)

// janitor removes expired entries every tick until ctx is canceled.
func (c *Cache[V]) janitor(ctx context.Context, every time.Duration) {
	defer c.wg.Done()

	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := c.DeleteExpired(); n > 0 {
				c.logger.Debug().Int("removed", n).Msg("janitor removed expired entries")
			}
		}
	}
}
