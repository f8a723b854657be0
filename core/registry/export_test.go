package registry

import "time"

// SetCacheClock replaces the clock used for TTL checks.
func SetCacheClock(c *Cache, now func() time.Time) {
	c.now = now
}
