package registry

import "time"

// Config holds registry settings.
type Config struct {
	// KeyScheme is "composite" (materialId+model) or "single" (materialId).
	KeyScheme string `mapstructure:"key_scheme" default:"composite"`
	// CacheTTLSeconds is how long a full registry snapshot stays fresh.
	CacheTTLSeconds int `mapstructure:"cache_ttl_seconds" default:"300"`
}

// DefaultCacheTTL is used when CacheTTLSeconds is not positive.
const DefaultCacheTTL = 300 * time.Second

// CacheTTL returns the configured TTL as a duration.
func (c Config) CacheTTL() time.Duration {
	if c.CacheTTLSeconds <= 0 {
		return DefaultCacheTTL
	}
	return time.Duration(c.CacheTTLSeconds) * time.Second
}
