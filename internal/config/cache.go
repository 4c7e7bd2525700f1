package config

import (
	"strings"
	"time"
)

// CacheConfig defines settings for the catalog response cache.  When Enabled
// is false or no Redis client is available, caching is skipped.  Only GET
// responses of routes marked cacheable are stored.  TTL bounds how long a
// stale listing can be served after a write that bypassed invalidation.
type CacheConfig struct {
	Enabled      bool
	TTL          time.Duration
	KeyStrategy  string // "route" or "route_query"
	Prefix       string
	MaxBodyBytes int
}

// LoadCacheConfig reads CACHE_* variables, applying defaults when unset.
func LoadCacheConfig() CacheConfig {
	cfg := CacheConfig{
		Enabled:      envBool("CACHE_ENABLED", true),
		TTL:          envDur("CACHE_TTL", 30*time.Second),
		KeyStrategy:  strings.ToLower(envStr("CACHE_KEY_STRATEGY", "route_query")),
		Prefix:       envStr("CACHE_PREFIX", "meals-cache"),
		MaxBodyBytes: envInt("CACHE_MAX_BODY_BYTES", 1<<20),
	}
	if cfg.TTL <= 0 {
		cfg.TTL = 30 * time.Second
	}
	return cfg
}
