package cache

import (
	"log/slog"
	"time"
)

// New selects a cache backend. When redisURL is set and reachable, the
// cache is shared through Redis; otherwise it falls back to memory.
func New(redisURL, prefix string, defaultTTL time.Duration) Cache {
	if redisURL != "" {
		rc, err := NewRedisCache(RedisCacheOptions{
			URL:        redisURL,
			Prefix:     prefix,
			DefaultTTL: defaultTTL,
		})
		if err == nil {
			slog.Info("cache initialized", "backend", "redis")
			return rc
		}
		slog.Warn("cache initialized", "backend", "memory", "note", "Redis unavailable, using fallback", "error", err)
		return NewMemoryCache(defaultTTL)
	}

	slog.Info("cache initialized", "backend", "memory")
	return NewMemoryCache(defaultTTL)
}
