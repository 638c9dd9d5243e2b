package config

import (
	"testing"
	"time"

	qt "github.com/frankban/quicktest"
)

func TestLoadCacheConfigDefaults(t *testing.T) {
	c := qt.New(t)

	cfg := LoadCacheConfig()
	c.Assert(cfg.Enabled, qt.IsTrue)
	c.Assert(cfg.TTL, qt.Equals, 30*time.Second)
	c.Assert(cfg.Prefix, qt.Equals, "cache")
	c.Assert(cfg.MaxBodyBytes, qt.Equals, 1<<20)
}

func TestLoadCacheConfigFromEnv(t *testing.T) {
	c := qt.New(t)

	t.Setenv("CACHE_ENABLED", "false")
	t.Setenv("CACHE_TTL", "2m")
	t.Setenv("CACHE_PREFIX", "filmcache")
	t.Setenv("CACHE_MAX_BODY_BYTES", "2048")

	cfg := LoadCacheConfig()
	c.Assert(cfg.Enabled, qt.IsFalse)
	c.Assert(cfg.TTL, qt.Equals, 2*time.Minute)
	c.Assert(cfg.Prefix, qt.Equals, "filmcache")
	c.Assert(cfg.MaxBodyBytes, qt.Equals, 2048)
}

func TestLoadCacheConfigIgnoresGarbage(t *testing.T) {
	c := qt.New(t)

	t.Setenv("CACHE_TTL", "soon")
	t.Setenv("CACHE_MAX_BODY_BYTES", "lots")
	t.Setenv("CACHE_ENABLED", "maybe")

	cfg := LoadCacheConfig()
	c.Assert(cfg.TTL, qt.Equals, 30*time.Second)
	c.Assert(cfg.MaxBodyBytes, qt.Equals, 1<<20)
	c.Assert(cfg.Enabled, qt.IsTrue)
}

func TestLoadRateLimitConfigClamps(t *testing.T) {
	c := qt.New(t)

	t.Setenv("RATE_LIMIT_CAPACITY", "0")
	t.Setenv("RATE_LIMIT_REFILL_TOKENS", "-3")
	t.Setenv("RATE_LIMIT_REFILL_INTERVAL", "0s")
	t.Setenv("RATE_LIMIT_TTL", "1s")

	cfg := LoadRateLimitConfig()
	c.Assert(cfg.Capacity, qt.Equals, 1)
	c.Assert(cfg.RefillTokens, qt.Equals, 1)
	c.Assert(cfg.RefillInterval, qt.Equals, time.Second)

	// The TTL is raised so a bucket outlives a few refill cycles.
	c.Assert(cfg.TTL, qt.Equals, 5*time.Second)
}

func TestLoadRateLimitConfigDefaults(t *testing.T) {
	c := qt.New(t)

	cfg := LoadRateLimitConfig()
	c.Assert(cfg.Capacity, qt.Equals, 60)
	c.Assert(cfg.RefillTokens, qt.Equals, 1)
	c.Assert(cfg.RefillInterval, qt.Equals, time.Second)
	c.Assert(cfg.TTL, qt.Equals, 10*time.Minute)
	c.Assert(cfg.Prefix, qt.Equals, "rl")
}
