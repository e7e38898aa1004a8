package config

import (
    "os"
    "strconv"
    "strings"
    "time"
)

// RateLimitConfig controls the Redis token bucket applied to the login
// endpoints.  Buckets are keyed by client IP to slow down credential
// guessing; authenticated routes are not limited.
type RateLimitConfig struct {
    Enabled        bool
    Capacity       int
    RefillTokens   int
    RefillInterval time.Duration
    TTL            time.Duration
    Prefix         string
}

// LoadRateLimit reads the rate-limit settings from the environment.  When
// RATE_LIMIT_ENABLED is unset or false the middleware becomes a no-op.
func LoadRateLimit() RateLimitConfig {
    return RateLimitConfig{
        Enabled:        envBool("RATE_LIMIT_ENABLED", false),
        Capacity:       envInt("RATE_LIMIT_CAPACITY", 10),
        RefillTokens:   envInt("RATE_LIMIT_REFILL_TOKENS", 1),
        RefillInterval: envDuration("RATE_LIMIT_REFILL_INTERVAL", 6*time.Second),
        TTL:            envDuration("RATE_LIMIT_TTL", 10*time.Minute),
        Prefix:         envOr("RATE_LIMIT_PREFIX", "rl:login"),
    }
}

func envBool(key string, fallback bool) bool {
    v := os.Getenv(key)
    if v == "" {
        return fallback
    }
    return strings.EqualFold(v, "true") || v == "1"
}

func envInt(key string, fallback int) int {
    if v := os.Getenv(key); v != "" {
        if n, err := strconv.Atoi(v); err == nil {
            return n
        }
    }
    return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
    if v := os.Getenv(key); v != "" {
        if d, err := time.ParseDuration(v); err == nil {
            return d
        }
    }
    return fallback
}
