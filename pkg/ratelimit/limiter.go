// Package ratelimit bounds outbound request rates per evidence source so the
// orchestrator never overwhelms upstream providers.
package ratelimit

import (
	"context"
	"sync"

	"golang.org/x/time/rate"
)

// Config holds per-key rate limiting settings.
type Config struct {
	Enabled           bool `json:"enabled" env:"PREGAME_RATE_LIMIT_ENABLED"`
	RequestsPerMinute int  `json:"requests_per_minute" env:"PREGAME_RATE_LIMIT_REQUESTS_PER_MINUTE"`
	Burst             int  `json:"burst" env:"PREGAME_RATE_LIMIT_BURST"`
}

// DefaultConfig allows 60 requests per minute with a small burst.
func DefaultConfig() Config {
	return Config{
		Enabled:           true,
		RequestsPerMinute: 60,
		Burst:             5,
	}
}

// Limiter maintains one token bucket per key (evidence source, API host).
type Limiter struct {
	config  Config
	mu      sync.Mutex
	buckets map[string]*rate.Limiter
}

// NewLimiter creates a limiter with the given configuration.
func NewLimiter(config Config) *Limiter {
	if config.RequestsPerMinute <= 0 {
		config.RequestsPerMinute = DefaultConfig().RequestsPerMinute
	}
	if config.Burst <= 0 {
		config.Burst = 1
	}
	return &Limiter{
		config:  config,
		buckets: make(map[string]*rate.Limiter),
	}
}

func (l *Limiter) bucket(key string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()
	b, ok := l.buckets[key]
	if !ok {
		b = rate.NewLimiter(rate.Limit(float64(l.config.RequestsPerMinute)/60.0), l.config.Burst)
		l.buckets[key] = b
	}
	return b
}

// Wait blocks until a token is available for key or the context is cancelled.
func (l *Limiter) Wait(ctx context.Context, key string) error {
	if !l.config.Enabled {
		return nil
	}
	return l.bucket(key).Wait(ctx)
}

// Allow reports whether a request for key may proceed without waiting.
func (l *Limiter) Allow(key string) bool {
	if !l.config.Enabled {
		return true
	}
	return l.bucket(key).Allow()
}
