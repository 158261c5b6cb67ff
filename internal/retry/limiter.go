package retry

import (
	"context"

	"golang.org/x/time/rate"
)

// LimiterConfig holds rate limiting configuration for completion calls.
type LimiterConfig struct {
	// RequestsPerSecond is the sustained rate limit.
	RequestsPerSecond float64
	// BurstSize is the maximum burst size.
	BurstSize int
}

// DefaultLimiterConfig keeps completion traffic well below typical provider
// quotas so retries are a rarity rather than the norm.
var DefaultLimiterConfig = LimiterConfig{RequestsPerSecond: 2.0, BurstSize: 4}

// Limiter throttles completion-service requests with a token bucket.
// A nil *Limiter never blocks, so components can treat it as optional.
type Limiter struct {
	limiter *rate.Limiter
}

// NewLimiter creates a limiter from cfg, applying defaults for zero values.
func NewLimiter(cfg LimiterConfig) *Limiter {
	if cfg.RequestsPerSecond <= 0 {
		cfg.RequestsPerSecond = DefaultLimiterConfig.RequestsPerSecond
	}
	if cfg.BurstSize <= 0 {
		cfg.BurstSize = DefaultLimiterConfig.BurstSize
	}
	return &Limiter{
		limiter: rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.BurstSize),
	}
}

// Wait blocks until a request may proceed or ctx is cancelled.
func (l *Limiter) Wait(ctx context.Context) error {
	if l == nil || l.limiter == nil {
		return nil
	}
	return l.limiter.Wait(ctx)
}
