package resilience

import (
	"context"
	"sync"
	"time"
)

// RateLimiterConfig configures the rate limiter.
type RateLimiterConfig struct {
	// Limit is the number of calls allowed per period. It is also the burst.
	// Default: 6
	Limit int

	// Per is the period Limit applies to.
	// Default: 1 minute
	Per time.Duration

	// Now returns the current time. Default: time.Now
	Now func() time.Time
}

// RateLimiter is a token bucket that refills Limit tokens every Per.
type RateLimiter struct {
	config RateLimiterConfig

	mu         sync.Mutex
	tokens     float64
	refilledAt time.Time
}

// NewRateLimiter creates a new rate limiter with a full bucket.
func NewRateLimiter(config RateLimiterConfig) *RateLimiter {
	if config.Limit <= 0 {
		config.Limit = 6
	}
	if config.Per <= 0 {
		config.Per = time.Minute
	}
	if config.Now == nil {
		config.Now = time.Now
	}
	return &RateLimiter{
		config:     config,
		tokens:     float64(config.Limit),
		refilledAt: config.Now(),
	}
}

// Allow takes one token if available.
func (rl *RateLimiter) Allow() bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	rl.refillLocked()
	if rl.tokens < 1 {
		return false
	}
	rl.tokens--
	return true
}

// Execute runs op if a token is available, else returns ErrRateLimited.
func (rl *RateLimiter) Execute(ctx context.Context, op func(context.Context) error) error {
	if !rl.Allow() {
		return ErrRateLimited
	}
	return op(ctx)
}

// Tokens returns the number of calls currently available.
func (rl *RateLimiter) Tokens() float64 {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	rl.refillLocked()
	return rl.tokens
}

// Reset refills the bucket.
func (rl *RateLimiter) Reset() {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	rl.tokens = float64(rl.config.Limit)
	rl.refilledAt = rl.config.Now()
}

func (rl *RateLimiter) refillLocked() {
	now := rl.config.Now()
	elapsed := now.Sub(rl.refilledAt)
	if elapsed <= 0 {
		return
	}
	rl.refilledAt = now

	perToken := rl.config.Per.Seconds() / float64(rl.config.Limit)
	rl.tokens += elapsed.Seconds() / perToken
	if limit := float64(rl.config.Limit); rl.tokens > limit {
		rl.tokens = limit
	}
}
