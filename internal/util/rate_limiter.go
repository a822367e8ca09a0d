// Package util holds small shared helpers; currently the rate limiter that
// keeps the scraping-provider fallback from hammering third-party hosts.
package util

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

var (
	// DefaultRate is the default minimum time between requests
	DefaultRate = 250 * time.Millisecond
	// DefaultBurst is the default burst size
	DefaultBurst = 4
)

// RateLimiter implements a token bucket with dynamic backoff. Scraping
// providers throttle aggressively, so the limiter widens its interval when a
// rate-limit response is observed and narrows back on ResetRate.
type RateLimiter struct {
	mu           sync.Mutex
	last         time.Time
	rate         time.Duration
	minRate      time.Duration
	maxRate      time.Duration
	tokens       int
	maxTokens    int
	lastRateDrop time.Time
}

// NewRateLimiter creates a RateLimiter with the given minimum interval
// between requests and burst size.
func NewRateLimiter(rate time.Duration, burst int) *RateLimiter {
	if rate <= 0 {
		rate = DefaultRate
	}
	if burst <= 0 {
		burst = DefaultBurst
	}
	return &RateLimiter{
		last:         time.Now(),
		rate:         rate,
		minRate:      rate,
		maxRate:      5 * time.Second,
		tokens:       burst,
		maxTokens:    burst,
		lastRateDrop: time.Now(),
	}
}

// Wait blocks until a token is available or the context is cancelled.
func (r *RateLimiter) Wait(ctx context.Context) error {
	r.mu.Lock()

	now := time.Now()
	delta := now.Sub(r.last)
	newTokens := int(float64(delta) / float64(r.rate))
	if newTokens > 0 {
		r.tokens += newTokens
		if r.tokens > r.maxTokens {
			r.tokens = r.maxTokens
		}
		r.last = now
	}

	if r.tokens > 0 {
		r.tokens--
		r.mu.Unlock()
		return nil
	}

	// Jitter up to 20% of the interval so parallel fallback searches don't
	// fire in lockstep.
	waitTime := r.rate + time.Duration(rand.Float64()*0.2*float64(r.rate))
	next := r.last.Add(waitTime)
	r.mu.Unlock()

	timer := time.NewTimer(time.Until(next))
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		r.mu.Lock()
		r.last = next
		r.tokens = 0
		r.mu.Unlock()
		return nil
	}
}

// OnRateLimit widens the interval after an upstream rate-limit response and
// returns the time to wait before retrying.
func (r *RateLimiter) OnRateLimit(retryAfter time.Duration) time.Duration {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	if now.Sub(r.lastRateDrop) < 5*time.Minute {
		r.rate = time.Duration(1.5 * float64(r.rate))
	} else {
		r.rate = time.Duration(1.2 * float64(r.rate))
	}
	if r.rate > r.maxRate {
		r.rate = r.maxRate
	}
	r.lastRateDrop = now

	log.Warn().
		Dur("new_rate", r.rate).
		Dur("retry_after", retryAfter).
		Msg("Rate limited, increasing delay between requests")

	if retryAfter > r.rate {
		return retryAfter
	}
	return r.rate
}

// ResetRate restores the minimum interval.
func (r *RateLimiter) ResetRate() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rate = r.minRate
	r.lastRateDrop = time.Now()
}

// GetRate returns the current interval.
func (r *RateLimiter) GetRate() time.Duration {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rate
}
