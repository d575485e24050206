// Package ratelimit provides token bucket and sliding window rate
// limiters used to throttle API traffic and cap per-session form
// submissions.
package ratelimit

import (
	"sync"
	"time"
)

// Limiter implements a token bucket rate limiter. It is safe for
// concurrent use.
//
// Tokens refill at a constant rate up to a burst capacity; each request
// consumes one token.
type Limiter struct {
	mu         sync.Mutex
	tokens     float64
	maxTokens  float64
	refillRate float64 // tokens per second
	lastRefill time.Time
}

// New creates a token bucket with the given burst capacity and refill
// rate in tokens per second.
func New(maxTokens, refillRate float64) *Limiter {
	return &Limiter{
		tokens:     maxTokens,
		maxTokens:  maxTokens,
		refillRate: refillRate,
		lastRefill: time.Now(),
	}
}

// refill adds tokens based on elapsed time. Must be called with mu held.
func (l *Limiter) refill() {
	now := time.Now()
	elapsed := now.Sub(l.lastRefill).Seconds()

	l.tokens += elapsed * l.refillRate
	if l.tokens > l.maxTokens {
		l.tokens = l.maxTokens
	}
	l.lastRefill = now
}

// Allow reports whether a request is allowed, consuming a token if so.
func (l *Limiter) Allow() bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.refill()

	if l.tokens >= 1.0 {
		l.tokens -= 1.0
		return true
	}

	return false
}

// Check reports whether a request would be allowed without consuming.
// For atomic check-then-consume across multiple limiters the caller
// must hold an external lock covering both Check and Consume.
func (l *Limiter) Check() bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.refill()
	return l.tokens >= 1.0
}

// Consume decrements a token. Call after all limit checks pass.
func (l *Limiter) Consume() {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.refill()
	if l.tokens >= 1.0 {
		l.tokens -= 1.0
	}
}

// Available returns the current number of available tokens.
func (l *Limiter) Available() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.refill()
	return l.tokens
}

// IsFull reports whether the bucket is at capacity. A full bucket
// means the key has been idle and its limiter can be dropped.
func (l *Limiter) IsFull() bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.refill()
	return l.tokens >= l.maxTokens
}

// Reset restores the limiter to full capacity.
func (l *Limiter) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.tokens = l.maxTokens
	l.lastRefill = time.Now()
}
