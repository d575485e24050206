package ratelimit

import (
	"sync"
	"time"

	"github.com/fayzdev/fayz-go/internal/metrics"
)

// KeyedConfig configures a KeyedLimiter.
type KeyedConfig struct {
	// Name identifies this limiter in metrics (e.g. "session", "form")
	Name string

	// Token bucket settings
	Burst      float64
	RefillRate float64 // tokens per second

	// Optional rolling 24h cap per key (0 = disabled)
	DailyLimit int

	// How often idle per-key limiters are removed
	CleanupPeriod time.Duration

	// Optional metrics reporter
	Metrics *metrics.Metrics
}

// KeyedLimiter tracks rate limits per key, typically a session ID. Each
// key gets its own token bucket plus an optional sliding window daily
// cap; idle entries are cleaned up on a timer.
type KeyedLimiter struct {
	mu      sync.RWMutex
	entries map[string]*keyedEntry
	config  KeyedConfig
	onDrop  func()
	stopCh  chan struct{}
}

// keyedEntry holds per-key state. The entry mutex makes the combined
// bucket-plus-daily check atomic.
type keyedEntry struct {
	mu      sync.Mutex
	limiter *Limiter
	daily   *SlidingWindowCounter
}

// NewKeyedLimiter creates a per-key rate limiter. Call Stop when done
// to release the cleanup goroutine.
func NewKeyedLimiter(cfg KeyedConfig) *KeyedLimiter {
	kl := &KeyedLimiter{
		entries: make(map[string]*keyedEntry),
		config:  cfg,
		stopCh:  make(chan struct{}),
	}

	if cfg.Metrics != nil {
		kl.onDrop = func() {
			cfg.Metrics.RecordRateLimiterDrop(cfg.Name)
		}
	}

	go kl.cleanupLoop()

	return kl
}

// Allow reports whether a request for the key is allowed, consuming
// quota if so. An empty key is never limited. When a daily cap is
// configured both the bucket and the cap must pass.
func (kl *KeyedLimiter) Allow(key string) bool {
	if key == "" {
		return true
	}

	entry := kl.getOrCreateEntry(key)

	entry.mu.Lock()
	defer entry.mu.Unlock()

	if entry.daily != nil && !entry.daily.Check() {
		if kl.onDrop != nil {
			kl.onDrop()
		}
		return false
	}

	if !entry.limiter.Check() {
		if kl.onDrop != nil {
			kl.onDrop()
		}
		return false
	}

	if entry.daily != nil {
		entry.daily.Consume()
	}
	entry.limiter.Consume()

	return true
}

func (kl *KeyedLimiter) getOrCreateEntry(key string) *keyedEntry {
	kl.mu.RLock()
	entry, exists := kl.entries[key]
	kl.mu.RUnlock()

	if exists {
		return entry
	}

	kl.mu.Lock()
	defer kl.mu.Unlock()

	entry, exists = kl.entries[key]
	if exists {
		return entry
	}

	entry = &keyedEntry{
		limiter: New(kl.config.Burst, kl.config.RefillRate),
		daily:   NewSlidingWindowCounter(kl.config.DailyLimit, 24*time.Hour),
	}
	kl.entries[key] = entry
	return entry
}

// GetAvailable returns the available tokens for a key, or Burst when
// the key has no limiter yet.
func (kl *KeyedLimiter) GetAvailable(key string) float64 {
	if key == "" {
		return kl.config.Burst
	}

	kl.mu.RLock()
	entry, exists := kl.entries[key]
	kl.mu.RUnlock()

	if !exists {
		return kl.config.Burst
	}

	return entry.limiter.Available()
}

// GetDailyRemaining returns the remaining daily quota for a key.
// Returns -1 when the daily cap is disabled.
func (kl *KeyedLimiter) GetDailyRemaining(key string) int {
	if kl.config.DailyLimit <= 0 {
		return -1
	}

	kl.mu.RLock()
	entry, exists := kl.entries[key]
	kl.mu.RUnlock()

	if !exists {
		return kl.config.DailyLimit
	}

	return entry.daily.GetRemaining()
}

// GetActiveCount returns the number of tracked keys.
func (kl *KeyedLimiter) GetActiveCount() int {
	kl.mu.RLock()
	defer kl.mu.RUnlock()
	return len(kl.entries)
}

func (kl *KeyedLimiter) cleanupLoop() {
	ticker := time.NewTicker(kl.config.CleanupPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-kl.stopCh:
			return
		case <-ticker.C:
			kl.mu.Lock()
			for key, entry := range kl.entries {
				// A full bucket means the key has been idle
				if entry.limiter.IsFull() {
					delete(kl.entries, key)
				}
			}
			kl.mu.Unlock()
		}
	}
}

// Stop terminates the cleanup goroutine. Safe to call multiple times.
func (kl *KeyedLimiter) Stop() {
	select {
	case <-kl.stopCh:
	default:
		close(kl.stopCh)
	}
}
