package ratelimit

import (
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// TranslationBudget caps how many provider requests the translator may make
// per day, shared across the whole provider chain. Cache hits are recorded
// for the hit-rate stats but are never charged against the budget.
type TranslationBudget struct {
	mu          sync.Mutex
	used        int
	max         int
	cacheHits   int
	cacheMisses int
	resetTime   time.Time
}

func NewTranslationBudget(maxPerDay int) *TranslationBudget {
	return &TranslationBudget{
		max:       maxPerDay,
		resetTime: time.Now().Add(24 * time.Hour),
	}
}

// Allow reports whether another provider request fits the budget.
func (b *TranslationBudget) Allow() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.checkReset()

	if b.max > 0 && b.used >= b.max {
		slog.Warn("translation budget reached", "used", b.used, "max", b.max)
		return false
	}
	return true
}

// Use charges one provider request against the budget.
func (b *TranslationBudget) Use() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.checkReset()

	if b.max > 0 && b.used >= b.max {
		return fmt.Errorf("translation budget exceeded (%d/%d)", b.used, b.max)
	}

	b.used++
	b.cacheMisses++
	return nil
}

// RecordCacheHit records a translation served from cache.
func (b *TranslationBudget) RecordCacheHit() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.cacheHits++
}

func (b *TranslationBudget) hitRate() float64 {
	total := b.cacheHits + b.cacheMisses
	if total == 0 {
		return 0
	}
	return float64(b.cacheHits) / float64(total) * 100
}

func (b *TranslationBudget) GetStats() map[string]interface{} {
	b.mu.Lock()
	defer b.mu.Unlock()

	return map[string]interface{}{
		"requests_used":  b.used,
		"requests_limit": b.max,
		"cache_hits":     b.cacheHits,
		"cache_misses":   b.cacheMisses,
		"cache_hit_rate": b.hitRate(),
		"reset_time":     b.resetTime,
	}
}

// checkReset resets counters once the daily window has passed. Caller holds
// the lock.
func (b *TranslationBudget) checkReset() {
	if time.Now().After(b.resetTime) {
		slog.Info("resetting translation budget", "used", b.used, "hit_rate", b.hitRate())
		b.used = 0
		b.cacheHits = 0
		b.cacheMisses = 0
		b.resetTime = time.Now().Add(24 * time.Hour)
	}
}
