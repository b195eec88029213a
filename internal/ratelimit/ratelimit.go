// Package ratelimit throttles unauthenticated callers with fixed windows.
package ratelimit

import (
	"sync"
	"time"
)

// Limiter reports whether one more request under key fits in the current window.
type Limiter interface {
	Allow(key string) bool
}

// MemoryLimiter is a single-process fixed-window limiter for deployments
// without redis.
type MemoryLimiter struct {
	mu      sync.Mutex
	limit   int
	window  time.Duration
	now     func() time.Time
	buckets map[string]*bucket
}

type bucket struct {
	count     int
	windowEnd time.Time
}

func NewMemoryLimiter(limit int, window time.Duration) *MemoryLimiter {
	return &MemoryLimiter{
		limit:   limit,
		window:  window,
		now:     time.Now,
		buckets: make(map[string]*bucket),
	}
}

func (l *MemoryLimiter) Allow(key string) bool {
	if l.limit <= 0 || l.window <= 0 || key == "" {
		return true
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	now := l.now()
	b, ok := l.buckets[key]
	if !ok || !now.Before(b.windowEnd) {
		l.buckets[key] = &bucket{count: 1, windowEnd: now.Add(l.window)}
		l.sweep(now)
		return true
	}
	if b.count >= l.limit {
		return false
	}
	b.count++
	return true
}

// sweep drops expired buckets once the map grows.
func (l *MemoryLimiter) sweep(now time.Time) {
	if len(l.buckets) < 1024 {
		return
	}
	for k, b := range l.buckets {
		if !now.Before(b.windowEnd) {
			delete(l.buckets, k)
		}
	}
}
