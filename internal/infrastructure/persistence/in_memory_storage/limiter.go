// internal/infrastructure/persistence/in_memory_storage/limiter.go
package storage

import (
	"context"
	"sync"
	"time"
)

type counter struct {
	count     int
	expiresAt time.Time
}

// RateLimiter счетчики запросов в памяти процесса, когда Redis отключен
type RateLimiter struct {
	mu          sync.Mutex
	counters    map[string]*counter
	now         func() time.Time
	lastCleanup time.Time
}

// NewRateLimiter создает счетчики запросов в памяти
func NewRateLimiter() *RateLimiter {
	return &RateLimiter{
		counters: make(map[string]*counter),
		now:      time.Now,
	}
}

// CheckRateLimit увеличивает счетчик key и проверяет лимит в окне window
func (l *RateLimiter) CheckRateLimit(_ context.Context, key string, limit int, window time.Duration) (bool, int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	l.cleanup(now)

	c, ok := l.counters[key]
	if !ok || !now.Before(c.expiresAt) {
		c = &counter{expiresAt: now.Add(window)}
		l.counters[key] = c
	}
	c.count++
	return c.count <= limit, c.count, nil
}

// cleanup удаляет истекшие счетчики не чаще раза в минуту
func (l *RateLimiter) cleanup(now time.Time) {
	if now.Sub(l.lastCleanup) < time.Minute {
		return
	}
	for key, c := range l.counters {
		if !now.Before(c.expiresAt) {
			delete(l.counters, key)
		}
	}
	l.lastCleanup = now
}
