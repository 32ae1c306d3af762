package ratelimit

import (
	"context"
	"sync"
	"time"
)

const sweepInterval = 5 * time.Minute

type windowState struct {
	count     int
	windowEnd time.Time
}

// MemoryLimiter is a single-process limiter used when Redis is not configured
type MemoryLimiter struct {
	maxRequests int
	window      time.Duration
	now         func() time.Time

	mu      sync.Mutex
	entries map[string]windowState

	stopCh chan struct{}
	once   sync.Once
}

func NewMemoryLimiter(maxRequests int, window time.Duration) *MemoryLimiter {
	l := &MemoryLimiter{
		maxRequests: maxRequests,
		window:      window,
		now:         time.Now,
		entries:     make(map[string]windowState),
		stopCh:      make(chan struct{}),
	}
	go l.sweepLoop()
	return l
}

func (l *MemoryLimiter) CheckIPRateLimitWithPurpose(_ context.Context, ip, purpose string) (bool, error) {
	if l.maxRequests <= 0 {
		return false, nil
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	state, ok := l.entries[ipKey(ip, purpose)]
	if !ok || !l.now().Before(state.windowEnd) {
		return false, nil
	}
	return state.count >= l.maxRequests, nil
}

func (l *MemoryLimiter) RecordIPRequestWithPurpose(_ context.Context, ip, purpose string) error {
	key := ipKey(ip, purpose)
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	state, ok := l.entries[key]
	if !ok || !now.Before(state.windowEnd) {
		state = windowState{windowEnd: now.Add(l.window)}
	}
	state.count++
	l.entries[key] = state
	return nil
}

func (l *MemoryLimiter) sweepLoop() {
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			l.cleanup(l.now())
		case <-l.stopCh:
			return
		}
	}
}

func (l *MemoryLimiter) cleanup(now time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for key, state := range l.entries {
		if !now.Before(state.windowEnd) {
			delete(l.entries, key)
		}
	}
}

// Close stops the background sweeper
func (l *MemoryLimiter) Close() {
	l.once.Do(func() {
		close(l.stopCh)
	})
}
