package portfolio

import (
	"sync"
	"time"
)

// RateLimiter counts events per key (client IP) inside a sliding window.
type RateLimiter struct {
	mu     sync.Mutex
	hits   map[string][]time.Time
	max    int
	window time.Duration
	now    func() time.Time

	done     chan struct{}
	stopOnce sync.Once
}

// NewRateLimiter creates a RateLimiter that allows max events per window.
// A background goroutine drops stale keys until Stop is called.
func NewRateLimiter(max int, window time.Duration) *RateLimiter {
	l := &RateLimiter{
		hits:   make(map[string][]time.Time),
		max:    max,
		window: window,
		now:    time.Now,
		done:   make(chan struct{}),
	}
	go l.cleanup()
	return l
}

func (l *RateLimiter) cleanup() {
	ticker := time.NewTicker(l.window)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			l.mu.Lock()
			for key := range l.hits {
				l.trimLocked(key)
			}
			l.mu.Unlock()
		case <-l.done:
			return
		}
	}
}

// trimLocked drops hits older than the window and returns the remaining count.
func (l *RateLimiter) trimLocked(key string) int {
	cutoff := l.now().Add(-l.window)
	hits := l.hits[key]
	kept := hits[:0]
	for _, t := range hits {
		if t.After(cutoff) {
			kept = append(kept, t)
		}
	}
	if len(kept) == 0 {
		delete(l.hits, key)
		return 0
	}
	l.hits[key] = kept
	return len(kept)
}

// Allow records an event for key if it is still under the limit.
func (l *RateLimiter) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.trimLocked(key) >= l.max {
		return false
	}
	l.hits[key] = append(l.hits[key], l.now())
	return true
}

// Check returns true if key has not reached the limit. It does not record
// anything; call Record for events that count, such as failed logins.
func (l *RateLimiter) Check(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.trimLocked(key) < l.max
}

// Record registers an event for key.
func (l *RateLimiter) Record(key string) {
	l.mu.Lock()
	l.hits[key] = append(l.hits[key], l.now())
	l.mu.Unlock()
}

// Reset forgets every event recorded for key.
func (l *RateLimiter) Reset(key string) {
	l.mu.Lock()
	delete(l.hits, key)
	l.mu.Unlock()
}

// Stop ends the cleanup goroutine.
func (l *RateLimiter) Stop() {
	l.stopOnce.Do(func() { close(l.done) })
}
