package ratelimit

import (
	"context"
	"sync"
	"time"

	"checkin/internal/ports/output"
)

var _ output.RateLimiter = (*Local)(nil)

// Local is an in-process fixed-window limiter used when no Redis is
// configured. Counters do not survive a restart and are not shared.
type Local struct {
	mu     sync.Mutex
	window time.Duration
	max    int
	now    func() time.Time
	start  time.Time
	hits   map[string]int
}

func NewLocal(window time.Duration, limit int) *Local {
	return &Local{
		window: window,
		max:    limit,
		now:    time.Now,
		hits:   make(map[string]int),
	}
}

func (l *Local) Allow(_ context.Context, key string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	// A new window drops every counter of the previous one.
	if start := windowStart(l.now(), l.window); !start.Equal(l.start) {
		l.start = start
		clear(l.hits)
	}
	l.hits[key]++
	return l.hits[key] <= l.max, nil
}
