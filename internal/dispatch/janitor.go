package dispatch

import (
	"sync"
	"time"
)

// Janitor owns the deferred buffer-release timers scheduled after a handled
// submission. Releasing is best-effort memory hygiene, not correctness: on
// Close pending tasks are dropped without running.
type Janitor struct {
	mu     sync.Mutex
	timers map[*time.Timer]struct{}
	closed bool
}

func NewJanitor() *Janitor {
	return &Janitor{timers: make(map[*time.Timer]struct{})}
}

// Schedule runs fn after delay unless the janitor is closed first.
func (j *Janitor) Schedule(delay time.Duration, fn func()) {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.closed {
		return
	}

	var t *time.Timer
	t = time.AfterFunc(delay, func() {
		j.mu.Lock()
		delete(j.timers, t)
		closed := j.closed
		j.mu.Unlock()
		if !closed {
			fn()
		}
	})
	j.timers[t] = struct{}{}
}

// Close stops every pending timer. Scheduled functions that have not fired
// are never run.
func (j *Janitor) Close() {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.closed = true
	for t := range j.timers {
		t.Stop()
	}
	j.timers = nil
}
