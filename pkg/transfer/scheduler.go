package transfer

import (
	"sync"
	"time"
)

// Scheduler runs delayed tasks that can be cancelled individually or all at
// once. After Stop no new tasks are accepted and no pending task runs.
type Scheduler struct {
	mu      sync.Mutex
	timers  map[uint64]*time.Timer
	next    uint64
	stopped bool
}

// NewScheduler creates a scheduler.
func NewScheduler() *Scheduler {
	return &Scheduler{timers: make(map[uint64]*time.Timer)}
}

// After runs fn once d has elapsed. The returned cancel func reports whether
// it prevented fn from running.
func (s *Scheduler) After(d time.Duration, fn func()) (func() bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return nil, ErrStopped
	}

	s.next++
	id := s.next
	s.timers[id] = time.AfterFunc(d, func() {
		if !s.claim(id) {
			return
		}
		fn()
	})

	return func() bool {
		s.mu.Lock()
		defer s.mu.Unlock()
		t, ok := s.timers[id]
		if !ok {
			return false
		}
		delete(s.timers, id)
		t.Stop()
		return true
	}, nil
}

// claim removes a fired task; false means it was cancelled first.
func (s *Scheduler) claim(id uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.timers[id]; !ok {
		return false
	}
	delete(s.timers, id)
	return true
}

// Pending returns the number of tasks that have neither run nor been cancelled.
func (s *Scheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.timers)
}

// Stop cancels every pending task and returns how many were cancelled.
func (s *Scheduler) Stop() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopped = true
	n := len(s.timers)
	for id, t := range s.timers {
		t.Stop()
		delete(s.timers, id)
	}
	return n
}

// Stopped reports whether Stop has been called.
func (s *Scheduler) Stopped() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stopped
}
