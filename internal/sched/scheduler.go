// Package sched models delayed side effects (celebratory notifications,
// auto-expiry, threshold alerts) as explicit schedulable tasks with
// cancellation handles, so session teardown can cancel everything
// pending and tests can drive time deterministically.
package sched

import (
	"sync"
	"time"
)

// CancelFunc cancels a scheduled task. Calling it after the task ran is
// a no-op.
type CancelFunc func()

// Scheduler tracks pending timers so they can be cancelled in bulk when
// the session ends.
type Scheduler struct {
	clock Clock

	mu      sync.Mutex
	nextID  uint64
	pending map[uint64]Timer
	stopped bool
}

// New creates a Scheduler on the given clock.
func New(clock Clock) *Scheduler {
	return &Scheduler{
		clock:   clock,
		pending: make(map[uint64]Timer),
	}
}

// Clock exposes the scheduler's clock for timestamping.
func (s *Scheduler) Clock() Clock {
	return s.clock
}

// Schedule runs fn after d. The returned CancelFunc removes the task if
// it has not fired yet. After StopAll, Schedule is a no-op.
func (s *Scheduler) Schedule(d time.Duration, fn func()) CancelFunc {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return func() {}
	}
	s.nextID++
	id := s.nextID
	timer := s.clock.AfterFunc(d, func() {
		s.mu.Lock()
		delete(s.pending, id)
		s.mu.Unlock()
		fn()
	})
	s.pending[id] = timer
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if t, ok := s.pending[id]; ok {
			t.Stop()
			delete(s.pending, id)
		}
	}
}

// StopAll cancels every pending task and rejects future scheduling.
// Called on logout or shutdown so no stale timer fires against a
// torn-down session.
func (s *Scheduler) StopAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopped = true
	for id, t := range s.pending {
		t.Stop()
		delete(s.pending, id)
	}
}

// PendingCount reports how many tasks are waiting to fire.
func (s *Scheduler) PendingCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending)
}
