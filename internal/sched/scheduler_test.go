package sched

import (
	"testing"
	"time"
)

func newTestScheduler() (*Scheduler, *ManualClock) {
	clock := NewManualClock(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	return New(clock), clock
}

func TestScheduleFiresInDueOrder(t *testing.T) {
	s, clock := newTestScheduler()
	var order []string
	s.Schedule(2*time.Second, func() { order = append(order, "second") })
	s.Schedule(1*time.Second, func() { order = append(order, "first") })

	clock.Advance(500 * time.Millisecond)
	if len(order) != 0 {
		t.Fatalf("nothing should fire early, got %v", order)
	}

	clock.Advance(2 * time.Second)
	if len(order) != 2 || order[0] != "first" || order[1] != "second" {
		t.Fatalf("got %v, want [first second]", order)
	}
	if s.PendingCount() != 0 {
		t.Fatalf("pending = %d, want 0", s.PendingCount())
	}
}

func TestCancelPreventsFiring(t *testing.T) {
	s, clock := newTestScheduler()
	fired := false
	cancel := s.Schedule(time.Second, func() { fired = true })

	cancel()
	cancel() // second call is a no-op

	clock.Advance(2 * time.Second)
	if fired {
		t.Fatalf("cancelled task fired")
	}
	if s.PendingCount() != 0 {
		t.Fatalf("pending = %d, want 0", s.PendingCount())
	}
}

func TestStopAllRejectsNewWork(t *testing.T) {
	s, clock := newTestScheduler()
	fired := 0
	s.Schedule(time.Second, func() { fired++ })
	s.StopAll()
	s.Schedule(time.Second, func() { fired++ })

	clock.Advance(5 * time.Second)
	if fired != 0 {
		t.Fatalf("fired = %d, want 0 after StopAll", fired)
	}
}

func TestStopAfterFireReportsFalse(t *testing.T) {
	clock := NewManualClock(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	timer := clock.AfterFunc(time.Second, func() {})

	clock.Advance(2 * time.Second)
	if timer.Stop() {
		t.Fatalf("Stop after firing must report false")
	}
}

func TestManualClockNow(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	clock := NewManualClock(start)
	clock.Advance(90 * time.Minute)
	if got := clock.Now(); !got.Equal(start.Add(90 * time.Minute)) {
		t.Fatalf("now = %v", got)
	}
}
