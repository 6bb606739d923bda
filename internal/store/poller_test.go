package store_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/inucxhu/soporte360/internal/domain"
	"github.com/inucxhu/soporte360/internal/store"
)

// fakeLister signals every ListAll call so tests can wait for refresh
// cycles instead of sleeping.
type fakeLister struct {
	mu      sync.Mutex
	tickets []domain.Ticket
	err     error
	calls   chan struct{}
}

func newFakeLister(tickets []domain.Ticket, err error) *fakeLister {
	return &fakeLister{tickets: tickets, err: err, calls: make(chan struct{}, 16)}
}

func (l *fakeLister) ListAll(context.Context) ([]domain.Ticket, error) {
	l.mu.Lock()
	tickets, err := l.tickets, l.err
	l.mu.Unlock()
	select {
	case l.calls <- struct{}{}:
	default:
	}
	if err != nil {
		return nil, err
	}
	return tickets, nil
}

func (l *fakeLister) set(tickets []domain.Ticket, err error) {
	l.mu.Lock()
	l.tickets, l.err = tickets, err
	l.mu.Unlock()
}

func waitCall(t *testing.T, l *fakeLister) {
	t.Helper()
	select {
	case <-l.calls:
	case <-time.After(2 * time.Second):
		t.Fatalf("poller did not query the source in time")
	}
}

func TestPollerWarmsAndRefreshes(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	lister := newFakeLister([]domain.Ticket{ticket("a", base)}, nil)
	s := store.New()
	poller := store.NewPoller(s, lister, 10*time.Millisecond, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan struct{})
	go func() {
		poller.Run(ctx)
		close(done)
	}()

	// immediate warm refresh before the first tick
	waitCall(t, lister)

	lister.set([]domain.Ticket{ticket("a", base), ticket("b", base)}, nil)
	// two more completed cycles guarantee the new listing was applied
	waitCall(t, lister)
	waitCall(t, lister)
	if s.Len() != 2 {
		t.Fatalf("len = %d, want 2 after periodic refresh", s.Len())
	}

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("Run did not return after context cancellation")
	}
}

func TestPollerKeepsCacheOnFailure(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	lister := newFakeLister([]domain.Ticket{ticket("a", base)}, nil)
	s := store.New()
	poller := store.NewPoller(s, lister, 10*time.Millisecond, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan struct{})
	go func() {
		poller.Run(ctx)
		close(done)
	}()

	waitCall(t, lister)
	waitCall(t, lister)

	// a failing cycle leaves the previous listing in place
	lister.set(nil, errors.New("listing unavailable"))
	waitCall(t, lister)
	waitCall(t, lister)
	if s.Len() != 1 {
		t.Fatalf("len = %d, want 1 after failed refresh", s.Len())
	}

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("Run did not return after context cancellation")
	}
}
