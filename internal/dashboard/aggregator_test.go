package dashboard_test

import (
	"fmt"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/inucxhu/soporte360/internal/dashboard"
	"github.com/inucxhu/soporte360/internal/domain"
	"github.com/inucxhu/soporte360/internal/hub"
	"github.com/inucxhu/soporte360/internal/observability"
	"github.com/inucxhu/soporte360/internal/sched"
	"github.com/inucxhu/soporte360/internal/store"
)

func newAggregator(t *testing.T) (*dashboard.Aggregator, *store.Store, *hub.Hub) {
	t.Helper()
	clock := sched.NewManualClock(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	scheduler := sched.New(clock)
	t.Cleanup(scheduler.StopAll)
	cache := store.New()
	notificationHub := hub.New(scheduler, zap.NewNop())
	agg := dashboard.New(cache, notificationHub, observability.NewMetrics(), zap.NewNop())
	return agg, cache, notificationHub
}

func seedTickets(cache *store.Store, n int, priority domain.TicketPriority, state domain.TicketState) {
	for i := 0; i < n; i++ {
		cache.ApplyServer(domain.Ticket{
			ID:       fmt.Sprintf("%s-%s-%d", priority, state, i),
			Title:    "seed",
			Priority: priority,
			State:    state,
			Category: domain.TicketCategorySoftware,
		})
	}
}

func kindCount(h *hub.Hub, kind domain.NotificationKind) int {
	count := 0
	for _, n := range h.All() {
		if n.Kind == kind {
			count++
		}
	}
	return count
}

func TestRecomputeCounts(t *testing.T) {
	agg, cache, _ := newAggregator(t)
	seedTickets(cache, 2, domain.TicketPriorityHigh, domain.TicketStateNew)
	seedTickets(cache, 3, domain.TicketPriorityLow, domain.TicketStateClosed)

	m := agg.Recompute()
	if m.Total != 5 {
		t.Fatalf("total = %d, want 5", m.Total)
	}
	if m.ByPriority[domain.TicketPriorityHigh] != 2 || m.ByState[domain.TicketStateClosed] != 3 {
		t.Fatalf("unexpected counts: %+v", m)
	}
}

func TestAvgResolutionTime(t *testing.T) {
	agg, cache, _ := newAggregator(t)
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	cache.ApplyServer(domain.Ticket{
		ID: "r1", State: domain.TicketStateResolved,
		CreatedAt: base, UpdatedAt: base.Add(100 * time.Second),
	})
	cache.ApplyServer(domain.Ticket{
		ID: "r2", State: domain.TicketStateClosed,
		CreatedAt: base, UpdatedAt: base.Add(200 * time.Second),
	})
	// open tickets never count toward resolution time
	cache.ApplyServer(domain.Ticket{
		ID: "r3", State: domain.TicketStateInProgress,
		CreatedAt: base, UpdatedAt: base.Add(time.Hour),
	})

	m := agg.Recompute()
	if m.AvgResolutionSeconds != 150 {
		t.Fatalf("avg resolution = %v, want 150", m.AvgResolutionSeconds)
	}
}

func TestAvgResolutionTimeZeroWhenNoneResolved(t *testing.T) {
	agg, cache, _ := newAggregator(t)
	seedTickets(cache, 2, domain.TicketPriorityMedium, domain.TicketStateNew)
	if m := agg.Recompute(); m.AvgResolutionSeconds != 0 {
		t.Fatalf("avg resolution = %v, want 0", m.AvgResolutionSeconds)
	}
}

func TestHighPriorityAlertFiresOnceOnFirstLoad(t *testing.T) {
	agg, cache, notificationHub := newAggregator(t)
	seedTickets(cache, 4, domain.TicketPriorityHigh, domain.TicketStateAssigned)

	agg.Recompute()
	if got := kindCount(notificationHub, domain.NotificationWarning); got != 1 {
		t.Fatalf("first load warnings = %d, want 1", got)
	}

	// still above threshold, but the one-shot already fired
	seedTickets(cache, 2, domain.TicketPriorityHigh, domain.TicketStateAssigned)
	agg.Recompute()
	agg.Recompute()
	if got := kindCount(notificationHub, domain.NotificationWarning); got != 1 {
		t.Fatalf("repeat load warnings = %d, want 1", got)
	}
}

func TestNewBacklogAlert(t *testing.T) {
	agg, cache, notificationHub := newAggregator(t)
	seedTickets(cache, 5, domain.TicketPriorityMedium, domain.TicketStateNew)

	agg.Recompute()
	if got := kindCount(notificationHub, domain.NotificationInfo); got != 1 {
		t.Fatalf("backlog infos = %d, want 1", got)
	}
	if got := kindCount(notificationHub, domain.NotificationWarning); got != 0 {
		t.Fatalf("no high priority warning expected, got %d", got)
	}
}

func TestBelowThresholdsPublishesNothing(t *testing.T) {
	agg, cache, notificationHub := newAggregator(t)
	seedTickets(cache, 2, domain.TicketPriorityHigh, domain.TicketStateNew)
	seedTickets(cache, 2, domain.TicketPriorityMedium, domain.TicketStateNew)

	agg.Recompute()
	if got := len(notificationHub.All()); got != 0 {
		t.Fatalf("notifications = %d, want 0", got)
	}
}
