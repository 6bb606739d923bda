package hub_test

import (
	"fmt"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/inucxhu/soporte360/internal/domain"
	"github.com/inucxhu/soporte360/internal/hub"
	"github.com/inucxhu/soporte360/internal/sched"
)

func newTestHub(t *testing.T) (*hub.Hub, *sched.ManualClock) {
	t.Helper()
	clock := sched.NewManualClock(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	scheduler := sched.New(clock)
	t.Cleanup(scheduler.StopAll)
	return hub.New(scheduler, zap.NewNop()), clock
}

func publishN(h *hub.Hub, n int) {
	for i := 0; i < n; i++ {
		h.Publish(domain.Notification{
			Kind:    domain.NotificationInfo,
			Title:   fmt.Sprintf("note %d", i),
			Message: "body",
		})
	}
}

func TestRetentionBound(t *testing.T) {
	h, _ := newTestHub(t)
	publishN(h, 80)
	if got := len(h.All()); got != hub.MaxRetained {
		t.Fatalf("retained %d, want %d", got, hub.MaxRetained)
	}
	// newest first, eviction keeps order
	all := h.All()
	if all[0].Title != "note 79" || all[len(all)-1].Title != "note 30" {
		t.Fatalf("unexpected order: first=%q last=%q", all[0].Title, all[len(all)-1].Title)
	}
}

func TestVisibleToastsFiltering(t *testing.T) {
	h, _ := newTestHub(t)
	persistent := h.Publish(domain.Notification{Kind: domain.NotificationPersistent, Title: "pinned"})
	publishN(h, 3)
	read := h.Publish(domain.Notification{Kind: domain.NotificationInfo, Title: "seen"})
	h.MarkRead(read.ID)
	h.MarkRead(persistent.ID)
	publishN(h, 4)

	toasts := h.VisibleToasts()
	if len(toasts) != hub.MaxVisibleToasts {
		t.Fatalf("got %d toasts, want %d", len(toasts), hub.MaxVisibleToasts)
	}
	for _, n := range toasts {
		if n.Read && n.Kind != domain.NotificationPersistent {
			t.Fatalf("read non-persistent notification %q in toast view", n.Title)
		}
	}
	// persistent stays visible even after being read, once newer unread
	// entries no longer crowd it out
	h.MarkAllRead()
	toasts = h.VisibleToasts()
	if len(toasts) != 1 || toasts[0].ID != persistent.ID {
		t.Fatalf("expected only the persistent notification, got %d", len(toasts))
	}
}

func TestMarkReadIdempotent(t *testing.T) {
	h, _ := newTestHub(t)
	n := h.Publish(domain.Notification{Kind: domain.NotificationInfo, Title: "once"})
	if h.UnreadCount() != 1 {
		t.Fatalf("unread = %d, want 1", h.UnreadCount())
	}
	h.MarkRead(n.ID)
	h.MarkRead(n.ID)
	h.MarkRead("missing-id")
	if h.UnreadCount() != 0 {
		t.Fatalf("unread = %d, want 0", h.UnreadCount())
	}
}

func TestMarkAllRead(t *testing.T) {
	h, _ := newTestHub(t)
	publishN(h, 7)
	h.MarkAllRead()
	if h.UnreadCount() != 0 {
		t.Fatalf("unread = %d, want 0", h.UnreadCount())
	}
	for _, n := range h.All() {
		if !n.Read {
			t.Fatalf("notification %q still unread", n.Title)
		}
	}
}

func TestRemoveDecrementsUnread(t *testing.T) {
	h, _ := newTestHub(t)
	n := h.Publish(domain.Notification{Kind: domain.NotificationInfo, Title: "gone"})
	h.Remove(n.ID)
	if h.UnreadCount() != 0 {
		t.Fatalf("unread = %d, want 0 after explicit remove", h.UnreadCount())
	}
	h.Remove(n.ID) // absent id is a no-op
	if got := len(h.All()); got != 0 {
		t.Fatalf("len = %d, want 0", got)
	}
}

func TestExpiryKeepsUnreadCount(t *testing.T) {
	h, clock := newTestHub(t)
	h.Publish(domain.Notification{
		Kind:  domain.NotificationInfo,
		Title: "fleeting",
		TTL:   2 * time.Second,
	})
	clock.Advance(3 * time.Second)

	if got := len(h.All()); got != 0 {
		t.Fatalf("len = %d, want 0 after expiry", got)
	}
	// A missed notification is not a dismissed one: the timer never
	// decrements the counter.
	if h.UnreadCount() != 1 {
		t.Fatalf("unread = %d, want 1", h.UnreadCount())
	}
}

func TestPersistentNeverExpires(t *testing.T) {
	h, clock := newTestHub(t)
	h.Publish(domain.Notification{Kind: domain.NotificationPersistent, Title: "sticky"})
	clock.Advance(time.Hour)
	if got := len(h.All()); got != 1 {
		t.Fatalf("len = %d, want 1", got)
	}
}

func TestBurstIDsUnique(t *testing.T) {
	h, _ := newTestHub(t)
	publishN(h, 20) // no clock advance between publishes
	seen := map[string]bool{}
	for _, n := range h.All() {
		if seen[n.ID] {
			t.Fatalf("duplicate id %q", n.ID)
		}
		seen[n.ID] = true
	}
}
