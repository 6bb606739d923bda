// Package hub is the process-wide in-memory notification store: append,
// bounded retention, read-state tracking, and timed auto-expiry.
package hub

import (
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/inucxhu/soporte360/internal/domain"
	"github.com/inucxhu/soporte360/internal/sched"
)

const (
	// MaxRetained bounds the stored notifications; the oldest beyond
	// this are evicted regardless of read state.
	MaxRetained = 50
	// MaxVisibleToasts bounds the transient toast view.
	MaxVisibleToasts = 5
	// DefaultTTL is the visible duration for ordinary non-persistent
	// notifications when the publisher does not set one.
	DefaultTTL = 5 * time.Second
)

// Hub retains the most recent notifications, newest first. All mutation
// is serialized under one mutex so concurrently firing expiry timers
// never interleave a read-modify-write on the list.
type Hub struct {
	scheduler *sched.Scheduler
	logger    *zap.Logger

	mu     sync.Mutex
	items  []domain.Notification
	expiry map[string]sched.CancelFunc
	unread int
}

// New creates an empty hub. Expiry timers run on the given scheduler,
// so StopAll on the scheduler also silences pending expirations.
func New(scheduler *sched.Scheduler, logger *zap.Logger) *Hub {
	return &Hub{
		scheduler: scheduler,
		logger:    logger,
		expiry:    make(map[string]sched.CancelFunc),
	}
}

// Publish stores the notification, assigns ID and CreatedAt, prepends it,
// truncates retention to MaxRetained, and schedules auto-expiry when a
// TTL is set. It returns the stored notification.
func (h *Hub) Publish(n domain.Notification) domain.Notification {
	h.mu.Lock()
	n.ID = newID(h.scheduler.Clock().Now())
	n.CreatedAt = h.scheduler.Clock().Now()
	n.Read = false

	h.items = append([]domain.Notification{n}, h.items...)
	h.unread++

	if len(h.items) > MaxRetained {
		for _, evicted := range h.items[MaxRetained:] {
			h.dropExpiryLocked(evicted.ID)
		}
		h.items = h.items[:MaxRetained]
	}

	if n.TTL > 0 {
		id := n.ID
		h.expiry[id] = h.scheduler.Schedule(n.TTL, func() {
			h.expire(id)
		})
	}
	h.mu.Unlock()

	h.logger.Debug("notification published",
		zap.String("id", n.ID),
		zap.String("kind", string(n.Kind)),
		zap.String("title", n.Title))
	return n
}

// Remove deletes a notification immediately regardless of read state;
// absent ids are a no-op. An explicit removal of an unread notification
// decrements the unread count (a dismissal, unlike a timed expiry).
func (h *Hub) Remove(id string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.removeLocked(id, true)
}

// expire is the timer path: the notification disappears but an unread
// one still counts as unread ("missed", not "dismissed").
func (h *Hub) expire(id string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.removeLocked(id, false)
}

func (h *Hub) removeLocked(id string, decrementUnread bool) {
	for i, n := range h.items {
		if n.ID != id {
			continue
		}
		if decrementUnread && !n.Read && h.unread > 0 {
			h.unread--
		}
		h.items = append(h.items[:i], h.items[i+1:]...)
		h.dropExpiryLocked(id)
		return
	}
}

func (h *Hub) dropExpiryLocked(id string) {
	if cancel, ok := h.expiry[id]; ok {
		cancel()
		delete(h.expiry, id)
	}
}

// MarkRead sets read on the notification and decrements the unread count
// by exactly one. Idempotent; unknown ids are a no-op.
func (h *Hub) MarkRead(id string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for i := range h.items {
		if h.items[i].ID != id {
			continue
		}
		if !h.items[i].Read {
			h.items[i].Read = true
			if h.unread > 0 {
				h.unread--
			}
		}
		return
	}
}

// MarkAllRead marks every retained notification read and resets the
// unread count unconditionally.
func (h *Hub) MarkAllRead() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for i := range h.items {
		h.items[i].Read = true
	}
	h.unread = 0
}

// VisibleToasts returns the newest-first toast view: at most
// MaxVisibleToasts entries, unread or persistent only.
func (h *Hub) VisibleToasts() []domain.Notification {
	h.mu.Lock()
	defer h.mu.Unlock()
	toasts := make([]domain.Notification, 0, MaxVisibleToasts)
	for _, n := range h.items {
		if n.Read && n.Kind != domain.NotificationPersistent {
			continue
		}
		toasts = append(toasts, n)
		if len(toasts) == MaxVisibleToasts {
			break
		}
	}
	return toasts
}

// All returns the full retained list, newest first, unfiltered.
func (h *Hub) All() []domain.Notification {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]domain.Notification, len(h.items))
	copy(out, h.items)
	return out
}

// UnreadCount reports the number of unread notifications, floored at 0.
func (h *Hub) UnreadCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.unread
}

// newID combines the creation instant with randomness so bursts of
// notifications within the same tick never collide.
func newID(now time.Time) string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	return strconv.FormatInt(now.UnixNano(), 36) + "-" + suffix
}
