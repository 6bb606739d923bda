// Package notifier turns confirmed ticket events into user-visible hub
// notifications, including the delayed follow-ups.
package notifier

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/inucxhu/soporte360/internal/domain"
	"github.com/inucxhu/soporte360/internal/events"
	"github.com/inucxhu/soporte360/internal/hub"
	"github.com/inucxhu/soporte360/internal/sched"
)

const (
	// highPriorityAlertDelay separates the creation toast from the
	// urgency warning for HIGH tickets.
	highPriorityAlertDelay = 1000 * time.Millisecond
	// resolvedFollowUpDelay is a UX affordance only; it never gates the
	// primary ticketUpdated notification.
	resolvedFollowUpDelay = 500 * time.Millisecond
)

// Notifier subscribes to ticket events and publishes notifications.
type Notifier struct {
	hub       *hub.Hub
	scheduler *sched.Scheduler
	logger    *zap.Logger
}

// New creates the notifier.
func New(h *hub.Hub, scheduler *sched.Scheduler, logger *zap.Logger) *Notifier {
	return &Notifier{hub: h, scheduler: scheduler, logger: logger}
}

// RegisterHandlers subscribes to the dispatcher.
func (n *Notifier) RegisterHandlers(dispatcher events.Dispatcher) {
	dispatcher.Subscribe(events.TypeTicketCreated, n.handleTicketCreated)
	dispatcher.Subscribe(events.TypeTicketStateChanged, n.handleTicketStateChanged)
}

func (n *Notifier) handleTicketCreated(event events.Event) {
	ticket := event.Ticket
	n.hub.Publish(domain.Notification{
		Kind:         domain.NotificationTicketCreated,
		Title:        "Ticket created",
		Message:      fmt.Sprintf("%q was submitted", ticket.Title),
		PriorityHint: ticket.Priority,
		TTL:          hub.DefaultTTL,
	})

	if ticket.Priority == domain.TicketPriorityHigh {
		n.scheduler.Schedule(highPriorityAlertDelay, func() {
			n.hub.Publish(domain.Notification{
				Kind:         domain.NotificationWarning,
				Title:        "High priority ticket",
				Message:      fmt.Sprintf("%q needs urgent attention", ticket.Title),
				PriorityHint: ticket.Priority,
				TTL:          hub.DefaultTTL,
			})
		})
	}
}

func (n *Notifier) handleTicketStateChanged(event events.Event) {
	ticket := event.Ticket
	n.hub.Publish(domain.Notification{
		Kind:         domain.NotificationTicketUpdated,
		Title:        "Ticket updated",
		Message:      fmt.Sprintf("%q is now %s", ticket.Title, ticket.State),
		PriorityHint: ticket.Priority,
		TTL:          hub.DefaultTTL,
	})

	if event.NewState == domain.TicketStateResolved {
		n.scheduler.Schedule(resolvedFollowUpDelay, func() {
			n.hub.Publish(domain.Notification{
				Kind:    domain.NotificationSuccess,
				Title:   "Ticket resolved",
				Message: fmt.Sprintf("%q was resolved", ticket.Title),
				TTL:     hub.DefaultTTL,
			})
		})
	}
}

// PublishError surfaces a user-visible failure as a non-persistent
// error notification. No failed operation is silently swallowed.
func (n *Notifier) PublishError(title, message string) {
	n.hub.Publish(domain.Notification{
		Kind:    domain.NotificationError,
		Title:   title,
		Message: message,
		TTL:     hub.DefaultTTL,
	})
	n.logger.Debug("error notification published", zap.String("title", title))
}
