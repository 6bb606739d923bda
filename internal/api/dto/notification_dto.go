package dto

import (
	"time"

	"github.com/inucxhu/soporte360/internal/domain"
)

// NotificationResponse is the interface-facing notification view.
type NotificationResponse struct {
	ID           string                  `json:"id"`
	Kind         domain.NotificationKind `json:"kind"`
	Title        string                  `json:"title"`
	Message      string                  `json:"message"`
	PriorityHint domain.TicketPriority   `json:"priority_hint,omitempty"`
	CreatedAt    time.Time               `json:"created_at"`
	Read         bool                    `json:"read"`
	TTLMs        int64                   `json:"ttl_ms,omitempty"`
}

// NotificationListResponse bundles the list with the unread counter.
type NotificationListResponse struct {
	Notifications []NotificationResponse `json:"notifications"`
	UnreadCount   int                    `json:"unread_count"`
}
