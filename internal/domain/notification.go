package domain

import "time"

// NotificationKind enumerates the visual/semantic class of a notification.
type NotificationKind string

const (
	NotificationSuccess       NotificationKind = "SUCCESS"
	NotificationWarning       NotificationKind = "WARNING"
	NotificationError         NotificationKind = "ERROR"
	NotificationInfo          NotificationKind = "INFO"
	NotificationTicketCreated NotificationKind = "TICKET_CREATED"
	NotificationTicketUpdated NotificationKind = "TICKET_UPDATED"
	NotificationPersistent    NotificationKind = "PERSISTENT"
	NotificationDefault       NotificationKind = "DEFAULT"
)

// Notification is a timed, readable event surfaced to the interface
// layer. TTL of zero means the notification never auto-expires.
type Notification struct {
	ID           string
	Kind         NotificationKind
	Title        string
	Message      string
	PriorityHint TicketPriority
	CreatedAt    time.Time
	Read         bool
	TTL          time.Duration
}
