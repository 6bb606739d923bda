package events

import (
	"time"

	"github.com/inucxhu/soporte360/internal/domain"
)

// Type enumerates the domain events emitted by the lifecycle machine.
type Type string

const (
	TypeTicketCreated      Type = "ticket_created"
	TypeTicketStateChanged Type = "ticket_state_changed"
)

// Event is a state change announced to subscribers after the backend
// confirmed it.
type Event struct {
	ID        string
	Type      Type
	Ticket    domain.Ticket
	Actor     domain.Principal
	Timestamp time.Time

	// State change details; zero values for creation events.
	OldState domain.TicketState
	NewState domain.TicketState
	Forced   bool
}
