package dto

import (
	"time"

	"github.com/inucxhu/soporte360/internal/domain"
)

// CreateTicketRequest payload. Priority, category, department, and the
// time estimate are assigned server-side by classification.
type CreateTicketRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// TicketResponse is the full ticket representation.
type TicketResponse struct {
	ID             string                  `json:"id"`
	Title          string                  `json:"title"`
	Description    string                  `json:"description"`
	Priority       domain.TicketPriority   `json:"priority"`
	Category       domain.TicketCategory   `json:"category"`
	Department     domain.TicketDepartment `json:"department"`
	EstimatedTime  string                  `json:"estimated_time"`
	State          domain.TicketState      `json:"state"`
	RequesterEmail string                  `json:"requester_email"`
	Campaign       string                  `json:"campaign,omitempty"`
	AssigneeGroup  string                  `json:"assignee_group,omitempty"`
	Assignee       *string                 `json:"assignee"`
	Actions        []string                `json:"actions"`
	CreatedAt      time.Time               `json:"created_at"`
	UpdatedAt      time.Time               `json:"updated_at"`
}
