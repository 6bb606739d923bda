package domain

import "time"

// TicketState enumerates lifecycle states. Progression is strictly linear
// (NEW -> ASSIGNED -> IN_PROGRESS -> RESOLVED -> CLOSED) with a single
// privileged bypass into RESOLVED.
type TicketState string

const (
	TicketStateNew        TicketState = "NEW"
	TicketStateAssigned   TicketState = "ASSIGNED"
	TicketStateInProgress TicketState = "IN_PROGRESS"
	TicketStateResolved   TicketState = "RESOLVED"
	TicketStateClosed     TicketState = "CLOSED"
)

// TicketPriority enumerates urgency assigned by classification.
type TicketPriority string

const (
	TicketPriorityLow    TicketPriority = "LOW"
	TicketPriorityMedium TicketPriority = "MEDIUM"
	TicketPriorityHigh   TicketPriority = "HIGH"
)

// TicketCategory enumerates problem areas assigned by classification.
type TicketCategory string

const (
	TicketCategoryHardware TicketCategory = "HARDWARE"
	TicketCategorySoftware TicketCategory = "SOFTWARE"
	TicketCategoryNetwork  TicketCategory = "NETWORK"
	TicketCategorySecurity TicketCategory = "SECURITY"
	TicketCategoryAccess   TicketCategory = "ACCESS"
)

// TicketDepartment enumerates the internal unit a ticket is routed to.
type TicketDepartment string

const (
	TicketDepartmentIT             TicketDepartment = "IT"
	TicketDepartmentSupport        TicketDepartment = "SUPPORT"
	TicketDepartmentInfrastructure TicketDepartment = "INFRASTRUCTURE"
)

// Ticket is the aggregate for support requests. Title, description,
// requester identity, and the classification fields are immutable after
// creation; only State and Assignee change, and only through the
// lifecycle machine.
type Ticket struct {
	ID             string
	Title          string
	Description    string
	Priority       TicketPriority
	Category       TicketCategory
	Department     TicketDepartment
	EstimatedTime  string
	State          TicketState
	RequesterEmail string
	Campaign       string
	AssigneeGroup  string
	Assignee       *string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Classification is the result of the external classification step run
// at ticket creation.
type Classification struct {
	Priority      TicketPriority
	Category      TicketCategory
	Department    TicketDepartment
	EstimatedTime string
}

// FallbackClassification mirrors the defaults applied upstream when the
// classifier is unreachable or returns garbage.
func FallbackClassification() Classification {
	return Classification{
		Priority:      TicketPriorityMedium,
		Category:      TicketCategorySoftware,
		Department:    TicketDepartmentSupport,
		EstimatedTime: "2-4 hours",
	}
}
