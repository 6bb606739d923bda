// Package policy is the single place role logic lives. Callers render or
// act based on the returned capability set and never re-derive role rules
// themselves.
package policy

import "github.com/inucxhu/soporte360/internal/domain"

// Action enumerates operations a principal may be granted on a ticket.
type Action string

const (
	ActionCreate       Action = "create"
	ActionAssign       Action = "assign"
	ActionAdvance      Action = "advance"
	ActionForceResolve Action = "force_resolve"
)

// CapabilitySet is the set of actions permitted for one (principal,
// ticket) pair at this instant.
type CapabilitySet map[Action]struct{}

// Has reports whether the action is in the set.
func (s CapabilitySet) Has(action Action) bool {
	_, ok := s[action]
	return ok
}

func (s CapabilitySet) grant(action Action) {
	s[action] = struct{}{}
}

// Permitted maps (principal role, ticket state, ticket ownership) to the
// set of permitted actions. It is pure and total: any legal pair yields a
// possibly empty set, never an error. A nil ticket evaluates the
// ticket-independent capabilities only.
func Permitted(p domain.Principal, t *domain.Ticket) CapabilitySet {
	caps := CapabilitySet{}

	switch p.Role {
	case domain.RoleMasterAdmin:
		if t == nil {
			return caps
		}
		if t.State != domain.TicketStateResolved && t.State != domain.TicketStateClosed {
			caps.grant(ActionForceResolve)
		}
		if t.State == domain.TicketStateNew {
			caps.grant(ActionAssign)
		}
		if advanceable(t.State) {
			caps.grant(ActionAdvance)
		}
	case domain.RoleSupport:
		if t == nil {
			return caps
		}
		if t.State == domain.TicketStateNew {
			caps.grant(ActionAssign)
		}
		if advanceable(t.State) && t.Assignee != nil && *t.Assignee == p.ID {
			caps.grant(ActionAdvance)
		}
	case domain.RoleEndUser:
		caps.grant(ActionCreate)
	case domain.RoleAdmin:
		// Non-master admins manage user records only; no ticket rights.
	}

	return caps
}

// advanceable reports whether the state has a linear successor.
func advanceable(state domain.TicketState) bool {
	switch state {
	case domain.TicketStateAssigned, domain.TicketStateInProgress, domain.TicketStateResolved:
		return true
	default:
		return false
	}
}

// CanView reports whether the principal may see the ticket at all.
// End-users see their own tickets; support staff see tickets routed to
// their group or not yet routed; admin tiers see everything.
func CanView(p domain.Principal, t *domain.Ticket) bool {
	if t == nil {
		return false
	}
	switch p.Role {
	case domain.RoleEndUser:
		return t.RequesterEmail == p.Email
	case domain.RoleSupport:
		return t.AssigneeGroup == "" || t.AssigneeGroup == p.SupportGroup
	case domain.RoleAdmin, domain.RoleMasterAdmin:
		return true
	default:
		return false
	}
}
