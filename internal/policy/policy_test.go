package policy_test

import (
	"testing"

	"github.com/inucxhu/soporte360/internal/domain"
	"github.com/inucxhu/soporte360/internal/policy"
)

func ticketIn(state domain.TicketState, assignee string) *domain.Ticket {
	t := &domain.Ticket{
		ID:             "tck-1",
		Title:          "broken printer",
		State:          state,
		RequesterEmail: "user@example.com",
		AssigneeGroup:  "support",
	}
	if assignee != "" {
		t.Assignee = &assignee
	}
	return t
}

func TestPermitted(t *testing.T) {
	endUser := domain.Principal{ID: "u1", Email: "user@example.com", Role: domain.RoleEndUser, Campaign: "acme"}
	support := domain.Principal{ID: "s1", Role: domain.RoleSupport, SupportGroup: "support"}
	otherSupport := domain.Principal{ID: "s2", Role: domain.RoleSupport, SupportGroup: "support"}
	admin := domain.Principal{ID: "a1", Role: domain.RoleAdmin}
	master := domain.Principal{ID: "m1", Role: domain.RoleMasterAdmin}

	cases := []struct {
		name      string
		principal domain.Principal
		ticket    *domain.Ticket
		want      []policy.Action
	}{
		{"end user creates only", endUser, nil, []policy.Action{policy.ActionCreate}},
		{"end user has no transition rights", endUser, ticketIn(domain.TicketStateNew, ""), []policy.Action{policy.ActionCreate}},
		{"support assigns new tickets", support, ticketIn(domain.TicketStateNew, ""), []policy.Action{policy.ActionAssign}},
		{"support cannot assign twice", support, ticketIn(domain.TicketStateAssigned, "s1"), []policy.Action{policy.ActionAdvance}},
		{"support cannot advance another agent's ticket", otherSupport, ticketIn(domain.TicketStateInProgress, "s1"), nil},
		{"assignee advances in progress", support, ticketIn(domain.TicketStateInProgress, "s1"), []policy.Action{policy.ActionAdvance}},
		{"assignee closes resolved", support, ticketIn(domain.TicketStateResolved, "s1"), []policy.Action{policy.ActionAdvance}},
		{"nothing after closed", support, ticketIn(domain.TicketStateClosed, "s1"), nil},
		{"admin has no ticket rights", admin, ticketIn(domain.TicketStateNew, ""), nil},
		{"master assigns and force resolves new", master, ticketIn(domain.TicketStateNew, ""), []policy.Action{policy.ActionAssign, policy.ActionForceResolve}},
		{"master advances regardless of assignee", master, ticketIn(domain.TicketStateInProgress, "s1"), []policy.Action{policy.ActionAdvance, policy.ActionForceResolve}},
		{"master cannot force resolve resolved", master, ticketIn(domain.TicketStateResolved, "s1"), []policy.Action{policy.ActionAdvance}},
		{"master cannot touch closed", master, ticketIn(domain.TicketStateClosed, "s1"), nil},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := policy.Permitted(tc.principal, tc.ticket)
			if len(got) != len(tc.want) {
				t.Fatalf("got %v, want %v", got, tc.want)
			}
			for _, action := range tc.want {
				if !got.Has(action) {
					t.Fatalf("missing %s in %v", action, got)
				}
			}
		})
	}
}

func TestPermittedIsTotal(t *testing.T) {
	// No (principal, ticket) pair may panic, including zero values.
	_ = policy.Permitted(domain.Principal{}, nil)
	_ = policy.Permitted(domain.Principal{Role: "UNKNOWN"}, &domain.Ticket{})
}

func TestCanView(t *testing.T) {
	ticket := ticketIn(domain.TicketStateNew, "")
	ticket.AssigneeGroup = "infrastructure"

	cases := []struct {
		name      string
		principal domain.Principal
		want      bool
	}{
		{"requester sees own ticket", domain.Principal{Role: domain.RoleEndUser, Email: "user@example.com"}, true},
		{"other end user blind", domain.Principal{Role: domain.RoleEndUser, Email: "other@example.com"}, false},
		{"support outside group blind", domain.Principal{Role: domain.RoleSupport, SupportGroup: "support"}, false},
		{"support in group sees", domain.Principal{Role: domain.RoleSupport, SupportGroup: "infrastructure"}, true},
		{"admin sees all", domain.Principal{Role: domain.RoleAdmin}, true},
		{"master sees all", domain.Principal{Role: domain.RoleMasterAdmin}, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := policy.CanView(tc.principal, ticket); got != tc.want {
				t.Fatalf("got %v, want %v", got, tc.want)
			}
		})
	}
}
