// Package lifecycle validates and applies ticket state transitions. All
// checks go through the authorization policy; the in-memory cache is
// touched only after the authoritative backend confirmed a write, so a
// rejected transition needs no rollback.
package lifecycle

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/inucxhu/soporte360/internal/classify"
	"github.com/inucxhu/soporte360/internal/domain"
	"github.com/inucxhu/soporte360/internal/events"
	"github.com/inucxhu/soporte360/internal/policy"
	"github.com/inucxhu/soporte360/internal/sched"
	"github.com/inucxhu/soporte360/internal/store"
	"github.com/inucxhu/soporte360/pkg/apperrors"
)

// Backend sentinels. Implementations report these so the machine can
// map a lost compare-and-set race to a rejection instead of a retry.
var (
	ErrTicketNotFound = errors.New("ticket not found")
	ErrStateConflict  = errors.New("ticket state changed concurrently")
)

// Backend is the authoritative ticket persistence consumed by the
// machine.
type Backend interface {
	Create(ctx context.Context, ticket *domain.Ticket) error
	GetByID(ctx context.Context, id string) (*domain.Ticket, error)
	// TransitionState atomically moves a ticket from one state to
	// another, optionally setting the assignee. It fails with
	// ErrStateConflict when the stored state no longer matches from,
	// which is how exactly-once assignment survives concurrent claims.
	TransitionState(ctx context.Context, id string, from, to domain.TicketState, assignee *string) (*domain.Ticket, error)
}

// nextState is the linear progression; NEW exits via Assign only.
var nextState = map[domain.TicketState]domain.TicketState{
	domain.TicketStateAssigned:   domain.TicketStateInProgress,
	domain.TicketStateInProgress: domain.TicketStateResolved,
	domain.TicketStateResolved:   domain.TicketStateClosed,
}

// Machine coordinates ticket creation and transitions.
type Machine struct {
	backend    Backend
	cache      *store.Store
	dispatcher events.Dispatcher
	classifier classify.Classifier
	clock      sched.Clock
	logger     *zap.Logger
}

// Dependencies bundles the machine's collaborators.
type Dependencies struct {
	Backend    Backend
	Cache      *store.Store
	Dispatcher events.Dispatcher
	Classifier classify.Classifier
	Clock      sched.Clock
	Logger     *zap.Logger
}

// New constructs the machine.
func New(deps Dependencies) *Machine {
	return &Machine{
		backend:    deps.Backend,
		cache:      deps.Cache,
		dispatcher: deps.Dispatcher,
		classifier: deps.Classifier,
		clock:      deps.Clock,
		logger:     deps.Logger,
	}
}

// Create submits a new ticket for the principal. Classification runs
// before persistence; a failing classifier degrades to the documented
// defaults rather than blocking submission.
func (m *Machine) Create(ctx context.Context, p domain.Principal, title, description string) (*domain.Ticket, error) {
	title = strings.TrimSpace(title)
	description = strings.TrimSpace(description)
	if title == "" || description == "" {
		return nil, apperrors.NewValidationError("title and description required", nil)
	}
	if !policy.Permitted(p, nil).Has(policy.ActionCreate) {
		return nil, apperrors.NewForbidden("role may not create tickets")
	}

	classification, err := m.classifier.Classify(ctx, title, description)
	if err != nil {
		m.logger.Warn("classification failed, using fallback", zap.Error(err))
		classification = domain.FallbackClassification()
	}

	ticket := &domain.Ticket{
		ID:             uuid.NewString(),
		Title:          title,
		Description:    description,
		Priority:       classification.Priority,
		Category:       classification.Category,
		Department:     classification.Department,
		EstimatedTime:  classification.EstimatedTime,
		State:          domain.TicketStateNew,
		RequesterEmail: p.Email,
		Campaign:       p.Campaign,
		AssigneeGroup:  groupForDepartment(classification.Department),
	}

	if err := m.backend.Create(ctx, ticket); err != nil {
		return nil, err
	}
	m.cache.ApplyServer(*ticket)
	m.publish(events.Event{
		Type:   events.TypeTicketCreated,
		Ticket: *ticket,
		Actor:  p,
	})
	m.logger.Info("ticket created",
		zap.String("ticket_id", ticket.ID),
		zap.String("priority", string(ticket.Priority)))
	return ticket, nil
}

// Assign claims a NEW ticket for the principal. Exactly-once: the
// compare-and-set on the backend guarantees that of two concurrent
// claims one succeeds and the other observes a rejection.
func (m *Machine) Assign(ctx context.Context, ticketID string, p domain.Principal) (*domain.Ticket, error) {
	ticket, err := m.get(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if !policy.Permitted(p, ticket).Has(policy.ActionAssign) {
		if ticket.State != domain.TicketStateNew {
			return nil, apperrors.NewTransitionRejected("ticket is no longer available for assignment",
				map[string]any{"state": ticket.State})
		}
		return nil, apperrors.NewTransitionRejected("role may not assign tickets", nil)
	}

	assignee := p.ID
	updated, err := m.backend.TransitionState(ctx, ticketID, domain.TicketStateNew, domain.TicketStateAssigned, &assignee)
	if err != nil {
		return nil, m.mapTransitionErr(err, ticketID, "ticket was claimed by another agent")
	}
	m.confirm(updated, p, domain.TicketStateNew, false)
	return updated, nil
}

// Advance moves a ticket one step along the linear progression.
func (m *Machine) Advance(ctx context.Context, ticketID string, p domain.Principal) (*domain.Ticket, error) {
	ticket, err := m.get(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	next, ok := nextState[ticket.State]
	if !ok {
		return nil, apperrors.NewTransitionRejected("ticket has no further transition",
			map[string]any{"state": ticket.State})
	}
	if !policy.Permitted(p, ticket).Has(policy.ActionAdvance) {
		return nil, apperrors.NewTransitionRejected("only the assignee may advance this ticket", nil)
	}

	updated, err := m.backend.TransitionState(ctx, ticketID, ticket.State, next, nil)
	if err != nil {
		return nil, m.mapTransitionErr(err, ticketID, "ticket changed state concurrently")
	}
	m.confirm(updated, p, ticket.State, false)
	return updated, nil
}

// ForceResolve is the MasterAdmin bypass straight into RESOLVED, legal
// from NEW, ASSIGNED, or IN_PROGRESS.
func (m *Machine) ForceResolve(ctx context.Context, ticketID string, p domain.Principal) (*domain.Ticket, error) {
	ticket, err := m.get(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if !policy.Permitted(p, ticket).Has(policy.ActionForceResolve) {
		return nil, apperrors.NewTransitionRejected("force resolve requires master admin", nil)
	}

	updated, err := m.backend.TransitionState(ctx, ticketID, ticket.State, domain.TicketStateResolved, nil)
	if err != nil {
		return nil, m.mapTransitionErr(err, ticketID, "ticket changed state concurrently")
	}
	m.confirm(updated, p, ticket.State, true)
	return updated, nil
}

func (m *Machine) get(ctx context.Context, ticketID string) (*domain.Ticket, error) {
	ticket, err := m.backend.GetByID(ctx, ticketID)
	if err != nil {
		if errors.Is(err, ErrTicketNotFound) {
			return nil, apperrors.NewNotFound("ticket", map[string]any{"ticket_id": ticketID})
		}
		return nil, err
	}
	return ticket, nil
}

// confirm applies a backend-confirmed transition to the cache and emits
// exactly one state-changed event.
func (m *Machine) confirm(ticket *domain.Ticket, p domain.Principal, old domain.TicketState, forced bool) {
	m.cache.ApplyServer(*ticket)
	m.publish(events.Event{
		Type:     events.TypeTicketStateChanged,
		Ticket:   *ticket,
		Actor:    p,
		OldState: old,
		NewState: ticket.State,
		Forced:   forced,
	})
	m.logger.Info("ticket transitioned",
		zap.String("ticket_id", ticket.ID),
		zap.String("from", string(old)),
		zap.String("to", string(ticket.State)))
}

func (m *Machine) mapTransitionErr(err error, ticketID, conflictReason string) error {
	switch {
	case errors.Is(err, ErrStateConflict):
		return apperrors.NewTransitionRejected(conflictReason, map[string]any{"ticket_id": ticketID})
	case errors.Is(err, ErrTicketNotFound):
		return apperrors.NewNotFound("ticket", map[string]any{"ticket_id": ticketID})
	default:
		return err
	}
}

func (m *Machine) publish(event events.Event) {
	if m.dispatcher == nil {
		return
	}
	event.ID = uuid.NewString()
	event.Timestamp = m.clock.Now()
	m.dispatcher.Publish(event)
}

// groupForDepartment routes a classified ticket to a support group.
func groupForDepartment(dept domain.TicketDepartment) string {
	return strings.ToLower(string(dept))
}
