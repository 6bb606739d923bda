package handlers

import (
	"context"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/inucxhu/soporte360/internal/api/dto"
	"github.com/inucxhu/soporte360/internal/auth"
	"github.com/inucxhu/soporte360/internal/domain"
	"github.com/inucxhu/soporte360/internal/lifecycle"
	"github.com/inucxhu/soporte360/internal/policy"
	"github.com/inucxhu/soporte360/internal/store"
	"github.com/inucxhu/soporte360/pkg/apperrors"
)

// TicketsHandler exposes ticket creation and lifecycle transitions.
type TicketsHandler struct {
	machine *lifecycle.Machine
	cache   *store.Store
}

// NewTicketsHandler constructs handler.
func NewTicketsHandler(machine *lifecycle.Machine, cache *store.Store) *TicketsHandler {
	return &TicketsHandler{machine: machine, cache: cache}
}

// CreateTicket POST /api/tickets.
func (h *TicketsHandler) CreateTicket(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewAuthenticationRequired("authentication required")
	}
	var req dto.CreateTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	ticket, err := h.machine.Create(c.UserContext(), principal, req.Title, req.Description)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": ticketResponse(ticket, principal)})
}

// ListTickets GET /api/tickets. Visibility filtering happens in the
// cache query layer, not in role checks here.
func (h *TicketsHandler) ListTickets(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewAuthenticationRequired("authentication required")
	}
	tickets := h.cache.VisibleTo(principal)
	items := make([]dto.TicketResponse, 0, len(tickets))
	for i := range tickets {
		items = append(items, ticketResponse(&tickets[i], principal))
	}
	return c.JSON(fiber.Map{"data": items})
}

// GetTicket GET /api/tickets/:id.
func (h *TicketsHandler) GetTicket(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewAuthenticationRequired("authentication required")
	}
	ticket, found := h.cache.Get(c.Params("id"))
	if !found || !policy.CanView(principal, &ticket) {
		return apperrors.NewNotFound("ticket", map[string]any{"ticket_id": c.Params("id")})
	}
	return c.JSON(fiber.Map{"data": ticketResponse(&ticket, principal)})
}

// AssignTicket POST /api/tickets/:id/assign.
func (h *TicketsHandler) AssignTicket(c *fiber.Ctx) error {
	return h.transition(c, h.machine.Assign)
}

// AdvanceTicket POST /api/tickets/:id/advance.
func (h *TicketsHandler) AdvanceTicket(c *fiber.Ctx) error {
	return h.transition(c, h.machine.Advance)
}

// ForceResolveTicket POST /api/tickets/:id/resolve.
func (h *TicketsHandler) ForceResolveTicket(c *fiber.Ctx) error {
	return h.transition(c, h.machine.ForceResolve)
}

type transitionFunc func(ctx context.Context, ticketID string, p domain.Principal) (*domain.Ticket, error)

func (h *TicketsHandler) transition(c *fiber.Ctx, apply transitionFunc) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewAuthenticationRequired("authentication required")
	}
	ticket, err := apply(c.UserContext(), c.Params("id"), principal)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketResponse(ticket, principal)})
}

func ticketResponse(t *domain.Ticket, p domain.Principal) dto.TicketResponse {
	caps := policy.Permitted(p, t)
	actions := make([]string, 0, len(caps))
	for _, action := range []policy.Action{policy.ActionAssign, policy.ActionAdvance, policy.ActionForceResolve} {
		if caps.Has(action) {
			actions = append(actions, string(action))
		}
	}
	return dto.TicketResponse{
		ID:             t.ID,
		Title:          t.Title,
		Description:    t.Description,
		Priority:       t.Priority,
		Category:       t.Category,
		Department:     t.Department,
		EstimatedTime:  t.EstimatedTime,
		State:          t.State,
		RequesterEmail: t.RequesterEmail,
		Campaign:       t.Campaign,
		AssigneeGroup:  t.AssigneeGroup,
		Assignee:       t.Assignee,
		Actions:        actions,
		CreatedAt:      t.CreatedAt,
		UpdatedAt:      t.UpdatedAt,
	}
}
