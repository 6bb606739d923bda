package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/inucxhu/soporte360/internal/api/dto"
	"github.com/inucxhu/soporte360/internal/domain"
	"github.com/inucxhu/soporte360/internal/hub"
)

// NotificationsHandler exposes the notification hub to the interface
// layer: the toast view, the detail panel, and read-state mutations.
type NotificationsHandler struct {
	hub *hub.Hub
}

// NewNotificationsHandler constructs handler.
func NewNotificationsHandler(h *hub.Hub) *NotificationsHandler {
	return &NotificationsHandler{hub: h}
}

// List GET /api/notifications.
func (h *NotificationsHandler) List(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"data": dto.NotificationListResponse{
		Notifications: notificationResponses(h.hub.All()),
		UnreadCount:   h.hub.UnreadCount(),
	}})
}

// Toasts GET /api/notifications/toasts.
func (h *NotificationsHandler) Toasts(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"data": notificationResponses(h.hub.VisibleToasts())})
}

// MarkRead POST /api/notifications/:id/read.
func (h *NotificationsHandler) MarkRead(c *fiber.Ctx) error {
	h.hub.MarkRead(c.Params("id"))
	return c.JSON(fiber.Map{"data": fiber.Map{"unread_count": h.hub.UnreadCount()}})
}

// MarkAllRead POST /api/notifications/read-all.
func (h *NotificationsHandler) MarkAllRead(c *fiber.Ctx) error {
	h.hub.MarkAllRead()
	return c.JSON(fiber.Map{"data": fiber.Map{"unread_count": 0}})
}

// Remove DELETE /api/notifications/:id.
func (h *NotificationsHandler) Remove(c *fiber.Ctx) error {
	h.hub.Remove(c.Params("id"))
	return c.JSON(fiber.Map{"data": fiber.Map{"unread_count": h.hub.UnreadCount()}})
}

func notificationResponses(items []domain.Notification) []dto.NotificationResponse {
	out := make([]dto.NotificationResponse, 0, len(items))
	for _, n := range items {
		out = append(out, dto.NotificationResponse{
			ID:           n.ID,
			Kind:         n.Kind,
			Title:        n.Title,
			Message:      n.Message,
			PriorityHint: n.PriorityHint,
			CreatedAt:    n.CreatedAt,
			Read:         n.Read,
			TTLMs:        n.TTL.Milliseconds(),
		})
	}
	return out
}
