package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/inucxhu/soporte360/internal/dashboard"
)

// DashboardHandler exposes aggregated ticket metrics. The route is
// role-gated; end-users never reach it.
type DashboardHandler struct {
	aggregator *dashboard.Aggregator
}

// NewDashboardHandler constructs handler.
func NewDashboardHandler(aggregator *dashboard.Aggregator) *DashboardHandler {
	return &DashboardHandler{aggregator: aggregator}
}

// Metrics GET /api/metrics.
func (h *DashboardHandler) Metrics(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"data": h.aggregator.Recompute()})
}
