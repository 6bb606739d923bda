package handlers

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
)

const readinessProbeTimeout = 2 * time.Second

// Pinger is a backing dependency that can report its availability.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Check pairs a dependency name with its availability probe.
type Check struct {
	Name  string
	Probe Pinger
}

// HealthHandler answers liveness and readiness probes. Liveness is
// unconditional; readiness probes every registered dependency.
type HealthHandler struct {
	service string
	version string
	checks  []Check
}

// NewHealthHandler registers the dependency checks readiness reports on.
func NewHealthHandler(service, version string, checks ...Check) *HealthHandler {
	return &HealthHandler{service: service, version: version, checks: checks}
}

// Live GET /health/live.
func (h *HealthHandler) Live(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "alive",
		"service": h.service,
		"version": h.version,
	})
}

// Ready GET /health/ready. Degraded dependencies are reported by name so
// an operator can tell a dead database from a dead cache.
func (h *HealthHandler) Ready(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), readinessProbeTimeout)
	defer cancel()

	results := fiber.Map{}
	failed := 0
	for _, check := range h.checks {
		if err := check.Probe.Ping(ctx); err != nil {
			results[check.Name] = err.Error()
			failed++
		} else {
			results[check.Name] = "ok"
		}
	}

	if failed > 0 {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"status":  "degraded",
			"service": h.service,
			"checks":  results,
		})
	}
	return c.JSON(fiber.Map{
		"status":  "ready",
		"service": h.service,
		"checks":  results,
	})
}
