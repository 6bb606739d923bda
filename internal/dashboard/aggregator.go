// Package dashboard derives summary counts from the ticket cache and
// feeds threshold alerts into the notification hub.
package dashboard

import (
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/inucxhu/soporte360/internal/domain"
	"github.com/inucxhu/soporte360/internal/hub"
	"github.com/inucxhu/soporte360/internal/observability"
	"github.com/inucxhu/soporte360/internal/store"
)

// Alert thresholds checked once, on the first recompute only, so a
// polling cycle never repeats the same alert.
const (
	highPriorityAlertThreshold = 3
	newBacklogAlertThreshold   = 5
)

// Metrics is a summary snapshot of the ticket population. The average
// resolution time covers RESOLVED and CLOSED tickets only and is zero
// while none exist.
type Metrics struct {
	Total                int                             `json:"total_tickets"`
	ByState              map[domain.TicketState]int      `json:"by_state"`
	ByPriority           map[domain.TicketPriority]int   `json:"by_priority"`
	ByCategory           map[domain.TicketCategory]int   `json:"by_category"`
	ByDepartment         map[domain.TicketDepartment]int `json:"by_department"`
	AvgResolutionSeconds float64                         `json:"avg_resolution_seconds"`
}

// Aggregator recomputes dashboard metrics from the cache.
type Aggregator struct {
	cache   *store.Store
	hub     *hub.Hub
	metrics *observability.Metrics
	logger  *zap.Logger

	mu      sync.Mutex
	alerted bool
}

// New constructs the aggregator.
func New(cache *store.Store, h *hub.Hub, metrics *observability.Metrics, logger *zap.Logger) *Aggregator {
	return &Aggregator{cache: cache, hub: h, metrics: metrics, logger: logger}
}

// Recompute derives counts from the current cache snapshot, refreshes
// the Prometheus gauges, and on the first call only publishes threshold
// alerts. A one-shot flag, not the data, decides "first": identical
// counts on a later refresh publish nothing.
func (a *Aggregator) Recompute() Metrics {
	snapshot := a.cache.Snapshot()
	m := Metrics{
		Total:        len(snapshot),
		ByState:      make(map[domain.TicketState]int),
		ByPriority:   make(map[domain.TicketPriority]int),
		ByCategory:   make(map[domain.TicketCategory]int),
		ByDepartment: make(map[domain.TicketDepartment]int),
	}
	resolved := 0
	var resolutionTotal time.Duration
	for _, t := range snapshot {
		m.ByState[t.State]++
		m.ByPriority[t.Priority]++
		m.ByCategory[t.Category]++
		m.ByDepartment[t.Department]++
		if t.State == domain.TicketStateResolved || t.State == domain.TicketStateClosed {
			resolutionTotal += t.UpdatedAt.Sub(t.CreatedAt)
			resolved++
		}
	}
	if resolved > 0 {
		m.AvgResolutionSeconds = (resolutionTotal / time.Duration(resolved)).Seconds()
	}

	a.metrics.SetTicketCounts(m.Total, m.ByState, m.ByPriority, m.ByCategory, m.ByDepartment)
	a.metrics.SetAvgResolutionSeconds(m.AvgResolutionSeconds)

	a.mu.Lock()
	firstLoad := !a.alerted
	a.alerted = true
	a.mu.Unlock()

	if firstLoad {
		a.publishThresholdAlerts(m)
	}
	return m
}

func (a *Aggregator) publishThresholdAlerts(m Metrics) {
	if high := m.ByPriority[domain.TicketPriorityHigh]; high >= highPriorityAlertThreshold {
		a.hub.Publish(domain.Notification{
			Kind:    domain.NotificationWarning,
			Title:   "High priority backlog",
			Message: fmt.Sprintf("%d high priority tickets are open", high),
			TTL:     hub.DefaultTTL,
		})
		a.logger.Warn("high priority backlog", zap.Int("count", high))
	}
	if fresh := m.ByState[domain.TicketStateNew]; fresh >= newBacklogAlertThreshold {
		a.hub.Publish(domain.Notification{
			Kind:    domain.NotificationInfo,
			Title:   "Unassigned tickets waiting",
			Message: fmt.Sprintf("%d new tickets await assignment", fresh),
			TTL:     hub.DefaultTTL,
		})
	}
}
