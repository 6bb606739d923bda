package observability

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/inucxhu/soporte360/internal/domain"
)

// Metrics exposes Prometheus collectors for HTTP traffic and the ticket
// population. The dashboard aggregator refreshes the ticket gauges on
// every recompute.
type Metrics struct {
	registry *prometheus.Registry

	requestTotal *prometheus.CounterVec
	errorTotal   *prometheus.CounterVec

	ticketsTotal         prometheus.Gauge
	ticketsByState       *prometheus.GaugeVec
	ticketsByPriority    *prometheus.GaugeVec
	ticketsByCategory    *prometheus.GaugeVec
	ticketsByDepartment  *prometheus.GaugeVec
	avgResolutionSeconds prometheus.Gauge
}

// NewMetrics creates and registers all collectors on a private registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		requestTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "soporte360_http_requests_total",
			Help: "HTTP requests by route, method, and status.",
		}, []string{"path", "method", "status"}),
		errorTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "soporte360_http_errors_total",
			Help: "Failed HTTP requests by route, method, and error code.",
		}, []string{"path", "method", "code"}),
		ticketsTotal: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "soporte360_tickets_total",
			Help: "Tickets currently known to the cache.",
		}),
		ticketsByState: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "soporte360_tickets_by_state",
			Help: "Tickets grouped by lifecycle state.",
		}, []string{"state"}),
		ticketsByPriority: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "soporte360_tickets_by_priority",
			Help: "Tickets grouped by priority.",
		}, []string{"priority"}),
		ticketsByCategory: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "soporte360_tickets_by_category",
			Help: "Tickets grouped by category.",
		}, []string{"category"}),
		ticketsByDepartment: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "soporte360_tickets_by_department",
			Help: "Tickets grouped by department.",
		}, []string{"department"}),
		avgResolutionSeconds: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "soporte360_avg_resolution_seconds",
			Help: "Average time from creation to resolution over resolved and closed tickets.",
		}),
	}

	m.registry.MustRegister(
		m.requestTotal,
		m.errorTotal,
		m.ticketsTotal,
		m.ticketsByState,
		m.ticketsByPriority,
		m.ticketsByCategory,
		m.ticketsByDepartment,
		m.avgResolutionSeconds,
	)
	return m
}

// Registry exposes the registry for the /metrics endpoint.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// RecordRequest increments the request counter.
func (m *Metrics) RecordRequest(path, method string, status int) {
	if m == nil {
		return
	}
	m.requestTotal.WithLabelValues(path, method, strconv.Itoa(status)).Inc()
}

// RecordError increments the error counter.
func (m *Metrics) RecordError(path, method, code string) {
	if m == nil {
		return
	}
	m.errorTotal.WithLabelValues(path, method, code).Inc()
}

// SetTicketCounts refreshes the ticket gauges from aggregated counts.
func (m *Metrics) SetTicketCounts(
	total int,
	byState map[domain.TicketState]int,
	byPriority map[domain.TicketPriority]int,
	byCategory map[domain.TicketCategory]int,
	byDepartment map[domain.TicketDepartment]int,
) {
	if m == nil {
		return
	}
	m.ticketsTotal.Set(float64(total))
	m.ticketsByState.Reset()
	for state, count := range byState {
		m.ticketsByState.WithLabelValues(string(state)).Set(float64(count))
	}
	m.ticketsByPriority.Reset()
	for priority, count := range byPriority {
		m.ticketsByPriority.WithLabelValues(string(priority)).Set(float64(count))
	}
	m.ticketsByCategory.Reset()
	for category, count := range byCategory {
		m.ticketsByCategory.WithLabelValues(string(category)).Set(float64(count))
	}
	m.ticketsByDepartment.Reset()
	for department, count := range byDepartment {
		m.ticketsByDepartment.WithLabelValues(string(department)).Set(float64(count))
	}
}

// SetAvgResolutionSeconds refreshes the resolution time gauge.
func (m *Metrics) SetAvgResolutionSeconds(seconds float64) {
	if m == nil {
		return
	}
	m.avgResolutionSeconds.Set(seconds)
}
