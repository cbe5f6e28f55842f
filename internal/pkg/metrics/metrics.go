package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics collects the service's Prometheus metrics behind its own registry.
// All record methods are safe on a nil receiver so tests can skip wiring.
type Metrics struct {
	registry *prometheus.Registry

	SignalsTotal       *prometheus.CounterVec
	RejectionsTotal    *prometheus.CounterVec
	PlacementsTotal    *prometheus.CounterVec
	BookRequestsTotal  *prometheus.CounterVec
	BookRequestSeconds *prometheus.HistogramVec
	NotifierDropsTotal prometheus.Counter
}

// New creates the metrics collector and registers everything
func New() *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		registry: registry,

		SignalsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tipbot_signals_total",
				Help: "Processed tip messages by terminal pipeline status",
			},
			[]string{"status"},
		),
		RejectionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tipbot_rejections_total",
				Help: "Dropped signals by rejection reason",
			},
			[]string{"reason"},
		),
		PlacementsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tipbot_placements_total",
				Help: "Placement attempts by sportsbook response status",
			},
			[]string{"status"},
		),
		BookRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tipbot_book_requests_total",
				Help: "Sportsbook API requests by endpoint and result",
			},
			[]string{"endpoint", "result"},
		),
		BookRequestSeconds: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "tipbot_book_request_duration_seconds",
				Help:    "Sportsbook API request duration",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"endpoint"},
		),
		NotifierDropsTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "tipbot_notifier_dropped_total",
				Help: "Operator notifications dropped because the queue was full",
			},
		),
	}

	registry.MustRegister(
		m.SignalsTotal,
		m.RejectionsTotal,
		m.PlacementsTotal,
		m.BookRequestsTotal,
		m.BookRequestSeconds,
		m.NotifierDropsTotal,
	)

	return m
}

// Handler exposes the registry for the health server's /metrics endpoint
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// RecordOutcome counts a signal reaching a terminal status
func (m *Metrics) RecordOutcome(status string) {
	if m == nil {
		return
	}
	m.SignalsTotal.WithLabelValues(status).Inc()
}

// RecordRejection counts a dropped signal by reason
func (m *Metrics) RecordRejection(reason string) {
	if m == nil {
		return
	}
	m.RejectionsTotal.WithLabelValues(reason).Inc()
}

// RecordPlacement counts a placement attempt by response status
func (m *Metrics) RecordPlacement(status string) {
	if m == nil {
		return
	}
	m.PlacementsTotal.WithLabelValues(status).Inc()
}

// ObserveBookRequest records one sportsbook API call
func (m *Metrics) ObserveBookRequest(endpoint, result string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.BookRequestsTotal.WithLabelValues(endpoint, result).Inc()
	m.BookRequestSeconds.WithLabelValues(endpoint).Observe(elapsed.Seconds())
}

// RecordNotifierDrop counts a notification dropped on a full queue
func (m *Metrics) RecordNotifierDrop() {
	if m == nil {
		return
	}
	m.NotifierDropsTotal.Inc()
}
