package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "clinic_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "clinic_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	BookingOutcomesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "clinic_booking_outcomes_total",
			Help: "Booking commands by operation and outcome (ok or rejection reason)",
		},
		[]string{"operation", "outcome"},
	)

	AvailabilityQueriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "clinic_availability_queries_total",
			Help: "Availability lookups by outcome",
		},
		[]string{"outcome"},
	)

	NotificationsRelayedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "clinic_notifications_relayed_total",
			Help: "Outbox notifications handed to the broker",
		},
		[]string{"type", "status"},
	)

	OutboxBacklog = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "clinic_outbox_backlog",
			Help: "Notification jobs claimed in the last relay pass",
		},
	)
)

func RecordHTTPRequest(method, path, status string, duration float64) {
	HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	HTTPRequestDuration.WithLabelValues(method, path).Observe(duration)
}

func RecordBookingOutcome(operation, outcome string) {
	BookingOutcomesTotal.WithLabelValues(operation, outcome).Inc()
}

func RecordAvailabilityQuery(outcome string) {
	AvailabilityQueriesTotal.WithLabelValues(outcome).Inc()
}

func RecordNotification(jobType, status string) {
	NotificationsRelayedTotal.WithLabelValues(jobType, status).Inc()
}
