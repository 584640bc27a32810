package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "agenda"

var (
	AppointmentsCreated = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "appointments_created_total",
		Help:      "Appointments created, by source and initial status.",
	}, []string{"source", "status"})

	BookingConflicts = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "booking_conflicts_total",
		Help:      "Create or reschedule attempts rejected for overlapping an existing appointment.",
	}, []string{"operation"})

	Cancellations = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "cancellations_total",
		Help:      "Cancelled appointments, by source and lateness.",
	}, []string{"source", "late", "no_show"})

	CancellationsTooRecent = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "cancellations_too_recent_total",
		Help:      "Cancel-by-phone requests rejected by the recency guard.",
	})

	RemindersSent = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "reminders_total",
		Help:      "Appointment reminders by outcome.",
	}, []string{"outcome"})

	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "HTTP requests by route, method and status.",
	}, []string{"route", "method", "status"})

	HTTPDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency by route.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"route", "method"})
)

func Bool(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
