package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RequestDuration tracks request duration
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "app_bolsas_request_duration_seconds",
			Help: "Duration of HTTP requests in seconds",
		},
		[]string{"path", "method", "status"},
	)

	// ActiveConnections tracks in-flight requests
	ActiveConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "app_bolsas_active_connections",
			Help: "Number of active connections",
		},
	)

	// DatabaseOperations tracks storage operations
	DatabaseOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "app_bolsas_database_operations_total",
			Help: "Number of database operations",
		},
		[]string{"operation", "status"},
	)

	// ApplicationsSubmitted counts submission attempts by outcome
	ApplicationsSubmitted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "app_bolsas_applications_submitted_total",
			Help: "Number of application submissions",
		},
		[]string{"channel", "result"},
	)

	// StatusTransitions counts administrative status changes
	StatusTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "app_bolsas_status_transitions_total",
			Help: "Number of application status transitions",
		},
		[]string{"from", "to"},
	)

	// Exports counts review exports by format
	Exports = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "app_bolsas_exports_total",
			Help: "Number of application exports",
		},
		[]string{"format"},
	)

	// AccessDenials counts requests rejected by the access gate
	AccessDenials = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "app_bolsas_access_denials_total",
			Help: "Number of requests denied by the access gate",
		},
		[]string{"reason"},
	)

	// NotificationsSent counts decision e-mails by outcome
	NotificationsSent = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "app_bolsas_notifications_total",
			Help: "Number of decision notifications",
		},
		[]string{"status", "result"},
	)
)
