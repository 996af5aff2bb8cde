package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// AuthAttempts records login attempts by result (success|failure|unverified).
	AuthAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "facultysite_auth_attempts_total",
			Help: "Total number of login attempts",
		},
		[]string{"result"},
	)

	// TokenOperations counts verification/reset token activity.
	// op is issue|redeem, result is ok|invalid|expired|error.
	TokenOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "facultysite_token_operations_total",
			Help: "Email verification and password reset token operations",
		},
		[]string{"kind", "op", "result"},
	)

	// EmailDeliveries counts outbound mail attempts by template and result.
	EmailDeliveries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "facultysite_email_deliveries_total",
			Help: "Outbound email delivery attempts",
		},
		[]string{"template", "result"},
	)

	// Uploads counts upload attempts by declared type and result.
	Uploads = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "facultysite_uploads_total",
			Help: "File upload attempts",
		},
		[]string{"type", "result"},
	)

	// UploadBytes tracks the size of stored uploads.
	UploadBytes = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "facultysite_upload_bytes",
			Help:    "Size of stored uploads in bytes",
			Buckets: prometheus.ExponentialBuckets(16*1024, 4, 8),
		},
	)

	// ActiveSessions tracks admin sessions that are neither expired nor revoked.
	ActiveSessions = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "facultysite_active_sessions",
			Help: "Number of active admin sessions",
		},
	)

	// MaintenancePurged counts rows removed by the maintenance job per table.
	MaintenancePurged = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "facultysite_maintenance_purged_total",
			Help: "Rows removed by scheduled maintenance",
		},
		[]string{"table"},
	)

	// RequestsInFlight is the number of HTTP requests being served.
	RequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "facultysite_http_requests_in_flight",
			Help: "HTTP requests currently being served",
		},
	)

	// RateLimited counts requests rejected by the rate limiter per route.
	RateLimited = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "facultysite_rate_limited_total",
			Help: "Requests rejected by the rate limiter",
		},
		[]string{"route"},
	)

	// APILatency measures HTTP request latencies.
	APILatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "facultysite_api_latency_seconds",
			Help:    "API endpoint latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)
)
