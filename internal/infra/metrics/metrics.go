package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	ActiveConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_active_connections",
			Help: "Number of active HTTP connections",
		},
	)

	signups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "waitlist_signups_total",
			Help: "Signup submissions by outcome",
		},
		[]string{"status"},
	)

	mailDeliveries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "waitlist_mail_deliveries_total",
			Help: "Outbound emails by transport result",
		},
		[]string{"result"},
	)

	betaSweeps = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "waitlist_beta_sweeps_total",
			Help: "Beta sweeps by result",
		},
		[]string{"result"},
	)

	betaSends = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "waitlist_beta_sends_total",
			Help: "Beta emails attempted by sweeps",
		},
		[]string{"status"},
	)
)

func RecordSignup(status string) {
	signups.WithLabelValues(status).Inc()
}

func RecordMailDelivery(result string) {
	mailDeliveries.WithLabelValues(result).Inc()
}

func RecordSweep(result string, sent, failed int) {
	betaSweeps.WithLabelValues(result).Inc()
	betaSends.WithLabelValues("sent").Add(float64(sent))
	betaSends.WithLabelValues("failed").Add(float64(failed))
}
