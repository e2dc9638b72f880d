package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Send metrics
var (
	SendsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gateway_sends_total",
			Help: "Total number of tool-level send operations",
		},
		[]string{"operation", "result"}, // operation: send_email, send_email_with_attachment, send_bulk_emails; result: success, error
	)

	SendDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "gateway_send_duration_seconds",
			Help:    "Duration of send operations including the SMTP transaction",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)

	BulkRecipientsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gateway_bulk_recipients_total",
			Help: "Per-recipient outcomes within bulk send operations",
		},
		[]string{"result"}, // success, failure
	)
)

// SMTP session metrics
var (
	SMTPSessionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gateway_smtp_sessions_total",
			Help: "Total number of SMTP sessions opened by the gateway",
		},
		[]string{"status"}, // established, connect_failed, tls_failed, auth_failed
	)

	SMTPMessagesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gateway_smtp_messages_total",
			Help: "Total number of messages transmitted over SMTP",
		},
		[]string{"result"}, // sent, failed
	)
)

// Ops API metrics
var (
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of operational API requests",
		},
		[]string{"method", "path", "status"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "Duration of operational API requests",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)
)
