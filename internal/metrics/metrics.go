package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// HTTP
	RequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"route", "method", "status"},
	)
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route", "method"},
	)

	// GraphQL
	OperationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "graphql_operations_total",
			Help: "GraphQL operations by name and outcome",
		},
		[]string{"operation", "outcome"}, // ok|error
	)

	TokenFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auth_token_failures_total",
			Help: "Rejected bearer tokens",
		},
		[]string{"reason"}, // expired|malformed
	)

	// Chat
	ChatConnections = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "chat_connections",
			Help: "Open chat connections",
		},
	)
	ChatMessagesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "chat_messages_total",
			Help: "Chat messages persisted",
		},
	)

	WorkerQueueDepth = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "worker_queue_depth",
			Help: "Current worker queue depth",
		},
	)
)

var Handler = promhttp.Handler

var once sync.Once

// Init registers the collectors with the default registry; repeat calls are no-ops.
func Init() {
	once.Do(func() {
		prometheus.MustRegister(
			RequestsTotal,
			RequestDuration,
			OperationsTotal,
			TokenFailures,
			ChatConnections,
			ChatMessagesTotal,
			WorkerQueueDepth,
		)
	})
}
