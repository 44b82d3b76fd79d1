package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ServiceCallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "printerbridge_service_calls_total",
			Help: "Total number of service calls sent to Home Assistant",
		},
		[]string{"action", "result"},
	)

	ServiceCallDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "printerbridge_service_call_duration_seconds",
			Help:    "Duration of service calls in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"action"},
	)

	ValidationFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "printerbridge_validation_failures_total",
			Help: "Print requests rejected before dispatch",
		},
		[]string{"kind", "field"},
	)

	QueueLength = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "printerbridge_queue_length",
			Help: "Number of jobs waiting in the print queue",
		},
	)

	QueueDispatching = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "printerbridge_queue_dispatching",
			Help: "1 while the queue drain loop is dispatching, 0 when idle",
		},
	)

	QueueJobsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "printerbridge_queue_jobs_total",
			Help: "Queued jobs by final status",
		},
		[]string{"status"},
	)
)
