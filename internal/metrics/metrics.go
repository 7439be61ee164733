// Package metrics exposes the worker's Prometheus instrumentation.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Row processing outcome labels.
const (
	StatusOK      = "ok"
	StatusFailed  = "failed"
	StatusSkipped = "skipped"
)

// Metrics holds the counters and histograms updated by the pipeline.
type Metrics struct {
	RowsProcessed *prometheus.CounterVec
	PushesSent    prometheus.Counter
	PushFailures  prometheus.Counter
	BatchDuration prometheus.Histogram
}

// New registers the pipeline metrics against reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		RowsProcessed: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "notifier_rows_processed_total",
			Help: "Notification rows processed, by row type and outcome.",
		}, []string{"type", "status"}),
		PushesSent: factory.NewCounter(prometheus.CounterOpts{
			Name: "notifier_pushes_sent_total",
			Help: "Device-level push deliveries that succeeded.",
		}),
		PushFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "notifier_push_failures_total",
			Help: "Device-level push deliveries that failed.",
		}),
		BatchDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "notifier_batch_duration_seconds",
			Help:    "Wall time spent processing one batch of rows.",
			Buckets: prometheus.DefBuckets,
		}),
	}
}
