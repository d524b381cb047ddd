package app

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// ApplyMetrics holds the collectors updated by the apply engine.
type ApplyMetrics struct {
	Rows     *prometheus.CounterVec
	Batches  *prometheus.CounterVec
	Duration prometheus.Histogram
	Failures prometheus.Counter
}

// NewApplyMetrics registers the apply collectors on reg. A nil reg leaves
// them unregistered.
func NewApplyMetrics(reg prometheus.Registerer) *ApplyMetrics {
	factory := promauto.With(reg)
	return &ApplyMetrics{
		Rows: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "wds_apply_rows_total",
			Help: "Staging rows processed by apply, by outcome.",
		}, []string{"outcome"}),
		Batches: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "wds_apply_batches_total",
			Help: "Batches processed by apply, by resulting status.",
		}, []string{"status"}),
		Duration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "wds_apply_batch_duration_seconds",
			Help:    "Wall time spent applying one batch.",
			Buckets: prometheus.DefBuckets,
		}),
		Failures: factory.NewCounter(prometheus.CounterOpts{
			Name: "wds_apply_failures_total",
			Help: "Batch applies rolled back by an infrastructure error.",
		}),
	}
}
