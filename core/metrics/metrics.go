// Package metrics holds the prometheus collectors of reconciliation runs.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder owns a private registry so tests can create as many as they need.
type Recorder struct {
	registry *prometheus.Registry
	records  *prometheus.CounterVec
	batches  *prometheus.CounterVec
	duration prometheus.Histogram
}

// New registers the run collectors under the configured namespace.
func New(cfg Config) *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		records: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: cfg.Namespace,
			Name:      "records_total",
			Help:      "Booking records applied, by account and outcome.",
		}, []string{"account", "outcome"}),
		batches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: cfg.Namespace,
			Name:      "batches_total",
			Help:      "Reconciliation batches, by account and result.",
		}, []string{"account", "result"}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: cfg.Namespace,
			Name:      "batch_duration_seconds",
			Help:      "Wall time of committed reconciliation batches.",
			Buckets:   prometheus.DefBuckets,
		}),
	}
	r.registry.MustRegister(r.records, r.batches, r.duration)
	return r
}

// ObserveRecords adds n records with the given outcome.
func (r *Recorder) ObserveRecords(account, outcome string, n int) {
	if r == nil || n == 0 {
		return
	}
	r.records.WithLabelValues(account, outcome).Add(float64(n))
}

// ObserveBatch counts one batch and, when it committed, its duration.
func (r *Recorder) ObserveBatch(account string, err error, d time.Duration) {
	if r == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	} else {
		r.duration.Observe(d.Seconds())
	}
	r.batches.WithLabelValues(account, result).Inc()
}

// Registry exposes the underlying registry.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// Handler serves the registry in the prometheus text format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}
