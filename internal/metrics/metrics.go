// Package metrics exposes classification counters in Prometheus format.
//
// A Metrics value owns its own registry so that tests and multiple
// classifiers never collide on the global default registerer. All methods
// are safe to call on a nil *Metrics.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "sniff"

// Unrecognised is the format label used when no detector matched.
const Unrecognised = "unrecognised"

// Metrics holds the classification collectors.
type Metrics struct {
	registry        *prometheus.Registry
	classifications *prometheus.CounterVec
	probes          *prometheus.CounterVec
	errors          *prometheus.CounterVec
	duration        prometheus.Histogram
}

// New creates a Metrics value with its collectors registered.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		classifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "classifications_total",
			Help:      "Files classified, by resulting format.",
		}, []string{"format"}),
		probes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "detector_probes_total",
			Help:      "Detector invocations, by format and result.",
		}, []string{"format", "result"}),
		errors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "detector_errors_total",
			Help:      "Detector invocations that failed with an I/O error.",
		}, []string{"format"}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "classification_duration_seconds",
			Help:      "Time spent classifying one file.",
			Buckets:   prometheus.ExponentialBuckets(0.00005, 4, 8),
		}),
	}

	m.registry.MustRegister(m.classifications, m.probes, m.errors, m.duration)
	return m
}

// ObserveClassification records a finished classification.
// An empty formatID is recorded as Unrecognised.
func (m *Metrics) ObserveClassification(formatID string, elapsed time.Duration) {
	if m == nil {
		return
	}
	if formatID == "" {
		formatID = Unrecognised
	}
	m.classifications.WithLabelValues(formatID).Inc()
	m.duration.Observe(elapsed.Seconds())
}

// ObserveProbe records one detector invocation.
func (m *Metrics) ObserveProbe(formatID string, matched bool) {
	if m == nil {
		return
	}
	result := "no_match"
	if matched {
		result = "match"
	}
	m.probes.WithLabelValues(formatID, result).Inc()
}

// ObserveError records a detector failure.
func (m *Metrics) ObserveError(formatID string) {
	if m == nil {
		return
	}
	m.errors.WithLabelValues(formatID).Inc()
}

// Registry returns the underlying Prometheus registry.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// Handler serves the collected metrics in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
