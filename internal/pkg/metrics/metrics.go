// Package metrics exposes Prometheus instrumentation for the order lifecycle
// service: how transitions resolve (applied, no-op, conflict, rejected,
// upstream failure) and how reconciliation sweeps behave over time.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Transition result labels.
const (
	ResultApplied     = "applied"
	ResultNoop        = "noop"
	ResultConflict    = "conflict"
	ResultRejected    = "rejected"
	ResultUnavailable = "upstream_unavailable"
)

// Sweep result labels.
const (
	SweepCompleted = "completed"
	SweepSkipped   = "skipped"
	SweepFailed    = "failed"
)

// LifecycleMetrics counts transition outcomes and reconciliation sweeps.
// A nil *LifecycleMetrics is valid and records nothing, so wiring metrics
// stays optional in tests.
type LifecycleMetrics struct {
	transitions *prometheus.CounterVec
	sweeps      *prometheus.CounterVec
}

// NewLifecycleMetrics creates the lifecycle counters under the given
// subsystem name and registers them with the default registry. Must be
// called at most once per process.
func NewLifecycleMetrics(service string) *LifecycleMetrics {
	return NewLifecycleMetricsWith(prometheus.DefaultRegisterer, service)
}

// NewLifecycleMetricsWith registers the lifecycle counters with the given
// registerer, so tests can scope counters to their own registry.
func NewLifecycleMetricsWith(reg prometheus.Registerer, service string) *LifecycleMetrics {
	transitions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "orderflow",
		Subsystem: service,
		Name:      "transitions_total",
		Help:      "Total number of order status transition attempts.",
	}, []string{"to_status", "result"})
	sweeps := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "orderflow",
		Subsystem: service,
		Name:      "reconciliation_sweeps_total",
		Help:      "Total number of reconciliation sweep ticks.",
	}, []string{"result"})

	reg.MustRegister(transitions, sweeps)
	return &LifecycleMetrics{transitions: transitions, sweeps: sweeps}
}

// RecordTransition counts one transition attempt by destination and result.
func (m *LifecycleMetrics) RecordTransition(toStatus, result string) {
	if m == nil {
		return
	}
	m.transitions.WithLabelValues(toStatus, result).Inc()
}

// RecordSweep counts one sweep tick by result.
func (m *LifecycleMetrics) RecordSweep(result string) {
	if m == nil {
		return
	}
	m.sweeps.WithLabelValues(result).Inc()
}

// Handler returns the HTTP handler serving the Prometheus scrape endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}
