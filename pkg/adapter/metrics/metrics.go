// Package metrics wires pkg/core's context-engine, validation, and
// update-engine activity into Prometheus, grounded on the teacher
// pack's ipiton-alert-history-service handlers
// (cmd/server/signal_metrics.go's promauto.NewCounterVec/
// NewHistogramVec pattern). Nothing in pkg/core imports this package —
// callers that want metrics wrap their own dctx/update/validate calls
// with a Recorder, the way ipiton wraps its own reload handler.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	namespace = "disir"
)

// Recorder holds every Prometheus collector disir-go exposes. Create
// one per process with NewRecorder and share it across callers that
// drive the context, validate, and update engines.
type Recorder struct {
	contextsBegun      *prometheus.CounterVec
	validationFailures prometheus.Counter
	updateConflicts    prometheus.Counter
	updateDuration     prometheus.Histogram
}

// NewRecorder registers disir-go's collectors against reg and returns a
// Recorder. Pass prometheus.NewRegistry() in tests to avoid colliding
// with the global default registry; pass prometheus.DefaultRegisterer
// in production.
func NewRecorder(reg prometheus.Registerer) *Recorder {
	factory := promauto.With(reg)
	return &Recorder{
		contextsBegun: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "context",
				Name:      "begun_total",
				Help:      "Total number of dctx.Begin calls, by tag.",
			},
			[]string{"tag"},
		),
		validationFailures: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "validate",
				Name:      "failures_total",
				Help:      "Total number of config_valid/mold_valid calls that returned an invalid collection.",
			},
		),
		updateConflicts: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "update",
				Name:      "conflicts_total",
				Help:      "Total number of update-engine keyvals that surfaced a conflict.",
			},
		),
		updateDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "update",
				Name:      "run_duration_seconds",
				Help:      "Wall-clock duration of a full update.Begin-to-Finished run.",
				Buckets:   prometheus.DefBuckets,
			},
		),
	}
}

// ContextBegun records one dctx.Begin call for the given tag name (e.g.
// "KEYVAL", "SECTION").
func (r *Recorder) ContextBegun(tag string) {
	r.contextsBegun.WithLabelValues(tag).Inc()
}

// ValidationFailed records one config_valid/mold_valid call that found
// at least one invalid context.
func (r *Recorder) ValidationFailed() {
	r.validationFailures.Inc()
}

// UpdateConflict records one update-engine keyval that surfaced a
// Conflict rather than auto-migrating.
func (r *Recorder) UpdateConflict() {
	r.updateConflicts.Inc()
}

// ObserveUpdateDuration records how long a full update run took, in
// seconds.
func (r *Recorder) ObserveUpdateDuration(seconds float64) {
	r.updateDuration.Observe(seconds)
}
