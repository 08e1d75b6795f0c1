// Package metrics exposes Prometheus metrics for configuration loading and
// binding. All metrics are registered on the default registry through
// promauto, so importing the package is enough for a /metrics handler to
// pick them up.
//
// # Basic Usage
//
//	timer := metrics.NewTimer("load")
//	store, err := loader.Load(ctx, "application.yaml")
//	metrics.LoadDuration.Observe(timer.Stop().Seconds())
//
//	metrics.DocumentsLoaded.WithLabelValues(metrics.RoleBase, metrics.OutcomeLoaded).Inc()
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Document roles.
const (
	RoleBase    = "base"
	RoleProfile = "profile"
)

// Outcomes shared by the document and bind counters.
const (
	OutcomeLoaded  = "loaded"
	OutcomeMissing = "missing"
	OutcomeEmpty   = "empty"
	OutcomeError   = "error"
	OutcomeSuccess = "success"
)

var (
	// DocumentsLoaded counts document reads.
	// Labels: role (base/profile), outcome (loaded/missing/empty/error)
	DocumentsLoaded = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "strata_documents_total",
			Help: "Total number of configuration documents read",
		},
		[]string{"role", "outcome"},
	)

	// LoadDuration tracks end-to-end Load latency in seconds, from the first
	// source read to the frozen store.
	LoadDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name: "strata_load_duration_seconds",
			Help: "Duration of configuration loads in seconds",
			Buckets: []float64{
				0.0005, // embedded and local documents
				0.001,
				0.005,
				0.01,
				0.05,
				0.1, // object storage round trips
				0.5,
				1,
				5,
			},
		},
	)

	// PlaceholdersResolved counts placeholder substitutions by where the
	// value came from.
	// Labels: source (property/environment/default/unresolved)
	PlaceholdersResolved = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "strata_placeholders_resolved_total",
			Help: "Total number of ${NAME:DEFAULT} placeholders resolved",
		},
		[]string{"source"},
	)

	// Binds counts bind attempts per schema.
	// Labels: schema, outcome (success/error)
	Binds = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "strata_binds_total",
			Help: "Total number of schema binds",
		},
		[]string{"schema", "outcome"},
	)
)

// Timer measures elapsed time for an operation.
type Timer struct {
	start time.Time
	name  string
}

// NewTimer creates a new timer and starts timing immediately.
func NewTimer(name string) *Timer {
	return &Timer{
		start: time.Now(),
		name:  name,
	}
}

// Name returns the operation name given to NewTimer.
func (t *Timer) Name() string { return t.name }

// Stop returns the elapsed duration since creation. It can be called more
// than once.
func (t *Timer) Stop() time.Duration {
	return time.Since(t.start)
}
