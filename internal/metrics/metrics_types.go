// Package metrics exposes Prometheus instruments for simulation runs.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Registry holds all metrics for a simulation run. A nil *Registry is valid
// and records nothing.
type Registry struct {
	CommunitiesTotal *prometheus.CounterVec
	TrialsTotal      prometheus.Counter
	DroppedEdges     prometheus.Counter
	BuildDuration    *prometheus.HistogramVec
	EstimateDuration prometheus.Histogram
	LastAccuracy     prometheus.Gauge
	LastPrecision    prometheus.Gauge

	registry *prometheus.Registry
}

// NewRegistry creates a registry with all metrics initialized.
func NewRegistry() *Registry {
	r := &Registry{registry: prometheus.NewRegistry()}
	r.initCommunityMetrics()
	r.initEstimateMetrics()
	return r
}

func (r *Registry) initCommunityMetrics() {
	r.CommunitiesTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "mvca_communities_total",
			Help: "Total number of communities constructed",
		},
		[]string{"mode", "status"},
	)

	r.DroppedEdges = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "mvca_dropped_edges_total",
			Help: "Edges discarded during rewiring because no candidate target remained",
		},
	)

	r.BuildDuration = promauto.With(r.registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "mvca_build_duration_seconds",
			Help:    "Community construction duration in seconds",
			Buckets: []float64{0.0001, 0.001, 0.01, 0.1, 1.0},
		},
		[]string{"mode"},
	)
}

func (r *Registry) initEstimateMetrics() {
	r.TrialsTotal = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "mvca_voting_trials_total",
			Help: "Total number of community voting trials",
		},
	)

	r.EstimateDuration = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "mvca_estimate_duration_seconds",
			Help:    "Accuracy estimation duration in seconds",
			Buckets: []float64{0.01, 0.1, 1.0, 10.0, 60.0},
		},
	)

	r.LastAccuracy = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "mvca_last_collective_accuracy",
			Help: "Collective accuracy of the most recently estimated community",
		},
	)

	r.LastPrecision = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "mvca_last_collective_accuracy_precision",
			Help: "Confidence interval width of the most recent estimate",
		},
	)
}

// PrometheusRegistry returns the underlying Prometheus registry.
func (r *Registry) PrometheusRegistry() *prometheus.Registry {
	return r.registry
}
