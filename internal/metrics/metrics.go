package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// RecordBuild records a community construction attempt.
func (r *Registry) RecordBuild(mode string, err error, dropped int, duration time.Duration) {
	if r == nil {
		return
	}
	status := "ok"
	if err != nil {
		status = "error"
	}
	r.CommunitiesTotal.WithLabelValues(mode, status).Inc()
	r.BuildDuration.WithLabelValues(mode).Observe(duration.Seconds())
	if dropped > 0 {
		r.DroppedEdges.Add(float64(dropped))
	}
}

// RecordEstimate records one accuracy estimation over trials votes.
func (r *Registry) RecordEstimate(trials int, accuracy, precision float64, duration time.Duration) {
	if r == nil {
		return
	}
	r.TrialsTotal.Add(float64(trials))
	r.EstimateDuration.Observe(duration.Seconds())
	r.LastAccuracy.Set(accuracy)
	r.LastPrecision.Set(precision)
}

// WriteTextfile writes all metrics in the text exposition format for the
// node exporter textfile collector. The write is atomic.
func (r *Registry) WriteTextfile(path string) error {
	if r == nil || path == "" {
		return nil
	}
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("writing metrics textfile: %w", err)
	}
	return nil
}
