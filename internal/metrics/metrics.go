// Package metrics records run statistics in a Prometheus registry that is
// written out as a node-exporter textfile at the end of a run.
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Registry holds the metrics of one analysis run.
type Registry struct {
	reg *prometheus.Registry

	// Grid search
	Candidates  *prometheus.CounterVec
	FitDuration prometheus.Histogram

	// Pipeline stages
	StageDuration *prometheus.HistogramVec

	// Last run
	LastRun prometheus.Gauge
}

// NewRegistry creates and registers all metrics.
func NewRegistry() *Registry {
	r := &Registry{
		reg: prometheus.NewRegistry(),
		Candidates: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "arimaselect_grid_candidates_total",
				Help: "Grid search candidates by outcome",
			},
			[]string{"outcome"},
		),
		FitDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "arimaselect_fit_duration_seconds",
				Help:    "Duration of one model estimation in seconds",
				Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0},
			},
		),
		StageDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "arimaselect_stage_duration_seconds",
				Help:    "Duration of each pipeline stage in seconds",
				Buckets: []float64{0.001, 0.01, 0.1, 0.5, 1.0, 5.0, 10.0, 30.0},
			},
			[]string{"stage"},
		),
		LastRun: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "arimaselect_last_run_timestamp_seconds",
				Help: "Unix time the last analysis run finished",
			},
		),
	}

	r.reg.MustRegister(r.Candidates, r.FitDuration, r.StageDuration, r.LastRun)
	return r
}

// ObserveCandidate records one finished grid candidate.
func (r *Registry) ObserveCandidate(label string, ok bool, elapsed time.Duration) {
	outcome := "failed"
	if ok {
		outcome = "ok"
	}
	r.Candidates.WithLabelValues(outcome).Inc()
	r.FitDuration.Observe(elapsed.Seconds())
}

// ObserveStage records the duration of a pipeline stage.
func (r *Registry) ObserveStage(stage string, elapsed time.Duration) {
	r.StageDuration.WithLabelValues(stage).Observe(elapsed.Seconds())
}

// Gatherer exposes the underlying registry.
func (r *Registry) Gatherer() prometheus.Gatherer {
	return r.reg
}

// WriteTextfile stamps the run time and writes all metrics to path in the
// text exposition format.
func (r *Registry) WriteTextfile(path string) error {
	r.LastRun.SetToCurrentTime()
	if err := prometheus.WriteToTextfile(path, r.reg); err != nil {
		return fmt.Errorf("failed to write metrics textfile: %w", err)
	}
	return nil
}
