// Package metrics exposes Prometheus collectors that mirror a tally pass.
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/JakeFAU/enqueue-tally/internal/logline"
)

// Recorder owns the tally collectors. It implements tally.Observer.
type Recorder struct {
	registry *prometheus.Registry

	linesTotal       *prometheus.CounterVec
	talliedTotal     *prometheus.CounterVec
	duplicatesTotal  prometheus.Counter
	lastRunDuration  prometheus.Gauge
	lastRunTimestamp prometheus.Gauge
}

// NewRecorder registers the collectors against a fresh registry.
func NewRecorder() *Recorder {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	r := &Recorder{
		registry: reg,
		linesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "enqueue_tally_lines_total",
				Help: "Log lines read, labeled by classification outcome.",
			},
			[]string{"outcome"},
		),
		talliedTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "enqueue_tally_enqueues_total",
				Help: "Tallied enqueue events, labeled by thread id.",
			},
			[]string{"thread"},
		),
		duplicatesTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "enqueue_tally_duplicate_enqueues_total",
				Help: "Enqueue events whose path had already been enqueued.",
			},
		),
		lastRunDuration: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "enqueue_tally_last_run_duration_seconds",
				Help: "Wall time of the last tally pass.",
			},
		),
		lastRunTimestamp: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "enqueue_tally_last_run_timestamp_seconds",
				Help: "Unix time at which the last tally pass finished.",
			},
		),
	}

	// Pre-create the outcome series so a textfile always lists all of them.
	for _, outcome := range logline.Outcomes() {
		r.linesTotal.WithLabelValues(string(outcome))
	}
	return r
}

// Registry exposes the underlying registry, mainly for tests.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// ObserveLine counts a classified line.
func (r *Recorder) ObserveLine(outcome logline.Outcome) {
	r.linesTotal.WithLabelValues(string(outcome)).Inc()
}

// ObserveTallied counts an enqueue event for threadID.
func (r *Recorder) ObserveTallied(threadID string, duplicate bool) {
	r.talliedTotal.WithLabelValues(threadID).Inc()
	if duplicate {
		r.duplicatesTotal.Inc()
	}
}

// ObserveRun records the duration and completion time of a pass.
func (r *Recorder) ObserveRun(d time.Duration, finished time.Time) {
	r.lastRunDuration.Set(d.Seconds())
	r.lastRunTimestamp.Set(float64(finished.Unix()))
}

// WriteTextfile writes all collectors in the Prometheus text format, suitable
// for the node_exporter textfile collector.
func (r *Recorder) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}
