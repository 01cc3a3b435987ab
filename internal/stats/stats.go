// Package stats counts match decisions as Prometheus metrics. A batch run
// writes them out in the node exporter textfile format.
package stats

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/lehigh-university-libraries/bibmatch/internal/matching"
	"github.com/lehigh-university-libraries/bibmatch/internal/vocab"
)

const namespace = "bibmatch"

// Recorder holds the decision counters of one run.
type Recorder struct {
	registry *prometheus.Registry

	decisions    *prometheus.CounterVec
	duplicates   *prometheus.CounterVec
	mismatches   *prometheus.CounterVec
	crossLibrary *prometheus.CounterVec
	rejected     *prometheus.CounterVec
	failures     *prometheus.CounterVec
}

// NewRecorder creates a recorder with its own registry.
func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		decisions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "decisions_total",
			Help:      "Match decisions by system, destination library and action.",
		}, []string{"system", "library", "action"}),
		duplicates: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "duplicate_decisions_total",
			Help:      "Decisions that found more than one matchable catalog record.",
		}, []string{"system"}),
		mismatches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "call_number_mismatches_total",
			Help:      "Decisions whose target call number differs from the incoming one.",
		}, []string{"system"}),
		crossLibrary: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cross_library_candidates_total",
			Help:      "Candidates excluded because another library owns them.",
		}, []string{"system", "ownership"}),
		rejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rejected_candidates_total",
			Help:      "Candidates dropped for having no record id.",
		}, []string{"system"}),
		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "record_failures_total",
			Help:      "Incoming records that could not be decided.",
		}, []string{"system"}),
	}

	r.registry.MustRegister(r.decisions, r.duplicates, r.mismatches, r.crossLibrary, r.rejected, r.failures)
	return r
}

// Registry exposes the recorder's registry.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// Observe counts one decision. rejected is the number of candidates the
// normalizer dropped for the record.
func (r *Recorder) Observe(system vocab.System, lib vocab.Library, d matching.Decision, rejected int) {
	sys := string(system)

	r.decisions.WithLabelValues(sys, string(lib), string(d.Action)).Inc()
	if d.HasDuplicates() {
		r.duplicates.WithLabelValues(sys).Inc()
	}
	if !d.CallNumbersMatch {
		r.mismatches.WithLabelValues(sys).Inc()
	}
	if n := len(d.CrossLibrary.Mixed); n > 0 {
		r.crossLibrary.WithLabelValues(sys, string(vocab.OwnershipMixed)).Add(float64(n))
	}
	if n := len(d.CrossLibrary.Other); n > 0 {
		r.crossLibrary.WithLabelValues(sys, string(lib.Opposite())).Add(float64(n))
	}
	if rejected > 0 {
		r.rejected.WithLabelValues(sys).Add(float64(rejected))
	}
}

// Failure counts a record that produced an error instead of a decision.
func (r *Recorder) Failure(system vocab.System) {
	r.failures.WithLabelValues(string(system)).Inc()
}

// WriteTextfile writes every metric to path for the textfile collector.
func (r *Recorder) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("failed to write metrics file: %w", err)
	}
	return nil
}
