// Package metrics exports commit pass counters to prometheus.
//
// A nil *Metrics is valid and records nothing.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	namespace = "treepatch"
	subsystem = "commit"
)

// Patch outcome label values.
const (
	OutcomeInPlace  = "in_place"
	OutcomeCloned   = "cloned"
	OutcomeNotFound = "not_found"
)

type Metrics struct {
	// Passes counts commit passes that applied pending patches.
	Passes prometheus.Counter

	// SkippedPasses counts commits recognized as the result of the
	// previous pass.
	SkippedPasses prometheus.Counter

	// Patches counts applied patches.
	// Labels: outcome (in_place, cloned, not_found)
	Patches *prometheus.CounterVec

	// ClonedNodes counts nodes allocated by clone on write.
	ClonedNodes prometheus.Counter

	// Recomputes counts child layout cache recomputations.
	Recomputes prometheus.Counter

	// PassDuration measures the time from draining to layout.
	PassDuration prometheus.Histogram
}

// New creates the metrics and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Passes: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "passes_total",
			Help:      "Commit passes that applied pending patches",
		}),
		SkippedPasses: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "skipped_passes_total",
			Help:      "Commits skipped because the root came from the previous pass",
		}),
		Patches: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "patches_total",
			Help:      "Pending patches processed by outcome",
		}, []string{"outcome"}),
		ClonedNodes: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "cloned_nodes_total",
			Help:      "Nodes allocated by clone on write",
		}),
		Recomputes: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "layout_recomputes_total",
			Help:      "Child layout cache recomputations after in place edits",
		}),
		PassDuration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "pass_duration_seconds",
			Help:      "Commit pass duration in seconds",
			Buckets:   []float64{0.0001, 0.00025, 0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05},
		}),
	}
}

// Pass is what a commit pass reports.
type Pass struct {
	InPlace     int
	Cloned      int
	NotFound    int
	ClonedNodes int
	Recomputes  int
	Duration    time.Duration
}

func (m *Metrics) ObservePass(p Pass) {
	if m == nil {
		return
	}
	m.Passes.Inc()
	m.Patches.WithLabelValues(OutcomeInPlace).Add(float64(p.InPlace))
	m.Patches.WithLabelValues(OutcomeCloned).Add(float64(p.Cloned))
	m.Patches.WithLabelValues(OutcomeNotFound).Add(float64(p.NotFound))
	m.ClonedNodes.Add(float64(p.ClonedNodes))
	m.Recomputes.Add(float64(p.Recomputes))
	m.PassDuration.Observe(p.Duration.Seconds())
}

func (m *Metrics) ObserveSkip() {
	if m == nil {
		return
	}
	m.SkippedPasses.Inc()
}
