package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestObserve(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)
	m.ObservePass(Pass{InPlace: 2, Cloned: 1, NotFound: 3, ClonedNodes: 5, Recomputes: 2, Duration: time.Millisecond})
	m.ObservePass(Pass{InPlace: 1})
	m.ObserveSkip()

	tests := []struct {
		name string
		c    prometheus.Collector
		want float64
	}{
		{"passes", m.Passes, 2},
		{"skipped", m.SkippedPasses, 1},
		{"in place", m.Patches.WithLabelValues(OutcomeInPlace), 3},
		{"cloned", m.Patches.WithLabelValues(OutcomeCloned), 1},
		{"not found", m.Patches.WithLabelValues(OutcomeNotFound), 3},
		{"cloned nodes", m.ClonedNodes, 5},
		{"recomputes", m.Recomputes, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := testutil.ToFloat64(tt.c); got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
	if n := testutil.CollectAndCount(m.PassDuration); n != 1 {
		t.Errorf("histogram series %d", n)
	}
}

func TestNilMetrics(t *testing.T) {
	var m *Metrics
	m.ObservePass(Pass{InPlace: 1})
	m.ObserveSkip()
}
