// Package telemetry wraps the prometheus counters and histograms the
// solver driver records around each MCTS iteration. The engine itself
// stays free of I/O per spec.md §5 ("the only blocking call is a clock
// read"); every metric here is updated by internal/solver's driver
// loop, once per iteration, outside the engine.
//
// Grounded on aws-karpenter-provider-aws's prometheus/client_golang
// usage: a Metrics struct holding named collectors, registered with
// the caller's own registerer rather than the global default one.
package telemetry

import "github.com/prometheus/client_golang/prometheus"

// Metrics is the set of collectors one solver run updates.
type Metrics struct {
	Iterations      prometheus.Counter
	NodesExpanded   prometheus.Counter
	Prunes          prometheus.Counter
	BestHard        prometheus.Gauge
	BestSoft        prometheus.Gauge
	IterationLength prometheus.Histogram
}

// New constructs a Metrics set and registers it with reg. Passing a
// fresh prometheus.NewRegistry() keeps one solver run's metrics
// independent of any other in the same process; passing nil registers
// nothing and returns collectors that can still be used standalone.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Iterations: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "examtt",
			Subsystem: "mcts",
			Name:      "iterations_total",
			Help:      "Number of select/expand/simulate/backpropagate cycles run.",
		}),
		NodesExpanded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "examtt",
			Subsystem: "mcts",
			Name:      "nodes_expanded_total",
			Help:      "Number of tree nodes created by Expand.",
		}),
		Prunes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "examtt",
			Subsystem: "mcts",
			Name:      "prunes_total",
			Help:      "Number of subtrees discarded by branch-and-bound pruning.",
		}),
		BestHard: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "examtt",
			Subsystem: "mcts",
			Name:      "best_hard",
			Help:      "Hard-violation count of the current incumbent.",
		}),
		BestSoft: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "examtt",
			Subsystem: "mcts",
			Name:      "best_soft",
			Help:      "Soft-penalty total of the current incumbent.",
		}),
		IterationLength: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "examtt",
			Subsystem: "mcts",
			Name:      "iteration_seconds",
			Help:      "Wall-clock duration of one MCTS iteration.",
			Buckets:   prometheus.DefBuckets,
		}),
	}
	if reg != nil {
		reg.MustRegister(m.Iterations, m.NodesExpanded, m.Prunes, m.BestHard, m.BestSoft, m.IterationLength)
	}
	return m
}
