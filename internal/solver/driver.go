package solver

import (
	"time"

	"github.com/examtt/core/internal/assignment"
	"github.com/examtt/core/internal/config"
	"github.com/examtt/core/internal/instance"
	"github.com/examtt/core/internal/mcts"
	"github.com/examtt/core/internal/obslog"
	"github.com/examtt/core/internal/rng"
	"github.com/examtt/core/internal/telemetry"
)

// Result is what the driver surfaces once the anytime loop ends: the
// best booking observed, the list of improving incumbents in the
// order they were found, and run statistics.
type Result struct {
	Best         mcts.Solution
	Incumbents   []mcts.Solution
	Iterations   int
	NodesCreated int
	Elapsed      time.Duration
	StopReason   string
}

// BestAssignment recovers the Assignment behind Result.Best, panicking
// only if Result is the zero value (Run was never called).
func (r Result) BestAssignment() *assignment.Assignment {
	return r.Best.Data.(*assignment.Assignment)
}

// Driver owns one Instance and wires it to the MCTS engine for the
// duration of one Run call (spec §2 row G).
type Driver struct {
	inst    *instance.Instance
	cfg     config.Config
	log     *obslog.Logger
	metrics *telemetry.Metrics
}

// New builds a Driver. log and metrics may be nil to disable
// structured logging / metrics respectively.
func New(inst *instance.Instance, cfg config.Config, log *obslog.Logger, metrics *telemetry.Metrics) *Driver {
	return &Driver{inst: inst, cfg: cfg, log: log, metrics: metrics}
}

// Run executes the anytime MCTS loop (spec §4.G) until the configured
// time or iteration budget is exhausted, a hard=0 incumbent is found
// and StopOnFeasible is set, or interrupt fires (spec §7's cooperative
// Interrupted termination). It always returns a well-formed Result:
// every Assignment mutation happens on a freshly cloned child, so a
// mid-iteration interrupt never leaves a node half-updated.
func (d *Driver) Run(interrupt <-chan struct{}) Result {
	if d.log != nil {
		d.log.InstanceLoaded(len(d.inst.Exams), len(d.inst.Periods), len(d.inst.Rooms))
	}

	root := newRootNode(d.inst, d.cfg.Seed)
	masterRNG := rng.FromSeed(d.cfg.Seed)
	tree := mcts.NewTree(root, masterRNG, mcts.Config{
		ExplorationConst: d.cfg.ExplorationConst,
		ExpansionLimit:   1,
	})

	start := time.Now()
	iter := 0
	incumbentsSeen := 0
	stopReason := "budget"

loop:
	for {
		select {
		case <-interrupt:
			stopReason = "interrupted"
			break loop
		default:
		}
		if d.cfg.TimeLimit > 0 && time.Since(start) >= d.cfg.TimeLimit {
			stopReason = "budget"
			break loop
		}
		if d.cfg.IterationLimit > 0 && iter >= d.cfg.IterationLimit {
			stopReason = "iterations"
			break loop
		}

		iterStart := time.Now()
		idx := tree.Select()
		childIdx, expanded := tree.Expand(idx)
		if expanded {
			tree.Backpropagate(childIdx)
			if d.metrics != nil {
				d.metrics.NodesExpanded.Inc()
			}
		} else {
			tree.Backpropagate(idx)
		}

		if d.cfg.Pruning {
			if pruned := tree.Prune(); pruned > 0 && d.metrics != nil {
				d.metrics.Prunes.Add(float64(pruned))
			}
		}

		iter++
		sols := tree.Solutions()

		if d.metrics != nil {
			d.metrics.Iterations.Inc()
			d.metrics.BestHard.Set(float64(sols.Best.Value.Hard))
			d.metrics.BestSoft.Set(float64(sols.Best.Value.Soft))
			d.metrics.IterationLength.Observe(time.Since(iterStart).Seconds())
		}

		if d.log != nil {
			if len(sols.Incumbents) > incumbentsSeen {
				incumbentsSeen = len(sols.Incumbents)
				d.log.NewBest(iter, sols.Best.Value.Hard, sols.Best.Value.Soft)
			}
			if d.cfg.ProgressEvery > 0 && iter%d.cfg.ProgressEvery == 0 {
				d.log.Progress(iter, tree.Size(), sols.Best.Value.Hard, sols.Best.Value.Soft)
			}
		}

		if d.cfg.StopOnFeasible && sols.Best.Value.Feasible() {
			stopReason = "feasible"
			break loop
		}
	}

	sols := tree.Solutions()
	return Result{
		Best:         sols.Best,
		Incumbents:   sols.Incumbents,
		Iterations:   iter,
		NodesCreated: tree.Size(),
		Elapsed:      time.Since(start),
		StopReason:   stopReason,
	}
}
