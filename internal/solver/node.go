// Package solver wires the instance model, the feasibility tester,
// the DSatur heuristic and the evaluator into the generic MCTS engine
// of internal/mcts, and owns the anytime search loop: the time and
// iteration budget, optional branch-and-bound pruning, and incumbent
// surfacing (spec §2 row G, "solver driver").
package solver

import (
	"math/rand"

	"github.com/examtt/core/internal/assignment"
	"github.com/examtt/core/internal/dsatur"
	"github.com/examtt/core/internal/evaluator"
	"github.com/examtt/core/internal/instance"
	"github.com/examtt/core/internal/mcts"
	"github.com/examtt/core/internal/rng"
)

// examNode is the domain mcts.Node: a partial Assignment plus its
// DSatur scratch, addressed by an explicit per-node seed so every
// node's Branches draws from an independent, deterministic stream
// (spec §9, "replace global RNG"). Simulate uses the RNG the tree
// passes in, not the node's seed.
type examNode struct {
	inst    *instance.Instance
	asn     *assignment.Assignment
	scratch *dsatur.Scratch
	seed    int64
}

// newRootNode returns the empty-assignment root for inst.
func newRootNode(inst *instance.Instance, seed int64) *examNode {
	return &examNode{
		inst:    inst,
		asn:     assignment.New(inst),
		scratch: dsatur.NewScratch(inst),
		seed:    seed,
	}
}

// Branches picks the next exam via DSatur (spec §4.D) and enumerates
// its candidate (period, rooms) decisions (spec §4.E). A fully booked
// assignment has nothing left to decide and is terminal.
func (n *examNode) Branches() []interface{} {
	exam := dsatur.NextExam(n.inst, n.scratch)
	if exam == -1 {
		return nil
	}
	r := rng.FromSeed(n.seed)
	branches := dsatur.Branches(n.inst, n.asn, exam, r)
	out := make([]interface{}, len(branches))
	for i, b := range branches {
		out[i] = b
	}
	return out
}

// Apply clones the Assignment and DSatur scratch (spec §9's explicit
// Assignment::clone, never a deep copy of the shared Instance) and
// commits branch to the clone.
func (n *examNode) Apply(branch interface{}) mcts.Node {
	b := branch.(dsatur.Branch)
	asn := n.asn.Clone()
	asn.Place(b.Exam, b.Period, b.Rooms)
	scratch := n.scratch.Clone()
	scratch.MarkBooked(n.inst, b.Exam, b.Period)
	childSeed := rng.Derive(n.seed, uint64(b.Exam)*uint64(len(n.inst.Periods)+1)+uint64(b.Period))
	return &examNode{inst: n.inst, asn: asn, scratch: scratch, seed: childSeed}
}

// Simulate completes a clone of this state into a full booking via the
// rollout heuristic of spec §4.G and scores it with the evaluator
// (spec §4.F). The node's own Assignment is never mutated: a rollout
// is a disposable estimate of how this branch could turn out, not a
// commitment. The completed clone is returned alongside the Value so
// that a Solution recorded from this rollout can be materialized back
// into an actual booking later, rather than only the (possibly
// partial) state Simulate was called on.
func (n *examNode) Simulate(r *rand.Rand) (mcts.Value, interface{}) {
	asn := n.asn.Clone()
	scratch := n.scratch.Clone()
	for {
		exam := dsatur.NextExam(n.inst, scratch)
		if exam == -1 {
			break
		}
		period := dsatur.RolloutPeriod(n.inst, asn, exam, r)
		rooms := dsatur.PickRooms(n.inst, asn, exam, period, r)
		if rooms == nil {
			if len(n.inst.Rooms) == 0 {
				break
			}
			rooms = []int{r.Intn(len(n.inst.Rooms))}
		}
		asn.Place(exam, period, rooms)
		scratch.MarkBooked(n.inst, exam, period)
	}
	report := evaluator.Evaluate(n.inst, asn)
	return mcts.Value{Hard: report.Hard(), Soft: report.Soft()}, asn
}

// Bound returns the hard-violation count already locked in by this
// node's own (partial) bookings. Every hard-violation counter in
// internal/evaluator is monotone in the set of bookings — a clash
// between two booked exams, an overbooked room, a broken period or
// room constraint all stay violated once true — so this is a valid
// lower bound on the Hard component of any completion, with Soft left
// at its most optimistic value (0) since no soft component is bounded
// here.
func (n *examNode) Bound() (mcts.Value, bool) {
	report := evaluator.Evaluate(n.inst, n.asn)
	return mcts.Value{Hard: report.Hard(), Soft: 0}, true
}
