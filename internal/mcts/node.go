// Package mcts implements the generic Monte Carlo Tree Search engine
// of spec.md §4.G/§4.H: selection, lazy expansion, rollout-based
// simulation, backpropagation and branch-and-bound pruning, entirely in
// terms of a small Node interface. Every exam-timetabling-specific
// decision (which exam to branch on, how a rollout completes a
// booking, how a bound is computed) lives behind that interface in
// internal/solver; this package only ever sees opaque branch tokens
// and (Hard, Soft) values.
//
// Grounded on rr/opt/mcts/simple.py's TreeNode/TreeNodeExpansion
// abstract engine, restructured as an arena of nodes addressed by
// index (see tree.go) rather than parent/child object references, per
// spec.md §9's note that Go has no ownership-cycle-free way to mirror
// Python's bidirectional node graph.
package mcts

import "math/rand"

// Node is one state in the search: a partial or complete booking plus
// enough context to enumerate further decisions from it.
type Node interface {
	// Branches lists the decisions available from this state, in a
	// fixed deterministic order. An empty result means the state is
	// terminal (nothing left to decide).
	Branches() []interface{}

	// Apply returns the child state reached by taking branch, which
	// must be one of the values Branches returned.
	Apply(branch interface{}) Node

	// Simulate completes this state into a full booking via the
	// domain rollout heuristic and scores it. The returned data is the
	// completed booking itself (opaque to this package), so a Solution
	// recorded from it reflects what the rollout actually built rather
	// than the possibly-partial state Simulate was called on.
	Simulate(rng *rand.Rand) (Value, interface{})

	// Bound estimates the best Value reachable from this state. ok is
	// false when the domain declines to bound (pruning then never
	// fires for this node).
	Bound() (bound Value, ok bool)
}
