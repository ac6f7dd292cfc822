package mcts

import (
	"math"
	"math/rand"
)

// entry is one arena slot. Children are addressed by index rather
// than pointer so that Delete/Prune can drop a subtree by clearing a
// parent's child-index slice without worrying about who else holds a
// reference to it.
type entry struct {
	parent   int
	domain   Node
	depth    int
	children []int

	branches     []interface{}
	branchesInit bool
	cursor       int

	visits  int
	simBest Value
	pruned  bool
}

func (e *entry) fullyExpanded() bool {
	return e.branchesInit && e.cursor >= len(e.branches)
}

// Tree is the arena-backed search tree rooted at index 0.
//
// Grounded on katalvlaran-lvlath/tsp/bb.go's index-addressed
// branch-and-bound frontier for the arena layout, and on
// rr/opt/mcts/simple.py's TreeNode for the select/expand/backpropagate
// semantics.
type Tree struct {
	nodes            []*entry
	sols             *Solutions
	rng              *rand.Rand
	explorationConst float64
	expansionLimit   int
}

// Config tunes the search without changing its semantics.
type Config struct {
	// ExplorationConst scales the UCB-style exploration term of
	// SelectionScore. Zero selects a pure-exploitation search.
	ExplorationConst float64
	// ExpansionLimit is reserved for a future cap on children added
	// per visit; the current engine always expands exactly one branch
	// per Select/Expand round, matching
	// rr/opt/mcts/simple.py's EXPANSION_LIMIT = 1.
	ExpansionLimit int
}

// DefaultConfig reproduces rr/opt/mcts/simple.py's selection_score
// literally: that formula has no separate multiplier on its explore
// term (sqrt(2*log(parent.sim_count)/sim_count) is used as-is), which
// is the same as this engine's explore term with ExplorationConst 1.
func DefaultConfig() Config {
	return Config{ExplorationConst: 1, ExpansionLimit: 1}
}

// NewTree seeds the arena with root and records its own rollout value
// as the root's baseline simBest.
func NewTree(root Node, rng *rand.Rand, cfg Config) *Tree {
	t := &Tree{
		sols:             NewSolutions(),
		rng:              rng,
		explorationConst: cfg.ExplorationConst,
		expansionLimit:   cfg.ExpansionLimit,
	}
	rootValue, rootData := root.Simulate(rng)
	t.nodes = append(t.nodes, &entry{parent: -1, domain: root, simBest: rootValue})
	t.sols.Update(Solution{Value: rootValue, Data: rootData})
	return t
}

// Solutions returns the live tracker of best/worst values seen so far.
func (t *Tree) Solutions() *Solutions {
	return t.sols
}

func (t *Tree) ensureBranches(idx int) {
	e := t.nodes[idx]
	if e.branchesInit {
		return
	}
	e.branches = e.domain.Branches()
	e.branchesInit = true
}

// selectionScore follows rr/opt/mcts/simple.py's TreeNode.selection_score
// literally: exploit rescales the node's best rollout value into the
// min_exploit..max_exploit band appropriate to its feasible/infeasible
// stratum (so every infeasible node always scores below every feasible
// one), explore is the standard UCB1 term over visit counts, and expand
// is the 1/(1+depth) regularizer that favors deeper (more complete)
// nodes when exploit/explore are tied.
func selectionScore(parentVisits, visits, depth int, simBest Value, sols *Solutions, c float64) float64 {
	if visits == 0 {
		return math.Inf(1)
	}
	exploit := exploitationTerm(simBest, sols)
	explore := c * math.Sqrt(2*math.Log(float64(parentVisits))/float64(visits))
	expand := 1.0 / (1.0 + float64(depth))
	return exploit + explore + expand
}

// exploitationTerm implements simple.py:489-506's min_exploit/max_exploit
// rescale. zNode/zBest/zWorst are the scalar projection of Value that
// simple.py's z represents: Soft for feasible values (Hard is always 0
// there) and Hard for infeasible ones (the Infeasible(d) degree of
// spec §4.H).
func exploitationTerm(v Value, sols *Solutions) float64 {
	total := sols.FeasCount + sols.InfeasCount
	var zNode, zBest, zWorst, minExploit, maxExploit float64
	if v.Feasible() {
		zNode, zBest, zWorst = float64(v.Soft), float64(sols.FeasBest.Soft), float64(sols.FeasWorst.Soft)
		if total > 0 {
			minExploit = float64(sols.InfeasCount) / float64(total)
		}
		maxExploit = 1.0
	} else {
		zNode, zBest, zWorst = float64(v.Hard), float64(sols.InfeasBest.Hard), float64(sols.InfeasWorst.Hard)
		minExploit = 0.0
		maxExploit = float64(sols.InfeasCount) / float64(1+total)
	}
	rawExploit := 0.0
	if zBest != zWorst {
		rawExploit = (zWorst - zNode) / (zWorst - zBest)
	}
	return minExploit + rawExploit*(maxExploit-minExploit)
}

// Select walks from the root to a node that still has an unexpanded
// branch (or is terminal), following the highest-scoring child at
// each step (ties broken uniformly at random with the tree's RNG), and
// returns its index.
func (t *Tree) Select() int {
	idx := 0
	for {
		e := t.nodes[idx]
		t.ensureBranches(idx)
		if !e.fullyExpanded() || len(e.children) == 0 {
			return idx
		}
		best := -1
		bestScore := math.Inf(-1)
		ties := 0
		parentVisits := e.visits
		for _, c := range e.children {
			ce := t.nodes[c]
			if ce.pruned {
				continue
			}
			score := selectionScore(parentVisits, ce.visits, ce.depth, ce.simBest, t.sols, t.explorationConst)
			if score > bestScore {
				best, bestScore, ties = c, score, 1
			} else if score == bestScore {
				ties++
				if t.rng.Intn(ties) == 0 {
					best = c
				}
			}
		}
		if best == -1 {
			return idx
		}
		idx = best
	}
}

// Expand adds one new child to idx by taking its next unexplored
// branch, rolling it out, and recording the rollout in the solutions
// tracker. It returns the new child's index and true, or -1 and false
// if idx has no branch left to take.
func (t *Tree) Expand(idx int) (int, bool) {
	t.ensureBranches(idx)
	e := t.nodes[idx]
	if e.cursor >= len(e.branches) {
		return -1, false
	}
	branch := e.branches[e.cursor]
	e.cursor++

	child := e.domain.Apply(branch)
	value, data := child.Simulate(t.rng)

	childIdx := len(t.nodes)
	t.nodes = append(t.nodes, &entry{parent: idx, domain: child, depth: e.depth + 1, simBest: value})
	e.children = append(e.children, childIdx)

	t.sols.Update(Solution{Value: value, Data: data})
	return childIdx, true
}

// Backpropagate recomputes simBest bottom-up from idx to the root:
// each node's simBest is the minimum of its own rollout value and the
// simBest of every non-pruned child.
func (t *Tree) Backpropagate(idx int) {
	for idx != -1 {
		e := t.nodes[idx]
		e.visits++
		for _, c := range e.children {
			ce := t.nodes[c]
			if ce.pruned {
				continue
			}
			if ce.simBest.Less(e.simBest) {
				e.simBest = ce.simBest
			}
		}
		idx = e.parent
	}
}

// Delete marks idx and its whole subtree pruned, then repairs simBest
// from idx's parent up to the root. The node stays in the arena (other
// indices remain valid) but Select/Backpropagate skip it.
func (t *Tree) Delete(idx int) {
	if idx == 0 {
		return
	}
	t.pruneSubtree(idx)
	t.Backpropagate(t.nodes[idx].parent)
}

func (t *Tree) pruneSubtree(idx int) {
	e := t.nodes[idx]
	if e.pruned {
		return
	}
	e.pruned = true
	for _, c := range e.children {
		t.pruneSubtree(c)
	}
}

// Prune performs one DFS sweep from the root, deleting every node
// whose domain bound cannot beat the current incumbent. It returns the
// number of subtrees pruned.
func (t *Tree) Prune() int {
	return t.pruneFrom(0)
}

func (t *Tree) pruneFrom(idx int) int {
	e := t.nodes[idx]
	if e.pruned {
		return 0
	}
	if bound, ok := e.domain.Bound(); ok && idx != 0 {
		if !bound.Less(t.sols.Best.Value) {
			t.Delete(idx)
			return 1
		}
	}
	count := 0
	for _, c := range e.children {
		count += t.pruneFrom(c)
	}
	return count
}

// Size returns the number of nodes ever allocated, pruned or not.
func (t *Tree) Size() int {
	return len(t.nodes)
}
