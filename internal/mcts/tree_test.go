package mcts

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

// fakeNode is a minimal Node for exercising the engine without any
// exam-timetabling domain code: each node carries an integer "depth"
// and branches into depth+1 up to maxDepth, with Value.Hard equal to
// maxDepth-depth (so deeper nodes, i.e. more complete "bookings", are
// better) and Soft always 0.
type fakeNode struct {
	depth, maxDepth int
}

func (n *fakeNode) Branches() []interface{} {
	if n.depth >= n.maxDepth {
		return nil
	}
	return []interface{}{n.depth + 1, -(n.depth + 1)} // two branch tokens per level
}

func (n *fakeNode) Apply(branch interface{}) Node {
	return &fakeNode{depth: n.depth + 1, maxDepth: n.maxDepth}
}

func (n *fakeNode) Simulate(rng *rand.Rand) (Value, interface{}) {
	return Value{Hard: n.maxDepth - n.depth, Soft: 0}, n.depth
}

func (n *fakeNode) Bound() (Value, bool) {
	return Value{Hard: n.maxDepth - n.depth, Soft: 0}, true
}

func TestTreeSelectExpandBackpropagateConverges(t *testing.T) {
	root := &fakeNode{depth: 0, maxDepth: 4}
	rng := rand.New(rand.NewSource(7))
	tree := NewTree(root, rng, DefaultConfig())

	for i := 0; i < 100; i++ {
		idx := tree.Select()
		childIdx, ok := tree.Expand(idx)
		if ok {
			tree.Backpropagate(childIdx)
		} else {
			tree.Backpropagate(idx)
		}
	}

	require.Equal(t, 0, tree.Solutions().Best.Value.Hard)
	require.True(t, tree.Size() > 1)
}

func TestPruneRemovesDominatedSubtrees(t *testing.T) {
	root := &fakeNode{depth: 0, maxDepth: 3}
	rng := rand.New(rand.NewSource(3))
	tree := NewTree(root, rng, DefaultConfig())

	// drive the incumbent down to hard=0 first.
	for i := 0; i < 50; i++ {
		idx := tree.Select()
		if childIdx, ok := tree.Expand(idx); ok {
			tree.Backpropagate(childIdx)
		} else {
			tree.Backpropagate(idx)
		}
	}
	require.Equal(t, 0, tree.Solutions().Best.Value.Hard)

	pruned := tree.Prune()
	require.Greater(t, pruned, 0)
}

func TestDeleteMarksSubtreePrunedAndRepairsAncestors(t *testing.T) {
	root := &fakeNode{depth: 0, maxDepth: 2}
	rng := rand.New(rand.NewSource(1))
	tree := NewTree(root, rng, DefaultConfig())

	childIdx, ok := tree.Expand(0)
	require.True(t, ok)
	tree.Backpropagate(childIdx)

	otherChildIdx, ok := tree.Expand(0)
	require.True(t, ok)
	tree.Backpropagate(otherChildIdx)

	tree.Delete(childIdx)
	require.True(t, tree.nodes[childIdx].pruned)
	require.False(t, tree.nodes[0].pruned)
}
