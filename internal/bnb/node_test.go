package bnb

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/milpkit/milpkit/pkg/milp"
)

func TestSplitPartitionsIntegers(t *testing.T) {
	for _, tt := range []struct {
		Value float64
		Left  float64
		Right float64
	}{
		{Value: 2.5, Left: 2, Right: 3},
		{Value: 0.3, Left: 0, Right: 1},
		{Value: -1.5, Left: -2, Right: -1},
		{Value: -0.25, Left: -1, Right: 0},
		{Value: 1e6 + 0.5, Left: 1e6, Right: 1e6 + 1},
	} {
		left, right := root().split(2, "x", tt.Value)
		require.Len(t, left.Constraints(), 1)
		require.Len(t, right.Constraints(), 1)
		l, r := left.Constraints()[0], right.Constraints()[0]

		assert.Equal(t, milp.Bound("x", milp.LessEqual, tt.Left), l)
		assert.Equal(t, milp.Bound("x", milp.GreaterEqual, tt.Right), r)

		// Every integer lands in exactly one child and the value in neither.
		for k := math.Floor(tt.Value) - 3; k <= math.Floor(tt.Value)+3; k++ {
			inLeft := k <= l.RHS
			inRight := k >= r.RHS
			assert.True(t, inLeft != inRight, "integer %v for value %v", k, tt.Value)
		}
		assert.False(t, tt.Value <= l.RHS || tt.Value >= r.RHS)
	}
}

func TestNodeSharesAncestors(t *testing.T) {
	n := root()
	assert.Equal(t, 1, n.ID)
	assert.Empty(t, n.Constraints())

	left, right := n.split(2, "x", 2.5)
	assert.Equal(t, 2, left.ID)
	assert.Equal(t, 3, right.ID)
	assert.Equal(t, 1, left.Depth)

	ll, lr := left.split(4, "y", 0.5)
	assert.Equal(t, []milp.Constraint{
		milp.Bound("x", milp.LessEqual, 2),
		milp.Bound("y", milp.LessEqual, 0),
	}, ll.Constraints())
	assert.Equal(t, []milp.Constraint{
		milp.Bound("x", milp.LessEqual, 2),
		milp.Bound("y", milp.GreaterEqual, 1),
	}, lr.Constraints())
	assert.Same(t, ll.tail.parent, lr.tail.parent)

	// Expanding children leaves the parent and the sibling untouched.
	assert.Equal(t, []milp.Constraint{milp.Bound("x", milp.LessEqual, 2)}, left.Constraints())
	assert.Equal(t, []milp.Constraint{milp.Bound("x", milp.GreaterEqual, 3)}, right.Constraints())
	assert.Empty(t, n.Constraints())

	// Mutating a returned slice does not reach the node.
	cs := ll.Constraints()
	cs[0] = milp.Bound("z", milp.Equal, 7)
	assert.Equal(t, milp.Bound("x", milp.LessEqual, 2), ll.Constraints()[0])
}

func TestFrontierOrder(t *testing.T) {
	ids := func(f frontier) []int {
		var out []int
		for {
			n, ok := f.pop()
			if !ok {
				return out
			}
			out = append(out, n.ID)
		}
	}
	nodes := []Node{{ID: 1}, {ID: 2}, {ID: 3}}

	q := &queue{}
	q.push(nodes[0])
	q.push(nodes[1], nodes[2])
	assert.Equal(t, 3, q.len())
	assert.Equal(t, []int{1, 2, 3}, ids(q))
	assert.Zero(t, q.len())

	s := &stack{}
	s.push(nodes[0])
	s.push(nodes[1], nodes[2])
	assert.Equal(t, 3, s.len())
	assert.Equal(t, []int{2, 3, 1}, ids(s))
	assert.Zero(t, s.len())
}

func TestActionCodes(t *testing.T) {
	assert.Equal(t, "I", ActionPruneInfeasible.Code())
	assert.Equal(t, "L", ActionPruneUnbounded.Code())
	assert.Equal(t, "L", ActionPruneBound.Code())
	assert.Equal(t, "O", ActionIntegerOptimal.Code())
	assert.Equal(t, "D", ActionBranched.Code())
}

func TestLog(t *testing.T) {
	l := &Log{}
	assert.Zero(t, l.Len())
	assert.False(t, l.Unbounded())

	l.append(Entry{Index: 1, State: StateFractional})
	l.append(Entry{Index: 2, State: StateIntegerOptimal})
	l.append(Entry{Index: 3, State: StateUnbounded})

	assert.Equal(t, 3, l.Len())
	assert.Equal(t, 2, l.At(1).Index)
	assert.True(t, l.Unbounded())
	assert.Equal(t, 1, l.IntegerSolutions())

	entries := l.Entries()
	entries[0].Index = 99
	assert.Equal(t, 1, l.At(0).Index)
}
