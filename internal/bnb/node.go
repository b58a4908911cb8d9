package bnb

import (
	"math"

	"github.com/milpkit/milpkit/pkg/milp"
)

// branch is one link of a persistent list of branching constraints.
// Children point at their parent's list, so siblings share every
// constraint above them and no node ever observes another node's additions.
type branch struct {
	bound  milp.Constraint
	parent *branch
}

// Node is a pending subproblem: the model plus the branching constraints
// accumulated since the root.
type Node struct {
	ID    int
	Depth int
	tail  *branch
}

func root() Node {
	return Node{ID: 1}
}

// Constraints returns the branching constraints from the root down.
func (n Node) Constraints() []milp.Constraint {
	out := make([]milp.Constraint, n.Depth)
	i := n.Depth
	for b := n.tail; b != nil; b = b.parent {
		i--
		out[i] = b.bound
	}
	return out
}

func (n Node) child(id int, bound milp.Constraint) Node {
	return Node{
		ID:    id,
		Depth: n.Depth + 1,
		tail:  &branch{bound: bound, parent: n.tail},
	}
}

// split partitions the integer domain of variable around a fractional value:
// the left child gets variable <= floor(value), the right one
// variable >= floor(value)+1.
func (n Node) split(nextID int, variable string, value float64) (left, right Node) {
	floor := math.Floor(value)
	left = n.child(nextID, milp.Bound(variable, milp.LessEqual, floor))
	right = n.child(nextID+1, milp.Bound(variable, milp.GreaterEqual, floor+1))
	return left, right
}

// frontier holds the nodes waiting to be processed.
type frontier interface {
	// push queues nodes so that they are expanded in argument order.
	push(nodes ...Node)
	pop() (Node, bool)
	len() int
}

// queue is breadth-first.
type queue struct {
	nodes []Node
}

func (q *queue) push(nodes ...Node) {
	q.nodes = append(q.nodes, nodes...)
}

func (q *queue) pop() (Node, bool) {
	if len(q.nodes) == 0 {
		return Node{}, false
	}
	n := q.nodes[0]
	q.nodes[0] = Node{}
	q.nodes = q.nodes[1:]
	return n, true
}

func (q *queue) len() int {
	return len(q.nodes)
}

// stack is depth-first.
type stack struct {
	nodes []Node
}

func (s *stack) push(nodes ...Node) {
	for i := len(nodes) - 1; i >= 0; i-- {
		s.nodes = append(s.nodes, nodes[i])
	}
}

func (s *stack) pop() (Node, bool) {
	if len(s.nodes) == 0 {
		return Node{}, false
	}
	n := s.nodes[len(s.nodes)-1]
	s.nodes = s.nodes[:len(s.nodes)-1]
	return n, true
}

func (s *stack) len() int {
	return len(s.nodes)
}
