package bnb

import (
	"strconv"
	"time"
)

// State classifies a processed node.
type State int

const (
	StateInfeasible State = iota
	StateUnbounded
	StateIntegerOptimal
	StateFractional
	// StateFailed marks a node whose relaxation could not be obtained: the
	// oracle failed or answered with an unrecognised status.
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateInfeasible:
		return "infeasible"
	case StateUnbounded:
		return "unbounded"
	case StateIntegerOptimal:
		return "integer-optimal"
	case StateFractional:
		return "fractional"
	case StateFailed:
		return "failed"
	}
	return "State(" + strconv.Itoa(int(s)) + ")"
}

// Action is what the engine did with a processed node.
type Action int

const (
	ActionPruneInfeasible Action = iota
	ActionPruneUnbounded
	ActionIntegerOptimal
	ActionBranched
	ActionPruneBound
)

// Code returns the one-letter code used in iteration tables. Unbounded and
// bound prunes share "L".
func (a Action) Code() string {
	switch a {
	case ActionPruneInfeasible:
		return "I"
	case ActionPruneUnbounded, ActionPruneBound:
		return "L"
	case ActionIntegerOptimal:
		return "O"
	case ActionBranched:
		return "D"
	}
	return "?"
}

func (a Action) String() string {
	switch a {
	case ActionPruneInfeasible:
		return "prune-infeasible"
	case ActionPruneUnbounded:
		return "prune-unbounded"
	case ActionIntegerOptimal:
		return "integer-optimal"
	case ActionBranched:
		return "branched"
	case ActionPruneBound:
		return "prune-bound"
	}
	return "Action(" + strconv.Itoa(int(a)) + ")"
}

// Value is an optional real.
type Value struct {
	V     float64
	Valid bool
}

func Some(v float64) Value {
	return Value{V: v, Valid: true}
}

// Entry records one processed node.
type Entry struct {
	// Index is the 1-based position of the entry in the log.
	Index  int
	NodeID int
	Depth  int
	// Evaluated is the number of nodes evaluated so far, this one included.
	Evaluated int
	// Pending is the frontier size once this node's children were queued.
	Pending   int
	Objective Value
	State     State
	Action    Action
	Incumbent Value
	Improved  bool
	Elapsed   time.Duration
}

// Log is the append-only record of a search.
type Log struct {
	entries []Entry
}

func (l *Log) append(e Entry) {
	l.entries = append(l.entries, e)
}

func (l *Log) Len() int {
	return len(l.entries)
}

// At returns the i-th entry, 0-based.
func (l *Log) At(i int) Entry {
	return l.entries[i]
}

// Entries returns a copy of all entries in append order.
func (l *Log) Entries() []Entry {
	out := make([]Entry, len(l.entries))
	copy(out, l.entries)
	return out
}

// Unbounded reports whether any node had an unbounded relaxation.
func (l *Log) Unbounded() bool {
	for _, e := range l.entries {
		if e.State == StateUnbounded {
			return true
		}
	}
	return false
}

// IntegerSolutions counts the nodes whose relaxation was integer feasible.
func (l *Log) IntegerSolutions() int {
	n := 0
	for _, e := range l.entries {
		if e.State == StateIntegerOptimal {
			n++
		}
	}
	return n
}
