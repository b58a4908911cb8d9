package bnb

import (
	"fmt"
	"io"

	"github.com/milpkit/milpkit/pkg/milp"
)

type SearchPosition interface {
	Entry() Entry
	Branches() []milp.Constraint
}

type Tracer interface {
	Trace(p SearchPosition)
}

type DefaultTracer struct{}

func (DefaultTracer) Trace(_ SearchPosition) {
}

type LoggingTracer struct {
	Writer io.Writer
}

func (t LoggingTracer) Trace(p SearchPosition) {
	e := p.Entry()
	fmt.Fprintf(t.Writer, "---\nNode %d (depth %d):\n", e.NodeID, e.Depth)
	fmt.Fprintf(t.Writer, "Branches:\n")
	for _, c := range p.Branches() {
		fmt.Fprintf(t.Writer, "- %s\n", c)
	}
	fmt.Fprintf(t.Writer, "Outcome: %s (%s)", e.State, e.Action.Code())
	if e.Objective.Valid {
		fmt.Fprintf(t.Writer, " objective=%.4f", e.Objective.V)
	}
	if e.Incumbent.Valid {
		fmt.Fprintf(t.Writer, " incumbent=%.4f", e.Incumbent.V)
		if e.Improved {
			fmt.Fprint(t.Writer, "*")
		}
	}
	fmt.Fprintln(t.Writer)
}

type position struct {
	entry Entry
	node  Node
}

func (p position) Entry() Entry {
	return p.entry
}

func (p position) Branches() []milp.Constraint {
	return p.node.Constraints()
}
