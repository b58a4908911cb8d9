package milp

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Kind is the domain of a variable.
type Kind int

const (
	Continuous Kind = iota
	Integer
)

func (k Kind) String() string {
	switch k {
	case Continuous:
		return "real"
	case Integer:
		return "integer"
	}
	return "Kind(" + strconv.Itoa(int(k)) + ")"
}

// Bounds is the closed interval a variable may take. Either side may be
// infinite.
type Bounds struct {
	Lower float64
	Upper float64
}

var (
	NonNegative = Bounds{Lower: 0, Upper: math.Inf(1)}
	NonPositive = Bounds{Lower: math.Inf(-1), Upper: 0}
	Free        = Bounds{Lower: math.Inf(-1), Upper: math.Inf(1)}
)

func (b Bounds) String() string {
	switch b {
	case NonNegative:
		return ">=0"
	case NonPositive:
		return "<=0"
	case Free:
		return "free"
	}
	return fmt.Sprintf("[%g, %g]", b.Lower, b.Upper)
}

// Variable values are the decision variables of a Model.
type Variable struct {
	Name   string
	Kind   Kind
	Bounds Bounds
}

// Term is a single coef*var product of a linear expression.
type Term struct {
	Var  string
	Coef float64
}

// Expr is a linear expression: the sum of its terms.
type Expr []Term

// Evaluate returns the value of the expression under the assignment.
// Variables missing from the assignment count as zero.
func (e Expr) Evaluate(assignment map[string]float64) float64 {
	var sum float64
	for _, t := range e {
		sum += t.Coef * assignment[t.Var]
	}
	return sum
}

func (e Expr) String() string {
	if len(e) == 0 {
		return "0"
	}
	var sb strings.Builder
	for i, t := range e {
		coef := t.Coef
		switch {
		case i == 0 && coef < 0:
			sb.WriteString("-")
			coef = -coef
		case i > 0 && coef < 0:
			sb.WriteString(" - ")
			coef = -coef
		case i > 0:
			sb.WriteString(" + ")
		}
		sb.WriteString(strconv.FormatFloat(coef, 'g', -1, 64))
		sb.WriteString("*")
		sb.WriteString(t.Var)
	}
	return sb.String()
}

// Relop is the relational operator of a Constraint.
type Relop int

const (
	LessEqual Relop = iota
	Equal
	GreaterEqual
)

func (r Relop) String() string {
	switch r {
	case LessEqual:
		return "<="
	case Equal:
		return "="
	case GreaterEqual:
		return ">="
	}
	return "Relop(" + strconv.Itoa(int(r)) + ")"
}

// Constraint is a linear constraint Expr Op RHS.
type Constraint struct {
	Expr Expr
	Op   Relop
	RHS  float64
}

// Bound returns the single-variable constraint name op rhs.
func Bound(name string, op Relop, rhs float64) Constraint {
	return Constraint{Expr: Expr{{Var: name, Coef: 1}}, Op: op, RHS: rhs}
}

func (c Constraint) String() string {
	return fmt.Sprintf("%s %s %s", c.Expr, c.Op, strconv.FormatFloat(c.RHS, 'g', -1, 64))
}

// Sense is the optimisation direction of an Objective.
type Sense int

const (
	Maximize Sense = iota
	Minimize
)

func (s Sense) String() string {
	switch s {
	case Maximize:
		return "maximize"
	case Minimize:
		return "minimize"
	}
	return "Sense(" + strconv.Itoa(int(s)) + ")"
}

// Objective is the function a Model optimises.
type Objective struct {
	Sense Sense
	Expr  Expr
}

// Status classifies the outcome of a relaxation.
type Status int

const (
	StatusOptimal Status = iota
	StatusInfeasible
	StatusUnbounded
	StatusOther
)

func (s Status) String() string {
	switch s {
	case StatusOptimal:
		return "optimal"
	case StatusInfeasible:
		return "infeasible"
	case StatusUnbounded:
		return "unbounded"
	case StatusOther:
		return "other"
	}
	return "Status(" + strconv.Itoa(int(s)) + ")"
}

// Relaxation is the answer of an Oracle. Objective and Assignment are only
// meaningful when Status is StatusOptimal.
type Relaxation struct {
	Status     Status
	Objective  float64
	Assignment map[string]float64
}

// Oracle solves the continuous relaxation of a model conjoined with extra
// constraints. Every variable is treated as continuous regardless of its
// declared kind. Implementations must be deterministic for a fixed input.
type Oracle interface {
	Solve(ctx context.Context, m *Model, extra []Constraint) (Relaxation, error)
}

// OracleFunc adapts an ordinary function to the Oracle interface.
type OracleFunc func(ctx context.Context, m *Model, extra []Constraint) (Relaxation, error)

func (f OracleFunc) Solve(ctx context.Context, m *Model, extra []Constraint) (Relaxation, error) {
	return f(ctx, m, extra)
}
