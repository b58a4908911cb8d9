// Package solver is the public entry point for solving MILP models by
// branch-and-bound. By default relaxations are solved with gonum's simplex.
package solver

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/go-logr/logr"
	"github.com/google/uuid"
	"github.com/samber/lo"
	"go.opentelemetry.io/otel/trace"

	"github.com/milpkit/milpkit/internal/bnb"
	"github.com/milpkit/milpkit/internal/lp"
	"github.com/milpkit/milpkit/pkg/milp"
)

// ErrSearchLimitReached is wrapped by Solution.Stopped when the node limit
// ended the search.
var ErrSearchLimitReached = bnb.ErrSearchLimitReached

// Status is the final status of a solve.
type Status string

const (
	StatusOptimal    Status = "optimal"
	StatusInfeasible Status = "infeasible"
	StatusUnbounded  Status = "unbounded"
	// StatusIncomplete means the search stopped early without finding any
	// integer-feasible point.
	StatusIncomplete Status = "incomplete"
)

// Iteration is one row of the search log.
type Iteration struct {
	Index     int
	NodeID    int
	Depth     int
	Evaluated int
	Pending   int
	// Objective is nil when the node had no optimal relaxation.
	Objective *float64
	State     string
	// Action is the one-letter code: I, L, O or D.
	Action string
	// Incumbent is nil while no integer solution is known.
	Incumbent *float64
	Improved  bool
	Elapsed   time.Duration
}

// Solution is returned by the Solver when the search ran. A search that ran
// can still end without an answer; Error reports why.
type Solution struct {
	runID      uuid.UUID
	status     Status
	objective  float64
	values     map[string]float64
	order      []string
	iterations []Iteration
	integers   int
	elapsed    time.Duration
	stopped    error
}

// Error returns milp.ErrInfeasible or milp.ErrUnbounded when the problem has
// no optimum, an error wrapping the stop reason when the search ended early
// without one, and nil otherwise.
func (s *Solution) Error() error {
	switch s.status {
	case StatusInfeasible:
		return milp.ErrInfeasible
	case StatusUnbounded:
		return milp.ErrUnbounded
	case StatusIncomplete:
		return fmt.Errorf("no integer solution found before the search stopped: %w", s.stopped)
	}
	return nil
}

func (s *Solution) RunID() uuid.UUID {
	return s.runID
}

func (s *Solution) Status() Status {
	return s.status
}

// Objective returns the objective value of the best integer solution.
func (s *Solution) Objective() float64 {
	return s.objective
}

// Values returns a copy of the best solution's assignment.
func (s *Solution) Values() map[string]float64 {
	return lo.Assign(s.values)
}

// Value returns the value of one variable in the best solution.
func (s *Solution) Value(name string) float64 {
	return s.values[name]
}

// Variables returns the variable names in declaration order.
func (s *Solution) Variables() []string {
	return append([]string(nil), s.order...)
}

func (s *Solution) Iterations() []Iteration {
	return append([]Iteration(nil), s.iterations...)
}

// IntegerSolutions is the number of nodes whose relaxation was integer
// feasible, improving or not.
func (s *Solution) IntegerSolutions() int {
	return s.integers
}

func (s *Solution) Elapsed() time.Duration {
	return s.elapsed
}

// Stopped returns the reason the search ended before exhausting the
// frontier, or nil. An optimal solution with a non-nil Stopped is the best
// found, not a proven optimum.
func (s *Solution) Stopped() error {
	return s.stopped
}

type Solver struct {
	oracle  milp.Oracle
	engine  []bnb.Option
	tracing io.Writer
}

type Option func(s *Solver) error

// WithOracle replaces the gonum simplex with another relaxation oracle.
func WithOracle(o milp.Oracle) Option {
	return func(s *Solver) error {
		s.oracle = o
		return nil
	}
}

func WithLogger(l logr.Logger) Option {
	return func(s *Solver) error {
		s.engine = append(s.engine, bnb.WithLogger(l))
		return nil
	}
}

// WithTraceWriter prints a description of every processed node to w.
func WithTraceWriter(w io.Writer) Option {
	return func(s *Solver) error {
		s.tracing = w
		return nil
	}
}

func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(s *Solver) error {
		s.engine = append(s.engine, bnb.WithTracerProvider(tp))
		return nil
	}
}

func WithNodeLimit(n int) Option {
	return func(s *Solver) error {
		s.engine = append(s.engine, bnb.WithNodeLimit(n))
		return nil
	}
}

func WithTimeLimit(d time.Duration) Option {
	return func(s *Solver) error {
		s.engine = append(s.engine, bnb.WithTimeLimit(d))
		return nil
	}
}

// WithBoundPruning skips branching on nodes whose relaxation cannot beat
// the incumbent.
func WithBoundPruning() Option {
	return func(s *Solver) error {
		s.engine = append(s.engine, bnb.WithBoundPruning())
		return nil
	}
}

func WithDepthFirst() Option {
	return func(s *Solver) error {
		s.engine = append(s.engine, bnb.WithDepthFirst())
		return nil
	}
}

var defaults = []Option{
	func(s *Solver) error {
		if s.oracle != nil {
			return nil
		}
		simplex, err := lp.NewSimplex()
		if err != nil {
			return err
		}
		s.oracle = simplex
		return nil
	},
	func(s *Solver) error {
		if s.tracing != nil {
			s.engine = append(s.engine, bnb.WithTracer(bnb.LoggingTracer{Writer: s.tracing}))
		}
		return nil
	},
}

func NewSolver(options ...Option) (*Solver, error) {
	s := Solver{}
	for _, option := range append(options, defaults...) {
		if err := option(&s); err != nil {
			return nil, err
		}
	}
	// Surface bad engine options at construction time.
	if _, err := bnb.New(s.oracle, s.engine...); err != nil {
		return nil, err
	}
	return &s, nil
}

// Solve runs branch-and-bound on m. The returned error is reserved for
// failures to run at all; outcomes without an optimum, including early
// stops, are reported through the Solution.
func (s *Solver) Solve(ctx context.Context, m *milp.Model) (*Solution, error) {
	if m == nil {
		return nil, errors.New("model is required")
	}
	engine, err := bnb.New(s.oracle, s.engine...)
	if err != nil {
		return nil, err
	}

	result, err := engine.Search(ctx, m)
	if result == nil {
		return nil, err
	}

	solution := &Solution{
		runID:      result.RunID,
		status:     statusOf(result.Status),
		objective:  result.Objective,
		values:     result.Assignment,
		order:      lo.Map(m.Variables(), func(v milp.Variable, _ int) string { return v.Name }),
		iterations: lo.Map(result.Log.Entries(), func(e bnb.Entry, _ int) Iteration { return iterationOf(e) }),
		integers:   result.Log.IntegerSolutions(),
		elapsed:    result.Elapsed,
		stopped:    err,
	}
	return solution, nil
}

func statusOf(o bnb.Outcome) Status {
	switch o {
	case bnb.Optimal:
		return StatusOptimal
	case bnb.Unbounded:
		return StatusUnbounded
	case bnb.Incomplete:
		return StatusIncomplete
	}
	return StatusInfeasible
}

func iterationOf(e bnb.Entry) Iteration {
	it := Iteration{
		Index:     e.Index,
		NodeID:    e.NodeID,
		Depth:     e.Depth,
		Evaluated: e.Evaluated,
		Pending:   e.Pending,
		State:     e.State.String(),
		Action:    e.Action.Code(),
		Improved:  e.Improved,
		Elapsed:   e.Elapsed,
	}
	if e.Objective.Valid {
		it.Objective = lo.ToPtr(e.Objective.V)
	}
	if e.Incumbent.Valid {
		it.Incumbent = lo.ToPtr(e.Incumbent.V)
	}
	return it
}
