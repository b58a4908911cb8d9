// Package lp provides a milp.Oracle backed by gonum's simplex
// implementation.
package lp

import (
	"context"
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize/convex/lp"

	"github.com/milpkit/milpkit/pkg/milp"
)

const defaultTolerance = 1e-10

var _ milp.Oracle = &Simplex{}

// Simplex solves continuous relaxations with gonum's lp.Simplex. It keeps
// no state between calls.
type Simplex struct {
	tol float64
}

type Option func(s *Simplex) error

// WithTolerance sets the reduced-cost tolerance handed to gonum.
func WithTolerance(tol float64) Option {
	return func(s *Simplex) error {
		if tol < 0 {
			return fmt.Errorf("tolerance must not be negative, got %g", tol)
		}
		s.tol = tol
		return nil
	}
}

func NewSimplex(options ...Option) (*Simplex, error) {
	s := Simplex{tol: defaultTolerance}
	for _, option := range options {
		if err := option(&s); err != nil {
			return nil, err
		}
	}
	return &s, nil
}

func (s *Simplex) Solve(ctx context.Context, m *milp.Model, extra []milp.Constraint) (milp.Relaxation, error) {
	if err := ctx.Err(); err != nil {
		return milp.Relaxation{Status: milp.StatusOther}, err
	}

	sf := newStandardForm(m, extra)

	// gonum rejects all-zero columns, so columns that appear in no row are
	// pinned at zero. If one of them would improve the objective, the
	// relaxation is unbounded as soon as the remaining system is feasible.
	var keep []int
	improving := false
	for j, unused := range sf.unused() {
		if unused {
			if sf.c[j] < 0 {
				improving = true
			}
			continue
		}
		keep = append(keep, j)
	}

	x := make([]float64, len(sf.c))
	if len(sf.rows) > 0 {
		c := make([]float64, len(keep))
		for j, col := range keep {
			c[j] = sf.c[col]
		}
		data := make([]float64, 0, len(sf.rows)*len(keep))
		for _, row := range sf.rows {
			for _, col := range keep {
				data = append(data, row[col])
			}
		}
		A := mat.NewDense(len(sf.rows), len(keep), data)

		_, reduced, err := lp.Simplex(c, A, sf.b, s.tol, nil)
		switch {
		case errors.Is(err, lp.ErrInfeasible):
			return milp.Relaxation{Status: milp.StatusInfeasible}, nil
		case errors.Is(err, lp.ErrUnbounded):
			return milp.Relaxation{Status: milp.StatusUnbounded}, nil
		case err != nil:
			return milp.Relaxation{Status: milp.StatusOther}, fmt.Errorf("simplex failed: %w", err)
		}
		for j, col := range keep {
			x[col] = reduced[j]
		}
	}

	if improving {
		return milp.Relaxation{Status: milp.StatusUnbounded}, nil
	}

	assignment := sf.assignment(m, x)
	return milp.Relaxation{
		Status:     milp.StatusOptimal,
		Objective:  m.Evaluate(assignment),
		Assignment: assignment,
	}, nil
}
