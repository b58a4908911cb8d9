package lp

import (
	"github.com/milpkit/milpkit/pkg/milp"
)

// column maps one standard-form column back onto a model variable:
// value(variable) += sign * x[column].
type column struct {
	variable string
	sign     float64
}

// standardForm is   min c·x  s.t.  A·x = b,  x ≥ 0
// with A stored row-major. The first len(structural) columns come from
// model variables, the remaining ones are slacks, one per row.
type standardForm struct {
	structural []column
	c          []float64
	rows       [][]float64
	b          []float64
}

// newStandardForm converts a model plus extra constraints. Variables bounded
// below by zero map to one column, variables bounded above by zero to a
// negated column and free variables to a +/- column pair. Equalities are
// split into a <= and a >= row so that every row owns a slack column, which
// keeps A at full row rank.
func newStandardForm(m *milp.Model, extra []milp.Constraint) *standardForm {
	sf := &standardForm{}
	cols := map[string][]int{}
	for _, v := range m.Variables() {
		switch v.Bounds {
		case milp.NonPositive:
			cols[v.Name] = []int{len(sf.structural)}
			sf.structural = append(sf.structural, column{variable: v.Name, sign: -1})
		case milp.Free:
			cols[v.Name] = []int{len(sf.structural), len(sf.structural) + 1}
			sf.structural = append(sf.structural, column{variable: v.Name, sign: 1}, column{variable: v.Name, sign: -1})
		default:
			cols[v.Name] = []int{len(sf.structural)}
			sf.structural = append(sf.structural, column{variable: v.Name, sign: 1})
		}
	}

	// project maps a linear expression onto structural columns.
	project := func(expr milp.Expr) []float64 {
		row := make([]float64, len(sf.structural))
		for _, t := range expr {
			for _, j := range cols[t.Var] {
				row[j] += t.Coef * sf.structural[j].sign
			}
		}
		return row
	}

	objective := m.Objective()
	sf.c = project(objective.Expr)
	if objective.Sense == milp.Maximize {
		for j := range sf.c {
			sf.c[j] = -sf.c[j]
		}
	}

	type inequality struct {
		row   []float64
		rhs   float64
		slack float64
	}
	var ineqs []inequality
	add := func(c milp.Constraint) {
		row := project(c.Expr)
		switch c.Op {
		case milp.LessEqual:
			ineqs = append(ineqs, inequality{row: row, rhs: c.RHS, slack: 1})
		case milp.GreaterEqual:
			ineqs = append(ineqs, inequality{row: row, rhs: c.RHS, slack: -1})
		case milp.Equal:
			ineqs = append(ineqs,
				inequality{row: row, rhs: c.RHS, slack: 1},
				inequality{row: append([]float64(nil), row...), rhs: c.RHS, slack: -1})
		}
	}
	for _, c := range m.Constraints() {
		add(c)
	}
	for _, c := range extra {
		add(c)
	}

	n := len(sf.structural) + len(ineqs)
	for i, in := range ineqs {
		row := make([]float64, n)
		copy(row, in.row)
		row[len(sf.structural)+i] = in.slack
		sf.rows = append(sf.rows, row)
		sf.b = append(sf.b, in.rhs)
	}
	sf.c = append(sf.c, make([]float64, len(ineqs))...)
	return sf
}

// unused reports, per column, whether the column has no non-zero entry in A.
func (sf *standardForm) unused() []bool {
	out := make([]bool, len(sf.c))
	for j := range out {
		out[j] = true
		for _, row := range sf.rows {
			if row[j] != 0 {
				out[j] = false
				break
			}
		}
	}
	return out
}

// assignment folds a standard-form solution back onto model variables.
func (sf *standardForm) assignment(m *milp.Model, x []float64) map[string]float64 {
	values := make(map[string]float64, len(sf.structural))
	for _, v := range m.Variables() {
		values[v.Name] = 0
	}
	for j, col := range sf.structural {
		values[col.variable] += col.sign * x[j]
	}
	return values
}
