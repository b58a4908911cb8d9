package lp

import (
	"context"
	"testing"

	"github.com/milpkit/milpkit/pkg/milp"
)

var BenchmarkModel = func() *milp.Model {
	m, err := milp.NewModel(milp.Description{
		Variables: []milp.VariableDecl{
			v("x1", "integer", ">=0"), v("x2", "real", ">=0"), v("x3", "real", "free"), v("x4", "real", "<=0"),
		},
		Objective: &milp.ObjectiveDecl{Sense: "maximize", Expr: milp.Expr{x("x1", 5), x("x2", 4), x("x3", 1), x("x4", -2)}},
		Constraints: []milp.ConstraintDecl{
			le(24, x("x1", 6), x("x2", 4), x("x3", 1)),
			le(6, x("x1", 1), x("x2", 2), x("x4", -1)),
			ge(-3, x("x3", 1)),
			le(3, x("x3", 1)),
			eq(-1, x("x4", 1), x("x3", -1), x("x2", 0.5)),
		},
	})
	if err != nil {
		panic(err)
	}
	return m
}()

func BenchmarkSimplexSolve(b *testing.B) {
	s, err := NewSimplex()
	if err != nil {
		b.Fatalf("failed to initialize simplex: %s", err)
	}
	extra := []milp.Constraint{milp.Bound("x1", milp.LessEqual, 3)}
	for i := 0; i < b.N; i++ {
		if _, err := s.Solve(context.Background(), BenchmarkModel, extra); err != nil {
			b.Fatalf("solve failed: %s", err)
		}
	}
}
