package bnb

import (
	"context"
	"testing"

	"github.com/milpkit/milpkit/internal/lp"
	"github.com/milpkit/milpkit/pkg/milp"
)

var BenchmarkKnapsack = func() *milp.Model {
	vars := []milp.VariableDecl{
		{Name: "x1", Kind: "integer", Bound: ">=0"},
		{Name: "x2", Kind: "integer", Bound: ">=0"},
		{Name: "x3", Kind: "integer", Bound: ">=0"},
		{Name: "x4", Kind: "integer", Bound: ">=0"},
	}
	m, err := milp.NewModel(milp.Description{
		Variables: vars,
		Objective: &milp.ObjectiveDecl{Sense: "maximize", Expr: milp.Expr{
			{Var: "x1", Coef: 5}, {Var: "x2", Coef: 4}, {Var: "x3", Coef: 3}, {Var: "x4", Coef: 7},
		}},
		Constraints: []milp.ConstraintDecl{
			{Expr: milp.Expr{{Var: "x1", Coef: 6}, {Var: "x2", Coef: 4}, {Var: "x3", Coef: 2}, {Var: "x4", Coef: 9}}, Op: milp.LessEqual, RHS: 47},
			{Expr: milp.Expr{{Var: "x1", Coef: 1}, {Var: "x2", Coef: 2}, {Var: "x3", Coef: 3}, {Var: "x4", Coef: 1}}, Op: milp.LessEqual, RHS: 13},
		},
	})
	if err != nil {
		panic(err)
	}
	return m
}()

func BenchmarkSearch(b *testing.B) {
	oracle, err := lp.NewSimplex()
	if err != nil {
		b.Fatalf("failed to initialize oracle: %s", err)
	}
	for i := 0; i < b.N; i++ {
		e, err := New(oracle)
		if err != nil {
			b.Fatalf("failed to initialize engine: %s", err)
		}
		if _, err := e.Search(context.Background(), BenchmarkKnapsack); err != nil {
			b.Fatalf("search failed: %s", err)
		}
	}
}

func BenchmarkSearchDepthFirst(b *testing.B) {
	oracle, err := lp.NewSimplex()
	if err != nil {
		b.Fatalf("failed to initialize oracle: %s", err)
	}
	for i := 0; i < b.N; i++ {
		e, err := New(oracle, WithDepthFirst(), WithBoundPruning())
		if err != nil {
			b.Fatalf("failed to initialize engine: %s", err)
		}
		if _, err := e.Search(context.Background(), BenchmarkKnapsack); err != nil {
			b.Fatalf("search failed: %s", err)
		}
	}
}
