package milp_test

import (
	"errors"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/milpkit/milpkit/pkg/milp"
)

func objective(sense string, terms ...milp.Term) *milp.ObjectiveDecl {
	return &milp.ObjectiveDecl{Sense: sense, Expr: terms}
}

func TestNewModel(t *testing.T) {
	type tc struct {
		Name        string
		Description milp.Description
		Variables   []milp.Variable
		Constraints []milp.Constraint
		Objective   milp.Objective
		Error       string
	}

	for _, tt := range []tc{
		{
			Name: "variables keep declaration order and bound forms",
			Description: milp.Description{
				Variables: []milp.VariableDecl{
					{Name: "x1", Kind: "integer", Bound: ">=0"},
					{Name: "x2", Kind: "real", Bound: "<=0"},
					{Name: "x3", Kind: "real", Bound: "free"},
				},
				Objective: objective("minimize", milp.Term{Var: "x3", Coef: 1}),
			},
			Variables: []milp.Variable{
				{Name: "x1", Kind: milp.Integer, Bounds: milp.Bounds{Lower: 0, Upper: math.Inf(1)}},
				{Name: "x2", Kind: milp.Continuous, Bounds: milp.Bounds{Lower: math.Inf(-1), Upper: 0}},
				{Name: "x3", Kind: milp.Continuous, Bounds: milp.Bounds{Lower: math.Inf(-1), Upper: math.Inf(1)}},
			},
			Constraints: []milp.Constraint{},
			Objective:   milp.Objective{Sense: milp.Minimize, Expr: milp.Expr{{Var: "x3", Coef: 1}}},
		},
		{
			Name: "repeated variables accumulate",
			Description: milp.Description{
				Variables: []milp.VariableDecl{
					{Name: "x1", Kind: "integer", Bound: ">=0"},
					{Name: "x2", Kind: "integer", Bound: ">=0"},
				},
				Objective: objective("maximize",
					milp.Term{Var: "x1", Coef: 1}, milp.Term{Var: "x2", Coef: 3}, milp.Term{Var: "x1", Coef: 2}),
				Constraints: []milp.ConstraintDecl{
					{Expr: milp.Expr{{Var: "x2", Coef: 1}, {Var: "x2", Coef: -1}, {Var: "x1", Coef: 1}}, Op: milp.LessEqual, RHS: 4},
				},
			},
			Variables: []milp.Variable{
				{Name: "x1", Kind: milp.Integer, Bounds: milp.NonNegative},
				{Name: "x2", Kind: milp.Integer, Bounds: milp.NonNegative},
			},
			Constraints: []milp.Constraint{
				{Expr: milp.Expr{{Var: "x2", Coef: 0}, {Var: "x1", Coef: 1}}, Op: milp.LessEqual, RHS: 4},
			},
			Objective: milp.Objective{Sense: milp.Maximize, Expr: milp.Expr{{Var: "x1", Coef: 3}, {Var: "x2", Coef: 3}}},
		},
		{
			Name: "unknown kind",
			Description: milp.Description{
				Variables: []milp.VariableDecl{{Name: "x", Kind: "binary", Bound: ">=0", Line: 3}},
				Objective: objective("maximize", milp.Term{Var: "x", Coef: 1}),
			},
			Error: `line 3: variable x: unknown kind "binary" (want real or integer)`,
		},
		{
			Name: "unknown bound form",
			Description: milp.Description{
				Variables: []milp.VariableDecl{{Name: "x", Kind: "real", Bound: ">=1", Line: 1}},
				Objective: objective("maximize", milp.Term{Var: "x", Coef: 1}),
			},
			Error: `line 1: variable x: unknown bound ">=1" (want >=0, <=0 or free)`,
		},
		{
			Name: "duplicate declaration",
			Description: milp.Description{
				Variables: []milp.VariableDecl{
					{Name: "x", Kind: "real", Bound: ">=0", Line: 1},
					{Name: "x", Kind: "real", Bound: ">=0", Line: 2},
				},
				Objective: objective("maximize", milp.Term{Var: "x", Coef: 1}),
			},
			Error: "line 2: variable x declared twice",
		},
		{
			Name: "missing objective",
			Description: milp.Description{
				Variables: []milp.VariableDecl{{Name: "x", Kind: "real", Bound: ">=0"}},
			},
			Error: "no objective declared",
		},
		{
			Name: "objective references undeclared variable",
			Description: milp.Description{
				Variables: []milp.VariableDecl{{Name: "x", Kind: "real", Bound: ">=0"}},
				Objective: &milp.ObjectiveDecl{Sense: "maximize", Expr: milp.Expr{{Var: "y", Coef: 1}}, Line: 4},
			},
			Error: "line 4: undeclared variable y",
		},
		{
			Name: "constraint references undeclared variable",
			Description: milp.Description{
				Variables: []milp.VariableDecl{{Name: "x", Kind: "real", Bound: ">=0"}},
				Objective: objective("maximize", milp.Term{Var: "x", Coef: 1}),
				Constraints: []milp.ConstraintDecl{
					{Expr: milp.Expr{{Var: "z", Coef: 1}}, Op: milp.LessEqual, RHS: 1, Line: 7},
				},
			},
			Error: "line 7: undeclared variable z",
		},
		{
			Name: "constraint without terms",
			Description: milp.Description{
				Variables:   []milp.VariableDecl{{Name: "x", Kind: "real", Bound: ">=0"}},
				Objective:   objective("maximize", milp.Term{Var: "x", Coef: 1}),
				Constraints: []milp.ConstraintDecl{{Op: milp.LessEqual, RHS: 1, Line: 5}},
			},
			Error: "line 5: constraint has no variable terms",
		},
	} {
		t.Run(tt.Name, func(t *testing.T) {
			m, err := milp.NewModel(tt.Description)
			if tt.Error != "" {
				require.Error(t, err)
				assert.Nil(t, m)
				assert.Equal(t, tt.Error, err.Error())
				var serr *milp.StructuralError
				assert.True(t, errors.As(err, &serr))
				return
			}
			require.NoError(t, err)
			if diff := cmp.Diff(tt.Variables, m.Variables()); diff != "" {
				t.Errorf("variables mismatch (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(tt.Constraints, m.Constraints()); diff != "" {
				t.Errorf("constraints mismatch (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(tt.Objective, m.Objective()); diff != "" {
				t.Errorf("objective mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestModelAccessorsReturnCopies(t *testing.T) {
	m, err := milp.NewModel(milp.Description{
		Variables: []milp.VariableDecl{
			{Name: "a", Kind: "integer", Bound: ">=0"},
			{Name: "b", Kind: "real", Bound: ">=0"},
			{Name: "c", Kind: "integer", Bound: "free"},
		},
		Objective: objective("maximize", milp.Term{Var: "a", Coef: 2}, milp.Term{Var: "b", Coef: 1}),
		Constraints: []milp.ConstraintDecl{
			{Expr: milp.Expr{{Var: "a", Coef: 1}}, Op: milp.LessEqual, RHS: 1},
		},
	})
	require.NoError(t, err)

	vars := m.Variables()
	vars[0].Name = "mutated"
	cons := m.Constraints()
	cons[0].Expr[0].Coef = 42
	obj := m.Objective()
	obj.Expr[0].Coef = 42

	v, ok := m.Variable("a")
	assert.True(t, ok)
	assert.Equal(t, milp.Integer, v.Kind)
	_, ok = m.Variable("mutated")
	assert.False(t, ok)
	assert.Equal(t, 1.0, m.Constraints()[0].Expr[0].Coef)
	assert.Equal(t, 2.0, m.Objective().Expr[0].Coef)
	assert.Equal(t, []string{"a", "c"}, m.IntegerVariables())
	assert.Equal(t, milp.Maximize, m.Sense())
	assert.Equal(t, 7.0, m.Evaluate(map[string]float64{"a": 3, "b": 1}))
}

func TestConstraintString(t *testing.T) {
	c := milp.Constraint{
		Expr: milp.Expr{{Var: "x1", Coef: -1}, {Var: "x2", Coef: 2.5}, {Var: "x3", Coef: -3}},
		Op:   milp.GreaterEqual,
		RHS:  -4,
	}
	assert.Equal(t, "-1*x1 + 2.5*x2 - 3*x3 >= -4", c.String())
	assert.Equal(t, "1*x <= 3", milp.Bound("x", milp.LessEqual, 3).String())
	assert.Equal(t, ">=0", milp.NonNegative.String())
	assert.Equal(t, "free", milp.Free.String())
}
