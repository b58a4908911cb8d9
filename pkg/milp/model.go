package milp

// VariableDecl is a variable declaration as written in a problem
// description. Kind and Bound are kept verbatim so that NewModel can reject
// unknown forms.
type VariableDecl struct {
	Name  string
	Kind  string
	Bound string
	Line  int
}

// ObjectiveDecl declares the objective. Sense is "maximize" or "minimize".
type ObjectiveDecl struct {
	Sense string
	Expr  Expr
	Line  int
}

// ConstraintDecl declares one constraint.
type ConstraintDecl struct {
	Expr Expr
	Op   Relop
	RHS  float64
	Line int
}

// Description is the abstract form of a problem before validation.
type Description struct {
	Variables   []VariableDecl
	Objective   *ObjectiveDecl
	Constraints []ConstraintDecl
}

// Model is an immutable MILP instance.
type Model struct {
	variables   []Variable
	index       map[string]int
	objective   Objective
	constraints []Constraint
}

var kinds = map[string]Kind{
	"real":    Continuous,
	"integer": Integer,
}

var boundForms = map[string]Bounds{
	">=0":  NonNegative,
	"<=0":  NonPositive,
	"free": Free,
}

var senses = map[string]Sense{
	"maximize": Maximize,
	"minimize": Minimize,
}

// NewModel validates desc and builds a Model from it. Construction is all or
// nothing: on failure the returned model is nil and the error is a
// *StructuralError.
func NewModel(desc Description) (*Model, error) {
	m := &Model{
		variables: make([]Variable, 0, len(desc.Variables)),
		index:     make(map[string]int, len(desc.Variables)),
	}

	for _, decl := range desc.Variables {
		if decl.Name == "" {
			return nil, structuralf(decl.Line, "variable declaration without a name")
		}
		kind, ok := kinds[decl.Kind]
		if !ok {
			return nil, structuralf(decl.Line, "variable %s: unknown kind %q (want real or integer)", decl.Name, decl.Kind)
		}
		bounds, ok := boundForms[decl.Bound]
		if !ok {
			return nil, structuralf(decl.Line, "variable %s: unknown bound %q (want >=0, <=0 or free)", decl.Name, decl.Bound)
		}
		if _, dup := m.index[decl.Name]; dup {
			return nil, structuralf(decl.Line, "variable %s declared twice", decl.Name)
		}
		m.index[decl.Name] = len(m.variables)
		m.variables = append(m.variables, Variable{Name: decl.Name, Kind: kind, Bounds: bounds})
	}

	if desc.Objective == nil {
		return nil, structuralf(0, "no objective declared")
	}
	sense, ok := senses[desc.Objective.Sense]
	if !ok {
		return nil, structuralf(desc.Objective.Line, "unknown objective sense %q", desc.Objective.Sense)
	}
	expr, err := m.normalize(desc.Objective.Expr, desc.Objective.Line)
	if err != nil {
		return nil, err
	}
	m.objective = Objective{Sense: sense, Expr: expr}

	m.constraints = make([]Constraint, 0, len(desc.Constraints))
	for _, decl := range desc.Constraints {
		if len(decl.Expr) == 0 {
			return nil, structuralf(decl.Line, "constraint has no variable terms")
		}
		switch decl.Op {
		case LessEqual, Equal, GreaterEqual:
		default:
			return nil, structuralf(decl.Line, "unknown relational operator %s", decl.Op)
		}
		expr, err := m.normalize(decl.Expr, decl.Line)
		if err != nil {
			return nil, err
		}
		m.constraints = append(m.constraints, Constraint{Expr: expr, Op: decl.Op, RHS: decl.RHS})
	}

	return m, nil
}

// normalize checks every term against the declared variables and sums the
// coefficients of repeated variables, keeping first-occurrence order.
func (m *Model) normalize(expr Expr, line int) (Expr, error) {
	out := make(Expr, 0, len(expr))
	pos := make(map[string]int, len(expr))
	for _, t := range expr {
		if _, ok := m.index[t.Var]; !ok {
			return nil, structuralf(line, "undeclared variable %s", t.Var)
		}
		if i, seen := pos[t.Var]; seen {
			out[i].Coef += t.Coef
			continue
		}
		pos[t.Var] = len(out)
		out = append(out, t)
	}
	return out, nil
}

// Variables returns the variables in declaration order.
func (m *Model) Variables() []Variable {
	out := make([]Variable, len(m.variables))
	copy(out, m.variables)
	return out
}

// Variable looks a variable up by name.
func (m *Model) Variable(name string) (Variable, bool) {
	i, ok := m.index[name]
	if !ok {
		return Variable{}, false
	}
	return m.variables[i], true
}

// IntegerVariables returns the names of the integer variables in
// declaration order.
func (m *Model) IntegerVariables() []string {
	var names []string
	for _, v := range m.variables {
		if v.Kind == Integer {
			names = append(names, v.Name)
		}
	}
	return names
}

func (m *Model) Objective() Objective {
	return Objective{Sense: m.objective.Sense, Expr: append(Expr(nil), m.objective.Expr...)}
}

func (m *Model) Sense() Sense {
	return m.objective.Sense
}

// Constraints returns the model's own constraints, excluding any branching
// constraints added during search.
func (m *Model) Constraints() []Constraint {
	out := make([]Constraint, len(m.constraints))
	for i, c := range m.constraints {
		out[i] = Constraint{Expr: append(Expr(nil), c.Expr...), Op: c.Op, RHS: c.RHS}
	}
	return out
}

// Evaluate returns the objective value of an assignment.
func (m *Model) Evaluate(assignment map[string]float64) float64 {
	return m.objective.Expr.Evaluate(assignment)
}
