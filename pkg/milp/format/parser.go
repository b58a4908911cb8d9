// Package format reads the line-oriented problem description format:
//
//	# comment
//	var x1 integer >=0;
//	var x2 real free;
//	maximize: 1*x1 + 2*x2;
//	subject to: x1 + x2 <= 4;
//	end;
//
// Blank lines and lines starting with '#' are ignored, and everything after
// "end;" is ignored.
package format

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/milpkit/milpkit/pkg/milp"
)

var (
	varLine        = regexp.MustCompile(`^var\s+(.*?)\s*;$`)
	objectiveLine  = regexp.MustCompile(`^(maximize|minimize)\s*:(.*?);$`)
	constraintLine = regexp.MustCompile(`^subject\s+to\s*:(.*?);$`)
	identifier     = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)
	endLine        = regexp.MustCompile(`^end\s*;$`)
)

// Parse reads a problem description and builds the model it declares.
func Parse(r io.Reader) (*milp.Model, error) {
	desc, err := ParseDescription(r)
	if err != nil {
		return nil, err
	}
	return milp.NewModel(desc)
}

// ParseDescription reads a problem description without validating
// variable references; see milp.NewModel for that.
func ParseDescription(r io.Reader) (milp.Description, error) {
	var desc milp.Description
	reader := bufio.NewReader(r)

	for lineNo := 1; ; lineNo++ {
		line, err := reader.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return milp.Description{}, fmt.Errorf("error reading problem: %w", err)
		}
		eof := errors.Is(err, io.EOF)
		line = strings.TrimSpace(line)

		switch {
		case line == "" || strings.HasPrefix(line, "#"):
		case endLine.MatchString(line):
			return desc, nil
		case strings.HasPrefix(line, "var"):
			decl, perr := parseVariable(line, lineNo)
			if perr != nil {
				return milp.Description{}, perr
			}
			desc.Variables = append(desc.Variables, decl)
		case strings.HasPrefix(line, "maximize") || strings.HasPrefix(line, "minimize"):
			if desc.Objective != nil {
				return milp.Description{}, structural(lineNo, "second objective (first on line %d)", desc.Objective.Line)
			}
			decl, perr := parseObjective(line, lineNo)
			if perr != nil {
				return milp.Description{}, perr
			}
			desc.Objective = &decl
		case strings.HasPrefix(line, "subject"):
			decl, perr := parseConstraint(line, lineNo)
			if perr != nil {
				return milp.Description{}, perr
			}
			desc.Constraints = append(desc.Constraints, decl)
		default:
			return milp.Description{}, structural(lineNo, "unrecognized statement: %s", line)
		}

		if eof {
			return desc, nil
		}
	}
}

func parseVariable(line string, lineNo int) (milp.VariableDecl, error) {
	m := varLine.FindStringSubmatch(line)
	if m == nil {
		return milp.VariableDecl{}, structural(lineNo, "invalid variable declaration (%s). Valid format is var <name> <real|integer> <>=0|<=0|free>;", line)
	}
	fields := strings.Fields(m[1])
	if len(fields) != 3 {
		return milp.VariableDecl{}, structural(lineNo, "invalid variable declaration (%s). Valid format is var <name> <real|integer> <>=0|<=0|free>;", line)
	}
	if !identifier.MatchString(fields[0]) {
		return milp.VariableDecl{}, structural(lineNo, "invalid variable name %q", fields[0])
	}
	return milp.VariableDecl{Name: fields[0], Kind: fields[1], Bound: fields[2], Line: lineNo}, nil
}

func parseObjective(line string, lineNo int) (milp.ObjectiveDecl, error) {
	m := objectiveLine.FindStringSubmatch(line)
	if m == nil {
		return milp.ObjectiveDecl{}, structural(lineNo, "invalid objective (%s). Valid format is maximize: <expr>; or minimize: <expr>;", line)
	}
	tokens, err := tokenize(m[2])
	if err != nil {
		return milp.ObjectiveDecl{}, structural(lineNo, "invalid objective: %s", err)
	}
	p := &exprParser{tokens: tokens}
	expr, err := p.expr()
	if err == nil {
		err = p.expect(tokEOF)
	}
	if err != nil {
		return milp.ObjectiveDecl{}, structural(lineNo, "invalid objective: %s", err)
	}
	return milp.ObjectiveDecl{Sense: m[1], Expr: expr, Line: lineNo}, nil
}

func parseConstraint(line string, lineNo int) (milp.ConstraintDecl, error) {
	m := constraintLine.FindStringSubmatch(line)
	if m == nil {
		return milp.ConstraintDecl{}, structural(lineNo, "invalid constraint (%s). Valid format is subject to: <expr> <=|=|>= <number>;", line)
	}
	tokens, err := tokenize(m[1])
	if err != nil {
		return milp.ConstraintDecl{}, structural(lineNo, "invalid constraint: %s", err)
	}
	p := &exprParser{tokens: tokens}
	expr, op, rhs, err := p.constraint()
	if err != nil {
		return milp.ConstraintDecl{}, structural(lineNo, "invalid constraint: %s", err)
	}
	return milp.ConstraintDecl{Expr: expr, Op: op, RHS: rhs, Line: lineNo}, nil
}

func structural(line int, format string, args ...interface{}) *milp.StructuralError {
	return &milp.StructuralError{Line: line, Msg: fmt.Sprintf(format, args...)}
}

// exprParser is a recursive-descent parser over the grammar
//
//	constraint := expr relop [sign] number
//	expr       := [sign] term { sign term }
//	term       := number '*' ident | ident
type exprParser struct {
	tokens []token
	pos    int
}

func (p *exprParser) peek() token {
	return p.tokens[p.pos]
}

func (p *exprParser) next() token {
	t := p.tokens[p.pos]
	if t.kind != tokEOF {
		p.pos++
	}
	return t
}

func (p *exprParser) expect(kind tokenKind) error {
	if t := p.peek(); t.kind != kind {
		return unexpected(t, kind.String())
	}
	p.next()
	return nil
}

func unexpected(t token, want string) error {
	if t.kind == tokEOF {
		return fmt.Errorf("expected %s, found end of expression", want)
	}
	return fmt.Errorf("expected %s, found %q at column %d", want, t.text, t.pos+1)
}

func (p *exprParser) sign() float64 {
	switch p.peek().kind {
	case tokPlus:
		p.next()
	case tokMinus:
		p.next()
		return -1
	}
	return 1
}

func (p *exprParser) expr() (milp.Expr, error) {
	var expr milp.Expr
	sign := p.sign()
	for {
		term, err := p.term(sign)
		if err != nil {
			return nil, err
		}
		expr = append(expr, term)

		switch p.peek().kind {
		case tokPlus, tokMinus:
			sign = p.sign()
		default:
			return expr, nil
		}
	}
}

// term reads one coefficient*variable product. A coefficient may carry its own
// sign after the separator, so "+ -2*x" is -2 and "- -2*x" is 2.
func (p *exprParser) term(sign float64) (milp.Term, error) {
	sign *= p.sign()
	t := p.next()
	switch t.kind {
	case tokIdent:
		return milp.Term{Var: t.text, Coef: sign}, nil
	case tokNumber:
		if err := p.expect(tokStar); err != nil {
			return milp.Term{}, err
		}
		v := p.next()
		if v.kind != tokIdent {
			return milp.Term{}, unexpected(v, "variable name")
		}
		return milp.Term{Var: v.text, Coef: sign * t.value}, nil
	}
	return milp.Term{}, unexpected(t, "term")
}

func (p *exprParser) constraint() (milp.Expr, milp.Relop, float64, error) {
	expr, err := p.expr()
	if err != nil {
		return nil, 0, 0, err
	}

	var op milp.Relop
	switch t := p.next(); t.kind {
	case tokLessEqual:
		op = milp.LessEqual
	case tokGreaterEqual:
		op = milp.GreaterEqual
	case tokEqual:
		op = milp.Equal
	default:
		return nil, 0, 0, unexpected(t, "relational operator (<=, = or >=)")
	}

	sign := p.sign()
	t := p.next()
	if t.kind != tokNumber {
		return nil, 0, 0, unexpected(t, "number on the right-hand side")
	}
	if err := p.expect(tokEOF); err != nil {
		return nil, 0, 0, err
	}
	return expr, op, sign * t.value, nil
}
