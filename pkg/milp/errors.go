package milp

import (
	"errors"
	"fmt"
)

var (
	// ErrInfeasible is reported when no integer-feasible point exists.
	ErrInfeasible = errors.New("problem is infeasible")
	// ErrUnbounded is reported when the objective can be improved without limit.
	ErrUnbounded = errors.New("problem is unbounded")
)

// StructuralError reports a malformed or incomplete problem description.
// Line is 1-based; zero means the error is not tied to a line.
type StructuralError struct {
	Line int
	Msg  string
}

func (e *StructuralError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %s", e.Line, e.Msg)
	}
	return e.Msg
}

func structuralf(line int, format string, args ...interface{}) *StructuralError {
	return &StructuralError{Line: line, Msg: fmt.Sprintf(format, args...)}
}
