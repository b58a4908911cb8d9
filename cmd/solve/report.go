package solve

import (
	"fmt"
	"io"

	"github.com/milpkit/milpkit/pkg/milp/solver"
)

const rowFormat = "%4s %6s %6s %10s %4s %12s %10s\n"

// WriteTable prints one row per processed node.
func WriteTable(w io.Writer, iterations []solver.Iteration) {
	fmt.Fprintf(w, rowFormat, "Iter", "Eval.", "Pend.", "ObjRelax", "Act.", "BestInt", "Time(s)")
	for _, it := range iterations {
		incumbent := optional(it.Incumbent)
		if it.Improved {
			incumbent += "*"
		}
		fmt.Fprintf(w, rowFormat,
			fmt.Sprint(it.Index),
			fmt.Sprint(it.Evaluated),
			fmt.Sprint(it.Pending),
			optional(it.Objective),
			it.Action,
			incumbent,
			fmt.Sprintf("%.4f", it.Elapsed.Seconds()),
		)
	}
}

// WriteSummary prints the final result block.
func WriteSummary(w io.Writer, s *solver.Solution) {
	fmt.Fprintln(w, "FINAL RESULT")
	switch s.Status() {
	case solver.StatusOptimal:
		fmt.Fprintf(w, "Optimal value: %.4f\n", s.Objective())
		fmt.Fprintf(w, "Total nodes: %d\n", len(s.Iterations()))
		fmt.Fprintf(w, "Total time: %.4f seconds\n", s.Elapsed().Seconds())
		fmt.Fprintln(w, "Solution:")
		for _, name := range s.Variables() {
			fmt.Fprintf(w, "  %s = %.4f\n", name, s.Value(name))
		}
		if s.Stopped() != nil {
			fmt.Fprintf(w, "Search stopped early (%s); the solution is not proven optimal.\n", s.Stopped())
		}
	case solver.StatusUnbounded:
		fmt.Fprintln(w, "Problem unbounded.")
	case solver.StatusInfeasible:
		fmt.Fprintln(w, "Problem infeasible.")
	case solver.StatusIncomplete:
		fmt.Fprintf(w, "Search stopped early (%s) before any integer solution was found.\n", s.Stopped())
	}
}

// Report prints the table, a blank line and the summary.
func Report(w io.Writer, s *solver.Solution) {
	WriteTable(w, s.Iterations())
	fmt.Fprintln(w)
	WriteSummary(w, s)
}

func optional(v *float64) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("%.4f", *v)
}
