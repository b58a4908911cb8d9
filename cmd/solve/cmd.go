package solve

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/go-logr/logr"
	"github.com/go-logr/logr/funcr"
	"github.com/spf13/cobra"

	"github.com/milpkit/milpkit/pkg/milp/format"
	"github.com/milpkit/milpkit/pkg/milp/solver"
)

type options struct {
	nodeLimit  int
	timeLimit  time.Duration
	depthFirst bool
	pruneBound bool
	trace      bool
	verbosity  int
}

func NewSolveCommand() *cobra.Command {
	opts := options{}
	cmd := &cobra.Command{
		Use:   "solve <path>",
		Short: "Solves a mixed integer linear program by branch-and-bound",
		Long: `Solves a mixed integer linear program by branch-and-bound. For instance:
# a comment
var x1 integer >=0;
var x2 real >=0;
maximize: 1*x1 + 2*x2;
subject to: 1*x1 + 1*x2 <= 4;
subject to: 1*x1 <= 3;
end;

Variables are "real" or "integer", bounded ">=0", "<=0" or "free".
`,
		Args: cobra.ExactArgs(1),
		PreRunE: func(cmd *cobra.Command, args []string) error {
			if _, err := os.Stat(args[0]); errors.Is(err, os.ErrNotExist) {
				return fmt.Errorf("file (%s) not found", args[0])
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return solve(cmd, args[0], opts)
		},
	}
	cmd.Flags().IntVar(&opts.nodeLimit, "node-limit", 0, "stop after evaluating this many nodes (0 means no limit)")
	cmd.Flags().DurationVar(&opts.timeLimit, "time-limit", 0, "stop once this much time has elapsed (0 means no limit)")
	cmd.Flags().BoolVar(&opts.depthFirst, "depth-first", false, "explore nodes depth-first instead of breadth-first")
	cmd.Flags().BoolVar(&opts.pruneBound, "prune-bound", false, "do not branch on nodes that cannot beat the best integer solution")
	cmd.Flags().BoolVar(&opts.trace, "trace", false, "print every node's branching constraints to stderr")
	cmd.Flags().IntVarP(&opts.verbosity, "verbosity", "v", -1, "log verbosity on stderr (-1 disables logging)")
	return cmd
}

func solve(cmd *cobra.Command, path string, opts options) error {
	problemFile, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("error opening problem file (%s): %w", path, err)
	}
	defer problemFile.Close()

	model, err := format.Parse(problemFile)
	if err != nil {
		return fmt.Errorf("error parsing problem file (%s): %w", path, err)
	}

	so, err := solver.NewSolver(solverOptions(opts, cmd.ErrOrStderr())...)
	if err != nil {
		return err
	}

	solution, err := so.Solve(cmd.Context(), model)
	if err != nil {
		return err
	}
	Report(cmd.OutOrStdout(), solution)
	return nil
}

func solverOptions(opts options, stderr io.Writer) []solver.Option {
	options := []solver.Option{
		solver.WithNodeLimit(opts.nodeLimit),
		solver.WithTimeLimit(opts.timeLimit),
		solver.WithLogger(newLogger(stderr, opts.verbosity)),
	}
	if opts.depthFirst {
		options = append(options, solver.WithDepthFirst())
	}
	if opts.pruneBound {
		options = append(options, solver.WithBoundPruning())
	}
	if opts.trace {
		options = append(options, solver.WithTraceWriter(stderr))
	}
	return options
}

func newLogger(w io.Writer, verbosity int) logr.Logger {
	if verbosity < 0 {
		return logr.Discard()
	}
	return funcr.New(func(prefix, args string) {
		if prefix != "" {
			fmt.Fprintln(w, prefix, args)
			return
		}
		fmt.Fprintln(w, args)
	}, funcr.Options{Verbosity: verbosity})
}
