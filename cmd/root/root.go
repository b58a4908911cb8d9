package root

import (
	"github.com/spf13/cobra"

	"github.com/milpkit/milpkit/cmd/serve"
	"github.com/milpkit/milpkit/cmd/solve"
)

func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "milpkit",
		Short: "milpkit solves mixed integer linear programs by branch-and-bound",
		Long: `A branch-and-bound solver for mixed integer linear programs written in Go.
Relaxations are solved with the simplex method; the search log is printed
node by node.`,
		SilenceUsage: true,
	}

	// add sub-commands
	rootCmd.AddCommand(solve.NewSolveCommand())
	rootCmd.AddCommand(serve.NewServeCommand())

	return rootCmd
}
