package serve

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-logr/logr/funcr"
	"github.com/spf13/cobra"

	httpserver "github.com/milpkit/milpkit/internal/http"
	"github.com/milpkit/milpkit/pkg/milp/solver"
)

func NewServeCommand() *cobra.Command {
	var (
		addr      string
		nodeLimit int
		timeLimit time.Duration
		verbosity int
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serves the solver over HTTP",
		Long: `Serves the solver over HTTP. POST a problem description to /api/v1/solve:

curl --data-binary @problem.lp 'localhost:8080/api/v1/solve?nodeLimit=1000&depthFirst=true'
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger := funcr.New(func(prefix, args string) {
				fmt.Fprintln(cmd.ErrOrStderr(), prefix, args)
			}, funcr.Options{Verbosity: verbosity})

			srv := &http.Server{
				Addr: addr,
				Handler: httpserver.NewServer(logger, nodeLimit,
					solver.WithTimeLimit(timeLimit),
				),
				ReadHeaderTimeout: 10 * time.Second,
			}
			return serve(cmd.Context(), srv, logger.Info)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", ":8080", "address to listen on")
	cmd.Flags().IntVar(&nodeLimit, "node-limit", 100000, "node limit per request; requests may lower it but not raise it (0 means no limit)")
	cmd.Flags().DurationVar(&timeLimit, "time-limit", 30*time.Second, "time limit per request (0 means no limit)")
	cmd.Flags().IntVarP(&verbosity, "verbosity", "v", 0, "log verbosity on stderr")
	return cmd
}

// serve runs srv until ctx is done, then shuts it down gracefully.
func serve(ctx context.Context, srv *http.Server, info func(msg string, kv ...interface{})) error {
	errs := make(chan error, 1)
	go func() {
		info("listening", "addr", srv.Addr)
		errs <- srv.ListenAndServe()
	}()

	select {
	case err := <-errs:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if err := <-errs; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	info("server stopped")
	return nil
}
