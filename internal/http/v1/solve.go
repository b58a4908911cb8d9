package v1

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-logr/logr"
	"github.com/samber/lo"

	"github.com/milpkit/milpkit/pkg/milp"
	"github.com/milpkit/milpkit/pkg/milp/format"
	"github.com/milpkit/milpkit/pkg/milp/solver"
)

const maxProblemBytes = 1 << 20

type solveHandler struct {
	logger    logr.Logger
	nodeLimit int // caps every request; zero means no cap
	options   []solver.Option
}

type iterationResp struct {
	Iter      int      `json:"iter"`
	NodeID    int      `json:"nodeId"`
	Depth     int      `json:"depth"`
	Evaluated int      `json:"evaluated"`
	Pending   int      `json:"pending"`
	Objective *float64 `json:"objective"`
	State     string   `json:"state"`
	Action    string   `json:"action"`
	Incumbent *float64 `json:"incumbent"`
	Improved  bool     `json:"improved"`
	Seconds   float64  `json:"seconds"`
}

type solveResp struct {
	RunID     string             `json:"runId"`
	Status    string             `json:"status"`
	Objective *float64           `json:"objective,omitempty"`
	Solution  map[string]float64 `json:"solution,omitempty"`
	Stopped   string             `json:"stopped,omitempty"`
	Log       []iterationResp    `json:"log"`
}

type errorResp struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Line    int    `json:"line,omitempty"`
}

// solve handles POST /solve. The body is a problem description; the query
// parameters nodeLimit, depthFirst and pruneBound tune the search.
func (h *solveHandler) solve(w http.ResponseWriter, r *http.Request) {
	options, err := queryOptions(r, h.nodeLimit)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp{Error: "bad_request", Message: err.Error()})
		return
	}

	model, err := format.Parse(http.MaxBytesReader(w, r.Body, maxProblemBytes))
	var (
		structural *milp.StructuralError
		tooLarge   *http.MaxBytesError
	)
	switch {
	case errors.As(err, &structural):
		writeJSON(w, http.StatusUnprocessableEntity, errorResp{Error: "invalid_problem", Message: structural.Msg, Line: structural.Line})
		return
	case errors.As(err, &tooLarge):
		writeJSON(w, http.StatusRequestEntityTooLarge, errorResp{Error: "too_large", Message: fmt.Sprintf("problem exceeds %d bytes", tooLarge.Limit)})
		return
	case err != nil:
		writeJSON(w, http.StatusBadRequest, errorResp{Error: "bad_request", Message: err.Error()})
		return
	}

	logger := h.logger.WithValues("requestId", middleware.GetReqID(r.Context()))
	options = append(append([]solver.Option{solver.WithLogger(logger)}, h.options...), options...)
	so, err := solver.NewSolver(options...)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp{Error: "bad_request", Message: err.Error()})
		return
	}

	solution, err := so.Solve(r.Context(), model)
	if err != nil {
		logger.Error(err, "solve failed")
		writeJSON(w, http.StatusInternalServerError, errorResp{Error: "internal", Message: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, toResp(solution))
}

// queryOptions maps the query parameters to solver options. A requested
// nodeLimit never lifts the server's own limit: zero or anything above it is
// clamped to limit.
func queryOptions(r *http.Request, limit int) ([]solver.Option, error) {
	var options []solver.Option
	q := r.URL.Query()
	n := limit
	if v := q.Get("nodeLimit"); v != "" {
		requested, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("invalid nodeLimit %q: %w", v, err)
		}
		if limit == 0 || (requested != 0 && requested < limit) {
			n = requested
		}
	}
	if n != 0 {
		options = append(options, solver.WithNodeLimit(n))
	}
	for param, option := range map[string]solver.Option{
		"depthFirst": solver.WithDepthFirst(),
		"pruneBound": solver.WithBoundPruning(),
	} {
		v := q.Get(param)
		if v == "" {
			continue
		}
		on, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("invalid %s %q: %w", param, v, err)
		}
		if on {
			options = append(options, option)
		}
	}
	return options, nil
}

func toResp(s *solver.Solution) solveResp {
	resp := solveResp{
		RunID:  s.RunID().String(),
		Status: string(s.Status()),
		Log: lo.Map(s.Iterations(), func(it solver.Iteration, _ int) iterationResp {
			return iterationResp{
				Iter:      it.Index,
				NodeID:    it.NodeID,
				Depth:     it.Depth,
				Evaluated: it.Evaluated,
				Pending:   it.Pending,
				Objective: it.Objective,
				State:     it.State,
				Action:    it.Action,
				Incumbent: it.Incumbent,
				Improved:  it.Improved,
				Seconds:   it.Elapsed.Seconds(),
			}
		}),
	}
	if s.Status() == solver.StatusOptimal {
		resp.Objective = lo.ToPtr(s.Objective())
		resp.Solution = s.Values()
	}
	if s.Stopped() != nil {
		resp.Stopped = s.Stopped().Error()
	}
	return resp
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
