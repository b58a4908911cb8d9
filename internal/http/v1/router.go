package v1

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-logr/logr"

	"github.com/milpkit/milpkit/pkg/milp/solver"
)

// Router returns the chi.Router for REST API v1. A positive nodeLimit is the
// most nodes any request may evaluate.
func Router(logger logr.Logger, nodeLimit int, options ...solver.Option) chi.Router {
	h := &solveHandler{logger: logger, nodeLimit: nodeLimit, options: options}

	r := chi.NewRouter()
	r.Post("/solve", h.solve)
	return r
}
