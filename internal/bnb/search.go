// Package bnb implements a branch-and-bound search over LP relaxations.
//
// The engine keeps a frontier of nodes, each carrying the branching
// constraints accumulated since the root. Every node is handed to a
// milp.Oracle, classified, logged and possibly split on its first
// fractional integer variable. The search ends when the frontier is empty,
// or earlier when a node limit, time limit or context cancellation stops it.
package bnb

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/go-logr/logr"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/milpkit/milpkit/pkg/milp"
)

const tracerName = "github.com/milpkit/milpkit/internal/bnb"

// ErrSearchLimitReached indicates that the node limit stopped the search
// before the frontier emptied. The incumbent, if any, is valid but not
// proven optimal.
var ErrSearchLimitReached = errors.New("search limit reached")

// Outcome is the final status of a search.
type Outcome int

const (
	Optimal Outcome = iota
	Infeasible
	Unbounded
	// Incomplete means the search stopped early without any incumbent.
	Incomplete
)

func (o Outcome) String() string {
	switch o {
	case Optimal:
		return "optimal"
	case Infeasible:
		return "infeasible"
	case Unbounded:
		return "unbounded"
	case Incomplete:
		return "incomplete"
	}
	return "Outcome(" + strconv.Itoa(int(o)) + ")"
}

// Result summarises a search. Objective and Assignment are set when Status
// is Optimal.
type Result struct {
	RunID      uuid.UUID
	Status     Outcome
	Objective  float64
	Assignment map[string]float64
	Log        *Log
	Elapsed    time.Duration
}

// Engine runs branch-and-bound searches against an injected oracle. An
// Engine holds no per-search state and may be reused.
type Engine struct {
	oracle         milp.Oracle
	tracer         Tracer
	logger         logr.Logger
	tracerProvider trace.TracerProvider
	runIDs         RunIDProvider
	nodeLimit      int
	timeLimit      time.Duration
	boundPruning   bool
	depthFirst     bool
	now            func() time.Time
}

func New(oracle milp.Oracle, options ...Option) (*Engine, error) {
	if oracle == nil {
		return nil, errors.New("relaxation oracle is required")
	}
	e := Engine{oracle: oracle, logger: logr.Discard()}
	for _, option := range append(options, defaults...) {
		if err := option(&e); err != nil {
			return nil, err
		}
	}
	return &e, nil
}

// Search runs branch-and-bound on m. When the search stops early the
// returned result still carries the incumbent found so far, and the error
// is ErrSearchLimitReached or the context's error.
func (e *Engine) Search(ctx context.Context, m *milp.Model) (*Result, error) {
	if m == nil {
		return nil, errors.New("model is required")
	}
	if e.timeLimit > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeLimit)
		defer cancel()
	}

	runID := e.runIDs.NextRunID()
	tracer := e.tracerProvider.Tracer(tracerName)
	ctx, span := tracer.Start(ctx, "bnb.Search", trace.WithAttributes(
		attribute.String("run_id", runID.String()),
		attribute.String("sense", m.Sense().String()),
		attribute.Int("variables", len(m.Variables())),
		attribute.Int("constraints", len(m.Constraints())),
	))
	defer span.End()

	s := &search{
		engine:    e,
		model:     m,
		sense:     m.Sense(),
		integers:  m.IntegerVariables(),
		logger:    e.logger.WithValues("run", runID.String()),
		tracer:    tracer,
		log:       &Log{},
		start:     e.now(),
		nextID:    2,
		incumbent: &Incumbent{},
	}
	if e.depthFirst {
		s.frontier = &stack{}
	} else {
		s.frontier = &queue{}
	}
	s.frontier.push(root())

	s.logger.Info("search started", "variables", len(m.Variables()), "integers", len(s.integers), "constraints", len(m.Constraints()))
	stopErr := s.run(ctx)

	result := &Result{
		RunID:   runID,
		Log:     s.log,
		Elapsed: e.now().Sub(s.start),
	}
	objective, assignment, ok := s.incumbent.Snapshot()
	switch {
	case ok:
		result.Status = Optimal
		result.Objective = objective
		result.Assignment = assignment
	case s.log.Unbounded():
		result.Status = Unbounded
	case stopErr != nil:
		result.Status = Incomplete
	default:
		result.Status = Infeasible
	}

	span.SetAttributes(
		attribute.String("status", result.Status.String()),
		attribute.Int("nodes", s.log.Len()),
	)
	if stopErr != nil {
		span.RecordError(stopErr)
		span.SetStatus(codes.Error, "search stopped early")
		s.logger.Info("search stopped early", "reason", stopErr.Error(), "status", result.Status.String(), "nodes", s.log.Len())
	} else {
		s.logger.Info("search finished", "status", result.Status.String(), "nodes", s.log.Len(), "elapsed", result.Elapsed.String())
	}
	return result, stopErr
}

// search is the state of a single run.
type search struct {
	engine    *Engine
	model     *milp.Model
	sense     milp.Sense
	integers  []string
	logger    logr.Logger
	tracer    trace.Tracer
	frontier  frontier
	log       *Log
	incumbent *Incumbent
	start     time.Time
	nextID    int
}

func (s *search) run(ctx context.Context) error {
	for s.frontier.len() > 0 {
		if err := ctx.Err(); err != nil {
			return err
		}
		if s.engine.nodeLimit > 0 && s.log.Len() >= s.engine.nodeLimit {
			return ErrSearchLimitReached
		}

		node, _ := s.frontier.pop()
		entry, children, err := s.process(ctx, node)
		if err != nil {
			return err
		}
		s.frontier.push(children...)

		entry.Index = s.log.Len() + 1
		entry.Evaluated = entry.Index
		entry.Pending = s.frontier.len()
		entry.Elapsed = s.engine.now().Sub(s.start)
		s.log.append(entry)

		s.engine.tracer.Trace(position{entry: entry, node: node})
		s.logger.V(1).Info("node processed",
			"node", entry.NodeID,
			"depth", entry.Depth,
			"action", entry.Action.Code(),
			"state", entry.State.String(),
			"pending", entry.Pending,
			"improved", entry.Improved,
		)
	}
	return nil
}

// process evaluates one node and returns its log entry, without the
// counters filled in, and the children to queue. An error is only returned
// when ctx ended while the oracle was running.
func (s *search) process(ctx context.Context, node Node) (Entry, []Node, error) {
	ctx, span := s.tracer.Start(ctx, "bnb.Node", trace.WithAttributes(
		attribute.Int("node.id", node.ID),
		attribute.Int("node.depth", node.Depth),
	))
	defer span.End()

	entry := Entry{NodeID: node.ID, Depth: node.Depth}
	var children []Node

	relaxation, err := s.engine.oracle.Solve(ctx, s.model, node.Constraints())
	switch {
	case err != nil && ctx.Err() != nil:
		span.RecordError(err)
		span.SetStatus(codes.Error, "cancelled")
		return Entry{}, nil, ctx.Err()
	case err != nil:
		// The node is a dead end; the run goes on without it.
		span.RecordError(err)
		span.SetStatus(codes.Error, "relaxation oracle failed")
		s.logger.Error(err, "relaxation oracle failed, dropping node", "node", node.ID)
		entry.State = StateFailed
		entry.Action = ActionPruneInfeasible
	case relaxation.Status == milp.StatusInfeasible:
		entry.State = StateInfeasible
		entry.Action = ActionPruneInfeasible
	case relaxation.Status == milp.StatusUnbounded:
		entry.State = StateUnbounded
		entry.Action = ActionPruneUnbounded
	case relaxation.Status == milp.StatusOptimal:
		entry.Objective = Some(relaxation.Objective)
		name, value, fractional := firstFractional(s.integers, relaxation.Assignment)
		if !fractional {
			entry.State = StateIntegerOptimal
			entry.Action = ActionIntegerOptimal
			entry.Improved = s.incumbent.Offer(s.sense, relaxation.Objective, snap(s.integers, relaxation.Assignment))
			break
		}
		entry.State = StateFractional
		entry.Action = ActionBranched
		if best := s.incumbent.Objective(); s.engine.boundPruning && best.Valid && worse(s.sense, relaxation.Objective, best.V) {
			break
		}
		left, right := node.split(s.nextID, name, value)
		s.nextID += 2
		children = []Node{left, right}
		span.SetAttributes(
			attribute.String("branch.variable", name),
			attribute.Float64("branch.value", value),
		)
	default:
		span.SetStatus(codes.Error, "unrecognized relaxation status")
		s.logger.Info("relaxation oracle returned an unrecognized status, dropping node", "node", node.ID, "status", relaxation.Status.String())
		entry.State = StateFailed
		entry.Action = ActionPruneInfeasible
	}

	best := s.incumbent.Objective()
	if entry.Objective.Valid && best.Valid && worse(s.sense, entry.Objective.V, best.V) {
		entry.Action = ActionPruneBound
	}
	entry.Incumbent = best

	span.SetAttributes(
		attribute.String("node.state", entry.State.String()),
		attribute.String("node.action", entry.Action.Code()),
	)
	if entry.Objective.Valid {
		span.SetAttributes(attribute.Float64("node.objective", entry.Objective.V))
	}
	return entry, children, nil
}
