package bnb

import (
	"math"
	"sync"

	"github.com/milpkit/milpkit/pkg/milp"
)

// Epsilon is the tolerance of every integrality and objective comparison.
const Epsilon = 1e-5

// Incumbent holds the best integer-feasible solution found so far. Offer is
// the only write path; objective and assignment always change together.
type Incumbent struct {
	mu         sync.Mutex
	set        bool
	objective  float64
	assignment map[string]float64
}

// Offer replaces the incumbent if the candidate improves on it by more than
// Epsilon in the direction of sense, and reports whether it did.
func (in *Incumbent) Offer(sense milp.Sense, objective float64, assignment map[string]float64) bool {
	in.mu.Lock()
	defer in.mu.Unlock()
	if in.set && !improves(sense, objective, in.objective) {
		return false
	}
	in.set = true
	in.objective = objective
	in.assignment = copyAssignment(assignment)
	return true
}

// Objective returns the incumbent objective, if any.
func (in *Incumbent) Objective() Value {
	in.mu.Lock()
	defer in.mu.Unlock()
	return Value{V: in.objective, Valid: in.set}
}

// Snapshot returns a copy of the incumbent.
func (in *Incumbent) Snapshot() (objective float64, assignment map[string]float64, ok bool) {
	in.mu.Lock()
	defer in.mu.Unlock()
	if !in.set {
		return 0, nil, false
	}
	return in.objective, copyAssignment(in.assignment), true
}

func improves(sense milp.Sense, candidate, best float64) bool {
	if sense == milp.Maximize {
		return candidate > best+Epsilon
	}
	return candidate < best-Epsilon
}

// worse reports whether a relaxation bound cannot reach best.
func worse(sense milp.Sense, bound, best float64) bool {
	if sense == milp.Maximize {
		return bound < best-Epsilon
	}
	return bound > best+Epsilon
}

func integral(v float64) bool {
	return math.Abs(v-math.Round(v)) <= Epsilon
}

// firstFractional returns the first of names whose value is not integral.
func firstFractional(names []string, assignment map[string]float64) (string, float64, bool) {
	for _, name := range names {
		if v := assignment[name]; !integral(v) {
			return name, v, true
		}
	}
	return "", 0, false
}

// snap copies assignment with the named variables rounded to the nearest
// integer. Callers only pass values already within Epsilon of one.
func snap(names []string, assignment map[string]float64) map[string]float64 {
	out := copyAssignment(assignment)
	for _, name := range names {
		if v, ok := out[name]; ok {
			r := math.Round(v)
			if r == 0 {
				r = 0 // no negative zero
			}
			out[name] = r
		}
	}
	return out
}

func copyAssignment(assignment map[string]float64) map[string]float64 {
	if assignment == nil {
		return nil
	}
	out := make(map[string]float64, len(assignment))
	for k, v := range assignment {
		out[k] = v
	}
	return out
}
