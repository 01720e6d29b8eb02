package mip

import (
	"context"
	"math"
	"time"

	"github.com/carepath/fieldsched/internal/entity"
)

const fracTolerance = 1e-6

// Result is the outcome of a single Solve call: the status, the
// objective value and raw variable values of the best solution found
// (nil X if none), and observability counters for SolveMetadata.
type Result struct {
	Status    entity.SolverStatus
	Objective float64
	X         []float64
	Nodes     int
	WallClock time.Duration
}

// bbNode is one branch-and-bound search-tree node: a copy of the
// model's variable bounds, tightened along the path from the root.
type bbNode struct {
	bounds []Variable
}

// Solve runs branch-and-bound over m's LP relaxation, branching on the
// most-deterministic (lowest index) fractional integer/binary variable
// at each node, bounded by a wall-clock limit. It returns "optimal" if
// the full tree was explored, "feasible_at_limit" if the time limit
// was hit with an incumbent in hand, "infeasible" if the root
// relaxation (or every branch) is infeasible, "unbounded" if the
// relaxation is unbounded, and "solver_error" for anything else
// (including a time-out with no incumbent at all, per spec §7's
// "time-limit-with-no-incumbent" solver error).
func Solve(ctx context.Context, m *Model, wallClock time.Duration) Result {
	start := time.Now()
	ctx, cancel := context.WithTimeout(ctx, wallClock)
	defer cancel()

	root := make([]Variable, len(m.Vars))
	copy(root, m.Vars)

	stack := []bbNode{{bounds: root}}

	haveIncumbent := false
	objBest := math.Inf(1)
	var xBest []float64
	nodes := 0
	timedOut := false
	firstNode := true
	rootInfeasible := false

	for len(stack) > 0 {
		select {
		case <-ctx.Done():
			timedOut = true
		default:
		}
		if timedOut {
			break
		}

		nd := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		nodes++

		rr, err := solveRelaxation(m, nd.bounds)
		if err != nil {
			return Result{Status: entity.SolverStatusError, Nodes: nodes, WallClock: time.Since(start)}
		}

		if firstNode {
			firstNode = false
			if !rr.feasible {
				rootInfeasible = true
				break
			}
			if rr.unbounded {
				return Result{Status: entity.SolverStatusUnbounded, Nodes: nodes, WallClock: time.Since(start)}
			}
		}

		if !rr.feasible {
			continue
		}
		if rr.unbounded {
			// A sub-node claiming unbounded after the root was bounded
			// indicates numerical trouble rather than a genuinely
			// unbounded problem (the root's tighter-or-equal feasible
			// region bounds every descendant); treat conservatively as
			// pruned rather than propagating a false unbounded status.
			continue
		}
		if haveIncumbent && rr.obj >= objBest-1e-9 {
			continue // bound: this subtree cannot beat the incumbent
		}

		fracIdx, fracVal, isFrac := firstFractional(m, rr.x)
		if !isFrac {
			if rr.obj < objBest {
				objBest = rr.obj
				xBest = append([]float64(nil), rr.x...)
				haveIncumbent = true
			}
			continue
		}

		floorBounds := copyBounds(nd.bounds)
		floorBounds[fracIdx].UB = math.Floor(fracVal)
		ceilBounds := copyBounds(nd.bounds)
		ceilBounds[fracIdx].LB = math.Ceil(fracVal)

		// Push ceil first so the floor branch is explored first (LIFO
		// stack), keeping branch order deterministic and fixed
		// regardless of timing.
		stack = append(stack, bbNode{bounds: ceilBounds}, bbNode{bounds: floorBounds})
	}

	elapsed := time.Since(start)

	switch {
	case rootInfeasible:
		return Result{Status: entity.SolverStatusInfeasible, Nodes: nodes, WallClock: elapsed}
	case timedOut && haveIncumbent:
		return Result{Status: entity.SolverStatusFeasibleAtLimit, Objective: objBest, X: xBest, Nodes: nodes, WallClock: elapsed}
	case timedOut && !haveIncumbent:
		return Result{Status: entity.SolverStatusError, Nodes: nodes, WallClock: elapsed}
	case !haveIncumbent:
		return Result{Status: entity.SolverStatusInfeasible, Nodes: nodes, WallClock: elapsed}
	default:
		return Result{Status: entity.SolverStatusOptimal, Objective: objBest, X: xBest, Nodes: nodes, WallClock: elapsed}
	}
}

// firstFractional returns the lowest-index non-continuous variable
// whose relaxed value is not (within tolerance) an integer.
func firstFractional(m *Model, x []float64) (idx int, val float64, ok bool) {
	for i, v := range m.Vars {
		if v.Kind == Continuous {
			continue
		}
		xi := x[i]
		if math.Abs(xi-math.Round(xi)) > fracTolerance {
			return i, xi, true
		}
	}
	return 0, 0, false
}

func copyBounds(src []Variable) []Variable {
	dst := make([]Variable, len(src))
	copy(dst, src)
	return dst
}
