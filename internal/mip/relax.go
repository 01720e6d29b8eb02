package mip

import (
	"strings"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize/convex/lp"
)

// relaxResult is the outcome of solving one branch-and-bound node's LP
// relaxation.
type relaxResult struct {
	feasible  bool
	unbounded bool
	obj       float64
	x         []float64
}

// solveRelaxation solves the LP relaxation of m using the
// (possibly branch-tightened) variable bounds in `bounds`, via gonum's
// simplex implementation. Equality constraints (spec's coverage,
// availability, forbidden-visit rows) are passed through as A x = b;
// inequality constraints and variable bounds are folded into G x <= h,
// which lp.Convert turns into the standard equality form Simplex
// expects.
func solveRelaxation(m *Model, bounds []Variable) (relaxResult, error) {
	n := len(m.Vars)
	if n == 0 {
		return relaxResult{feasible: true, obj: 0, x: nil}, nil
	}

	var gRows [][]float64
	var h []float64
	var aRows [][]float64
	var b []float64

	addLE := func(coeffs map[int]float64, rhs float64) {
		row := make([]float64, n)
		for i, c := range coeffs {
			row[i] = c
		}
		gRows = append(gRows, row)
		h = append(h, rhs)
	}
	addGE := func(coeffs map[int]float64, rhs float64) {
		row := make([]float64, n)
		for i, c := range coeffs {
			row[i] = -c
		}
		gRows = append(gRows, row)
		h = append(h, -rhs)
	}
	addEQ := func(coeffs map[int]float64, rhs float64) {
		row := make([]float64, n)
		for i, c := range coeffs {
			row[i] = c
		}
		aRows = append(aRows, row)
		b = append(b, rhs)
	}

	for _, c := range m.Constraints {
		switch c.Sense {
		case LE:
			addLE(c.Coeffs, c.RHS)
		case GE:
			addGE(c.Coeffs, c.RHS)
		case EQ:
			addEQ(c.Coeffs, c.RHS)
		}
	}
	for i, v := range bounds {
		addLE(map[int]float64{i: 1}, v.UB)
		addGE(map[int]float64{i: 1}, v.LB)
	}

	cObj := make([]float64, n)
	for i, coeff := range m.Objective {
		cObj[i] = coeff
	}

	G := mat.NewDense(len(gRows), n, flatten(gRows, n))
	var A *mat.Dense
	if len(aRows) > 0 {
		A = mat.NewDense(len(aRows), n, flatten(aRows, n))
	}

	newC, newA, newB := lp.Convert(cObj, G, h, A, b)

	zOpt, xOpt, err := lp.Simplex(newC, newA, newB, 1e-10, nil)
	if err != nil {
		msg := strings.ToLower(err.Error())
		switch {
		case strings.Contains(msg, "infeasible"):
			return relaxResult{feasible: false}, nil
		case strings.Contains(msg, "unbounded"):
			return relaxResult{feasible: true, unbounded: true}, nil
		default:
			return relaxResult{}, err
		}
	}

	return relaxResult{
		feasible: true,
		obj:      zOpt,
		x:        xOpt[:n],
	}, nil
}

// flatten row-majors a slice of equal-length rows into the backing
// array mat.NewDense expects.
func flatten(rows [][]float64, width int) []float64 {
	out := make([]float64, len(rows)*width)
	for i, row := range rows {
		copy(out[i*width:(i+1)*width], row)
	}
	return out
}
