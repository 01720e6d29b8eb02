package mip

import "math"

// Solution is the rounded-to-integer reading of a solved Result,
// keyed the same way as Indices, ready for the post-processor.
type Solution struct {
	Patients map[[3]int]int  // [providerIdx][facilityIdx][dayIdx] -> x
	Visited  map[[3]int]bool // [providerIdx][facilityIdx][dayIdx] -> z
}

// Extract reads the solved variable vector back into patient counts
// and visit flags, rounding to the nearest integer to absorb simplex
// floating-point slack (branch-and-bound already drove integer
// variables to within fracTolerance of an integer).
func Extract(idx *Indices, x []float64) *Solution {
	sol := &Solution{
		Patients: make(map[[3]int]int),
		Visited:  make(map[[3]int]bool),
	}
	for key, vi := range idx.X {
		if vi < len(x) {
			sol.Patients[key] = int(math.Round(x[vi]))
		}
	}
	for key, vi := range idx.Z {
		if vi < len(x) {
			sol.Visited[key] = x[vi] > 0.5
		}
	}
	return sol
}
