package mip

import (
	"fmt"

	"github.com/carepath/fieldsched/internal/constraints"
	"github.com/carepath/fieldsched/internal/entity"
	"github.com/carepath/fieldsched/internal/preflight"
)

// TBar is the fixed scaling constant (hours per patient) linking
// workload to travel in the objective, per spec §4.5/glossary.
const TBar = 0.025

// Params bundles the request-level solver parameters of spec §6 that
// shape the model: the request's lambda_param/lambda_facility/
// lambda_bunching map onto the workload/gap/bunching penalty weights
// of spec §4.5's objective.
type Params struct {
	MaxPatientsPerDay int     // M
	Alpha             float64 // alpha
	Month             string  // "YYYY-MM", selects the census column
	LambdaWorkload    float64 // request's lambda_param
	LambdaGap         float64 // request's lambda_facility
	LambdaBunching    float64 // request's lambda_bunching
	TGap              int     // facility_visit_window, default 10
	TBun              int     // fixed at 7 per spec
}

// Indices records the variable index assigned to each decision
// variable so the post-processor can read the solved values back out.
type Indices struct {
	X    map[[3]int]int // [providerIdx][facilityIdx][dayIdx]
	Y    map[[2]int]int // [providerIdx][dayIdx]
	Z    map[[3]int]int // [providerIdx][facilityIdx][dayIdx]
	H    map[[2]int]int // [providerIdx][dayIdx]
	W    map[[4]int]int // [providerIdx][f1][f2][dayIdx], f1 != f2
	XMax int
	SGap map[[2]int]int // [facilityIdx][windowStart]
	SBun map[[2]int]int // [facilityIdx][windowStart]
}

// Build constructs the full MIP for a single active provider, in the
// deterministic variable/constraint order spec §5 mandates: providers,
// facilities, and days in index order; pair variables in (f1,f2)
// lexicographic order.
func Build(
	cat *entity.Catalog,
	hz *entity.Horizon,
	providerIdx int,
	compiled *constraints.Compiled,
	params Params,
) (*Model, *Indices) {
	m := NewModel()
	idx := &Indices{
		X:    make(map[[3]int]int),
		Y:    make(map[[2]int]int),
		Z:    make(map[[3]int]int),
		H:    make(map[[2]int]int),
		W:    make(map[[4]int]int),
		SGap: make(map[[2]int]int),
		SBun: make(map[[2]int]int),
	}

	p := providerIdx
	F := cat.NumFacilities()
	D := hz.Len()
	M := float64(params.MaxPatientsPerDay)

	assignedFacilities := make([]int, 0, F)
	for _, f := range cat.Facilities {
		if cat.IsAssigned(p, f.Index) {
			assignedFacilities = append(assignedFacilities, f.Index)
		}
	}

	// Decision variables, in index order.
	for _, f := range cat.Facilities {
		for d := 0; d < D; d++ {
			ub := 0.0
			if cat.IsAssigned(p, f.Index) {
				ub = M
			}
			idx.X[[3]int{p, f.Index, d}] = m.AddVar(fmt.Sprintf("x[%d,%d,%d]", p, f.Index, d), Integer, 0, ub)
		}
	}
	for d := 0; d < D; d++ {
		idx.Y[[2]int{p, d}] = m.AddVar(fmt.Sprintf("y[%d,%d]", p, d), Binary, 0, 1)
	}
	for _, f := range cat.Facilities {
		for d := 0; d < D; d++ {
			ub := 0.0
			if cat.IsAssigned(p, f.Index) {
				ub = 1
			}
			idx.Z[[3]int{p, f.Index, d}] = m.AddVar(fmt.Sprintf("z[%d,%d,%d]", p, f.Index, d), Binary, 0, ub)
		}
	}
	for d := 0; d < D; d++ {
		idx.H[[2]int{p, d}] = m.AddVar(fmt.Sprintf("h[%d,%d]", p, d), Continuous, 0, hugeHomeTravelBound(cat, p))
	}
	for _, f1 := range assignedFacilities {
		for _, f2 := range assignedFacilities {
			if f1 == f2 {
				continue
			}
			for d := 0; d < D; d++ {
				idx.W[[4]int{p, f1, f2, d}] = m.AddVar(fmt.Sprintf("w[%d,%d,%d,%d]", p, f1, f2, d), Binary, 0, 1)
			}
		}
	}
	idx.XMax = m.AddVar("x_max", Continuous, 0, M)
	if len(assignedFacilities) > 0 && D > 0 {
		for _, f := range assignedFacilities {
			for t := 0; t < D; t++ {
				idx.SGap[[2]int{f, t}] = m.AddVar(fmt.Sprintf("s_gap[%d,%d]", f, t), Continuous, 0, float64(len(assignedFacilities)+1))
				idx.SBun[[2]int{f, t}] = m.AddVar(fmt.Sprintf("s_bun[%d,%d]", f, t), Continuous, 0, M*float64(D))
			}
		}
	}

	// Constraint 1: demand coverage (equality, per facility).
	rf := preflight.PerFacilityAdjustedDemand(cat, p, params.Month, params.Alpha)
	for _, f := range cat.Facilities {
		r, ok := rf[f.Index]
		if !ok || r <= 0 {
			continue
		}
		coeffs := make(map[int]float64)
		for d := 0; d < D; d++ {
			coeffs[idx.X[[3]int{p, f.Index, d}]] = 1
		}
		m.AddConstraint(fmt.Sprintf("coverage[%d]", f.Index), coeffs, EQ, float64(r))
	}

	// Constraint 2: daily cap.
	for d := 0; d < D; d++ {
		coeffs := make(map[int]float64)
		for _, f := range cat.Facilities {
			coeffs[idx.X[[3]int{p, f.Index, d}]] = 1
		}
		m.AddConstraint(fmt.Sprintf("daily_cap[%d,%d]", p, d), coeffs, LE, M)
	}

	// Constraint 3: work-day link. sum_f x[p,f,d] - M*y[p,d] <= 0
	for d := 0; d < D; d++ {
		coeffs := make(map[int]float64)
		for _, f := range cat.Facilities {
			coeffs[idx.X[[3]int{p, f.Index, d}]] = 1
		}
		coeffs[idx.Y[[2]int{p, d}]] = -M
		m.AddConstraint(fmt.Sprintf("workday_link[%d,%d]", p, d), coeffs, LE, 0)
	}

	// Constraint 4: visit link. x[p,f,d] - M*z[p,f,d] <= 0
	for _, f := range cat.Facilities {
		for d := 0; d < D; d++ {
			coeffs := map[int]float64{
				idx.X[[3]int{p, f.Index, d}]: 1,
				idx.Z[[3]int{p, f.Index, d}]: -M,
			}
			m.AddConstraint(fmt.Sprintf("visit_link[%d,%d,%d]", p, f.Index, d), coeffs, LE, 0)
		}
	}

	// Constraint 5: availability. y[p,d] = 0 where unavailable.
	for d := 0; d < D; d++ {
		if compiled.Unavailable[d] {
			m.AddConstraint(fmt.Sprintf("availability[%d,%d]", p, d), map[int]float64{idx.Y[[2]int{p, d}]: 1}, EQ, 0)
		}
	}

	// Constraint 6: workload ceiling. x_max - sum_f x[p,f,d] >= 0
	for d := 0; d < D; d++ {
		coeffs := map[int]float64{idx.XMax: 1}
		for _, f := range cat.Facilities {
			coeffs[idx.X[[3]int{p, f.Index, d}]] -= 1
		}
		m.AddConstraint(fmt.Sprintf("workload_ceiling[%d,%d]", p, d), coeffs, GE, 0)
	}

	// Constraint 7: home-travel surrogate. h[p,d] - travel*z[p,f,d] >= 0
	for _, f := range assignedFacilities {
		travel := cat.HomeTravel(p, f)
		for d := 0; d < D; d++ {
			coeffs := map[int]float64{
				idx.H[[2]int{p, d}]:      1,
				idx.Z[[3]int{p, f, d}]: -travel,
			}
			m.AddConstraint(fmt.Sprintf("home_travel[%d,%d,%d]", p, f, d), coeffs, GE, 0)
		}
	}

	// Constraint 8: pair linearization.
	for _, f1 := range assignedFacilities {
		for _, f2 := range assignedFacilities {
			if f1 == f2 {
				continue
			}
			for d := 0; d < D; d++ {
				w := idx.W[[4]int{p, f1, f2, d}]
				z1 := idx.Z[[3]int{p, f1, d}]
				z2 := idx.Z[[3]int{p, f2, d}]
				m.AddConstraint(fmt.Sprintf("pair_le1[%d,%d,%d,%d]", p, f1, f2, d), map[int]float64{w: 1, z1: -1}, LE, 0)
				m.AddConstraint(fmt.Sprintf("pair_le2[%d,%d,%d,%d]", p, f1, f2, d), map[int]float64{w: 1, z2: -1}, LE, 0)
				m.AddConstraint(fmt.Sprintf("pair_ge[%d,%d,%d,%d]", p, f1, f2, d), map[int]float64{w: 1, z1: -1, z2: -1}, GE, -1)
			}
		}
	}

	// Constraint 9: sparse-visit (soft), circular windows of TGap days.
	// Constraint 10: bunching (soft), circular windows of TBun days.
	if len(assignedFacilities) > 0 && D > 0 {
		for _, f := range assignedFacilities {
			for t := 0; t < D; t++ {
				gapCoeffs := map[int]float64{idx.SGap[[2]int{f, t}]: 1}
				bunCoeffs := map[int]float64{idx.SBun[[2]int{f, t}]: -1}
				for j := 0; j < params.TGap; j++ {
					day := (t + j) % D
					gapCoeffs[idx.Z[[3]int{p, f, day}]] += 1
				}
				for j := 0; j < params.TBun; j++ {
					day := (t + j) % D
					bunCoeffs[idx.Z[[3]int{p, f, day}]] += 1
				}
				m.AddConstraint(fmt.Sprintf("sparse[%d,%d]", f, t), gapCoeffs, GE, 1)
				m.AddConstraint(fmt.Sprintf("bunch[%d,%d]", f, t), bunCoeffs, LE, 1)
			}
		}
	}

	// Constraint 11: required visits.
	for _, rv := range compiled.Required {
		m.AddConstraint(
			fmt.Sprintf("required[%d,%d,%d]", rv.ProviderIdx, rv.FacilityIdx, rv.DayIdx),
			map[int]float64{idx.X[[3]int{rv.ProviderIdx, rv.FacilityIdx, rv.DayIdx}]: 1},
			GE, 1,
		)
	}

	// Constraint 12: forbidden visits.
	for _, fv := range compiled.Forbidden {
		m.AddConstraint(
			fmt.Sprintf("forbidden[%d,%d,%d]", fv.ProviderIdx, fv.FacilityIdx, fv.DayIdx),
			map[int]float64{idx.Z[[3]int{fv.ProviderIdx, fv.FacilityIdx, fv.DayIdx}]: 1},
			EQ, 0,
		)
	}

	// Objective, four additive terms (minimize).
	for d := 0; d < D; d++ {
		m.AddObjective(idx.H[[2]int{p, d}], 1)
	}
	for _, f1 := range assignedFacilities {
		for _, f2 := range assignedFacilities {
			if f1 == f2 {
				continue
			}
			travel := cat.FacilityTravel(f1, f2)
			for d := 0; d < D; d++ {
				m.AddObjective(idx.W[[4]int{p, f1, f2, d}], travel)
			}
		}
	}
	m.AddObjective(idx.XMax, params.LambdaWorkload*TBar)
	if len(assignedFacilities) > 0 {
		for _, f := range assignedFacilities {
			for t := 0; t < D; t++ {
				m.AddObjective(idx.SGap[[2]int{f, t}], params.LambdaGap)
				m.AddObjective(idx.SBun[[2]int{f, t}], params.LambdaBunching)
			}
		}
	}

	return m, idx
}

// hugeHomeTravelBound bounds h[p,d] by the largest single home->facility
// travel time the provider could incur, keeping the LP relaxation
// tight instead of unbounded-looking.
func hugeHomeTravelBound(cat *entity.Catalog, providerIdx int) float64 {
	max := 0.0
	for _, f := range cat.Facilities {
		if t := cat.HomeTravel(providerIdx, f.Index); t > max {
			max = t
		}
	}
	return max
}
