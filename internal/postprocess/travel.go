// Package postprocess implements the post-solve reporting routine of
// spec §4.6: for each (provider, day) that visits any facility, a
// greedy nearest-neighbor tour computes the *reported* travel time,
// deliberately distinct from the MIP's pairwise-coincidence objective
// proxy (see spec §9).
package postprocess

import (
	"sort"

	"github.com/carepath/fieldsched/internal/entity"
	"github.com/carepath/fieldsched/internal/mip"
)

// DayTravel is the reported travel breakdown for one provider-day.
type DayTravel struct {
	HomeHours     float64
	FacilityHours float64
}

// Total returns the day's total reported travel time.
func (d DayTravel) Total() float64 { return d.HomeHours + d.FacilityHours }

// Report is the full per-day travel breakdown for one provider, plus
// the aggregate sums spec §4.6 asks for.
type Report struct {
	ByDay         map[int]DayTravel // dayIdx -> travel
	HomeTotal     float64
	FacilityTotal float64
}

// Compute runs the post-processor for a single provider's solution.
func Compute(cat *entity.Catalog, hz *entity.Horizon, providerIdx int, sol *mip.Solution) Report {
	report := Report{ByDay: make(map[int]DayTravel)}

	for d := 0; d < hz.Len(); d++ {
		visited := visitedFacilities(cat, providerIdx, d, sol)
		if len(visited) == 0 {
			continue
		}

		first := closestToHome(cat, providerIdx, visited)
		homeHours := cat.HomeTravel(providerIdx, first)

		remaining := removeOne(visited, first)
		facilityHours := 0.0
		current := first
		for len(remaining) > 0 {
			next := nearestTo(cat, current, remaining)
			facilityHours += cat.FacilityTravel(current, next)
			current = next
			remaining = removeOne(remaining, next)
		}

		report.ByDay[d] = DayTravel{HomeHours: homeHours, FacilityHours: facilityHours}
		report.HomeTotal += homeHours
		report.FacilityTotal += facilityHours
	}

	return report
}

func visitedFacilities(cat *entity.Catalog, providerIdx, dayIdx int, sol *mip.Solution) []int {
	var out []int
	for _, f := range cat.Facilities {
		if sol.Visited[[3]int{providerIdx, f.Index, dayIdx}] {
			out = append(out, f.Index)
		}
	}
	sort.Ints(out)
	return out
}

// closestToHome returns the visited facility with minimum home travel
// time, breaking ties by the lowest facility index for determinism.
func closestToHome(cat *entity.Catalog, providerIdx int, visited []int) int {
	best := visited[0]
	bestHours := cat.HomeTravel(providerIdx, best)
	for _, f := range visited[1:] {
		h := cat.HomeTravel(providerIdx, f)
		if h < bestHours {
			best, bestHours = f, h
		}
	}
	return best
}

// nearestTo returns the facility in `remaining` nearest to `from`,
// breaking ties by the lowest facility index for determinism.
func nearestTo(cat *entity.Catalog, from int, remaining []int) int {
	best := remaining[0]
	bestHours := cat.FacilityTravel(from, best)
	for _, f := range remaining[1:] {
		h := cat.FacilityTravel(from, f)
		if h < bestHours {
			best, bestHours = f, h
		}
	}
	return best
}

func removeOne(list []int, value int) []int {
	out := make([]int, 0, len(list)-1)
	removed := false
	for _, v := range list {
		if !removed && v == value {
			removed = true
			continue
		}
		out = append(out, v)
	}
	return out
}
