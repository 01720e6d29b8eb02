// Package preflight implements the feasibility gate of spec §4.4:
// adjusted demand vs. effective capacity, and required-visit/
// unavailability collisions, both checked before any MIP is built.
package preflight

import (
	"fmt"
	"math"
	"time"

	"github.com/carepath/fieldsched/internal/constraints"
	"github.com/carepath/fieldsched/internal/entity"
	"github.com/carepath/fieldsched/internal/horizon"
	"github.com/carepath/fieldsched/internal/validation"
)

// Input bundles everything the feasibility gate needs.
type Input struct {
	Catalog           *entity.Catalog
	Horizon           *entity.Horizon
	ProviderIdx       int
	Compiled          *constraints.Compiled
	ProviderConstraints entity.ProviderConstraints
	StartDate         time.Time
	Weeks             int
	Month             string // "YYYY-MM"
	Alpha             float64
	MaxPatientsPerDay int

	// BaseUnavailableDates are the catalog-sourced unavailable dates
	// (spec §6's unavailable-dates file) for this provider, needed so
	// the 5-week capacity suggestion re-compiles with the same
	// baseline unavailability as the original 4-week compile.
	BaseUnavailableDates []string
}

// PerFacilityAdjustedDemand computes r_f for every assigned facility:
// round(census * (1+alpha)), per spec §4.4. The MIP builder's demand
// coverage constraint (spec §4.5 constraint 1) must use these exact
// values, not its own rounding, so that pre-flight acceptance implies
// the coverage/cap/availability constraints alone are satisfiable.
func PerFacilityAdjustedDemand(cat *entity.Catalog, providerIdx int, month string, alpha float64) map[int]int {
	out := make(map[int]int)
	for _, f := range cat.Facilities {
		if !cat.IsAssigned(providerIdx, f.Index) {
			continue
		}
		census := cat.CensusFor(providerIdx, f.Index, month)
		out[f.Index] = int(math.Round(float64(census) * (1 + alpha)))
	}
	return out
}

// AdjustedDemand computes D-hat: the sum, over facilities, of
// round(census * (1+alpha)), rounding per facility before summing, per
// spec §4.4.
func AdjustedDemand(cat *entity.Catalog, providerIdx int, month string, alpha float64) int {
	total := 0
	for _, r := range PerFacilityAdjustedDemand(cat, providerIdx, month, alpha) {
		total += r
	}
	return total
}

// RawDemand computes D: the unadjusted sum of census across facilities.
func RawDemand(cat *entity.Catalog, providerIdx int, month string) int {
	total := 0
	for _, f := range cat.Facilities {
		if !cat.IsAssigned(providerIdx, f.Index) {
			continue
		}
		total += cat.CensusFor(providerIdx, f.Index, month)
	}
	return total
}

// AvailableWeekdays computes A: the count of horizon days that are not
// marked unavailable for the provider.
func AvailableWeekdays(hz *entity.Horizon, unavailable entity.Unavailability) int {
	count := 0
	for i := 0; i < hz.Len(); i++ {
		if !unavailable[i] {
			count++
		}
	}
	return count
}

// Check runs the demand-vs-capacity gate and the required-visit /
// unavailability collision gate, returning a *validation.Result whose
// IsValid() is false if either rejection rule fires.
func Check(in Input) *validation.Result {
	result := validation.NewResult()

	dHat := AdjustedDemand(in.Catalog, in.ProviderIdx, in.Month, in.Alpha)
	a := AvailableWeekdays(in.Horizon, in.Compiled.Unavailable)
	c := a * in.MaxPatientsPerDay

	if dHat > c {
		ctx := map[string]interface{}{
			"adjusted_demand":      dHat,
			"available_weekdays":   a,
			"effective_capacity":   c,
			"alpha":                in.Alpha,
		}
		msg := fmt.Sprintf(
			"adjusted demand %d exceeds effective capacity %d over %d available weekdays (alpha=%.3f); "+
				"consider raising the daily cap, reducing PTO, adjusting weekly availability",
			dHat, c, a, in.Alpha,
		)
		if in.Weeks == 4 {
			a5, c5 := fiveWeekCapacity(in)
			ctx["five_week_available_weekdays"] = a5
			ctx["five_week_capacity"] = c5
			msg += fmt.Sprintf(", or extending to 5 weeks (capacity would be %d over %d available weekdays)", c5, a5)
		}
		result.AddErrorWithContext("CAPACITY_SHORTFALL", msg, ctx)
	}

	for _, rv := range in.Compiled.Required {
		if in.Compiled.Unavailable[rv.DayIdx] {
			facilityID := in.Catalog.Facilities[rv.FacilityIdx].ID
			date := in.Horizon.DateAt(rv.DayIdx)
			result.AddErrorWithContext(
				"REQUIRED_VISIT_UNAVAILABLE",
				fmt.Sprintf("required visit to facility %q on %s conflicts with provider unavailability", facilityID, date),
				map[string]interface{}{"facility_id": facilityID, "date": date},
			)
		}
	}

	return result
}

// fiveWeekCapacity recomputes available weekdays and capacity as if
// the caller had asked for 5 weeks instead of 4, for the capacity
// shortfall suggestion.
func fiveWeekCapacity(in Input) (int, int) {
	hz5 := horizon.Build(in.StartDate, 5)
	compiled5, _, _ := constraints.Compile(in.Catalog, hz5, in.ProviderIdx, in.ProviderConstraints, in.BaseUnavailableDates...)
	a5 := AvailableWeekdays(hz5, compiled5.Unavailable)
	return a5, a5 * in.MaxPatientsPerDay
}
