// Package constraints translates the external request's constraint
// payload into model inputs for a single provider: unavailable days,
// required visits, and forbidden visits, per spec §4.3.
package constraints

import (
	"fmt"
	"time"

	"github.com/carepath/fieldsched/internal/entity"
	"github.com/carepath/fieldsched/internal/validation"
)

// Compiled holds the model-ready output of compiling one provider's
// constraint payload against a catalog and horizon.
type Compiled struct {
	Unavailable entity.Unavailability
	Required    []entity.RequiredVisit
	Forbidden   []entity.ForbiddenVisit
}

var weekdayByName = map[string]time.Weekday{
	"Sunday":    time.Sunday,
	"Monday":    time.Monday,
	"Tuesday":   time.Tuesday,
	"Wednesday": time.Wednesday,
	"Thursday":  time.Thursday,
	"Friday":    time.Friday,
	"Saturday":  time.Saturday,
}

// Skipped records a malformed PTO entry that was dropped individually
// rather than failing the whole request, for the caller to log.
type Skipped struct {
	Request entity.PTORequest
	Reason  string
}

// Compile runs the four-step compilation pipeline of spec §4.3 for one
// provider. Validation failures (unknown facility, non-horizon date,
// non-assigned pair) are collected into the returned *validation.Result
// as user-visible errors; Compile still returns the best-effort
// Compiled value so callers can inspect what did validate, but an
// invalid Result must reject the whole request before any MIP is
// built.
func Compile(
	cat *entity.Catalog,
	hz *entity.Horizon,
	providerIdx int,
	pc entity.ProviderConstraints,
	baseUnavailableDates ...string,
) (*Compiled, []Skipped, *validation.Result) {
	result := validation.NewResult()
	compiled := &Compiled{
		Unavailable: make(entity.Unavailability),
	}

	// Step 0: catalog-sourced unavailable dates (the unavailable-dates
	// flat file of spec §6), unioned in ahead of the request's own PTO.
	for _, date := range baseUnavailableDates {
		if idx, ok := hz.IndexOf(date); ok {
			compiled.Unavailable[idx] = true
		}
	}

	// Step 1: PTO expansion.
	var skipped []Skipped
	for _, req := range pc.PTORequests {
		start, err := time.Parse("2006-01-02", req.StartDate)
		if err != nil {
			skipped = append(skipped, Skipped{Request: req, Reason: fmt.Sprintf("bad start date: %v", err)})
			continue
		}
		end, err := time.Parse("2006-01-02", req.EndDate)
		if err != nil {
			skipped = append(skipped, Skipped{Request: req, Reason: fmt.Sprintf("bad end date: %v", err)})
			continue
		}
		if end.Before(start) {
			skipped = append(skipped, Skipped{Request: req, Reason: "end date before start date"})
			continue
		}
		for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
			if idx, ok := hz.IndexOf(entity.ISODate(d)); ok {
				compiled.Unavailable[idx] = true
			}
		}
	}

	// Step 2: weekly availability. Any horizon day whose weekday is
	// marked not-working is unavailable for this provider.
	blocked := make(map[time.Weekday]bool)
	for _, entry := range pc.WeeklyAvailability {
		if !entry.IsWorking {
			if wd, ok := weekdayByName[entry.Day]; ok {
				blocked[wd] = true
			}
		}
	}
	if len(blocked) > 0 {
		for i := 0; i < hz.Len(); i++ {
			if blocked[hz.Weekday(i)] {
				compiled.Unavailable[i] = true
			}
		}
	}

	// Step 3: date-specific required visits.
	for _, dc := range pc.DateConstraints {
		facilityIdx, ok := cat.FacilityIndex(dc.FacilityID)
		if !ok {
			result.AddError("UNKNOWN_FACILITY", fmt.Sprintf("unknown facility id %q in date constraint", dc.FacilityID))
			continue
		}
		dayIdx, ok := hz.IndexOf(dc.Date)
		if !ok {
			result.AddError("NON_HORIZON_DATE", fmt.Sprintf("date %s is not a horizon weekday", dc.Date))
			continue
		}
		if !cat.IsAssigned(providerIdx, facilityIdx) {
			result.AddError("NOT_ASSIGNED", fmt.Sprintf("provider is not assigned to facility %q", dc.FacilityID))
			continue
		}
		compiled.Required = append(compiled.Required, entity.RequiredVisit{
			ProviderIdx: providerIdx,
			FacilityIdx: facilityIdx,
			DayIdx:      dayIdx,
		})
	}

	// Step 4: day-of-week required visits, expressed purely as
	// forbidding the complement weekday.
	for _, dw := range pc.DayOfWeekConstraints {
		facilityIdx, ok := cat.FacilityIndex(dw.FacilityID)
		if !ok {
			result.AddError("UNKNOWN_FACILITY", fmt.Sprintf("unknown facility id %q in day-of-week constraint", dw.FacilityID))
			continue
		}
		wd, ok := weekdayByName[dw.Weekday]
		if !ok {
			result.AddError("INVALID_WEEKDAY", fmt.Sprintf("unknown weekday name %q", dw.Weekday))
			continue
		}
		if !cat.IsAssigned(providerIdx, facilityIdx) {
			result.AddError("NOT_ASSIGNED", fmt.Sprintf("provider is not assigned to facility %q", dw.FacilityID))
			continue
		}
		for i := 0; i < hz.Len(); i++ {
			if hz.Weekday(i) != wd {
				compiled.Forbidden = append(compiled.Forbidden, entity.ForbiddenVisit{
					ProviderIdx: providerIdx,
					FacilityIdx: facilityIdx,
					DayIdx:      i,
				})
			}
		}
	}

	return compiled, skipped, result
}
