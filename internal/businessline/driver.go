// Package businessline drives a solve across every provider in a
// business line, sequentially, per spec §4.12/§5: each provider's
// solve is an independent call into internal/service, and the
// per-provider alpha buffer is applied exactly once inside that call
// — this driver never re-applies it when unioning results.
package businessline

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/carepath/fieldsched/internal/entity"
	"github.com/carepath/fieldsched/internal/service"
)

// Result is the outcome of running every provider in a business line.
type Result struct {
	Schedule  *entity.Schedule
	Outcomes  map[entity.ProviderID]service.Outcome
	Succeeded []entity.ProviderID
	Failed    []entity.ProviderID
}

// Driver sequentially solves for every listed provider and unions the
// successful schedules into one response.
type Driver struct {
	solver *service.Solver
	log    zerolog.Logger
}

// NewDriver returns a Driver that solves through the given Solver.
func NewDriver(solver *service.Solver, log zerolog.Logger) *Driver {
	return &Driver{solver: solver, log: log}
}

// Run solves reqTemplate once per provider id, substituting
// SelectedProvider, and returns the unioned schedule plus the
// per-provider outcomes so a caller can report individual failures.
func (d *Driver) Run(
	ctx context.Context,
	requestID string,
	cat *entity.Catalog,
	baseUnavailable map[entity.ProviderID][]string,
	providerIDs []entity.ProviderID,
	reqTemplate service.SolveRequest,
) Result {
	res := Result{
		Schedule: entity.NewSchedule(),
		Outcomes: make(map[entity.ProviderID]service.Outcome, len(providerIDs)),
	}

	for _, providerID := range providerIDs {
		req := reqTemplate
		req.SelectedProvider = providerID

		outcome := d.solver.Solve(ctx, requestID, cat, baseUnavailable[providerID], req)
		res.Outcomes[providerID] = outcome

		if outcome.Schedule == nil {
			res.Failed = append(res.Failed, providerID)
			d.log.Warn().Str("provider", providerID).Str("request_id", requestID).
				Msg("provider solve failed, continuing with remaining providers")
			continue
		}
		res.Succeeded = append(res.Succeeded, providerID)
		mergeInto(res.Schedule, outcome.Schedule)
	}

	return res
}

// mergeInto unions a single provider's Schedule into the accumulator,
// summing the aggregate totals and copying the provider's own visit
// map, travel map, and summary row.
func mergeInto(acc, sched *entity.Schedule) {
	for providerID, byDate := range sched.Visits {
		for date, byFacility := range byDate {
			for facilityID, patients := range byFacility {
				acc.AddVisit(providerID, date, facilityID, patients)
			}
		}
	}
	for providerID, byDate := range sched.DailyTravelHours {
		for date, hours := range byDate {
			acc.SetDailyTravel(providerID, date, hours)
		}
	}
	for providerID, summary := range sched.Summary {
		acc.Summary[providerID] = summary
	}

	acc.TotalPatientsServed += sched.TotalPatientsServed
	acc.TotalPatientDemand += sched.TotalPatientDemand
	acc.TotalTravelHours += sched.TotalTravelHours
	acc.HomeToFacilityHours += sched.HomeToFacilityHours
	acc.FacilityToFacility += sched.FacilityToFacility

	// Every merged provider solved to the same status class (mergeInto
	// is only reached for outcome.Schedule != nil, i.e. optimal or
	// feasible_at_limit); keep whichever is least optimistic so a
	// feasible_at_limit provider isn't masked by an earlier optimal one.
	if acc.Status == "" || sched.Status == entity.SolverStatusFeasibleAtLimit {
		acc.Status = sched.Status
	}
}
