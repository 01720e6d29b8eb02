// Package service orchestrates the full single-provider solve pipeline
// of spec §2: request validation, constraint compilation, the
// feasibility pre-flight, MIP construction and solving, post-solve
// travel reporting, and result packaging, in that order, mirroring the
// teacher's phase-sequencing orchestrator.
package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/carepath/fieldsched/internal/constraints"
	"github.com/carepath/fieldsched/internal/entity"
	"github.com/carepath/fieldsched/internal/horizon"
	"github.com/carepath/fieldsched/internal/mip"
	"github.com/carepath/fieldsched/internal/postprocess"
	"github.com/carepath/fieldsched/internal/preflight"
	"github.com/carepath/fieldsched/internal/result"
	"github.com/carepath/fieldsched/internal/validation"
)

// DefaultWallClock bounds a single solve's branch-and-bound search.
const DefaultWallClock = 25 * time.Second

// Outcome is the end state of one Solve call: either a complete
// Schedule, or a *validation.Result naming every conflicting input. No
// partial schedules ever accompany a non-nil validation failure, per
// spec §7.
type Outcome struct {
	Schedule   *entity.Schedule
	Validation *validation.Result
	Skipped    []constraints.Skipped

	// IsSolverError reports whether the rejection came from the solver
	// itself (infeasible/unbounded/solver_error) rather than from input
	// validation or the feasibility pre-flight, per spec §6/§7's "500
	// for solver errors and internal failures" rule.
	IsSolverError bool
}

// Solver runs the pipeline for one already-assembled catalog, so the
// businessline driver can reuse it across providers without
// re-parsing catalog inputs per call.
type Solver struct {
	log zerolog.Logger
}

// NewSolver returns a Solver that logs through the given logger.
func NewSolver(log zerolog.Logger) *Solver {
	return &Solver{log: log}
}

// Solve runs the full pipeline for a single provider against an
// already-loaded catalog. requestID is opaque, used only for
// SolveMetadata and log correlation.
func (s *Solver) Solve(ctx context.Context, requestID string, cat *entity.Catalog, baseUnavailableDates []string, req SolveRequest) Outcome {
	req.ApplyDefaults()
	log := s.log.With().Str("request_id", requestID).Str("provider", req.SelectedProvider).Logger()

	providerIdx, ok := cat.ProviderIndex(req.SelectedProvider)
	if !ok {
		v := validation.NewResult()
		v.AddError("UNKNOWN_PROVIDER", fmt.Sprintf("unknown provider id %q", req.SelectedProvider))
		return Outcome{Validation: v}
	}

	startDate, err := time.Parse("2006-01-02", req.StartMonday)
	if err != nil {
		v := validation.NewResult()
		v.AddError("MALFORMED_DATE", fmt.Sprintf("start_monday %q is not a valid ISO date", req.StartMonday))
		return Outcome{Validation: v}
	}

	hz := horizon.Build(startDate, req.Weeks)
	pc := toEntityConstraints(req.ProviderConstraints)

	compiled, skipped, vResult := constraints.Compile(cat, hz, providerIdx, pc, baseUnavailableDates...)
	for _, sk := range skipped {
		log.Warn().Str("pto_start", sk.Request.StartDate).Str("pto_end", sk.Request.EndDate).
			Str("reason", sk.Reason).Msg("skipped malformed PTO request")
	}
	if !vResult.IsValid() {
		return Outcome{Validation: vResult, Skipped: skipped}
	}

	preflightResult := preflight.Check(preflight.Input{
		Catalog:              cat,
		Horizon:              hz,
		ProviderIdx:          providerIdx,
		Compiled:             compiled,
		ProviderConstraints:  pc,
		StartDate:            startDate,
		Weeks:                req.Weeks,
		Month:                req.Month,
		Alpha:                req.Alpha,
		MaxPatientsPerDay:    req.MaxPatientsPerDay,
		BaseUnavailableDates: baseUnavailableDates,
	})
	if !preflightResult.IsValid() {
		return Outcome{Validation: preflightResult, Skipped: skipped}
	}

	params := mip.Params{
		MaxPatientsPerDay: req.MaxPatientsPerDay,
		Alpha:             req.Alpha,
		Month:             req.Month,
		LambdaWorkload:    req.LambdaParam,
		LambdaGap:         req.LambdaFacility,
		LambdaBunching:    req.LambdaBunching,
		TGap:              req.FacilityVisitWindow,
		TBun:              7,
	}

	model, idx := mip.Build(cat, hz, providerIdx, compiled, params)
	log.Info().Int("variables", model.NumVars()).Int("constraints", model.NumConstraints()).Msg("built MIP model")

	solveStart := time.Now()
	solveResult := mip.Solve(ctx, model, DefaultWallClock)
	log.Info().Str("status", string(solveResult.Status)).Int("nodes", solveResult.Nodes).
		Dur("wall_clock", solveResult.WallClock).Msg("solve finished")

	meta := entity.SolveMetadata{
		RequestID:       requestID,
		BusinessLine:    req.BusinessLine,
		Status:          solveResult.Status,
		ObjectiveValue:  solveResult.Objective,
		WallClock:       solveResult.WallClock,
		VariableCount:   model.NumVars(),
		ConstraintCount: model.NumConstraints(),
		SolvedAt:        solveStart,
	}

	if solveResult.Status != entity.SolverStatusOptimal && solveResult.Status != entity.SolverStatusFeasibleAtLimit {
		v := validation.NewResult()
		v.AddErrorWithContext("SOLVER_FAILURE", fmt.Sprintf("solver returned status %q", solveResult.Status),
			map[string]interface{}{"status": string(solveResult.Status)})
		return Outcome{Validation: v, Skipped: skipped, IsSolverError: true}
	}

	sol := mip.Extract(idx, solveResult.X)
	report := postprocess.Compute(cat, hz, providerIdx, sol)

	availableWeekdays := preflight.AvailableWeekdays(hz, compiled.Unavailable)
	sched := result.Package(
		cat, hz, req.SelectedProvider, providerIdx, req.Month,
		req.MaxPatientsPerDay, availableWeekdays, sol, report, meta,
	)

	return Outcome{Schedule: sched, Validation: validation.NewResult(), Skipped: skipped}
}

func toEntityConstraints(dto ProviderConstraintsDTO) entity.ProviderConstraints {
	pc := entity.ProviderConstraints{}
	for _, p := range dto.PTORequests {
		pc.PTORequests = append(pc.PTORequests, entity.PTORequest{StartDate: p.StartDate, EndDate: p.EndDate})
	}
	for _, w := range dto.WeeklyAvailability {
		pc.WeeklyAvailability = append(pc.WeeklyAvailability, entity.WeeklyAvailabilityEntry{Day: w.Day, IsWorking: w.IsWorking})
	}
	for _, d := range dto.DateConstraints {
		pc.DateConstraints = append(pc.DateConstraints, entity.DateConstraint{FacilityID: d.FacilityID, Date: d.Date})
	}
	for _, d := range dto.DayOfWeekConstraints {
		pc.DayOfWeekConstraints = append(pc.DayOfWeekConstraints, entity.DayOfWeekConstraint{FacilityID: d.FacilityID, Weekday: d.Day})
	}
	return pc
}
