package job

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"

	"github.com/carepath/fieldsched/internal/entity"
	"github.com/carepath/fieldsched/internal/notify"
	"github.com/carepath/fieldsched/internal/service"
	"github.com/carepath/fieldsched/internal/store"
)

// CatalogLookup resolves a business line to its loaded catalog,
// base-unavailable-dates index, and provider notification-email
// index, so the worker never re-parses flat files per job.
type CatalogLookup interface {
	Catalog(businessLine string) (*entity.Catalog, map[entity.ProviderID][]string, error)
	ProviderEmail(businessLine string, providerID entity.ProviderID) (string, bool)
}

// Handler processes TypeSolve tasks off the Asynq queue.
type Handler struct {
	solver   *service.Solver
	catalogs CatalogLookup
	results  store.ScheduleStore
	notifier *notify.Notifier
	log      zerolog.Logger
}

// NewHandler wires a Handler. notifier may be nil, in which case
// completed solves are never emailed (e.g. SMTP is not configured).
func NewHandler(solver *service.Solver, catalogs CatalogLookup, results store.ScheduleStore, notifier *notify.Notifier, log zerolog.Logger) *Handler {
	return &Handler{solver: solver, catalogs: catalogs, results: results, notifier: notifier, log: log}
}

// ProcessTask implements asynq.Handler.
func (h *Handler) ProcessTask(ctx context.Context, t *asynq.Task) error {
	if t.Type() != TypeSolve {
		return fmt.Errorf("%w: %s", asynq.SkipRetry, "unknown task type "+t.Type())
	}

	var payload SolvePayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("unmarshalling solve payload: %w", err)
	}

	cat, baseUnavailable, err := h.catalogs.Catalog(payload.Request.BusinessLine)
	if err != nil {
		return fmt.Errorf("loading catalog for %s: %w", payload.Request.BusinessLine, err)
	}

	outcome := h.solver.Solve(ctx, payload.RequestID, cat, baseUnavailable[payload.Request.SelectedProvider], payload.Request)
	if outcome.Schedule == nil {
		h.log.Warn().Str("request_id", payload.RequestID).Str("summary", outcome.Validation.Summary()).
			Msg("asynchronous solve rejected")
		return nil
	}

	if err := h.results.Save(ctx, payload.RequestID, outcome.Schedule); err != nil {
		return fmt.Errorf("saving solved schedule: %w", err)
	}
	h.log.Info().Str("request_id", payload.RequestID).Msg("asynchronous solve completed")

	h.notify(ctx, payload)
	return nil
}

// notify emails the selected provider their schedule, if both a
// Notifier and a registered address are available. Failure to notify
// never fails the job: the schedule is already saved and retrievable.
func (h *Handler) notify(ctx context.Context, payload SolvePayload) {
	if h.notifier == nil {
		return
	}
	email, ok := h.catalogs.ProviderEmail(payload.Request.BusinessLine, payload.Request.SelectedProvider)
	if !ok {
		return
	}
	sched, err := h.results.Get(ctx, payload.RequestID)
	if err != nil {
		h.log.Error().Err(err).Str("request_id", payload.RequestID).Msg("failed to reload schedule for notification")
		return
	}
	if err := h.notifier.NotifyScheduleReady(ctx, email, payload.Request.SelectedProvider, sched); err != nil {
		h.log.Error().Err(err).Str("request_id", payload.RequestID).Msg("failed to send schedule-ready email")
	}
}
