package api

import (
	"net/http"

	"github.com/emersion/go-ical"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/carepath/fieldsched/internal/calendarexport"
	"github.com/carepath/fieldsched/internal/entity"
	"github.com/carepath/fieldsched/internal/service"
	"github.com/carepath/fieldsched/internal/store"
	"github.com/carepath/fieldsched/internal/validation"
)

// CatalogLookup resolves a business line to its loaded catalog, the
// same contract the job worker uses.
type CatalogLookup interface {
	Catalog(businessLine string) (*entity.Catalog, map[entity.ProviderID][]string, error)
}

// ScheduleHandler serves the solve endpoint over HTTP.
type ScheduleHandler struct {
	solver    *service.Solver
	catalogs  CatalogLookup
	results   store.ScheduleStore
	validate  *validator.Validate
	log       zerolog.Logger
}

// NewScheduleHandler wires a ScheduleHandler.
func NewScheduleHandler(solver *service.Solver, catalogs CatalogLookup, results store.ScheduleStore, log zerolog.Logger) *ScheduleHandler {
	return &ScheduleHandler{
		solver:   solver,
		catalogs: catalogs,
		results:  results,
		validate: validator.New(),
		log:      log,
	}
}

// Solve handles POST /solve: a single-provider synchronous solve.
func (h *ScheduleHandler) Solve(c echo.Context) error {
	var req service.SolveRequest
	if err := c.Bind(&req); err != nil {
		v := validation.NewResult()
		v.AddError("INVALID_REQUEST", "request body could not be parsed: "+err.Error())
		return c.JSON(http.StatusBadRequest, ValidationErrorResponse("", v))
	}

	if err := h.validate.Struct(req); err != nil {
		v := validation.NewResult()
		for _, fe := range err.(validator.ValidationErrors) {
			v.AddError("INVALID_FIELD", fe.Namespace()+": "+fe.Tag())
		}
		return c.JSON(http.StatusBadRequest, ValidationErrorResponse("", v))
	}

	requestID := uuid.NewString()

	cat, baseUnavailable, err := h.catalogs.Catalog(req.BusinessLine)
	if err != nil {
		v := validation.NewResult()
		v.AddError("UNKNOWN_BUSINESS_LINE", "no catalog loaded for business line "+req.BusinessLine)
		return c.JSON(http.StatusBadRequest, ValidationErrorResponse(requestID, v))
	}

	outcome := h.solver.Solve(c.Request().Context(), requestID, cat, baseUnavailable[req.SelectedProvider], req)
	if outcome.Schedule == nil {
		if outcome.IsSolverError {
			return c.JSON(http.StatusInternalServerError, ValidationErrorResponse(requestID, outcome.Validation))
		}
		return c.JSON(http.StatusBadRequest, ValidationErrorResponse(requestID, outcome.Validation))
	}

	if err := h.results.Save(c.Request().Context(), requestID, outcome.Schedule); err != nil {
		h.log.Error().Err(err).Str("request_id", requestID).Msg("failed to persist solved schedule")
	}

	return c.JSON(http.StatusOK, SuccessResponse(requestID, outcome.Schedule))
}

// GetResult handles GET /solve/:request_id: retrieves a previously
// solved (or asynchronously queued) schedule by its request id.
func (h *ScheduleHandler) GetResult(c echo.Context) error {
	requestID := c.Param("request_id")
	sched, err := h.results.Get(c.Request().Context(), requestID)
	if err == store.ErrNotFound {
		v := validation.NewResult()
		v.AddError("NOT_FOUND", "no schedule found for request id "+requestID)
		return c.JSON(http.StatusNotFound, ValidationErrorResponse(requestID, v))
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, ErrorResponseWithStatus(requestID, "INTERNAL_ERROR", err.Error()))
	}
	return c.JSON(http.StatusOK, SuccessResponse(requestID, sched))
}

// ExportCalendar handles GET /solve/:request_id/calendar: renders a
// previously solved schedule's visit days for one provider as an
// iCalendar feed, per spec §4.9.
func (h *ScheduleHandler) ExportCalendar(c echo.Context) error {
	requestID := c.Param("request_id")
	providerID := c.QueryParam("provider_id")
	if providerID == "" {
		v := validation.NewResult()
		v.AddError("MISSING_PROVIDER_ID", "provider_id query parameter is required")
		return c.JSON(http.StatusBadRequest, ValidationErrorResponse(requestID, v))
	}

	sched, err := h.results.Get(c.Request().Context(), requestID)
	if err == store.ErrNotFound {
		v := validation.NewResult()
		v.AddError("NOT_FOUND", "no schedule found for request id "+requestID)
		return c.JSON(http.StatusNotFound, ValidationErrorResponse(requestID, v))
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, ErrorResponseWithStatus(requestID, "INTERNAL_ERROR", err.Error()))
	}

	cal := calendarexport.Export(sched, providerID)
	c.Response().Header().Set(echo.HeaderContentType, "text/calendar; charset=utf-8")
	c.Response().WriteHeader(http.StatusOK)
	return ical.NewEncoder(c.Response()).Encode(cal)
}

// HealthCheck handles GET /healthz.
func HealthCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// ErrorResponseWithStatus wraps an internal-failure message; kept
// distinct from ValidationErrorResponse since these are 500s, not
// 400s, per spec §6's error taxonomy.
func ErrorResponseWithStatus(requestID, code, message string) *Response {
	v := validation.NewResult()
	v.AddError(code, message)
	return ValidationErrorResponse(requestID, v)
}
