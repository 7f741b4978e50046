/*
handlers.go - HTTP API handlers for the surcharge engine

PURPOSE:
  Exposes the surcharge pipeline via REST. Handlers parse and validate
  input, apply the ingestion-side filters (placeholder plan codes),
  delegate to the engine, and persist results.

ENDPOINTS:
  Runs:
    POST   /api/runs                   Execute a batch and persist it
    GET    /api/runs                   List run headers
    GET    /api/runs/{id}/detail       Scheduled occurrence detail
    GET    /api/runs/{id}/reconciled   Deduplicated payable rows

  Holidays:
    GET    /api/holidays               List institution overrides
    POST   /api/holidays               Add an override
    DELETE /api/holidays/{id}          Remove an override
    GET    /api/holidays/national/{year}  National calendar for a year

ERROR HANDLING:
  - 400: Malformed JSON, failed validation, unparseable dates
  - 404: Unknown run
  - 422: Holiday calendar cannot answer for the requested years; the
         run aborts without producing output
  - 500: Storage failures

SEE ALSO:
  - dto.go: Request/response data structures
  - server.go: Router setup and middleware
*/
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/campus/surcharge-engine/engine"
	"github.com/campus/surcharge-engine/holiday"
	"github.com/campus/surcharge-engine/store/sqlite"
)

// placeholderPlanCode marks non-teaching rows the scheduling system
// exports anyway; they are excluded before the pipeline sees them.
const placeholderPlanCode = 800

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store    *sqlite.Store
	Engine   *engine.Engine
	National *holiday.Colombia
	Logger   *zap.Logger

	validate *validator.Validate
}

// NewHandler creates a new handler with the given dependencies.
func NewHandler(store *sqlite.Store, eng *engine.Engine, national *holiday.Colombia, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		Store:    store,
		Engine:   eng,
		National: national,
		Logger:   logger,
		validate: validator.New(),
	}
}

// =============================================================================
// RUN HANDLERS
// =============================================================================

// CreateRun executes one batch: decode, validate, filter placeholder
// rows, run the pipeline, persist, respond with every output table.
func (h *Handler) CreateRun(w http.ResponseWriter, r *http.Request) {
	var req RunRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "validation failed: "+err.Error())
		return
	}

	var in engine.Input
	for _, row := range req.Schedule {
		if row.PlanCode == placeholderPlanCode {
			continue
		}
		entry, err := row.toEntry()
		if err != nil {
			h.writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		in.Schedule = append(in.Schedule, entry)
	}
	for _, row := range req.Attendance {
		rec, err := row.toRecord()
		if err != nil {
			h.writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		in.Attendance = append(in.Attendance, rec)
	}

	result, err := h.Engine.Run(in)
	if err != nil {
		if errors.Is(err, holiday.ErrYearOutOfRange) {
			h.writeError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		h.Logger.Error("run failed", zap.Error(err))
		h.writeError(w, http.StatusInternalServerError, "run failed: "+err.Error())
		return
	}

	runID, err := h.Store.SaveRun(r.Context(), in, result)
	if err != nil {
		h.Logger.Error("persisting run failed", zap.Error(err))
		h.writeError(w, http.StatusInternalServerError, "persisting run failed")
		return
	}

	h.writeJSON(w, http.StatusCreated, toRunResponse(runID, in, result))
}

// ListRuns returns stored run headers, newest first.
func (h *Handler) ListRuns(w http.ResponseWriter, r *http.Request) {
	runs, err := h.Store.ListRuns(r.Context())
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	out := make([]RunDTO, 0, len(runs))
	for _, run := range runs {
		out = append(out, RunDTO{
			ID:             run.ID,
			ScheduleRows:   run.ScheduleRows,
			AttendanceRows: run.AttendanceRows,
			DetailRows:     run.DetailRows,
			ReconciledRows: run.ReconciledRows,
			CreatedAt:      run.CreatedAt.Format(time.RFC3339),
		})
	}
	h.writeJSON(w, http.StatusOK, out)
}

// GetRunDetail returns the scheduled occurrence detail of a run.
func (h *Handler) GetRunDetail(w http.ResponseWriter, r *http.Request) {
	runID := chi.URLParam(r, "id")
	detail, err := h.Store.GetDetail(r.Context(), runID)
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if len(detail) == 0 {
		if !h.runExists(w, r, runID) {
			return
		}
	}

	out := make([]OccurrenceDTO, 0, len(detail))
	for _, occ := range detail {
		out = append(out, toOccurrenceDTO(occ))
	}
	h.writeJSON(w, http.StatusOK, out)
}

// GetRunReconciled returns the deduplicated payable rows of a run.
func (h *Handler) GetRunReconciled(w http.ResponseWriter, r *http.Request) {
	runID := chi.URLParam(r, "id")
	rows, err := h.Store.GetReconciled(r.Context(), runID)
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if len(rows) == 0 {
		if !h.runExists(w, r, runID) {
			return
		}
	}

	out := make([]ReconciledDTO, 0, len(rows))
	for _, rec := range rows {
		out = append(out, toReconciledDTO(rec))
	}
	h.writeJSON(w, http.StatusOK, out)
}

func (h *Handler) runExists(w http.ResponseWriter, r *http.Request, runID string) bool {
	runs, err := h.Store.ListRuns(r.Context())
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, err.Error())
		return false
	}
	for _, run := range runs {
		if run.ID == runID {
			return true
		}
	}
	h.writeError(w, http.StatusNotFound, "run not found")
	return false
}

// =============================================================================
// HOLIDAY HANDLERS
// =============================================================================

// ListHolidays returns the institution-level overrides.
func (h *Handler) ListHolidays(w http.ResponseWriter, r *http.Request) {
	holidays, err := h.Store.ListHolidays(r.Context())
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	out := make([]HolidayDTO, 0, len(holidays))
	for _, hol := range holidays {
		out = append(out, HolidayDTO{ID: hol.ID, Date: hol.Date.Format("2006-01-02"), Name: hol.Name})
	}
	h.writeJSON(w, http.StatusOK, out)
}

// CreateHoliday adds an institution-level override.
func (h *Handler) CreateHoliday(w http.ResponseWriter, r *http.Request) {
	var req CreateHolidayRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "validation failed: "+err.Error())
		return
	}

	date, _ := time.Parse("2006-01-02", req.Date)
	id, err := h.Store.AddHoliday(r.Context(), date, req.Name)
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	h.writeJSON(w, http.StatusCreated, HolidayDTO{ID: id, Date: req.Date, Name: req.Name})
}

// DeleteHoliday removes an override.
func (h *Handler) DeleteHoliday(w http.ResponseWriter, r *http.Request) {
	if err := h.Store.DeleteHoliday(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListNationalHolidays returns the national table for one year.
func (h *Handler) ListNationalHolidays(w http.ResponseWriter, r *http.Request) {
	year, err := strconv.Atoi(chi.URLParam(r, "year"))
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid year")
		return
	}

	holidays, err := h.National.Holidays(year)
	if err != nil {
		if errors.Is(err, holiday.ErrYearOutOfRange) {
			h.writeError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		h.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	out := make([]HolidayDTO, 0, len(holidays))
	for _, hol := range holidays {
		out = append(out, HolidayDTO{Date: hol.Date.Format("2006-01-02"), Name: hol.Name})
	}
	h.writeJSON(w, http.StatusOK, out)
}

// =============================================================================
// RESPONSE HELPERS
// =============================================================================

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.Logger.Error("encoding response failed", zap.Error(err))
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, msg string) {
	h.writeJSON(w, status, map[string]string{"error": msg})
}
