package api

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/crossings/gridlight/internal/domain"
	"github.com/crossings/gridlight/internal/repository/postgres"
	"github.com/crossings/gridlight/internal/worker"
)

// BatchRunner triggers assignment runs. Implemented by
// worker.BatchProcessor.
type BatchRunner interface {
	Run(ctx context.Context, mode string, spotIDs []string) (*domain.BatchRun, error)
	RunUnassigned(ctx context.Context, mode string, limit int) (*domain.BatchRun, error)
}

// AssignmentStore reads assignment rows and run records. Implemented
// by postgres.AssignmentRepo.
type AssignmentStore interface {
	Get(ctx context.Context, spotID string) (*domain.Assignment, error)
	Summary(ctx context.Context) ([]postgres.IntentCount, error)
	RecentRuns(ctx context.Context, limit int) ([]domain.BatchRun, error)
}

// SpotStore reads spot rows for triage listings. Implemented by
// postgres.SpotRepo.
type SpotStore interface {
	UnassignedSpots(ctx context.Context, limit int) ([]domain.Spot, error)
}

// Handlers bundles the API dependencies.
type Handlers struct {
	runner      BatchRunner
	assignments AssignmentStore
	spots       SpotStore
	progress    *worker.ProgressPublisher // nil when Redis is disabled
	testLimit   int
}

// NewHandlers creates the handler set. progress may be nil.
func NewHandlers(runner BatchRunner, assignments AssignmentStore, spots SpotStore, progress *worker.ProgressPublisher, testLimit int) *Handlers {
	if testLimit <= 0 {
		testLimit = 25
	}
	return &Handlers{
		runner:      runner,
		assignments: assignments,
		spots:       spots,
		progress:    progress,
		testLimit:   testLimit,
	}
}

// HealthCheck reports liveness.
func (h *Handlers) HealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// runRequest is the body of POST /api/batch/run.
type runRequest struct {
	Mode    string   `json:"mode"`
	Limit   int      `json:"limit"`
	SpotIDs []string `json:"spot_ids"`
}

// RunBatch triggers a bounded assignment run and returns its summary.
// Runs are synchronous; the dashboard polls progress for long runs via
// GET /api/batch/runs/{id}/progress.
func (h *Handlers) RunBatch(w http.ResponseWriter, r *http.Request) {
	var req runRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	var (
		run *domain.BatchRun
		err error
	)
	switch req.Mode {
	case worker.ModeTestRun:
		run, err = h.runner.RunUnassigned(r.Context(), worker.ModeTestRun, h.testLimit)
	case worker.ModeBatch, "":
		limit := req.Limit
		run, err = h.runner.RunUnassigned(r.Context(), worker.ModeBatch, limit)
	case worker.ModeExplicit:
		if len(req.SpotIDs) == 0 {
			writeError(w, http.StatusBadRequest, "spot_ids required for explicit mode")
			return
		}
		run, err = h.runner.Run(r.Context(), worker.ModeExplicit, req.SpotIDs)
	default:
		writeError(w, http.StatusBadRequest, "unknown mode "+req.Mode)
		return
	}
	if errors.Is(err, worker.ErrRunInProgress) {
		writeError(w, http.StatusConflict, "a batch run is already in progress")
		return
	}
	if err != nil {
		log.Printf("[API] Batch run failed: %v", err)
		writeError(w, http.StatusInternalServerError, "batch run failed")
		return
	}
	writeJSON(w, http.StatusOK, run)
}

// GetRuns lists recent batch runs.
func (h *Handlers) GetRuns(w http.ResponseWriter, r *http.Request) {
	runs, err := h.assignments.RecentRuns(r.Context(), queryInt(r, "limit", 20))
	if err != nil {
		log.Printf("[API] List runs failed: %v", err)
		writeError(w, http.StatusInternalServerError, "list runs failed")
		return
	}
	writeJSON(w, http.StatusOK, runs)
}

// GetRunProgress returns the live Redis snapshot for a run.
func (h *Handlers) GetRunProgress(w http.ResponseWriter, r *http.Request) {
	if h.progress == nil {
		writeError(w, http.StatusNotFound, "progress publishing disabled")
		return
	}
	runID := chi.URLParam(r, "id")
	run, ok, err := h.progress.Fetch(r.Context(), runID)
	if err != nil {
		log.Printf("[API] Fetch progress for %s failed: %v", runID, err)
		writeError(w, http.StatusInternalServerError, "fetch progress failed")
		return
	}
	if !ok {
		writeError(w, http.StatusNotFound, "no progress for run "+runID)
		return
	}
	writeJSON(w, http.StatusOK, run)
}

// GetSummary returns assignment counts by intent and campaign type.
func (h *Handlers) GetSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.assignments.Summary(r.Context())
	if err != nil {
		log.Printf("[API] Summary failed: %v", err)
		writeError(w, http.StatusInternalServerError, "summary failed")
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

// GetAssignment returns one spot's assignment row.
func (h *Handlers) GetAssignment(w http.ResponseWriter, r *http.Request) {
	spotID := chi.URLParam(r, "spotID")
	a, err := h.assignments.Get(r.Context(), spotID)
	if err != nil {
		log.Printf("[API] Get assignment %s failed: %v", spotID, err)
		writeError(w, http.StatusInternalServerError, "get assignment failed")
		return
	}
	if a == nil {
		writeError(w, http.StatusNotFound, "no assignment for spot "+spotID)
		return
	}
	writeJSON(w, http.StatusOK, a)
}

// GetUnassignedSpots lists spots with no assignment row.
func (h *Handlers) GetUnassignedSpots(w http.ResponseWriter, r *http.Request) {
	spots, err := h.spots.UnassignedSpots(r.Context(), queryInt(r, "limit", 100))
	if err != nil {
		log.Printf("[API] List unassigned failed: %v", err)
		writeError(w, http.StatusInternalServerError, "list unassigned failed")
		return
	}
	writeJSON(w, http.StatusOK, spots)
}

func queryInt(r *http.Request, key string, def int) int {
	v := r.URL.Query().Get(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return def
	}
	return n
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("[API] Encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
