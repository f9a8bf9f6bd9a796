package handlers

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/ekaya-inc/ekaya-profiler/pkg/models"
	"github.com/ekaya-inc/ekaya-profiler/pkg/services"
)

// ProfileUCCsRequest is the body of POST /api/profile/uccs.
type ProfileUCCsRequest struct {
	Relation models.RelationSource `json:"relation"`
}

// ProfileINDsRequest is the body of POST /api/profile/inds.
type ProfileINDsRequest struct {
	Relations []models.RelationSource `json:"relations"`
	Nary      bool                    `json:"nary"`
}

// MatchRequest is the body of POST /api/match.
type MatchRequest struct {
	Source models.RelationSource `json:"source"`
	Target models.RelationSource `json:"target"`
}

// ProfilingHandler exposes dependency discovery and schema matching over HTTP.
type ProfilingHandler struct {
	service services.ProfilingService
	logger  *zap.Logger
}

// NewProfilingHandler creates a new profiling handler.
func NewProfilingHandler(service services.ProfilingService, logger *zap.Logger) *ProfilingHandler {
	return &ProfilingHandler{service: service, logger: logger}
}

// RegisterRoutes registers the profiling handler's routes on the given mux.
func (h *ProfilingHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/profile/uccs", h.ProfileUCCs)
	mux.HandleFunc("POST /api/profile/inds", h.ProfileINDs)
	mux.HandleFunc("POST /api/match", h.Match)
	mux.HandleFunc("GET /api/runs", h.ListRuns)
	mux.HandleFunc("GET /api/runs/{id}", h.GetRun)
	mux.HandleFunc("GET /api/datasources/types", h.ListDatasourceTypes)
}

// ProfileUCCs handles POST /api/profile/uccs
func (h *ProfilingHandler) ProfileUCCs(w http.ResponseWriter, r *http.Request) {
	var req ProfileUCCsRequest
	if !h.decode(w, r, &req) {
		return
	}

	run, err := h.service.ProfileUCCs(r.Context(), req.Relation)
	if err != nil {
		writeServiceError(w, h.logger, "UCC discovery", err)
		return
	}
	h.writeData(w, run)
}

// ProfileINDs handles POST /api/profile/inds
func (h *ProfilingHandler) ProfileINDs(w http.ResponseWriter, r *http.Request) {
	var req ProfileINDsRequest
	if !h.decode(w, r, &req) {
		return
	}

	run, err := h.service.ProfileINDs(r.Context(), req.Relations, req.Nary)
	if err != nil {
		writeServiceError(w, h.logger, "IND discovery", err)
		return
	}
	h.writeData(w, run)
}

// Match handles POST /api/match
func (h *ProfilingHandler) Match(w http.ResponseWriter, r *http.Request) {
	var req MatchRequest
	if !h.decode(w, r, &req) {
		return
	}

	run, err := h.service.MatchSchemas(r.Context(), req.Source, req.Target)
	if err != nil {
		writeServiceError(w, h.logger, "Schema matching", err)
		return
	}
	h.writeData(w, run)
}

// ListRuns handles GET /api/runs
func (h *ProfilingHandler) ListRuns(w http.ResponseWriter, r *http.Request) {
	limit, ok := ParseLimit(w, r, h.logger)
	if !ok {
		return
	}

	runs, err := h.service.ListRuns(r.Context(), limit)
	if err != nil {
		writeServiceError(w, h.logger, "List runs", err)
		return
	}
	h.writeData(w, runs)
}

// GetRun handles GET /api/runs/{id}
func (h *ProfilingHandler) GetRun(w http.ResponseWriter, r *http.Request) {
	id, ok := ParseRunID(w, r, h.logger)
	if !ok {
		return
	}

	run, err := h.service.GetRun(r.Context(), id)
	if err != nil {
		writeServiceError(w, h.logger, "Get run", err)
		return
	}
	h.writeData(w, run)
}

// ListDatasourceTypes handles GET /api/datasources/types
func (h *ProfilingHandler) ListDatasourceTypes(w http.ResponseWriter, r *http.Request) {
	h.writeData(w, h.service.DatasourceTypes())
}

func (h *ProfilingHandler) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		if err := ErrorResponse(w, http.StatusBadRequest, "invalid_request", "Invalid request body"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return false
	}
	return true
}

func (h *ProfilingHandler) writeData(w http.ResponseWriter, data any) {
	if err := WriteJSON(w, http.StatusOK, ApiResponse{Success: true, Data: data}); err != nil {
		h.logger.Error("Failed to encode response", zap.Error(err))
	}
}
