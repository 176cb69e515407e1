// Package http exposes the voice memo API over REST.
package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"voice-task-service/internal/models"
	"voice-task-service/internal/service/intake"
	"voice-task-service/internal/service/pipeline"
	"voice-task-service/internal/service/preview"
)

// maxChunkBody caps a single chunk upload request body.
const maxChunkBody = 2 << 20

// NewRouter constructs the HTTP router for the service.
func NewRouter(orchestrator *pipeline.Orchestrator) http.Handler {
	r := chi.NewRouter()

	// Basic middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger)

	// Health endpoints
	r.Get("/v1/liveness", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Get("/v1/readiness", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	h := &handlers{orchestrator: orchestrator}

	// API routes
	r.Route("/v1", func(r chi.Router) {
		r.Post("/uploads", h.createUpload)
		r.Put("/uploads/{uploadID}/chunks/{sequence}", h.putChunk)
		r.Post("/uploads/{uploadID}/process", h.processUpload)

		r.Get("/previews", h.listPreviews)
		r.Patch("/previews/{previewID}", h.updatePreview)
		r.Post("/previews/{previewID}/confirm", h.confirmPreview)
		r.Post("/previews/{previewID}/cancel", h.cancelPreview)

		r.Get("/tasks", h.listTasks)
	})

	return r
}

// requestLogger logs each request with its status and latency.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		log.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("latency", time.Since(start)).
			Msg("Request handled")
	})
}

type handlers struct {
	orchestrator *pipeline.Orchestrator
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, intake.ErrUnsupportedMediaType):
		status = http.StatusUnsupportedMediaType
	case errors.Is(err, intake.ErrAudioTooLarge), errors.Is(err, intake.ErrAudioTooLong):
		status = http.StatusRequestEntityTooLarge
	case errors.Is(err, intake.ErrUnknownUpload), errors.Is(err, pipeline.ErrUnknownPreview):
		status = http.StatusNotFound
	case errors.Is(err, intake.ErrUploadClosed), errors.Is(err, intake.ErrNoChunks):
		status = http.StatusConflict
	}
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

type createUploadRequest struct {
	MediaType       string  `json:"mediaType"`
	SizeBytes       int64   `json:"sizeBytes"`
	DurationSeconds float64 `json:"durationSeconds"`
}

type createUploadResponse struct {
	UploadID                   string  `json:"uploadId"`
	EstimatedProcessingSeconds float64 `json:"estimatedProcessingSeconds"`
}

func (h *handlers) createUpload(w http.ResponseWriter, r *http.Request) {
	var req createUploadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}
	if req.SizeBytes < 0 || req.DurationSeconds < 0 {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "sizeBytes and durationSeconds must not be negative"})
		return
	}

	uploadID, err := h.orchestrator.InitUpload(req.MediaType, req.SizeBytes, req.DurationSeconds)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, createUploadResponse{
		UploadID:                   uploadID,
		EstimatedProcessingSeconds: intake.EstimateProcessingTime(req.DurationSeconds, req.SizeBytes),
	})
}

func (h *handlers) putChunk(w http.ResponseWriter, r *http.Request) {
	uploadID := chi.URLParam(r, "uploadID")
	sequence, err := strconv.Atoi(chi.URLParam(r, "sequence"))
	if err != nil || sequence < 0 {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid chunk sequence"})
		return
	}

	data, err := io.ReadAll(io.LimitReader(r.Body, maxChunkBody))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "reading chunk body"})
		return
	}

	if err := h.orchestrator.AddChunk(uploadID, sequence, data); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type processUploadRequest struct {
	HouseholdID string `json:"householdId"`
}

func (h *handlers) processUpload(w http.ResponseWriter, r *http.Request) {
	uploadID := chi.URLParam(r, "uploadID")

	var req processUploadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.HouseholdID == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "householdId is required"})
		return
	}

	outcome, err := h.orchestrator.ProcessVoiceMemo(r.Context(), uploadID, req.HouseholdID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, outcome)
}

func (h *handlers) listPreviews(w http.ResponseWriter, r *http.Request) {
	householdID := r.URL.Query().Get("household_id")
	if householdID == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "household_id is required"})
		return
	}
	previews := h.orchestrator.Previews(householdID)
	if previews == nil {
		previews = []models.TaskPreview{}
	}
	writeJSON(w, http.StatusOK, previews)
}

type updatePreviewRequest struct {
	Title            *string `json:"title"`
	Description      *string `json:"description"`
	Category         *string `json:"category"`
	Priority         *string `json:"priority"`
	DueDate          *string `json:"dueDate"`
	EstimatedMinutes *int    `json:"estimatedMinutes"`
	ChildID          *string `json:"childId"`
	Recurrence       *string `json:"recurrence"`
}

func (h *handlers) updatePreview(w http.ResponseWriter, r *http.Request) {
	previewID := chi.URLParam(r, "previewID")

	var req updatePreviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	u := preview.Update{
		Title:            req.Title,
		Description:      req.Description,
		EstimatedMinutes: req.EstimatedMinutes,
		ChildID:          req.ChildID,
		Recurrence:       req.Recurrence,
	}
	if req.Category != nil {
		c := models.Category(*req.Category)
		if !c.Valid() {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "unknown category " + *req.Category})
			return
		}
		u.Category = &c
	}
	if req.Priority != nil {
		p := models.Urgency(*req.Priority)
		if !p.Valid() {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "unknown priority " + *req.Priority})
			return
		}
		u.Priority = &p
	}
	if req.DueDate != nil {
		due, err := time.Parse(time.RFC3339, *req.DueDate)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "dueDate must be RFC 3339"})
			return
		}
		u.DueDate = &due
	}

	updated, err := h.orchestrator.UpdatePreviewFields(previewID, u)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

type confirmPreviewRequest struct {
	AssigneeID string `json:"assigneeId"`
}

func (h *handlers) confirmPreview(w http.ResponseWriter, r *http.Request) {
	previewID := chi.URLParam(r, "previewID")

	var req confirmPreviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.AssigneeID == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "assigneeId is required"})
		return
	}

	task, err := h.orchestrator.ConfirmPreview(r.Context(), previewID, req.AssigneeID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, task)
}

func (h *handlers) cancelPreview(w http.ResponseWriter, r *http.Request) {
	previewID := chi.URLParam(r, "previewID")

	if err := h.orchestrator.CancelPreview(previewID); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *handlers) listTasks(w http.ResponseWriter, r *http.Request) {
	householdID := r.URL.Query().Get("household_id")
	if householdID == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "household_id is required"})
		return
	}
	tasks := h.orchestrator.Tasks(householdID)
	if tasks == nil {
		tasks = []models.GeneratedTask{}
	}
	writeJSON(w, http.StatusOK, tasks)
}
