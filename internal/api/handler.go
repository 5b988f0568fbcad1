// Package api exposes the run-history and check-trigger HTTP endpoints.
package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"credsentry/internal/domain"
)

// checkService defines the check operations used by the API handler.
type checkService interface {
	RunCheck(ctx context.Context, trigger domain.RunTrigger, serviceName *string) (*domain.CheckRun, []domain.Verdict, error)
	GetRun(ctx context.Context, id string) (*domain.CheckRun, error)
	ListRuns(ctx context.Context, filter domain.RunFilter) ([]domain.CheckRun, int64, error)
	ListVerdicts(ctx context.Context, runID string) ([]domain.Verdict, error)
}

// Handler serves the HTTP API.
type Handler struct {
	checks checkService
	logger *slog.Logger
}

// NewHandler creates a Handler.
func NewHandler(checks checkService, logger *slog.Logger) *Handler {
	return &Handler{checks: checks, logger: logger}
}

// RegisterRoutes mounts the API endpoints on the given router.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/checks", h.TriggerCheck)
	r.Get("/runs", h.ListRuns)
	r.Get("/runs/{runID}", h.GetRun)
	r.Get("/runs/{runID}/verdicts", h.ListVerdicts)
}

// === Wire types ===

type runResponse struct {
	ID           string  `json:"id"`
	Trigger      string  `json:"trigger"`
	ServiceName  *string `json:"service_name,omitempty"`
	Status       string  `json:"status"`
	Error        *string `json:"error,omitempty"`
	Total        int     `json:"total"`
	NonCompliant int     `json:"non_compliant"`
	StartedAt    string  `json:"started_at"`
	FinishedAt   string  `json:"finished_at"`
}

type verdictResponse struct {
	PrincipalID  string `json:"principal_id"`
	Outcome      string `json:"outcome"`
	ResourceType string `json:"resource_type"`
	Annotation   string `json:"annotation"`
}

type paginatedRuns struct {
	Data          []runResponse `json:"data"`
	NextPageToken string        `json:"next_page_token,omitempty"`
}

func runToAPI(run domain.CheckRun) runResponse {
	return runResponse{
		ID:           run.ID,
		Trigger:      string(run.Trigger),
		ServiceName:  run.ServiceName,
		Status:       string(run.Status),
		Error:        run.Error,
		Total:        run.Total,
		NonCompliant: run.NonCompliant,
		StartedAt:    run.StartedAt.Format(time.RFC3339),
		FinishedAt:   run.FinishedAt.Format(time.RFC3339),
	}
}

func verdictToAPI(v domain.Verdict) verdictResponse {
	return verdictResponse{
		PrincipalID:  v.PrincipalID,
		Outcome:      string(v.Outcome),
		ResourceType: v.ResourceType,
		Annotation:   v.Annotation,
	}
}

// === Endpoints ===

// TriggerCheck runs the compliance check synchronously and returns the
// recorded run summary.
func (h *Handler) TriggerCheck(w http.ResponseWriter, r *http.Request) {
	var body struct {
		ServiceName *string `json:"service_name"`
	}
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			writeError(w, domain.ErrValidation("malformed request body: %v", err))
			return
		}
	}
	if body.ServiceName != nil && *body.ServiceName == "" {
		writeError(w, domain.ErrValidation("service_name must not be empty when provided"))
		return
	}

	run, _, err := h.checks.RunCheck(r.Context(), domain.TriggerAPI, body.ServiceName)
	if err != nil {
		h.logger.Error("check run failed", "error", err)
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, runToAPI(*run))
}

// ListRuns returns the recorded run history, newest first.
func (h *Handler) ListRuns(w http.ResponseWriter, r *http.Request) {
	page := pageFromQuery(r)
	filter := domain.RunFilter{Page: page}
	if v := r.URL.Query().Get("status"); v != "" {
		filter.Status = &v
	}
	if v := r.URL.Query().Get("trigger"); v != "" {
		filter.Trigger = &v
	}

	runs, total, err := h.checks.ListRuns(r.Context(), filter)
	if err != nil {
		writeError(w, err)
		return
	}

	data := make([]runResponse, len(runs))
	for i, run := range runs {
		data[i] = runToAPI(run)
	}
	writeJSON(w, http.StatusOK, paginatedRuns{
		Data:          data,
		NextPageToken: domain.NextPageToken(page.Offset(), page.Limit(), total),
	})
}

// GetRun returns one recorded run.
func (h *Handler) GetRun(w http.ResponseWriter, r *http.Request) {
	run, err := h.checks.GetRun(r.Context(), chi.URLParam(r, "runID"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, runToAPI(*run))
}

// ListVerdicts returns a run's verdicts in enumeration order.
func (h *Handler) ListVerdicts(w http.ResponseWriter, r *http.Request) {
	verdicts, err := h.checks.ListVerdicts(r.Context(), chi.URLParam(r, "runID"))
	if err != nil {
		writeError(w, err)
		return
	}
	data := make([]verdictResponse, len(verdicts))
	for i, v := range verdicts {
		data[i] = verdictToAPI(v)
	}
	writeJSON(w, http.StatusOK, data)
}

func pageFromQuery(r *http.Request) domain.PageRequest {
	page := domain.PageRequest{PageToken: r.URL.Query().Get("page_token")}
	if v := r.URL.Query().Get("max_results"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			page.MaxResults = n
		}
	}
	return page
}
