package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/findworker/backend/internal/middleware"
	"github.com/findworker/backend/internal/services"
)

// Reporter abstracts the report service.
type Reporter interface {
	WorkerReport(ctx context.Context, workerID uuid.UUID, year int) (*services.Report, error)
	PlatformReport(ctx context.Context, year int) (*services.Report, error)
}

// ReportHandler serves /api/report endpoints.
type ReportHandler struct {
	Reports Reporter
	Logger  *slog.Logger
}

// Worker handles GET /api/report/worker?year= — the caller's yearly income.
// The year defaults to the current one.
func (h *ReportHandler) Worker(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromCtx(r.Context())
	if user == nil {
		http.Error(w, `{"error":"unauthorized"}`, http.StatusUnauthorized)
		return
	}
	year := time.Now().Year()
	if raw := r.URL.Query().Get("year"); raw != "" {
		y, err := strconv.Atoi(raw)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "year must be a number"})
			return
		}
		year = y
	}

	report, err := h.Reports.WorkerReport(r.Context(), user.ID, year)
	if err != nil {
		h.Logger.Error("worker report", "year", year, "error", err)
		http.Error(w, `{"error":"failed to build report"}`, http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

type platformReportRequest struct {
	Year int `json:"year"`
}

// Platform handles POST /api/report/data — admin-only yearly aggregates
// across all workers.
func (h *ReportHandler) Platform(w http.ResponseWriter, r *http.Request) {
	var req platformReportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"invalid JSON"}`, http.StatusBadRequest)
		return
	}
	if req.Year == 0 {
		req.Year = time.Now().Year()
	}

	report, err := h.Reports.PlatformReport(r.Context(), req.Year)
	if err != nil {
		h.Logger.Error("platform report", "year", req.Year, "error", err)
		http.Error(w, `{"error":"failed to build report"}`, http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, report)
}
