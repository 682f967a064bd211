package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/findworker/backend/internal/middleware"
	"github.com/findworker/backend/internal/models"
)

// BusyRepoForHandler is the busy-interval repository subset used by the handler.
type BusyRepoForHandler interface {
	Create(ctx context.Context, b *models.BusyInterval) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.BusyInterval, error)
	Update(ctx context.Context, b *models.BusyInterval) error
	Delete(ctx context.Context, id uuid.UUID) error
	ListByWorker(ctx context.Context, workerID uuid.UUID) ([]*models.BusyInterval, error)
}

// BusyHandler serves /api/busy endpoints. Workers manage their own manual
// intervals; system intervals created from confirmed tasks are read-only.
type BusyHandler struct {
	Busy   BusyRepoForHandler
	Logger *slog.Logger
}

type busyRequest struct {
	Date      string `json:"date"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
	Title     string `json:"title"`
}

func (req *busyRequest) apply(b *models.BusyInterval) string {
	if _, err := time.Parse("2006-01-02", req.Date); err != nil {
		return "date must be YYYY-MM-DD"
	}
	start, err := time.Parse("15:04", req.StartTime)
	if err != nil {
		return "startTime must be HH:MM"
	}
	end, err := time.Parse("15:04", req.EndTime)
	if err != nil {
		return "endTime must be HH:MM"
	}
	if !start.Before(end) {
		return "startTime must be before endTime"
	}
	b.Date = req.Date
	b.StartTime = req.StartTime
	b.EndTime = req.EndTime
	b.Title = req.Title
	return ""
}

// My handles GET /api/busy/my — all intervals on the caller's calendar.
func (h *BusyHandler) My(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromCtx(r.Context())
	if user == nil {
		http.Error(w, `{"error":"unauthorized"}`, http.StatusUnauthorized)
		return
	}
	intervals, err := h.Busy.ListByWorker(r.Context(), user.ID)
	if err != nil {
		h.Logger.Error("list busy intervals", "error", err)
		http.Error(w, `{"error":"failed to list intervals"}`, http.StatusInternalServerError)
		return
	}
	if intervals == nil {
		intervals = []*models.BusyInterval{}
	}
	writeJSON(w, http.StatusOK, intervals)
}

// Create handles POST /api/busy — a manual interval on the caller's calendar.
func (h *BusyHandler) Create(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromCtx(r.Context())
	if user == nil {
		http.Error(w, `{"error":"unauthorized"}`, http.StatusUnauthorized)
		return
	}

	var req busyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"invalid JSON"}`, http.StatusBadRequest)
		return
	}

	b := &models.BusyInterval{ID: uuid.New(), WorkerID: user.ID}
	if msg := req.apply(b); msg != "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": msg})
		return
	}

	if err := h.Busy.Create(r.Context(), b); err != nil {
		h.Logger.Error("create busy interval", "error", err)
		http.Error(w, `{"error":"failed to create interval"}`, http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusCreated, b)
}

// Update handles PUT /api/busy/{id}. Only manual intervals may be edited.
func (h *BusyHandler) Update(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromCtx(r.Context())
	if user == nil {
		http.Error(w, `{"error":"unauthorized"}`, http.StatusUnauthorized)
		return
	}
	b, ok := h.ownedManualInterval(w, r, user)
	if !ok {
		return
	}

	var req busyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"invalid JSON"}`, http.StatusBadRequest)
		return
	}
	if msg := req.apply(b); msg != "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": msg})
		return
	}

	if err := h.Busy.Update(r.Context(), b); err != nil {
		h.Logger.Error("update busy interval", "interval_id", b.ID, "error", err)
		http.Error(w, `{"error":"failed to update interval"}`, http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, b)
}

// Delete handles DELETE /api/busy/{id}. Only manual intervals may be deleted.
func (h *BusyHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromCtx(r.Context())
	if user == nil {
		http.Error(w, `{"error":"unauthorized"}`, http.StatusUnauthorized)
		return
	}
	b, ok := h.ownedManualInterval(w, r, user)
	if !ok {
		return
	}

	if err := h.Busy.Delete(r.Context(), b.ID); err != nil {
		h.Logger.Error("delete busy interval", "interval_id", b.ID, "error", err)
		http.Error(w, `{"error":"failed to delete interval"}`, http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *BusyHandler) ownedManualInterval(w http.ResponseWriter, r *http.Request, user *models.User) (*models.BusyInterval, bool) {
	id, ok := pathUUID(r, "/api/busy/")
	if !ok {
		http.Error(w, `{"error":"invalid interval id"}`, http.StatusBadRequest)
		return nil, false
	}
	b, err := h.Busy.GetByID(r.Context(), id)
	if err != nil {
		http.Error(w, `{"error":"interval not found"}`, http.StatusNotFound)
		return nil, false
	}
	if b.WorkerID != user.ID {
		http.Error(w, `{"error":"not your interval"}`, http.StatusForbidden)
		return nil, false
	}
	if !b.Manual() {
		writeJSON(w, http.StatusConflict, map[string]string{"error": "interval is managed by a confirmed task"})
		return nil, false
	}
	return b, true
}
