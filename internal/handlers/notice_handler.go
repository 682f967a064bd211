package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/findworker/backend/internal/models"
)

// NoticeRepoForHandler is the notice repository subset used by the handler.
type NoticeRepoForHandler interface {
	Create(ctx context.Context, n *models.Notice) error
	Update(ctx context.Context, n *models.Notice) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context) ([]*models.Notice, error)
}

// NoticeHandler serves /api/notices endpoints. Reads are open to any
// authenticated user; writes are admin-only (enforced in the router).
type NoticeHandler struct {
	Notices NoticeRepoForHandler
	Logger  *slog.Logger
}

type noticeRequest struct {
	Title   string `json:"title"`
	Message string `json:"message"`
}

// List handles GET /api/notices/Show.
func (h *NoticeHandler) List(w http.ResponseWriter, r *http.Request) {
	notices, err := h.Notices.List(r.Context())
	if err != nil {
		h.Logger.Error("list notices", "error", err)
		http.Error(w, `{"error":"failed to list notices"}`, http.StatusInternalServerError)
		return
	}
	if notices == nil {
		notices = []*models.Notice{}
	}
	writeJSON(w, http.StatusOK, notices)
}

// Create handles POST /api/notices/create.
func (h *NoticeHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req noticeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"invalid JSON"}`, http.StatusBadRequest)
		return
	}
	if req.Title == "" || req.Message == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "title and message are required"})
		return
	}

	n := &models.Notice{ID: uuid.New(), Title: req.Title, Message: req.Message}
	if err := h.Notices.Create(r.Context(), n); err != nil {
		h.Logger.Error("create notice", "error", err)
		http.Error(w, `{"error":"failed to create notice"}`, http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusCreated, n)
}

// Update handles PUT /api/notices/{id}.
func (h *NoticeHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(r, "/api/notices/")
	if !ok {
		http.Error(w, `{"error":"invalid notice id"}`, http.StatusBadRequest)
		return
	}

	var req noticeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"invalid JSON"}`, http.StatusBadRequest)
		return
	}
	if req.Title == "" || req.Message == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "title and message are required"})
		return
	}

	n := &models.Notice{ID: id, Title: req.Title, Message: req.Message}
	if err := h.Notices.Update(r.Context(), n); err != nil {
		h.Logger.Error("update notice", "notice_id", id, "error", err)
		http.Error(w, `{"error":"failed to update notice"}`, http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, n)
}

// Delete handles DELETE /api/notices/{id}.
func (h *NoticeHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(r, "/api/notices/")
	if !ok {
		http.Error(w, `{"error":"invalid notice id"}`, http.StatusBadRequest)
		return
	}
	if err := h.Notices.Delete(r.Context(), id); err != nil {
		h.Logger.Error("delete notice", "notice_id", id, "error", err)
		http.Error(w, `{"error":"failed to delete notice"}`, http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
