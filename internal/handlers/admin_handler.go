package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/findworker/backend/internal/models"
)

// AdminUserRepo is the user repository subset used by admin endpoints.
type AdminUserRepo interface {
	List(ctx context.Context) ([]*models.User, error)
	SearchByKeyword(ctx context.Context, keyword string) ([]*models.User, error)
	SetActive(ctx context.Context, id uuid.UUID, active bool) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// AdminHandler serves /api/admin endpoints. The router wraps these with
// RequireAdmin.
type AdminHandler struct {
	Users  AdminUserRepo
	Logger *slog.Logger
}

// ListUsers handles GET /api/admin/users.
func (h *AdminHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.Users.List(r.Context())
	if err != nil {
		h.Logger.Error("list users", "error", err)
		http.Error(w, `{"error":"failed to list users"}`, http.StatusInternalServerError)
		return
	}
	if users == nil {
		users = []*models.User{}
	}
	writeJSON(w, http.StatusOK, users)
}

// SearchUsers handles GET /api/admin/users/search?keyword=.
func (h *AdminHandler) SearchUsers(w http.ResponseWriter, r *http.Request) {
	keyword := r.URL.Query().Get("keyword")
	if keyword == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "keyword is required"})
		return
	}
	users, err := h.Users.SearchByKeyword(r.Context(), keyword)
	if err != nil {
		h.Logger.Error("search users", "keyword", keyword, "error", err)
		http.Error(w, `{"error":"failed to search users"}`, http.StatusInternalServerError)
		return
	}
	if users == nil {
		users = []*models.User{}
	}
	writeJSON(w, http.StatusOK, users)
}

// SetActive handles PUT /api/admin/users/{id}/activate and .../deactivate.
func (h *AdminHandler) SetActive(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(r, "/api/admin/users/")
	if !ok {
		http.Error(w, `{"error":"invalid user id"}`, http.StatusBadRequest)
		return
	}
	active := strings.HasSuffix(r.URL.Path, "/activate")
	if !active && !strings.HasSuffix(r.URL.Path, "/deactivate") {
		http.Error(w, `{"error":"not found"}`, http.StatusNotFound)
		return
	}

	if err := h.Users.SetActive(r.Context(), id, active); err != nil {
		h.Logger.Error("set user active", "user_id", id, "active", active, "error", err)
		http.Error(w, `{"error":"failed to update user"}`, http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"id": id, "active": active})
}

// DeleteUser handles DELETE /api/admin/users/delete/{id}.
func (h *AdminHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(r, "/api/admin/users/delete/")
	if !ok {
		http.Error(w, `{"error":"invalid user id"}`, http.StatusBadRequest)
		return
	}
	if err := h.Users.Delete(r.Context(), id); err != nil {
		h.Logger.Error("delete user", "user_id", id, "error", err)
		http.Error(w, `{"error":"failed to delete user"}`, http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
