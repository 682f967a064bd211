package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/findworker/backend/internal/middleware"
	"github.com/findworker/backend/internal/models"
)

// WorkerMatcher abstracts the matching service.
type WorkerMatcher interface {
	MatchWorkers(ctx context.Context, task *models.Task, taskCity string) ([]*models.User, error)
}

// MatchHandler serves /api/match endpoints.
type MatchHandler struct {
	Tasks   TaskRepoForHandler
	Matcher WorkerMatcher
	Logger  *slog.Logger
}

// Workers handles GET /api/match/workers/{taskId} — ranked worker candidates
// for the client's task, free at its scheduled slot.
func (h *MatchHandler) Workers(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromCtx(r.Context())
	if user == nil {
		http.Error(w, `{"error":"unauthorized"}`, http.StatusUnauthorized)
		return
	}
	taskID, ok := pathUUID(r, "/api/match/workers/")
	if !ok {
		http.Error(w, `{"error":"invalid task id"}`, http.StatusBadRequest)
		return
	}

	task, err := h.Tasks.GetByID(r.Context(), taskID)
	if err != nil {
		http.Error(w, `{"error":"task not found"}`, http.StatusNotFound)
		return
	}
	if task.UserID != user.ID {
		http.Error(w, `{"error":"not your task"}`, http.StatusForbidden)
		return
	}

	workers, err := h.Matcher.MatchWorkers(r.Context(), task, user.City)
	if err != nil {
		h.Logger.Error("match workers", "task_id", taskID, "error", err)
		http.Error(w, `{"error":"failed to match workers"}`, http.StatusInternalServerError)
		return
	}
	if workers == nil {
		workers = []*models.User{}
	}
	writeJSON(w, http.StatusOK, workers)
}
