package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/findworker/backend/internal/middleware"
	"github.com/findworker/backend/internal/models"
	"github.com/findworker/backend/internal/services"
	"github.com/findworker/backend/internal/status"
)

// Transitions abstracts the transition service for testability.
type Transitions interface {
	Assign(ctx context.Context, client *models.User, taskID, workerID uuid.UUID) (*models.Assignment, error)
	WorkerUpdate(ctx context.Context, worker *models.User, taskID uuid.UUID, to string) (*models.Assignment, error)
	ClientUpdate(ctx context.Context, client *models.User, taskID, workerID uuid.UUID, to string) (*models.Assignment, error)
}

// TaskViewLister serves the per-role task-status lists.
type TaskViewLister interface {
	ListClientTaskViews(ctx context.Context, clientID uuid.UUID) ([]models.TaskView, error)
	ListWorkerTaskViews(ctx context.Context, workerID uuid.UUID) ([]models.TaskView, error)
}

// StatusHandler serves /api/task-status endpoints.
type StatusHandler struct {
	Transitions Transitions
	Views       TaskViewLister
	Logger      *slog.Logger
}

// ClientTasks handles GET /api/task-status/client-tasks.
func (h *StatusHandler) ClientTasks(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromCtx(r.Context())
	if user == nil {
		http.Error(w, `{"error":"unauthorized"}`, http.StatusUnauthorized)
		return
	}
	views, err := h.Views.ListClientTaskViews(r.Context(), user.ID)
	if err != nil {
		h.Logger.Error("list client task views", "error", err)
		http.Error(w, `{"error":"failed to list tasks"}`, http.StatusInternalServerError)
		return
	}
	if views == nil {
		views = []models.TaskView{}
	}
	writeJSON(w, http.StatusOK, views)
}

// MyTasks handles GET /api/task-status/my — the worker's assignment list.
func (h *StatusHandler) MyTasks(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromCtx(r.Context())
	if user == nil {
		http.Error(w, `{"error":"unauthorized"}`, http.StatusUnauthorized)
		return
	}
	views, err := h.Views.ListWorkerTaskViews(r.Context(), user.ID)
	if err != nil {
		h.Logger.Error("list worker task views", "error", err)
		http.Error(w, `{"error":"failed to list tasks"}`, http.StatusInternalServerError)
		return
	}
	if views == nil {
		views = []models.TaskView{}
	}
	writeJSON(w, http.StatusOK, views)
}

type assignRequest struct {
	TaskID   string `json:"taskId"`
	WorkerID string `json:"workerId"`
}

// Assign handles PUT /api/task-status/update — the client offering a task to
// a worker, creating a fresh ASSIGNED record.
func (h *StatusHandler) Assign(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromCtx(r.Context())
	if user == nil {
		http.Error(w, `{"error":"unauthorized"}`, http.StatusUnauthorized)
		return
	}

	var req assignRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"invalid JSON"}`, http.StatusBadRequest)
		return
	}
	taskID, err := uuid.Parse(req.TaskID)
	if err != nil {
		http.Error(w, `{"error":"invalid taskId"}`, http.StatusBadRequest)
		return
	}
	workerID, err := uuid.Parse(req.WorkerID)
	if err != nil {
		http.Error(w, `{"error":"invalid workerId"}`, http.StatusBadRequest)
		return
	}

	a, err := h.Transitions.Assign(r.Context(), user, taskID, workerID)
	if err != nil {
		h.writeTransitionError(w, err, "assign", taskID)
		return
	}
	writeJSON(w, http.StatusCreated, a)
}

type workerUpdateRequest struct {
	TaskID string `json:"taskId"`
	Status string `json:"status"`
}

// WorkerUpdate handles PUT /api/task-status/worker-update — the assigned
// worker accepting or rejecting.
func (h *StatusHandler) WorkerUpdate(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromCtx(r.Context())
	if user == nil {
		http.Error(w, `{"error":"unauthorized"}`, http.StatusUnauthorized)
		return
	}

	var req workerUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"invalid JSON"}`, http.StatusBadRequest)
		return
	}
	taskID, err := uuid.Parse(req.TaskID)
	if err != nil {
		http.Error(w, `{"error":"invalid taskId"}`, http.StatusBadRequest)
		return
	}

	a, err := h.Transitions.WorkerUpdate(r.Context(), user, taskID, req.Status)
	if err != nil {
		h.writeTransitionError(w, err, "worker update", taskID)
		return
	}
	writeJSON(w, http.StatusOK, a)
}

type clientUpdateRequest struct {
	Status string `json:"status"`
}

// ClientUpdate handles PUT /api/task-status/{taskId}/status/{workerId} — the
// client confirming, cancelling, or closing out the assignment.
func (h *StatusHandler) ClientUpdate(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromCtx(r.Context())
	if user == nil {
		http.Error(w, `{"error":"unauthorized"}`, http.StatusUnauthorized)
		return
	}
	taskID, workerID, ok := pathUUIDPair(r, "/api/task-status/", "/status/")
	if !ok {
		http.Error(w, `{"error":"invalid path"}`, http.StatusBadRequest)
		return
	}

	var req clientUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"invalid JSON"}`, http.StatusBadRequest)
		return
	}

	a, err := h.Transitions.ClientUpdate(r.Context(), user, taskID, workerID, req.Status)
	if err != nil {
		h.writeTransitionError(w, err, "client update", taskID)
		return
	}
	writeJSON(w, http.StatusOK, a)
}

func (h *StatusHandler) writeTransitionError(w http.ResponseWriter, err error, op string, taskID uuid.UUID) {
	switch {
	case errors.Is(err, status.ErrStateConflict):
		writeJSON(w, http.StatusConflict, map[string]string{"error": err.Error()})
	case errors.Is(err, services.ErrNotFound):
		http.Error(w, `{"error":"not found"}`, http.StatusNotFound)
	case errors.Is(err, services.ErrForbidden):
		http.Error(w, `{"error":"forbidden"}`, http.StatusForbidden)
	default:
		h.Logger.Error(op, "task_id", taskID, "error", err)
		http.Error(w, `{"error":"internal error"}`, http.StatusInternalServerError)
	}
}
