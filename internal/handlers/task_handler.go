package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/findworker/backend/internal/middleware"
	"github.com/findworker/backend/internal/models"
)

// TaskRepoForHandler is the subset of task repository needed by the handler.
type TaskRepoForHandler interface {
	Create(ctx context.Context, t *models.Task) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Task, error)
	Update(ctx context.Context, t *models.Task) error
	Delete(ctx context.Context, id uuid.UUID) error
	ListByUserID(ctx context.Context, userID uuid.UUID) ([]*models.Task, error)
}

// ActiveAssignmentLookup guards deletion: a task with an active assignment
// cannot be removed.
type ActiveAssignmentLookup interface {
	GetActive(ctx context.Context, taskID uuid.UUID) (*models.Assignment, error)
}

// TaskHandler serves /api/task endpoints.
type TaskHandler struct {
	Tasks       TaskRepoForHandler
	Assignments ActiveAssignmentLookup
	Logger      *slog.Logger
}

type taskRequest struct {
	Title                string   `json:"title"`
	Description          string   `json:"description"`
	RequiredSkills       string   `json:"requiredSkills"`
	MinRating            *float64 `json:"minRating"`
	ScheduledDate        string   `json:"scheduledDate"`
	AllocatedAmountCents int64    `json:"allocatedAmount"`
}

func (req *taskRequest) apply(t *models.Task) string {
	if req.Title == "" {
		return "title is required"
	}
	if req.Description == "" {
		return "description is required"
	}
	if req.AllocatedAmountCents <= 0 {
		return "allocatedAmount must be > 0"
	}
	scheduled, err := time.Parse(time.RFC3339, req.ScheduledDate)
	if err != nil {
		return "scheduledDate must be RFC 3339"
	}
	if req.MinRating != nil && (*req.MinRating < 1 || *req.MinRating > 5) {
		return "minRating must be between 1 and 5"
	}
	t.Title = req.Title
	t.Description = req.Description
	t.RequiredSkills = req.RequiredSkills
	t.MinRating = req.MinRating
	t.ScheduledDate = scheduled
	t.AllocatedAmountCents = req.AllocatedAmountCents
	return ""
}

// Create handles POST /api/task.
func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromCtx(r.Context())
	if user == nil {
		http.Error(w, `{"error":"unauthorized"}`, http.StatusUnauthorized)
		return
	}

	var req taskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"invalid JSON"}`, http.StatusBadRequest)
		return
	}

	task := &models.Task{ID: uuid.New(), UserID: user.ID}
	if msg := req.apply(task); msg != "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": msg})
		return
	}

	if err := h.Tasks.Create(r.Context(), task); err != nil {
		h.Logger.Error("create task", "error", err)
		http.Error(w, `{"error":"failed to create task"}`, http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusCreated, task)
}

// ListMine handles GET /api/task — the caller's own tasks.
func (h *TaskHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromCtx(r.Context())
	if user == nil {
		http.Error(w, `{"error":"unauthorized"}`, http.StatusUnauthorized)
		return
	}
	tasks, err := h.Tasks.ListByUserID(r.Context(), user.ID)
	if err != nil {
		h.Logger.Error("list tasks", "error", err)
		http.Error(w, `{"error":"failed to list tasks"}`, http.StatusInternalServerError)
		return
	}
	if tasks == nil {
		tasks = []*models.Task{}
	}
	writeJSON(w, http.StatusOK, tasks)
}

// Update handles PUT /api/task/{id}.
func (h *TaskHandler) Update(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromCtx(r.Context())
	if user == nil {
		http.Error(w, `{"error":"unauthorized"}`, http.StatusUnauthorized)
		return
	}
	id, ok := pathUUID(r, "/api/task/")
	if !ok {
		http.Error(w, `{"error":"invalid task id"}`, http.StatusBadRequest)
		return
	}

	task, err := h.Tasks.GetByID(r.Context(), id)
	if err != nil {
		http.Error(w, `{"error":"task not found"}`, http.StatusNotFound)
		return
	}
	if task.UserID != user.ID {
		http.Error(w, `{"error":"not your task"}`, http.StatusForbidden)
		return
	}

	var req taskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"invalid JSON"}`, http.StatusBadRequest)
		return
	}
	if msg := req.apply(task); msg != "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": msg})
		return
	}

	if err := h.Tasks.Update(r.Context(), task); err != nil {
		h.Logger.Error("update task", "task_id", id, "error", err)
		http.Error(w, `{"error":"failed to update task"}`, http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, task)
}

// Delete handles DELETE /api/task/{id}. A task with an active assignment
// cannot be deleted; the client must cancel it first.
func (h *TaskHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromCtx(r.Context())
	if user == nil {
		http.Error(w, `{"error":"unauthorized"}`, http.StatusUnauthorized)
		return
	}
	id, ok := pathUUID(r, "/api/task/")
	if !ok {
		http.Error(w, `{"error":"invalid task id"}`, http.StatusBadRequest)
		return
	}

	task, err := h.Tasks.GetByID(r.Context(), id)
	if err != nil {
		http.Error(w, `{"error":"task not found"}`, http.StatusNotFound)
		return
	}
	if task.UserID != user.ID {
		http.Error(w, `{"error":"not your task"}`, http.StatusForbidden)
		return
	}

	if _, err := h.Assignments.GetActive(r.Context(), id); err == nil {
		writeJSON(w, http.StatusConflict, map[string]string{"error": "task has an active assignment"})
		return
	} else if !errors.Is(err, pgx.ErrNoRows) {
		h.Logger.Error("check active assignment", "task_id", id, "error", err)
		http.Error(w, `{"error":"internal error"}`, http.StatusInternalServerError)
		return
	}

	if err := h.Tasks.Delete(r.Context(), id); err != nil {
		h.Logger.Error("delete task", "task_id", id, "error", err)
		http.Error(w, `{"error":"failed to delete task"}`, http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
