package handlers

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/findworker/backend/internal/middleware"
	"github.com/findworker/backend/internal/models"
)

// ---------------------------------------------------------------------------
// Mocks
// ---------------------------------------------------------------------------

type mockTaskRepo struct {
	tasks map[uuid.UUID]*models.Task
}

func newMockTaskRepo() *mockTaskRepo {
	return &mockTaskRepo{tasks: make(map[uuid.UUID]*models.Task)}
}

func (m *mockTaskRepo) Create(_ context.Context, t *models.Task) error {
	m.tasks[t.ID] = t
	return nil
}

func (m *mockTaskRepo) GetByID(_ context.Context, id uuid.UUID) (*models.Task, error) {
	t, ok := m.tasks[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return t, nil
}

func (m *mockTaskRepo) Update(_ context.Context, t *models.Task) error {
	m.tasks[t.ID] = t
	return nil
}

func (m *mockTaskRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(m.tasks, id)
	return nil
}

func (m *mockTaskRepo) ListByUserID(_ context.Context, userID uuid.UUID) ([]*models.Task, error) {
	var out []*models.Task
	for _, t := range m.tasks {
		if t.UserID == userID {
			out = append(out, t)
		}
	}
	return out, nil
}

type mockActiveLookup struct {
	active map[uuid.UUID]*models.Assignment
}

func (m *mockActiveLookup) GetActive(_ context.Context, taskID uuid.UUID) (*models.Assignment, error) {
	if a, ok := m.active[taskID]; ok {
		return a, nil
	}
	return nil, pgx.ErrNoRows
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func newTaskHandler() (*TaskHandler, *mockTaskRepo, *mockActiveLookup) {
	repo := newMockTaskRepo()
	active := &mockActiveLookup{active: make(map[uuid.UUID]*models.Assignment)}
	return &TaskHandler{Tasks: repo, Assignments: active, Logger: slog.Default()}, repo, active
}

func requestAs(user *models.User, method, path, body string) *http.Request {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	return req.WithContext(middleware.WithUser(req.Context(), user))
}

func taskBody(title string) string {
	return fmt.Sprintf(`{
		"title": %q,
		"description": "needs doing",
		"requiredSkills": "plumbing",
		"scheduledDate": %q,
		"allocatedAmount": 15000
	}`, title, time.Now().Add(48*time.Hour).Format(time.RFC3339))
}

// ---------------------------------------------------------------------------
// POST /api/task
// ---------------------------------------------------------------------------

func TestCreateTask_Valid(t *testing.T) {
	h, repo, _ := newTaskHandler()
	client := &models.User{ID: uuid.New(), UserType: models.UserTypeClient, Active: true}

	rec := httptest.NewRecorder()
	h.Create(rec, requestAs(client, http.MethodPost, "/api/task", taskBody("fix sink")))

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201: %s", rec.Code, rec.Body.String())
	}
	if len(repo.tasks) != 1 {
		t.Fatalf("stored %d tasks, want 1", len(repo.tasks))
	}
	for _, task := range repo.tasks {
		if task.UserID != client.ID {
			t.Errorf("task owner = %v, want caller", task.UserID)
		}
	}
}

func TestCreateTask_MissingTitleIs400(t *testing.T) {
	h, _, _ := newTaskHandler()
	client := &models.User{ID: uuid.New(), UserType: models.UserTypeClient, Active: true}

	rec := httptest.NewRecorder()
	h.Create(rec, requestAs(client, http.MethodPost, "/api/task", taskBody("")))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestCreateTask_NoUserIs401(t *testing.T) {
	h, _, _ := newTaskHandler()

	rec := httptest.NewRecorder()
	h.Create(rec, httptest.NewRequest(http.MethodPost, "/api/task", strings.NewReader(taskBody("x"))))

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

// ---------------------------------------------------------------------------
// DELETE /api/task/{id}
// ---------------------------------------------------------------------------

func TestDeleteTask_Unassigned(t *testing.T) {
	h, repo, _ := newTaskHandler()
	client := &models.User{ID: uuid.New(), UserType: models.UserTypeClient, Active: true}
	task := &models.Task{ID: uuid.New(), UserID: client.ID}
	repo.tasks[task.ID] = task

	rec := httptest.NewRecorder()
	h.Delete(rec, requestAs(client, http.MethodDelete, "/api/task/"+task.ID.String(), ""))

	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want 204", rec.Code)
	}
	if len(repo.tasks) != 0 {
		t.Errorf("task not deleted")
	}
}

func TestDeleteTask_ActiveAssignmentIs409(t *testing.T) {
	h, repo, active := newTaskHandler()
	client := &models.User{ID: uuid.New(), UserType: models.UserTypeClient, Active: true}
	task := &models.Task{ID: uuid.New(), UserID: client.ID}
	repo.tasks[task.ID] = task
	active.active[task.ID] = &models.Assignment{TaskID: task.ID, Status: models.StatusAccepted}

	rec := httptest.NewRecorder()
	h.Delete(rec, requestAs(client, http.MethodDelete, "/api/task/"+task.ID.String(), ""))

	if rec.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409", rec.Code)
	}
	if len(repo.tasks) != 1 {
		t.Errorf("task was deleted despite active assignment")
	}
}

func TestDeleteTask_NotOwnerIs403(t *testing.T) {
	h, repo, _ := newTaskHandler()
	owner := uuid.New()
	task := &models.Task{ID: uuid.New(), UserID: owner}
	repo.tasks[task.ID] = task
	stranger := &models.User{ID: uuid.New(), UserType: models.UserTypeClient, Active: true}

	rec := httptest.NewRecorder()
	h.Delete(rec, requestAs(stranger, http.MethodDelete, "/api/task/"+task.ID.String(), ""))

	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", rec.Code)
	}
}
