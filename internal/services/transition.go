package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/findworker/backend/internal/jobs"
	"github.com/findworker/backend/internal/models"
	"github.com/findworker/backend/internal/status"
)

// ErrNotFound is returned when the referenced task or assignment does not exist.
var ErrNotFound = errors.New("not found")

// ErrForbidden is returned when the caller is not a party to the assignment.
var ErrForbidden = errors.New("forbidden")

// TransitionTaskRepo is the task repository subset used by transitions.
type TransitionTaskRepo interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Task, error)
}

// TransitionAssignmentRepo is the assignment repository subset used by transitions.
type TransitionAssignmentRepo interface {
	Create(ctx context.Context, a *models.Assignment) error
	GetActive(ctx context.Context, taskID uuid.UUID) (*models.Assignment, error)
	GetByTaskAndWorker(ctx context.Context, taskID, workerID uuid.UUID) (*models.Assignment, error)
	UpdateStatusFrom(ctx context.Context, id uuid.UUID, from, to string) (bool, error)
}

// TransitionUserRepo resolves the worker being assigned.
type TransitionUserRepo interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

// EnqueueAssignmentEventFunc enqueues the calendar/earning side effects of a
// transition. Provided by main as a closure over river.Client.Insert.
type EnqueueAssignmentEventFunc func(ctx context.Context, args jobs.AssignmentEventArgs) error

// TransitionService is the single entry point for assignment state changes.
// It validates every request against the transition table before touching the
// database, and applies the change with a compare-and-swap so concurrent
// transitions surface as state conflicts instead of lost updates.
type TransitionService struct {
	Tasks        TransitionTaskRepo
	Assignments  TransitionAssignmentRepo
	Users        TransitionUserRepo
	EnqueueEvent EnqueueAssignmentEventFunc
	Logger       *slog.Logger
}

func NewTransitionService(tasks TransitionTaskRepo, assignments TransitionAssignmentRepo, users TransitionUserRepo, enqueue EnqueueAssignmentEventFunc, logger *slog.Logger) *TransitionService {
	if logger == nil {
		logger = slog.Default()
	}
	return &TransitionService{Tasks: tasks, Assignments: assignments, Users: users, EnqueueEvent: enqueue, Logger: logger}
}

// Assign creates a fresh ASSIGNED record for (task, worker). The task must
// belong to the client and must not already have an active assignment.
func (s *TransitionService) Assign(ctx context.Context, client *models.User, taskID, workerID uuid.UUID) (*models.Assignment, error) {
	task, err := s.Tasks.GetByID(ctx, taskID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if task.UserID != client.ID {
		return nil, ErrForbidden
	}

	worker, err := s.Users.GetByID(ctx, workerID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if !worker.IsWorker() || !worker.Active {
		return nil, fmt.Errorf("%w: user is not an available worker", status.ErrStateConflict)
	}

	if _, err := s.Assignments.GetActive(ctx, taskID); err == nil {
		return nil, fmt.Errorf("%w: task already has an active assignment", status.ErrStateConflict)
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}

	a := &models.Assignment{
		ID:       uuid.New(),
		TaskID:   taskID,
		WorkerID: workerID,
		Status:   models.StatusAssigned,
	}
	if err := s.Assignments.Create(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

// WorkerUpdate applies a worker-side transition (ACCEPTED or REJECTED) on the
// task's active assignment.
func (s *TransitionService) WorkerUpdate(ctx context.Context, worker *models.User, taskID uuid.UUID, to string) (*models.Assignment, error) {
	a, err := s.Assignments.GetActive(ctx, taskID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if a.WorkerID != worker.ID {
		return nil, ErrForbidden
	}
	return s.apply(ctx, a, status.ActorWorker, to)
}

// ClientUpdate applies a client-side transition (CONFIRMED, CANCELLED,
// COMPLETED, INCOMPLETED) on the (task, worker) assignment.
func (s *TransitionService) ClientUpdate(ctx context.Context, client *models.User, taskID, workerID uuid.UUID, to string) (*models.Assignment, error) {
	task, err := s.Tasks.GetByID(ctx, taskID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if task.UserID != client.ID {
		return nil, ErrForbidden
	}

	a, err := s.Assignments.GetByTaskAndWorker(ctx, taskID, workerID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return s.apply(ctx, a, status.ActorClient, to)
}

// apply validates the move and performs the compare-and-swap update. Side
// effects are enqueued after the swap succeeds; an enqueue failure is logged
// but does not roll the transition back.
func (s *TransitionService) apply(ctx context.Context, a *models.Assignment, actor status.Actor, to string) (*models.Assignment, error) {
	if !status.Valid(to) {
		return nil, fmt.Errorf("%w: unknown status %q", status.ErrStateConflict, to)
	}
	if err := status.Check(actor, a.Status, to); err != nil {
		return nil, err
	}

	from := a.Status
	matched, err := s.Assignments.UpdateStatusFrom(ctx, a.ID, from, to)
	if err != nil {
		return nil, err
	}
	if !matched {
		return nil, fmt.Errorf("%w: assignment moved concurrently", status.ErrStateConflict)
	}
	a.Status = to

	if s.EnqueueEvent != nil && wantsSideEffect(from, to) {
		task, err := s.Tasks.GetByID(ctx, a.TaskID)
		if err != nil {
			s.Logger.Error("fetch task for side effect", "task_id", a.TaskID, "error", err)
			return a, nil
		}
		args := jobs.AssignmentEventArgs{
			TaskID:   a.TaskID,
			WorkerID: a.WorkerID,
			ClientID: task.UserID,
			Status:   to,
		}
		if err := s.EnqueueEvent(ctx, args); err != nil {
			s.Logger.Error("enqueue assignment event", "task_id", a.TaskID, "status", to, "error", err)
		}
	}
	return a, nil
}

// wantsSideEffect reports whether the transition has calendar or earning
// consequences: entering CONFIRMED blocks the calendar, and leaving it
// releases the block (plus records income on COMPLETED).
func wantsSideEffect(from, to string) bool {
	if to == models.StatusConfirmed {
		return true
	}
	return from == models.StatusConfirmed && status.IsTerminal(to)
}
