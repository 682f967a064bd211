// Package jobs holds the background work that runs after status transitions:
// keeping worker calendars in sync with confirmed tasks, and recording
// earnings when a task completes.
package jobs

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/riverqueue/river"

	"github.com/findworker/backend/internal/models"
)

// taskSlotDuration is the calendar block length for a confirmed task.
const taskSlotDuration = 2 * time.Hour

// AssignmentEventArgs is enqueued by the transition service whenever an
// assignment enters CONFIRMED or leaves it through a terminal state.
type AssignmentEventArgs struct {
	TaskID   uuid.UUID `json:"task_id"`
	WorkerID uuid.UUID `json:"worker_id"`
	ClientID uuid.UUID `json:"client_id"`
	Status   string    `json:"status"`
}

func (AssignmentEventArgs) Kind() string { return "assignment_event" }

// TaskRepo is the task repository subset needed by the worker.
type TaskRepo interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Task, error)
}

// UserRepo resolves the client for locality on the busy interval.
type UserRepo interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

// BusyRepo mutates the worker's calendar.
type BusyRepo interface {
	Create(ctx context.Context, b *models.BusyInterval) error
	DeleteByTask(ctx context.Context, taskID uuid.UUID) error
}

// EarningRepo records completed-task income.
type EarningRepo interface {
	Create(ctx context.Context, e *models.EarningEntry) error
}

// AssignmentEventWorker applies calendar and earning side effects of a
// status transition.
type AssignmentEventWorker struct {
	river.WorkerDefaults[AssignmentEventArgs]
	Tasks    TaskRepo
	Users    UserRepo
	Busy     BusyRepo
	Earnings EarningRepo
	Logger   *slog.Logger
}

func NewAssignmentEventWorker(tasks TaskRepo, users UserRepo, busy BusyRepo, earnings EarningRepo, logger *slog.Logger) *AssignmentEventWorker {
	if logger == nil {
		logger = slog.Default()
	}
	return &AssignmentEventWorker{Tasks: tasks, Users: users, Busy: busy, Earnings: earnings, Logger: logger}
}

func (w *AssignmentEventWorker) Work(ctx context.Context, job *river.Job[AssignmentEventArgs]) error {
	args := job.Args

	switch args.Status {
	case models.StatusConfirmed:
		return w.blockCalendar(ctx, args)

	case models.StatusCancelled, models.StatusIncompleted:
		return w.releaseCalendar(ctx, args)

	case models.StatusCompleted:
		if err := w.releaseCalendar(ctx, args); err != nil {
			return err
		}
		return w.recordEarning(ctx, args)
	}

	w.Logger.Warn("assignment event with no side effect", "task_id", args.TaskID, "status", args.Status)
	return nil
}

// blockCalendar creates the system busy interval for a confirmed task.
func (w *AssignmentEventWorker) blockCalendar(ctx context.Context, args AssignmentEventArgs) error {
	task, err := w.Tasks.GetByID(ctx, args.TaskID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// Task deleted before the job ran; nothing to block.
			return nil
		}
		return fmt.Errorf("fetch task: %w", err)
	}

	city := ""
	if client, err := w.Users.GetByID(ctx, args.ClientID); err == nil {
		city = client.City
	}

	start := task.ScheduledDate
	end := start.Add(taskSlotDuration)
	interval := &models.BusyInterval{
		ID:        uuid.New(),
		WorkerID:  args.WorkerID,
		ClientID:  &args.ClientID,
		TaskID:    &args.TaskID,
		Date:      start.Format("2006-01-02"),
		StartTime: start.Format("15:04"),
		EndTime:   end.Format("15:04"),
		Title:     task.Title,
		TaskCity:  city,
	}
	if err := w.Busy.Create(ctx, interval); err != nil {
		return fmt.Errorf("create busy interval: %w", err)
	}
	return nil
}

// releaseCalendar drops the system interval when the assignment closes.
func (w *AssignmentEventWorker) releaseCalendar(ctx context.Context, args AssignmentEventArgs) error {
	if err := w.Busy.DeleteByTask(ctx, args.TaskID); err != nil {
		return fmt.Errorf("delete busy interval: %w", err)
	}
	return nil
}

// recordEarning credits the worker with the task's allocated amount.
func (w *AssignmentEventWorker) recordEarning(ctx context.Context, args AssignmentEventArgs) error {
	task, err := w.Tasks.GetByID(ctx, args.TaskID)
	if err != nil {
		return fmt.Errorf("fetch task: %w", err)
	}
	entry := &models.EarningEntry{
		ID:          uuid.New(),
		WorkerID:    args.WorkerID,
		TaskID:      args.TaskID,
		AmountCents: task.AllocatedAmountCents,
	}
	if err := w.Earnings.Create(ctx, entry); err != nil {
		return fmt.Errorf("record earning: %w", err)
	}
	return nil
}
