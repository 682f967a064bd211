package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/findworker/backend/internal/models"
	"github.com/findworker/backend/internal/status"
)

// ErrValidation marks review input the caller can fix.
var ErrValidation = errors.New("validation failed")

// ErrAlreadyReviewed is returned when the assignment already carries a review.
var ErrAlreadyReviewed = errors.New("task already reviewed")

type ReviewRepo interface {
	Create(ctx context.Context, r *models.Review) error
	GetByTaskAndWorker(ctx context.Context, taskID, workerID uuid.UUID) (*models.Review, error)
	ListByWorker(ctx context.Context, workerID uuid.UUID) ([]*models.Review, error)
	AverageRating(ctx context.Context, workerID uuid.UUID) (float64, bool, error)
}

type ReviewAssignmentRepo interface {
	GetByTaskAndWorker(ctx context.Context, taskID, workerID uuid.UUID) (*models.Assignment, error)
	SetReviewID(ctx context.Context, id, reviewID uuid.UUID) error
}

type ReviewTaskRepo interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Task, error)
}

type ReviewUserRepo interface {
	UpdateRating(ctx context.Context, id uuid.UUID, rating *float64) error
}

// ReviewService handles one review per finished assignment, written by the
// task's client about the worker. A successful submission also refreshes the
// worker's aggregate rating.
type ReviewService struct {
	Reviews     ReviewRepo
	Assignments ReviewAssignmentRepo
	Tasks       ReviewTaskRepo
	Users       ReviewUserRepo
	Logger      *slog.Logger
}

func NewReviewService(reviews ReviewRepo, assignments ReviewAssignmentRepo, tasks ReviewTaskRepo, users ReviewUserRepo, logger *slog.Logger) *ReviewService {
	if logger == nil {
		logger = slog.Default()
	}
	return &ReviewService{Reviews: reviews, Assignments: assignments, Tasks: tasks, Users: users, Logger: logger}
}

// SubmitInput carries review form fields. Rating is required when the
// assignment finished COMPLETED and must be absent otherwise.
type SubmitInput struct {
	TaskID   uuid.UUID
	WorkerID uuid.UUID
	Rating   *int
	Text     string
	Image    []byte
}

// Submit validates and stores a review for a finished assignment.
func (s *ReviewService) Submit(ctx context.Context, client *models.User, in SubmitInput) (*models.Review, error) {
	task, err := s.Tasks.GetByID(ctx, in.TaskID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if task.UserID != client.ID {
		return nil, ErrForbidden
	}

	a, err := s.Assignments.GetByTaskAndWorker(ctx, in.TaskID, in.WorkerID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if !status.IsTerminal(a.Status) {
		return nil, fmt.Errorf("%w: task is not finished yet", status.ErrStateConflict)
	}
	if a.ReviewID != nil {
		return nil, ErrAlreadyReviewed
	}

	if err := validateReview(a.Status, in); err != nil {
		return nil, err
	}

	r := &models.Review{
		ID:       uuid.New(),
		TaskID:   in.TaskID,
		WorkerID: in.WorkerID,
		ClientID: client.ID,
		Rating:   in.Rating,
		Text:     in.Text,
		Image:    in.Image,
	}
	if err := s.Reviews.Create(ctx, r); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, ErrAlreadyReviewed
		}
		return nil, err
	}
	if err := s.Assignments.SetReviewID(ctx, a.ID, r.ID); err != nil {
		return nil, err
	}

	if err := s.refreshWorkerRating(ctx, in.WorkerID); err != nil {
		s.Logger.Error("refresh worker rating", "worker_id", in.WorkerID, "error", err)
	}
	return r, nil
}

// ListForWorker returns the reviews written about a worker, newest first.
func (s *ReviewService) ListForWorker(ctx context.Context, workerID uuid.UUID) ([]*models.Review, error) {
	return s.Reviews.ListByWorker(ctx, workerID)
}

func (s *ReviewService) refreshWorkerRating(ctx context.Context, workerID uuid.UUID) error {
	avg, ok, err := s.Reviews.AverageRating(ctx, workerID)
	if err != nil {
		return err
	}
	if !ok {
		return s.Users.UpdateRating(ctx, workerID, nil)
	}
	return s.Users.UpdateRating(ctx, workerID, &avg)
}

func validateReview(assignmentStatus string, in SubmitInput) error {
	if in.Text == "" {
		return fmt.Errorf("%w: review text is required", ErrValidation)
	}
	if assignmentStatus == models.StatusCompleted {
		if in.Rating == nil {
			return fmt.Errorf("%w: rating is required for completed tasks", ErrValidation)
		}
		if *in.Rating < 1 || *in.Rating > 5 {
			return fmt.Errorf("%w: rating must be between 1 and 5", ErrValidation)
		}
	} else if in.Rating != nil {
		return fmt.Errorf("%w: rating is only allowed for completed tasks", ErrValidation)
	}
	if len(in.Image) > models.MaxReviewImageBytes {
		return fmt.Errorf("%w: image exceeds %d bytes", ErrValidation, models.MaxReviewImageBytes)
	}
	return nil
}
