package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/findworker/backend/internal/models"
)

type AssignmentRepo struct {
	pool *pgxpool.Pool
}

func NewAssignmentRepo(pool *pgxpool.Pool) *AssignmentRepo {
	return &AssignmentRepo{pool: pool}
}

func (r *AssignmentRepo) Create(ctx context.Context, a *models.Assignment) error {
	return r.pool.QueryRow(ctx, `
		INSERT INTO assignments (id, task_id, worker_id, status)
		VALUES ($1, $2, $3, $4)
		RETURNING assigned_at, updated_at
	`, a.ID, a.TaskID, a.WorkerID, a.Status).Scan(&a.AssignedAt, &a.UpdatedAt)
}

// GetActive returns the task's current non-terminal assignment, or
// pgx.ErrNoRows when the task is unassigned.
func (r *AssignmentRepo) GetActive(ctx context.Context, taskID uuid.UUID) (*models.Assignment, error) {
	return r.scanOne(r.pool.QueryRow(ctx, `
		SELECT id, task_id, worker_id, status, review_id, assigned_at, updated_at
		FROM assignments
		WHERE task_id = $1 AND status NOT IN ($2, $3, $4, $5)
		ORDER BY assigned_at DESC LIMIT 1
	`, taskID, models.StatusRejected, models.StatusCancelled, models.StatusCompleted, models.StatusIncompleted))
}

// GetByTaskAndWorker returns the latest assignment for the pair.
func (r *AssignmentRepo) GetByTaskAndWorker(ctx context.Context, taskID, workerID uuid.UUID) (*models.Assignment, error) {
	return r.scanOne(r.pool.QueryRow(ctx, `
		SELECT id, task_id, worker_id, status, review_id, assigned_at, updated_at
		FROM assignments
		WHERE task_id = $1 AND worker_id = $2
		ORDER BY assigned_at DESC LIMIT 1
	`, taskID, workerID))
}

func (r *AssignmentRepo) scanOne(row pgx.Row) (*models.Assignment, error) {
	var a models.Assignment
	err := row.Scan(&a.ID, &a.TaskID, &a.WorkerID, &a.Status, &a.ReviewID, &a.AssignedAt, &a.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// UpdateStatusFrom moves the assignment from the expected source status to the
// new one. The WHERE clause on the old status makes the update a compare-and-
// swap: a concurrent transition elsewhere leaves matched == false.
func (r *AssignmentRepo) UpdateStatusFrom(ctx context.Context, id uuid.UUID, from, to string) (bool, error) {
	tag, err := r.pool.Exec(ctx, `
		UPDATE assignments SET status = $3, updated_at = now()
		WHERE id = $1 AND status = $2
	`, id, from, to)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (r *AssignmentRepo) SetReviewID(ctx context.Context, id, reviewID uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE assignments SET review_id = $2, updated_at = now() WHERE id = $1
	`, id, reviewID)
	return err
}

const taskViewColumns = `
	t.id, t.user_id, a.worker_id, t.title, t.description, t.required_skills,
	t.min_rating, t.scheduled_date, t.allocated_amount_cents,
	a.status, a.review_id, r.rating, a.updated_at`

// ListClientTaskViews returns every assignment on the client's tasks joined
// with the assigned worker's name, newest first.
func (r *AssignmentRepo) ListClientTaskViews(ctx context.Context, clientID uuid.UUID) ([]models.TaskView, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+taskViewColumns+`, w.first_name, w.last_name
		FROM assignments a
		JOIN tasks t ON t.id = a.task_id
		JOIN users w ON w.id = a.worker_id
		LEFT JOIN reviews r ON r.id = a.review_id
		WHERE t.user_id = $1
		ORDER BY a.updated_at DESC
	`, clientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []models.TaskView
	for rows.Next() {
		var v models.TaskView
		if err := rows.Scan(&v.TaskID, &v.UserID, &v.WorkerID, &v.Title, &v.Description, &v.RequiredSkills,
			&v.MinRating, &v.ScheduledDate, &v.AllocatedAmountCents,
			&v.Status, &v.ReviewID, &v.Rating, &v.UpdatedAt, &v.WorkerFirstName, &v.WorkerLastName); err != nil {
			return nil, err
		}
		list = append(list, v)
	}
	return list, rows.Err()
}

// ListWorkerTaskViews returns every assignment held by the worker joined with
// the posting client's name, newest first.
func (r *AssignmentRepo) ListWorkerTaskViews(ctx context.Context, workerID uuid.UUID) ([]models.TaskView, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+taskViewColumns+`, c.first_name, c.last_name
		FROM assignments a
		JOIN tasks t ON t.id = a.task_id
		JOIN users c ON c.id = t.user_id
		LEFT JOIN reviews r ON r.id = a.review_id
		WHERE a.worker_id = $1
		ORDER BY a.updated_at DESC
	`, workerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []models.TaskView
	for rows.Next() {
		var v models.TaskView
		if err := rows.Scan(&v.TaskID, &v.UserID, &v.WorkerID, &v.Title, &v.Description, &v.RequiredSkills,
			&v.MinRating, &v.ScheduledDate, &v.AllocatedAmountCents,
			&v.Status, &v.ReviewID, &v.Rating, &v.UpdatedAt, &v.FirstName, &v.LastName); err != nil {
			return nil, err
		}
		list = append(list, v)
	}
	return list, rows.Err()
}
