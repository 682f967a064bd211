package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/findworker/backend/internal/models"
)

type ReviewRepo struct {
	pool *pgxpool.Pool
}

func NewReviewRepo(pool *pgxpool.Pool) *ReviewRepo {
	return &ReviewRepo{pool: pool}
}

// Create inserts a review. The unique index on (task_id, worker_id) rejects
// duplicates with a pgconn 23505 error.
func (r *ReviewRepo) Create(ctx context.Context, rv *models.Review) error {
	return r.pool.QueryRow(ctx, `
		INSERT INTO reviews (id, task_id, worker_id, client_id, rating, text, image)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at
	`, rv.ID, rv.TaskID, rv.WorkerID, rv.ClientID, rv.Rating, rv.Text, rv.Image).Scan(&rv.CreatedAt)
}

func (r *ReviewRepo) GetByTaskAndWorker(ctx context.Context, taskID, workerID uuid.UUID) (*models.Review, error) {
	var rv models.Review
	err := r.pool.QueryRow(ctx, `
		SELECT id, task_id, worker_id, client_id, rating, text, image, created_at
		FROM reviews WHERE task_id = $1 AND worker_id = $2
	`, taskID, workerID).Scan(&rv.ID, &rv.TaskID, &rv.WorkerID, &rv.ClientID, &rv.Rating, &rv.Text, &rv.Image, &rv.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &rv, nil
}

// ListByWorker returns the worker's reviews with task titles, newest first.
func (r *ReviewRepo) ListByWorker(ctx context.Context, workerID uuid.UUID) ([]*models.Review, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT rv.id, rv.task_id, rv.worker_id, rv.client_id, rv.rating, rv.text, rv.image,
			COALESCE(t.title, ''), rv.created_at
		FROM reviews rv
		LEFT JOIN tasks t ON t.id = rv.task_id
		WHERE rv.worker_id = $1
		ORDER BY rv.created_at DESC
	`, workerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []*models.Review
	for rows.Next() {
		var rv models.Review
		if err := rows.Scan(&rv.ID, &rv.TaskID, &rv.WorkerID, &rv.ClientID, &rv.Rating, &rv.Text, &rv.Image, &rv.TaskTitle, &rv.CreatedAt); err != nil {
			return nil, err
		}
		list = append(list, &rv)
	}
	return list, rows.Err()
}

// AverageRating computes the worker's mean rating over rated reviews.
// ok is false when the worker has no rated reviews yet.
func (r *ReviewRepo) AverageRating(ctx context.Context, workerID uuid.UUID) (avg float64, ok bool, err error) {
	var v *float64
	err = r.pool.QueryRow(ctx, `
		SELECT AVG(rating)::float8 FROM reviews WHERE worker_id = $1 AND rating IS NOT NULL
	`, workerID).Scan(&v)
	if err != nil {
		return 0, false, err
	}
	if v == nil {
		return 0, false, nil
	}
	return *v, true, nil
}
