package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/findworker/backend/internal/models"
)

type EarningRepo struct {
	pool *pgxpool.Pool
}

func NewEarningRepo(pool *pgxpool.Pool) *EarningRepo {
	return &EarningRepo{pool: pool}
}

func (r *EarningRepo) Create(ctx context.Context, e *models.EarningEntry) error {
	return r.pool.QueryRow(ctx, `
		INSERT INTO earnings (id, worker_id, task_id, amount_cents)
		VALUES ($1, $2, $3, $4)
		RETURNING earned_at
	`, e.ID, e.WorkerID, e.TaskID, e.AmountCents).Scan(&e.EarnedAt)
}

// MonthlyRow is one month's aggregate of a worker's earnings.
type MonthlyRow struct {
	Month       time.Time
	AmountCents int64
	TaskCount   int
}

// MonthlyByWorker aggregates a worker's earnings per calendar month of a year.
func (r *EarningRepo) MonthlyByWorker(ctx context.Context, workerID uuid.UUID, year int) ([]MonthlyRow, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT date_trunc('month', earned_at) AS month, SUM(amount_cents), COUNT(*)
		FROM earnings
		WHERE worker_id = $1 AND EXTRACT(YEAR FROM earned_at) = $2
		GROUP BY month ORDER BY month
	`, workerID, year)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []MonthlyRow
	for rows.Next() {
		var m MonthlyRow
		if err := rows.Scan(&m.Month, &m.AmountCents, &m.TaskCount); err != nil {
			return nil, err
		}
		list = append(list, m)
	}
	return list, rows.Err()
}

// MonthlyPlatform aggregates all marketplace earnings per month for a year.
func (r *EarningRepo) MonthlyPlatform(ctx context.Context, year int) ([]MonthlyRow, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT date_trunc('month', earned_at) AS month, SUM(amount_cents), COUNT(*)
		FROM earnings
		WHERE date_part('year', earned_at) = $1
		GROUP BY month ORDER BY month
	`, year)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []MonthlyRow
	for rows.Next() {
		var m MonthlyRow
		if err := rows.Scan(&m.Month, &m.AmountCents, &m.TaskCount); err != nil {
			return nil, err
		}
		list = append(list, m)
	}
	return list, rows.Err()
}
