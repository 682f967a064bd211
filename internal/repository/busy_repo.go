package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/findworker/backend/internal/models"
)

const busyColumns = `id, worker_id, client_id, task_id, date, start_time, end_time, title, task_city, created_at`

type BusyRepo struct {
	pool *pgxpool.Pool
}

func NewBusyRepo(pool *pgxpool.Pool) *BusyRepo {
	return &BusyRepo{pool: pool}
}

func scanBusy(row pgx.Row) (*models.BusyInterval, error) {
	var b models.BusyInterval
	err := row.Scan(&b.ID, &b.WorkerID, &b.ClientID, &b.TaskID, &b.Date, &b.StartTime, &b.EndTime, &b.Title, &b.TaskCity, &b.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *BusyRepo) Create(ctx context.Context, b *models.BusyInterval) error {
	return r.pool.QueryRow(ctx, `
		INSERT INTO busy_intervals (id, worker_id, client_id, task_id, date, start_time, end_time, title, task_city)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at
	`, b.ID, b.WorkerID, b.ClientID, b.TaskID, b.Date, b.StartTime, b.EndTime, b.Title, b.TaskCity).Scan(&b.CreatedAt)
}

func (r *BusyRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.BusyInterval, error) {
	return scanBusy(r.pool.QueryRow(ctx, `SELECT `+busyColumns+` FROM busy_intervals WHERE id = $1`, id))
}

func (r *BusyRepo) Update(ctx context.Context, b *models.BusyInterval) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE busy_intervals SET date = $2, start_time = $3, end_time = $4, title = $5 WHERE id = $1
	`, b.ID, b.Date, b.StartTime, b.EndTime, b.Title)
	return err
}

func (r *BusyRepo) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM busy_intervals WHERE id = $1`, id)
	return err
}

// DeleteByTask removes the system-generated interval tied to a task, if any.
func (r *BusyRepo) DeleteByTask(ctx context.Context, taskID uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM busy_intervals WHERE task_id = $1`, taskID)
	return err
}

func (r *BusyRepo) ListByWorker(ctx context.Context, workerID uuid.UUID) ([]*models.BusyInterval, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+busyColumns+` FROM busy_intervals WHERE worker_id = $1 ORDER BY date, start_time
	`, workerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []*models.BusyInterval
	for rows.Next() {
		b, err := scanBusy(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, b)
	}
	return list, rows.Err()
}
