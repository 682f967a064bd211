package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/findworker/backend/internal/models"
)

type NoticeRepo struct {
	pool *pgxpool.Pool
}

func NewNoticeRepo(pool *pgxpool.Pool) *NoticeRepo {
	return &NoticeRepo{pool: pool}
}

func (r *NoticeRepo) Create(ctx context.Context, n *models.Notice) error {
	return r.pool.QueryRow(ctx, `
		INSERT INTO notices (id, title, message) VALUES ($1, $2, $3)
		RETURNING created_at, updated_at
	`, n.ID, n.Title, n.Message).Scan(&n.CreatedAt, &n.UpdatedAt)
}

func (r *NoticeRepo) Update(ctx context.Context, n *models.Notice) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE notices SET title = $2, message = $3, updated_at = now() WHERE id = $1
	`, n.ID, n.Title, n.Message)
	return err
}

func (r *NoticeRepo) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM notices WHERE id = $1`, id)
	return err
}

func (r *NoticeRepo) List(ctx context.Context) ([]*models.Notice, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, title, message, created_at, updated_at FROM notices ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []*models.Notice
	for rows.Next() {
		var n models.Notice
		if err := rows.Scan(&n.ID, &n.Title, &n.Message, &n.CreatedAt, &n.UpdatedAt); err != nil {
			return nil, err
		}
		list = append(list, &n)
	}
	return list, rows.Err()
}
