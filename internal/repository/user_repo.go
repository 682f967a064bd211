package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/findworker/backend/internal/models"
)

const userColumns = `id, email, password_hash, first_name, last_name, phone, city, user_type, active, profile_picture, skills, hourly_rate, rating, created_at, updated_at`

type UserRepo struct {
	pool *pgxpool.Pool
}

func NewUserRepo(pool *pgxpool.Pool) *UserRepo {
	return &UserRepo{pool: pool}
}

func scanUser(row pgx.Row) (*models.User, error) {
	var u models.User
	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.FirstName, &u.LastName, &u.Phone, &u.City, &u.UserType, &u.Active, &u.ProfilePicture, &u.Skills, &u.HourlyRate, &u.Rating, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func collectUsers(rows pgx.Rows) ([]*models.User, error) {
	defer rows.Close()
	var list []*models.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, u)
	}
	return list, rows.Err()
}

func (r *UserRepo) Create(ctx context.Context, u *models.User) error {
	return r.pool.QueryRow(ctx, `
		INSERT INTO users (id, email, password_hash, first_name, last_name, phone, city, user_type, active, skills, hourly_rate)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING created_at, updated_at
	`, u.ID, u.Email, u.PasswordHash, u.FirstName, u.LastName, u.Phone, u.City, u.UserType, u.Active, u.Skills, u.HourlyRate).Scan(&u.CreatedAt, &u.UpdatedAt)
}

func (r *UserRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return scanUser(r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
}

func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return scanUser(r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email))
}

func (r *UserRepo) UpdateProfile(ctx context.Context, u *models.User) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE users SET first_name = $2, last_name = $3, phone = $4, city = $5, skills = $6, hourly_rate = $7, updated_at = now()
		WHERE id = $1
	`, u.ID, u.FirstName, u.LastName, u.Phone, u.City, u.Skills, u.HourlyRate)
	return err
}

func (r *UserRepo) UpdateProfilePicture(ctx context.Context, id uuid.UUID, picture []byte) error {
	_, err := r.pool.Exec(ctx, `UPDATE users SET profile_picture = $2, updated_at = now() WHERE id = $1`, id, picture)
	return err
}

// UpdateRating stores the recomputed average review rating for a worker.
// A nil rating clears it (the worker has no rated reviews left).
func (r *UserRepo) UpdateRating(ctx context.Context, workerID uuid.UUID, rating *float64) error {
	_, err := r.pool.Exec(ctx, `UPDATE users SET rating = $2, updated_at = now() WHERE id = $1`, workerID, rating)
	return err
}

func (r *UserRepo) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	_, err := r.pool.Exec(ctx, `UPDATE users SET active = $2, updated_at = now() WHERE id = $1`, id, active)
	return err
}

func (r *UserRepo) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	return err
}

func (r *UserRepo) List(ctx context.Context) ([]*models.User, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+userColumns+` FROM users ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	return collectUsers(rows)
}

// SearchByKeyword matches name or email, case-insensitively.
func (r *UserRepo) SearchByKeyword(ctx context.Context, keyword string) ([]*models.User, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+userColumns+` FROM users
		WHERE first_name ILIKE '%' || $1 || '%'
		   OR last_name ILIKE '%' || $1 || '%'
		   OR email ILIKE '%' || $1 || '%'
		ORDER BY created_at DESC
	`, keyword)
	if err != nil {
		return nil, err
	}
	return collectUsers(rows)
}

// ListActiveWorkers returns every active worker account, the matching candidate pool.
func (r *UserRepo) ListActiveWorkers(ctx context.Context) ([]*models.User, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+userColumns+` FROM users WHERE user_type = $1 AND active ORDER BY rating DESC NULLS LAST
	`, models.UserTypeWorker)
	if err != nil {
		return nil, err
	}
	return collectUsers(rows)
}

// SearchWorkersByName backs the chat partner search box.
func (r *UserRepo) SearchWorkersByName(ctx context.Context, name string) ([]*models.User, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+userColumns+` FROM users
		WHERE active AND (first_name ILIKE '%' || $1 || '%' OR last_name ILIKE '%' || $1 || '%')
		ORDER BY first_name, last_name
	`, name)
	if err != nil {
		return nil, err
	}
	return collectUsers(rows)
}
