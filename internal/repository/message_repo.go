package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/findworker/backend/internal/models"
)

type MessageRepo struct {
	pool *pgxpool.Pool
}

func NewMessageRepo(pool *pgxpool.Pool) *MessageRepo {
	return &MessageRepo{pool: pool}
}

func (r *MessageRepo) Create(ctx context.Context, m *models.Message) error {
	return r.pool.QueryRow(ctx, `
		INSERT INTO messages (id, sender_from_id, sender_to_id, content)
		VALUES ($1, $2, $3, $4)
		RETURNING sent_at
	`, m.ID, m.SenderFromID, m.SenderToID, m.Content).Scan(&m.SentAt)
}

// Conversation returns the full message history between two users, oldest first.
func (r *MessageRepo) Conversation(ctx context.Context, a, b uuid.UUID) ([]*models.Message, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, sender_from_id, sender_to_id, content, sent_at
		FROM messages
		WHERE (sender_from_id = $1 AND sender_to_id = $2) OR (sender_from_id = $2 AND sender_to_id = $1)
		ORDER BY sent_at
	`, a, b)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []*models.Message
	for rows.Next() {
		var m models.Message
		if err := rows.Scan(&m.ID, &m.SenderFromID, &m.SenderToID, &m.Content, &m.SentAt); err != nil {
			return nil, err
		}
		list = append(list, &m)
	}
	return list, rows.Err()
}

// ConversationUsers lists everyone the user has exchanged messages with,
// most recent conversation first.
func (r *MessageRepo) ConversationUsers(ctx context.Context, userID uuid.UUID) ([]models.ConversationUser, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT u.id, u.first_name, u.last_name, MAX(m.sent_at) AS last_sent
		FROM messages m
		JOIN users u ON u.id = CASE WHEN m.sender_from_id = $1 THEN m.sender_to_id ELSE m.sender_from_id END
		WHERE m.sender_from_id = $1 OR m.sender_to_id = $1
		GROUP BY u.id, u.first_name, u.last_name
		ORDER BY last_sent DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []models.ConversationUser
	for rows.Next() {
		var c models.ConversationUser
		if err := rows.Scan(&c.UserID, &c.FirstName, &c.LastName, &c.LastSent); err != nil {
			return nil, err
		}
		list = append(list, c)
	}
	return list, rows.Err()
}
