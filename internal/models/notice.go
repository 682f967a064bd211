package models

import (
	"time"

	"github.com/google/uuid"
)

// Notice is an announcement posted by administrators and shown to all users.
type Notice struct {
	ID        uuid.UUID `json:"id"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
