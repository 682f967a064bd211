package models

import (
	"time"

	"github.com/google/uuid"
)

// Task is a unit of work posted by a client. Money is stored in cents.
type Task struct {
	ID                   uuid.UUID `json:"id"`
	UserID               uuid.UUID `json:"userId"`
	Title                string    `json:"title"`
	Description          string    `json:"description"`
	RequiredSkills       string    `json:"requiredSkills"`
	MinRating            *float64  `json:"minRating,omitempty"`
	ScheduledDate        time.Time `json:"scheduledDate"`
	AllocatedAmountCents int64     `json:"allocatedAmount"`
	CreatedAt            time.Time `json:"createdAt"`
	UpdatedAt            time.Time `json:"updatedAt"`
}
