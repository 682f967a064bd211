package models

import (
	"time"

	"github.com/google/uuid"
)

// MaxReviewImageBytes caps review image attachments at 5MB.
const MaxReviewImageBytes = 5 * 1024 * 1024

// Review is client feedback on a terminal (task, worker) pair.
// Rating is required only when the task finished COMPLETED; an INCOMPLETED
// task carries text-only feedback. Unique per (taskId, workerId).
type Review struct {
	ID        uuid.UUID `json:"id"`
	TaskID    uuid.UUID `json:"taskId"`
	WorkerID  uuid.UUID `json:"workerId"`
	ClientID  uuid.UUID `json:"clientId"`
	Rating    *int      `json:"rating,omitempty"`
	Text      string    `json:"text"`
	Image     []byte    `json:"image,omitempty"`
	TaskTitle string    `json:"taskTitle,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}
