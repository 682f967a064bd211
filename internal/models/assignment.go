package models

import (
	"time"

	"github.com/google/uuid"
)

// Assignment status enums. An assignment is the (task, worker) pairing with
// its own status lifecycle; a task has at most one active assignment at a
// time and re-assignment after REJECTED/CANCELLED starts a fresh record.
const (
	StatusAssigned    = "ASSIGNED"
	StatusAccepted    = "ACCEPTED"
	StatusRejected    = "REJECTED"
	StatusConfirmed   = "CONFIRMED"
	StatusCancelled   = "CANCELLED"
	StatusCompleted   = "COMPLETED"
	StatusIncompleted = "INCOMPLETED"
)

type Assignment struct {
	ID         uuid.UUID  `json:"id"`
	TaskID     uuid.UUID  `json:"taskId"`
	WorkerID   uuid.UUID  `json:"workerId"`
	Status     string     `json:"status"`
	ReviewID   *uuid.UUID `json:"reviewId,omitempty"`
	AssignedAt time.Time  `json:"assignedAt"`
	UpdatedAt  time.Time  `json:"updatedAt"`
}

// TaskView is the row shape returned by the task-status list endpoints:
// a task joined with its current assignment and the counterparty's name.
// Worker fields are filled for client lists, client fields for worker lists.
type TaskView struct {
	TaskID               uuid.UUID  `json:"taskId"`
	UserID               uuid.UUID  `json:"userId"`
	WorkerID             uuid.UUID  `json:"workerId"`
	Title                string     `json:"title"`
	Description          string     `json:"description"`
	RequiredSkills       string     `json:"requiredSkills"`
	MinRating            *float64   `json:"minRating,omitempty"`
	ScheduledDate        time.Time  `json:"scheduledDate"`
	AllocatedAmountCents int64      `json:"allocatedAmount"`
	Status               string     `json:"status"`
	ReviewID             *uuid.UUID `json:"reviewId,omitempty"`
	Rating               *int       `json:"rating,omitempty"`
	FirstName            string     `json:"firstName,omitempty"`
	LastName             string     `json:"lastName,omitempty"`
	WorkerFirstName      string     `json:"workerFirstName,omitempty"`
	WorkerLastName       string     `json:"workerLastName,omitempty"`
	UpdatedAt            time.Time  `json:"updatedAt"`
}
