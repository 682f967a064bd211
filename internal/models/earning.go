package models

import (
	"time"

	"github.com/google/uuid"
)

// EarningEntry records a worker's income from a completed task. The worker
// report aggregates these per month.
type EarningEntry struct {
	ID          uuid.UUID `json:"id"`
	WorkerID    uuid.UUID `json:"workerId"`
	TaskID      uuid.UUID `json:"taskId"`
	AmountCents int64     `json:"amount"`
	EarnedAt    time.Time `json:"earnedAt"`
}
