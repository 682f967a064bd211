package models

import (
	"time"

	"github.com/google/uuid"
)

// BusyInterval is a blocked time range on a worker's calendar.
// ClientID is nil for manually created intervals, which are the only ones the
// worker may edit or delete; system-generated intervals (ClientID set) come
// from confirmed tasks and are informational.
type BusyInterval struct {
	ID        uuid.UUID  `json:"id"`
	WorkerID  uuid.UUID  `json:"workerId"`
	ClientID  *uuid.UUID `json:"clientId,omitempty"`
	TaskID    *uuid.UUID `json:"taskId,omitempty"`
	Date      string     `json:"date"`      // YYYY-MM-DD
	StartTime string     `json:"startTime"` // HH:MM
	EndTime   string     `json:"endTime"`   // HH:MM
	Title     string     `json:"title"`
	TaskCity  string     `json:"taskCity,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
}

// Manual reports whether the interval was created by the worker and is
// therefore editable and deletable.
func (b *BusyInterval) Manual() bool { return b.ClientID == nil }

// Span parses the interval's date and times into a [start, end) pair.
func (b *BusyInterval) Span() (time.Time, time.Time, error) {
	start, err := time.Parse("2006-01-02 15:04", b.Date+" "+b.StartTime)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	end, err := time.Parse("2006-01-02 15:04", b.Date+" "+b.EndTime)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return start, end, nil
}

// Overlaps reports whether the interval intersects [start, end).
// Unparseable intervals are treated as non-overlapping.
func (b *BusyInterval) Overlaps(start, end time.Time) bool {
	s, e, err := b.Span()
	if err != nil {
		return false
	}
	return s.Before(end) && start.Before(e)
}
