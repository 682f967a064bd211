package lifecycle

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/findworker/backend/internal/models"
)

// TaskLister fetches the caller's current task list.
type TaskLister interface {
	ListTasks(ctx context.Context) ([]models.TaskView, error)
}

// Store holds the local snapshot of the caller's tasks. The snapshot is the
// single source of truth for the UI layer: LoadAll replaces it wholesale,
// ApplyLocalUpdate patches one row after a successful transition, and every
// read (counts, filters) is derived from it on demand.
type Store struct {
	lister TaskLister

	mu    sync.RWMutex
	tasks []models.TaskView
}

// NewStore returns an empty Store backed by the lister.
func NewStore(lister TaskLister) *Store {
	return &Store{lister: lister}
}

// LoadAll replaces the snapshot with a fresh fetch. On error the previous
// snapshot is kept.
func (s *Store) LoadAll(ctx context.Context) error {
	views, err := s.lister.ListTasks(ctx)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.tasks = views
	s.mu.Unlock()
	return nil
}

// Tasks returns a copy of the snapshot.
func (s *Store) Tasks() []models.TaskView {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.TaskView, len(s.tasks))
	copy(out, s.tasks)
	return out
}

// Get returns the snapshot row for (taskID, workerID).
func (s *Store) Get(taskID, workerID uuid.UUID) (models.TaskView, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, t := range s.tasks {
		if t.TaskID == taskID && t.WorkerID == workerID {
			return t, true
		}
	}
	return models.TaskView{}, false
}

// GetByTask returns the snapshot row for taskID regardless of worker. Used
// on the worker side, where the list holds at most one row per task.
func (s *Store) GetByTask(taskID uuid.UUID) (models.TaskView, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, t := range s.tasks {
		if t.TaskID == taskID {
			return t, true
		}
	}
	return models.TaskView{}, false
}

// ApplyLocalUpdate replaces the row matching (taskId, workerId) with updated.
// A row that is no longer in the snapshot is ignored: the update raced a
// LoadAll that dropped it, and the snapshot stays authoritative.
func (s *Store) ApplyLocalUpdate(updated models.TaskView) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, t := range s.tasks {
		if t.TaskID == updated.TaskID && t.WorkerID == updated.WorkerID {
			s.tasks[i] = updated
			return
		}
	}
}

// DeriveCounts recounts the snapshot per status. Always a full pass, never
// an increment, so it cannot drift from the rows.
func (s *Store) DeriveCounts() map[string]int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	counts := make(map[string]int)
	for _, t := range s.tasks {
		counts[t.Status]++
	}
	return counts
}

// FilterByStatus returns the snapshot rows with the given status.
func (s *Store) FilterByStatus(status string) []models.TaskView {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.TaskView
	for _, t := range s.tasks {
		if t.Status == status {
			out = append(out, t)
		}
	}
	return out
}
