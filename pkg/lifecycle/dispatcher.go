package lifecycle

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/findworker/backend/internal/models"
	"github.com/findworker/backend/internal/status"
)

// StatusUpdater issues one transition request.
type StatusUpdater interface {
	UpdateStatus(ctx context.Context, taskID, workerID uuid.UUID, to string) (*models.Assignment, error)
}

// Dispatcher applies status transitions. Before any network call it checks
// the move against the transition table using the Store's snapshot, so an
// obviously stale button click fails locally. While a transition for a task
// is in flight, further transitions for the same task are suppressed.
//
// The Dispatcher never writes to the Store. The caller feeds the returned
// view into Store.ApplyLocalUpdate, keeping a single snapshot writer.
type Dispatcher struct {
	store   *Store
	updater StatusUpdater
	actor   status.Actor

	mu       sync.Mutex
	inFlight map[uuid.UUID]struct{}
}

// NewDispatcher returns a Dispatcher acting as the given role.
func NewDispatcher(store *Store, updater StatusUpdater, role Role) *Dispatcher {
	actor := status.ActorClient
	if role == RoleWorker {
		actor = status.ActorWorker
	}
	return &Dispatcher{
		store:    store,
		updater:  updater,
		actor:    actor,
		inFlight: make(map[uuid.UUID]struct{}),
	}
}

// ApplyTransition moves the (taskID, workerID) assignment to the target
// status and returns the updated view. Exactly one request is sent per
// accepted call; rejected calls (unknown task, illegal move, duplicate
// click) send nothing.
func (d *Dispatcher) ApplyTransition(ctx context.Context, taskID, workerID uuid.UUID, to string) (models.TaskView, error) {
	view, ok := d.store.Get(taskID, workerID)
	if !ok {
		return models.TaskView{}, newError(KindStateConflict, "task %s is not in the local snapshot", taskID)
	}
	if !status.Valid(to) {
		return models.TaskView{}, newError(KindValidation, "unknown status %q", to)
	}
	if err := status.Check(d.actor, view.Status, to); err != nil {
		return models.TaskView{}, &Error{Kind: KindStateConflict, Message: err.Error(), Err: err}
	}

	if !d.begin(taskID) {
		return models.TaskView{}, newError(KindInFlight, "transition for task %s already in flight", taskID)
	}
	defer d.end(taskID)

	a, err := d.updater.UpdateStatus(ctx, taskID, workerID, to)
	if err != nil {
		return models.TaskView{}, err
	}

	view.Status = a.Status
	view.UpdatedAt = a.UpdatedAt
	return view, nil
}

func (d *Dispatcher) begin(taskID uuid.UUID) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, busy := d.inFlight[taskID]; busy {
		return false
	}
	d.inFlight[taskID] = struct{}{}
	return true
}

func (d *Dispatcher) end(taskID uuid.UUID) {
	d.mu.Lock()
	delete(d.inFlight, taskID)
	d.mu.Unlock()
}
