package lifecycle

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/findworker/backend/internal/models"
)

// ---------------------------------------------------------------------------
// Mocks
// ---------------------------------------------------------------------------

type staticLister struct {
	views []models.TaskView
	err   error
}

func (l *staticLister) ListTasks(context.Context) ([]models.TaskView, error) {
	return l.views, l.err
}

func view(status string) models.TaskView {
	return models.TaskView{TaskID: uuid.New(), WorkerID: uuid.New(), Status: status}
}

// ---------------------------------------------------------------------------
// Tests
// ---------------------------------------------------------------------------

func TestLoadAll_ReplacesSnapshot(t *testing.T) {
	lister := &staticLister{views: []models.TaskView{view(models.StatusAssigned)}}
	s := NewStore(lister)

	if err := s.LoadAll(context.Background()); err != nil {
		t.Fatalf("LoadAll: %v", err)
	}
	if len(s.Tasks()) != 1 {
		t.Fatalf("snapshot = %d rows, want 1", len(s.Tasks()))
	}

	lister.views = []models.TaskView{view(models.StatusAccepted), view(models.StatusCompleted)}
	if err := s.LoadAll(context.Background()); err != nil {
		t.Fatalf("LoadAll: %v", err)
	}
	got := s.Tasks()
	if len(got) != 2 {
		t.Fatalf("snapshot = %d rows after reload, want full replacement with 2", len(got))
	}
	for _, v := range got {
		if v.Status == models.StatusAssigned {
			t.Errorf("stale row survived the reload: %+v", v)
		}
	}
}

func TestLoadAll_KeepsSnapshotOnError(t *testing.T) {
	lister := &staticLister{views: []models.TaskView{view(models.StatusAssigned)}}
	s := NewStore(lister)
	if err := s.LoadAll(context.Background()); err != nil {
		t.Fatalf("LoadAll: %v", err)
	}

	lister.err = errors.New("boom")
	if err := s.LoadAll(context.Background()); err == nil {
		t.Fatal("LoadAll should propagate the error")
	}
	if len(s.Tasks()) != 1 {
		t.Errorf("snapshot dropped on failed reload")
	}
}

func TestApplyLocalUpdate_ReplacesMatchingRow(t *testing.T) {
	v := view(models.StatusAccepted)
	s := NewStore(&staticLister{views: []models.TaskView{v, view(models.StatusAssigned)}})
	if err := s.LoadAll(context.Background()); err != nil {
		t.Fatalf("LoadAll: %v", err)
	}

	v.Status = models.StatusConfirmed
	s.ApplyLocalUpdate(v)

	got, ok := s.Get(v.TaskID, v.WorkerID)
	if !ok || got.Status != models.StatusConfirmed {
		t.Fatalf("row = %+v ok=%v, want CONFIRMED", got, ok)
	}
}

func TestApplyLocalUpdate_AbsentRowIsNoOp(t *testing.T) {
	s := NewStore(&staticLister{views: []models.TaskView{view(models.StatusAccepted)}})
	if err := s.LoadAll(context.Background()); err != nil {
		t.Fatalf("LoadAll: %v", err)
	}
	before := s.Tasks()

	s.ApplyLocalUpdate(view(models.StatusCompleted))

	after := s.Tasks()
	if len(after) != len(before) {
		t.Fatalf("snapshot grew from %d to %d rows", len(before), len(after))
	}
	if after[0] != before[0] {
		t.Errorf("existing row changed: %+v -> %+v", before[0], after[0])
	}
}

func TestDeriveCounts_SumsToSnapshotSize(t *testing.T) {
	views := []models.TaskView{
		view(models.StatusAssigned),
		view(models.StatusAssigned),
		view(models.StatusAccepted),
		view(models.StatusConfirmed),
		view(models.StatusCompleted),
		view(models.StatusRejected),
	}
	s := NewStore(&staticLister{views: views})
	if err := s.LoadAll(context.Background()); err != nil {
		t.Fatalf("LoadAll: %v", err)
	}

	counts := s.DeriveCounts()
	total := 0
	for _, n := range counts {
		total += n
	}
	if total != len(views) {
		t.Fatalf("counts sum to %d, want %d", total, len(views))
	}
	if counts[models.StatusAssigned] != 2 {
		t.Errorf("ASSIGNED count = %d, want 2", counts[models.StatusAssigned])
	}
}

func TestDeriveCounts_RecountsAfterUpdate(t *testing.T) {
	v := view(models.StatusAccepted)
	s := NewStore(&staticLister{views: []models.TaskView{v}})
	if err := s.LoadAll(context.Background()); err != nil {
		t.Fatalf("LoadAll: %v", err)
	}

	v.Status = models.StatusConfirmed
	s.ApplyLocalUpdate(v)

	counts := s.DeriveCounts()
	if counts[models.StatusAccepted] != 0 || counts[models.StatusConfirmed] != 1 {
		t.Errorf("counts = %v, want the row counted once under CONFIRMED", counts)
	}
}

func TestFilterByStatus(t *testing.T) {
	s := NewStore(&staticLister{views: []models.TaskView{
		view(models.StatusCompleted),
		view(models.StatusAccepted),
		view(models.StatusCompleted),
	}})
	if err := s.LoadAll(context.Background()); err != nil {
		t.Fatalf("LoadAll: %v", err)
	}

	if got := s.FilterByStatus(models.StatusCompleted); len(got) != 2 {
		t.Errorf("filter COMPLETED = %d rows, want 2", len(got))
	}
	if got := s.FilterByStatus(models.StatusCancelled); got != nil {
		t.Errorf("filter CANCELLED = %v, want none", got)
	}
}
