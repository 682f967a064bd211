package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/findworker/backend/internal/models"
)

// ---------------------------------------------------------------------------
// Mocks
// ---------------------------------------------------------------------------

type mockWorkerList struct {
	workers []*models.User
}

func (m *mockWorkerList) ListActiveWorkers(_ context.Context) ([]*models.User, error) {
	return m.workers, nil
}

type mockBusyList struct {
	intervals map[uuid.UUID][]*models.BusyInterval
}

func (m *mockBusyList) ListByWorker(_ context.Context, workerID uuid.UUID) ([]*models.BusyInterval, error) {
	return m.intervals[workerID], nil
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func float64Ptr(f float64) *float64 { return &f }

func makeWorker(skills, city string, rating *float64) *models.User {
	return &models.User{
		ID:       uuid.New(),
		UserType: models.UserTypeWorker,
		Active:   true,
		Skills:   skills,
		City:     city,
		Rating:   rating,
	}
}

func matchFixture(workers ...*models.User) *Matcher {
	return NewMatcher(
		&mockWorkerList{workers: workers},
		&mockBusyList{intervals: make(map[uuid.UUID][]*models.BusyInterval)},
	)
}

// ---------------------------------------------------------------------------
// skillOverlap
// ---------------------------------------------------------------------------

func TestSkillOverlap(t *testing.T) {
	tests := []struct {
		name     string
		required string
		offered  string
		want     float64
	}{
		{"no requirements matches everyone", "", "plumbing", 1},
		{"full coverage", "plumbing, heating", "heating,plumbing,tiling", 1},
		{"half coverage", "plumbing, heating", "plumbing", 0.5},
		{"case insensitive", "Plumbing", "PLUMBING", 1},
		{"no coverage", "plumbing", "painting", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := skillOverlap(tt.required, tt.offered); got != tt.want {
				t.Errorf("skillOverlap(%q, %q) = %v, want %v", tt.required, tt.offered, got, tt.want)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// MatchWorkers
// ---------------------------------------------------------------------------

func TestMatchWorkers_FiltersByRatingFloor(t *testing.T) {
	low := makeWorker("plumbing", "", float64Ptr(2.0))
	high := makeWorker("plumbing", "", float64Ptr(4.5))
	unrated := makeWorker("plumbing", "", nil)
	m := matchFixture(low, high, unrated)

	task := &models.Task{RequiredSkills: "plumbing", MinRating: float64Ptr(4.0)}
	got, err := m.MatchWorkers(context.Background(), task, "")
	if err != nil {
		t.Fatalf("MatchWorkers: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d workers, want 2 (rated above floor + unrated)", len(got))
	}
	for _, w := range got {
		if w.ID == low.ID {
			t.Errorf("worker below rating floor was returned")
		}
	}
}

func TestMatchWorkers_ExcludesZeroSkillOverlap(t *testing.T) {
	painter := makeWorker("painting", "", float64Ptr(5.0))
	plumber := makeWorker("plumbing", "", float64Ptr(3.0))
	m := matchFixture(painter, plumber)

	task := &models.Task{RequiredSkills: "plumbing"}
	got, err := m.MatchWorkers(context.Background(), task, "")
	if err != nil {
		t.Fatalf("MatchWorkers: %v", err)
	}
	if len(got) != 1 || got[0].ID != plumber.ID {
		t.Fatalf("got %v, want only the plumber", got)
	}
}

func TestMatchWorkers_OrdersBestFirst(t *testing.T) {
	partial := makeWorker("plumbing", "", float64Ptr(5.0))
	full := makeWorker("plumbing, heating", "", float64Ptr(5.0))
	fullLowRated := makeWorker("plumbing, heating", "", float64Ptr(1.0))
	m := matchFixture(partial, fullLowRated, full)

	task := &models.Task{RequiredSkills: "plumbing, heating"}
	got, err := m.MatchWorkers(context.Background(), task, "")
	if err != nil {
		t.Fatalf("MatchWorkers: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("got %d workers, want 3", len(got))
	}
	want := []uuid.UUID{full.ID, partial.ID, fullLowRated.ID}
	for i, w := range got {
		if w.ID != want[i] {
			t.Errorf("position %d: got %v, want %v", i, w.ID, want[i])
		}
	}
}

func TestMatchWorkers_CityBoostBreaksTies(t *testing.T) {
	away := makeWorker("plumbing", "Visby", float64Ptr(4.0))
	local := makeWorker("plumbing", "Uppsala", float64Ptr(4.0))
	m := matchFixture(away, local)

	task := &models.Task{RequiredSkills: "plumbing"}
	got, err := m.MatchWorkers(context.Background(), task, "Uppsala")
	if err != nil {
		t.Fatalf("MatchWorkers: %v", err)
	}
	if len(got) != 2 || got[0].ID != local.ID {
		t.Fatalf("local worker should rank first, got %v", got)
	}
}

func TestMatchWorkers_ExcludesCalendarConflicts(t *testing.T) {
	free := makeWorker("plumbing", "", nil)
	busy := makeWorker("plumbing", "", nil)

	scheduled := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)
	busyList := &mockBusyList{intervals: map[uuid.UUID][]*models.BusyInterval{
		busy.ID: {{
			ID:        uuid.New(),
			WorkerID:  busy.ID,
			Date:      "2026-03-14",
			StartTime: "09:00",
			EndTime:   "11:00",
		}},
	}}
	m := NewMatcher(&mockWorkerList{workers: []*models.User{free, busy}}, busyList)

	task := &models.Task{RequiredSkills: "plumbing", ScheduledDate: scheduled}
	got, err := m.MatchWorkers(context.Background(), task, "")
	if err != nil {
		t.Fatalf("MatchWorkers: %v", err)
	}
	if len(got) != 1 || got[0].ID != free.ID {
		t.Fatalf("got %v, want only the free worker", got)
	}
}

func TestMatchWorkers_AdjacentIntervalIsNoConflict(t *testing.T) {
	w := makeWorker("plumbing", "", nil)
	scheduled := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)
	busyList := &mockBusyList{intervals: map[uuid.UUID][]*models.BusyInterval{
		w.ID: {{
			ID:        uuid.New(),
			WorkerID:  w.ID,
			Date:      "2026-03-14",
			StartTime: "08:00",
			EndTime:   "10:00",
		}},
	}}
	m := NewMatcher(&mockWorkerList{workers: []*models.User{w}}, busyList)

	task := &models.Task{RequiredSkills: "plumbing", ScheduledDate: scheduled}
	got, err := m.MatchWorkers(context.Background(), task, "")
	if err != nil {
		t.Fatalf("MatchWorkers: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("interval ending at the start time must not conflict, got %v", got)
	}
}
