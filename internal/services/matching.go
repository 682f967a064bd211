package services

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/findworker/backend/internal/models"
)

// matchWindow is how long a task is assumed to occupy the worker's calendar
// when checking for conflicts with busy intervals.
const matchWindow = 2 * time.Hour

// MatcherUserRepo is the user repository subset required for matching.
type MatcherUserRepo interface {
	ListActiveWorkers(ctx context.Context) ([]*models.User, error)
}

// MatcherBusyRepo resolves a worker's calendar for conflict checks.
type MatcherBusyRepo interface {
	ListByWorker(ctx context.Context, workerID uuid.UUID) ([]*models.BusyInterval, error)
}

// Matcher finds candidate workers for a task based on skills, rating floor,
// and calendar availability.
type Matcher struct {
	Users MatcherUserRepo
	Busy  MatcherBusyRepo
}

// NewMatcher returns a new Matcher.
func NewMatcher(users MatcherUserRepo, busy MatcherBusyRepo) *Matcher {
	return &Matcher{Users: users, Busy: busy}
}

// workerCandidate holds a worker and its scoring inputs for the task.
type workerCandidate struct {
	worker       *models.User
	skillOverlap float64 // 0–1, share of required skills the worker covers
	rating       float64 // 0–5 (0 when unrated)
	sameCity     bool
	score        float64
}

// splitSkills tokenizes a free-text skill list on commas and whitespace.
func splitSkills(s string) []string {
	fields := strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return r == ',' || r == ';' || r == ' ' || r == '\t' || r == '\n'
	})
	out := fields[:0]
	for _, f := range fields {
		if f != "" {
			out = append(out, f)
		}
	}
	return out
}

// skillOverlap returns the fraction of required skills present in offered.
// A task with no required skills matches everyone.
func skillOverlap(required, offered string) float64 {
	req := splitSkills(required)
	if len(req) == 0 {
		return 1
	}
	have := make(map[string]bool)
	for _, s := range splitSkills(offered) {
		have[s] = true
	}
	matched := 0
	for _, s := range req {
		if have[s] {
			matched++
		}
	}
	return float64(matched) / float64(len(req))
}

// buildCandidates filters workers by rating floor and skill coverage.
// Unrated workers pass the floor so new workers stay reachable.
func buildCandidates(workers []*models.User, task *models.Task) []workerCandidate {
	var candidates []workerCandidate
	for _, w := range workers {
		if task.MinRating != nil && w.Rating != nil && *w.Rating < *task.MinRating {
			continue
		}
		overlap := skillOverlap(task.RequiredSkills, w.Skills)
		if overlap == 0 {
			continue
		}
		rating := 0.0
		if w.Rating != nil {
			rating = *w.Rating
		}
		candidates = append(candidates, workerCandidate{
			worker:       w,
			skillOverlap: overlap,
			rating:       rating,
		})
	}
	return candidates
}

// scoreAndSort orders candidates best first: skill coverage, then rating,
// with a small boost for workers in the task city.
func scoreAndSort(candidates []workerCandidate, taskCity string) {
	city := strings.ToLower(strings.TrimSpace(taskCity))
	for i := range candidates {
		c := &candidates[i]
		c.sameCity = city != "" && strings.ToLower(strings.TrimSpace(c.worker.City)) == city
		c.score = c.skillOverlap*0.5 + (c.rating/5.0)*0.4
		if c.sameCity {
			c.score += 0.1
		}
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].score > candidates[j].score
	})
}

// hasConflict reports whether any busy interval overlaps the task's
// scheduled window.
func hasConflict(intervals []*models.BusyInterval, scheduled time.Time) bool {
	end := scheduled.Add(matchWindow)
	for _, b := range intervals {
		if b.Overlaps(scheduled, end) {
			return true
		}
	}
	return false
}

// MatchWorkers returns workers able to take the task, best match first.
// taskCity is the posting client's city, used for locality scoring.
func (m *Matcher) MatchWorkers(ctx context.Context, task *models.Task, taskCity string) ([]*models.User, error) {
	workers, err := m.Users.ListActiveWorkers(ctx)
	if err != nil {
		return nil, err
	}
	candidates := buildCandidates(workers, task)
	scoreAndSort(candidates, taskCity)

	out := make([]*models.User, 0, len(candidates))
	for _, c := range candidates {
		intervals, err := m.Busy.ListByWorker(ctx, c.worker.ID)
		if err != nil {
			return nil, err
		}
		if hasConflict(intervals, task.ScheduledDate) {
			continue
		}
		out = append(out, c.worker)
	}
	return out, nil
}
