// Package status defines the assignment state set and the legal transition
// table shared by the API handlers and the lifecycle client. Illegal
// transitions are rejected here before any database write or network call.
package status

import (
	"errors"
	"fmt"

	"github.com/findworker/backend/internal/models"
)

// Actor identifies which side of the assignment requests a transition.
type Actor string

const (
	ActorClient Actor = "client"
	ActorWorker Actor = "worker"
)

// ErrStateConflict is returned when the requested target state is not
// reachable from the assignment's current state, or the actor is not allowed
// to make the move. Surfaced to users as "please refresh, task status changed".
var ErrStateConflict = errors.New("task status changed, please refresh")

// transitions maps actor -> source state -> allowed target states.
var transitions = map[Actor]map[string][]string{
	ActorWorker: {
		models.StatusAssigned: {models.StatusAccepted, models.StatusRejected},
	},
	ActorClient: {
		models.StatusAccepted:  {models.StatusConfirmed, models.StatusCancelled},
		models.StatusConfirmed: {models.StatusCompleted, models.StatusIncompleted},
	},
}

// IsTerminal reports whether no further transition is defined from s.
func IsTerminal(s string) bool {
	switch s {
	case models.StatusRejected, models.StatusCancelled, models.StatusCompleted, models.StatusIncompleted:
		return true
	}
	return false
}

// Valid reports whether s is a known assignment status.
func Valid(s string) bool {
	switch s {
	case models.StatusAssigned, models.StatusAccepted, models.StatusRejected,
		models.StatusConfirmed, models.StatusCancelled, models.StatusCompleted, models.StatusIncompleted:
		return true
	}
	return false
}

// AllowedTargets returns the target states the actor may move to from the
// given source state. The returned slice must not be mutated.
func AllowedTargets(actor Actor, from string) []string {
	return transitions[actor][from]
}

// Check validates a requested transition. It returns ErrStateConflict
// (wrapped with detail) when the move is not in the transition table.
func Check(actor Actor, from, to string) error {
	for _, allowed := range transitions[actor][from] {
		if allowed == to {
			return nil
		}
	}
	return fmt.Errorf("%w: %s cannot move %s -> %s", ErrStateConflict, actor, from, to)
}
