package model

import (
	"fmt"
	"seva/shared/failure"
	"slices"
)

type Status string

const (
	StatusPending    Status = "pending"
	StatusAssigned   Status = "assigned"
	StatusInProgress Status = "in-progress"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
	StatusRefunded   Status = "refunded"
)

// predecessors lists, per target status, the only statuses a booking may leave to reach it.
var predecessors = map[Status][]Status{
	StatusAssigned:   {StatusPending},
	StatusInProgress: {StatusAssigned},
	StatusCompleted:  {StatusInProgress},
	StatusCancelled:  {StatusPending, StatusAssigned},
	StatusRefunded:   {StatusCompleted},
}

func Statuses() []Status {
	return []Status{StatusPending, StatusAssigned, StatusInProgress, StatusCompleted, StatusCancelled, StatusRefunded}
}

func (s Status) Valid() bool {
	return slices.Contains(Statuses(), s)
}

// Predecessors returns the statuses from which s can be entered.
func (s Status) Predecessors() []Status {
	return slices.Clone(predecessors[s])
}

func (s Status) CanTransitionTo(next Status) bool {
	return slices.Contains(predecessors[next], s)
}

// Transition checks a move once at the boundary and returns a conflict failure when it is not legal.
func Transition(from, to Status) error {
	if from.CanTransitionTo(to) {
		return nil
	}

	return failure.Conflict(fmt.Sprintf("booking cannot move from %s to %s", from, to))
}
