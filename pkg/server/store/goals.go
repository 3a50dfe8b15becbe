package store

import (
	"context"
	"errors"

	"github.com/doodlesbykumbi/footprint/pkg/model"
)

// ErrGoalNotFound is returned when a user has not saved a goal
var ErrGoalNotFound = errors.New("goal not found")

// GoalsStore abstracts weekly goal storage
type GoalsStore interface {
	// GetGoal returns the user's goal or ErrGoalNotFound.
	GetGoal(ctx context.Context, userID string) (*model.Goal, error)

	// SetGoal inserts or replaces the user's goal.
	SetGoal(ctx context.Context, userID string, weeklyTarget float64) error
}
