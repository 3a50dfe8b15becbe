package gorm

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/doodlesbykumbi/footprint/pkg/model"
	"github.com/doodlesbykumbi/footprint/pkg/server/store"
)

// Ensure GoalsStore implements store.GoalsStore
var _ store.GoalsStore = (*GoalsStore)(nil)

// GoalsStore implements store.GoalsStore using GORM
type GoalsStore struct {
	db *gorm.DB
}

// NewGoalsStore creates a new GoalsStore
func NewGoalsStore(db *gorm.DB) *GoalsStore {
	return &GoalsStore{db: db}
}

// GetGoal returns the user's goal.
func (s *GoalsStore) GetGoal(ctx context.Context, userID string) (*model.Goal, error) {
	var goal model.Goal
	tx := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&goal)
	if tx.Error != nil {
		if errors.Is(tx.Error, gorm.ErrRecordNotFound) {
			return nil, store.ErrGoalNotFound
		}
		return nil, tx.Error
	}
	return &goal, nil
}

// SetGoal inserts or replaces the user's goal.
func (s *GoalsStore) SetGoal(ctx context.Context, userID string, weeklyTarget float64) error {
	goal := model.Goal{
		UserID:       userID,
		WeeklyTarget: weeklyTarget,
		UpdatedAt:    time.Now().UTC(),
	}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"weekly_target", "updated_at"}),
	}).Create(&goal).Error
}
