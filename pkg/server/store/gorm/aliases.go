package gorm

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/doodlesbykumbi/footprint/pkg/model"
	"github.com/doodlesbykumbi/footprint/pkg/server/store"
)

// Ensure AliasesStore implements store.AliasesStore
var _ store.AliasesStore = (*AliasesStore)(nil)

// AliasesStore implements store.AliasesStore using GORM
type AliasesStore struct {
	db *gorm.DB
}

// NewAliasesStore creates a new AliasesStore
func NewAliasesStore(db *gorm.DB) *AliasesStore {
	return &AliasesStore{db: db}
}

// GetAlias returns the user's alias.
func (s *AliasesStore) GetAlias(ctx context.Context, userID string) (string, error) {
	var alias model.Alias
	tx := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&alias)
	if tx.Error != nil {
		if errors.Is(tx.Error, gorm.ErrRecordNotFound) {
			return "", store.ErrAliasNotFound
		}
		return "", tx.Error
	}
	return alias.Alias, nil
}

// SetAlias inserts or replaces the user's alias.
func (s *AliasesStore) SetAlias(ctx context.Context, userID, alias string) error {
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"alias"}),
	}).Create(&model.Alias{UserID: userID, Alias: alias}).Error
}

// AllAliases returns saved aliases keyed by user ID.
func (s *AliasesStore) AllAliases(ctx context.Context) (map[string]string, error) {
	var aliases []model.Alias
	if err := s.db.WithContext(ctx).Find(&aliases).Error; err != nil {
		return nil, err
	}
	out := make(map[string]string, len(aliases))
	for _, a := range aliases {
		out[a.UserID] = a.Alias
	}
	return out, nil
}
