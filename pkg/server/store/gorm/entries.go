package gorm

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/doodlesbykumbi/footprint/pkg/model"
	"github.com/doodlesbykumbi/footprint/pkg/server/store"
)

// Ensure EntriesStore implements store.EntriesStore
var _ store.EntriesStore = (*EntriesStore)(nil)

// EntriesStore implements store.EntriesStore using GORM
type EntriesStore struct {
	db *gorm.DB
}

// NewEntriesStore creates a new EntriesStore
func NewEntriesStore(db *gorm.DB) *EntriesStore {
	return &EntriesStore{db: db}
}

// Create stores a single entry.
func (s *EntriesStore) Create(ctx context.Context, entry *model.Entry) error {
	return s.db.WithContext(ctx).Create(entry).Error
}

// CreateBatch stores entries in one transaction.
func (s *EntriesStore) CreateBatch(ctx context.Context, entries []model.Entry) error {
	if len(entries) == 0 {
		return nil
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i := range entries {
			if err := tx.Create(&entries[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// List returns a user's entries within [from, to], ordered by date.
func (s *EntriesStore) List(ctx context.Context, userID, from, to string) ([]model.Entry, error) {
	q := s.db.WithContext(ctx).Where("user_id = ?", userID)
	if from != "" {
		q = q.Where("date >= ?", from)
	}
	if to != "" {
		q = q.Where("date <= ?", to)
	}

	var entries []model.Entry
	if err := q.Order("date asc, created_at asc").Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

// ListAll returns every user's entries with date >= from.
func (s *EntriesStore) ListAll(ctx context.Context, from string) ([]model.Entry, error) {
	q := s.db.WithContext(ctx)
	if from != "" {
		q = q.Where("date >= ?", from)
	}

	var entries []model.Entry
	if err := q.Order("date asc, created_at asc").Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

// Get returns one of the user's entries.
func (s *EntriesStore) Get(ctx context.Context, userID, id string) (*model.Entry, error) {
	var entry model.Entry
	tx := s.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).First(&entry)
	if tx.Error != nil {
		if errors.Is(tx.Error, gorm.ErrRecordNotFound) {
			return nil, store.ErrEntryNotFound
		}
		return nil, tx.Error
	}
	return &entry, nil
}

// Delete removes one of the user's entries.
func (s *EntriesStore) Delete(ctx context.Context, userID, id string) error {
	tx := s.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).Delete(&model.Entry{})
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return store.ErrEntryNotFound
	}
	return nil
}

// DeleteUserEntries removes every entry of a user and returns how many were deleted.
func (s *EntriesStore) DeleteUserEntries(ctx context.Context, userID string) (int64, error) {
	tx := s.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&model.Entry{})
	return tx.RowsAffected, tx.Error
}
