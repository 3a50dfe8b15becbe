package gorm

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/doodlesbykumbi/footprint/pkg/model"
	"github.com/doodlesbykumbi/footprint/pkg/server/store"
)

// Ensure UsersStore implements store.UsersStore
var _ store.UsersStore = (*UsersStore)(nil)

// UsersStore implements store.UsersStore using GORM
type UsersStore struct {
	db *gorm.DB
}

// NewUsersStore creates a new UsersStore
func NewUsersStore(db *gorm.DB) *UsersStore {
	return &UsersStore{db: db}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// CreateUser registers an email and returns the user with its plaintext API key.
func (s *UsersStore) CreateUser(ctx context.Context, email string) (*model.User, string, error) {
	email = normalizeEmail(email)
	if _, err := s.FindUserByEmail(ctx, email); err == nil {
		return nil, "", store.ErrUserExists
	} else if !errors.Is(err, store.ErrUserNotFound) {
		return nil, "", err
	}

	apiKey, err := model.GenerateAPIKey()
	if err != nil {
		return nil, "", err
	}
	hash, err := model.HashAPIKey(apiKey)
	if err != nil {
		return nil, "", err
	}

	user := model.User{
		ID:         uuid.NewString(),
		Email:      email,
		APIKeyHash: hash,
		CreatedAt:  time.Now().UTC(),
	}
	if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
		// lost a race with a concurrent registration
		if isUniqueViolation(err) {
			return nil, "", store.ErrUserExists
		}
		return nil, "", err
	}
	return &user, apiKey, nil
}

// FindUserByEmail returns the user with the given email.
func (s *UsersStore) FindUserByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	tx := s.db.WithContext(ctx).Where("email = ?", normalizeEmail(email)).First(&user)
	if tx.Error != nil {
		if errors.Is(tx.Error, gorm.ErrRecordNotFound) {
			return nil, store.ErrUserNotFound
		}
		return nil, tx.Error
	}
	return &user, nil
}

// DeleteUser removes the user and all of their data.
func (s *UsersStore) DeleteUser(ctx context.Context, email string) error {
	user, err := s.FindUserByEmail(ctx, email)
	if err != nil {
		return err
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", user.ID).Delete(&model.Entry{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", user.ID).Delete(&model.Goal{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", user.ID).Delete(&model.Alias{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", user.ID).Delete(&model.User{}).Error
	})
}

// ListUsers returns all users ordered by email.
func (s *UsersStore) ListUsers(ctx context.Context) ([]model.User, error) {
	var users []model.User
	if err := s.db.WithContext(ctx).Order("email asc").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}
