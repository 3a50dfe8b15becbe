package store

import (
	"context"
	"errors"

	"github.com/doodlesbykumbi/footprint/pkg/model"
)

var (
	// ErrUserNotFound is returned when no user has the given email
	ErrUserNotFound = errors.New("user not found")

	// ErrUserExists is returned when registering an email twice
	ErrUserExists = errors.New("user already exists")
)

// UsersStore abstracts registered user storage
type UsersStore interface {
	// CreateUser registers an email and returns the user with its plaintext API key.
	CreateUser(ctx context.Context, email string) (*model.User, string, error)

	// FindUserByEmail returns the user or ErrUserNotFound.
	FindUserByEmail(ctx context.Context, email string) (*model.User, error)

	// DeleteUser removes the user and all of their data.
	DeleteUser(ctx context.Context, email string) error

	// ListUsers returns all users ordered by email.
	ListUsers(ctx context.Context) ([]model.User, error)
}
