package store

import (
	"context"
	"errors"
)

// ErrAliasNotFound is returned when a user has no saved alias
var ErrAliasNotFound = errors.New("alias not found")

// AliasesStore abstracts leaderboard alias storage
type AliasesStore interface {
	// GetAlias returns the user's alias or ErrAliasNotFound.
	GetAlias(ctx context.Context, userID string) (string, error)

	// SetAlias inserts or replaces the user's alias.
	SetAlias(ctx context.Context, userID, alias string) error

	// AllAliases returns saved aliases keyed by user ID.
	AllAliases(ctx context.Context) (map[string]string, error)
}
