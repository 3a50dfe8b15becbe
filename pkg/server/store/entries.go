package store

import (
	"context"
	"errors"

	"github.com/doodlesbykumbi/footprint/pkg/model"
)

var (
	// ErrEntryNotFound is returned when an entry doesn't exist or belongs to another user
	ErrEntryNotFound = errors.New("entry not found")

	// ErrReplicaUnavailable is returned when a write could not reach every
	// store that may hold the entry.
	ErrReplicaUnavailable = errors.New("remote store unavailable")
)

// EntriesStore abstracts daily emission entry storage
type EntriesStore interface {
	// Create stores a single entry. An empty ID is filled in.
	Create(ctx context.Context, entry *model.Entry) error

	// CreateBatch stores entries in one transaction.
	CreateBatch(ctx context.Context, entries []model.Entry) error

	// List returns a user's entries with from <= date <= to, ordered by date.
	// Empty bounds are open.
	List(ctx context.Context, userID, from, to string) ([]model.Entry, error)

	// ListAll returns every user's entries with date >= from.
	ListAll(ctx context.Context, from string) ([]model.Entry, error)

	// Get returns one of the user's entries.
	// Returns ErrEntryNotFound if it doesn't exist.
	Get(ctx context.Context, userID, id string) (*model.Entry, error)

	// Delete removes one of the user's entries.
	// Returns ErrEntryNotFound if it doesn't exist.
	Delete(ctx context.Context, userID, id string) error
}
