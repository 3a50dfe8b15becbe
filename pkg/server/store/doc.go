// Package store provides storage abstractions for the footprint server.
//
// This package defines interfaces for database operations, allowing the
// server endpoints to be decoupled from the specific database implementation.
// GORM implementations live in the gorm subpackage; the fallback subpackage
// wraps a remote and a local EntriesStore.
//
// # Available Stores
//
//   - EntriesStore: daily emission entries
//   - GoalsStore: weekly targets
//   - AliasesStore: leaderboard aliases
//   - UsersStore: registered users and API keys
//   - HealthStore: connectivity checks
//
// # Usage
//
//	entries := gorm.NewEntriesStore(db)
//	e, err := entries.Get(ctx, userID, id)
//	if err != nil {
//	    if errors.Is(err, store.ErrEntryNotFound) {
//	        // Handle not found
//	    }
//	}
package store
