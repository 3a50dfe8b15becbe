// Package fallback provides an EntriesStore that writes to a remote database
// first and falls back to the local one when the remote is unreachable.
package fallback

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/doodlesbykumbi/footprint/pkg/model"
	"github.com/doodlesbykumbi/footprint/pkg/server/store"
)

// Ensure EntriesStore implements store.EntriesStore
var _ store.EntriesStore = (*EntriesStore)(nil)

// EntriesStore replicates entries across a remote and a local store.
// Writes go to the remote store first; on failure they land in the local
// store. Reads merge both, de-duplicated by entry ID.
type EntriesStore struct {
	remote store.EntriesStore
	local  store.EntriesStore
	logger *zap.Logger
}

// New returns a fallback store. A nil remote makes it a pass-through to local.
func New(remote, local store.EntriesStore, logger *zap.Logger) *EntriesStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EntriesStore{remote: remote, local: local, logger: logger}
}

func (s *EntriesStore) Create(ctx context.Context, entry *model.Entry) error {
	if s.remote != nil {
		err := s.remote.Create(ctx, entry)
		if err == nil {
			return nil
		}
		s.logger.Warn("remote insert failed, saving locally", zap.String("entry", entry.ID), zap.Error(err))
	}
	return s.local.Create(ctx, entry)
}

func (s *EntriesStore) CreateBatch(ctx context.Context, entries []model.Entry) error {
	if s.remote != nil {
		err := s.remote.CreateBatch(ctx, entries)
		if err == nil {
			return nil
		}
		s.logger.Warn("remote batch insert failed, saving locally", zap.Int("entries", len(entries)), zap.Error(err))
	}
	return s.local.CreateBatch(ctx, entries)
}

func (s *EntriesStore) List(ctx context.Context, userID, from, to string) ([]model.Entry, error) {
	return s.merge(ctx, "list", func(st store.EntriesStore) ([]model.Entry, error) {
		return st.List(ctx, userID, from, to)
	})
}

func (s *EntriesStore) ListAll(ctx context.Context, from string) ([]model.Entry, error) {
	return s.merge(ctx, "list all", func(st store.EntriesStore) ([]model.Entry, error) {
		return st.ListAll(ctx, from)
	})
}

func (s *EntriesStore) Get(ctx context.Context, userID, id string) (*model.Entry, error) {
	if s.remote != nil {
		e, err := s.remote.Get(ctx, userID, id)
		if err == nil {
			return e, nil
		}
		if !errors.Is(err, store.ErrEntryNotFound) {
			s.logger.Warn("remote get failed", zap.String("entry", id), zap.Error(err))
		}
	}
	return s.local.Get(ctx, userID, id)
}

// Delete removes the entry from every store holding it. If the remote store
// cannot be reached the local copy is kept too, since reads would bring the
// remote row back.
func (s *EntriesStore) Delete(ctx context.Context, userID, id string) error {
	deleted := false
	if s.remote != nil {
		err := s.remote.Delete(ctx, userID, id)
		switch {
		case err == nil:
			deleted = true
		case !errors.Is(err, store.ErrEntryNotFound):
			s.logger.Warn("remote delete failed", zap.String("entry", id), zap.Error(err))
			return fmt.Errorf("%w: %v", store.ErrReplicaUnavailable, err)
		}
	}

	err := s.local.Delete(ctx, userID, id)
	if err == nil || (deleted && errors.Is(err, store.ErrEntryNotFound)) {
		return nil
	}
	return err
}

func (s *EntriesStore) merge(ctx context.Context, op string, read func(store.EntriesStore) ([]model.Entry, error)) ([]model.Entry, error) {
	local, err := read(s.local)
	if err != nil {
		return nil, err
	}
	if s.remote == nil {
		return local, nil
	}

	remote, err := read(s.remote)
	if err != nil {
		s.logger.Warn("remote read failed, using local entries only", zap.String("op", op), zap.Error(err))
		return local, nil
	}

	seen := make(map[string]bool, len(remote))
	merged := make([]model.Entry, 0, len(remote)+len(local))
	for _, e := range remote {
		seen[e.ID] = true
		merged = append(merged, e)
	}
	for _, e := range local {
		if !seen[e.ID] {
			merged = append(merged, e)
		}
	}
	sort.SliceStable(merged, func(i, j int) bool {
		if merged[i].Date != merged[j].Date {
			return merged[i].Date < merged[j].Date
		}
		return merged[i].CreatedAt.Before(merged[j].CreatedAt)
	})
	return merged, nil
}
