package fallback

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/doodlesbykumbi/footprint/pkg/model"
	"github.com/doodlesbykumbi/footprint/pkg/server/store"
)

type MockEntriesStore struct {
	mock.Mock
}

func (m *MockEntriesStore) Create(ctx context.Context, entry *model.Entry) error {
	return m.Called(ctx, entry).Error(0)
}

func (m *MockEntriesStore) CreateBatch(ctx context.Context, entries []model.Entry) error {
	return m.Called(ctx, entries).Error(0)
}

func (m *MockEntriesStore) List(ctx context.Context, userID, from, to string) ([]model.Entry, error) {
	args := m.Called(ctx, userID, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Entry), args.Error(1)
}

func (m *MockEntriesStore) ListAll(ctx context.Context, from string) ([]model.Entry, error) {
	args := m.Called(ctx, from)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Entry), args.Error(1)
}

func (m *MockEntriesStore) Get(ctx context.Context, userID, id string) (*model.Entry, error) {
	args := m.Called(ctx, userID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Entry), args.Error(1)
}

func (m *MockEntriesStore) Delete(ctx context.Context, userID, id string) error {
	return m.Called(ctx, userID, id).Error(0)
}

func TestCreate_RemoteFirst(t *testing.T) {
	remote, local := new(MockEntriesStore), new(MockEntriesStore)
	s := New(remote, local, nil)
	e := &model.Entry{ID: "e1"}

	remote.On("Create", mock.Anything, e).Return(nil)

	require.NoError(t, s.Create(context.Background(), e))
	remote.AssertExpectations(t)
	local.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreate_FallsBackToLocal(t *testing.T) {
	remote, local := new(MockEntriesStore), new(MockEntriesStore)
	core, logs := observer.New(zap.WarnLevel)
	s := New(remote, local, zap.New(core))
	e := &model.Entry{ID: "e1"}

	remote.On("Create", mock.Anything, e).Return(errors.New("dial tcp: connection refused"))
	local.On("Create", mock.Anything, e).Return(nil)

	require.NoError(t, s.Create(context.Background(), e))
	remote.AssertExpectations(t)
	local.AssertExpectations(t)
	assert.Equal(t, 1, logs.FilterMessage("remote insert failed, saving locally").Len())
}

func TestCreate_NoRemote(t *testing.T) {
	local := new(MockEntriesStore)
	s := New(nil, local, nil)
	batch := []model.Entry{{ID: "a"}, {ID: "b"}}

	local.On("CreateBatch", mock.Anything, batch).Return(nil)

	require.NoError(t, s.CreateBatch(context.Background(), batch))
	local.AssertExpectations(t)
}

func TestList_MergesAndDeduplicates(t *testing.T) {
	remote, local := new(MockEntriesStore), new(MockEntriesStore)
	s := New(remote, local, nil)

	remote.On("List", mock.Anything, "alice", "", "").Return([]model.Entry{
		{ID: "r1", Date: "2024-03-02"},
		{ID: "shared", Date: "2024-03-04"},
	}, nil)
	local.On("List", mock.Anything, "alice", "", "").Return([]model.Entry{
		{ID: "l1", Date: "2024-03-01"},
		{ID: "shared", Date: "2024-03-04"},
	}, nil)

	got, err := s.List(context.Background(), "alice", "", "")
	require.NoError(t, err)

	ids := make([]string, 0, len(got))
	for _, e := range got {
		ids = append(ids, e.ID)
	}
	assert.Equal(t, []string{"l1", "r1", "shared"}, ids)
}

func TestListAll_RemoteDown(t *testing.T) {
	remote, local := new(MockEntriesStore), new(MockEntriesStore)
	core, logs := observer.New(zap.WarnLevel)
	s := New(remote, local, zap.New(core))

	remote.On("ListAll", mock.Anything, "2024-03-01").Return(nil, errors.New("timeout"))
	local.On("ListAll", mock.Anything, "2024-03-01").Return([]model.Entry{{ID: "l1"}}, nil)

	got, err := s.ListAll(context.Background(), "2024-03-01")
	require.NoError(t, err)
	assert.Len(t, got, 1)
	assert.Equal(t, 1, logs.Len())
}

func TestList_LocalErrorIsReturned(t *testing.T) {
	remote, local := new(MockEntriesStore), new(MockEntriesStore)
	s := New(remote, local, nil)

	local.On("List", mock.Anything, "alice", "", "").Return(nil, errors.New("disk I/O error"))

	_, err := s.List(context.Background(), "alice", "", "")
	assert.EqualError(t, err, "disk I/O error")
}

func TestGet_FallsThroughToLocal(t *testing.T) {
	remote, local := new(MockEntriesStore), new(MockEntriesStore)
	s := New(remote, local, nil)

	remote.On("Get", mock.Anything, "alice", "e1").Return(nil, store.ErrEntryNotFound)
	local.On("Get", mock.Anything, "alice", "e1").Return(&model.Entry{ID: "e1"}, nil)

	e, err := s.Get(context.Background(), "alice", "e1")
	require.NoError(t, err)
	assert.Equal(t, "e1", e.ID)
}

func TestDelete(t *testing.T) {
	tests := []struct {
		name      string
		remoteErr error
		localErr  error
		wantErr   error
	}{
		{"only remote", nil, store.ErrEntryNotFound, nil},
		{"only local", store.ErrEntryNotFound, nil, nil},
		{"neither", store.ErrEntryNotFound, store.ErrEntryNotFound, store.ErrEntryNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			remote, local := new(MockEntriesStore), new(MockEntriesStore)
			s := New(remote, local, nil)
			remote.On("Delete", mock.Anything, "alice", "e1").Return(tt.remoteErr)
			local.On("Delete", mock.Anything, "alice", "e1").Return(tt.localErr)

			err := s.Delete(context.Background(), "alice", "e1")
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestDelete_RemoteDownKeepsEntry(t *testing.T) {
	remote, local := new(MockEntriesStore), new(MockEntriesStore)
	core, logs := observer.New(zap.WarnLevel)
	s := New(remote, local, zap.New(core))
	e1 := model.Entry{ID: "e1", UserID: "u1", Date: "2024-05-01"}

	remote.On("Delete", mock.Anything, "u1", "e1").Return(errors.New("dial tcp: connection refused"))
	remote.On("List", mock.Anything, "u1", "", "").Return([]model.Entry{e1}, nil)
	local.On("List", mock.Anything, "u1", "", "").Return([]model.Entry{e1}, nil)

	err := s.Delete(context.Background(), "u1", "e1")
	assert.ErrorIs(t, err, store.ErrReplicaUnavailable)
	assert.Contains(t, err.Error(), "connection refused")
	local.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything, mock.Anything)
	assert.Equal(t, 1, logs.FilterMessage("remote delete failed").Len())

	// both copies survive, so the entry is still consistently listed
	got, err := s.List(context.Background(), "u1", "", "")
	require.NoError(t, err)
	assert.Equal(t, []model.Entry{e1}, got)
}
