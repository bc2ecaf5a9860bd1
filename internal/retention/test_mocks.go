package retention

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/Marsh2546/nvr-monitoring-system/internal/data"
)

// mockHistoryStore covers only what the sweeper touches.
type mockHistoryStore struct {
	mock.Mock
}

func (m *mockHistoryStore) Insert(ctx context.Context, o *data.Observation) error {
	return m.Called(ctx, o).Error(0)
}

func (m *mockHistoryStore) InsertDefault(ctx context.Context, o *data.Observation) (int64, error) {
	args := m.Called(ctx, o)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockHistoryStore) MaxID(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockHistoryStore) ResyncSequence(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *mockHistoryStore) FindDuplicateIDs(ctx context.Context) ([]data.DuplicateGroup, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]data.DuplicateGroup), args.Error(1)
}

func (m *mockHistoryStore) DeleteDuplicates(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockHistoryStore) ListHistory(ctx context.Context, f data.HistoryFilter, limit int) ([]*data.Observation, error) {
	args := m.Called(ctx, f, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*data.Observation), args.Error(1)
}

func (m *mockHistoryStore) DeleteObservationsBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	args := m.Called(ctx, cutoff)
	return args.Get(0).(int64), args.Error(1)
}

type mockSnapshotStore struct {
	mock.Mock
}

func (m *mockSnapshotStore) InsertLogBatch(ctx context.Context, entries []*data.SnapshotLogEntry) (int64, error) {
	args := m.Called(ctx, entries)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockSnapshotStore) ListLogs(ctx context.Context, cameraName string, limit int) ([]*data.SnapshotLogEntry, error) {
	args := m.Called(ctx, cameraName, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*data.SnapshotLogEntry), args.Error(1)
}

func (m *mockSnapshotStore) ListEligibleCameras(ctx context.Context, cameraNames []string) ([]data.SnapshotCamera, error) {
	args := m.Called(ctx, cameraNames)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]data.SnapshotCamera), args.Error(1)
}

func (m *mockSnapshotStore) DeleteLogsBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	args := m.Called(ctx, cutoff)
	return args.Get(0).(int64), args.Error(1)
}
