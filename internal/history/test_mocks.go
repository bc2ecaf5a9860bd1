package history

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/Marsh2546/nvr-monitoring-system/internal/data"
)

// MockHistoryRepo
type MockHistoryRepo struct {
	mock.Mock
}

func (m *MockHistoryRepo) Insert(ctx context.Context, o *data.Observation) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockHistoryRepo) InsertDefault(ctx context.Context, o *data.Observation) (int64, error) {
	args := m.Called(ctx, o)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockHistoryRepo) MaxID(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockHistoryRepo) ResyncSequence(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockHistoryRepo) FindDuplicateIDs(ctx context.Context) ([]data.DuplicateGroup, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]data.DuplicateGroup), args.Error(1)
}

func (m *MockHistoryRepo) DeleteDuplicates(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockHistoryRepo) ListHistory(ctx context.Context, f data.HistoryFilter, limit int) ([]*data.Observation, error) {
	args := m.Called(ctx, f, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*data.Observation), args.Error(1)
}

func (m *MockHistoryRepo) DeleteObservationsBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	args := m.Called(ctx, cutoff)
	return args.Get(0).(int64), args.Error(1)
}
