package retention

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Marsh2546/nvr-monitoring-system/internal/history"
)

func TestSweeper_DeletesBothTablesPastHorizon(t *testing.T) {
	now := time.Date(2026, 8, 29, 7, 0, 0, 0, time.UTC)
	horizon := 365 * 24 * time.Hour
	wantCutoff := now.Add(-horizon)

	hist := new(mockHistoryStore)
	snaps := new(mockSnapshotStore)
	hist.On("DeleteObservationsBefore", mock.Anything, wantCutoff).Return(int64(400), nil)
	snaps.On("DeleteLogsBefore", mock.Anything, wantCutoff).Return(int64(25), nil)

	s := NewSweeper(hist, snaps, horizon)
	s.now = func() time.Time { return now }

	deleted, err := s.Sweep(context.Background())
	require.NoError(t, err)
	require.Equal(t, int64(425), deleted)

	hist.AssertExpectations(t)
	snaps.AssertExpectations(t)
}

func TestSweeper_IdempotentSecondRun(t *testing.T) {
	now := time.Date(2026, 8, 29, 7, 0, 0, 0, time.UTC)
	hist := new(mockHistoryStore)
	snaps := new(mockSnapshotStore)
	hist.On("DeleteObservationsBefore", mock.Anything, mock.Anything).Return(int64(400), nil).Once()
	snaps.On("DeleteLogsBefore", mock.Anything, mock.Anything).Return(int64(0), nil).Once()
	// Second run: nothing newly expired.
	hist.On("DeleteObservationsBefore", mock.Anything, mock.Anything).Return(int64(0), nil).Once()
	snaps.On("DeleteLogsBefore", mock.Anything, mock.Anything).Return(int64(0), nil).Once()

	s := NewSweeper(hist, snaps, DefaultHorizon)
	s.now = func() time.Time { return now }

	first, err := s.Sweep(context.Background())
	require.NoError(t, err)
	require.Equal(t, int64(400), first)

	second, err := s.Sweep(context.Background())
	require.NoError(t, err)
	require.Zero(t, second)
}

func TestSweeper_StoreFailureWrapped(t *testing.T) {
	hist := new(mockHistoryStore)
	snaps := new(mockSnapshotStore)
	hist.On("DeleteObservationsBefore", mock.Anything, mock.Anything).
		Return(int64(0), errors.New("connection reset"))

	s := NewSweeper(hist, snaps, DefaultHorizon)
	_, err := s.Sweep(context.Background())
	require.ErrorIs(t, err, history.ErrStoreUnavailable)
	snaps.AssertNotCalled(t, "DeleteLogsBefore", mock.Anything, mock.Anything)
}

func TestSweeper_DefaultHorizonApplied(t *testing.T) {
	s := NewSweeper(new(mockHistoryStore), new(mockSnapshotStore), 0)
	require.Equal(t, DefaultHorizon, s.Horizon)
}

func TestScheduler_NextRun(t *testing.T) {
	loc := time.UTC

	// Before today's 07:00 -> today.
	now := time.Date(2026, 8, 29, 5, 30, 0, 0, loc)
	require.Equal(t, time.Date(2026, 8, 29, 7, 0, 0, 0, loc), nextRun(now, 7))

	// After today's 07:00 -> tomorrow.
	now = time.Date(2026, 8, 29, 7, 0, 0, 1, loc)
	require.Equal(t, time.Date(2026, 8, 30, 7, 0, 0, 0, loc), nextRun(now, 7))

	// Exactly 07:00 -> tomorrow, never a zero wait loop.
	now = time.Date(2026, 8, 29, 7, 0, 0, 0, loc)
	require.Equal(t, time.Date(2026, 8, 30, 7, 0, 0, 0, loc), nextRun(now, 7))
}
