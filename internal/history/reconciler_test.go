package history

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Marsh2546/nvr-monitoring-system/internal/data"
)

func TestReconciler_RepairsDuplicateGroups(t *testing.T) {
	// Table state: ids [1,2,2,2,3]. Two extra copies of id 2 must go,
	// one survivor stays, and the next id afterwards is 4.
	mockRepo := new(MockHistoryRepo)
	mockRepo.On("FindDuplicateIDs", mock.Anything).
		Return([]data.DuplicateGroup{{ID: 2, Count: 3}}, nil).Once()
	mockRepo.On("DeleteDuplicates", mock.Anything).Return(int64(2), nil).Once()
	mockRepo.On("ResyncSequence", mock.Anything).Return(nil).Once()
	mockRepo.On("MaxID", mock.Anything).Return(int64(3), nil)
	mockRepo.On("FindDuplicateIDs", mock.Anything).
		Return([]data.DuplicateGroup{}, nil).Once()

	rec := NewReconciler(mockRepo, NewAllocator(mockRepo))
	report, err := rec.Reconcile(context.Background())
	require.NoError(t, err)

	require.Equal(t, []data.DuplicateGroup{{ID: 2, Count: 3}}, report.DuplicatesFound)
	require.Equal(t, int64(2), report.RowsRemoved)
	require.Equal(t, int64(3), report.MaxIDAfter)
	require.Empty(t, report.RemainingDuplicates)

	// nextId() after repair must exceed every surviving id.
	id, err := NewAllocator(mockRepo).NextID(context.Background())
	require.NoError(t, err)
	require.Equal(t, int64(4), id)

	mockRepo.AssertExpectations(t)
}

func TestReconciler_IdempotentOnCleanTable(t *testing.T) {
	mockRepo := new(MockHistoryRepo)
	mockRepo.On("FindDuplicateIDs", mock.Anything).Return([]data.DuplicateGroup{}, nil)
	mockRepo.On("ResyncSequence", mock.Anything).Return(nil)
	mockRepo.On("MaxID", mock.Anything).Return(int64(3), nil)

	rec := NewReconciler(mockRepo, NewAllocator(mockRepo))

	for i := 0; i < 2; i++ {
		report, err := rec.Reconcile(context.Background())
		require.NoError(t, err)
		require.Zero(t, report.RowsRemoved)
		require.Empty(t, report.DuplicatesFound)
	}

	// No delete ever issued on a clean table.
	mockRepo.AssertNotCalled(t, "DeleteDuplicates", mock.Anything)
}

func TestReconciler_ReportsUnresolvedDuplicates(t *testing.T) {
	// A second scan still showing duplicates means one pass could not
	// repair everything; that is surfaced, not retried.
	mockRepo := new(MockHistoryRepo)
	mockRepo.On("FindDuplicateIDs", mock.Anything).
		Return([]data.DuplicateGroup{{ID: 9, Count: 2}}, nil).Once()
	mockRepo.On("DeleteDuplicates", mock.Anything).Return(int64(0), nil).Once()
	mockRepo.On("ResyncSequence", mock.Anything).Return(nil).Once()
	mockRepo.On("MaxID", mock.Anything).Return(int64(9), nil).Once()
	mockRepo.On("FindDuplicateIDs", mock.Anything).
		Return([]data.DuplicateGroup{{ID: 9, Count: 2}}, nil).Once()

	rec := NewReconciler(mockRepo, NewAllocator(mockRepo))
	report, err := rec.Reconcile(context.Background())

	require.ErrorIs(t, err, ErrReconciliationIncomplete)
	require.NotNil(t, report)
	require.Equal(t, []data.DuplicateGroup{{ID: 9, Count: 2}}, report.RemainingDuplicates)
	mockRepo.AssertNumberOfCalls(t, "FindDuplicateIDs", 2)
}

func TestReconciler_StoreFailurePropagates(t *testing.T) {
	mockRepo := new(MockHistoryRepo)
	mockRepo.On("FindDuplicateIDs", mock.Anything).Return(nil, errors.New("down")).Once()

	rec := NewReconciler(mockRepo, NewAllocator(mockRepo))
	_, err := rec.Reconcile(context.Background())
	require.ErrorIs(t, err, ErrStoreUnavailable)
}
