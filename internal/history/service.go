package history

import (
	"context"

	"github.com/Marsh2546/nvr-monitoring-system/internal/data"
)

const DefaultListLimit = 100

// Service is the entry point for status-history ingestion and repair.
type Service struct {
	Repo       data.HistoryRepository
	Writer     *Writer
	Allocator  *Allocator
	Reconciler *Reconciler
}

func NewService(repo data.HistoryRepository) *Service {
	alloc := NewAllocator(repo)
	return &Service{
		Repo:       repo,
		Writer:     NewWriter(repo, alloc),
		Allocator:  alloc,
		Reconciler: NewReconciler(repo, alloc),
	}
}

// Record persists one observation, riding the writer's collision repair.
func (s *Service) Record(ctx context.Context, obs *data.Observation) (int64, error) {
	return s.Writer.Write(ctx, obs)
}

func (s *Service) ListHistory(ctx context.Context, f data.HistoryFilter, limit int) ([]*data.Observation, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	return s.Repo.ListHistory(ctx, f, limit)
}

// Reconcile runs a duplicate-repair pass. See Reconciler.Reconcile.
func (s *Service) Reconcile(ctx context.Context) (*RepairReport, error) {
	return s.Reconciler.Reconcile(ctx)
}
