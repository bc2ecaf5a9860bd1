package history

import (
	"context"
	"fmt"

	"github.com/Marsh2546/nvr-monitoring-system/internal/data"
)

// Allocator derives the next safe observation id from the table itself.
// It holds no cached state: every call re-reads the current maximum, so
// it stays correct under concurrent writers and after failed writes.
type Allocator struct {
	repo data.HistoryRepository
}

func NewAllocator(repo data.HistoryRepository) *Allocator {
	return &Allocator{repo: repo}
}

// NextID returns max(id)+1, or 1 for an empty table.
func (a *Allocator) NextID(ctx context.Context) (int64, error) {
	max, err := a.repo.MaxID(ctx)
	if err != nil {
		return 0, fmt.Errorf("allocate next id: %w: %w", ErrStoreUnavailable, err)
	}
	return max + 1, nil
}

// Resync forces the table's sequence to agree with its contents, so that
// default-generated ids cannot collide with explicitly assigned ones.
// Idempotent: running it twice changes nothing the second time.
func (a *Allocator) Resync(ctx context.Context) error {
	if err := a.repo.ResyncSequence(ctx); err != nil {
		return fmt.Errorf("resync id sequence: %w: %w", ErrStoreUnavailable, err)
	}
	return nil
}
