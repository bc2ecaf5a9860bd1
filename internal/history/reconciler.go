package history

import (
	"context"
	"fmt"
	"log"

	"github.com/Marsh2546/nvr-monitoring-system/internal/data"
	"github.com/Marsh2546/nvr-monitoring-system/internal/metrics"
)

// RepairReport describes one reconciliation pass.
type RepairReport struct {
	DuplicatesFound     []data.DuplicateGroup `json:"duplicates_found"`
	RowsRemoved         int64                 `json:"rows_removed"`
	MaxIDAfter          int64                 `json:"max_id_after"`
	RemainingDuplicates []data.DuplicateGroup `json:"remaining_duplicates"`
}

// Reconciler repairs duplicate-id corruption in the history table.
// Normal operation never produces duplicates; this exists for corruption
// introduced around the writer, e.g. bulk imports that assigned ids by
// hand. It is an operator-invoked maintenance task, not part of the
// steady-state write path.
type Reconciler struct {
	repo  data.HistoryRepository
	alloc *Allocator
}

func NewReconciler(repo data.HistoryRepository, alloc *Allocator) *Reconciler {
	return &Reconciler{repo: repo, alloc: alloc}
}

// Reconcile runs a single repair pass:
// scan -> delete all but the first stored row per group -> resync the
// sequence -> rescan. Anything still duplicated after one pass is
// reported via ErrReconciliationIncomplete alongside the report.
func (r *Reconciler) Reconcile(ctx context.Context) (*RepairReport, error) {
	report := &RepairReport{}

	dups, err := r.repo.FindDuplicateIDs(ctx)
	if err != nil {
		return nil, fmt.Errorf("scan duplicates: %w: %w", ErrStoreUnavailable, err)
	}
	report.DuplicatesFound = dups

	if len(dups) > 0 {
		removed, err := r.repo.DeleteDuplicates(ctx)
		if err != nil {
			return report, fmt.Errorf("delete duplicates: %w: %w", ErrStoreUnavailable, err)
		}
		report.RowsRemoved = removed
		metrics.DuplicateRowsRepaired.Add(float64(removed))
		log.Printf("[RECONCILE] removed %d duplicate row(s) across %d id group(s)", removed, len(dups))
	}

	if err := r.alloc.Resync(ctx); err != nil {
		return report, err
	}

	maxID, err := r.repo.MaxID(ctx)
	if err != nil {
		return report, fmt.Errorf("read max id: %w: %w", ErrStoreUnavailable, err)
	}
	report.MaxIDAfter = maxID

	remaining, err := r.repo.FindDuplicateIDs(ctx)
	if err != nil {
		return report, fmt.Errorf("verify duplicates: %w: %w", ErrStoreUnavailable, err)
	}
	report.RemainingDuplicates = remaining

	if len(remaining) > 0 {
		return report, fmt.Errorf("%d duplicate id(s) left after repair: %w", len(remaining), ErrReconciliationIncomplete)
	}
	return report, nil
}
