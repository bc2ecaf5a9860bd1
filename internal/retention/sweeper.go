package retention

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/Marsh2546/nvr-monitoring-system/internal/data"
	"github.com/Marsh2546/nvr-monitoring-system/internal/history"
	"github.com/Marsh2546/nvr-monitoring-system/internal/metrics"
)

// DefaultHorizon keeps one year of history, matching the original
// dashboard's "keep 1 year, then delete and restart collection" policy.
const DefaultHorizon = 365 * 24 * time.Hour

// Sweeper enforces the rolling retention window over both history tables.
// It deletes uniformly: no status is spared once past the horizon, so the
// tables never grow unbounded. Idempotent, safe to run repeatedly.
type Sweeper struct {
	History   data.HistoryRepository
	Snapshots data.SnapshotRepository
	Horizon   time.Duration
	now       func() time.Time
}

func NewSweeper(hist data.HistoryRepository, snaps data.SnapshotRepository, horizon time.Duration) *Sweeper {
	if horizon <= 0 {
		horizon = DefaultHorizon
	}
	return &Sweeper{
		History:   hist,
		Snapshots: snaps,
		Horizon:   horizon,
		now:       time.Now,
	}
}

// Sweep deletes every row older than now-Horizon from both tables and
// returns the total removed. The boundary is exclusive on the delete
// side: a row created exactly at the cutoff survives.
func (s *Sweeper) Sweep(ctx context.Context) (int64, error) {
	cutoff := s.now().Add(-s.Horizon)

	observations, err := s.History.DeleteObservationsBefore(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("sweep status history: %w: %w", history.ErrStoreUnavailable, err)
	}

	logs, err := s.Snapshots.DeleteLogsBefore(ctx, cutoff)
	if err != nil {
		return observations, fmt.Errorf("sweep snapshot logs: %w: %w", history.ErrStoreUnavailable, err)
	}

	total := observations + logs
	metrics.RowsSwept.Add(float64(total))
	log.Printf("[RETENTION] swept %d row(s) older than %s (%d observations, %d snapshot logs)",
		total, cutoff.Format(time.RFC3339), observations, logs)
	return total, nil
}
