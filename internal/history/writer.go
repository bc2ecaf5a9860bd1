package history

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/Marsh2546/nvr-monitoring-system/internal/data"
	"github.com/Marsh2546/nvr-monitoring-system/internal/metrics"
)

const (
	DefaultMaxAttempts = 3
	DefaultBaseDelay   = 1 * time.Second
)

// Writer inserts observations and repairs id collisions optimistically:
// try, and on a primary-key conflict re-derive a fresh id and resubmit.
// Collisions are rare (one poll cycle per station), so retrying is cheaper
// than serializing writers behind a lock.
type Writer struct {
	repo        data.HistoryRepository
	alloc       *Allocator
	maxAttempts int
	baseDelay   time.Duration
	sleep       func(time.Duration)
}

func NewWriter(repo data.HistoryRepository, alloc *Allocator) *Writer {
	return &Writer{
		repo:        repo,
		alloc:       alloc,
		maxAttempts: DefaultMaxAttempts,
		baseDelay:   DefaultBaseDelay,
		sleep:       time.Sleep,
	}
}

// WithRetryPolicy overrides the attempt bound and base delay.
func (w *Writer) WithRetryPolicy(maxAttempts int, baseDelay time.Duration) *Writer {
	if maxAttempts > 0 {
		w.maxAttempts = maxAttempts
	}
	if baseDelay > 0 {
		w.baseDelay = baseDelay
	}
	return w
}

// Write persists one observation and returns the id it landed under.
// If obs.ID is zero an id is allocated first. Only a unique violation on
// the history primary key triggers the retry path; any other failure
// propagates immediately. Between attempts the writer waits
// attempt*baseDelay and re-derives the id fresh from current table state,
// never from a value computed before the race began.
func (w *Writer) Write(ctx context.Context, obs *data.Observation) (int64, error) {
	if obs.ID == 0 {
		id, err := w.alloc.NextID(ctx)
		if err != nil {
			return 0, err
		}
		obs.ID = id
	}

	var lastErr error
	for attempt := 1; attempt <= w.maxAttempts; attempt++ {
		err := w.repo.Insert(ctx, obs)
		if err == nil {
			if attempt > 1 {
				log.Printf("[HISTORY] insert recovered after %d collision(s), id=%d", attempt-1, obs.ID)
			}
			return obs.ID, nil
		}

		if !data.IsUniqueViolation(err, data.HistoryPKConstraint) {
			return 0, fmt.Errorf("insert observation id=%d: %w", obs.ID, err)
		}

		lastErr = err
		metrics.HistoryWriteCollisions.Inc()
		log.Printf("[HISTORY] duplicate id %d on attempt %d, reallocating", obs.ID, attempt)

		if attempt == w.maxAttempts {
			break
		}

		// Let concurrent writers settle before recomputing.
		w.sleep(time.Duration(attempt) * w.baseDelay)

		next, err := w.alloc.NextID(ctx)
		if err != nil {
			return 0, err
		}
		obs.ID = next
	}

	metrics.HistoryWritesExhausted.Inc()
	return 0, &WriteExhaustedError{Attempts: w.maxAttempts, LastID: obs.ID, Err: lastErr}
}
