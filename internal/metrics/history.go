package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HistoryWriteCollisions = promauto.NewCounter(prometheus.CounterOpts{
		Name: "nvr_history_write_collisions_total",
		Help: "Total number of primary-key collisions hit by the history writer",
	})

	HistoryWritesExhausted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "nvr_history_writes_exhausted_total",
		Help: "Total number of writes that failed after exhausting all retry attempts",
	})

	DuplicateRowsRepaired = promauto.NewCounter(prometheus.CounterOpts{
		Name: "nvr_history_duplicate_rows_repaired_total",
		Help: "Total number of duplicate history rows removed by reconciliation",
	})

	RowsSwept = promauto.NewCounter(prometheus.CounterOpts{
		Name: "nvr_retention_rows_swept_total",
		Help: "Total number of rows deleted by the retention sweeper",
	})

	SnapshotTriggersTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "nvr_snapshot_triggers_total",
		Help: "Total number of snapshot log entries written",
	}, []string{"status"})
)
