// Command repair runs a duplicate-id reconciliation pass over the status
// history table and prints the repair report. Intended for operators
// after bulk imports that bypassed the resilient writer.
package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"flag"
	"log"
	"os"
	"time"

	_ "github.com/lib/pq"

	"github.com/Marsh2546/nvr-monitoring-system/internal/config"
	"github.com/Marsh2546/nvr-monitoring-system/internal/data"
	"github.com/Marsh2546/nvr-monitoring-system/internal/history"
)

func main() {
	timeout := flag.Duration("timeout", 2*time.Minute, "Overall operation deadline")
	flag.Parse()

	cfg, err := config.Load("")
	if err != nil {
		log.Fatalf("Config error: %v", err)
	}

	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatalf("DB open error: %v", err)
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		log.Fatalf("DB ping error: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	svc := history.NewService(&data.HistoryModel{DB: db})
	report, err := svc.Reconcile(ctx)

	if report != nil {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(report)
	}

	switch {
	case err == nil:
		log.Printf("Reconciliation complete: %d row(s) removed", report.RowsRemoved)
	case errors.Is(err, history.ErrReconciliationIncomplete):
		log.Printf("Reconciliation incomplete: %d duplicate id(s) remain", len(report.RemainingDuplicates))
		os.Exit(2)
	default:
		log.Fatalf("Reconciliation failed: %v", err)
	}
}
