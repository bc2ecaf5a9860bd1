package api

import (
	"database/sql"
	"errors"
	"fmt"
	"net/http"

	"github.com/Marsh2546/nvr-monitoring-system/internal/history"
	"github.com/Marsh2546/nvr-monitoring-system/internal/retention"
)

type MaintenanceHandler struct {
	History *history.Service
	Sweeper *retention.Sweeper
	DB      *sql.DB
}

func NewMaintenanceHandler(hist *history.Service, sweeper *retention.Sweeper, db *sql.DB) *MaintenanceHandler {
	return &MaintenanceHandler{History: hist, Sweeper: sweeper, DB: db}
}

// HealthCheck reports service and database liveness.
// GET /health
func (h *MaintenanceHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	if err := h.DB.PingContext(r.Context()); err != nil {
		respondJSON(w, http.StatusInternalServerError, map[string]string{
			"status":   "unhealthy",
			"database": "disconnected",
		})
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{
		"status":    "healthy",
		"database":  "connected",
		"timestamp": nowRFC3339(),
	})
}

// CleanupLogs runs the retention sweep on demand.
// POST /api/cleanup-logs
func (h *MaintenanceHandler) CleanupLogs(w http.ResponseWriter, r *http.Request) {
	deleted, err := h.Sweeper.Sweep(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to cleanup logs")
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"message":   fmt.Sprintf("Cleaned up %d old entries (older than retention horizon)", deleted),
		"deleted":   deleted,
		"timestamp": nowRFC3339(),
		"retention": h.Sweeper.Horizon.String(),
	})
}

// Reconcile runs a duplicate-repair pass over the history table.
// POST /api/admin/reconcile
func (h *MaintenanceHandler) Reconcile(w http.ResponseWriter, r *http.Request) {
	report, err := h.History.Reconcile(r.Context())
	if err != nil {
		if errors.Is(err, history.ErrReconciliationIncomplete) {
			// Unresolved duplicates are an operational signal to inspect,
			// not a transport failure. Hand the report back.
			respondJSON(w, http.StatusOK, map[string]any{
				"report":     report,
				"incomplete": true,
			})
			return
		}
		if errors.Is(err, history.ErrStoreUnavailable) {
			respondError(w, http.StatusServiceUnavailable, "history store unavailable")
			return
		}
		respondError(w, http.StatusInternalServerError, "reconciliation failed")
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"report":     report,
		"incomplete": false,
	})
}
