package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Marsh2546/nvr-monitoring-system/internal/middleware"
)

// NewRouter assembles the full route table. The rate limiter guards only
// the write-style endpoints; read projections stay unthrottled for the
// dashboard's polling.
func NewRouter(
	hist *HistoryHandler,
	snap *SnapshotHandler,
	maint *MaintenanceHandler,
	rl *middleware.RateLimitMiddleware,
) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestLogger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(30 * time.Second))

	r.Get("/health", maint.HealthCheck)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Get("/nvr-status", hist.GetStatusHistory)
		r.Get("/nvr-status-history", hist.GetStatusHistory)
		r.Get("/snapshots", hist.GetSnapshots)
		r.Get("/snapshot-logs", snap.GetSnapshotLogs)

		r.Group(func(r chi.Router) {
			if rl != nil {
				r.Use(rl.Handler)
			}
			r.Post("/nvr-status", hist.RecordStatus)
			r.Post("/trigger-snapshots", snap.TriggerSnapshots)
			r.Post("/log-snapshots", snap.LogSnapshots)
			r.Post("/cleanup-logs", maint.CleanupLogs)
			r.Post("/admin/reconcile", maint.Reconcile)
		})
	})

	return r
}
