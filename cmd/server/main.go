package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"

	"github.com/Marsh2546/nvr-monitoring-system/internal/api"
	"github.com/Marsh2546/nvr-monitoring-system/internal/config"
	"github.com/Marsh2546/nvr-monitoring-system/internal/data"
	"github.com/Marsh2546/nvr-monitoring-system/internal/history"
	"github.com/Marsh2546/nvr-monitoring-system/internal/middleware"
	"github.com/Marsh2546/nvr-monitoring-system/internal/ratelimit"
	"github.com/Marsh2546/nvr-monitoring-system/internal/retention"
	"github.com/Marsh2546/nvr-monitoring-system/internal/snapshots"
)

const serviceName = "nvr-monitor"

func main() {
	// 1. Config
	cfg, err := config.Load("config/default.yaml")
	if err != nil {
		log.Fatalf("Config error: %v", err)
	}

	// 2. DB Init
	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatalf("DB open error: %v", err)
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		log.Fatalf("DB ping error: %v", err)
	}

	// 3. Components
	historyRepo := &data.HistoryModel{DB: db}
	snapshotRepo := &data.SnapshotModel{DB: db}

	historyService := history.NewService(historyRepo)
	historyService.Writer.WithRetryPolicy(cfg.Writer.MaxAttempts, cfg.Writer.BaseDelay())

	// NATS is optional: without it, snapshot triggers still land in the
	// log table and the capture agent falls back to polling.
	var publisher snapshots.EventPublisher
	natsURL := cfg.NATSURL
	if natsURL == "" {
		natsURL = nats.DefaultURL
	}
	nc, err := nats.Connect(natsURL, nats.Name(serviceName))
	if err != nil {
		log.Printf("Warning: NATS connect failed: %v. Snapshot events disabled.", err)
	} else {
		defer nc.Close()
		publisher = snapshots.NewNATSPublisher(nc, cfg.Events.Subject, cfg.Events.PublishRetryMax)
	}

	dedup := snapshots.NewTriggerDedup(cfg.Trigger.DedupMaxKeys,
		time.Duration(cfg.Trigger.DedupTTLSeconds)*time.Second)
	snapshotService := snapshots.NewService(snapshotRepo, publisher, dedup)

	sweeper := retention.NewSweeper(historyRepo, snapshotRepo, cfg.Horizon())
	sweepScheduler := retention.NewScheduler(retention.SchedulerConfig{SweepHour: cfg.Retention.SweepHour}, sweeper)
	sweepScheduler.Start()
	defer sweepScheduler.Stop()

	// Rate limiter (shared Redis client)
	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	limiter := ratelimit.NewLimiter(rdb, os.Getenv("RATE_LIMIT_SALT"))
	rlMiddleware := middleware.NewRateLimitMiddleware(limiter, ratelimit.LimitConfig{
		Rate:   cfg.RateLimit.Rate,
		Window: time.Duration(cfg.RateLimit.WindowSeconds) * time.Second,
	})

	// 4. Handlers & Routes
	historyHandler := api.NewHistoryHandler(historyService)
	snapshotHandler := api.NewSnapshotHandler(snapshotService)
	maintHandler := api.NewMaintenanceHandler(historyService, sweeper, db)

	router := api.NewRouter(historyHandler, snapshotHandler, maintHandler, rlMiddleware)

	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: router,
	}

	go func() {
		log.Printf("%s listening on %s", serviceName, cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	// 5. Graceful Shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
	log.Printf("Shutting down gracefully")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("Shutdown error: %v", err)
	}
}
