package retention

import (
	"context"
	"log"
	"sync"
	"time"
)

// SchedulerConfig defines when the daily sweep fires.
type SchedulerConfig struct {
	SweepHour  int // local hour of day, 0-23
	CallBudget time.Duration
}

// Scheduler runs the sweeper once a day at a fixed local hour, matching
// the original 07:00 cron. A missed tick is harmless: the sweep is
// idempotent and the next day's run catches up.
type Scheduler struct {
	config  SchedulerConfig
	sweeper *Sweeper
	quit    chan struct{}
	wg      sync.WaitGroup
}

func NewScheduler(cfg SchedulerConfig, sweeper *Sweeper) *Scheduler {
	if cfg.CallBudget == 0 {
		cfg.CallBudget = 5 * time.Minute
	}
	return &Scheduler{
		config:  cfg,
		sweeper: sweeper,
		quit:    make(chan struct{}),
	}
}

func (s *Scheduler) Start() {
	s.wg.Add(1)
	go s.run()
}

func (s *Scheduler) Stop() {
	close(s.quit)
	s.wg.Wait()
}

func (s *Scheduler) run() {
	defer s.wg.Done()

	for {
		wait := time.Until(nextRun(time.Now(), s.config.SweepHour))
		timer := time.NewTimer(wait)

		select {
		case <-timer.C:
			ctx, cancel := context.WithTimeout(context.Background(), s.config.CallBudget)
			if _, err := s.sweeper.Sweep(ctx); err != nil {
				log.Printf("[RETENTION] scheduled sweep failed: %v", err)
			}
			cancel()
		case <-s.quit:
			timer.Stop()
			return
		}
	}
}

// nextRun returns the next occurrence of the given local hour after now.
func nextRun(now time.Time, hour int) time.Time {
	next := time.Date(now.Year(), now.Month(), now.Day(), hour, 0, 0, 0, now.Location())
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}
