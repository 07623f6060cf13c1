package scheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron"
)

const defaultInterval = 10 * time.Minute

// Scheduler periodically re-fetches the hourly forecast for the tracked
// address, independent of any user action.
type Scheduler struct {
	scheduler *gocron.Scheduler
	interval  time.Duration
	refresh   func(ctx context.Context) error
}

// New creates a Scheduler that fires refresh on the given interval.
func New(interval time.Duration, refresh func(ctx context.Context) error) *Scheduler {
	return &Scheduler{
		scheduler: gocron.NewScheduler(time.UTC),
		interval:  interval,
		refresh:   refresh,
	}
}

// Start schedules the periodic refresh and starts the underlying scheduler.
func (s *Scheduler) Start() error {
	interval := s.interval
	if interval <= 0 {
		interval = defaultInterval
	}

	_, err := s.scheduler.Every(interval).Do(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := s.refresh(ctx); err != nil {
			slog.Warn("scheduler: forecast refresh failed", "error", err.Error())
		}
	})
	if err != nil {
		return err
	}

	s.scheduler.StartAsync()
	return nil
}

// Stop stops the scheduler and cancels any future jobs. Must be called on
// session teardown so no refresh runs against torn-down state.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}
