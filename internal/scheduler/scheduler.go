// Package scheduler runs the backup on a cron schedule.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

//nolint:gochecknoglobals // shared parser configuration.
var cronParser = cron.NewParser(
	cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
)

// JobFn is one scheduled backup run.
type JobFn func(ctx context.Context) error

// Scheduler triggers a job according to a cron expression.
type Scheduler struct {
	schedule cron.Schedule
	spec     string
	run      JobFn
	logger   *slog.Logger

	// now is overridable in tests.
	now func() time.Time
}

// ParseSpec validates a cron expression. Standard five-field expressions,
// an optional leading seconds field, and descriptors like @daily are
// accepted.
func ParseSpec(spec string) (cron.Schedule, error) {
	return cronParser.Parse(spec)
}

// New creates a scheduler for the given cron expression.
func New(spec string, run JobFn, logger *slog.Logger) (*Scheduler, error) {
	if logger == nil {
		panic("scheduler requires logger")
	}
	if run == nil {
		return nil, fmt.Errorf("scheduler requires a job")
	}
	schedule, err := ParseSpec(spec)
	if err != nil {
		return nil, fmt.Errorf("parse schedule %q: %w", spec, err)
	}
	return &Scheduler{
		schedule: schedule,
		spec:     spec,
		run:      run,
		logger:   logger,
		now:      time.Now,
	}, nil
}

// Next returns the next run time after t.
func (s *Scheduler) Next(t time.Time) time.Time {
	return s.schedule.Next(t)
}

// Run executes the job at each scheduled time until ctx is canceled.
// A failed run is logged and does not stop the schedule.
func (s *Scheduler) Run(ctx context.Context) error {
	s.logger.InfoContext(ctx, "Scheduler started", "schedule", s.spec)

	for {
		now := s.now()
		next := s.schedule.Next(now)
		s.logger.InfoContext(ctx, "Next run", "at", next.Format(time.RFC3339))

		timer := time.NewTimer(next.Sub(now))
		select {
		case <-ctx.Done():
			timer.Stop()
			s.logger.InfoContext(ctx, "Scheduler stopped")
			return ctx.Err()
		case <-timer.C:
		}

		started := s.now()
		if err := s.run(ctx); err != nil {
			s.logger.ErrorContext(ctx, "Scheduled run failed", "error", err)
		} else {
			s.logger.InfoContext(ctx, "Scheduled run finished", "duration", s.now().Sub(started).Round(time.Millisecond))
		}
	}
}
