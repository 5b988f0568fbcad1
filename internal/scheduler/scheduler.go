// Package scheduler runs the compliance check on a cron schedule.
package scheduler

import (
	"context"
	"log/slog"

	"github.com/robfig/cron/v3"

	"credsentry/internal/domain"
)

// checkService is the check-execution operation the scheduler drives.
type checkService interface {
	RunCheck(ctx context.Context, trigger domain.RunTrigger, serviceName *string) (*domain.CheckRun, []domain.Verdict, error)
}

// Scheduler triggers periodic check runs from a single cron entry.
type Scheduler struct {
	cron        *cron.Cron
	checks      checkService
	serviceName *string
	logger      *slog.Logger
}

// New creates a Scheduler that runs the check with the given optional
// service-name filter on every tick.
func New(checks checkService, serviceName *string, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		cron:        cron.New(),
		checks:      checks,
		serviceName: serviceName,
		logger:      logger,
	}
}

// Start registers the schedule and starts the cron loop. An empty spec
// disables the scheduler without error.
func (s *Scheduler) Start(spec string) error {
	if spec == "" {
		s.logger.Info("check scheduler disabled")
		return nil
	}

	_, err := s.cron.AddFunc(spec, func() {
		ctx := context.Background()
		run, _, err := s.checks.RunCheck(ctx, domain.TriggerScheduled, s.serviceName)
		if err != nil {
			// A failed run is recorded by the service; the schedule keeps going.
			s.logger.Warn("scheduled check failed", "error", err)
			return
		}
		s.logger.Info("scheduled check completed",
			"run_id", run.ID,
			"total", run.Total,
			"non_compliant", run.NonCompliant,
		)
	})
	if err != nil {
		return err
	}

	s.cron.Start()
	s.logger.Info("check scheduler started", "schedule", spec)
	return nil
}

// Stop gracefully stops the cron loop.
func (s *Scheduler) Stop() {
	s.cron.Stop()
	s.logger.Info("check scheduler stopped")
}
