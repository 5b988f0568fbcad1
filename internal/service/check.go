// Package service coordinates check execution and run-history persistence.
package service

import (
	"context"
	"log/slog"
	"time"

	"credsentry/internal/domain"
)

// checkRunner runs one full evaluation across all principals.
type checkRunner interface {
	Run(ctx context.Context, params domain.RuleParameters) ([]domain.Verdict, error)
}

// CheckService executes compliance checks and records each run with its
// verdicts. Persistence failures never mask the check result: a run that
// evaluated successfully is reported as such even if the history write
// fails.
type CheckService struct {
	runner checkRunner
	runs   domain.RunRepository
	logger *slog.Logger
	now    func() time.Time
}

// NewCheckService creates a CheckService.
func NewCheckService(runner checkRunner, runs domain.RunRepository, logger *slog.Logger) *CheckService {
	return &CheckService{runner: runner, runs: runs, logger: logger, now: time.Now}
}

// RunCheck executes one check run. A fatal enumeration failure is recorded
// as a failed run with no verdicts and returned to the caller; a completed
// evaluation is recorded with its full verdict list in enumeration order.
func (s *CheckService) RunCheck(ctx context.Context, trigger domain.RunTrigger, serviceName *string) (*domain.CheckRun, []domain.Verdict, error) {
	started := s.now().UTC()
	run := &domain.CheckRun{
		ID:          domain.NewID(),
		Trigger:     trigger,
		ServiceName: serviceName,
		StartedAt:   started,
	}

	verdicts, err := s.runner.Run(ctx, domain.RuleParameters{ServiceName: serviceName})
	run.FinishedAt = s.now().UTC()

	if err != nil {
		msg := err.Error()
		run.Status = domain.RunStatusFailed
		run.Error = &msg
		s.persist(ctx, run, nil)
		return nil, nil, err
	}

	run.Status = domain.RunStatusSucceeded
	run.Total = len(verdicts)
	for _, v := range verdicts {
		if v.Outcome == domain.OutcomeNonCompliant {
			run.NonCompliant++
		}
	}
	s.persist(ctx, run, verdicts)

	s.logger.Info("check run completed",
		"run_id", run.ID,
		"trigger", string(trigger),
		"total", run.Total,
		"non_compliant", run.NonCompliant,
		"duration", run.FinishedAt.Sub(run.StartedAt),
	)
	return run, verdicts, nil
}

func (s *CheckService) persist(ctx context.Context, run *domain.CheckRun, verdicts []domain.Verdict) {
	if err := s.runs.InsertRun(ctx, run, verdicts); err != nil {
		s.logger.Warn("failed to record check run", "run_id", run.ID, "error", err)
	}
}

// GetRun returns one recorded run by ID.
func (s *CheckService) GetRun(ctx context.Context, id string) (*domain.CheckRun, error) {
	return s.runs.GetRun(ctx, id)
}

// ListRuns returns recorded runs matching the filter, newest first.
func (s *CheckService) ListRuns(ctx context.Context, filter domain.RunFilter) ([]domain.CheckRun, int64, error) {
	return s.runs.ListRuns(ctx, filter)
}

// ListVerdicts returns a recorded run's verdicts in enumeration order.
// The run must exist.
func (s *CheckService) ListVerdicts(ctx context.Context, runID string) ([]domain.Verdict, error) {
	if _, err := s.runs.GetRun(ctx, runID); err != nil {
		return nil, err
	}
	return s.runs.ListVerdicts(ctx, runID)
}
