package service

import (
	"context"
	"errors"

	"credsentry/internal/domain"
)

var errTest = errors.New("boom")

// === Check Runner Mock ===

type mockRunner struct {
	runFn func(ctx context.Context, params domain.RuleParameters) ([]domain.Verdict, error)
}

func (m *mockRunner) Run(ctx context.Context, params domain.RuleParameters) ([]domain.Verdict, error) {
	if m.runFn != nil {
		return m.runFn(ctx, params)
	}
	panic("unexpected call to mockRunner.Run")
}

// === Run Repository Mock ===

type mockRunRepo struct {
	insertFn       func(ctx context.Context, run *domain.CheckRun, verdicts []domain.Verdict) error
	getFn          func(ctx context.Context, id string) (*domain.CheckRun, error)
	listRunsFn     func(ctx context.Context, filter domain.RunFilter) ([]domain.CheckRun, int64, error)
	listVerdictsFn func(ctx context.Context, runID string) ([]domain.Verdict, error)

	inserted []struct {
		Run      *domain.CheckRun
		Verdicts []domain.Verdict
	}
}

func (m *mockRunRepo) InsertRun(ctx context.Context, run *domain.CheckRun, verdicts []domain.Verdict) error {
	m.inserted = append(m.inserted, struct {
		Run      *domain.CheckRun
		Verdicts []domain.Verdict
	}{run, verdicts})
	if m.insertFn != nil {
		return m.insertFn(ctx, run, verdicts)
	}
	return nil
}

func (m *mockRunRepo) GetRun(ctx context.Context, id string) (*domain.CheckRun, error) {
	if m.getFn != nil {
		return m.getFn(ctx, id)
	}
	panic("unexpected call to mockRunRepo.GetRun")
}

func (m *mockRunRepo) ListRuns(ctx context.Context, filter domain.RunFilter) ([]domain.CheckRun, int64, error) {
	if m.listRunsFn != nil {
		return m.listRunsFn(ctx, filter)
	}
	panic("unexpected call to mockRunRepo.ListRuns")
}

func (m *mockRunRepo) ListVerdicts(ctx context.Context, runID string) ([]domain.Verdict, error) {
	if m.listVerdictsFn != nil {
		return m.listVerdictsFn(ctx, runID)
	}
	panic("unexpected call to mockRunRepo.ListVerdicts")
}
