package scheduler

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"credsentry/internal/domain"
)

type mockCheckService struct {
	runCheckFn func(ctx context.Context, trigger domain.RunTrigger, serviceName *string) (*domain.CheckRun, []domain.Verdict, error)
}

func (m *mockCheckService) RunCheck(ctx context.Context, trigger domain.RunTrigger, serviceName *string) (*domain.CheckRun, []domain.Verdict, error) {
	if m.runCheckFn != nil {
		return m.runCheckFn(ctx, trigger, serviceName)
	}
	panic("unexpected call to mockCheckService.RunCheck")
}

func TestScheduler_Start(t *testing.T) {
	logger := slog.New(slog.DiscardHandler)

	t.Run("empty_spec_disables_scheduler", func(t *testing.T) {
		s := New(&mockCheckService{}, nil, logger)
		require.NoError(t, s.Start(""))
		s.Stop()
	})

	t.Run("valid_spec_registers_entry", func(t *testing.T) {
		s := New(&mockCheckService{}, nil, logger)
		require.NoError(t, s.Start("@hourly"))
		defer s.Stop()
		assert.Len(t, s.cron.Entries(), 1)
	})

	t.Run("invalid_spec_is_error", func(t *testing.T) {
		s := New(&mockCheckService{}, nil, logger)
		require.Error(t, s.Start("not a cron spec"))
	})
}
