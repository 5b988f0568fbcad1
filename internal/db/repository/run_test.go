package repository

import (
	"context"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	internaldb "credsentry/internal/db"
	"credsentry/internal/domain"
)

func setupRunRepo(t *testing.T) *RunRepo {
	t.Helper()
	writeDB, readDB := internaldb.OpenTestSQLite(t)
	return NewRunRepo(writeDB, readDB)
}

func ptrStr(s string) *string { return &s }

func makeRun(trigger domain.RunTrigger, status domain.RunStatus) *domain.CheckRun {
	now := time.Now().UTC().Truncate(time.Second)
	return &domain.CheckRun{
		ID:         domain.NewID(),
		Trigger:    trigger,
		Status:     status,
		StartedAt:  now,
		FinishedAt: now.Add(2 * time.Second),
	}
}

func makeVerdicts(n int) []domain.Verdict {
	verdicts := make([]domain.Verdict, n)
	for i := range verdicts {
		outcome := domain.OutcomeCompliant
		annotation := "No active ServiceSpecific credentials found"
		if i%2 == 1 {
			outcome = domain.OutcomeNonCompliant
			annotation = "Active service specific credential found: cred"
		}
		verdicts[i] = domain.Verdict{
			PrincipalID:  domain.NewID(),
			Outcome:      outcome,
			ResourceType: domain.ResourceType,
			Annotation:   annotation,
		}
	}
	return verdicts
}

func TestRunRepo_InsertAndGet(t *testing.T) {
	repo := setupRunRepo(t)
	ctx := context.Background()

	run := makeRun(domain.TriggerManual, domain.RunStatusSucceeded)
	run.ServiceName = ptrStr("codecommit.amazonaws.com")
	run.Total = 3
	run.NonCompliant = 1

	require.NoError(t, repo.InsertRun(ctx, run, makeVerdicts(3)))

	got, err := repo.GetRun(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, run.ID, got.ID)
	assert.Equal(t, domain.TriggerManual, got.Trigger)
	assert.Equal(t, domain.RunStatusSucceeded, got.Status)
	require.NotNil(t, got.ServiceName)
	assert.Equal(t, "codecommit.amazonaws.com", *got.ServiceName)
	assert.Nil(t, got.Error)
	assert.Equal(t, 3, got.Total)
	assert.Equal(t, 1, got.NonCompliant)
}

func TestRunRepo_GetRun_NotFound(t *testing.T) {
	repo := setupRunRepo(t)

	_, err := repo.GetRun(context.Background(), "nope")

	require.Error(t, err)
	var notFound *domain.NotFoundError
	assert.ErrorAs(t, err, &notFound)
}

func TestRunRepo_FailedRunWithoutVerdicts(t *testing.T) {
	repo := setupRunRepo(t)
	ctx := context.Background()

	run := makeRun(domain.TriggerScheduled, domain.RunStatusFailed)
	run.Error = ptrStr("list principals: access denied")

	require.NoError(t, repo.InsertRun(ctx, run, nil))

	got, err := repo.GetRun(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.RunStatusFailed, got.Status)
	require.NotNil(t, got.Error)
	assert.Contains(t, *got.Error, "access denied")

	verdicts, err := repo.ListVerdicts(ctx, run.ID)
	require.NoError(t, err)
	assert.Empty(t, verdicts)
}

func TestRunRepo_ListVerdicts_PreservesOrder(t *testing.T) {
	repo := setupRunRepo(t)
	ctx := context.Background()

	run := makeRun(domain.TriggerAPI, domain.RunStatusSucceeded)
	verdicts := makeVerdicts(5)
	require.NoError(t, repo.InsertRun(ctx, run, verdicts))

	got, err := repo.ListVerdicts(ctx, run.ID)
	require.NoError(t, err)
	require.Len(t, got, 5)
	for i := range verdicts {
		assert.Equal(t, verdicts[i].PrincipalID, got[i].PrincipalID, "verdict %d out of order", i)
		assert.Equal(t, verdicts[i].Outcome, got[i].Outcome)
	}
}

func TestRunRepo_ListRuns(t *testing.T) {
	repo := setupRunRepo(t)
	ctx := context.Background()

	r1 := makeRun(domain.TriggerManual, domain.RunStatusSucceeded)
	r1.StartedAt = time.Now().UTC().Add(-2 * time.Hour)
	r1.FinishedAt = r1.StartedAt.Add(time.Second)
	r2 := makeRun(domain.TriggerScheduled, domain.RunStatusFailed)
	r2.StartedAt = time.Now().UTC().Add(-1 * time.Hour)
	r2.FinishedAt = r2.StartedAt.Add(time.Second)
	r3 := makeRun(domain.TriggerScheduled, domain.RunStatusSucceeded)

	for _, run := range []*domain.CheckRun{r1, r2, r3} {
		require.NoError(t, repo.InsertRun(ctx, run, nil))
	}

	t.Run("newest_first", func(t *testing.T) {
		runs, total, err := repo.ListRuns(ctx, domain.RunFilter{})
		require.NoError(t, err)
		assert.Equal(t, int64(3), total)
		require.Len(t, runs, 3)
		assert.Equal(t, r3.ID, runs[0].ID)
		assert.Equal(t, r1.ID, runs[2].ID)
	})

	t.Run("filter_by_status", func(t *testing.T) {
		runs, total, err := repo.ListRuns(ctx, domain.RunFilter{Status: ptrStr("failed")})
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		require.Len(t, runs, 1)
		assert.Equal(t, r2.ID, runs[0].ID)
	})

	t.Run("filter_by_trigger", func(t *testing.T) {
		_, total, err := repo.ListRuns(ctx, domain.RunFilter{Trigger: ptrStr("scheduled")})
		require.NoError(t, err)
		assert.Equal(t, int64(2), total)
	})

	t.Run("pagination", func(t *testing.T) {
		runs, total, err := repo.ListRuns(ctx, domain.RunFilter{
			Page: domain.PageRequest{MaxResults: 2},
		})
		require.NoError(t, err)
		assert.Equal(t, int64(3), total)
		assert.Len(t, runs, 2)

		next := domain.NextPageToken(0, 2, total)
		require.NotEmpty(t, next)
		runs, _, err = repo.ListRuns(ctx, domain.RunFilter{
			Page: domain.PageRequest{MaxResults: 2, PageToken: next},
		})
		require.NoError(t, err)
		assert.Len(t, runs, 1)
	})
}

func TestRunRepo_DuplicateRunID(t *testing.T) {
	repo := setupRunRepo(t)
	ctx := context.Background()

	run := makeRun(domain.TriggerManual, domain.RunStatusSucceeded)
	require.NoError(t, repo.InsertRun(ctx, run, nil))

	err := repo.InsertRun(ctx, run, nil)
	require.Error(t, err)
	var conflict *domain.ConflictError
	assert.ErrorAs(t, err, &conflict)
}
