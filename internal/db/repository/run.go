package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"credsentry/internal/domain"
)

// RunRepo implements domain.RunRepository over SQLite. Writes go through
// the single-connection write pool; reads use the read pool.
type RunRepo struct {
	writeDB *sql.DB
	readDB  *sql.DB
}

// NewRunRepo creates a new RunRepo over a write/read pool pair. Passing the
// same handle for both is fine when the caller has no read pool.
func NewRunRepo(writeDB, readDB *sql.DB) *RunRepo {
	return &RunRepo{writeDB: writeDB, readDB: readDB}
}

// InsertRun stores a run and its verdicts in one transaction. Verdict
// positions record enumeration order so listings can reproduce it.
func (r *RunRepo) InsertRun(ctx context.Context, run *domain.CheckRun, verdicts []domain.Verdict) error {
	tx, err := r.writeDB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	_, err = tx.ExecContext(ctx, `
		INSERT INTO check_runs (id, trigger_type, service_name, status, error, total, non_compliant, started_at, finished_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, string(run.Trigger), nullStr(run.ServiceName), string(run.Status), nullStr(run.Error),
		run.Total, run.NonCompliant, run.StartedAt, run.FinishedAt,
	)
	if err != nil {
		return mapDBError(err)
	}

	for i, v := range verdicts {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO verdicts (run_id, position, principal_id, outcome, resource_type, annotation)
			VALUES (?, ?, ?, ?, ?, ?)`,
			run.ID, i, v.PrincipalID, string(v.Outcome), v.ResourceType, v.Annotation,
		)
		if err != nil {
			return mapDBError(err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// GetRun returns one run by ID.
func (r *RunRepo) GetRun(ctx context.Context, id string) (*domain.CheckRun, error) {
	row := r.readDB.QueryRowContext(ctx, `
		SELECT id, trigger_type, service_name, status, error, total, non_compliant, started_at, finished_at
		FROM check_runs WHERE id = ?`, id)
	return scanRun(row)
}

// ListRuns returns runs matching the filter, newest first, with the total
// count for pagination.
func (r *RunRepo) ListRuns(ctx context.Context, filter domain.RunFilter) ([]domain.CheckRun, int64, error) {
	where := []string{"1=1"}
	args := []any{}
	if filter.Status != nil {
		where = append(where, "status = ?")
		args = append(args, *filter.Status)
	}
	if filter.Trigger != nil {
		where = append(where, "trigger_type = ?")
		args = append(args, *filter.Trigger)
	}
	cond := strings.Join(where, " AND ")

	var total int64
	if err := r.readDB.QueryRowContext(ctx, "SELECT COUNT(*) FROM check_runs WHERE "+cond, args...).Scan(&total); err != nil {
		return nil, 0, mapDBError(err)
	}

	query := `
		SELECT id, trigger_type, service_name, status, error, total, non_compliant, started_at, finished_at
		FROM check_runs WHERE ` + cond + `
		ORDER BY started_at DESC, id DESC
		LIMIT ? OFFSET ?`
	args = append(args, filter.Page.Limit(), filter.Page.Offset())

	rows, err := r.readDB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, mapDBError(err)
	}
	defer rows.Close() //nolint:errcheck

	runs := []domain.CheckRun{}
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, 0, err
		}
		runs = append(runs, *run)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, mapDBError(err)
	}
	return runs, total, nil
}

// ListVerdicts returns a run's verdicts in their original enumeration order.
func (r *RunRepo) ListVerdicts(ctx context.Context, runID string) ([]domain.Verdict, error) {
	rows, err := r.readDB.QueryContext(ctx, `
		SELECT principal_id, outcome, resource_type, annotation
		FROM verdicts WHERE run_id = ?
		ORDER BY position ASC`, runID)
	if err != nil {
		return nil, mapDBError(err)
	}
	defer rows.Close() //nolint:errcheck

	verdicts := []domain.Verdict{}
	for rows.Next() {
		var v domain.Verdict
		var outcome string
		if err := rows.Scan(&v.PrincipalID, &outcome, &v.ResourceType, &v.Annotation); err != nil {
			return nil, mapDBError(err)
		}
		v.Outcome = domain.Outcome(outcome)
		verdicts = append(verdicts, v)
	}
	if err := rows.Err(); err != nil {
		return nil, mapDBError(err)
	}
	return verdicts, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (*domain.CheckRun, error) {
	var run domain.CheckRun
	var trigger, status string
	var serviceName, runErr sql.NullString
	err := row.Scan(&run.ID, &trigger, &serviceName, &status, &runErr,
		&run.Total, &run.NonCompliant, &run.StartedAt, &run.FinishedAt)
	if err != nil {
		return nil, mapDBError(err)
	}
	run.Trigger = domain.RunTrigger(trigger)
	run.Status = domain.RunStatus(status)
	run.ServiceName = strFromNull(serviceName)
	run.Error = strFromNull(runErr)
	return &run, nil
}

var _ domain.RunRepository = (*RunRepo)(nil)
