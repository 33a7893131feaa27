package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/cataloro/cataloro-probe/internal/models"
	srvErrors "github.com/cataloro/cataloro-probe/pkg/errors"
)

var runColumns = []string{
	"id", "target", "backend_url", "string_split(suites, ',') AS suites", "started_at", "finished_at",
	"total", "passed", "failed", "skipped", "success_rate", "duration_ms",
}

type RunStore struct {
	db QueryInterceptor
}

func NewRunStore(db QueryInterceptor) *RunStore {
	return &RunStore{db: db}
}

// Save writes the run and all of its results in one transaction.
func (s *RunStore) Save(ctx context.Context, run models.Run) error {
	tx, err := s.db.BeginTx(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	sum := run.Summary
	if _, err := tx.ExecContext(ctx, queryInsertRun,
		run.ID, run.Target, run.BackendURL, strings.Join(run.Suites, ","),
		run.StartedAt.UTC(), run.FinishedAt.UTC(),
		sum.Total, sum.Passed, sum.Failed, sum.Skipped, sum.SuccessRate, sum.Duration.Milliseconds(),
	); err != nil {
		return fmt.Errorf("saving run %s: %w", run.ID, err)
	}

	for i, r := range run.Results {
		if _, err := tx.ExecContext(ctx, queryInsertCheckResult,
			run.ID, i, r.Suite, r.Check, r.Outcome.Value(), r.Details, r.Error,
			r.StatusCode, r.Duration.Milliseconds(), r.Timestamp.UTC(),
		); err != nil {
			return fmt.Errorf("saving result %s / %s of run %s: %w", r.Suite, r.Check, run.ID, err)
		}
	}

	return tx.Commit()
}

// Get returns the run with its results, or a ResourceNotFoundError.
func (s *RunStore) Get(ctx context.Context, id string) (*models.Run, error) {
	runs, err := s.list(ctx, func(b sq.SelectBuilder) sq.SelectBuilder {
		return b.Where(sq.Eq{"id": id})
	})
	if err != nil {
		return nil, err
	}
	if len(runs) == 0 {
		return nil, srvErrors.NewRunNotFoundError(id)
	}

	run := runs[0]
	run.Results, err = NewCheckStore(s.db).ListByRun(ctx, id)
	if err != nil {
		return nil, err
	}
	return &run, nil
}

// List returns runs without their results, newest first.
func (s *RunStore) List(ctx context.Context, opts ...ListOption) ([]models.Run, error) {
	return s.list(ctx, opts...)
}

// Latest returns the newest run, optionally of one target.
func (s *RunStore) Latest(ctx context.Context, target string) (*models.Run, error) {
	opts := []ListOption{WithLimit(1)}
	if target != "" {
		opts = append(opts, ByTarget(target))
	}
	runs, err := s.list(ctx, opts...)
	if err != nil {
		return nil, err
	}
	if len(runs) == 0 {
		return nil, srvErrors.NewResourceNotFoundError("run", "")
	}
	return s.Get(ctx, runs[0].ID)
}

func (s *RunStore) Delete(ctx context.Context, id string) error {
	tx, err := s.db.BeginTx(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, queryDeleteCheckResults, id); err != nil {
		return err
	}
	res, err := tx.ExecContext(ctx, queryDeleteRun, id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return srvErrors.NewRunNotFoundError(id)
	}
	return tx.Commit()
}

func (s *RunStore) Count(ctx context.Context, opts ...ListOption) (int, error) {
	builder := sq.Select("COUNT(*)").From("runs")
	for _, opt := range opts {
		builder = opt(builder)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return 0, err
	}

	var count int
	err = s.db.QueryRowContext(ctx, query, args...).Scan(&count)
	return count, err
}

func (s *RunStore) list(ctx context.Context, opts ...ListOption) ([]models.Run, error) {
	builder := sq.Select(runColumns...).From("runs").OrderBy("started_at DESC", "id")
	for _, opt := range opts {
		builder = opt(builder)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []models.Run
	for rows.Next() {
		var (
			run        models.Run
			suites     any
			durationMs int64
		)
		err := rows.Scan(
			&run.ID,
			&run.Target,
			&run.BackendURL,
			&suites,
			&run.StartedAt,
			&run.FinishedAt,
			&run.Summary.Total,
			&run.Summary.Passed,
			&run.Summary.Failed,
			&run.Summary.Skipped,
			&run.Summary.SuccessRate,
			&durationMs,
		)
		if err != nil {
			return nil, err
		}
		run.Suites = toStringSlice(suites)
		run.Summary.Duration = time.Duration(durationMs) * time.Millisecond
		runs = append(runs, run)
	}

	return runs, rows.Err()
}
