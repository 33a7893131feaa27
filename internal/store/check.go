package store

import (
	"context"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/cataloro/cataloro-probe/internal/models"
)

type CheckStore struct {
	db QueryInterceptor
}

func NewCheckStore(db QueryInterceptor) *CheckStore {
	return &CheckStore{db: db}
}

// ListByRun returns the results of a run in execution order.
func (s *CheckStore) ListByRun(ctx context.Context, runID string, opts ...ListOption) ([]models.CheckResult, error) {
	builder := sq.Select(
		"suite", "check_name", "outcome", "details", "error", "status_code", "duration_ms", "ts",
	).From("check_results").
		Where(sq.Eq{"run_id": runID}).
		OrderBy("seq")

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

	results := []models.CheckResult{}
	for rows.Next() {
		var (
			r          models.CheckResult
			outcome    string
			durationMs int64
		)
		if err := rows.Scan(&r.Suite, &r.Check, &outcome, &r.Details, &r.Error, &r.StatusCode, &durationMs, &r.Timestamp); err != nil {
			return nil, err
		}
		if r.Outcome, err = models.ParseOutcome(outcome); err != nil {
			return nil, err
		}
		r.Duration = time.Duration(durationMs) * time.Millisecond
		results = append(results, r)
	}
	return results, rows.Err()
}

// Flaky names the checks that both passed and failed within the last window
// runs. An empty target considers runs of every target.
func (s *CheckStore) Flaky(ctx context.Context, window int, target string) ([]models.FlakyCheck, error) {
	if window < 1 {
		window = 1
	}
	rows, err := s.db.QueryContext(ctx, queryFlaky, target, target, window)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.FlakyCheck
	for rows.Next() {
		var f models.FlakyCheck
		if err := rows.Scan(&f.Suite, &f.Check, &f.Passed, &f.Failed); err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, rows.Err()
}
