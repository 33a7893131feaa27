package store

// Run queries
const (
	queryInsertRun = `
		INSERT INTO runs (id, target, backend_url, suites, started_at, finished_at,
			total, passed, failed, skipped, success_rate, duration_ms)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	queryInsertCheckResult = `
		INSERT INTO check_results (run_id, seq, suite, check_name, outcome, details, error,
			status_code, duration_ms, ts)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	queryDeleteCheckResults = `DELETE FROM check_results WHERE run_id = ?`
	queryDeleteRun          = `DELETE FROM runs WHERE id = ?`
)

// Flaky checks: both outcomes within the newest runs, optionally of one target.
const queryFlaky = `
	WITH recent AS (
		SELECT id FROM runs
		WHERE ? = '' OR target = ?
		ORDER BY started_at DESC
		LIMIT ?
	)
	SELECT suite, check_name,
		COUNT(*) FILTER (WHERE outcome = 'pass') AS passed,
		COUNT(*) FILTER (WHERE outcome = 'fail') AS failed
	FROM check_results
	WHERE run_id IN (SELECT id FROM recent)
	GROUP BY suite, check_name
	HAVING COUNT(*) FILTER (WHERE outcome = 'pass') > 0
		AND COUNT(*) FILTER (WHERE outcome = 'fail') > 0
	ORDER BY failed DESC, suite, check_name`
