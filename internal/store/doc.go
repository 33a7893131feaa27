// Package store keeps the history of probe runs in a local DuckDB file.
//
// Each run and each of its check results are written once, when the run
// ends. The history feeds the history, show and flaky commands.
//
// # Architecture Overview
//
//	┌─────────────────────────────────────────────────────────────────┐
//	│                         Store (facade)                          │
//	├─────────────────────────────────────────────────────────────────┤
//	│            RunStore            │          CheckStore            │
//	│               ▼                │              ▼                 │
//	│             runs               │        check_results           │
//	├────────────────────────────────┴────────────────────────────────┤
//	│                QueryInterceptor (debug logging)                 │
//	│                              ▼                                  │
//	│                     DuckDB (file or :memory:)                   │
//	└─────────────────────────────────────────────────────────────────┘
//
// # Tables
//
// Created by the migrations in internal/store/migrations/sql/:
//
//	┌────────────────────┬─────────────────────────────────────────────┐
//	│  Table             │  Purpose                                    │
//	├────────────────────┼─────────────────────────────────────────────┤
//	│  runs              │  One row per run with its summary counts    │
//	│  check_results     │  One row per check, keyed (run_id, seq)     │
//	│  schema_migrations │  Migration version tracking                 │
//	└────────────────────┴─────────────────────────────────────────────┘
//
// runs.suites holds the suite names comma separated; it is read back as a
// list with string_split. Durations are stored in milliseconds and
// timestamps in UTC.
//
// # Initialization Flow
//
//	db, _ := store.NewDB(path)
//	s := store.NewStore(db)
//	s.Migrate(ctx)
//
// # RunStore
//
//   - Save(ctx, run) → error (run and results in one transaction)
//   - Get(ctx, id) → *models.Run with results, ResourceNotFoundError if absent
//   - List(ctx, opts...) → runs without results, newest first
//   - Latest(ctx, target), Count(ctx, opts...), Delete(ctx, id)
//
// # CheckStore
//
//   - ListByRun(ctx, runID, opts...) → results in execution order
//   - Flaky(ctx, window, target) → checks with both a pass and a fail in
//     the newest window runs, most failures first
//
// # Functional Options
//
// List calls take ListOption functions that modify a squirrel.SelectBuilder:
//
//	runs, err := s.Runs().List(ctx,
//	    store.ByTarget("staging"),
//	    store.WithLimit(20),
//	)
//
//	failed, err := s.Checks().ListByRun(ctx, id,
//	    store.BySuite("catalyst"),
//	    store.ByOutcome("fail"),
//	)
//
// ByTarget and StartedAfter filter runs; BySuite and ByOutcome filter check
// results. WithLimit and WithOffset apply to both.
package store
