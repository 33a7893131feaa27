// Package probe is the check framework the suites are written in.
//
// A Suite is an ordered list of Checks. Each check calls the marketplace
// through the shared client and returns nil (pass), an error made by Skipf
// (skip) or any other error (fail). A failure never stops the suite unless
// FailFast is set.
//
//	┌──────────────┐   AddWork(suite)   ┌─────────────────────┐
//	│   Runner     │ ─────────────────► │ scheduler (N suites │
//	│              │                    │ in parallel)        │
//	└──────┬───────┘                    └──────────┬──────────┘
//	       │ results, in suite order               │ RunSuite
//	       ▼                                       ▼
//	┌──────────────┐   Record(result)   ┌─────────────────────┐
//	│   Recorder   │ ◄───────────────── │ check 1 → check 2 → │
//	│ [PASS] lines │                    │ ... → cleanups LIFO │
//	└──────────────┘                    └─────────────────────┘
//
// # Env
//
// Every suite run gets a fresh Env. Checks share created ids through
// Set/GetString and register teardown with Cleanup. Cleanups run after the
// last check, newest first, with their own timeout so they still run when
// the run is cancelled. A failing cleanup is logged and not counted.
//
// Suites with RequiresAdmin get an extra "admin login" result first. When it
// fails the rest of the suite is skipped.
//
// # Outcomes
//
//	pass  check returned nil
//	fail  check returned an error or panicked
//	skip  Skip returned a reason, the check returned Skipf, the run was
//	      cancelled, or FailFast tripped
package probe
