// Package services ties the probe together for the command line: it resolves
// the target, runs suites, stores runs and answers history queries.
//
// # Service Dependency Graph
//
//	CLI commands
//	    │
//	    ▼
//	Services Layer
//	    ├── RunService ─────► Config, Client, Suites, Runner, Store, Report
//	    └── HistoryService ─► Store
//
// # RunService
//
// One call to Run is one probe run:
//
//	┌─────────┐   ┌──────────┐   ┌───────────┐   ┌─────────┐   ┌──────────┐
//	│ resolve │──►│ wait for │──►│ run the   │──►│ print   │──►│ store &  │
//	│ target  │   │ /health  │   │ suites    │   │ summary │   │ export   │
//	└─────────┘   └──────────┘   └───────────┘   └─────────┘   └──────────┘
//
// Along the way:
//   - The target is --backend-url when given, else the named target, else
//     default_target.
//   - Suites are selected by name and tag (see suites.Select).
//   - Waiting uses exponential backoff up to run.wait_timeout and is skipped
//     when run.wait is false.
//   - Results are printed as they arrive; the summary follows the last one.
//   - The run is saved even when its context was cancelled. Storage and
//     export failures are returned together with the run.
//
// Verdict turns a finished run into the process outcome:
//
//	┌──────────────────────────────┬──────────────────────────────────┐
//	│  Condition                   │  Result                          │
//	├──────────────────────────────┼──────────────────────────────────┤
//	│  nothing executed            │  ok, RunFailedError if           │
//	│                              │  fail_on_empty                   │
//	│  min_pass_rate > 0           │  RunFailedError if rate < min    │
//	│  otherwise                   │  RunFailedError if any failed    │
//	└──────────────────────────────┴──────────────────────────────────┘
//
// Usage:
//
//	svc := services.NewRunService(cfg, st, os.Stdout)
//	run, err := svc.Run(ctx, []string{"auth", "catalyst"})
//	if run != nil {
//	    err = errors.Join(err, services.Verdict(*run, cfg.Run))
//	}
//
// # HistoryService
//
// A stateless facade over the store. List supports target and start time
// filters with pagination and also returns the unpaginated total:
//
//	history := services.NewHistoryService(st)
//	res, err := history.List(ctx, services.HistoryParams{
//	    Targets: []string{"staging"},
//	    Limit:   20,
//	})
//
// Get accepts a run id or "latest". Flaky reports the checks with both a
// pass and a fail over the last N runs (10 by default).
package services
