package probe

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/cataloro/cataloro-probe/internal/client"
	"github.com/cataloro/cataloro-probe/internal/models"
	srvErrors "github.com/cataloro/cataloro-probe/pkg/errors"
	"github.com/cataloro/cataloro-probe/pkg/scheduler"
)

const adminLoginCheck = "admin login"

type Options struct {
	// Concurrency is the number of suites run at once. Checks within a suite are always sequential.
	Concurrency int
	// FailFast skips the rest of a suite after its first failure.
	FailFast bool
	Admin    Credentials
}

type Runner struct {
	client   *client.Client
	recorder *Recorder
	opts     Options
}

func NewRunner(c *client.Client, recorder *Recorder, opts Options) *Runner {
	if opts.Concurrency < 1 {
		opts.Concurrency = 1
	}
	return &Runner{client: c, recorder: recorder, opts: opts}
}

// Run executes suites and returns their results grouped by suite, in the order
// suites were given. Exclusive suites run alone, after the others have finished.
// Cancelling ctx skips every check not started yet.
func (r *Runner) Run(ctx context.Context, suites []Suite) []models.CheckResult {
	results := make([][]models.CheckResult, len(suites))

	var shared, exclusive []int
	for i, s := range suites {
		if s.Exclusive {
			exclusive = append(exclusive, i)
		} else {
			shared = append(shared, i)
		}
	}

	r.runBatch(ctx, suites, shared, r.opts.Concurrency, results)
	for _, i := range exclusive {
		r.runBatch(ctx, suites, []int{i}, 1, results)
	}

	var out []models.CheckResult
	for _, res := range results {
		out = append(out, res...)
	}
	return out
}

// runBatch runs suites[idx] on n workers and stores each suite's results at its index.
func (r *Runner) runBatch(ctx context.Context, suites []Suite, idx []int, n int, results [][]models.CheckResult) {
	if len(idx) == 0 {
		return
	}
	sched := scheduler.New[[]models.CheckResult](ctx, n)
	defer sched.Close()

	futures := make([]*scheduler.Future[scheduler.Result[[]models.CheckResult]], 0, len(idx))
	for _, i := range idx {
		s := suites[i]
		futures = append(futures, sched.AddWork(s.Name, func(ctx context.Context) ([]models.CheckResult, error) {
			return r.RunSuite(ctx, s), nil
		}))
	}

	for k, f := range futures {
		s := suites[idx[k]]
		res := <-f.C()
		if res.Err != nil {
			// the suite never ran, or died outside of its checks
			zap.S().Named("probe").Warnw("suite not run", "suite", s.Name, "error", res.Err)
			results[idx[k]] = r.skipAll(s, s.Checks, res.Err.Error())
			continue
		}
		results[idx[k]] = res.Data
	}
}

// RunSuite runs the checks of s in order on a fresh Env, then its cleanups.
func (r *Runner) RunSuite(ctx context.Context, s Suite) []models.CheckResult {
	log := zap.S().Named("probe")
	log.Infow("running suite", "suite", s.Name, "checks", len(s.Checks))

	env := NewEnv(s.Name, r.client, r.opts.Admin)
	defer env.runCleanups(ctx)

	if ctx.Err() != nil {
		return r.skipAll(s, s.Checks, "cancelled")
	}

	var out []models.CheckResult
	if s.RequiresAdmin {
		res := r.timed(s.Name, adminLoginCheck, func() error { return env.LoginAdmin(ctx) })
		if res.Outcome == models.OutcomePass {
			res.Details = "logged in as " + r.opts.Admin.Email
		}
		r.finish(&res)
		out = append(out, res)
		if res.Outcome == models.OutcomeFail {
			return append(out, r.skipAll(s, s.Checks, "admin login failed")...)
		}
	}

	for i, c := range s.Checks {
		if ctx.Err() != nil {
			return append(out, r.skipAll(s, s.Checks[i:], "cancelled")...)
		}

		res := r.runCheck(ctx, env, s.Name, c)
		out = append(out, res)

		if res.Outcome == models.OutcomeFail && r.opts.FailFast {
			return append(out, r.skipAll(s, s.Checks[i+1:], "fail-fast: "+c.Name+" failed")...)
		}
	}

	sum := models.Summarize(out)
	log.Infow("suite finished", "suite", s.Name, "passed", sum.Passed, "failed", sum.Failed, "skipped", sum.Skipped)
	return out
}

func (r *Runner) runCheck(ctx context.Context, env *Env, suite string, c Check) models.CheckResult {
	if c.Skip != nil {
		if reason := c.Skip(env); reason != "" {
			res := models.CheckResult{Suite: suite, Check: c.Name, Outcome: models.OutcomeSkip, Details: reason, Timestamp: time.Now()}
			r.recorder.Record(res)
			return res
		}
	}

	env.takeDetails()
	res := r.timed(suite, c.Name, func() error { return c.Run(ctx, env) })
	if d := env.takeDetails(); d != "" && res.Details == "" {
		res.Details = d
	}
	r.finish(&res)
	return res
}

// timed runs fn, converting panics into failures, and fills outcome, error and duration.
func (r *Runner) timed(suite, check string, fn func() error) (res models.CheckResult) {
	start := time.Now()
	res = models.CheckResult{Suite: suite, Check: check, Timestamp: start}

	defer func() {
		if rec := recover(); rec != nil {
			res.Outcome = models.OutcomeFail
			res.Error = fmt.Sprintf("panic: %v", rec)
		}
		res.Duration = time.Since(start)
	}()

	err := fn()
	switch reason, skipped := isSkip(err); {
	case err == nil:
		res.Outcome = models.OutcomePass
	case skipped:
		res.Outcome = models.OutcomeSkip
		res.Details = reason
	default:
		res.Outcome = models.OutcomeFail
		res.Error = err.Error()
		res.StatusCode = srvErrors.StatusCode(err)
	}
	return res
}

func (r *Runner) finish(res *models.CheckResult) {
	r.recorder.Record(*res)
}

func (r *Runner) skipAll(s Suite, checks []Check, reason string) []models.CheckResult {
	out := make([]models.CheckResult, 0, len(checks))
	for _, c := range checks {
		res := models.CheckResult{Suite: s.Name, Check: c.Name, Outcome: models.OutcomeSkip, Details: reason, Timestamp: time.Now()}
		r.recorder.Record(res)
		out = append(out, res)
	}
	return out
}
