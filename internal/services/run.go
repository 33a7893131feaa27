package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/cataloro/cataloro-probe/internal/client"
	"github.com/cataloro/cataloro-probe/internal/config"
	"github.com/cataloro/cataloro-probe/internal/models"
	"github.com/cataloro/cataloro-probe/internal/probe"
	"github.com/cataloro/cataloro-probe/internal/report"
	"github.com/cataloro/cataloro-probe/internal/store"
	"github.com/cataloro/cataloro-probe/internal/suites"
	srvErrors "github.com/cataloro/cataloro-probe/pkg/errors"
)

// RunService executes suites against one deployment and records the outcome.
type RunService struct {
	cfg   *config.Configuration
	store *store.Store
	out   io.Writer
	opts  []client.Option
}

// NewRunService prints results to out. A nil store disables history.
func NewRunService(cfg *config.Configuration, st *store.Store, out io.Writer, opts ...client.Option) *RunService {
	return &RunService{cfg: cfg, store: st, out: out, opts: opts}
}

// Run resolves the target and the suites, waits for the backend if asked to,
// and runs every selected suite. Check failures are part of the returned run;
// the error covers setup, storage and export problems only. A run is returned
// whenever suites were executed, even alongside an error.
func (s *RunService) Run(ctx context.Context, names []string) (*models.Run, error) {
	log := zap.S().Named("run_service")

	target, backendURL, err := s.cfg.ResolveTarget()
	if err != nil {
		return nil, err
	}

	selected, err := suites.Select(names, s.cfg.Run.Tags)
	if err != nil {
		return nil, err
	}
	if len(selected) == 0 {
		return nil, fmt.Errorf("no suite matches tags %v", s.cfg.Run.Tags)
	}

	opts := append([]client.Option{client.WithTimeout(s.cfg.Run.RequestTimeout)}, s.opts...)
	c, err := client.New(backendURL, opts...)
	if err != nil {
		return nil, err
	}

	if s.cfg.Run.Wait {
		h, err := c.WaitReady(ctx, s.cfg.Run.WaitTimeout)
		if err != nil {
			return nil, err
		}
		log.Infow("backend ready", "target", target, "status", h.Status, "version", h.Version)
	}

	run := models.Run{
		ID:         uuid.NewString(),
		Target:     target,
		BackendURL: c.BaseURL(),
		Suites:     suiteNames(selected),
		StartedAt:  time.Now(),
	}
	log.Infow("run started", "id", run.ID, "target", target, "url", run.BackendURL, "suites", run.Suites)

	runner := probe.NewRunner(c, probe.NewRecorder(s.out), probe.Options{
		Concurrency: s.cfg.Run.Concurrency,
		FailFast:    s.cfg.Run.FailFast,
		Admin:       probe.Credentials{Email: s.cfg.Admin.Email, Password: s.cfg.Admin.Password},
	})
	run.Results = runner.Run(ctx, selected)
	run.FinishedAt = time.Now()
	run.Summary = models.Summarize(run.Results)
	run.Summary.Duration = run.FinishedAt.Sub(run.StartedAt)

	log.Infow("run finished", "id", run.ID, "passed", run.Summary.Passed, "failed", run.Summary.Failed,
		"skipped", run.Summary.Skipped, "rate", run.Summary.SuccessRate)

	if s.out != nil {
		report.NewConsole(s.out, s.cfg.Report.NoColor).Summary(run)
	}

	return &run, errors.Join(s.save(ctx, run), s.export(run))
}

func (s *RunService) save(ctx context.Context, run models.Run) error {
	if s.store == nil {
		return nil
	}
	// a cancelled run is still worth keeping
	if err := s.store.Runs().Save(context.WithoutCancel(ctx), run); err != nil {
		return fmt.Errorf("failed to store run %s: %w", run.ID, err)
	}
	zap.S().Named("run_service").Debugw("run stored", "id", run.ID)
	return nil
}

func (s *RunService) export(run models.Run) error {
	var errs []error
	if p := s.cfg.Report.XLSX; p != "" {
		errs = append(errs, report.WriteXLSX(p, run))
	}
	if p := s.cfg.Report.YAML; p != "" {
		errs = append(errs, report.WriteFile(p, run, report.WriteYAML))
	}
	if p := s.cfg.Report.JSON; p != "" {
		errs = append(errs, report.WriteFile(p, run, report.WriteJSON))
	}
	return errors.Join(errs...)
}

// Verdict applies the pass policy to a finished run. Without a minimum pass
// rate any failed check fails the run; with one, the run fails only when its
// success rate is below it. A run that executed nothing only fails when
// failOnEmpty is set.
func Verdict(run models.Run, policy config.Run) error {
	sum := run.Summary
	switch {
	case sum.Executed() == 0:
		if policy.FailOnEmpty {
			return srvErrors.NewRunFailedError("no check was executed", 0, 0)
		}
		return nil
	case policy.MinPassRate > 0:
		// SuccessRate is rounded for display; compare the exact ratio.
		rate := float64(sum.Passed) / float64(sum.Executed()) * 100
		if rate < policy.MinPassRate {
			return srvErrors.NewRunFailedError(fmt.Sprintf("success rate below %.1f%%", policy.MinPassRate), sum.Failed, sum.SuccessRate)
		}
		return nil
	case sum.Failed > 0:
		return srvErrors.NewRunFailedError(fmt.Sprintf("%d of %d checks failed", sum.Failed, sum.Executed()), sum.Failed, sum.SuccessRate)
	}
	return nil
}

func suiteNames(list []probe.Suite) []string {
	names := make([]string, 0, len(list))
	for _, s := range list {
		names = append(names, s.Name)
	}
	return names
}
