package services_test

import (
	"bytes"
	"context"
	"database/sql"
	"net/http/httptest"
	"os"
	"path/filepath"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/cataloro/cataloro-probe/internal/config"
	"github.com/cataloro/cataloro-probe/internal/mockserver"
	"github.com/cataloro/cataloro-probe/internal/models"
	"github.com/cataloro/cataloro-probe/internal/services"
	"github.com/cataloro/cataloro-probe/internal/store"
	srvErrors "github.com/cataloro/cataloro-probe/pkg/errors"
)

var _ = Describe("RunService", func() {
	var (
		ctx context.Context
		srv *httptest.Server
		db  *sql.DB
		st  *store.Store
		cfg *config.Configuration
		out *bytes.Buffer
		dir string
	)

	BeforeEach(func() {
		ctx = context.Background()
		dir = GinkgoT().TempDir()

		mock, err := mockserver.NewServer(mockserver.Options{
			JWTSecret:     "services-secret",
			AdminEmail:    "admin@cataloro.com",
			AdminPassword: "admin123",
		})
		Expect(err).NotTo(HaveOccurred())
		srv = httptest.NewServer(mock.Handler())

		db, err = store.NewDB(":memory:")
		Expect(err).NotTo(HaveOccurred())
		st = store.NewStore(db)
		Expect(st.Migrate(ctx)).To(Succeed())

		cfg = config.NewConfigurationWithDefaults()
		cfg.BackendURL = srv.URL
		cfg.Run.WaitTimeout = 5 * time.Second
		cfg.Report.NoColor = true
		out = &bytes.Buffer{}
	})

	AfterEach(func() {
		srv.Close()
		db.Close()
	})

	// Given a healthy backend and the auth suite
	// When the run finishes
	// Then it is printed, stored and exported
	It("should run, store and export", func() {
		cfg.Report.YAML = filepath.Join(dir, "run.yaml")
		cfg.Report.XLSX = filepath.Join(dir, "run.xlsx")

		run, err := services.NewRunService(cfg, st, out).Run(ctx, []string{"auth"})
		Expect(err).NotTo(HaveOccurred())
		Expect(run.Target).To(Equal(config.CustomTarget))
		Expect(run.Suites).To(Equal([]string{"auth"}))
		Expect(run.Summary.Failed).To(Equal(0))
		Expect(run.Summary.Passed).To(BeNumerically(">", 5))
		Expect(services.Verdict(*run, cfg.Run)).To(Succeed())
		Expect(run.Summary.Duration).To(Equal(run.FinishedAt.Sub(run.StartedAt)))

		Expect(out.String()).To(ContainSubstring("[PASS] auth / health"))
		Expect(out.String()).To(ContainSubstring("Success rate: 100.0%"))

		stored, err := st.Runs().Get(ctx, run.ID)
		Expect(err).NotTo(HaveOccurred())
		Expect(stored.Results).To(HaveLen(len(run.Results)))
		Expect(stored.Summary.Duration).To(Equal(run.Summary.Duration.Truncate(time.Millisecond)))

		for _, p := range []string{cfg.Report.YAML, cfg.Report.XLSX} {
			info, err := os.Stat(p)
			Expect(err).NotTo(HaveOccurred())
			Expect(info.Size()).To(BeNumerically(">", 0))
		}
	})

	It("should record failures when admin credentials are wrong", func() {
		cfg.Admin.Password = "wrong"

		run, err := services.NewRunService(cfg, nil, nil).Run(ctx, []string{"export"})
		Expect(err).NotTo(HaveOccurred())
		Expect(run.Summary.Failed).To(Equal(1))
		Expect(run.Summary.Skipped).To(BeNumerically(">", 0))

		verdict := services.Verdict(*run, cfg.Run)
		Expect(srvErrors.IsRunFailedError(verdict)).To(BeTrue())
	})

	It("should select suites by tag", func() {
		cfg.Run.Tags = []string{"smoke"}

		run, err := services.NewRunService(cfg, nil, nil).Run(ctx, nil)
		Expect(err).NotTo(HaveOccurred())
		Expect(run.Suites).To(Equal([]string{"auth", "marketplace"}))
	})

	It("should reject unknown suites and targets before running", func() {
		_, err := services.NewRunService(cfg, st, out).Run(ctx, []string{"nope"})
		Expect(srvErrors.IsUnknownSuiteError(err)).To(BeTrue())

		cfg.BackendURL = ""
		cfg.Target = "preview"
		_, err = services.NewRunService(cfg, st, out).Run(ctx, []string{"auth"})
		Expect(srvErrors.IsUnknownTargetError(err)).To(BeTrue())

		n, err := st.Runs().Count(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(n).To(BeZero())
	})

	It("should give up when the backend never becomes ready", func() {
		dead := httptest.NewServer(nil)
		dead.Close()
		cfg.BackendURL = dead.URL
		cfg.Run.WaitTimeout = 300 * time.Millisecond

		_, err := services.NewRunService(cfg, st, out).Run(ctx, []string{"auth"})
		Expect(err).To(MatchError(ContainSubstring("not ready after")))
	})
})

var _ = Describe("Verdict", func() {
	summary := func(passed, failed, skipped int) models.Run {
		var results []models.CheckResult
		for i := 0; i < passed; i++ {
			results = append(results, models.CheckResult{Outcome: models.OutcomePass})
		}
		for i := 0; i < failed; i++ {
			results = append(results, models.CheckResult{Outcome: models.OutcomeFail})
		}
		for i := 0; i < skipped; i++ {
			results = append(results, models.CheckResult{Outcome: models.OutcomeSkip})
		}
		return models.Run{Results: results, Summary: models.Summarize(results)}
	}

	DescribeTable("pass policy",
		func(run models.Run, policy config.Run, fails bool) {
			err := services.Verdict(run, policy)
			if fails {
				Expect(srvErrors.IsRunFailedError(err)).To(BeTrue())
			} else {
				Expect(err).NotTo(HaveOccurred())
			}
		},
		Entry("all passed", summary(4, 0, 1), config.Run{}, false),
		Entry("one failure", summary(9, 1, 0), config.Run{}, true),
		Entry("rate above minimum", summary(9, 1, 0), config.Run{MinPassRate: 80}, false),
		Entry("rate below minimum", summary(3, 2, 0), config.Run{MinPassRate: 80}, true),
		Entry("rate exactly at minimum", summary(8, 2, 0), config.Run{MinPassRate: 80}, false),
		Entry("rate that only rounds up to the minimum", summary(7996, 2004, 0), config.Run{MinPassRate: 80}, true),
		Entry("only skips", summary(0, 0, 3), config.Run{}, false),
		Entry("only skips with fail on empty", summary(0, 0, 3), config.Run{FailOnEmpty: true}, true),
	)
})

var _ = Describe("HistoryService", func() {
	var (
		ctx     context.Context
		db      *sql.DB
		st      *store.Store
		history *services.HistoryService
		base    time.Time
	)

	save := func(id, target string, offset time.Duration, outcome models.Outcome) {
		results := []models.CheckResult{{Suite: "auth", Check: "login", Outcome: outcome, Timestamp: base.Add(offset)}}
		Expect(st.Runs().Save(ctx, models.Run{
			ID: id, Target: target, BackendURL: "http://x/api", Suites: []string{"auth"},
			StartedAt: base.Add(offset), FinishedAt: base.Add(offset + time.Second),
			Results: results, Summary: models.Summarize(results),
		})).To(Succeed())
	}

	BeforeEach(func() {
		ctx = context.Background()
		base = time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)

		var err error
		db, err = store.NewDB(":memory:")
		Expect(err).NotTo(HaveOccurred())
		st = store.NewStore(db)
		Expect(st.Migrate(ctx)).To(Succeed())
		history = services.NewHistoryService(st)

		save("r1", "staging", 0, models.OutcomePass)
		save("r2", "preview", time.Hour, models.OutcomeFail)
		save("r3", "staging", 2*time.Hour, models.OutcomeFail)
	})

	AfterEach(func() {
		db.Close()
	})

	It("should paginate and report the unpaginated total", func() {
		res, err := history.List(ctx, services.HistoryParams{Targets: []string{"staging"}, Limit: 1})
		Expect(err).NotTo(HaveOccurred())
		Expect(res.Total).To(Equal(2))
		Expect(res.Runs).To(HaveLen(1))
		Expect(res.Runs[0].ID).To(Equal("r3"))
	})

	It("should resolve latest", func() {
		run, err := history.Get(ctx, "latest")
		Expect(err).NotTo(HaveOccurred())
		Expect(run.ID).To(Equal("r3"))
		Expect(run.Results).To(HaveLen(1))
	})

	It("should report flaky checks per target", func() {
		flaky, err := history.Flaky(ctx, 0, "staging")
		Expect(err).NotTo(HaveOccurred())
		Expect(flaky).To(HaveLen(1))
		Expect(flaky[0].Check).To(Equal("login"))

		flaky, err = history.Flaky(ctx, 0, "preview")
		Expect(err).NotTo(HaveOccurred())
		Expect(flaky).To(BeEmpty())
	})

	It("should delete runs", func() {
		Expect(history.Delete(ctx, "r1")).To(Succeed())
		_, err := history.Get(ctx, "r1")
		Expect(srvErrors.IsResourceNotFoundError(err)).To(BeTrue())
	})
})
