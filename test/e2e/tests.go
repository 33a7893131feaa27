package main

import (
	"context"
	"path/filepath"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/cataloro/cataloro-probe/internal/config"
	"github.com/cataloro/cataloro-probe/internal/models"
	"github.com/cataloro/cataloro-probe/internal/services"
	"github.com/cataloro/cataloro-probe/internal/store"
	"github.com/cataloro/cataloro-probe/internal/suites"
)

var _ = Describe("Probe run", Ordered, func() {
	var (
		ctx   context.Context
		st    *store.Store
		first *models.Run
	)

	BeforeAll(func() {
		ctx = context.Background()
		Expect(infraManager.StartBackend()).To(Succeed())

		db, err := store.NewDB(filepath.Join(GinkgoT().TempDir(), "e2e.duckdb"))
		Expect(err).NotTo(HaveOccurred())
		st = store.NewStore(db)
		Expect(st.Migrate(ctx)).To(Succeed())
	})

	AfterAll(func() {
		if st != nil {
			st.Close()
		}
		Expect(infraManager.StopBackend()).To(Succeed())
	})

	runOnce := func() *models.Run {
		probeCfg := config.NewConfigurationWithDefaults()
		probeCfg.BackendURL = infraManager.BackendURL()
		probeCfg.Admin = infraManager.Admin()
		probeCfg.Report.NoColor = true

		var names []string
		if cfg.Suites != "" {
			names = strings.Split(cfg.Suites, ",")
		}

		run, err := services.NewRunService(probeCfg, st, GinkgoWriter).Run(ctx, names)
		Expect(err).NotTo(HaveOccurred())
		return run
	}

	// Given a reachable backend
	// When every suite runs
	// Then no check fails and every suite reported results
	It("passes every suite", func() {
		first = runOnce()

		for _, f := range first.Failures() {
			AddReportEntry("failure", f.Suite+" / "+f.Check+": "+f.Error)
		}
		Expect(first.Summary.Failed).To(BeZero())
		Expect(first.Summary.Executed()).To(BeNumerically(">", 0))

		if cfg.Suites == "" {
			Expect(models.SummarizeBySuite(first.Results)).To(HaveLen(len(suites.All())))
		}
	})

	It("records the run in history", func() {
		stored, err := services.NewHistoryService(st).Get(ctx, "latest")
		Expect(err).NotTo(HaveOccurred())
		Expect(stored.ID).To(Equal(first.ID))
		Expect(stored.Results).To(HaveLen(len(first.Results)))
	})

	// Given a second run against the same backend
	// When flaky checks are computed over both runs
	// Then nothing flips, since both runs create their own data
	It("is repeatable", func() {
		second := runOnce()
		Expect(second.Summary.Failed).To(BeZero())

		flaky, err := services.NewHistoryService(st).Flaky(ctx, 2, "")
		Expect(err).NotTo(HaveOccurred())
		Expect(flaky).To(BeEmpty())
	})
})
