package cmd

import (
	"errors"
	"os"

	"github.com/spf13/cobra"

	"github.com/cataloro/cataloro-probe/internal/config"
	"github.com/cataloro/cataloro-probe/internal/services"
	"github.com/cataloro/cataloro-probe/internal/suites"
)

func (a *app) newRunCommand(defaults *config.Configuration) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run [suites...]",
		Short: "Run check suites against a deployment",
		Long: `Run the named suites, or every suite when none is named, against the
selected deployment. The process exits with status 1 when any check failed,
or when the success rate is below --min-pass-rate if one is set.`,
		Example: `  cataloro-probe run --backend-url https://market.example.com
  cataloro-probe run auth catalyst --target staging --xlsx report.xlsx
  cataloro-probe run --tags smoke --min-pass-rate 80`,
		ValidArgs: suites.Names(),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := a.openStore(cmd.Context())
			if err != nil {
				return err
			}
			if st != nil {
				defer st.Close()
			}

			run, err := services.NewRunService(a.cfg, st, os.Stdout).Run(cmd.Context(), args)
			if run == nil {
				return err
			}
			return errors.Join(err, services.Verdict(*run, a.cfg.Run))
		},
	}

	f := cmd.Flags()
	f.String("target", "", "named deployment from the targets configuration")
	f.String("backend-url", "", "deployment URL, overrides --target")
	f.String("admin-email", defaults.Admin.Email, "admin account used by admin suites")
	f.String("admin-password", defaults.Admin.Password, "admin account password")
	f.Int("concurrency", defaults.Run.Concurrency, "number of suites run at once")
	f.Bool("fail-fast", false, "skip the rest of a suite after its first failure")
	f.Bool("fail-on-empty", false, "fail the run when no check was executed")
	f.StringSlice("tags", nil, "only run suites carrying one of these tags")
	f.Duration("timeout", defaults.Run.RequestTimeout, "timeout of a single request")
	f.Bool("wait", defaults.Run.Wait, "wait for /health before running")
	f.Duration("wait-timeout", defaults.Run.WaitTimeout, "how long to wait for /health")
	f.Float64("min-pass-rate", 0, "pass the run when the success rate reaches this percentage")
	f.String("xlsx", "", "write the run to an xlsx workbook")
	f.String("yaml", "", "write the run as YAML (- for stdout)")
	f.String("json", "", "write the run as JSON (- for stdout)")
	return cmd
}
