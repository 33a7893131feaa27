package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/cataloro/cataloro-probe/internal/probe"
	"github.com/cataloro/cataloro-probe/internal/report"
	"github.com/cataloro/cataloro-probe/internal/services"
)

func (a *app) newHistoryCommand() *cobra.Command {
	var (
		target string
		since  time.Duration
		limit  uint64
		offset uint64
	)

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded runs, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := a.mustStore(cmd.Context())
			if err != nil {
				return err
			}
			defer st.Close()

			params := services.HistoryParams{Limit: limit, Offset: offset}
			if target != "" {
				params.Targets = []string{target}
			}
			if since > 0 {
				params.Since = time.Now().Add(-since)
			}

			res, err := services.NewHistoryService(st).List(cmd.Context(), params)
			if err != nil {
				return err
			}

			report.NewConsole(os.Stdout, a.cfg.Report.NoColor).History(res.Runs)
			if len(res.Runs) < res.Total {
				fmt.Printf("\nshowing %d of %d runs\n", len(res.Runs), res.Total)
			}
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&target, "target", "", "only runs against this target")
	f.DurationVar(&since, "since", 0, "only runs started within this duration, e.g. 24h")
	f.Uint64Var(&limit, "limit", 20, "maximum number of runs")
	f.Uint64Var(&offset, "offset", 0, "number of runs to skip")
	return cmd
}

func (a *app) newShowCommand() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "show <run-id|latest>",
		Short: "Show the results of a recorded run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := a.mustStore(cmd.Context())
			if err != nil {
				return err
			}
			defer st.Close()

			run, err := services.NewHistoryService(st).Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			switch format {
			case "json":
				return report.WriteJSON(os.Stdout, *run)
			case "yaml":
				return report.WriteYAML(os.Stdout, *run)
			case "table":
				report.NewConsole(os.Stdout, a.cfg.Report.NoColor).Results(*run, probe.FormatResult)
				return nil
			default:
				return fmt.Errorf("invalid format %q: must be table, json or yaml", format)
			}
		},
	}
	cmd.Flags().StringVarP(&format, "output", "o", "table", "output format: table, json or yaml")
	return cmd
}

func (a *app) newFlakyCommand() *cobra.Command {
	var (
		window int
		target string
	)

	cmd := &cobra.Command{
		Use:   "flaky",
		Short: "List checks that both passed and failed in recent runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := a.mustStore(cmd.Context())
			if err != nil {
				return err
			}
			defer st.Close()

			checks, err := services.NewHistoryService(st).Flaky(cmd.Context(), window, target)
			if err != nil {
				return err
			}
			report.NewConsole(os.Stdout, a.cfg.Report.NoColor).Flaky(checks, window)
			return nil
		},
	}
	cmd.Flags().IntVar(&window, "window", 10, "number of recent runs to consider")
	cmd.Flags().StringVar(&target, "target", "", "only runs against this target")
	return cmd
}

func (a *app) newDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <run-id>",
		Short: "Delete a recorded run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := a.mustStore(cmd.Context())
			if err != nil {
				return err
			}
			defer st.Close()

			if err := services.NewHistoryService(st).Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Printf("deleted run %s\n", args[0])
			return nil
		},
	}
}
