package cmd

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/cataloro/cataloro-probe/internal/suites"
)

func (a *app) newListCommand() *cobra.Command {
	var tags []string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the available suites",
		RunE: func(cmd *cobra.Command, args []string) error {
			selected, err := suites.Select(nil, tags)
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "SUITE\tCHECKS\tADMIN\tTAGS\tDESCRIPTION")
			for _, s := range selected {
				admin := ""
				if s.RequiresAdmin {
					admin = "yes"
				}
				fmt.Fprintf(tw, "%s\t%d\t%s\t%s\t%s\n", s.Name, len(s.Checks), admin, strings.Join(s.Tags, ","), s.Description)
			}
			if err := tw.Flush(); err != nil {
				return err
			}
			fmt.Printf("\ntags: %s\n", strings.Join(suites.Tags(), ", "))
			return nil
		},
	}
	cmd.Flags().StringSliceVar(&tags, "tags", nil, "only list suites carrying one of these tags")
	return cmd
}

func (a *app) newTargetsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "targets",
		Short: "List the configured deployments",
		RunE: func(cmd *cobra.Command, args []string) error {
			names := a.cfg.TargetNames()
			if len(names) == 0 {
				fmt.Println("no targets configured; add a targets map to cataloro-probe.yaml or use --backend-url")
				return nil
			}

			tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "NAME\tURL\tDEFAULT")
			for _, n := range names {
				def := ""
				if strings.EqualFold(n, a.cfg.DefaultTarget) {
					def = "*"
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\n", n, a.cfg.Targets[n], def)
			}
			return tw.Flush()
		},
	}
}
