package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/jzelinskie/cobrautil/v2"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/cataloro/cataloro-probe/internal/config"
)

// app holds what PersistentPreRunE loaded for the command being executed.
type app struct {
	cfg *config.Configuration
}

func NewRootCommand() *cobra.Command {
	a := &app{}
	defaults := config.NewConfigurationWithDefaults()

	root := &cobra.Command{
		Use:   "cataloro-probe",
		Short: "Black-box HTTP checks against Cataloro marketplace deployments",
		Long: `cataloro-probe runs suites of HTTP checks against a Cataloro deployment,
prints one PASS/FAIL line per check and a summary, and exits non-zero when the
run does not meet the pass policy.

Configuration is read, from highest to lowest precedence, from flags,
CATALORO_* environment variables, cataloro-probe.yaml and a .env file.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.preRun,
	}

	pf := root.PersistentFlags()
	pf.String("config", "", "config file (default ./cataloro-probe.yaml or $HOME/.config/cataloro-probe/cataloro-probe.yaml)")
	pf.String("env-file", ".env", "dotenv file loaded before reading the environment")
	pf.String("log-level", defaults.LogLevel, "log level: debug, info, warn or error")
	pf.String("log-format", defaults.LogFormat, "log format: console or json")
	pf.Bool("no-color", false, "disable colored output")
	pf.String("store-path", defaults.Store.Path, "run history database file")
	pf.Bool("no-store", false, "disable the run history database")

	root.AddCommand(
		a.newRunCommand(defaults),
		a.newListCommand(),
		a.newTargetsCommand(),
		a.newHistoryCommand(),
		a.newShowCommand(),
		a.newFlakyCommand(),
		a.newDeleteCommand(),
		a.newMockCommand(defaults),
		newVersionCommand(),
	)
	return root
}

func (a *app) preRun(cmd *cobra.Command, args []string) error {
	envFile, _ := cmd.Flags().GetString("env-file")
	if err := config.LoadDotEnv(envFile); err != nil {
		return err
	}

	if err := cobrautil.SyncViperPreRunE(config.EnvPrefix)(cmd, args); err != nil {
		return err
	}

	configFile, _ := cmd.Flags().GetString("config")
	v := config.NewViper(configFile)
	if err := config.BindFlags(v, cmd.Flags()); err != nil {
		return err
	}

	cfg, err := config.Load(v)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("failed to validate configuration: %w", err)
	}
	a.cfg = cfg

	if cfg.Report.NoColor || os.Getenv("NO_COLOR") != "" {
		cfg.Report.NoColor = true
		color.NoColor = true
	}

	logger, err := newLogger(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	zap.ReplaceGlobals(logger)

	zap.S().Named("cli").Debugw("configuration loaded", "command", cmd.Name(), "config_file", v.ConfigFileUsed())
	return nil
}

// newLogger writes to stderr so that stdout stays reserved for results.
func newLogger(level, format string) (*zap.Logger, error) {
	var zcfg zap.Config
	if format == "json" {
		zcfg = zap.NewProductionConfig()
	} else {
		zcfg = zap.NewDevelopmentConfig()
		zcfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		zcfg.DisableStacktrace = true
	}

	lvl, err := zapcore.ParseLevel(strings.ToLower(level))
	if err != nil {
		return nil, err
	}
	zcfg.Level = zap.NewAtomicLevelAt(lvl)
	zcfg.OutputPaths = []string{"stderr"}
	zcfg.ErrorOutputPaths = []string{"stderr"}
	return zcfg.Build()
}
