// Package config defines the configuration structure for cataloro-probe.
//
// Configuration is organized into logical sections (targets, Admin, Run, Report,
// Store, Mock) and is assembled by viper from several sources. Defaults come
// from `default` struct tags applied with creasty/defaults.
//
// # Sources
//
// Highest precedence first:
//
//	┌──────────────────────────────┬──────────────────────────────────────────┐
//	│ Source                       │ Example                                  │
//	├──────────────────────────────┼──────────────────────────────────────────┤
//	│ Command line flags           │ --concurrency 4                          │
//	│ CATALORO_* environment       │ CATALORO_CONCURRENCY=4                   │
//	│ Config file                  │ run: {concurrency: 4}                    │
//	│ .env file                    │ CATALORO_BACKEND_URL=https://...         │
//	│ Struct defaults              │ `default:"1"`                            │
//	└──────────────────────────────┴──────────────────────────────────────────┘
//
// The config file is cataloro-probe.yaml, looked up in the working directory
// and in $HOME/.config/cataloro-probe, unless --config names one explicitly.
// Variables from .env are loaded into the process environment before viper
// reads it, so they behave like CATALORO_* variables set by the shell.
//
// # Targets
//
// Preview deployments are declared once and selected by name:
//
//	default_target: staging
//	targets:
//	  staging: https://cataloro-staging.example.com
//	  preview-1234: https://preview-1234.example.com
//
// --backend-url bypasses the map; the run is then recorded under the
// "custom" target.
//
// # Run Configuration
//
//	┌────────────────┬─────────┬──────────────────────────────────────────────┐
//	│ Field          │ Default │ Description                                  │
//	├────────────────┼─────────┼──────────────────────────────────────────────┤
//	│ Concurrency    │ 1       │ Suites executed in parallel                  │
//	│ FailFast       │ false   │ Skip the rest of a suite after a failure     │
//	│ FailOnEmpty    │ false   │ Exit non-zero when no check was executed     │
//	│ Tags           │ []      │ Only run suites carrying one of these tags   │
//	│ RequestTimeout │ 30s     │ Per HTTP request timeout                     │
//	│ Wait           │ true    │ Wait for /api/health before running          │
//	│ WaitTimeout    │ 60s     │ Give up waiting after this long              │
//	│ MinPassRate    │ 0       │ Exit non-zero below this success rate (%)    │
//	└────────────────┴─────────┴──────────────────────────────────────────────┘
//
// # Report, Store and Mock
//
//	┌──────────────────────┬───────────────────────┬──────────────────────────┐
//	│ Field                │ Default               │ Description              │
//	├──────────────────────┼───────────────────────┼──────────────────────────┤
//	│ Report.XLSX          │ ""                    │ Write an xlsx report     │
//	│ Report.YAML          │ ""                    │ Write a yaml report      │
//	│ Report.JSON          │ ""                    │ Write a json report      │
//	│ Report.NoColor       │ false                 │ Plain console output     │
//	│ Store.Path           │ cataloro-probe.duckdb │ Run history database     │
//	│ Store.Disabled       │ false                 │ Do not record the run    │
//	│ Mock.Addr            │ :8001                 │ Fake backend listen addr │
//	│ Mock.JWTSecret       │ cataloro-mock-secret  │ Fake backend HS256 key   │
//	└──────────────────────┴───────────────────────┴──────────────────────────┘
//
// # Usage Example
//
//	_ = config.LoadDotEnv()
//	v := config.NewViper("")
//	_ = config.BindFlags(v, cmd.Flags())
//	cfg, err := config.Load(v)
//	if err != nil {
//	    return err
//	}
//	if err := cfg.Validate(); err != nil {
//	    return err
//	}
//	name, url, err := cfg.ResolveTarget()
package config
