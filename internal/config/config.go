package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/creasty/defaults"
	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	srvErrors "github.com/cataloro/cataloro-probe/pkg/errors"
)

const (
	EnvPrefix      = "CATALORO"
	ConfigFileName = "cataloro-probe"

	// CustomTarget names a run started with an explicit backend URL.
	CustomTarget = "custom"
)

type Configuration struct {
	Target        string            `mapstructure:"target"`
	BackendURL    string            `mapstructure:"backend_url"`
	DefaultTarget string            `mapstructure:"default_target"`
	Targets       map[string]string `mapstructure:"targets"`
	Admin         Credentials       `mapstructure:"admin"`
	Run           Run               `mapstructure:"run"`
	Report        Report            `mapstructure:"report"`
	Store         Store             `mapstructure:"store"`
	Mock          Mock              `mapstructure:"mock"`
	LogLevel      string            `mapstructure:"log_level" default:"info"`
	LogFormat     string            `mapstructure:"log_format" default:"console"`
}

type Credentials struct {
	Email    string `mapstructure:"email" default:"admin@cataloro.com"`
	Password string `mapstructure:"password" default:"admin123"`
}

type Run struct {
	Concurrency    int           `mapstructure:"concurrency" default:"1"`
	FailFast       bool          `mapstructure:"fail_fast"`
	FailOnEmpty    bool          `mapstructure:"fail_on_empty"`
	Tags           []string      `mapstructure:"tags"`
	RequestTimeout time.Duration `mapstructure:"request_timeout" default:"30s"`
	Wait           bool          `mapstructure:"wait" default:"true"`
	WaitTimeout    time.Duration `mapstructure:"wait_timeout" default:"60s"`
	MinPassRate    float64       `mapstructure:"min_pass_rate"`
}

type Report struct {
	XLSX    string `mapstructure:"xlsx"`
	YAML    string `mapstructure:"yaml"`
	JSON    string `mapstructure:"json"`
	NoColor bool   `mapstructure:"no_color"`
}

type Store struct {
	Path     string `mapstructure:"path" default:"cataloro-probe.duckdb"`
	Disabled bool   `mapstructure:"disabled"`
}

type Mock struct {
	Addr          string `mapstructure:"addr" default:":8001"`
	JWTSecret     string `mapstructure:"jwt_secret" default:"cataloro-mock-secret"`
	AdminEmail    string `mapstructure:"admin_email" default:"admin@cataloro.com"`
	AdminPassword string `mapstructure:"admin_password" default:"admin123"`
}

// NewConfigurationWithDefaults returns a Configuration filled from the default tags.
func NewConfigurationWithDefaults() *Configuration {
	cfg := &Configuration{}
	if err := defaults.Set(cfg); err != nil {
		// tags are static; a failure here is a programming error
		panic(fmt.Sprintf("invalid configuration defaults: %v", err))
	}
	return cfg
}

// flagKeys maps command line flags to configuration keys.
var flagKeys = map[string]string{
	"target":         "target",
	"backend-url":    "backend_url",
	"admin-email":    "admin.email",
	"admin-password": "admin.password",
	"concurrency":    "run.concurrency",
	"fail-fast":      "run.fail_fast",
	"fail-on-empty":  "run.fail_on_empty",
	"tags":           "run.tags",
	"timeout":        "run.request_timeout",
	"wait":           "run.wait",
	"wait-timeout":   "run.wait_timeout",
	"min-pass-rate":  "run.min_pass_rate",
	"xlsx":           "report.xlsx",
	"yaml":           "report.yaml",
	"json":           "report.json",
	"no-color":       "report.no_color",
	"store-path":     "store.path",
	"no-store":       "store.disabled",
	"mock-addr":      "mock.addr",
	"jwt-secret":     "mock.jwt_secret",
	"log-level":      "log_level",
	"log-format":     "log_format",
}

// NewViper returns a viper instance reading the config file and CATALORO_* environment.
// configFile may be empty, in which case the default locations are searched.
func NewViper(configFile string) *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName(ConfigFileName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/cataloro-probe")
	}
	return v
}

// BindFlags binds every known flag present in fs to its configuration key.
func BindFlags(v *viper.Viper, fs *pflag.FlagSet) error {
	names := make([]string, 0, len(flagKeys))
	for name := range flagKeys {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		f := fs.Lookup(name)
		if f == nil {
			continue
		}
		if err := v.BindPFlag(flagKeys[name], f); err != nil {
			return fmt.Errorf("binding flag %s: %w", name, err)
		}
	}
	return nil
}

// LoadDotEnv loads .env files into the process environment. Missing files are ignored.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("loading %s: %w", p, err)
		}
	}
	return nil
}

// Load reads the config file, if any, and decodes v on top of the defaults.
func Load(v *viper.Viper) (*Configuration, error) {
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	cfg := NewConfigurationWithDefaults()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decoding configuration: %w", err)
	}
	return cfg, nil
}

// Validate checks values that cannot be caught by flag parsing.
func (c *Configuration) Validate() error {
	if c.Run.Concurrency < 1 {
		return fmt.Errorf("invalid concurrency %d: must be at least 1", c.Run.Concurrency)
	}
	if c.Run.MinPassRate < 0 || c.Run.MinPassRate > 100 {
		return fmt.Errorf("invalid min-pass-rate %v: must be within [0, 100]", c.Run.MinPassRate)
	}
	if c.Run.RequestTimeout <= 0 {
		return errors.New("request timeout must be positive")
	}
	if c.Run.Wait && c.Run.WaitTimeout <= 0 {
		return fmt.Errorf("invalid wait timeout %s: must be positive", c.Run.WaitTimeout)
	}
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level %q", c.LogLevel)
	}
	switch c.LogFormat {
	case "console", "json":
	default:
		return fmt.Errorf("invalid log format %q: must be 'console' or 'json'", c.LogFormat)
	}
	if c.BackendURL != "" {
		if err := validateURL(c.BackendURL); err != nil {
			return fmt.Errorf("invalid backend url: %w", err)
		}
	}
	for name, u := range c.Targets {
		if err := validateURL(u); err != nil {
			return fmt.Errorf("invalid url for target %q: %w", name, err)
		}
	}
	return nil
}

// ResolveTarget returns the target name and backend URL the run should use.
// An explicit backend URL wins over named targets.
func (c *Configuration) ResolveTarget() (string, string, error) {
	if c.BackendURL != "" {
		return CustomTarget, c.BackendURL, nil
	}

	name := c.Target
	if name == "" {
		name = c.DefaultTarget
	}
	if name == "" {
		return "", "", errors.New("no target selected: set --backend-url, --target or default_target")
	}

	u, ok := c.lookupTarget(name)
	if !ok {
		return "", "", srvErrors.NewUnknownTargetError(name)
	}
	return name, u, nil
}

// TargetNames returns the configured deployment names in sorted order.
func (c *Configuration) TargetNames() []string {
	names := make([]string, 0, len(c.Targets))
	for name := range c.Targets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// viper lower-cases map keys, so targets are matched case-insensitively.
func (c *Configuration) lookupTarget(name string) (string, bool) {
	if u, ok := c.Targets[name]; ok {
		return u, true
	}
	for k, u := range c.Targets {
		if strings.EqualFold(k, name) {
			return u, true
		}
	}
	return "", false
}

func validateURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return err
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("unsupported scheme %q", u.Scheme)
	}
	if u.Host == "" {
		return errors.New("missing host")
	}
	return nil
}
