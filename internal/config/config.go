// Package config loads and validates enqueue-tally configuration via Viper.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/JakeFAU/enqueue-tally/internal/logline"
)

// EnvPrefix scopes every environment override, e.g. ENQTALLY_FILTER_STRICT=true.
const EnvPrefix = "ENQTALLY"

// FileName is the config file searched for when no explicit path is given.
const FileName = ".enqueue-tally"

// Config captures all knobs loaded via Viper.
type Config struct {
	Logging LoggingConfig `mapstructure:"logging"`
	Filter  FilterConfig  `mapstructure:"filter"`
	Report  ReportConfig  `mapstructure:"report"`
	Metrics MetricsConfig `mapstructure:"metrics"`
}

// LoggingConfig toggles zap development features.
type LoggingConfig struct {
	Development bool   `mapstructure:"development"`
	Level       string `mapstructure:"level"`
}

// FilterConfig describes which log lines are tallied.
type FilterConfig struct {
	HeaderPrefixes []string `mapstructure:"header_prefixes"`
	DoneSuffix     string   `mapstructure:"done_suffix"`
	PathSeparator  string   `mapstructure:"path_separator"`
	TrackedAction  string   `mapstructure:"tracked_action"`
	Strict         bool     `mapstructure:"strict"`
}

// ReportConfig controls what is written to stdout.
type ReportConfig struct {
	Echo    bool `mapstructure:"echo"`
	Actions bool `mapstructure:"actions"`
}

// MetricsConfig enables the Prometheus textfile export.
type MetricsConfig struct {
	Textfile string `mapstructure:"textfile"`
}

// Load builds a Config from defaults, environment and an optional file. An
// explicit path must exist; otherwise FileName is looked up in the working
// directory and $HOME and silently skipped when absent.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	} else {
		v.SetConfigName(FileName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return Config{}, fmt.Errorf("read config: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("logging.development", false)
	v.SetDefault("logging.level", "info")
	v.SetDefault("filter.header_prefixes", logline.DefaultHeaderPrefixes)
	v.SetDefault("filter.done_suffix", logline.DefaultDoneSuffix)
	v.SetDefault("filter.path_separator", logline.DefaultPathSeparator)
	v.SetDefault("filter.tracked_action", logline.ActionEnqueue)
	v.SetDefault("filter.strict", false)
	v.SetDefault("report.echo", true)
	v.SetDefault("report.actions", false)
	v.SetDefault("metrics.textfile", "")
}

// Validate enforces required values.
func (c Config) Validate() error {
	if c.Filter.PathSeparator == "" {
		return fmt.Errorf("filter.path_separator must not be empty")
	}
	if c.Filter.TrackedAction == "" {
		return fmt.Errorf("filter.tracked_action must not be empty")
	}
	if strings.ContainsAny(c.Filter.TrackedAction, " \t") {
		return fmt.Errorf("filter.tracked_action must be a single word")
	}
	for _, prefix := range c.Filter.HeaderPrefixes {
		if prefix == "" {
			return fmt.Errorf("filter.header_prefixes must not contain empty prefixes")
		}
	}
	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be one of debug, info, warn, error")
	}
	return nil
}

// LineFilter converts the filter settings into a logline.Filter.
func (c Config) LineFilter() logline.Filter {
	return logline.Filter{
		HeaderPrefixes: append([]string(nil), c.Filter.HeaderPrefixes...),
		DoneSuffix:     c.Filter.DoneSuffix,
		PathSeparator:  c.Filter.PathSeparator,
	}
}
