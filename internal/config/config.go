// Package config loads playlint settings with Viper from, in order of
// precedence, command-line flags, PLAYLINT_* environment variables and a
// .playlint.yml file.
//
// Slice settings may be given in the environment as comma separated lists,
// e.g. PLAYLINT_LINT_SKIP_LIST=filter-surrounded-by-spaces,experimental.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// DefaultDebounce is the watch-mode delay applied when none is configured.
const DefaultDebounce = 300 * time.Millisecond

type Config struct {
	Lint        LintConfig   `mapstructure:"lint" yaml:"lint"`
	Paths       PathsConfig  `mapstructure:"paths" yaml:"paths"`
	Output      OutputConfig `mapstructure:"output" yaml:"output"`
	Watch       WatchConfig  `mapstructure:"watch" yaml:"watch"`
	TargetFiles []string     `mapstructure:"-" yaml:"-"` // CLI arguments, not from config file
}

type LintConfig struct {
	SkipList []string `mapstructure:"skip_list" yaml:"skip_list"`
	WarnList []string `mapstructure:"warn_list" yaml:"warn_list"`
	Tags     []string `mapstructure:"tags" yaml:"tags"`
	Workers  int      `mapstructure:"workers" yaml:"workers"`
}

type PathsConfig struct {
	Include []string `mapstructure:"include" yaml:"include"`
	Exclude []string `mapstructure:"exclude" yaml:"exclude"`
}

type OutputConfig struct {
	Format string `mapstructure:"format" yaml:"format"`
	Color  bool   `mapstructure:"color" yaml:"color"`
}

type WatchConfig struct {
	Debounce time.Duration `mapstructure:"debounce" yaml:"debounce"`
}

// sliceKeys maps viper keys holding lists to their destination in cfg.
func sliceKeys(cfg *Config) map[string]*[]string {
	return map[string]*[]string{
		"lint.skip_list": &cfg.Lint.SkipList,
		"lint.warn_list": &cfg.Lint.WarnList,
		"lint.tags":      &cfg.Lint.Tags,
		"paths.include":  &cfg.Paths.Include,
		"paths.exclude":  &cfg.Paths.Exclude,
	}
}

func Load() (*Config, error) {
	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}

	// Environment-only keys are invisible to Unmarshal and comma lists need trimming.
	for key, dst := range sliceKeys(&config) {
		if viper.IsSet(key) {
			*dst = stringSlice(viper.Get(key))
		}
	}
	if viper.IsSet("lint.workers") {
		config.Lint.Workers = viper.GetInt("lint.workers")
	}
	if viper.IsSet("output.format") {
		config.Output.Format = viper.GetString("output.format")
	}
	if viper.IsSet("watch.debounce") {
		config.Watch.Debounce = viper.GetDuration("watch.debounce")
	}

	// Apply default values if not set
	if len(config.Paths.Include) == 0 {
		config.Paths.Include = []string{"."}
	}
	if config.Output.Format == "" {
		config.Output.Format = "text"
	}
	config.Output.Format = strings.ToLower(config.Output.Format)
	if viper.IsSet("output.color") {
		config.Output.Color = viper.GetBool("output.color")
	} else {
		config.Output.Color = true
	}
	if config.Watch.Debounce == 0 {
		config.Watch.Debounce = DefaultDebounce
	}

	// Validate configuration values
	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// stringSlice accepts a list or a comma separated string.
func stringSlice(raw interface{}) []string {
	var parts []string
	switch v := raw.(type) {
	case string:
		parts = strings.Split(v, ",")
	case []string:
		parts = v
	case []interface{}:
		for _, item := range v {
			parts = append(parts, fmt.Sprint(item))
		}
	default:
		return nil
	}

	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
