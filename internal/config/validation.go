package config

import (
	"fmt"
	"path/filepath"
	"strings"
)

var validFormats = []string{"text", "pep8", "json", "yaml"}

// ValidationError represents a configuration validation error with suggestions
type ValidationError struct {
	Field       string
	Value       interface{}
	Message     string
	Suggestions []string
}

func (ve *ValidationError) Error() string {
	return fmt.Sprintf("validation error in %s: %s", ve.Field, ve.Message)
}

// validateConfig validates configuration values for correctness
func validateConfig(config *Config) error {
	if err := validateLintConfig(&config.Lint); err != nil {
		return fmt.Errorf("lint config: %w", err)
	}

	if err := validatePathsConfig(&config.Paths); err != nil {
		return fmt.Errorf("paths config: %w", err)
	}

	if err := validateOutputConfig(&config.Output); err != nil {
		return fmt.Errorf("output config: %w", err)
	}

	if config.Watch.Debounce < 0 {
		return &ValidationError{
			Field:       "watch.debounce",
			Value:       config.Watch.Debounce,
			Message:     "debounce must not be negative",
			Suggestions: []string{"Use a duration such as 300ms"},
		}
	}

	return nil
}

func validateLintConfig(config *LintConfig) error {
	if config.Workers < 0 {
		return &ValidationError{
			Field:       "lint.workers",
			Value:       config.Workers,
			Message:     fmt.Sprintf("workers %d must not be negative", config.Workers),
			Suggestions: []string{"Use 0 to pick a worker count from the CPU count"},
		}
	}

	for _, name := range append(append([]string{}, config.SkipList...), config.WarnList...) {
		if strings.ContainsAny(name, " \t\n") {
			return &ValidationError{
				Field:   "lint",
				Value:   name,
				Message: fmt.Sprintf("rule or tag %q contains whitespace", name),
			}
		}
	}

	return nil
}

func validatePathsConfig(config *PathsConfig) error {
	for _, path := range config.Exclude {
		if err := validatePath(path); err != nil {
			return fmt.Errorf("invalid exclude path '%s': %w", path, err)
		}
	}
	return nil
}

func validateOutputConfig(config *OutputConfig) error {
	for _, f := range validFormats {
		if config.Format == f {
			return nil
		}
	}
	return &ValidationError{
		Field:       "output.format",
		Value:       config.Format,
		Message:     fmt.Sprintf("unknown format %q", config.Format),
		Suggestions: []string{"Valid formats: " + strings.Join(validFormats, ", ")},
	}
}

// validatePath rejects empty patterns and parent directory traversal.
func validatePath(path string) error {
	if strings.TrimSpace(path) == "" {
		return fmt.Errorf("empty path")
	}

	for _, part := range strings.Split(filepath.ToSlash(filepath.Clean(path)), "/") {
		if part == ".." {
			return fmt.Errorf("path contains traversal: %s", path)
		}
	}

	return nil
}
