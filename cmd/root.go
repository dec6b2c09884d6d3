// Package cmd provides the playlint command-line interface.
//
// Configuration is read, in order of precedence, from command-line flags,
// the file named by --config or PLAYLINT_CONFIG_FILE, PLAYLINT_* environment
// variables (PLAYLINT_LINT_SKIP_LIST, PLAYLINT_OUTPUT_FORMAT, ...) and a
// .playlint.yml in the working directory.
package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/conneroisu/playlint/internal/logging"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// ExitError carries a process exit status out of a command without printing
// an error message.
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("exit status %d", e.Code)
}

// Execute builds the command tree and runs it.
func Execute(ctx context.Context) error {
	return NewRootCommand().ExecuteContext(ctx)
}

// NewRootCommand returns the playlint command tree.
func NewRootCommand() *cobra.Command {
	var cfgFile string

	cmd := &cobra.Command{
		Use:   "playlint",
		Short: "A linter for Ansible playbooks and task files",
		Long: `Playlint checks Ansible playbooks and task files for common style
and correctness problems.

Quick Start:
  playlint lint                   Lint every YAML file below the current directory
  playlint lint site.yml roles/   Lint specific files and directories
  playlint rules                  List the available rules

Matches can be silenced per task with a "# noqa rule-id" comment or by
tagging the task with skip_ansible_lint.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := viper.BindPFlag("log-level", cmd.Root().PersistentFlags().Lookup("log-level")); err != nil {
				return err
			}
			return initConfig(cmd, cfgFile)
		},
	}

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is .playlint.yml, can also use PLAYLINT_CONFIG_FILE env var)")
	cmd.PersistentFlags().StringP("log-level", "l", "warn", "log level (debug, info, warn, error)")

	cmd.AddCommand(newLintCmd(), newRulesCmd(), newVersionCmd())
	return cmd
}

// initConfig points viper at the configuration file and environment.
//
// File precedence: --config, then PLAYLINT_CONFIG_FILE, then .playlint.yml
// in the working directory. A missing default file is not an error.
func initConfig(cmd *cobra.Command, cfgFile string) error {
	explicit := true
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else if envConfigFile := os.Getenv("PLAYLINT_CONFIG_FILE"); envConfigFile != "" {
		viper.SetConfigFile(envConfigFile)
	} else {
		explicit = false
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".playlint")
	}

	viper.SetEnvPrefix("PLAYLINT")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	logger := newLogger(cmd)
	if err := viper.ReadInConfig(); err != nil {
		if _, notFound := err.(viper.ConfigFileNotFoundError); notFound && !explicit {
			return nil
		}
		return fmt.Errorf("reading config: %w", err)
	}

	logger.Debug(cmd.Context(), "Using config file", "path", viper.ConfigFileUsed())
	return nil
}

// newLogger builds the stderr logger at the configured level.
func newLogger(cmd *cobra.Command) logging.Logger {
	config := logging.DefaultConfig()
	config.Output = cmd.ErrOrStderr()

	if level, err := logging.ParseLevel(viper.GetString("log-level")); err == nil {
		config.Level = level
	}
	return logging.NewLogger(config)
}
