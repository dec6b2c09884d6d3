package cmd

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/conneroisu/playlint/internal/config"
	"github.com/conneroisu/playlint/internal/errors"
	"github.com/conneroisu/playlint/internal/linter"
	"github.com/conneroisu/playlint/internal/logging"
	"github.com/conneroisu/playlint/internal/report"
	"github.com/conneroisu/playlint/internal/rules"
	"github.com/conneroisu/playlint/internal/rules/builtin"
	"github.com/conneroisu/playlint/internal/scanner"
	"github.com/conneroisu/playlint/internal/watcher"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// stdinPath is the path argument that lints standard input.
const stdinPath = "-"

var lintFlagBindings = map[string]string{
	"format":   "output.format",
	"skip":     "lint.skip_list",
	"warn":     "lint.warn_list",
	"tags":     "lint.tags",
	"workers":  "lint.workers",
	"exclude":  "paths.exclude",
	"debounce": "watch.debounce",
}

func newLintCmd() *cobra.Command {
	var (
		format  report.Format
		noColor bool
		watch   bool
	)

	c := &cobra.Command{
		Use:     "lint [paths...]",
		Aliases: []string{"l"},
		Short:   "Lint playbooks and task files",
		Long: `Lint playbooks and task files.

Directories are searched recursively for .yml and .yaml files, skipping
hidden directories. With no arguments the configured include paths are
linted (default "."). Use "-" to lint standard input.

The command exits with status 2 when any error-level match is found.
Matches from rules named in --warn (by ID or tag) are reported as warnings
and do not fail the run.

Examples:
  playlint lint
  playlint lint site.yml roles/ --exclude roles/vendor
  playlint lint -x experimental -f pep8
  playlint lint --watch
  cat site.yml | playlint lint -`,
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			return bindFlags(cmd, lintFlagBindings)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return errors.NewConfigError(errors.ErrCodeConfigInvalid, err.Error()).
					WithContext("config_file", viper.ConfigFileUsed())
			}
			cfg.TargetFiles = args
			if noColor {
				cfg.Output.Color = false
			}

			return runLint(cmd, cfg, watch)
		},
	}

	c.Flags().VarP(newFormatValue(&format, report.FormatText), "format", "f", "Output format (text, pep8, json, yaml)")
	c.Flags().StringSliceP("skip", "x", nil, "Rule IDs or tags to skip")
	c.Flags().StringSliceP("warn", "w", nil, "Rule IDs or tags whose matches are only warnings")
	c.Flags().StringSliceP("tags", "t", nil, "Only run rules with these tags or IDs")
	c.Flags().StringSlice("exclude", nil, "Paths or glob patterns to exclude")
	c.Flags().Int("workers", 0, "Files linted in parallel (0 picks from the CPU count)")
	c.Flags().Duration("debounce", 0, "Delay before re-linting in watch mode")
	c.Flags().BoolVar(&noColor, "no-color", false, "Disable coloured output")
	c.Flags().BoolVar(&watch, "watch", false, "Re-lint changed files until interrupted")

	return c
}

func runLint(cmd *cobra.Command, cfg *config.Config, watch bool) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	format, err := report.ParseFormat(cfg.Output.Format)
	if err != nil {
		return errors.NewConfigError(errors.ErrCodeConfigInvalid, err.Error())
	}
	out := report.Options{Format: format, Color: cfg.Output.Color}

	logger := newLogger(cmd)
	engine := linter.NewEngine(builtin.Registry(), logger, linter.Options{
		Selection: rules.Selection{Tags: cfg.Lint.Tags, Skip: cfg.Lint.SkipList},
		WarnList:  cfg.Lint.WarnList,
		Workers:   cfg.Lint.Workers,
	})

	paths := cfg.TargetFiles
	if len(paths) == 0 {
		paths = cfg.Paths.Include
	}

	if len(paths) == 1 && paths[0] == stdinPath {
		if watch {
			return errors.NewValidationError(errors.ErrCodeValidationFailed, "--watch cannot be used with standard input")
		}
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return errors.NewIOError(errors.ErrCodeReadFailed, "failed to read standard input", err)
		}
		return finish(cmd, engine.LintBytes(ctx, "stdin", data), out)
	}

	scanOpts := scanner.Options{Exclude: cfg.Paths.Exclude}
	files, err := scanner.Discover(paths, scanOpts)
	if err != nil {
		return err
	}
	logger.Debug(ctx, "Discovered files", "count", len(files))

	r, err := engine.LintFiles(ctx, files)
	if err != nil {
		return err
	}

	if watch {
		if err := report.Write(cmd.OutOrStdout(), r, out); err != nil {
			return err
		}
		return watchAndLint(ctx, cmd, engine, paths, scanOpts, cfg.Watch.Debounce, out, logger)
	}
	return finish(cmd, r, out)
}

// finish writes the report and turns failures into an exit status.
func finish(cmd *cobra.Command, r *linter.Report, out report.Options) error {
	if err := report.Write(cmd.OutOrStdout(), r, out); err != nil {
		return err
	}
	if code := r.ExitCode(); code != 0 {
		return &ExitError{Code: code}
	}
	return nil
}

// watchAndLint re-lints changed files until ctx is cancelled.
func watchAndLint(
	ctx context.Context,
	cmd *cobra.Command,
	engine *linter.Engine,
	roots []string,
	scanOpts scanner.Options,
	debounce time.Duration,
	out report.Options,
	logger logging.Logger,
) error {
	fw, err := watcher.NewFileWatcher(debounce, logger)
	if err != nil {
		return err
	}
	defer fw.Stop()

	fw.AddFilter(watcher.YAMLFilter)
	fw.AddFilter(watcher.NoHiddenFilter)
	fw.AddFilter(watcher.NoEditorTempFilter)
	fw.AddFilter(func(path string) bool {
		return scanner.IsLintable(path, scanOpts)
	})

	fw.AddHandler(func(ctx context.Context, events []watcher.ChangeEvent) error {
		var changed []string
		for _, event := range events {
			if event.Type != watcher.EventTypeDeleted && event.Type != watcher.EventTypeRenamed {
				changed = append(changed, event.Path)
			}
		}
		if len(changed) == 0 {
			return nil
		}

		r, err := engine.LintFiles(ctx, changed)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "\n--- %s: %d file(s) changed\n", time.Now().Format(time.Kitchen), len(changed))
		return report.Write(cmd.OutOrStdout(), r, out)
	})

	for _, root := range roots {
		if err := fw.AddRecursive(root); err != nil {
			return err
		}
	}

	if err := fw.Start(ctx); err != nil {
		return err
	}
	logger.Info(ctx, "Watching for changes", "paths", roots)
	fmt.Fprintln(cmd.ErrOrStderr(), "Watching for changes, press Ctrl+C to stop")

	<-ctx.Done()
	return nil
}
