// Package linter runs registered rules over playbooks and task files and
// collects the findings into a report.
package linter

import (
	"context"
	"runtime"
	"sort"
	"sync"
	"time"

	"github.com/conneroisu/playlint/internal/logging"
	"github.com/conneroisu/playlint/internal/playbook"
	"github.com/conneroisu/playlint/internal/rules"
	"github.com/google/uuid"
)

// maxWorkers caps the default worker count.
const maxWorkers = 8

// Options configures an Engine.
type Options struct {
	// Selection chooses which registered rules run.
	Selection rules.Selection
	// WarnList holds rule IDs or tags whose matches are reported as warnings.
	WarnList []string
	// Workers is the number of files linted concurrently. Zero picks a default.
	Workers int
}

// Engine dispatches tasks to rules.
type Engine struct {
	registry *rules.Registry
	options  Options
	logger   logging.Logger
}

// NewEngine creates an engine over the rules in registry.
func NewEngine(registry *rules.Registry, logger logging.Logger, opts Options) *Engine {
	if logger == nil {
		logger = logging.NopLogger{}
	}
	return &Engine{
		registry: registry,
		options:  opts,
		logger:   logger.WithComponent("lint_engine"),
	}
}

// fileResult is what a worker produces for one file.
type fileResult struct {
	path    string
	tasks   int
	matches []Match
}

// LintFiles lints every file in paths and returns the aggregated report.
// Files that cannot be loaded are reported as load-failure matches rather
// than aborting the run. Cancelling ctx stops the run and returns ctx.Err().
func (e *Engine) LintFiles(ctx context.Context, paths []string) (*Report, error) {
	op := logging.StartOperation(e.logger, "lint_files")
	report := newReport()

	taskRules := e.registry.TaskRules(e.options.Selection)
	e.logger.Debug(ctx, "Starting lint run", "files", len(paths), "rules", len(taskRules))

	jobs := make(chan string)
	results := make(chan fileResult, len(paths))

	var wg sync.WaitGroup
	for i := 0; i < e.workerCount(len(paths)); i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for path := range jobs {
				results <- e.lintPath(ctx, path, taskRules)
			}
		}()
	}

submit:
	for _, path := range paths {
		select {
		case jobs <- path:
		case <-ctx.Done():
			break submit
		}
	}
	close(jobs)
	wg.Wait()
	close(results)

	if err := ctx.Err(); err != nil {
		op.EndWithError(ctx, err)
		return nil, err
	}

	for res := range results {
		report.Files++
		report.Tasks += res.tasks
		report.Matches = append(report.Matches, res.matches...)
	}

	finishReport(report)
	report.Duration = op.End(ctx, "files", report.Files, "matches", len(report.Matches))

	e.logger.Info(ctx, "Lint run completed",
		"files", report.Files,
		"tasks", report.Tasks,
		"failures", report.Summary.Failures,
		"warnings", report.Summary.Warnings)

	return report, nil
}

// LintBytes lints in-memory content as if it were the file at path.
func (e *Engine) LintBytes(ctx context.Context, path string, data []byte) *Report {
	start := time.Now()
	report := newReport()
	taskRules := e.registry.TaskRules(e.options.Selection)

	f, err := playbook.Parse(path, data)
	res := e.lintLoaded(ctx, path, f, err, taskRules)

	report.Files = 1
	report.Tasks = res.tasks
	report.Matches = res.matches
	finishReport(report)
	report.Duration = time.Since(start)
	return report
}

// LintTask runs the selected rules against a single task.
func (e *Engine) LintTask(ctx context.Context, task *playbook.Task) []Match {
	return e.lintTask(ctx, task, e.registry.TaskRules(e.options.Selection))
}

func (e *Engine) lintPath(ctx context.Context, path string, taskRules []rules.TaskRule) fileResult {
	f, err := playbook.Load(path)
	return e.lintLoaded(ctx, path, f, err, taskRules)
}

func (e *Engine) lintLoaded(
	ctx context.Context,
	path string,
	f *playbook.File,
	loadErr error,
	taskRules []rules.TaskRule,
) fileResult {
	if loadErr != nil {
		e.logger.Warn(ctx, loadErr, "Failed to load file", "file", path)
		return fileResult{path: path, matches: []Match{loadFailure(path, loadErr)}}
	}

	res := fileResult{path: path, tasks: len(f.Tasks)}
	for _, task := range f.Tasks {
		res.matches = append(res.matches, e.lintTask(ctx, task, taskRules)...)
	}

	e.logger.Debug(ctx, "Linted file",
		"file", path,
		"kind", f.Kind.String(),
		"tasks", res.tasks,
		"matches", len(res.matches))

	return res
}

func (e *Engine) lintTask(ctx context.Context, task *playbook.Task, taskRules []rules.TaskRule) []Match {
	var matches []Match
	for _, rule := range taskRules {
		if task.SkipsRule(rule.ID()) {
			continue
		}

		verdict := rule.MatchTask(ctx, task)
		if !verdict.Matched {
			continue
		}

		message := verdict.Message
		if message == "" {
			message = rule.ShortDesc()
		}

		matches = append(matches, Match{
			RuleID:   rule.ID(),
			Severity: rule.Severity(),
			Level:    e.levelFor(rule),
			Message:  message,
			File:     task.File,
			Line:     task.Line,
			TaskName: task.Name,
			Tags:     rule.Tags(),
		})
	}
	return matches
}

// levelFor downgrades rules named in the warn list, by ID or tag.
func (e *Engine) levelFor(rule rules.Rule) Level {
	for _, name := range e.options.WarnList {
		if name == rule.ID() || rules.HasTag(rule, name) {
			return LevelWarning
		}
	}
	return LevelError
}

func (e *Engine) workerCount(files int) int {
	workers := e.options.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
		if workers > maxWorkers {
			workers = maxWorkers
		}
	}
	if workers > files {
		workers = files
	}
	if workers < 1 {
		workers = 1
	}
	return workers
}

func loadFailure(path string, err error) Match {
	return Match{
		RuleID:   LoadFailureID,
		Severity: rules.SeverityVeryHigh,
		Level:    LevelError,
		Message:  err.Error(),
		File:     path,
		Line:     errorLine(err),
	}
}

func newReport() *Report {
	return &Report{
		ID:        uuid.NewString(),
		Timestamp: time.Now(),
		Matches:   []Match{},
		Summary:   Summary{ByRule: make(map[string]int)},
	}
}

// finishReport sorts matches and fills in the summary.
func finishReport(r *Report) {
	sort.SliceStable(r.Matches, func(i, j int) bool {
		a, b := r.Matches[i], r.Matches[j]
		if a.File != b.File {
			return a.File < b.File
		}
		if a.Line != b.Line {
			return a.Line < b.Line
		}
		return a.RuleID < b.RuleID
	})

	for _, m := range r.Matches {
		r.Summary.ByRule[m.RuleID]++
		if m.Level == LevelWarning {
			r.Summary.Warnings++
		} else {
			r.Summary.Failures++
		}
	}
}
