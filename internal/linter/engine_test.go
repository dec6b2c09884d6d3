package linter

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/conneroisu/playlint/internal/logging"
	"github.com/conneroisu/playlint/internal/playbook"
	"github.com/conneroisu/playlint/internal/rules"
	"github.com/conneroisu/playlint/internal/rules/builtin"
	"github.com/conneroisu/playlint/internal/testutils"
	"github.com/conneroisu/playlint/internal/value"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const ruleID = "filter-surrounded-by-spaces"

func newTestEngine(opts Options) *Engine {
	return NewEngine(builtin.Registry(), logging.NopLogger{}, opts)
}

func TestLintBytesBadLoop(t *testing.T) {
	report := newTestEngine(Options{}).LintBytes(context.Background(), "loop.yml", []byte(testutils.BadLoopPlaybook))

	require.Len(t, report.Matches, 4)
	assert.Equal(t, 5, report.Tasks)
	assert.Equal(t, 1, report.Files)
	for _, m := range report.Matches {
		assert.Equal(t, ruleID, m.RuleID)
		assert.Equal(t, "All filters or pipe characters should have spaces around them.", m.Message)
		assert.Equal(t, rules.SeverityMedium, m.Severity)
		assert.Equal(t, LevelError, m.Level)
		assert.Equal(t, "loop.yml", m.File)
	}

	assert.Equal(t, []int{8, 13, 18, 23}, []int{
		report.Matches[0].Line, report.Matches[1].Line, report.Matches[2].Line, report.Matches[3].Line,
	})
	assert.Equal(t, "Bad msg", report.Matches[0].TaskName)
	assert.Equal(t, 4, report.Summary.Failures)
	assert.Equal(t, 4, report.Summary.ByRule[ruleID])
	assert.Equal(t, 2, report.ExitCode())
	assert.False(t, report.Passed())
	assert.NotEmpty(t, report.ID)
}

func TestLintBytesCommand(t *testing.T) {
	engine := newTestEngine(Options{})

	good := engine.LintBytes(context.Background(), "good.yml", []byte(testutils.GoodCommandPlaybook))
	assert.Empty(t, good.Matches)
	assert.Equal(t, 0, good.ExitCode())

	bad := engine.LintBytes(context.Background(), "bad.yml", []byte(testutils.BadCommandPlaybook))
	require.Len(t, bad.Matches, 1)
	assert.Equal(t, testutils.CommandTaskName, bad.Matches[0].TaskName)
}

func TestWarnList(t *testing.T) {
	tests := []struct {
		name     string
		warnList []string
	}{
		{"by id", []string{ruleID}},
		{"by tag", []string{"experimental"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			report := newTestEngine(Options{WarnList: tt.warnList}).
				LintBytes(context.Background(), "bad.yml", []byte(testutils.BadCommandPlaybook))

			require.Len(t, report.Matches, 1)
			assert.Equal(t, LevelWarning, report.Matches[0].Level)
			assert.Equal(t, 1, report.Summary.Warnings)
			assert.Equal(t, 0, report.Summary.Failures)
			assert.Equal(t, 0, report.ExitCode())
		})
	}
}

func TestSkipSelection(t *testing.T) {
	for _, skip := range []string{ruleID, "idiom"} {
		t.Run(skip, func(t *testing.T) {
			report := newTestEngine(Options{Selection: rules.Selection{Skip: []string{skip}}}).
				LintBytes(context.Background(), "bad.yml", []byte(testutils.BadCommandPlaybook))
			assert.Empty(t, report.Matches)
		})
	}
}

func TestTagSelection(t *testing.T) {
	report := newTestEngine(Options{Selection: rules.Selection{Tags: []string{"security"}}}).
		LintBytes(context.Background(), "bad.yml", []byte(testutils.BadCommandPlaybook))
	assert.Empty(t, report.Matches)

	report = newTestEngine(Options{Selection: rules.Selection{Tags: []string{"idiom"}}}).
		LintBytes(context.Background(), "bad.yml", []byte(testutils.BadCommandPlaybook))
	assert.Len(t, report.Matches, 1)
}

func TestNoqaSkipsTask(t *testing.T) {
	doc := `
- name: silenced
  ansible.builtin.command: cat {{ my_file|quote }}  # noqa filter-surrounded-by-spaces
- name: reported
  ansible.builtin.command: cat {{ my_file|quote }}
- name: tagged
  ansible.builtin.command: cat {{ my_file|quote }}
  tags: [skip_ansible_lint]
`
	report := newTestEngine(Options{}).LintBytes(context.Background(), "tasks.yml", []byte(doc))

	require.Len(t, report.Matches, 1)
	assert.Equal(t, "reported", report.Matches[0].TaskName)
}

func TestLoadFailure(t *testing.T) {
	report := newTestEngine(Options{}).LintBytes(context.Background(), "broken.yml", []byte("- name: x\n  bad: [oops\n"))

	require.Len(t, report.Matches, 1)
	m := report.Matches[0]
	assert.Equal(t, LoadFailureID, m.RuleID)
	assert.Equal(t, rules.SeverityVeryHigh, m.Severity)
	assert.Equal(t, LevelError, m.Level)
	assert.Equal(t, 2, report.ExitCode())
}

func TestLintFiles(t *testing.T) {
	dir := t.TempDir()
	paths := []string{
		testutils.WriteFile(t, dir, "b.yml", testutils.BadCommandPlaybook),
		testutils.WriteFile(t, dir, "a.yml", testutils.BadLoopPlaybook),
		testutils.WriteFile(t, dir, "c.yml", testutils.GoodCommandPlaybook),
		filepath.Join(dir, "missing.yml"),
	}

	report, err := newTestEngine(Options{Workers: 2}).LintFiles(context.Background(), paths)
	require.NoError(t, err)

	assert.Equal(t, 4, report.Files)
	assert.Equal(t, 7, report.Tasks)
	require.Len(t, report.Matches, 6)

	// Sorted by file, then line.
	assert.Equal(t, paths[1], report.Matches[0].File)
	assert.Equal(t, paths[0], report.Matches[4].File)
	assert.Equal(t, LoadFailureID, report.Matches[5].RuleID)
	assert.Equal(t, 1, report.Summary.ByRule[LoadFailureID])
	assert.Equal(t, 5, report.Summary.ByRule[ruleID])
}

func TestLintFilesEmpty(t *testing.T) {
	report, err := newTestEngine(Options{}).LintFiles(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, report.Matches)
	assert.Equal(t, 0, report.Files)
	assert.True(t, report.Passed())
}

func TestLintFilesCancelled(t *testing.T) {
	dir := t.TempDir()
	path := testutils.WriteFile(t, dir, "a.yml", testutils.BadLoopPlaybook)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestEngine(Options{}).LintFiles(ctx, []string{path, path, path})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestLintTask(t *testing.T) {
	task := &playbook.Task{
		Name: "inline",
		File: "inline.yml",
		Line: 1,
		Value: value.Mapping(
			value.E("msg", value.Text("{{ item|list }}")),
			value.E("loop", value.Text("{{ result.stdout | from_yaml_all | list }}")),
		),
	}

	matches := newTestEngine(Options{}).LintTask(context.Background(), task)
	require.Len(t, matches, 1)
	assert.Equal(t, "inline", matches[0].TaskName)
}

func TestWorkerCount(t *testing.T) {
	assert.Equal(t, 1, newTestEngine(Options{}).workerCount(0))
	assert.Equal(t, 3, newTestEngine(Options{Workers: 3}).workerCount(10))
	assert.Equal(t, 2, newTestEngine(Options{Workers: 3}).workerCount(2))
	assert.LessOrEqual(t, newTestEngine(Options{}).workerCount(100), maxWorkers)
}
