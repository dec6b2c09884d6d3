package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/conneroisu/playlint/internal/report"
	"github.com/conneroisu/playlint/internal/testutils"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	viper.Reset()

	root := NewRootCommand()
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(args)

	err := root.Execute()
	return out.String(), err
}

func exitCode(err error) int {
	if err == nil {
		return 0
	}
	if exitErr, ok := err.(*ExitError); ok {
		return exitErr.Code
	}
	return 1
}

func TestLintReportsFailures(t *testing.T) {
	dir := t.TempDir()
	bad := testutils.WriteFile(t, dir, "bad.yml", testutils.BadCommandPlaybook)
	testutils.WriteFile(t, dir, "good.yml", testutils.GoodCommandPlaybook)

	out, err := execute(t, "", "lint", dir, "--format", "pep8")

	assert.Equal(t, 2, exitCode(err))
	assert.Equal(t,
		bad+":4: [filter-surrounded-by-spaces] All filters or pipe characters should have spaces around them.\n",
		out)
}

func TestLintPasses(t *testing.T) {
	dir := t.TempDir()
	testutils.WriteFile(t, dir, "good.yml", testutils.GoodCommandPlaybook)

	out, err := execute(t, "", "lint", dir, "--no-color")

	require.NoError(t, err)
	assert.Equal(t, "Passed: 0 failure(s), 0 warning(s) in 1 file(s), 1 task(s).\n", out)
}

func TestLintWarnAndSkip(t *testing.T) {
	dir := t.TempDir()
	testutils.WriteFile(t, dir, "bad.yml", testutils.BadCommandPlaybook)

	out, err := execute(t, "", "lint", dir, "--no-color", "-w", "idiom")
	require.NoError(t, err)
	assert.Contains(t, out, "0 failure(s), 1 warning(s)")

	out, err = execute(t, "", "lint", dir, "--no-color", "-x", "filter-surrounded-by-spaces")
	require.NoError(t, err)
	assert.Contains(t, out, "Passed: 0 failure(s), 0 warning(s)")
}

func TestLintExclude(t *testing.T) {
	dir := t.TempDir()
	testutils.WriteFile(t, dir, "vendor/bad.yml", testutils.BadCommandPlaybook)
	testutils.WriteFile(t, dir, "good.yml", testutils.GoodCommandPlaybook)

	out, err := execute(t, "", "lint", dir, "--no-color", "--exclude", "vendor")
	require.NoError(t, err)
	assert.Contains(t, out, "in 1 file(s)")
}

func TestLintStdin(t *testing.T) {
	out, err := execute(t, testutils.BadCommandPlaybook, "lint", "-", "-f", "json")
	assert.Equal(t, 2, exitCode(err))

	var decoded struct {
		Matches []struct {
			RuleID string `json:"rule_id"`
			File   string `json:"file"`
			Line   int    `json:"line"`
		} `json:"matches"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	require.Len(t, decoded.Matches, 1)
	assert.Equal(t, "stdin", decoded.Matches[0].File)
	assert.Equal(t, 4, decoded.Matches[0].Line)
}

func TestLintStdinRejectsWatch(t *testing.T) {
	_, err := execute(t, testutils.GoodCommandPlaybook, "lint", "-", "--watch")
	require.Error(t, err)
	assert.Equal(t, 1, exitCode(err))
}

func TestLintInvalidFormat(t *testing.T) {
	_, err := execute(t, "", "lint", t.TempDir(), "--format", "xml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported format")
}

func TestLintMissingPath(t *testing.T) {
	_, err := execute(t, "", "lint", filepath.Join(t.TempDir(), "missing"))
	require.Error(t, err)
	assert.Equal(t, 1, exitCode(err))
}

func TestLintConfigFile(t *testing.T) {
	dir := t.TempDir()
	testutils.WriteFile(t, dir, "bad.yml", testutils.BadCommandPlaybook)
	cfg := testutils.WriteFile(t, dir, "conf/playlint.yml", "lint:\n  warn_list: [filter-surrounded-by-spaces]\noutput:\n  format: pep8\n")

	out, err := execute(t, "", "lint", dir, "--config", cfg)
	require.NoError(t, err)
	assert.Contains(t, out, "[filter-surrounded-by-spaces]")

	// Flags win over the file.
	_, err = execute(t, "", "lint", dir, "--config", cfg, "--warn", "none")
	assert.Equal(t, 2, exitCode(err))
}

func TestLintMissingConfigFile(t *testing.T) {
	_, err := execute(t, "", "lint", t.TempDir(), "--config", filepath.Join(t.TempDir(), "nope.yml"))
	require.Error(t, err)
}

func TestRulesList(t *testing.T) {
	out, err := execute(t, "", "rules")
	require.NoError(t, err)
	assert.Contains(t, out, "filter-surrounded-by-spaces")
	assert.Contains(t, out, "Medium")

	out, err = execute(t, "", "rules", "--tags", "security")
	require.NoError(t, err)
	assert.NotContains(t, out, "filter-surrounded-by-spaces")
}

func TestRulesShow(t *testing.T) {
	out, err := execute(t, "", "rules", "show", "filter-surrounded-by-spaces")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "filter-surrounded-by-spaces\n"))

	_, err = execute(t, "", "rules", "show", "no-such-rule")
	assert.Error(t, err)
}

func TestVersionJSON(t *testing.T) {
	out, err := execute(t, "", "version", "--format", "json")
	require.NoError(t, err)

	var info map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(out), &info))
	assert.NotEmpty(t, info["version"])
	assert.NotEmpty(t, info["go_version"])
}

func TestFormatValue(t *testing.T) {
	var format report.Format
	v := newFormatValue(&format, report.FormatText)

	require.NoError(t, v.Set("YAML"))
	assert.Equal(t, report.FormatYAML, format)
	assert.Equal(t, "format", v.Type())
	assert.Error(t, v.Set("html"))
	assert.Equal(t, "yaml", v.String())
}

func TestLintProject(t *testing.T) {
	dir := testutils.CreateTempProject(t)

	out, err := execute(t, "", "lint", dir, "--no-color")

	assert.Equal(t, 2, exitCode(err))
	assert.Contains(t, out, filepath.Join(dir, "roles", "web", "tasks", "main.yml")+":1:")
	assert.Contains(t, out, "Failed: 1 failure(s), 0 warning(s) in 3 file(s), 4 task(s).")
	assert.NotContains(t, out, ".git")
}

// syncBuffer is a bytes.Buffer safe for the watch goroutines.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestLintWatchRelintsChangedFiles(t *testing.T) {
	viper.Reset()
	dir := t.TempDir()
	testutils.WriteFile(t, dir, "site.yml", testutils.GoodCommandPlaybook)

	cfg := testutils.CreateTestConfig(dir)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	c := newLintCmd()
	var out, errOut syncBuffer
	c.SetOut(&out)
	c.SetErr(&errOut)
	c.SetContext(ctx)

	done := make(chan error, 1)
	go func() { done <- runLint(c, cfg, true) }()

	testutils.WaitFor(t, 5*time.Second, func() bool {
		return strings.Contains(errOut.String(), "Watching for changes")
	})
	assert.Contains(t, out.String(), "Passed:")

	testutils.WriteFile(t, dir, "site.yml", testutils.BadCommandPlaybook)
	testutils.WaitFor(t, 5*time.Second, func() bool {
		return strings.Contains(out.String(), "Failed: 1 failure(s)")
	})
	assert.Contains(t, out.String(), "file(s) changed")

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watch mode did not stop on cancel")
	}
}
