package linter

import (
	"time"

	"github.com/conneroisu/playlint/internal/rules"
)

// LoadFailureID is the rule ID reported for files that cannot be loaded.
const LoadFailureID = "load-failure"

// Level says whether a match fails the run or only warns.
type Level string

const (
	LevelError   Level = "error"
	LevelWarning Level = "warning"
)

// Match is a single rule finding.
type Match struct {
	RuleID   string         `json:"rule_id" yaml:"rule_id"`
	Severity rules.Severity `json:"severity" yaml:"severity"`
	Level    Level          `json:"level" yaml:"level"`
	Message  string         `json:"message" yaml:"message"`
	File     string         `json:"file" yaml:"file"`
	Line     int            `json:"line,omitempty" yaml:"line,omitempty"`
	TaskName string         `json:"task,omitempty" yaml:"task,omitempty"`
	Tags     []string       `json:"tags,omitempty" yaml:"tags,omitempty"`
}

// Summary aggregates matches.
type Summary struct {
	Failures int            `json:"failures" yaml:"failures"`
	Warnings int            `json:"warnings" yaml:"warnings"`
	ByRule   map[string]int `json:"by_rule" yaml:"by_rule"`
}

// Report contains the complete results of a lint run.
type Report struct {
	ID        string        `json:"id" yaml:"id"`
	Timestamp time.Time     `json:"timestamp" yaml:"timestamp"`
	Files     int           `json:"files" yaml:"files"`
	Tasks     int           `json:"tasks" yaml:"tasks"`
	Matches   []Match       `json:"matches" yaml:"matches"`
	Summary   Summary       `json:"summary" yaml:"summary"`
	Duration  time.Duration `json:"duration" yaml:"duration"`
}

// ExitCode returns the process exit status for the report: 2 when any
// error-level match exists and 0 otherwise.
func (r *Report) ExitCode() int {
	if r.Summary.Failures > 0 {
		return 2
	}
	return 0
}

// Passed reports whether the run produced no error-level matches.
func (r *Report) Passed() bool {
	return r.ExitCode() == 0
}
