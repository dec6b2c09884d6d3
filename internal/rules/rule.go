// Package rules defines the contract lint rules implement and the registry the
// engine dispatches from.
package rules

import (
	"context"
	"strings"

	"github.com/conneroisu/playlint/internal/playbook"
)

// Severity ranks how serious a rule's findings are.
type Severity string

const (
	SeverityVeryLow  Severity = "VERY_LOW"
	SeverityLow      Severity = "LOW"
	SeverityMedium   Severity = "MEDIUM"
	SeverityHigh     Severity = "HIGH"
	SeverityVeryHigh Severity = "VERY_HIGH"
)

// Rank orders severities from 1 (VERY_LOW) to 5 (VERY_HIGH). Unknown values rank 0.
func (s Severity) Rank() int {
	switch s {
	case SeverityVeryLow:
		return 1
	case SeverityLow:
		return 2
	case SeverityMedium:
		return 3
	case SeverityHigh:
		return 4
	case SeverityVeryHigh:
		return 5
	default:
		return 0
	}
}

// Label returns the severity in lower case words, e.g. "very high".
func (s Severity) Label() string {
	return strings.ReplaceAll(strings.ToLower(string(s)), "_", " ")
}

// Rule describes a lint rule.
type Rule interface {
	// ID returns the unique, kebab-case identifier of the rule
	ID() string

	// ShortDesc is the one-line summary, also used as the default match message
	ShortDesc() string

	// Description is the long help text, usually with good and bad examples
	Description() string

	Severity() Severity
	Tags() []string

	// VersionAdded is the release the rule first shipped in
	VersionAdded() string
}

// Verdict is a rule's answer for one task.
type Verdict struct {
	Matched bool
	// Message overrides the rule's short description when non-empty.
	Message string
}

// Match is shorthand for a matched verdict with the default message.
func Match() Verdict {
	return Verdict{Matched: true}
}

// Matchf is a matched verdict with a custom message.
func Matchf(message string) Verdict {
	return Verdict{Matched: true, Message: message}
}

// TaskRule is a rule that inspects tasks one at a time.
//
// MatchTask must not modify the task and must be safe for concurrent use.
type TaskRule interface {
	Rule
	MatchTask(ctx context.Context, task *playbook.Task) Verdict
}

// HasTag reports whether rule carries tag.
func HasTag(rule Rule, tag string) bool {
	for _, t := range rule.Tags() {
		if t == tag {
			return true
		}
	}
	return false
}
