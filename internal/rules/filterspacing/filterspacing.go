// Package filterspacing implements the filter-surrounded-by-spaces rule: every
// template filter pipe inside a task should have whitespace on both sides.
//
//	- ansible_facts.network_resources.bfd_interfaces | symmetric_difference(result.after) | length
//
// is accepted, while
//
//	- ansible_facts.network_resources.bfd_interfaces|symmetric_difference(result.after)|length
//
// is reported. The check is purely lexical: it does not parse templates, so a
// pipe anywhere in a string value counts.
package filterspacing

import (
	"context"
	"unicode"

	"github.com/conneroisu/playlint/internal/playbook"
	"github.com/conneroisu/playlint/internal/rules"
	"github.com/conneroisu/playlint/internal/value"
)

// ID is the rule identifier.
const ID = "filter-surrounded-by-spaces"

const shortDesc = "All filters or pipe characters should have spaces around them."

const description = `All filters should be surrounded by spaces for readability like following:

    - ansible_facts.network_resources.bfd_interfaces | symmetric_difference(result.after) | length

The following will trigger the rule because spaces do not surround ` + "`|`" + `.

    - ansible_facts.network_resources.bfd_interfaces|symmetric_difference(result.after)|length
`

// StringViolates reports whether any pipe in text lacks whitespace on either
// side. A pipe at the very start is only checked against the following
// character and a pipe at the very end only against the preceding one.
// Strings shorter than two characters never violate.
func StringViolates(text string) bool {
	runes := []rune(text)
	if len(runes) < 2 {
		return false
	}

	last := len(runes) - 1
	for i, r := range runes {
		if r != '|' {
			continue
		}

		switch i {
		case 0:
			if !unicode.IsSpace(runes[1]) {
				return true
			}
		case last:
			if !unicode.IsSpace(runes[i-1]) {
				return true
			}
		default:
			if !unicode.IsSpace(runes[i-1]) || !unicode.IsSpace(runes[i+1]) {
				return true
			}
		}
	}
	return false
}

// Violates walks v depth first and reports whether any text reachable from it
// violates the rule. Mapping keys are not inspected and non-text scalars
// never violate. The walk stops at the first violation.
func Violates(v *value.Value) bool {
	switch v.Kind() {
	case value.KindText:
		return StringViolates(v.Text())
	case value.KindSequence:
		for _, item := range v.Items() {
			if Violates(item) {
				return true
			}
		}
	case value.KindMapping:
		for _, e := range v.Entries() {
			if Violates(e.Value) {
				return true
			}
		}
	}
	return false
}

// Rule is the filter-surrounded-by-spaces task rule.
type Rule struct{}

var _ rules.TaskRule = (*Rule)(nil)

// New returns the rule.
func New() *Rule {
	return &Rule{}
}

func (*Rule) ID() string               { return ID }
func (*Rule) ShortDesc() string        { return shortDesc }
func (*Rule) Description() string      { return description }
func (*Rule) Severity() rules.Severity { return rules.SeverityMedium }
func (*Rule) Tags() []string           { return []string{"experimental", "idiom"} }
func (*Rule) VersionAdded() string     { return "v6.2.1" }

// MatchTask flags the task when any of its values violates the rule.
func (*Rule) MatchTask(_ context.Context, task *playbook.Task) rules.Verdict {
	if task == nil || !Violates(task.Value) {
		return rules.Verdict{}
	}
	return rules.Match()
}
