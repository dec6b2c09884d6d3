// Package report renders lint reports and rule listings.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"
	"github.com/conneroisu/playlint/internal/linter"
	"github.com/conneroisu/playlint/internal/rules"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

// Format names an output format.
type Format string

const (
	FormatText Format = "text"
	FormatPEP8 Format = "pep8"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// Formats lists the supported format names.
func Formats() []string {
	return []string{string(FormatText), string(FormatPEP8), string(FormatJSON), string(FormatYAML)}
}

// ParseFormat validates a format name. The empty string selects text.
func ParseFormat(name string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(name))); f {
	case "":
		return FormatText, nil
	case FormatText, FormatPEP8, FormatJSON, FormatYAML:
		return f, nil
	default:
		return "", fmt.Errorf("unsupported format %q (valid: %s)", name, strings.Join(Formats(), ", "))
	}
}

// Options controls rendering.
type Options struct {
	Format Format
	// Color enables terminal styling in the text format.
	Color bool
}

// Write renders r to w.
func Write(w io.Writer, r *linter.Report, opts Options) error {
	switch opts.Format {
	case FormatText, "":
		return writeText(w, r, newTheme(opts.Color))
	case FormatPEP8:
		return writePEP8(w, r)
	case FormatJSON:
		return writeJSON(w, r)
	case FormatYAML:
		return writeYAML(w, r)
	default:
		return fmt.Errorf("unsupported format: %s", opts.Format)
	}
}

// SeverityLabel title-cases a severity, e.g. VERY_HIGH becomes "Very High".
func SeverityLabel(s rules.Severity) string {
	return cases.Title(language.English).String(s.Label())
}

type theme struct {
	color    bool
	location lipgloss.Style
	ruleID   lipgloss.Style
	failure  lipgloss.Style
	warning  lipgloss.Style
	faint    lipgloss.Style
	passed   lipgloss.Style
}

func newTheme(color bool) theme {
	return theme{
		color:    color,
		location: lipgloss.NewStyle().Bold(true),
		ruleID:   lipgloss.NewStyle().Foreground(lipgloss.Color("63")),
		failure:  lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
		warning:  lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
		faint:    lipgloss.NewStyle().Faint(true),
		passed:   lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true),
	}
}

func (t theme) render(style lipgloss.Style, s string) string {
	if !t.color {
		return s
	}
	return style.Render(s)
}

func location(m linter.Match) string {
	if m.Line > 0 {
		return fmt.Sprintf("%s:%d", m.File, m.Line)
	}
	return m.File
}

func writeText(w io.Writer, r *linter.Report, t theme) error {
	for _, m := range r.Matches {
		levelStyle := t.failure
		if m.Level == linter.LevelWarning {
			levelStyle = t.warning
		}

		line := fmt.Sprintf("%s %s %s %s",
			t.render(t.location, location(m)+":"),
			t.render(t.ruleID, "["+m.RuleID+"]"),
			t.render(levelStyle, SeverityLabel(m.Severity)),
			m.Message)
		if m.TaskName != "" {
			line += " " + t.render(t.faint, "(task: "+m.TaskName+")")
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}

	if len(r.Matches) > 0 {
		if _, err := fmt.Fprintln(w); err != nil {
			return err
		}
	}

	status := t.render(t.passed, "Passed:")
	if !r.Passed() {
		status = t.render(t.failure, "Failed:")
	}
	_, err := fmt.Fprintf(w, "%s %d failure(s), %d warning(s) in %d file(s), %d task(s).\n",
		status, r.Summary.Failures, r.Summary.Warnings, r.Files, r.Tasks)
	return err
}

func writePEP8(w io.Writer, r *linter.Report) error {
	for _, m := range r.Matches {
		if _, err := fmt.Fprintf(w, "%s: [%s] %s\n", location(m), m.RuleID, m.Message); err != nil {
			return err
		}
	}
	return nil
}

func writeJSON(w io.Writer, v interface{}) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

func writeYAML(w io.Writer, v interface{}) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	if err := encoder.Encode(v); err != nil {
		return err
	}
	return encoder.Close()
}

// RuleInfo is the serialisable form of a rule.
type RuleInfo struct {
	ID           string   `json:"id" yaml:"id"`
	ShortDesc    string   `json:"shortdesc" yaml:"shortdesc"`
	Description  string   `json:"description,omitempty" yaml:"description,omitempty"`
	Severity     string   `json:"severity" yaml:"severity"`
	Tags         []string `json:"tags" yaml:"tags"`
	VersionAdded string   `json:"version_added" yaml:"version_added"`
}

// NewRuleInfo captures a rule's metadata.
func NewRuleInfo(rule rules.Rule) RuleInfo {
	tags := append([]string(nil), rule.Tags()...)
	sort.Strings(tags)
	return RuleInfo{
		ID:           rule.ID(),
		ShortDesc:    rule.ShortDesc(),
		Description:  rule.Description(),
		Severity:     string(rule.Severity()),
		Tags:         tags,
		VersionAdded: rule.VersionAdded(),
	}
}

// WriteRules renders a rule listing. Text and pep8 both produce a table.
func WriteRules(w io.Writer, list []rules.Rule, format Format) error {
	infos := make([]RuleInfo, len(list))
	for i, rule := range list {
		infos[i] = NewRuleInfo(rule)
	}

	switch format {
	case FormatJSON:
		return writeJSON(w, infos)
	case FormatYAML:
		return writeYAML(w, infos)
	case FormatText, FormatPEP8, "":
	default:
		return fmt.Errorf("unsupported format: %s", format)
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tSEVERITY\tTAGS\tDESCRIPTION")
	for _, info := range infos {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n",
			info.ID,
			SeverityLabel(rules.Severity(info.Severity)),
			strings.Join(info.Tags, ","),
			info.ShortDesc)
	}
	return tw.Flush()
}

// WriteRule renders one rule with its long description.
func WriteRule(w io.Writer, rule rules.Rule, format Format) error {
	info := NewRuleInfo(rule)

	switch format {
	case FormatJSON:
		return writeJSON(w, info)
	case FormatYAML:
		return writeYAML(w, info)
	}

	_, err := fmt.Fprintf(w, "%s\n\n%s\n\nSeverity: %s\nTags: %s\nAdded in: %s\n\n%s\n",
		info.ID,
		info.ShortDesc,
		SeverityLabel(rule.Severity()),
		strings.Join(info.Tags, ", "),
		info.VersionAdded,
		strings.TrimSpace(info.Description))
	return err
}
