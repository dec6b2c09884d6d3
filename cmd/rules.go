package cmd

import (
	"github.com/conneroisu/playlint/internal/report"
	"github.com/conneroisu/playlint/internal/rules"
	"github.com/conneroisu/playlint/internal/rules/builtin"
	"github.com/spf13/cobra"
)

func newRulesCmd() *cobra.Command {
	var (
		format report.Format
		tags   []string
	)

	c := &cobra.Command{
		Use:     "rules",
		Aliases: []string{"r"},
		Short:   "List the available rules",
		Long: `List the available rules with their severity and tags.

Examples:
  playlint rules
  playlint rules --tags idiom
  playlint rules -f json
  playlint rules show filter-surrounded-by-spaces`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			list := builtin.Registry().Select(rules.Selection{Tags: tags})
			return report.WriteRules(cmd.OutOrStdout(), list, format)
		},
	}
	c.Flags().VarP(newFormatValue(&format, report.FormatText), "format", "f", "Output format (text, json, yaml)")
	c.Flags().StringSliceVarP(&tags, "tags", "t", nil, "Only list rules with these tags or IDs")

	c.AddCommand(newRulesShowCmd())
	return c
}

func newRulesShowCmd() *cobra.Command {
	var format report.Format

	c := &cobra.Command{
		Use:   "show <rule-id>",
		Short: "Describe one rule",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rule, err := builtin.Registry().Get(args[0])
			if err != nil {
				return err
			}
			return report.WriteRule(cmd.OutOrStdout(), rule, format)
		},
	}
	c.Flags().VarP(newFormatValue(&format, report.FormatText), "format", "f", "Output format (text, json, yaml)")
	return c
}
