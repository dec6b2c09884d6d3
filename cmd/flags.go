package cmd

import (
	"fmt"

	"github.com/conneroisu/playlint/internal/report"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// formatValue is a pflag.Value that only accepts known report formats.
type formatValue struct {
	format *report.Format
}

func newFormatValue(p *report.Format, def report.Format) *formatValue {
	*p = def
	return &formatValue{format: p}
}

func (f *formatValue) String() string {
	if f.format == nil {
		return ""
	}
	return string(*f.format)
}

func (f *formatValue) Set(s string) error {
	parsed, err := report.ParseFormat(s)
	if err != nil {
		return err
	}
	*f.format = parsed
	return nil
}

func (f *formatValue) Type() string {
	return "format"
}

var _ pflag.Value = (*formatValue)(nil)

// bindFlags binds each flag name to a viper key. Flags left at their defaults
// do not override the config file or environment.
func bindFlags(cmd *cobra.Command, bindings map[string]string) error {
	for flagName, configKey := range bindings {
		flag := cmd.Flags().Lookup(flagName)
		if flag == nil {
			return fmt.Errorf("unknown flag %q", flagName)
		}
		if err := viper.BindPFlag(configKey, flag); err != nil {
			return fmt.Errorf("binding --%s: %w", flagName, err)
		}
	}
	return nil
}
