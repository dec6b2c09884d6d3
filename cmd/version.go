package cmd

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/conneroisu/playlint/internal/version"
	"github.com/spf13/cobra"
)

func newVersionCmd() *cobra.Command {
	var (
		versionFormat string
		versionShort  bool
		detailed      bool
	)

	c := &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long: `Display version information for playlint including the semantic
version, git commit, build time, Go version and target platform.

Examples:
  playlint version              # Show version
  playlint version --detailed   # Show detailed version info
  playlint version --format json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			info := version.Get()
			w := cmd.OutOrStdout()

			switch versionFormat {
			case "json":
				return outputVersionJSON(w, info)
			case "text":
				switch {
				case versionShort:
					_, err := fmt.Fprintln(w, info.Short())
					return err
				case detailed:
					_, err := fmt.Fprintln(w, info.Detailed())
					return err
				default:
					_, err := fmt.Fprintf(w, "playlint %s\n", info.Short())
					return err
				}
			default:
				return fmt.Errorf("unsupported format: %s (supported: text, json)", versionFormat)
			}
		},
	}

	c.Flags().StringVarP(&versionFormat, "format", "f", "text", "Output format (text, json)")
	c.Flags().BoolVar(&versionShort, "short", false, "Show short version only")
	c.Flags().BoolVar(&detailed, "detailed", false, "Show detailed version information")
	return c
}

func outputVersionJSON(w io.Writer, info *version.BuildInfo) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(info)
}
