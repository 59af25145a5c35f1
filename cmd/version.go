package cmd

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/conneroisu/seo/internal/version"
	"github.com/spf13/cobra"
)

var (
	versionFlags    = &StandardFlags{}
	versionShort    bool
	versionDetailed bool
)

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Long: `Display version information for seo: version, commit, build time, Go
version and platform. --detailed adds the versions of the templating,
CLI and HTML parsing modules the binary was built with.

Examples:
  seo version               # Show version
  seo version --detailed    # Show detailed version info
  seo version --format json # Output as JSON`,
	Args: cobra.NoArgs,
	RunE: runVersionCommand,
}

func init() {
	rootCmd.AddCommand(versionCmd)

	AddFormatFlag(versionCmd, versionFlags, "text", "json")
	versionCmd.Flags().BoolVar(&versionShort, "short", false, "Show short version only")
	versionCmd.Flags().BoolVar(&versionDetailed, "detailed", false, "Show detailed version information")
}

func runVersionCommand(cmd *cobra.Command, args []string) error {
	info := version.Get()
	out := cmd.OutOrStdout()

	if strings.ToLower(versionFlags.Format) == "json" {
		encoder := json.NewEncoder(out)
		encoder.SetIndent("", "  ")
		return encoder.Encode(struct {
			*version.BuildInfo
			IsRelease bool `json:"is_release"`
		}{info, info.IsRelease()})
	}

	switch {
	case versionShort:
		_, err := fmt.Fprintln(out, info.Short())
		return err
	case versionDetailed:
		_, err := fmt.Fprintln(out, info.Detailed())
		return err
	default:
		_, err := fmt.Fprintf(out, "seo %s\nGo: %s\nPlatform: %s\n", info.Short(), info.GoVersion, info.Platform)
		return err
	}
}
