package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	appVersion = "dev"
	buildTime  = "unknown"
)

// SetVersion records the build information printed by the version command
func SetVersion(version, built string) {
	appVersion = version
	buildTime = built
	rootCmd.Version = version
}

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	// No configuration is needed to print the version
	PersistentPreRun:  func(cmd *cobra.Command, args []string) {},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {},
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "sejmscraper %s (built %s)\n", appVersion, buildTime)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
