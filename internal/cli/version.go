package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gitweekly/gitweekly/internal/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, _ []string) {
		if version.IsDevBuild() {
			fmt.Fprintf(cmd.OutOrStdout(), "gitweekly %s (unreleased build)\n", version.Version)
			return
		}
		fmt.Fprintf(cmd.OutOrStdout(), "gitweekly %s (commit %s, built %s)\n",
			version.Version, version.Commit, version.BuildDate)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
