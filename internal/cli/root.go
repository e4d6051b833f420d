// Package cli defines the gitweekly command tree.
package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/gitweekly/gitweekly/internal/output"
)

var rootCmd = &cobra.Command{
	Use:   "gitweekly",
	Short: "AI-assisted weekly changelog generator",
	Long: `gitweekly summarizes a repository's recent commits into a weekly
CHANGELOG.md entry using an OpenRouter-backed model.

Large commit sets are split into chunks that are summarized in parallel,
cached by content, and merged hierarchically into one technical and one
business-facing summary per week.

The API key is read from the OPENROUTER_API_KEY environment variable.`,
	Example: `  # Summarize the last 7 days of the current repository
  gitweekly generate

  # Different window, model, and output language
  gitweekly generate --days 14 --model anthropic/claude-sonnet-4 --language German

  # Preview without touching CHANGELOG.md
  gitweekly generate --dry-run`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command, printing any failure to stderr.
func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		output.PrintError(os.Stderr, err.Error())
	}
	return err
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "path to project config file (default .gitweekly/config.yml)")
}
