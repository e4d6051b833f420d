package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/gitweekly/gitweekly/internal/config"
	"github.com/gitweekly/gitweekly/internal/output"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage gitweekly configuration",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a commented config file with all defaults",
	Long: `Init writes a fully commented configuration template so every
available option is discoverable. The file goes to .gitweekly/config.yml
unless --config points elsewhere.

An existing file is left unchanged unless --force is given.`,
	RunE: runConfigInit,
}

func init() {
	configInitCmd.Flags().Bool("force", false, "overwrite an existing config file")
	configCmd.AddCommand(configInitCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigInit(cmd *cobra.Command, _ []string) error {
	out := cmd.OutOrStdout()

	path, _ := cmd.Flags().GetString("config")
	if path == "" {
		path = config.ProjectConfigPath()
	}
	force, _ := cmd.Flags().GetBool("force")

	if _, err := os.Stat(path); err == nil && !force {
		output.PrintWarning(out, fmt.Sprintf("Config already exists at %s. Use --force to overwrite.", path))
		return nil
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating config directory %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(path, []byte(config.GetDefaultConfigTemplate()), 0o644); err != nil {
		return fmt.Errorf("writing config %s: %w", path, err)
	}

	output.PrintSuccess(out, "Created "+path)
	return nil
}
