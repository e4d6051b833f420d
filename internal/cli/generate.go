package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/gitweekly/gitweekly/internal/cache"
	"github.com/gitweekly/gitweekly/internal/changelog"
	"github.com/gitweekly/gitweekly/internal/commit"
	"github.com/gitweekly/gitweekly/internal/config"
	"github.com/gitweekly/gitweekly/internal/gitlog"
	"github.com/gitweekly/gitweekly/internal/language"
	"github.com/gitweekly/gitweekly/internal/llm"
	"github.com/gitweekly/gitweekly/internal/output"
	"github.com/gitweekly/gitweekly/internal/pipeline"
	"github.com/gitweekly/gitweekly/internal/redact"
	"github.com/gitweekly/gitweekly/internal/summary"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate this week's changelog entry",
	Long: `Generate summarizes the repository's recent commits into a weekly
changelog entry and prepends it to the changelog file.

Each week gets at most one entry; an existing entry for the current week
is left alone unless --force is given. With --dry-run the rendered entry
is printed instead of written.`,
	RunE: runGenerate,
}

func init() {
	generateCmd.Flags().Int("days", 0, "days of history to summarize (default from config)")
	generateCmd.Flags().String("model", "", "OpenRouter model identifier (default from config)")
	generateCmd.Flags().String("language", "", "output language (default from config)")
	generateCmd.Flags().String("repo", "", "path to the git repository (default: current directory)")
	generateCmd.Flags().Bool("force", false, "replace an existing entry for this week")
	generateCmd.Flags().Bool("dry-run", false, "print the entry instead of writing the changelog")
	generateCmd.Flags().Bool("extended", false, "include change statistics and file-level context")
	rootCmd.AddCommand(generateCmd)
}

func runGenerate(cmd *cobra.Command, _ []string) error {
	out := cmd.OutOrStdout()
	errOut := cmd.ErrOrStderr()

	configPath, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	if cmd.Flags().Changed("days") {
		cfg.DaysBack, _ = cmd.Flags().GetInt("days")
	}
	if cmd.Flags().Changed("model") {
		cfg.Model, _ = cmd.Flags().GetString("model")
	}
	if cmd.Flags().Changed("language") {
		cfg.Language, _ = cmd.Flags().GetString("language")
	}
	if err := config.Validate(cfg); err != nil {
		return err
	}

	repoPath, _ := cmd.Flags().GetString("repo")
	force, _ := cmd.Flags().GetBool("force")
	dryRun, _ := cmd.Flags().GetBool("dry-run")
	extended, _ := cmd.Flags().GetBool("extended")

	output.PrintKeyValue(errOut, "Model", cfg.Model)
	output.PrintKeyValue(errOut, "Language", cfg.Language)
	output.PrintKeyValue(errOut, "Window", fmt.Sprintf("%d days", cfg.DaysBack))

	labels := language.Lookup(cfg.Language, errOut)

	store, err := cache.NewStore(cfg.CacheDir, errOut)
	if err != nil {
		return err
	}
	if removed := store.Sweep(cfg.CacheMaxAge()); removed > 0 {
		output.PrintInfo(errOut, fmt.Sprintf("Removed %d stale chunk cache files", removed))
	}

	since := time.Now().AddDate(0, 0, -cfg.DaysBack)
	records, err := gitlog.Collect(repoPath, since)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		output.PrintInfo(out, "No commits to process")
		return nil
	}
	output.PrintInfo(errOut, fmt.Sprintf("Processing %d commits for a %d-day period", len(records), cfg.DaysBack))

	if cfg.APIKey == "" {
		return fmt.Errorf("OPENROUTER_API_KEY not set; create a key at https://openrouter.ai/keys and export it")
	}
	if !config.KeyLooksValid(cfg.APIKey) {
		output.PrintWarning(errOut, "API key doesn't match the expected OpenRouter format (sk-or-...)")
	}

	repoURL := cfg.RepoURL
	if repoURL == "" {
		repoURL, err = gitlog.RemoteURL(repoPath)
		if err != nil {
			output.PrintWarning(errOut, fmt.Sprintf("Could not resolve origin remote for commit links: %v", err))
			repoURL = "https://github.com/unknown"
		}
	}

	var shared string
	var stats *changelog.Statistics
	if extended {
		collected, statsErr := gitlog.CollectStats(repoPath, since)
		if statsErr != nil {
			output.PrintWarning(errOut, fmt.Sprintf("Extended analysis data unavailable: %v", statsErr))
		} else {
			fileCtx, truncated := gitlog.FileContext(collected.Files)
			if truncated {
				output.PrintWarning(errOut, "File changes context truncated to stay under request size limits")
			}
			shared = "\n\nDetailed file changes and statistics are also available for deeper analysis."
			if fileCtx != "" {
				shared += "\n\nFile changes summary:\n" + fileCtx
			}
			stats = &changelog.Statistics{
				LinesAdded:   collected.LinesAdded,
				LinesDeleted: collected.LinesDeleted,
				FilesChanged: collected.FilesChanged,
				FileChanges:  fileCtx,
			}
		}
	}

	client := llm.NewClient(cfg.APIKey, cfg.Model,
		llm.WithTimeout(cfg.RequestTimeout()),
		llm.WithRouting(repoURL, "gitweekly"))
	policy := llm.NewPolicy(cfg.MaxRetries, 2*time.Second, redact.NewFilter(cfg.APIKey))

	runner := pipeline.NewRunner(pipeline.Config{
		Generator:      summary.NewGenerator(client, policy, cfg.Language, errOut),
		Merger:         summary.NewMerger(client, policy, cfg.Language, errOut),
		Store:          store,
		Labels:         labels,
		Model:          cfg.Model,
		Language:       cfg.Language,
		ChunkSize:      cfg.CommitsPerChunk,
		MaxConcurrent:  cfg.MaxConcurrentChunks,
		MergeBatchSize: cfg.MergeBatchSize,
		Out:            errOut,
	})

	spin := output.StartSpinner(fmt.Sprintf("Summarizing %d commits...", len(records)))
	result, err := runner.Run(cmd.Context(), records, shared)
	spin.Stop()
	if err != nil {
		return err
	}

	now := time.Now()
	year, week := changelog.WeekOf(now)
	entry := changelog.Entry{
		Week:        week,
		Year:        year,
		Date:        now,
		CommitCount: result.CommitCount,
		ChunkCount:  result.ChunkCount,
		Technical:   result.Technical,
		Business:    result.Business,
		Links:       commit.Links(records, repoURL),
		Stats:       stats,
		Forced:      force,
	}

	if dryRun {
		output.PrintRule(out, "preview")
		fmt.Fprintln(out, entry.Render(labels))
		output.PrintRule(out, "")
		output.PrintInfo(errOut, "Dry run: changelog not written")
		return nil
	}

	doc, err := changelog.Load(cfg.ChangelogPath, labels)
	if err != nil {
		return err
	}
	if !doc.Upsert(entry, labels) {
		output.PrintWarning(out, fmt.Sprintf("Entry for %s %d, %d already exists. Use --force to update.", labels.WeekLabel, week, year))
		return nil
	}
	if err := doc.Save(); err != nil {
		return err
	}

	output.PrintSuccess(out, fmt.Sprintf("Changelog updated for %s %d, %d", labels.WeekLabel, week, year))
	return nil
}
