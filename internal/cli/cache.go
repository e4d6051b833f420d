package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gitweekly/gitweekly/internal/cache"
	"github.com/gitweekly/gitweekly/internal/config"
	"github.com/gitweekly/gitweekly/internal/output"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the chunk summary cache",
}

var cacheSweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Remove stale cache entries",
	Long:  `Sweep removes cached chunk summaries older than cache_max_age_hours.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, store, err := openCacheStore(cmd)
		if err != nil {
			return err
		}
		removed := store.Sweep(cfg.CacheMaxAge())
		output.PrintSuccess(cmd.OutOrStdout(), fmt.Sprintf("Removed %d stale cache entries from %s", removed, store.Dir()))
		return nil
	},
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all cache entries",
	RunE: func(cmd *cobra.Command, _ []string) error {
		_, store, err := openCacheStore(cmd)
		if err != nil {
			return err
		}
		removed := store.Clear()
		output.PrintSuccess(cmd.OutOrStdout(), fmt.Sprintf("Removed %d cache entries from %s", removed, store.Dir()))
		return nil
	},
}

func openCacheStore(cmd *cobra.Command) (*config.Configuration, *cache.Store, error) {
	configPath, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, err
	}
	store, err := cache.NewStore(cfg.CacheDir, cmd.ErrOrStderr())
	if err != nil {
		return nil, nil, err
	}
	return cfg, store, nil
}

func init() {
	cacheCmd.AddCommand(cacheSweepCmd)
	cacheCmd.AddCommand(cacheClearCmd)
	rootCmd.AddCommand(cacheCmd)
}
