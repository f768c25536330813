package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/RandomEdge999/RedSubContinent/internal/pipeline"
)

// cacheCmd represents the cache command
var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the page cache",
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete every cached page body",
	Long: `Delete the page cache under fetch.cache_dir.
The geocode cache is left alone.`,
	Args: cobra.NoArgs,
	RunE: runCacheClear,
}

func init() {
	rootCmd.AddCommand(cacheCmd)
	cacheCmd.AddCommand(cacheClearCmd)
}

func runCacheClear(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cfg.Fetch.CacheDir == "" {
		return fmt.Errorf("fetch.cache_dir is not set")
	}

	// Clearing must work even when caching is switched off for runs
	cfg.Fetch.UseCache = true
	cfg.Fetch.RespectRobots = false

	fetcher := pipeline.NewFetcher(cfg.HTTP, cfg.Fetch, nil)
	if err := fetcher.ClearCache(); err != nil {
		return fmt.Errorf("clear page cache: %w", err)
	}

	fmt.Fprintf(os.Stderr, "✓ Cleared page cache: %s\n", cfg.Fetch.CacheDir)
	return nil
}
