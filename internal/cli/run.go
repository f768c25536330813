package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/RandomEdge999/RedSubContinent/internal/model"
	"github.com/RandomEdge999/RedSubContinent/internal/pipeline"
	"github.com/RandomEdge999/RedSubContinent/internal/store"
	"github.com/RandomEdge999/RedSubContinent/internal/worker"
)

var (
	urlsFile       string
	sourceURLs     []string
	fromCheckpoint string
	outputDir      string
	workers        int
	noCache        bool
	refreshPages   bool
	noGeocode      bool
	noRobots       bool
	runTimeout     time.Duration
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Scrape sources and clean them in one pass",
	Long: `Run executes the whole pipeline:
- Fetch every source page (cached, paced, retried)
- Extract conflict rows from data tables
- Write the raw checkpoint
- Parse dates and casualties, geocode places, classify and validate
- Deduplicate by slug and write the cleaned artifact

Example:
  redsub run
  redsub run --urls-file sources.txt --output-dir ./out
  redsub run --from-checkpoint data/processed/raw_conflicts.json`,
	Args: cobra.NoArgs,
	RunE: runRun,
}

// scrapeCmd represents the scrape command
var scrapeCmd = &cobra.Command{
	Use:   "scrape",
	Short: "Fetch source pages and write the raw checkpoint",
	Args:  cobra.NoArgs,
	RunE:  runScrape,
}

// cleanCmd represents the clean command
var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Clean an existing raw checkpoint without fetching",
	Long: `Clean re-runs parsing, geocoding and validation over a raw checkpoint.
With an unchanged checkpoint and geocode cache the output is identical.

Example:
  redsub clean
  redsub clean --from-checkpoint backup/raw_conflicts.json`,
	Args: cobra.NoArgs,
	RunE: runClean,
}

func init() {
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(scrapeCmd)
	rootCmd.AddCommand(cleanCmd)

	for _, cmd := range []*cobra.Command{runCmd, scrapeCmd, cleanCmd} {
		cmd.Flags().StringVar(&outputDir, "output-dir", "", "directory for the checkpoint and cleaned artifact")
		cmd.Flags().DurationVar(&runTimeout, "timeout", 0, "abort the run after this long (0 = no limit)")
	}
	for _, cmd := range []*cobra.Command{runCmd, scrapeCmd} {
		cmd.Flags().StringVar(&urlsFile, "urls-file", "", "file with one source URL per line")
		cmd.Flags().StringSliceVar(&sourceURLs, "url", nil, "source URL to scrape (repeatable)")
		cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the page cache (force fresh fetch)")
		cmd.Flags().BoolVar(&refreshPages, "refresh", false, "refetch cached pages and replace the stored copies")
		cmd.Flags().BoolVar(&noRobots, "ignore-robots", false, "do not consult robots.txt")
	}
	for _, cmd := range []*cobra.Command{runCmd, cleanCmd} {
		cmd.Flags().StringVar(&fromCheckpoint, "from-checkpoint", "", "load raw records from this checkpoint instead of scraping")
		cmd.Flags().IntVar(&workers, "workers", 0, "parallel parsing workers (default from config)")
		cmd.Flags().BoolVar(&noGeocode, "no-geocode", false, "resolve places from the gazetteer and cache only")
	}
}

// commandConfig loads configuration and applies flags that were set
func commandConfig(cmd *cobra.Command) (*model.Config, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("output-dir") {
		cfg.Pipeline.OutputDir = outputDir
	}
	if flags.Changed("workers") {
		cfg.Pipeline.Workers = workers
	}
	if noCache {
		cfg.Fetch.UseCache = false
	}
	if refreshPages {
		cfg.Fetch.Refresh = true
	}
	if noRobots {
		cfg.Fetch.RespectRobots = false
	}
	if noGeocode {
		cfg.Geocode.Disabled = true
	}
	return cfg, nil
}

// commandURLs merges --url and --urls-file
func commandURLs() ([]string, error) {
	urls := append([]string{}, sourceURLs...)
	if urlsFile != "" {
		fromFile, err := worker.ReadURLsFromFile(urlsFile)
		if err != nil {
			return nil, fmt.Errorf("read urls file: %w", err)
		}
		urls = append(urls, fromFile...)
	}
	return urls, nil
}

func commandContext() (context.Context, context.CancelFunc) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	if runTimeout <= 0 {
		return ctx, stop
	}
	ctx, cancel := context.WithTimeout(ctx, runTimeout)
	return ctx, func() {
		cancel()
		stop()
	}
}

// buildPipeline wires the optional MongoDB sink when a URI is configured
func buildPipeline(ctx context.Context, cfg *model.Config, logger *zap.Logger) (*pipeline.Pipeline, error) {
	var opts []pipeline.Option
	if cfg.Store.MongoURI != "" {
		sink, err := store.NewMongoSink(ctx, cfg.Store, logger)
		if err != nil {
			return nil, fmt.Errorf("open mongo sink: %w", err)
		}
		opts = append(opts, pipeline.WithSink(sink))
		fmt.Fprintf(os.Stderr, "  Mongo sink:   %s.%s\n", cfg.Store.Database, cfg.Store.Collection)
	}
	return pipeline.NewPipeline(cfg, logger, opts...), nil
}

func printBanner(title string, cfg *model.Config) {
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "  %s\n", title)
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Output dir:   %s\n", cfg.Pipeline.OutputDir)
	fmt.Fprintf(os.Stderr, "  Page cache:   %v\n", cfg.Fetch.UseCache)
	fmt.Fprintf(os.Stderr, "  Geocoding:    %v\n", !cfg.Geocode.Disabled)
	fmt.Fprintf(os.Stderr, "  Workers:      %d\n", cfg.Pipeline.Workers)
}

// withPipeline runs fn against a fully wired pipeline and closes it afterwards
func withPipeline(cmd *cobra.Command, title string, fn func(context.Context, *pipeline.Pipeline) (*pipeline.Report, error)) error {
	cfg, err := commandConfig(cmd)
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg.Output.Verbose)
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, cancel := commandContext()
	defer cancel()

	printBanner(title, cfg)
	p, err := buildPipeline(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() { _ = p.Close(context.Background()) }()
	fmt.Fprintf(os.Stderr, "\n")

	report, err := fn(ctx, p)
	if report != nil {
		report.Print(os.Stderr)
	}
	if err != nil {
		if cfg.Output.Verbose {
			fmt.Fprintln(os.Stderr, eris.ToString(err, true))
		}
		return fmt.Errorf("%s failed: %w", cmd.Name(), err)
	}
	return nil
}

func runRun(cmd *cobra.Command, args []string) error {
	urls, err := commandURLs()
	if err != nil {
		return err
	}
	return withPipeline(cmd, "redsub run", func(ctx context.Context, p *pipeline.Pipeline) (*pipeline.Report, error) {
		if fromCheckpoint == "" {
			fmt.Fprintf(os.Stderr, "⚙️  Scraping sources...\n")
		}
		return p.Run(ctx, pipeline.RunOptions{URLs: urls, FromCheckpoint: fromCheckpoint})
	})
}

func runScrape(cmd *cobra.Command, args []string) error {
	urls, err := commandURLs()
	if err != nil {
		return err
	}
	return withPipeline(cmd, "redsub scrape", func(ctx context.Context, p *pipeline.Pipeline) (*pipeline.Report, error) {
		fmt.Fprintf(os.Stderr, "⚙️  Scraping sources...\n")
		_, report, err := p.Scrape(ctx, urls)
		return report, err
	})
}

func runClean(cmd *cobra.Command, args []string) error {
	return withPipeline(cmd, "redsub clean", func(ctx context.Context, p *pipeline.Pipeline) (*pipeline.Report, error) {
		path := fromCheckpoint
		if path == "" {
			path = p.CheckpointPath()
		}
		fmt.Fprintf(os.Stderr, "⚙️  Cleaning %s...\n", path)
		return p.Run(ctx, pipeline.RunOptions{FromCheckpoint: path})
	})
}
