package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/RandomEdge999/RedSubContinent/internal/geocode"
	"github.com/RandomEdge999/RedSubContinent/internal/util"
)

var noBias bool

// geocodeCmd represents the geocode command
var geocodeCmd = &cobra.Command{
	Use:   "geocode <place>...",
	Short: "Resolve place names through the gazetteer, cache and Nominatim",
	Long: `Geocode resolves each argument the same way the pipeline resolves
locations: historical gazetteer first, then the persistent cache, then
the external service with region-qualified variants. New answers are
written to the cache.

Example:
  redsub geocode Lahore Plassey "Cawnpore"
  redsub geocode --no-bias "Hyderabad, Sindh"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runGeocode,
}

func init() {
	rootCmd.AddCommand(geocodeCmd)
	geocodeCmd.Flags().BoolVar(&noBias, "no-bias", false, "do not try region-qualified variants")
}

func runGeocode(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
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

	client := geocode.NewNominatimClient(util.NewHTTPClient(cfg.HTTP), cfg.Geocode.BaseURL, cfg.HTTP.UserAgent, cfg.Geocode.Email)
	g := geocode.Open(cfg.Geocode, client, logger)

	for _, place := range args {
		result := g.GeocodeWithBias(ctx, place, !noBias)
		if !result.IsValid() {
			if result.Source != "" {
				fmt.Printf("✗ %s: unresolved [%s]\n", place, result.Source)
			} else {
				fmt.Printf("✗ %s: unresolved\n", place)
			}
			continue
		}
		name := result.DisplayName
		if name == "" {
			name = strings.TrimSpace(place)
		}
		fmt.Printf("✓ %s: %.4f, %.4f (%s) [%s]\n", place, *result.Latitude, *result.Longitude, name, result.Source)
	}

	stats := g.Stats()
	fmt.Fprintf(os.Stderr, "\ngazetteer=%d cache=%d api=%d unresolved=%d (cache size %d)\n",
		stats.Gazetteer, stats.Cache, stats.API, stats.Unresolved, g.CacheSize())
	return nil
}
