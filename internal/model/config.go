package model

import "time"

// DefaultUserAgent identifies the scraper to upstream sites and the geocoding service
const DefaultUserAgent = "RedSubContinent-Bot/0.1 (Historical data research project; respects robots.txt)"

// Config is the complete pipeline configuration.
// Field tags serve both viper (mapstructure) and `config show` (yaml).
type Config struct {
	HTTP     HTTPConfig     `yaml:"http" mapstructure:"http"`
	Fetch    FetchConfig    `yaml:"fetch" mapstructure:"fetch"`
	Extract  ExtractConfig  `yaml:"extract" mapstructure:"extract"`
	Geocode  GeocodeConfig  `yaml:"geocode" mapstructure:"geocode"`
	Pipeline PipelineConfig `yaml:"pipeline" mapstructure:"pipeline"`
	Store    StoreConfig    `yaml:"store" mapstructure:"store"`
	Sources  []string       `yaml:"sources,omitempty" mapstructure:"sources"`
	Output   OutputConfig   `yaml:"output" mapstructure:"output"`
}

// HTTPConfig configures every outbound HTTP client
type HTTPConfig struct {
	Timeout      time.Duration `yaml:"timeout" mapstructure:"timeout"`
	UserAgent    string        `yaml:"user_agent" mapstructure:"user_agent"`
	MaxBodyBytes int64         `yaml:"max_body_bytes" mapstructure:"max_body_bytes"`
	InsecureTLS  bool          `yaml:"insecure_tls" mapstructure:"insecure_tls"`
	HTTPProxy    string        `yaml:"http_proxy,omitempty" mapstructure:"http_proxy"`
	HTTPSProxy   string        `yaml:"https_proxy,omitempty" mapstructure:"https_proxy"`
	NoProxy      string        `yaml:"no_proxy,omitempty" mapstructure:"no_proxy"`
}

// FetchConfig configures page retrieval
type FetchConfig struct {
	RequestDelay  time.Duration `yaml:"request_delay" mapstructure:"request_delay"`
	MaxAttempts   int           `yaml:"max_attempts" mapstructure:"max_attempts"`
	RetryDelay    time.Duration `yaml:"retry_delay" mapstructure:"retry_delay"`
	CacheDir      string        `yaml:"cache_dir" mapstructure:"cache_dir"`
	UseCache      bool          `yaml:"use_cache" mapstructure:"use_cache"`
	Refresh       bool          `yaml:"refresh" mapstructure:"refresh"` // Evict and refetch cached pages
	RespectRobots bool          `yaml:"respect_robots" mapstructure:"respect_robots"`
}

// ExtractConfig configures table extraction
type ExtractConfig struct {
	TableClass    string `yaml:"table_class" mapstructure:"table_class"`
	MaxReferences int    `yaml:"max_references" mapstructure:"max_references"`
}

// GeocodeConfig configures place resolution
type GeocodeConfig struct {
	BaseURL          string        `yaml:"base_url" mapstructure:"base_url"`
	Interval         time.Duration `yaml:"interval" mapstructure:"interval"`
	CacheFile        string        `yaml:"cache_file" mapstructure:"cache_file"`
	BiasToRegion     bool          `yaml:"bias_to_region" mapstructure:"bias_to_region"`
	RegionQualifiers []string      `yaml:"region_qualifiers" mapstructure:"region_qualifiers"`
	Email            string        `yaml:"email,omitempty" mapstructure:"email"`
	Disabled         bool          `yaml:"disabled" mapstructure:"disabled"`
}

// PipelineConfig configures orchestration and output artifacts
type PipelineConfig struct {
	OutputDir     string `yaml:"output_dir" mapstructure:"output_dir"`
	RawCheckpoint string `yaml:"raw_checkpoint" mapstructure:"raw_checkpoint"`
	CleanedFile   string `yaml:"cleaned_file" mapstructure:"cleaned_file"`
	Workers       int    `yaml:"workers" mapstructure:"workers"`
	MaxLocations  int    `yaml:"max_locations" mapstructure:"max_locations"`
	MaxSourceRefs int    `yaml:"max_source_refs" mapstructure:"max_source_refs"`
	MaxActors     int    `yaml:"max_actors" mapstructure:"max_actors"`
	SlugMaxLength int    `yaml:"slug_max_length" mapstructure:"slug_max_length"`
}

// StoreConfig configures the optional MongoDB sink
type StoreConfig struct {
	MongoURI   string `yaml:"mongo_uri,omitempty" mapstructure:"mongo_uri"`
	Database   string `yaml:"database" mapstructure:"database"`
	Collection string `yaml:"collection" mapstructure:"collection"`
}

// OutputConfig configures console output
type OutputConfig struct {
	Verbose bool `yaml:"verbose" mapstructure:"verbose"`
}

// DefaultConfig returns the built-in defaults
func DefaultConfig() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Timeout:      30 * time.Second,
			UserAgent:    DefaultUserAgent,
			MaxBodyBytes: 10_000_000,
		},
		Fetch: FetchConfig{
			RequestDelay:  time.Second,
			MaxAttempts:   3,
			RetryDelay:    5 * time.Second,
			CacheDir:      "data/raw/pages",
			UseCache:      true,
			RespectRobots: true,
		},
		Extract: ExtractConfig{
			TableClass:    "wikitable",
			MaxReferences: 10,
		},
		Geocode: GeocodeConfig{
			BaseURL:          "https://nominatim.openstreetmap.org",
			Interval:         time.Second,
			CacheFile:        "data/processed/geocode_cache.json",
			BiasToRegion:     true,
			RegionQualifiers: []string{"India", "Pakistan", "Bangladesh", "Afghanistan"},
		},
		Pipeline: PipelineConfig{
			OutputDir:     "data/processed",
			RawCheckpoint: "raw_conflicts.json",
			CleanedFile:   "cleaned_conflicts.json",
			Workers:       4,
			MaxLocations:  5,
			MaxSourceRefs: 5,
			MaxActors:     10,
			SlugMaxLength: 100,
		},
		Store: StoreConfig{
			Database:   "redsubcontinent",
			Collection: "conflicts",
		},
	}
}
