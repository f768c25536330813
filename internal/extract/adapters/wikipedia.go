package adapters

import (
	"net/url"
	"strings"

	"go.uber.org/zap"

	"github.com/RandomEdge999/RedSubContinent/internal/extract"
	"github.com/RandomEdge999/RedSubContinent/internal/model"
)

// WikipediaConflictPages are the list articles scraped by default
var WikipediaConflictPages = []string{
	// Wars by country
	"https://en.wikipedia.org/wiki/List_of_wars_involving_India",
	"https://en.wikipedia.org/wiki/List_of_wars_involving_Pakistan",
	"https://en.wikipedia.org/wiki/List_of_wars_involving_Bangladesh",
	"https://en.wikipedia.org/wiki/List_of_wars_involving_Afghanistan",

	// Massacres
	"https://en.wikipedia.org/wiki/List_of_massacres_in_India",
	"https://en.wikipedia.org/wiki/List_of_massacres_in_Pakistan",
	"https://en.wikipedia.org/wiki/List_of_massacres_in_Bangladesh",

	// Regional conflict lists
	"https://en.wikipedia.org/wiki/Indo-Pakistani_wars_and_conflicts",
	"https://en.wikipedia.org/wiki/List_of_modern_conflicts_in_South_Asia",

	// Colonial era
	"https://en.wikipedia.org/wiki/Rebellions_in_British_India",

	"https://en.wikipedia.org/wiki/Partition_of_India",
}

// wikipediaContentSelector is the article body; navigation chrome lives outside it
const wikipediaContentSelector = "#mw-content-text"

// WikipediaSource extracts conflict tables from Wikipedia list articles
type WikipediaSource struct {
	urls      []string
	extractor *extract.TableExtractor
}

// NewWikipediaSource creates a new Wikipedia source
func NewWikipediaSource(cfg model.ExtractConfig, urls []string, logger *zap.Logger) *WikipediaSource {
	if len(urls) == 0 {
		urls = WikipediaConflictPages
	}
	return &WikipediaSource{
		urls: urls,
		extractor: extract.NewTableExtractor(cfg.TableClass, cfg.MaxReferences, logger,
			extract.WithScope(wikipediaContentSelector)),
	}
}

// Name returns the source name
func (s *WikipediaSource) Name() string {
	return "wikipedia"
}

// CanHandle checks if this is a Wikipedia URL
func (s *WikipediaSource) CanHandle(rawURL string) bool {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	host := strings.ToLower(parsed.Hostname())
	return host == "wikipedia.org" || strings.HasSuffix(host, ".wikipedia.org")
}

// SourceURLs returns the configured list pages
func (s *WikipediaSource) SourceURLs() []string {
	return s.urls
}

// Parse extracts rows from the article's data tables
func (s *WikipediaSource) Parse(markup string, sourceURL string) ([]model.RawRecord, error) {
	return s.extractor.Extract(markup, sourceURL)
}
