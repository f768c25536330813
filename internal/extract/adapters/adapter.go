package adapters

import (
	"go.uber.org/zap"

	"github.com/RandomEdge999/RedSubContinent/internal/model"
)

// Source is a scrapeable origin of conflict tables
type Source interface {
	// Name returns the source name
	Name() string

	// CanHandle checks if this source can parse the given URL
	CanHandle(rawURL string) bool

	// SourceURLs lists the pages this source scrapes by default
	SourceURLs() []string

	// Parse turns fetched markup into raw records
	Parse(markup string, sourceURL string) ([]model.RawRecord, error)
}

// Registry manages sources
type Registry struct {
	sources []Source
	generic Source
}

// NewRegistry creates a registry with the built-in sources.
// A non-empty urls list replaces the Wikipedia default page list.
func NewRegistry(cfg model.ExtractConfig, urls []string, logger *zap.Logger) *Registry {
	registry := &Registry{
		sources: make([]Source, 0),
	}

	registry.Register(NewWikipediaSource(cfg, urls, logger))

	// Set generic source as fallback
	registry.generic = NewGenericSource(cfg, logger)

	return registry
}

// Register registers a new source
func (r *Registry) Register(source Source) {
	r.sources = append(r.sources, source)
}

// FindSource finds the source for the given URL
func (r *Registry) FindSource(rawURL string) Source {
	for _, source := range r.sources {
		if source.CanHandle(rawURL) {
			return source
		}
	}

	return r.generic
}

// SourceURLs returns every registered source's pages in registration order, without duplicates
func (r *Registry) SourceURLs() []string {
	var urls []string
	seen := make(map[string]bool)

	for _, source := range r.sources {
		for _, u := range source.SourceURLs() {
			if !seen[u] {
				seen[u] = true
				urls = append(urls, u)
			}
		}
	}

	return urls
}
