package adapters

import (
	"go.uber.org/zap"

	"github.com/RandomEdge999/RedSubContinent/internal/extract"
	"github.com/RandomEdge999/RedSubContinent/internal/model"
)

// GenericSource is the fallback source for unknown sites.
// It reads every table on the page since unknown sites carry no data-table marker.
type GenericSource struct {
	extractor *extract.TableExtractor
}

// NewGenericSource creates a new generic source
func NewGenericSource(cfg model.ExtractConfig, logger *zap.Logger) *GenericSource {
	return &GenericSource{
		extractor: extract.NewTableExtractor("", cfg.MaxReferences, logger),
	}
}

// Name returns the source name
func (s *GenericSource) Name() string {
	return "generic"
}

// CanHandle always returns true (fallback source)
func (s *GenericSource) CanHandle(rawURL string) bool {
	return true
}

// SourceURLs is empty; generic pages are only scraped when listed explicitly
func (s *GenericSource) SourceURLs() []string {
	return nil
}

// Parse extracts rows from every table on the page
func (s *GenericSource) Parse(markup string, sourceURL string) ([]model.RawRecord, error) {
	return s.extractor.Extract(markup, sourceURL)
}
