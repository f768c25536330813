package geocode

import (
	"context"
	"errors"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/RandomEdge999/RedSubContinent/internal/model"
	"github.com/RandomEdge999/RedSubContinent/internal/worker"
)

// Stats counts how queries were resolved during a run
type Stats struct {
	Gazetteer  int `json:"gazetteer"`
	Cache      int `json:"cache"`
	API        int `json:"api"`
	Unresolved int `json:"unresolved"`
}

// Geocoder resolves place names through the gazetteer, then the persistent
// cache, then the paced external service. It is not safe for concurrent
// Geocode calls; the pipeline resolves locations sequentially.
type Geocoder struct {
	cache      *Cache
	service    Service
	pacer      *worker.Pacer
	qualifiers []string
	bias       bool
	logger     *zap.Logger

	mu    sync.Mutex
	stats Stats
}

// New creates a geocoder backed by the given cache. A nil service disables
// external lookups so only the gazetteer and cache answer.
func New(cfg model.GeocodeConfig, cache *Cache, service Service, logger *zap.Logger) *Geocoder {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cache == nil {
		cache, _ = LoadCache("")
	}
	return &Geocoder{
		cache:      cache,
		service:    service,
		pacer:      worker.NewPacer(cfg.Interval),
		qualifiers: cfg.RegionQualifiers,
		bias:       cfg.BiasToRegion,
		logger:     logger,
	}
}

// Open loads the configured cache file. The client is ignored when geocoding
// is disabled. A corrupt cache file is logged and replaced.
func Open(cfg model.GeocodeConfig, client Service, logger *zap.Logger) *Geocoder {
	if logger == nil {
		logger = zap.NewNop()
	}
	cache, err := LoadCache(cfg.CacheFile)
	if err != nil {
		logger.Warn("geocode: starting with empty cache", zap.String("path", cfg.CacheFile), zap.Error(err))
	}
	if cfg.Disabled {
		client = nil
	}
	return New(cfg, cache, client, logger)
}

// Geocode resolves query using the configured region bias
func (g *Geocoder) Geocode(ctx context.Context, query string) model.GeocodeResult {
	return g.GeocodeWithBias(ctx, query, g.bias)
}

// GeocodeWithBias resolves query. It never fails: every error path returns
// an empty result tagged with the original query.
func (g *Geocoder) GeocodeWithBias(ctx context.Context, query string, bias bool) model.GeocodeResult {
	query = strings.TrimSpace(query)
	empty := model.GeocodeResult{OriginalQuery: query}
	if query == "" {
		return empty
	}

	if entry, ok := LookupGazetteer(query); ok {
		lat, lon := entry.Latitude, entry.Longitude
		return g.count(model.GeocodeResult{
			Latitude:      &lat,
			Longitude:     &lon,
			DisplayName:   entry.DisplayName,
			LocationType:  entry.LocationType,
			Source:        model.GeocodeGazetteer,
			OriginalQuery: query,
		})
	}

	// A recorded miss is still a cache hit
	if cached, ok := g.cache.Get(query); ok {
		if !cached.IsValid() {
			cached = model.GeocodeResult{}
		}
		cached.OriginalQuery = query
		cached.Source = model.GeocodeCache
		return g.count(cached)
	}

	if g.service == nil {
		return g.count(empty)
	}

	result, err := g.resolve(ctx, query, bias)
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		// Not a real answer, keep it out of the cache
		return g.count(empty)
	}

	stored := result
	if !result.IsValid() {
		stored = model.GeocodeResult{}
	}
	if err := g.cache.Put(query, stored); err != nil {
		g.logger.Warn("geocode: cache write failed", zap.String("query", query), zap.Error(err))
	}

	if !result.IsValid() {
		return g.count(model.GeocodeResult{OriginalQuery: query, Source: model.GeocodeAPI})
	}
	return g.count(result)
}

// resolve tries region-qualified variants before the bare query. It only
// returns an error when ctx ended.
func (g *Geocoder) resolve(ctx context.Context, query string, bias bool) (model.GeocodeResult, error) {
	for _, variant := range g.variants(query, bias) {
		if err := g.pacer.Wait(ctx); err != nil {
			return model.GeocodeResult{}, err
		}
		result, err := g.service.Search(ctx, variant)
		if err != nil {
			if ctx.Err() != nil {
				return model.GeocodeResult{}, ctx.Err()
			}
			if !errors.Is(err, ErrNotFound) {
				g.logger.Debug("geocode: lookup failed", zap.String("query", variant), zap.Error(err))
			}
			continue
		}
		if result.IsValid() {
			result.OriginalQuery = query
			result.Source = model.GeocodeAPI
			return result, nil
		}
	}
	return model.GeocodeResult{}, nil
}

func (g *Geocoder) variants(query string, bias bool) []string {
	if !bias || g.isQualified(query) {
		return []string{query}
	}
	out := make([]string, 0, len(g.qualifiers)+1)
	for _, q := range g.qualifiers {
		out = append(out, query+", "+q)
	}
	return append(out, query)
}

// isQualified reports whether query already names one of the region qualifiers
func (g *Geocoder) isQualified(query string) bool {
	lower := strings.ToLower(query)
	for _, q := range g.qualifiers {
		if strings.Contains(lower, strings.ToLower(q)) {
			return true
		}
	}
	return false
}

// count tallies result by source. Misses count as unresolved whatever
// layer answered.
func (g *Geocoder) count(result model.GeocodeResult) model.GeocodeResult {
	g.mu.Lock()
	defer g.mu.Unlock()
	if !result.IsValid() {
		g.stats.Unresolved++
		return result
	}
	switch result.Source {
	case model.GeocodeGazetteer:
		g.stats.Gazetteer++
	case model.GeocodeCache:
		g.stats.Cache++
	case model.GeocodeAPI:
		g.stats.API++
	}
	return result
}

// Stats returns resolution counts so far
func (g *Geocoder) Stats() Stats {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.stats
}

// CacheSize returns the number of persisted queries
func (g *Geocoder) CacheSize() int {
	return g.cache.Len()
}
