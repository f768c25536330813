package geocode

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/RandomEdge999/RedSubContinent/internal/model"
)

// Cache is the persistent query -> result mapping that survives across runs.
// It is read fully on load and rewritten after every Put. A single process
// owns the file for the duration of a run; there is no cross-process locking.
type Cache struct {
	path    string
	entries map[string]model.GeocodeResult
}

// LoadCache reads the cache file at path. A missing file yields an empty cache.
// An empty path keeps the cache in memory only.
func LoadCache(path string) (*Cache, error) {
	c := &Cache{
		path:    path,
		entries: make(map[string]model.GeocodeResult),
	}
	if path == "" {
		return c, nil
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return c, nil
	}
	if err != nil {
		return c, fmt.Errorf("read geocode cache: %w", err)
	}

	if err := json.Unmarshal(data, &c.entries); err != nil {
		c.entries = make(map[string]model.GeocodeResult)
		return c, fmt.Errorf("decode geocode cache: %w", err)
	}

	return c, nil
}

// Get returns the cached result for a query, including recorded misses
func (c *Cache) Get(query string) (model.GeocodeResult, bool) {
	result, ok := c.entries[normalizeQuery(query)]
	return result, ok
}

// Put records a result and flushes the whole cache to disk
func (c *Cache) Put(query string, result model.GeocodeResult) error {
	c.entries[normalizeQuery(query)] = result
	return c.save()
}

// Len returns the number of cached queries
func (c *Cache) Len() int {
	return len(c.entries)
}

func (c *Cache) save() error {
	if c.path == "" {
		return nil
	}

	// Map keys marshal sorted, so the file is stable for identical contents
	data, err := json.MarshalIndent(c.entries, "", "  ")
	if err != nil {
		return fmt.Errorf("encode geocode cache: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(c.path), 0755); err != nil {
		return fmt.Errorf("create geocode cache dir: %w", err)
	}

	tmp := c.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("write geocode cache: %w", err)
	}
	if err := os.Rename(tmp, c.path); err != nil {
		return fmt.Errorf("commit geocode cache: %w", err)
	}

	return nil
}
