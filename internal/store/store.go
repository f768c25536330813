package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/RandomEdge999/RedSubContinent/internal/model"
)

// Sink persists the cleaned output of a run
type Sink interface {
	Name() string
	Write(ctx context.Context, records []model.CleanedRecord) error
	Close(ctx context.Context) error
}

// WriteJSONFile writes v as indented JSON, replacing path atomically
func WriteJSONFile(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", filepath.Base(path), err)
	}
	data = append(data, '\n')

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("write %s: %w", filepath.Base(path), err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("commit %s: %w", filepath.Base(path), err)
	}
	return nil
}

// JSONSink writes the cleaned artifact as a JSON array
type JSONSink struct {
	path string
}

// NewJSONSink creates a sink for the given artifact path
func NewJSONSink(path string) *JSONSink {
	return &JSONSink{path: path}
}

func (s *JSONSink) Name() string { return "json:" + s.path }

// Write replaces the artifact with records, in order
func (s *JSONSink) Write(_ context.Context, records []model.CleanedRecord) error {
	if records == nil {
		records = []model.CleanedRecord{}
	}
	return WriteJSONFile(s.path, records)
}

func (s *JSONSink) Close(context.Context) error { return nil }
