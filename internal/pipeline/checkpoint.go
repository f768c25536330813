package pipeline

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/RandomEdge999/RedSubContinent/internal/model"
	"github.com/RandomEdge999/RedSubContinent/internal/store"
)

// LoadCheckpoint reads a raw checkpoint. Besides the checkpoint document it
// accepts a bare JSON array of raw records, whose scrape time is taken from
// the file's modification time.
func LoadCheckpoint(path string) (*model.RawCheckpoint, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read checkpoint: %w", err)
	}

	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var records []model.RawRecord
		if err := json.Unmarshal(trimmed, &records); err != nil {
			return nil, fmt.Errorf("decode checkpoint: %w", err)
		}
		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("stat checkpoint: %w", err)
		}
		return &model.RawCheckpoint{
			ScrapedAt:     info.ModTime().UTC(),
			SourceCount:   countSources(records),
			ConflictCount: len(records),
			Conflicts:     records,
		}, nil
	}

	var cp model.RawCheckpoint
	if err := json.Unmarshal(trimmed, &cp); err != nil {
		return nil, fmt.Errorf("decode checkpoint: %w", err)
	}
	if cp.Conflicts == nil {
		cp.Conflicts = []model.RawRecord{}
	}
	cp.ConflictCount = len(cp.Conflicts)
	return &cp, nil
}

// WriteCheckpoint writes the checkpoint document atomically
func WriteCheckpoint(path string, cp *model.RawCheckpoint) error {
	return store.WriteJSONFile(path, cp)
}

// NewCheckpoint assembles a checkpoint from per-source batches, keeping batch order
func NewCheckpoint(scrapedAt time.Time, batches []model.SourceBatch) *model.RawCheckpoint {
	records := []model.RawRecord{}
	for _, b := range batches {
		records = append(records, b.Records...)
	}
	return &model.RawCheckpoint{
		ScrapedAt:     scrapedAt.UTC(),
		SourceCount:   len(batches),
		ConflictCount: len(records),
		Conflicts:     records,
	}
}

func countSources(records []model.RawRecord) int {
	seen := make(map[string]bool)
	for _, r := range records {
		seen[r.SourceURL] = true
	}
	return len(seen)
}
