package pipeline

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/RandomEdge999/RedSubContinent/internal/geocode"
	"github.com/RandomEdge999/RedSubContinent/internal/model"
	"github.com/RandomEdge999/RedSubContinent/internal/validate"
)

// SourceSummary is the outcome of one scraped URL
type SourceSummary struct {
	URL     string `json:"url"`
	Adapter string `json:"adapter"`
	Records int    `json:"records"`
	Error   string `json:"error,omitempty"`
}

// Report summarizes a pipeline run
type Report struct {
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`

	Sources    []SourceSummary `json:"sources,omitempty"`
	RawRecords int             `json:"raw_records"`
	Cleaned    int             `json:"cleaned"`
	Duplicates int             `json:"duplicates"`
	Dropped    map[string]int  `json:"dropped"`

	ByType  map[model.ConflictType]int `json:"by_type"`
	Geocode geocode.Stats              `json:"geocode"`

	CheckpointPath string `json:"checkpoint_path,omitempty"`
	OutputPath     string `json:"output_path,omitempty"`
}

func newReport(started time.Time) *Report {
	return &Report{
		StartedAt: started,
		Dropped:   make(map[string]int),
		ByType:    make(map[model.ConflictType]int),
	}
}

// FailedSources counts URLs that yielded an error
func (r *Report) FailedSources() int {
	n := 0
	for _, s := range r.Sources {
		if s.Error != "" {
			n++
		}
	}
	return n
}

// DroppedTotal counts records rejected during cleaning
func (r *Report) DroppedTotal() int {
	n := 0
	for _, v := range r.Dropped {
		n += v
	}
	return n
}

var dropReasons = []struct {
	err    error
	reason string
}{
	{validate.ErrTitleRequired, "missing_title"},
	{validate.ErrInvalidSlug, "invalid_slug"},
	{validate.ErrDateOrder, "date_order"},
	{validate.ErrCasualtyRange, "casualty_range"},
	{validate.ErrCoordinates, "coordinates"},
	{validate.ErrPrimaryMissing, "primary_location"},
}

// dropReason maps a validation error to a stable summary key
func dropReason(err error) string {
	for _, d := range dropReasons {
		if errors.Is(err, d.err) {
			return d.reason
		}
	}
	return "other"
}

// Print writes a human-readable summary
func (r *Report) Print(w io.Writer) {
	fmt.Fprintf(w, "\n=== Run Summary ===\n")
	if len(r.Sources) > 0 {
		fmt.Fprintf(w, "Sources:      %d (%d failed)\n", len(r.Sources), r.FailedSources())
		for _, s := range r.Sources {
			if s.Error != "" {
				fmt.Fprintf(w, "  ✗ %s: %s\n", s.URL, s.Error)
			} else {
				fmt.Fprintf(w, "  ✓ %s [%s]: %d rows\n", s.URL, s.Adapter, s.Records)
			}
		}
	}
	fmt.Fprintf(w, "Raw records:  %d\n", r.RawRecords)
	fmt.Fprintf(w, "Cleaned:      %d\n", r.Cleaned)
	fmt.Fprintf(w, "Duplicates:   %d\n", r.Duplicates)
	fmt.Fprintf(w, "Dropped:      %d\n", r.DroppedTotal())
	for _, reason := range sortedKeys(r.Dropped) {
		fmt.Fprintf(w, "  %-18s %d\n", reason, r.Dropped[reason])
	}

	if len(r.ByType) > 0 {
		fmt.Fprintf(w, "By type:\n")
		types := make([]string, 0, len(r.ByType))
		for t := range r.ByType {
			types = append(types, string(t))
		}
		sort.Strings(types)
		for _, t := range types {
			fmt.Fprintf(w, "  %-18s %d\n", t, r.ByType[model.ConflictType(t)])
		}
	}

	g := r.Geocode
	fmt.Fprintf(w, "Geocoding:    gazetteer=%d cache=%d api=%d unresolved=%d\n", g.Gazetteer, g.Cache, g.API, g.Unresolved)

	if r.CheckpointPath != "" {
		fmt.Fprintf(w, "Checkpoint:   %s\n", r.CheckpointPath)
	}
	if r.OutputPath != "" {
		fmt.Fprintf(w, "Output:       %s\n", r.OutputPath)
	}
	if !r.FinishedAt.IsZero() {
		fmt.Fprintf(w, "Duration:     %s\n", r.FinishedAt.Sub(r.StartedAt).Round(time.Millisecond))
	}
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
