package adapters

import (
	"testing"

	"github.com/RandomEdge999/RedSubContinent/internal/model"
)

func TestRegistry_FindSource(t *testing.T) {
	registry := NewRegistry(model.DefaultConfig().Extract, nil, nil)

	tests := []struct {
		url  string
		want string
	}{
		{"https://en.wikipedia.org/wiki/List_of_wars_involving_India", "wikipedia"},
		{"https://hi.wikipedia.org/wiki/Something", "wikipedia"},
		{"https://notwikipedia.org.example.com/wiki/X", "generic"},
		{"https://example.com/conflicts", "generic"},
		{"::bad", "generic"},
	}

	for _, tt := range tests {
		if got := registry.FindSource(tt.url).Name(); got != tt.want {
			t.Errorf("FindSource(%q) = %s, want %s", tt.url, got, tt.want)
		}
	}
}

func TestRegistry_SourceURLs(t *testing.T) {
	registry := NewRegistry(model.DefaultConfig().Extract, nil, nil)
	urls := registry.SourceURLs()
	if len(urls) != len(WikipediaConflictPages) {
		t.Fatalf("expected %d default pages, got %d", len(WikipediaConflictPages), len(urls))
	}

	custom := []string{"https://en.wikipedia.org/wiki/A", "https://en.wikipedia.org/wiki/A", "https://en.wikipedia.org/wiki/B"}
	registry = NewRegistry(model.DefaultConfig().Extract, custom, nil)
	urls = registry.SourceURLs()
	if len(urls) != 2 {
		t.Errorf("expected duplicates removed, got %v", urls)
	}
}

func TestWikipediaSource_ParseScopesToArticle(t *testing.T) {
	page := `<html><body>
<div id="mw-navigation"><table class="wikitable"><tr><th>Name</th></tr><tr><td>Main page</td></tr></table></div>
<div id="mw-content-text"><table class="wikitable"><tr><th>War</th><th>Date</th></tr>
<tr><td>Kargil War</td><td>May 1999</td></tr></table></div>
</body></html>`

	source := NewWikipediaSource(model.DefaultConfig().Extract, nil, nil)
	records, err := source.Parse(page, "https://en.wikipedia.org/wiki/Indo-Pakistani_wars_and_conflicts")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
	if records[0].Title != "Kargil War" || records[0].DateText != "May 1999" {
		t.Errorf("unexpected record: %+v", records[0])
	}
}

func TestGenericSource_ParsesUnmarkedTables(t *testing.T) {
	page := `<table><tr><th>Incident</th><th>Killed</th></tr><tr><td>Nellie massacre</td><td>2,191</td></tr></table>`

	records, err := NewGenericSource(model.DefaultConfig().Extract, nil).Parse(page, "https://example.com/list")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(records) != 1 || records[0].CasualtiesText != "2,191" {
		t.Errorf("unexpected records: %+v", records)
	}
}
