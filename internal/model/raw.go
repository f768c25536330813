package model

import "time"

// RawRecord is one scraped table row, loosely typed.
// Every text field holds cleaned cell text exactly as it appeared on the page.
type RawRecord struct {
	Title     string `json:"title"`
	SourceURL string `json:"source_url"`

	DateText      string `json:"date_text,omitempty"`
	StartDateText string `json:"start_date_text,omitempty"`
	EndDateText   string `json:"end_date_text,omitempty"`

	LocationText   string `json:"location_text,omitempty"`
	CasualtiesText string `json:"casualties_text,omitempty"`

	Description      string `json:"description,omitempty"`
	BelligerentsText string `json:"belligerents_text,omitempty"`
	ResultText       string `json:"result_text,omitempty"`
	Notes            string `json:"notes,omitempty"`

	References []string `json:"references"` // Supplementary article URLs, in page order
}

// RawCheckpoint is the raw-fetch artifact written before cleaning begins
type RawCheckpoint struct {
	ScrapedAt     time.Time   `json:"scraped_at"`
	SourceCount   int         `json:"source_count"`
	ConflictCount int         `json:"conflict_count"`
	Conflicts     []RawRecord `json:"conflicts"`
}

// SourceBatch records the outcome of scraping a single source URL
type SourceBatch struct {
	SourceURL string
	Adapter   string
	Records   []RawRecord
	Err       error
}
