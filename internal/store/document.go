package store

import "github.com/RandomEdge999/RedSubContinent/internal/model"

// conflictDocument is the BSON shape of a cleaned record. Dates are kept as
// YYYY-MM-DD strings so documents match the JSON artifact.
type conflictDocument struct {
	ID               string             `bson:"_id"`
	Title            string             `bson:"title"`
	Slug             string             `bson:"slug"`
	ConflictType     string             `bson:"conflict_type"`
	ConflictScale    string             `bson:"conflict_scale"`
	DescriptionShort string             `bson:"description_short,omitempty"`
	DescriptionLong  string             `bson:"description_long,omitempty"`
	StartDate        *string            `bson:"start_date"`
	EndDate          *string            `bson:"end_date"`
	DatePrecision    string             `bson:"date_precision"`
	Casualties       casualtiesDocument `bson:"casualties"`
	PrimaryRegion    string             `bson:"primary_region,omitempty"`
	Locations        []locationDocument `bson:"locations"`
	Actors           []actorDocument    `bson:"actors"`
	Sources          []sourceDocument   `bson:"sources"`
	Notes            string             `bson:"notes,omitempty"`
	UncertaintyNotes string             `bson:"uncertainty_notes,omitempty"`
}

type casualtiesDocument struct {
	Low              *int   `bson:"low"`
	High             *int   `bson:"high"`
	BestEstimate     *int   `bson:"best_estimate"`
	IncludesInjuries bool   `bson:"includes_injuries"`
	Notes            string `bson:"notes,omitempty"`
}

type locationDocument struct {
	Name         string   `bson:"name"`
	LocationType string   `bson:"location_type,omitempty"`
	Latitude     *float64 `bson:"latitude"`
	Longitude    *float64 `bson:"longitude"`
	IsPrimary    bool     `bson:"is_primary"`
}

type actorDocument struct {
	Name       string `bson:"name"`
	Role       string `bson:"role"`
	Casualties *int   `bson:"casualties,omitempty"`
}

type sourceDocument struct {
	Type         string  `bson:"source_type"`
	Title        string  `bson:"title,omitempty"`
	URL          string  `bson:"url,omitempty"`
	CitationText string  `bson:"citation_text,omitempty"`
	AccessedDate *string `bson:"accessed_date,omitempty"`
}

func dateString(d *model.Date) *string {
	if d == nil {
		return nil
	}
	s := d.String()
	return &s
}

func toDocument(rec *model.CleanedRecord) conflictDocument {
	doc := conflictDocument{
		ID:               rec.ID.String(),
		Title:            rec.Title,
		Slug:             rec.Slug,
		ConflictType:     string(rec.ConflictType),
		ConflictScale:    string(rec.ConflictScale),
		DescriptionShort: rec.DescriptionShort,
		DescriptionLong:  rec.DescriptionLong,
		StartDate:        dateString(rec.StartDate),
		EndDate:          dateString(rec.EndDate),
		DatePrecision:    string(rec.DatePrecision),
		Casualties: casualtiesDocument{
			Low:              rec.Casualties.Low,
			High:             rec.Casualties.High,
			BestEstimate:     rec.Casualties.BestEstimate,
			IncludesInjuries: rec.Casualties.IncludesInjuries,
			Notes:            rec.Casualties.Notes,
		},
		PrimaryRegion:    rec.PrimaryRegion,
		Locations:        make([]locationDocument, 0, len(rec.Locations)),
		Actors:           make([]actorDocument, 0, len(rec.Actors)),
		Sources:          make([]sourceDocument, 0, len(rec.Sources)),
		Notes:            rec.Notes,
		UncertaintyNotes: rec.UncertaintyNotes,
	}

	for _, loc := range rec.Locations {
		doc.Locations = append(doc.Locations, locationDocument(loc))
	}
	for _, a := range rec.Actors {
		doc.Actors = append(doc.Actors, actorDocument{Name: a.Name, Role: string(a.Role), Casualties: a.Casualties})
	}
	for _, s := range rec.Sources {
		doc.Sources = append(doc.Sources, sourceDocument{
			Type:         string(s.Type),
			Title:        s.Title,
			URL:          s.URL,
			CitationText: s.CitationText,
			AccessedDate: dateString(s.AccessedDate),
		})
	}
	return doc
}
