package model

import "github.com/google/uuid"

// ConflictType categorizes a historical event. Values are a closed set.
type ConflictType string

const (
	ConflictWar              ConflictType = "war"
	ConflictInvasion         ConflictType = "invasion"
	ConflictMassacre         ConflictType = "massacre"
	ConflictRiot             ConflictType = "riot"
	ConflictFamine           ConflictType = "famine"
	ConflictPartitionEvent   ConflictType = "partition_event"
	ConflictUprising         ConflictType = "uprising"
	ConflictImperialCampaign ConflictType = "imperial_campaign"
	ConflictCivil            ConflictType = "civil_conflict"
	ConflictCommunalViolence ConflictType = "communal_violence"
	ConflictOther            ConflictType = "other"
)

// ConflictScale is the geographic reach of an event
type ConflictScale string

const (
	ScaleLocal          ConflictScale = "local"
	ScaleRegional       ConflictScale = "regional"
	ScaleSubcontinental ConflictScale = "subcontinental"
	ScaleInternational  ConflictScale = "international"
)

// DatePrecision tags how much of a parsed date is actually known
type DatePrecision string

const (
	PrecisionExact   DatePrecision = "exact"
	PrecisionMonth   DatePrecision = "month"
	PrecisionYear    DatePrecision = "year"
	PrecisionDecade  DatePrecision = "decade"
	PrecisionCentury DatePrecision = "century"
)

// ActorRole is the part an actor played in a conflict
type ActorRole string

const (
	RoleAggressor     ActorRole = "aggressor"
	RoleDefender      ActorRole = "defender"
	RoleColonialPower ActorRole = "colonial_power"
	RoleRebelGroup    ActorRole = "rebel_group"
	RoleEmpire        ActorRole = "empire"
	RoleKingdom       ActorRole = "kingdom"
	RoleState         ActorRole = "state"
	RoleOther         ActorRole = "other"
)

// SourceType classifies a citation
type SourceType string

const (
	SourceWikipedia        SourceType = "wikipedia"
	SourceBook             SourceType = "book"
	SourceAcademicPaper    SourceType = "academic_paper"
	SourceDatabase         SourceType = "database"
	SourceGovernmentRecord SourceType = "government_record"
	SourceOther            SourceType = "other"
)

// GeocodeSource records which layer resolved a place name
type GeocodeSource string

const (
	GeocodeGazetteer GeocodeSource = "gazetteer"
	GeocodeCache     GeocodeSource = "cache"
	GeocodeAPI       GeocodeSource = "api"
)

// ParsedDate is the normalized form of free-text date
type ParsedDate struct {
	Start        *Date         `json:"start_date,omitempty"`
	End          *Date         `json:"end_date,omitempty"`
	Precision    DatePrecision `json:"precision,omitempty"`
	OriginalText string        `json:"original_text,omitempty"`
}

// IsValid reports whether at least one date was recovered
func (p ParsedDate) IsValid() bool {
	return p.Start != nil || p.End != nil
}

// ParsedCasualties is a bounded casualty estimate with explicit uncertainty
type ParsedCasualties struct {
	Low              *int   `json:"low,omitempty"`
	High             *int   `json:"high,omitempty"`
	BestEstimate     *int   `json:"best_estimate,omitempty"`
	IncludesInjuries bool   `json:"includes_injuries"`
	Notes            string `json:"notes,omitempty"`
	OriginalText     string `json:"original_text,omitempty"`
}

// IsValid reports whether any figure was recovered
func (p ParsedCasualties) IsValid() bool {
	return p.Low != nil || p.High != nil || p.BestEstimate != nil
}

// GeocodeResult is the outcome of resolving a place name
type GeocodeResult struct {
	Latitude      *float64      `json:"lat"`
	Longitude     *float64      `json:"lon"`
	DisplayName   string        `json:"display_name,omitempty"`
	LocationType  string        `json:"type,omitempty"`
	Source        GeocodeSource `json:"source,omitempty"`
	OriginalQuery string        `json:"-"`
}

// IsValid reports whether both coordinates are present and in range
func (g GeocodeResult) IsValid() bool {
	if g.Latitude == nil || g.Longitude == nil {
		return false
	}
	return *g.Latitude >= -90 && *g.Latitude <= 90 &&
		*g.Longitude >= -180 && *g.Longitude <= 180
}

// CasualtiesRange is the casualty block of a cleaned record
type CasualtiesRange struct {
	Low              *int   `json:"low"`
	High             *int   `json:"high"`
	BestEstimate     *int   `json:"best_estimate"`
	IncludesInjuries bool   `json:"includes_injuries"`
	Notes            string `json:"notes,omitempty"`
}

// Location is a place associated with a conflict
type Location struct {
	Name         string   `json:"name"`
	LocationType string   `json:"location_type,omitempty"`
	Latitude     *float64 `json:"latitude"`
	Longitude    *float64 `json:"longitude"`
	IsPrimary    bool     `json:"is_primary"`
}

// HasCoordinates reports whether the location was resolved
func (l Location) HasCoordinates() bool {
	return l.Latitude != nil && l.Longitude != nil
}

// Actor is a participant in a conflict
type Actor struct {
	Name       string    `json:"name"`
	Role       ActorRole `json:"role"`
	Casualties *int      `json:"casualties,omitempty"`
}

// Source is a citation for a cleaned record
type Source struct {
	Type         SourceType `json:"source_type"`
	Title        string     `json:"title,omitempty"`
	URL          string     `json:"url,omitempty"`
	CitationText string     `json:"citation_text,omitempty"`
	AccessedDate *Date      `json:"accessed_date,omitempty"`
}

// CleanedRecord is a validated, typed conflict ready for the downstream store.
// It is built once from a RawRecord and never mutated afterwards.
type CleanedRecord struct {
	ID    uuid.UUID `json:"id"`
	Title string    `json:"title"`
	Slug  string    `json:"slug"`

	ConflictType  ConflictType  `json:"conflict_type"`
	ConflictScale ConflictScale `json:"conflict_scale"`

	DescriptionShort string `json:"description_short,omitempty"`
	DescriptionLong  string `json:"description_long,omitempty"`

	StartDate     *Date         `json:"start_date"`
	EndDate       *Date         `json:"end_date"`
	DatePrecision DatePrecision `json:"date_precision"`

	Casualties CasualtiesRange `json:"casualties"`

	PrimaryRegion string     `json:"primary_region,omitempty"`
	Locations     []Location `json:"locations"`
	Actors        []Actor    `json:"actors"`
	Sources       []Source   `json:"sources"`

	Notes            string `json:"notes,omitempty"`
	UncertaintyNotes string `json:"uncertainty_notes,omitempty"`
}
