package pipeline

import (
	"context"
	"net/url"
	"strings"

	"github.com/google/uuid"

	"github.com/RandomEdge999/RedSubContinent/internal/clean"
	"github.com/RandomEdge999/RedSubContinent/internal/geocode"
	"github.com/RandomEdge999/RedSubContinent/internal/model"
	"github.com/RandomEdge999/RedSubContinent/internal/validate"
)

// recordNamespace scopes record IDs: the same slug always yields the same ID
var recordNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/RandomEdge999/RedSubContinent/conflicts"))

// Cleaner turns raw rows into cleaned records
type Cleaner struct {
	cfg        model.PipelineConfig
	classifier *validate.SourceClassifier
	validator  *validate.Validator
}

// NewCleaner creates a cleaner with the given limits
func NewCleaner(cfg model.PipelineConfig, classifier *validate.SourceClassifier) *Cleaner {
	if classifier == nil {
		classifier = validate.NewSourceClassifier(nil)
	}
	return &Cleaner{
		cfg:        cfg,
		classifier: classifier,
		validator:  validate.NewValidator(cfg.SlugMaxLength),
	}
}

// Draft builds a cleaned record without coordinates. It has no side effects
// and is safe to call concurrently.
func (c *Cleaner) Draft(raw model.RawRecord, accessed model.Date) model.CleanedRecord {
	title := strings.TrimSpace(raw.Title)

	dateText := raw.DateText
	if strings.TrimSpace(dateText) == "" {
		dateText = raw.StartDateText
	}
	parsedDate := clean.ParseDate(dateText)
	if raw.EndDateText != "" && parsedDate.End == nil {
		if end := clean.ParseDate(raw.EndDateText); end.End != nil {
			parsedDate.End = end.End
		}
	}
	precision := parsedDate.Precision
	if precision == "" {
		precision = model.PrecisionYear
	}

	casualties := clean.ParseCasualties(raw.CasualtiesText)

	names := clean.SplitLocations(raw.LocationText, c.cfg.MaxLocations)
	locations := make([]model.Location, 0, len(names))
	for i, name := range names {
		locations = append(locations, model.Location{Name: name, IsPrimary: i == 0})
	}
	primaryRegion := ""
	if len(locations) > 0 {
		primaryRegion = locations[0].Name
	}

	description := strings.TrimSpace(raw.Description)

	return model.CleanedRecord{
		Title:            title,
		Slug:             clean.Slugify(title, c.cfg.SlugMaxLength),
		ConflictType:     clean.InferConflictType(title, description),
		ConflictScale:    clean.InferConflictScale(casualties.BestEstimate, len(locations)),
		DescriptionShort: clean.Truncate(description, clean.DescriptionShortMaxRunes),
		DescriptionLong:  description,
		StartDate:        parsedDate.Start,
		EndDate:          parsedDate.End,
		DatePrecision:    precision,
		Casualties: model.CasualtiesRange{
			Low:              casualties.Low,
			High:             casualties.High,
			BestEstimate:     casualties.BestEstimate,
			IncludesInjuries: casualties.IncludesInjuries,
			Notes:            casualties.Notes,
		},
		PrimaryRegion:    primaryRegion,
		Locations:        locations,
		Actors:           clean.ParseActors(raw.BelligerentsText, c.cfg.MaxActors),
		Sources:          c.sources(raw, accessed),
		Notes:            strings.TrimSpace(raw.Notes),
		UncertaintyNotes: casualties.Notes,
	}
}

func (c *Cleaner) sources(raw model.RawRecord, accessed model.Date) []model.Source {
	sources := []model.Source{}
	seen := make(map[string]bool)

	if raw.SourceURL != "" {
		seen[raw.SourceURL] = true
		sources = append(sources, model.Source{
			Type:         c.classifier.Classify(raw.SourceURL),
			Title:        extractSubject(raw.SourceURL),
			URL:          raw.SourceURL,
			AccessedDate: &accessed,
		})
	}

	added := 0
	for _, ref := range raw.References {
		if added == c.cfg.MaxSourceRefs {
			break
		}
		if ref == "" || seen[ref] {
			continue
		}
		seen[ref] = true
		sources = append(sources, model.Source{
			Type:  c.classifier.Classify(ref),
			Title: extractSubject(ref),
			URL:   ref,
		})
		added++
	}
	return sources
}

// Locate resolves every location name through g, in order. The first
// location stays primary whether or not it resolved.
func (c *Cleaner) Locate(ctx context.Context, rec *model.CleanedRecord, g *geocode.Geocoder) {
	if g == nil {
		return
	}
	for i := range rec.Locations {
		loc := &rec.Locations[i]
		result := g.Geocode(ctx, loc.Name)
		if !result.IsValid() {
			continue
		}
		loc.Latitude, loc.Longitude = result.Latitude, result.Longitude
		loc.LocationType = result.LocationType
	}
}

// Finalize assigns the record ID and checks every invariant
func (c *Cleaner) Finalize(rec *model.CleanedRecord) error {
	rec.ID = uuid.NewSHA1(recordNamespace, []byte(rec.Slug))
	return c.validator.Validate(rec)
}

// extractSubject extracts a human-readable subject from the URL
func extractSubject(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}

	path := strings.Trim(parsed.Path, "/")
	if path == "" {
		return parsed.Host
	}

	// Extract last path segment
	segments := strings.Split(path, "/")
	last := segments[len(segments)-1]

	// De-slugify: replace underscores with spaces
	last = strings.ReplaceAll(last, "_", " ")

	// Remove file extensions
	if idx := strings.LastIndex(last, "."); idx > 0 && len(last)-idx <= 5 {
		last = last[:idx]
	}

	return last
}
