package validate

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/RandomEdge999/RedSubContinent/internal/model"
)

// Invariant violations. A record failing any of them is dropped whole.
var (
	ErrTitleRequired  = errors.New("title is required")
	ErrInvalidSlug    = errors.New("slug contains unsafe characters")
	ErrDateOrder      = errors.New("end date precedes start date")
	ErrCasualtyRange  = errors.New("casualty figures out of order")
	ErrCoordinates    = errors.New("coordinates out of range")
	ErrPrimaryMissing = errors.New("locations have no single primary")
)

var slugRe = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

// Validator checks CleanedRecord invariants
type Validator struct {
	maxSlugLength int
}

// NewValidator creates a validator. A non-positive maxSlugLength disables the length check.
func NewValidator(maxSlugLength int) *Validator {
	return &Validator{maxSlugLength: maxSlugLength}
}

// Validate returns the first invariant the record violates, or nil
func (v *Validator) Validate(rec *model.CleanedRecord) error {
	if strings.TrimSpace(rec.Title) == "" {
		return ErrTitleRequired
	}

	if !slugRe.MatchString(rec.Slug) {
		return fmt.Errorf("%w: %q", ErrInvalidSlug, rec.Slug)
	}
	if v.maxSlugLength > 0 && len(rec.Slug) > v.maxSlugLength {
		return fmt.Errorf("%w: longer than %d", ErrInvalidSlug, v.maxSlugLength)
	}

	if rec.StartDate != nil && rec.EndDate != nil && rec.EndDate.Before(rec.StartDate.Time) {
		return fmt.Errorf("%w: %s > %s", ErrDateOrder, rec.StartDate, rec.EndDate)
	}

	if err := CheckCasualties(rec.Casualties.Low, rec.Casualties.High, rec.Casualties.BestEstimate); err != nil {
		return err
	}

	primaries := 0
	for _, loc := range rec.Locations {
		if loc.IsPrimary {
			primaries++
		}
		if err := CheckCoordinates(loc.Latitude, loc.Longitude); err != nil {
			return fmt.Errorf("location %q: %w", loc.Name, err)
		}
	}
	if len(rec.Locations) > 0 && primaries != 1 {
		return fmt.Errorf("%w: %d flagged", ErrPrimaryMissing, primaries)
	}

	for _, actor := range rec.Actors {
		if actor.Casualties != nil && *actor.Casualties < 0 {
			return fmt.Errorf("%w: actor %q has negative casualties", ErrCasualtyRange, actor.Name)
		}
	}

	return nil
}

// CheckCasualties enforces non-negative figures and low <= best <= high where present
func CheckCasualties(low, high, best *int) error {
	for _, v := range []*int{low, high, best} {
		if v != nil && *v < 0 {
			return fmt.Errorf("%w: negative figure %d", ErrCasualtyRange, *v)
		}
	}
	if low != nil && high != nil && *low > *high {
		return fmt.Errorf("%w: low %d > high %d", ErrCasualtyRange, *low, *high)
	}
	if low != nil && best != nil && *best < *low {
		return fmt.Errorf("%w: best %d < low %d", ErrCasualtyRange, *best, *low)
	}
	if high != nil && best != nil && *best > *high {
		return fmt.Errorf("%w: best %d > high %d", ErrCasualtyRange, *best, *high)
	}
	return nil
}

// CheckCoordinates accepts a missing pair or an in-range pair, never a half pair
func CheckCoordinates(lat, lon *float64) error {
	if lat == nil && lon == nil {
		return nil
	}
	if lat == nil || lon == nil {
		return fmt.Errorf("%w: only one coordinate present", ErrCoordinates)
	}
	if *lat < -90 || *lat > 90 || *lon < -180 || *lon > 180 {
		return fmt.Errorf("%w: (%f, %f)", ErrCoordinates, *lat, *lon)
	}
	return nil
}
