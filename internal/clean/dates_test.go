package clean

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RandomEdge999/RedSubContinent/internal/model"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		start     string
		end       string
		precision model.DatePrecision
	}{
		{"month day year", "April 21, 1526", "1526-04-21", "1526-04-21", model.PrecisionExact},
		{"day month year", "15 August 1947", "1947-08-15", "1947-08-15", model.PrecisionExact},
		{"abbreviated month", "Sept 3, 1939", "1939-09-03", "1939-09-03", model.PrecisionExact},
		{"year range hyphen", "1857-1858", "1857-01-01", "1858-12-31", model.PrecisionYear},
		{"year range en dash", "1971–1972", "1971-01-01", "1972-12-31", model.PrecisionYear},
		{"year range words", "1845 to 1846", "1845-01-01", "1846-12-31", model.PrecisionYear},
		{"month year", "April 1947", "1947-04-01", "1947-04-30", model.PrecisionMonth},
		{"february leap year", "February 1948", "1948-02-01", "1948-02-29", model.PrecisionMonth},
		{"single year", "1947", "1947-01-01", "1947-12-31", model.PrecisionYear},
		{"circa year", "c. 1200", "1200-01-01", "1200-12-31", model.PrecisionYear},
		{"approximately year", "approximately 1398", "1398-01-01", "1398-12-31", model.PrecisionYear},
		{"century", "12th century", "1100-01-01", "1199-12-31", model.PrecisionCentury},
		{"early century", "early 12th century", "1100-01-01", "1133-12-31", model.PrecisionCentury},
		{"mid century", "mid-18th century", "1734-01-01", "1766-12-31", model.PrecisionCentury},
		{"late century", "late 19th century", "1867-01-01", "1899-12-31", model.PrecisionCentury},
		{"decade", "the 1940s", "1940-01-01", "1949-12-31", model.PrecisionDecade},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseDate(tt.input)
			require.True(t, got.IsValid(), "expected %q to parse", tt.input)
			assert.Equal(t, tt.start, got.Start.String())
			assert.Equal(t, tt.end, got.End.String())
			assert.Equal(t, tt.precision, got.Precision)
			assert.Equal(t, tt.input, got.OriginalText)
		})
	}
}

func TestParseDate_Unmatched(t *testing.T) {
	for _, input := range []string{"", "   ", "unknown", "sometime in antiquity", "Room 0999"} {
		got := ParseDate(input)
		assert.False(t, got.IsValid(), "expected %q not to parse", input)
		assert.Empty(t, got.Precision)
	}
}

func TestParseDate_RejectsOutOfBoundYears(t *testing.T) {
	// 5000 is outside the year bounds so the later year wins
	got := ParseDate("5000 troops, 1761")
	require.True(t, got.IsValid())
	assert.Equal(t, "1761-01-01", got.Start.String())

	got = ParseDate("3000-4000")
	assert.False(t, got.IsValid())
}

func TestParseDate_InvalidCalendarDay(t *testing.T) {
	// February 30 is not a real day so only the year survives
	got := ParseDate("February 30, 1948")
	require.True(t, got.IsValid())
	assert.Equal(t, model.PrecisionYear, got.Precision)
	assert.Equal(t, "1948-01-01", got.Start.String())
}

func TestParseDate_ReversedRangeFallsThrough(t *testing.T) {
	got := ParseDate("1858-1857")
	require.True(t, got.IsValid())
	assert.Equal(t, model.PrecisionYear, got.Precision)
	assert.Equal(t, "1858-01-01", got.Start.String())
	assert.Equal(t, "1858-12-31", got.End.String())
}

func TestParseDate_EndNotBeforeStart(t *testing.T) {
	inputs := []string{
		"1857-1858", "April 1947", "1947", "early 12th century", "the 1940s",
		"late 1st century", "March 3, 1707", "1565",
	}
	for _, input := range inputs {
		got := ParseDate(input)
		require.True(t, got.IsValid(), input)
		assert.False(t, got.End.Before(got.Start.Time), "end before start for %q", input)
	}
}
