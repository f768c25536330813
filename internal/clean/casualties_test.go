package clean

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCasualties(t *testing.T) {
	tests := []struct {
		name             string
		input            string
		low, high, best  int
		includesInjuries bool
		notes            string
	}{
		{"single number", "50,000", 50000, 50000, 50000, false, ""},
		{"arithmetic mean range", "20,000-50,000", 20000, 50000, 35000, false, ""},
		{"geometric mean range", "1,000-50,000", 1000, 50000, 7071, false, ""},
		{"range with to", "200 to 300 killed", 200, 300, 250, false, ""},
		{"en dash range", "500–800", 500, 800, 650, false, ""},
		{"tens of thousands", "tens of thousands", 10000, 99000, 30000, false, "Interpreted from 'tens of thousands'"},
		{"several hundred", "several hundred dead", 200, 900, 500, false, "Interpreted from 'several hundred'"},
		{"hundreds of thousands", "Hundreds of thousands", 100000, 900000, 300000, false, "Interpreted from 'hundreds of thousands'"},
		{"several million", "several million", 2000000, 10000000, 5000000, false, "Interpreted from 'several million'"},
		{"dozens", "dozens wounded", 24, 100, 50, true, "Interpreted from 'dozens'"},
		{"over phrasing", "over 5,000", 5000, 7500, 6000, false, noteOverPhrasing},
		{"more than phrasing", "more than 300 killed", 300, 450, 360, false, noteOverPhrasing},
		{"over ten thousand", "over 10,000", 10000, 20000, 15000, false, "Interpreted from 'over 10000'"},
		{"approximate", "approximately 500", 400, 600, 500, false, noteApproximate},
		{"tilde", "~250 casualties", 200, 300, 250, true, noteApproximate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseCasualties(tt.input)
			require.True(t, got.IsValid(), "expected %q to parse", tt.input)
			assert.Equal(t, tt.low, *got.Low)
			assert.Equal(t, tt.high, *got.High)
			assert.Equal(t, tt.best, *got.BestEstimate)
			assert.Equal(t, tt.includesInjuries, got.IncludesInjuries)
			assert.Equal(t, tt.notes, got.Notes)
		})
	}
}

func TestParseCasualties_Unparseable(t *testing.T) {
	got := ParseCasualties("not recorded")
	assert.False(t, got.IsValid())
	assert.Equal(t, noteUnparseable, got.Notes)

	empty := ParseCasualties("")
	assert.False(t, empty.IsValid())
	assert.Empty(t, empty.Notes)
}

func TestParseCasualties_VaguePhrase(t *testing.T) {
	got := ParseCasualties("heavy casualties on both sides")
	assert.False(t, got.IsValid())
	assert.Equal(t, "Interpreted from 'heavy casualties'", got.Notes)
	assert.True(t, got.IncludesInjuries)
}

func TestParseCasualties_DeathsOverrideInjuries(t *testing.T) {
	got := ParseCasualties("3,000 killed and wounded")
	require.True(t, got.IsValid())
	assert.False(t, got.IncludesInjuries)

	got = ParseCasualties("3,000 wounded")
	assert.True(t, got.IncludesInjuries)
}

func TestParseCasualties_SkipsYears(t *testing.T) {
	// 1947 is read as a year, leaving the phrase to decide
	got := ParseCasualties("thousands killed in 1947")
	require.True(t, got.IsValid())
	assert.Equal(t, 2000, *got.Low)
	assert.Equal(t, "Interpreted from 'thousands'", got.Notes)
}

func TestParseCasualties_PhraseOrderIsFirstMatch(t *testing.T) {
	// "several hundred thousand" contains "several hundred" and "hundred"
	got := ParseCasualties("several hundred thousand")
	assert.Equal(t, 500000, *got.BestEstimate)

	got = ParseCasualties("a hundred")
	assert.Equal(t, 100, *got.BestEstimate)
}

func TestParseCasualties_BoundsOrdered(t *testing.T) {
	inputs := []string{
		"50,000", "20,000-50,000", "1,000-50,000", "1-1000000", "tens of thousands",
		"over 7", "about 3", "approx. 12,345", "several", "a dozen", "millions",
		"0-0", "9 to 10", "more than 1", "c. 999",
	}
	for _, input := range inputs {
		got := ParseCasualties(input)
		if got.Low == nil || got.High == nil || got.BestEstimate == nil {
			continue
		}
		assert.LessOrEqual(t, *got.Low, *got.BestEstimate, input)
		assert.LessOrEqual(t, *got.BestEstimate, *got.High, input)
	}
}

func TestBestEstimate(t *testing.T) {
	assert.Equal(t, 35000, bestEstimate(20000, 50000))
	assert.Equal(t, 7071, bestEstimate(1000, 50000))
	// Exactly five times low is still an arithmetic mean
	assert.Equal(t, 300, bestEstimate(100, 500))
}
