package clean

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/RandomEdge999/RedSubContinent/internal/model"
)

// quantityPhrase maps a qualitative phrase to (low, high, best).
// A nil triple marks a vague phrase that carries no figure.
type quantityPhrase struct {
	phrase          string
	low, high, best *int
}

func qp(phrase string, low, high, best int) quantityPhrase {
	return quantityPhrase{phrase: phrase, low: &low, high: &high, best: &best}
}

// quantityPhrases is matched by substring in declared order and the first hit wins.
// Reordering changes output: phrases overlap ("hundred" is inside "several hundred"),
// so every compound phrase must precede the phrases it contains.
// Do not restore the smallest-first listing (few, several, ..., tens of thousands):
// under it "several hundred" yields 3-12 and "tens of thousands" yields 1000.
var quantityPhrases = []quantityPhrase{
	qp("tens of thousands", 10_000, 99_000, 30_000),
	qp("hundreds of thousands", 100_000, 900_000, 300_000),
	qp("several hundred thousand", 200_000, 900_000, 500_000),
	qp("several million", 2_000_000, 10_000_000, 5_000_000),
	qp("millions", 2_000_000, 10_000_000, 5_000_000),
	qp("million", 1_000_000, 1_000_000, 1_000_000),
	qp("over ten thousand", 10_000, 20_000, 15_000),
	qp("over 10000", 10_000, 20_000, 15_000),
	qp("many thousands", 5_000, 15_000, 10_000),
	qp("many thousand", 5_000, 9_000, 7_000),
	qp("several thousand", 2_000, 9_000, 5_000),
	qp("thousands", 2_000, 9_000, 4_000),
	qp("thousand", 1_000, 1_000, 1_000),
	qp("many hundreds", 500, 900, 700),
	qp("several hundred", 200, 900, 500),
	qp("hundreds", 200, 900, 400),
	qp("hundred", 100, 100, 100),
	qp("dozens", 24, 100, 50),
	qp("a dozen", 10, 14, 12),
	qp("few", 2, 10, 5),
	qp("several", 3, 12, 7),
	qp("some", 5, 20, 10),
	{phrase: "heavy casualties"},
	{phrase: "heavy"},
	{phrase: "significant"},
	{phrase: "unknown"},
	{phrase: "uncertain"},
}

const (
	noteOverPhrasing = "Lower bound from 'over/more than' phrasing"
	noteApproximate  = "Approximate figure with ±20% margin"
	noteUnparseable  = "Could not parse numeric value"
)

var (
	injuryRe     = regexp.MustCompile(`injur|wound|hurt|casualt`)
	deathsOnlyRe = regexp.MustCompile(`killed|deaths|dead|died|fatalities`)
	rangeRe      = regexp.MustCompile(`(\d+)\s*(?:-|–|—|\bto\b)\s*(\d+)`)
	numberRe     = regexp.MustCompile(`\b\d+\b`)
	rangeLeftRe  = regexp.MustCompile(`\d\s*[-–—]\s*$`)
	rangeRightRe = regexp.MustCompile(`^\s*[-–—]\s*\d`)
	qualifiedRe  = regexp.MustCompile(`(?i)(?:\b(?:over|more than|at least|minimum|approximately|approx\.?|about|around|circa|c\.)|~)\s*$`)
	overRe       = regexp.MustCompile(`(?i)(?:\bover|\bmore than|\bat least|\bminimum)\s+(\d+)`)
	approxRe     = regexp.MustCompile(`(?i)(?:\bapproximately|\bapprox\.?|\babout|\baround|\bcirca|\bc\.|~)\s*(\d+)`)
)

// ParseCasualties turns free-text casualty figures into a bounded estimate.
// Strategies run in a fixed order and the first match wins: numeric range,
// single number, qualitative phrase, lower bound, approximate figure.
// Thousands separators are removed before any matching.
func ParseCasualties(text string) model.ParsedCasualties {
	text = strings.TrimSpace(text)
	result := model.ParsedCasualties{OriginalText: text}
	if text == "" {
		return result
	}

	clean := strings.ReplaceAll(text, ",", "")
	lower := strings.ToLower(clean)

	// Death-specific wording overrides injury-inclusive wording
	result.IncludesInjuries = injuryRe.MatchString(lower) && !deathsOnlyRe.MatchString(lower)

	if low, high, ok := parseNumericRange(clean); ok {
		best := bestEstimate(low, high)
		setFigures(&result, low, high, best)
		return result
	}

	if n, ok := parseSingleNumber(clean); ok {
		setFigures(&result, n, n, n)
		return result
	}

	for _, q := range quantityPhrases {
		if strings.Contains(lower, q.phrase) {
			result.Low, result.High, result.BestEstimate = copyInt(q.low), copyInt(q.high), copyInt(q.best)
			result.Notes = fmt.Sprintf("Interpreted from '%s'", q.phrase)
			return result
		}
	}

	if n, ok := firstNumber(overRe, clean); ok {
		setFigures(&result, n, roundInt(float64(n)*1.5), roundInt(float64(n)*1.2))
		result.Notes = noteOverPhrasing
		return result
	}

	if n, ok := firstNumber(approxRe, clean); ok {
		setFigures(&result, roundInt(float64(n)*0.8), roundInt(float64(n)*1.2), n)
		result.Notes = noteApproximate
		return result
	}

	result.Notes = noteUnparseable
	return result
}

// bestEstimate uses the geometric mean when the range spans more than a factor of five
func bestEstimate(low, high int) int {
	if float64(high) > 5*float64(low) {
		return roundInt(math.Sqrt(float64(low) * float64(high)))
	}
	return roundInt((float64(low) + float64(high)) / 2)
}

func parseNumericRange(text string) (int, int, bool) {
	m := rangeRe.FindStringSubmatch(text)
	if m == nil {
		return 0, 0, false
	}
	low, err1 := strconv.Atoi(m[1])
	high, err2 := strconv.Atoi(m[2])
	if err1 != nil || err2 != nil || low > high {
		return 0, 0, false
	}
	return low, high, true
}

// parseSingleNumber returns the first positive number that is not a year,
// not one side of a range, and not introduced by a bounding or approximating qualifier
func parseSingleNumber(text string) (int, bool) {
	for _, loc := range numberRe.FindAllStringIndex(text, -1) {
		before, after := text[:loc[0]], text[loc[1]:]
		if rangeLeftRe.MatchString(before) || rangeRightRe.MatchString(after) {
			continue
		}
		if qualifiedRe.MatchString(before) {
			continue
		}

		n, err := strconv.Atoi(text[loc[0]:loc[1]])
		if err != nil || n <= 0 {
			continue
		}
		if n >= minYear && n <= maxYear {
			continue
		}
		return n, true
	}
	return 0, false
}

func firstNumber(re *regexp.Regexp, text string) (int, bool) {
	m := re.FindStringSubmatch(text)
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return n, true
}

func setFigures(p *model.ParsedCasualties, low, high, best int) {
	p.Low, p.High, p.BestEstimate = &low, &high, &best
}

func roundInt(f float64) int {
	return int(math.Round(f))
}

func copyInt(p *int) *int {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
