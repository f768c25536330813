package clean

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/RandomEdge999/RedSubContinent/internal/model"
)

const (
	minYear = 1000
	maxYear = 2100
)

// months resolves full names and common abbreviations
var months = map[string]time.Month{
	"january": time.January, "jan": time.January,
	"february": time.February, "feb": time.February,
	"march": time.March, "mar": time.March,
	"april": time.April, "apr": time.April,
	"may":  time.May,
	"june": time.June, "jun": time.June,
	"july": time.July, "jul": time.July,
	"august": time.August, "aug": time.August,
	"september": time.September, "sep": time.September, "sept": time.September,
	"october": time.October, "oct": time.October,
	"november": time.November, "nov": time.November,
	"december": time.December, "dec": time.December,
}

var (
	monthDayYearRe = regexp.MustCompile(`(\w+)\s+(\d{1,2}),?\s+(\d{4})`)
	dayMonthYearRe = regexp.MustCompile(`(\d{1,2})\s+(\w+)\s+(\d{4})`)
	yearRangeRe    = regexp.MustCompile(`(\d{4})\s*(?:-|–|—|\bto\b)\s*(\d{4})`)
	monthYearRe    = regexp.MustCompile(`(\w+)\s+(\d{4})`)
	yearPrefixRe   = regexp.MustCompile(`(?i)\b(?:circa|c\.|ca\.|approximately|about)\s*`)
	singleYearRe   = regexp.MustCompile(`\b(\d{4})\b`)
	centuryRe      = regexp.MustCompile(`(?i)\b(early|mid|late)?[\s-]*(\d{1,2})(?:st|nd|rd|th)[\s-]+century`)
	decadeRe       = regexp.MustCompile(`\b(\d{3})0s\b`)
)

// ParseDate turns free-text historical date into a bounded range.
// Strategies run in a fixed order and the first success wins:
// exact date, year range, month and year, single year, century, decade.
// Unmatched text yields a ParsedDate with no dates and no precision.
func ParseDate(text string) model.ParsedDate {
	text = strings.TrimSpace(text)
	result := model.ParsedDate{OriginalText: text}
	if text == "" {
		return result
	}

	if d, ok := parseExactDate(text); ok {
		result.Start, result.End = &d, &d
		result.Precision = model.PrecisionExact
		return result
	}

	if start, end, ok := parseYearRange(text); ok {
		setYears(&result, start, end, model.PrecisionYear)
		return result
	}

	if year, month, ok := parseMonthYear(text); ok {
		start := model.NewDate(year, month, 1)
		end := model.LastDayOfMonth(year, month)
		result.Start, result.End = &start, &end
		result.Precision = model.PrecisionMonth
		return result
	}

	if year, ok := parseSingleYear(text); ok {
		setYears(&result, year, year, model.PrecisionYear)
		return result
	}

	if start, end, ok := parseCentury(text); ok {
		setYears(&result, start, end, model.PrecisionCentury)
		return result
	}

	if decade, ok := parseDecade(text); ok {
		setYears(&result, decade, decade+9, model.PrecisionDecade)
		return result
	}

	return result
}

func setYears(p *model.ParsedDate, startYear, endYear int, precision model.DatePrecision) {
	start := model.NewDate(startYear, time.January, 1)
	end := model.NewDate(endYear, time.December, 31)
	p.Start, p.End = &start, &end
	p.Precision = precision
}

func inYearBounds(year int) bool {
	return year >= minYear && year <= maxYear
}

// validDate rejects calendar overflow such as February 30
func validDate(year int, month time.Month, day int) (model.Date, bool) {
	if day < 1 || day > 31 || !inYearBounds(year) {
		return model.Date{}, false
	}
	d := model.NewDate(year, month, day)
	if d.Year() != year || d.Month() != month || d.Day() != day {
		return model.Date{}, false
	}
	return d, true
}

func parseExactDate(text string) (model.Date, bool) {
	for _, m := range monthDayYearRe.FindAllStringSubmatch(text, -1) {
		month, ok := months[strings.ToLower(m[1])]
		if !ok {
			continue
		}
		day, _ := strconv.Atoi(m[2])
		year, _ := strconv.Atoi(m[3])
		if d, ok := validDate(year, month, day); ok {
			return d, true
		}
	}

	for _, m := range dayMonthYearRe.FindAllStringSubmatch(text, -1) {
		month, ok := months[strings.ToLower(m[2])]
		if !ok {
			continue
		}
		day, _ := strconv.Atoi(m[1])
		year, _ := strconv.Atoi(m[3])
		if d, ok := validDate(year, month, day); ok {
			return d, true
		}
	}

	return model.Date{}, false
}

func parseYearRange(text string) (int, int, bool) {
	for _, m := range yearRangeRe.FindAllStringSubmatch(text, -1) {
		start, _ := strconv.Atoi(m[1])
		end, _ := strconv.Atoi(m[2])
		if inYearBounds(start) && inYearBounds(end) && start <= end {
			return start, end, true
		}
	}
	return 0, 0, false
}

func parseMonthYear(text string) (int, time.Month, bool) {
	for _, m := range monthYearRe.FindAllStringSubmatch(text, -1) {
		month, ok := months[strings.ToLower(m[1])]
		if !ok {
			continue
		}
		year, _ := strconv.Atoi(m[2])
		if inYearBounds(year) {
			return year, month, true
		}
	}
	return 0, 0, false
}

func parseSingleYear(text string) (int, bool) {
	stripped := yearPrefixRe.ReplaceAllString(text, "")
	for _, m := range singleYearRe.FindAllStringSubmatch(stripped, -1) {
		year, _ := strconv.Atoi(m[1])
		if inYearBounds(year) {
			return year, true
		}
	}
	return 0, false
}

func parseCentury(text string) (int, int, bool) {
	m := centuryRe.FindStringSubmatch(text)
	if m == nil {
		return 0, 0, false
	}
	n, _ := strconv.Atoi(m[2])
	if n < 1 || n > 21 {
		return 0, 0, false
	}

	base := (n - 1) * 100
	start, end := base, base+99
	switch strings.ToLower(m[1]) {
	case "early":
		end = base + 33
	case "mid":
		start, end = base+34, base+66
	case "late":
		start = base + 67
	}
	// Year zero does not exist in the historical calendar
	if start < 1 {
		start = 1
	}
	return start, end, true
}

func parseDecade(text string) (int, bool) {
	for _, m := range decadeRe.FindAllStringSubmatch(text, -1) {
		prefix, _ := strconv.Atoi(m[1])
		decade := prefix * 10
		if decade >= minYear && decade <= 2090 {
			return decade, true
		}
	}
	return 0, false
}
