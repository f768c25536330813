package clean

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/gosimple/slug"
)

// DescriptionShortMaxRunes caps description_short
const DescriptionShortMaxRunes = 500

var hyphenRunRe = regexp.MustCompile(`-{2,}`)

// Slugify derives a lowercase, hyphen-separated identifier from a title,
// cut to at most maxLen characters. It is deterministic for a given title.
func Slugify(title string, maxLen int) string {
	s := slug.Make(title)
	s = strings.ReplaceAll(s, "_", "-")
	s = hyphenRunRe.ReplaceAllString(s, "-")
	if maxLen > 0 && len(s) > maxLen {
		s = s[:maxLen]
	}
	return strings.Trim(s, "-")
}

// Truncate returns at most n runes of s
func Truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n])
}

// SplitLocations splits location text on commas and semicolons, keeping at most limit names
func SplitLocations(text string, limit int) []string {
	names := []string{}
	for _, part := range strings.FieldsFunc(text, func(r rune) bool { return r == ',' || r == ';' }) {
		name := strings.TrimSpace(part)
		if name == "" {
			continue
		}
		names = append(names, name)
		if len(names) == limit {
			break
		}
	}
	return names
}
