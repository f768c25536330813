package extract

import (
	"regexp"
	"strings"

	"github.com/RandomEdge999/RedSubContinent/internal/model"
)

// Field names a RawRecord text field a column can populate
type Field string

const (
	FieldTitle        Field = "title"
	FieldDate         Field = "date_text"
	FieldLocation     Field = "location_text"
	FieldCasualties   Field = "casualties_text"
	FieldBelligerents Field = "belligerents_text"
	FieldResult       Field = "result_text"
	FieldDescription  Field = "description"
	FieldNotes        Field = "notes"
	FieldStartDate    Field = "start_date_text"
	FieldEndDate      Field = "end_date_text"
)

// FieldPattern lists the header synonyms that map a column to a field
type FieldPattern struct {
	Field    Field
	Synonyms []*regexp.Regexp
}

func fieldPattern(field Field, synonyms ...string) FieldPattern {
	p := FieldPattern{Field: field}
	for _, s := range synonyms {
		p.Synonyms = append(p.Synonyms, regexp.MustCompile(s))
	}
	return p
}

// HeaderCatalog is scanned field by field in this order. A header claimed by an
// earlier field is never reconsidered, so reordering entries changes the column map.
var HeaderCatalog = []FieldPattern{
	fieldPattern(FieldTitle, `conflict`, `war`, `name`, `event`, `battle`, `massacre`, `incident`, `uprising`),
	fieldPattern(FieldDate, `date`, `year`, `period`, `time`),
	fieldPattern(FieldLocation, `location`, `place`, `region`, `area`, `where`),
	fieldPattern(FieldCasualties, `casualties`, `deaths`, `killed`, `fatalities`, `victims`, `dead`),
	fieldPattern(FieldBelligerents, `belligerents`, `combatants`, `parties`, `sides`, `forces`, `participants`),
	fieldPattern(FieldResult, `result`, `outcome`, `status`),
	fieldPattern(FieldDescription, `description`, `summary`, `details`),
	fieldPattern(FieldNotes, `notes`, `remarks`, `comments`),
	fieldPattern(FieldStartDate, `^start`, `began`),
	fieldPattern(FieldEndDate, `^end`, `ended`),
}

// ColumnMap maps fields to zero-based column indices
type ColumnMap map[Field]int

var (
	whitespaceRe      = regexp.MustCompile(`\s+`)
	bracketedHeaderRe = regexp.MustCompile(`\[.*?\]`)
)

// NormalizeHeader lowercases a header, collapses whitespace and strips bracketed citation markers
func NormalizeHeader(text string) string {
	text = strings.ToLower(text)
	text = whitespaceRe.ReplaceAllString(text, " ")
	text = bracketedHeaderRe.ReplaceAllString(text, "")
	return strings.TrimSpace(text)
}

// MapColumns assigns normalized headers to fields using the catalog.
// Column 0 becomes the title when no header matches a title synonym.
// It returns nil when there are no headers at all.
func MapColumns(headers []string, catalog []FieldPattern) ColumnMap {
	if len(headers) == 0 {
		return nil
	}

	columns := make(ColumnMap)
	claimed := make([]bool, len(headers))

	for _, fp := range catalog {
		for i, header := range headers {
			if claimed[i] || header == "" {
				continue
			}
			if matchesAny(header, fp.Synonyms) {
				columns[fp.Field] = i
				claimed[i] = true
				break
			}
		}
	}

	if _, ok := columns[FieldTitle]; !ok {
		columns[FieldTitle] = 0
	}

	return columns
}

func matchesAny(header string, patterns []*regexp.Regexp) bool {
	for _, re := range patterns {
		if re.MatchString(header) {
			return true
		}
	}
	return false
}

// assign writes text into the RawRecord field named by f
func assign(rec *model.RawRecord, f Field, text string) {
	switch f {
	case FieldTitle:
		rec.Title = text
	case FieldDate:
		rec.DateText = text
	case FieldLocation:
		rec.LocationText = text
	case FieldCasualties:
		rec.CasualtiesText = text
	case FieldBelligerents:
		rec.BelligerentsText = text
	case FieldResult:
		rec.ResultText = text
	case FieldDescription:
		rec.Description = text
	case FieldNotes:
		rec.Notes = text
	case FieldStartDate:
		rec.StartDateText = text
	case FieldEndDate:
		rec.EndDateText = text
	}
}
