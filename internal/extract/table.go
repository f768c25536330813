package extract

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/RandomEdge999/RedSubContinent/internal/model"
)

// DefaultMaxReferences bounds supplementary links taken from a title cell
const DefaultMaxReferences = 10

// ErrNoHeaders marks a table without a usable header row
var ErrNoHeaders = errors.New("table has no headers")

// TableExtractor turns data tables in fetched markup into RawRecords
type TableExtractor struct {
	tableClass    string
	scope         string
	maxReferences int
	catalog       []FieldPattern
	logger        *zap.Logger
}

// Option configures a TableExtractor
type Option func(*TableExtractor)

// WithScope limits extraction to tables under the first element matching selector.
// The whole document is used when nothing matches.
func WithScope(selector string) Option {
	return func(e *TableExtractor) { e.scope = selector }
}

// WithCatalog replaces the header catalog
func WithCatalog(catalog []FieldPattern) Option {
	return func(e *TableExtractor) { e.catalog = catalog }
}

// NewTableExtractor creates an extractor for tables carrying tableClass.
// An empty class selects every table.
func NewTableExtractor(tableClass string, maxReferences int, logger *zap.Logger, opts ...Option) *TableExtractor {
	if maxReferences <= 0 {
		maxReferences = DefaultMaxReferences
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	e := &TableExtractor{
		tableClass:    tableClass,
		maxReferences: maxReferences,
		catalog:       HeaderCatalog,
		logger:        logger,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extract returns one RawRecord per titled data row, in document order.
// A table that cannot be mapped is skipped without failing its siblings.
func (e *TableExtractor) Extract(markup string, sourceURL string) ([]model.RawRecord, error) {
	base, err := url.Parse(sourceURL)
	if err != nil {
		return nil, fmt.Errorf("parse source URL: %w", err)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return nil, fmt.Errorf("parse markup: %w", err)
	}

	root := doc.Selection
	if e.scope != "" {
		if scoped := doc.Find(e.scope).First(); scoped.Length() > 0 {
			root = scoped
		}
	}

	tables := root.Find(e.tableSelector())
	e.logger.Debug("extract: tables found",
		zap.String("url", sourceURL),
		zap.Int("tables", tables.Length()))

	records := []model.RawRecord{}
	tables.Each(func(i int, table *goquery.Selection) {
		rows, err := e.extractTable(table, base, sourceURL)
		if err != nil {
			e.logger.Debug("extract: skipping table",
				zap.String("url", sourceURL),
				zap.Int("table", i),
				zap.Error(err))
			return
		}
		records = append(records, rows...)
	})

	return records, nil
}

func (e *TableExtractor) tableSelector() string {
	if e.tableClass == "" {
		return "table"
	}
	return "table." + e.tableClass
}

// extractTable maps the header row and reads every following row
func (e *TableExtractor) extractTable(table *goquery.Selection, base *url.URL, sourceURL string) ([]model.RawRecord, error) {
	rows := ownRows(table)
	if rows.Length() == 0 {
		return nil, ErrNoHeaders
	}

	headers := readHeaders(rows.First())
	columns := MapColumns(headers, e.catalog)
	if columns == nil {
		return nil, ErrNoHeaders
	}

	var records []model.RawRecord
	rows.Slice(1, goquery.ToEnd).Each(func(_ int, row *goquery.Selection) {
		cells := row.ChildrenFiltered("td, th")
		if cells.Length() == 0 {
			return
		}

		rec, ok := e.extractRow(cells, columns, base, sourceURL)
		if !ok {
			return
		}
		records = append(records, rec)
	})

	return records, nil
}

// extractRow builds one record; rows without a title are dropped
func (e *TableExtractor) extractRow(cells *goquery.Selection, columns ColumnMap, base *url.URL, sourceURL string) (model.RawRecord, bool) {
	rec := model.RawRecord{
		SourceURL:  sourceURL,
		References: []string{},
	}

	for field, idx := range columns {
		if idx >= cells.Length() {
			continue
		}
		cell := cells.Eq(idx)
		assign(&rec, field, cellText(cell.Get(0)))

		if field == FieldTitle {
			rec.References = collectLinks(base, cell.Find("a[href]").Map(func(_ int, a *goquery.Selection) string {
				href, _ := a.Attr("href")
				return strings.TrimSpace(href)
			}), e.maxReferences)
		}
	}

	return rec, rec.Title != ""
}

// ownRows returns the rows of table itself, excluding rows of nested tables
func ownRows(table *goquery.Selection) *goquery.Selection {
	return table.Find("tr").FilterFunction(func(_ int, tr *goquery.Selection) bool {
		return tr.Closest("table").IsSelection(table)
	})
}

func readHeaders(row *goquery.Selection) []string {
	var headers []string
	row.ChildrenFiltered("th, td").Each(func(_ int, cell *goquery.Selection) {
		headers = append(headers, NormalizeHeader(cell.Text()))
	})

	for _, h := range headers {
		if h != "" {
			return headers
		}
	}
	return nil
}
