package domain

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"
)

// ColumnFilter is one AND-combined substring match against a named column.
type ColumnFilter struct {
	Column string
	Value  string
}

// Sort is the resolved sort order of a listing. Column is always a member of
// the sortable allow-list by the time a Sort exists.
type Sort struct {
	Column string
	Desc   bool
}

// DefaultSort is the deterministic fallback order used whenever a sort
// parameter is missing, malformed, or names a non-sortable column.
var DefaultSort = Sort{Column: "id", Desc: false}

// DateRangeScope controls which date columns a date_from/date_to range
// applies to. It is a deployment configuration option, not a request option.
type DateRangeScope string

const (
	// DateRangeBoth matches a record when either dob or travel_date falls in
	// the range (OR-combined). This is the default.
	DateRangeBoth DateRangeScope = "both"
	// DateRangeTravelDate narrows the range to travel_date only.
	DateRangeTravelDate DateRangeScope = "travel_date"
)

// Valid reports whether s is a supported scope.
func (s DateRangeScope) Valid() bool {
	return s == DateRangeBoth || s == DateRangeTravelDate
}

// ListQuery is the parsed, validated form of the listing/export query
// parameters. It is only constructed by ParseListQuery, so anything past the
// HTTP boundary can trust every column name in it against the allow-list.
//
// The export endpoint uses the same ListQuery as the listing endpoint and
// ignores Page, which is what guarantees the two agree on filtering.
type ListQuery struct {
	// Search is a case-insensitive substring matched against the searchable
	// columns, OR-combined. Empty means no search.
	Search string
	// Filters are AND-combined substring matches, one per column.
	Filters []ColumnFilter
	Sort    Sort
	// DateFrom/DateTo bound the configured date columns inclusively. Either
	// may be nil for an open-ended range.
	DateFrom *time.Time
	DateTo   *time.Time
	Page     PaginationParams
}

// RawListQuery carries the untrusted query-string values of a listing or
// export request. Filters is the JSON-encoded array of {id, value} objects
// the UI sends.
type RawListQuery struct {
	Page     string
	PerPage  string
	Sort     string // "column:direction"
	Search   string
	Filters  string
	DateFrom string
	DateTo   string
}

// rawFilter is the wire shape of one entry in the filters JSON array.
type rawFilter struct {
	ID    string `json:"id"`
	Value string `json:"value"`
}

// ParseListQuery validates raw listing parameters into a ListQuery.
// It never fails: malformed or unrecognized input degrades to a safe default
// (unknown filter columns are dropped, a bad sort falls back to DefaultSort,
// unparseable dates leave the bound open) so the listing stays usable under
// any query string. Dates are parsed against the deployment's configured
// format only.
func ParseListQuery(raw RawListQuery, df DateFormat, maxPerPage int) ListQuery {
	page, _ := strconv.Atoi(raw.Page)
	perPage, _ := strconv.Atoi(raw.PerPage)

	q := ListQuery{
		Search: strings.TrimSpace(raw.Search),
		Sort:   parseSort(raw.Sort),
		Page:   NewPaginationParams(page, perPage, maxPerPage),
	}

	q.Filters = parseFilters(raw.Filters)

	if t, err := df.Parse(raw.DateFrom); err == nil && raw.DateFrom != "" {
		q.DateFrom = &t
	}
	if t, err := df.Parse(raw.DateTo); err == nil && raw.DateTo != "" {
		q.DateTo = &t
	}
	return q
}

// parseSort resolves a "column:direction" value against the sortable
// allow-list. The direction must be exactly "asc" or "desc"; anything else,
// or an unknown column, yields DefaultSort.
func parseSort(s string) Sort {
	col, dir, ok := strings.Cut(s, ":")
	if !ok {
		return DefaultSort
	}
	c, known := ColumnByName(col)
	if !known || !c.Sortable {
		return DefaultSort
	}
	switch dir {
	case "asc":
		return Sort{Column: c.Name, Desc: false}
	case "desc":
		return Sort{Column: c.Name, Desc: true}
	}
	return DefaultSort
}

// parseFilters decodes the filters JSON array, keeping only entries whose
// column is filterable and whose value is non-empty.
func parseFilters(s string) []ColumnFilter {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	var raw []rawFilter
	if err := json.Unmarshal([]byte(s), &raw); err != nil {
		return nil
	}
	var out []ColumnFilter
	for _, f := range raw {
		c, known := ColumnByName(f.ID)
		if !known || !c.Filterable {
			continue
		}
		if strings.TrimSpace(f.Value) == "" {
			continue
		}
		out = append(out, ColumnFilter{Column: c.Name, Value: f.Value})
	}
	return out
}
