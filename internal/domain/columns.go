package domain

// Column describes one registry column and what query positions it may appear
// in. This is the single allow-list consumed by the listing query builder,
// the export column selection, and the CSV/PDF formatters, so the two
// endpoints can never disagree about which fields are reachable.
//
// Caller-supplied column names are only ever resolved through this table;
// they are never interpolated into SQL.
type Column struct {
	// Name is the wire and database identifier, e.g. "document_no".
	Name string
	// Label is the human heading used in CSV/PDF exports.
	Label string

	Sortable   bool
	Filterable bool
	// Searchable columns participate in the free-text search, OR-combined.
	// Date and numeric columns are compared as text.
	Searchable bool
	Exportable bool
}

// Columns is the ordered registry of every queryable column.
// The order here is the canonical export order when a report selects all
// columns.
var Columns = []Column{
	{Name: "id", Label: "ID", Sortable: true},
	{Name: "surname", Label: "Surname", Sortable: true, Filterable: true, Searchable: true, Exportable: true},
	{Name: "given_name", Label: "Given Name", Sortable: true, Filterable: true, Searchable: true, Exportable: true},
	{Name: "nationality", Label: "Nationality", Sortable: true, Filterable: true, Searchable: true, Exportable: true},
	{Name: "country_of_residence", Label: "Country of Residence", Sortable: true, Filterable: true, Exportable: true},
	{Name: "national_id_number", Label: "National ID Number", Sortable: true, Filterable: true, Searchable: true, Exportable: true},
	{Name: "document_type", Label: "Document Type", Sortable: true, Filterable: true, Exportable: true},
	{Name: "document_no", Label: "Document No.", Sortable: true, Filterable: true, Exportable: true},
	{Name: "dob", Label: "Date of Birth", Sortable: true, Filterable: true, Searchable: true, Exportable: true},
	{Name: "age", Label: "Age", Sortable: true, Filterable: true, Exportable: true},
	{Name: "sex", Label: "Sex", Sortable: true, Filterable: true, Searchable: true, Exportable: true},
	{Name: "travel_date", Label: "Travel Date", Sortable: true, Filterable: true, Searchable: true, Exportable: true},
	{Name: "direction", Label: "Direction", Sortable: true, Filterable: true, Exportable: true},
	{Name: "accommodation_address", Label: "Accommodation Address", Sortable: true, Filterable: true, Exportable: true},
	{Name: "note", Label: "Note", Sortable: true, Filterable: true, Exportable: true},
	{Name: "travel_reason", Label: "Travel Reason", Sortable: true, Filterable: true, Searchable: true, Exportable: true},
	{Name: "border_post", Label: "Border Post", Sortable: true, Filterable: true, Exportable: true},
	{Name: "destination_coming_from", Label: "Destination/Coming From", Sortable: true, Filterable: true, Searchable: true, Exportable: true},
}

// ColumnByName returns the column definition for name, if it exists.
func ColumnByName(name string) (Column, bool) {
	for _, c := range Columns {
		if c.Name == name {
			return c, true
		}
	}
	return Column{}, false
}

// SearchableColumns returns the columns participating in free-text search.
func SearchableColumns() []Column {
	var out []Column
	for _, c := range Columns {
		if c.Searchable {
			out = append(out, c)
		}
	}
	return out
}

// ExportColumns resolves an ordered list of caller-selected column names to
// column definitions. Any name that is unknown or not exportable fails the
// whole selection with ErrBadColumn; exports never silently drop a column.
func ExportColumns(names []string) ([]Column, error) {
	if len(names) == 0 {
		return nil, ErrBadColumn
	}
	out := make([]Column, 0, len(names))
	for _, name := range names {
		c, ok := ColumnByName(name)
		if !ok || !c.Exportable {
			return nil, ErrBadColumn
		}
		out = append(out, c)
	}
	return out, nil
}
