package domain

// Row is one parsed record, keyed by trimmed column name. Missing cells
// read as the empty string.
type Row map[string]string

// Table is a normalized tabular file: ordered column names plus rows.
type Table struct {
	Columns []string `json:"columns"`
	Rows    []Row    `json:"rows"`
}

// HasColumn reports whether the table carries the named column.
func (t *Table) HasColumn(name string) bool {
	for _, c := range t.Columns {
		if c == name {
			return true
		}
	}
	return false
}

// ColumnSummary is the structured description of one file's observed
// headers handed to the format-adaptation suggestion service.
type ColumnSummary struct {
	Label   string   `json:"label"`
	Path    string   `json:"path"`
	Columns []string `json:"columns,omitempty"`
	Sample  []Row    `json:"sample,omitempty"`
	Error   string   `json:"error,omitempty"`
}
