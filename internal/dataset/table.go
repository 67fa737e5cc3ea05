package dataset

import "strconv"

// Missing is the marker stored in cells that have no source value,
// e.g. right-side columns of a left join with no matching key.
const Missing = ""

// Table is an in-memory tabular dataset: an ordered header plus rows of
// string cells as read from CSV. Tables are treated as immutable once
// loaded; transformations return new tables.
type Table struct {
	Columns []string
	Rows    [][]string
}

// NewTable builds a table from a header and rows. Short rows are padded
// with the missing marker so every row matches the header width.
func NewTable(columns []string, rows [][]string) *Table {
	t := &Table{
		Columns: append([]string(nil), columns...),
		Rows:    make([][]string, 0, len(rows)),
	}
	for _, row := range rows {
		r := make([]string, len(columns))
		for i := range columns {
			if i < len(row) {
				r[i] = row[i]
			} else {
				r[i] = Missing
			}
		}
		t.Rows = append(t.Rows, r)
	}
	return t
}

// Len returns the number of data rows.
func (t *Table) Len() int {
	return len(t.Rows)
}

// ColumnIndex returns the position of the named column, or -1.
// Matching is case-sensitive and exact.
func (t *Table) ColumnIndex(name string) int {
	for i, c := range t.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// HasColumn reports whether the named column exists.
func (t *Table) HasColumn(name string) bool {
	return t.ColumnIndex(name) >= 0
}

// Cell returns the value at (row, column index). Out-of-range lookups
// return the missing marker.
func (t *Table) Cell(row, col int) string {
	if row < 0 || row >= len(t.Rows) || col < 0 || col >= len(t.Rows[row]) {
		return Missing
	}
	return t.Rows[row][col]
}

// Clone returns a deep copy of the table.
func (t *Table) Clone() *Table {
	out := &Table{
		Columns: append([]string(nil), t.Columns...),
		Rows:    make([][]string, len(t.Rows)),
	}
	for i, row := range t.Rows {
		out.Rows[i] = append([]string(nil), row...)
	}
	return out
}

// AddColumn appends a column with one value per row. The values slice
// must match the row count; extra rows get the missing marker.
func (t *Table) AddColumn(name string, values []string) {
	t.Columns = append(t.Columns, name)
	for i := range t.Rows {
		v := Missing
		if i < len(values) {
			v = values[i]
		}
		t.Rows[i] = append(t.Rows[i], v)
	}
}

// Preview returns a new table holding at most n rows, mirroring the
// bounded CSV preview of the original dashboard.
func (t *Table) Preview(n int) *Table {
	if n < 0 {
		n = 0
	}
	if n > len(t.Rows) {
		n = len(t.Rows)
	}
	out := &Table{Columns: append([]string(nil), t.Columns...)}
	out.Rows = make([][]string, n)
	for i := 0; i < n; i++ {
		out.Rows[i] = append([]string(nil), t.Rows[i]...)
	}
	return out
}

// IsNumericColumn reports whether the column at index col holds only
// parseable floats, ignoring missing cells, with at least one value
// present. Used by the demand fallback heuristic.
func (t *Table) IsNumericColumn(col int) bool {
	seen := false
	for _, row := range t.Rows {
		if col >= len(row) {
			continue
		}
		v := row[col]
		if v == Missing {
			continue
		}
		if _, err := strconv.ParseFloat(v, 64); err != nil {
			return false
		}
		seen = true
	}
	return seen
}

// FirstNumericColumn returns the index of the first numeric column in
// column order, or -1 when none qualifies.
func (t *Table) FirstNumericColumn() int {
	for i := range t.Columns {
		if t.IsNumericColumn(i) {
			return i
		}
	}
	return -1
}

// Float parses the cell at (row, col) as a float64. Missing or
// unparseable cells yield 0.
func (t *Table) Float(row, col int) float64 {
	v := t.Cell(row, col)
	if v == Missing {
		return 0
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0
	}
	return f
}
