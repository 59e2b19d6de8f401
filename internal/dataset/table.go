package dataset

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// NullPlaceholder is written into optional date cells left empty after an insert.
const NullPlaceholder = "nul"

// Cell is a single named value of a row.
type Cell struct {
	Column string
	Value  string
}

// Table is an in-memory copy of a whole dataset: an ordered header and rows
// that all carry exactly len(columns) cells.
type Table struct {
	columns []string
	rows    [][]string
}

// New creates an empty table with the given header.
func New(columns ...string) *Table {
	return &Table{columns: slices.Clone(columns)}
}

// Columns returns a copy of the header.
func (t *Table) Columns() []string {
	return slices.Clone(t.columns)
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return len(t.rows)
}

// ColumnIndex returns the position of a column or -1.
func (t *Table) ColumnIndex(name string) int {
	return slices.Index(t.columns, name)
}

// Value returns the cell at row i in the named column.
func (t *Table) Value(i int, column string) (string, bool) {
	c := t.ColumnIndex(column)
	if c < 0 || i < 0 || i >= len(t.rows) {
		return "", false
	}

	return t.rows[i][c], true
}

// AddRow appends a raw row that is already in header order.
func (t *Table) AddRow(values ...string) error {
	if len(values) != len(t.columns) {
		return fmt.Errorf("row has %d fields, header has %d", len(values), len(t.columns))
	}

	t.rows = append(t.rows, slices.Clone(values))

	return nil
}

// Rows returns a copy of the raw cells in storage order.
func (t *Table) Rows() [][]string {
	out := make([][]string, 0, len(t.rows))
	for _, row := range t.rows {
		out = append(out, slices.Clone(row))
	}

	return out
}

// EnsureColumns appends every column the table does not have yet, in the given
// order. Existing rows get an empty cell for each added column.
func (t *Table) EnsureColumns(names ...string) {
	for _, name := range names {
		if t.ColumnIndex(name) >= 0 {
			continue
		}

		t.columns = append(t.columns, name)
		for i := range t.rows {
			t.rows[i] = append(t.rows[i], "")
		}
	}
}

// Append aligns cells to the header and adds them as the last row. Columns
// missing from the table are added first; table columns missing from cells are
// left empty. It returns the positional index of the new row.
func (t *Table) Append(cells []Cell) int {
	t.EnsureColumns(cellColumns(cells)...)

	row := make([]string, len(t.columns))
	for _, c := range cells {
		row[t.ColumnIndex(c.Column)] = c.Value
	}

	t.rows = append(t.rows, row)

	return len(t.rows) - 1
}

// Set overwrites the given cells in every listed row.
func (t *Table) Set(indices []int, cells []Cell) {
	t.EnsureColumns(cellColumns(cells)...)

	for _, i := range indices {
		for _, c := range cells {
			t.rows[i][t.ColumnIndex(c.Column)] = c.Value
		}
	}
}

// Delete drops the listed rows, keeping the order of the remaining ones.
func (t *Table) Delete(indices []int) {
	if len(indices) == 0 {
		return
	}

	drop := make(map[int]struct{}, len(indices))
	for _, i := range indices {
		drop[i] = struct{}{}
	}

	kept := t.rows[:0]
	for i, row := range t.rows {
		if _, ok := drop[i]; !ok {
			kept = append(kept, row)
		}
	}

	t.rows = kept
}

// FillMissing replaces every empty cell of the named columns with value.
// Whitespace-only cells are data and stay as they are.
// Columns the table does not have are skipped.
func (t *Table) FillMissing(value string, columns ...string) {
	for _, name := range columns {
		c := t.ColumnIndex(name)
		if c < 0 {
			continue
		}

		for i := range t.rows {
			if t.rows[i][c] == "" {
				t.rows[i][c] = value
			}
		}
	}
}

// MatchInt returns the positions of all rows whose column holds the integer id,
// in storage order. Cells written as floats ("7.0") match too.
func (t *Table) MatchInt(column string, id int64) []int {
	c := t.ColumnIndex(column)
	if c < 0 {
		return nil
	}

	var out []int
	for i, row := range t.rows {
		if cellEqualsInt(row[c], id) {
			out = append(out, i)
		}
	}

	return out
}

func cellEqualsInt(cell string, id int64) bool {
	cell = strings.TrimSpace(cell)

	if v, err := strconv.ParseInt(cell, 10, 64); err == nil {
		return v == id
	}

	f, err := strconv.ParseFloat(cell, 64)
	if err != nil {
		return false
	}

	return f == float64(id)
}

func cellColumns(cells []Cell) []string {
	names := make([]string, 0, len(cells))
	for _, c := range cells {
		names = append(names, c.Column)
	}

	return names
}
