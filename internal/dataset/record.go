package dataset

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

type kind uint8

const (
	kindString kind = iota
	kindInt
	kindFloat
)

// Record is one row rendered for clients. It marshals to a JSON object whose
// keys follow the column order of the table it came from.
type Record struct {
	columns []string
	values  []any
}

// Get returns the rendered value of a column.
func (r Record) Get(column string) (any, bool) {
	for i, c := range r.columns {
		if c == column {
			return r.values[i], true
		}
	}

	return nil, false
}

// Columns returns the keys in marshal order.
func (r Record) Columns() []string {
	return r.columns
}

func (r Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteByte('{')
	for i, c := range r.columns {
		if i > 0 {
			buf.WriteByte(',')
		}

		key, err := json.Marshal(c)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')

		val, err := json.Marshal(r.values[i])
		if err != nil {
			return nil, err
		}
		buf.Write(val)
	}
	buf.WriteByte('}')

	return buf.Bytes(), nil
}

// Records renders every row. A column whose non-empty cells all parse as
// integers renders as integers, one whose cells all parse as numbers renders
// as floats; empty cells render as null.
func (t *Table) Records() []Record {
	kinds := t.columnKinds()

	out := make([]Record, 0, len(t.rows))
	for i := range t.rows {
		out = append(out, t.record(i, kinds))
	}

	return out
}

// Record renders row i using the same column typing as Records.
func (t *Table) Record(i int) Record {
	return t.record(i, t.columnKinds())
}

func (t *Table) record(i int, kinds []kind) Record {
	values := make([]any, len(t.columns))
	for c, cell := range t.rows[i] {
		values[c] = renderCell(cell, kinds[c])
	}

	return Record{columns: t.Columns(), values: values}
}

func (t *Table) columnKinds() []kind {
	kinds := make([]kind, len(t.columns))

	for c := range t.columns {
		k := kindInt
		seen := false

		for _, row := range t.rows {
			cell := strings.TrimSpace(row[c])
			if cell == "" {
				continue
			}
			seen = true

			if k == kindInt {
				if _, err := strconv.ParseInt(cell, 10, 64); err == nil {
					continue
				}
				k = kindFloat
			}

			if _, err := strconv.ParseFloat(cell, 64); err != nil {
				k = kindString
				break
			}
		}

		if !seen {
			k = kindString
		}
		kinds[c] = k
	}

	return kinds
}

func renderCell(cell string, k kind) any {
	trimmed := strings.TrimSpace(cell)
	if trimmed == "" {
		return nil
	}

	switch k {
	case kindInt:
		v, _ := strconv.ParseInt(trimmed, 10, 64)
		return v
	case kindFloat:
		v, _ := strconv.ParseFloat(trimmed, 64)
		return v
	default:
		return cell
	}
}
