package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
)

var ErrNoHeader = errors.New("dataset has no header row")

// ReadCSV decodes a header row followed by data rows. Every row must carry as
// many fields as the header.
func ReadCSV(r io.Reader) (*Table, error) {
	cr := csv.NewReader(r)

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrNoHeader
		}

		return nil, fmt.Errorf("csv.Read header: %w", err)
	}

	t := New(header...)
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("csv.Read: %w", err)
		}

		t.rows = append(t.rows, row)
	}

	return t, nil
}

// WriteCSV encodes the header and all rows.
func WriteCSV(w io.Writer, t *Table) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(t.columns); err != nil {
		return fmt.Errorf("csv.Write header: %w", err)
	}

	if err := cw.WriteAll(t.rows); err != nil {
		return fmt.Errorf("csv.WriteAll: %w", err)
	}

	return nil
}
