// Package table holds the tabular model for trip batches: CSV reading and
// writing plus location of the two required address columns.
package table

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ErrMissingColumns is wrapped by LocateAddressColumns when the required
// address columns cannot be found.
var ErrMissingColumns = errors.New("CSV must contain 'Start Address' and 'End Address' columns")

// Table is an in-memory table with a header row. Rows may be ragged; Cell
// treats absent trailing fields as empty.
type Table struct {
	Header []string
	Rows   [][]string
}

// Read parses CSV data into a Table. The first row is the header, with
// surrounding whitespace trimmed from each name. Ragged rows are accepted.
func Read(r io.Reader) (*Table, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, errors.New("input is empty: missing header row")
	}
	if err != nil {
		return nil, fmt.Errorf("reading header row: %w", err)
	}
	for i, name := range header {
		header[i] = strings.TrimSpace(name)
	}

	var rows [][]string
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading row %d: %w", len(rows)+2, err)
		}
		rows = append(rows, row)
	}

	return &Table{Header: header, Rows: rows}, nil
}

// Write serializes the table as CSV. Output is deterministic for identical
// tables: same field order, same quoting, LF line endings.
func (t *Table) Write(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.Header); err != nil {
		return fmt.Errorf("writing header row: %w", err)
	}
	for i, row := range t.Rows {
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// Cell returns the value at (row, col), or "" when the row is too short.
func (t *Table) Cell(row, col int) string {
	if row < 0 || row >= len(t.Rows) || col < 0 || col >= len(t.Rows[row]) {
		return ""
	}
	return t.Rows[row][col]
}

// LocateAddressColumns finds the start- and end-address column indexes by
// case-insensitive substring match: the start column header must contain
// both "start" and "address", the end column both "end" and "address". The
// first matching header wins. Returns ErrMissingColumns when either is
// absent.
func LocateAddressColumns(header []string) (start, end int, err error) {
	start, end = -1, -1
	for i, name := range header {
		lower := strings.ToLower(name)
		switch {
		case start < 0 && strings.Contains(lower, "start") && strings.Contains(lower, "address"):
			start = i
		case end < 0 && strings.Contains(lower, "end") && strings.Contains(lower, "address"):
			end = i
		}
	}
	if start < 0 || end < 0 {
		return 0, 0, ErrMissingColumns
	}
	return start, end, nil
}
