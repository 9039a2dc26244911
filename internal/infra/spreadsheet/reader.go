// Package spreadsheet reads row-oriented tabular exports. Files often carry
// preamble rows (report titles, date ranges) before the real header, so the
// header row is located by scanning for known column names instead of
// assuming it comes first.
package spreadsheet

import (
	"encoding/csv"
	"io"
	"os"
	"strings"

	domainerrors "intake/internal/domain/errors"
	"intake/internal/errors"
)

// minHeaderMatches is how many known column names a row must contain before
// it is accepted as the header.
const minHeaderMatches = 2

// Table is a parsed spreadsheet with named column access.
type Table struct {
	columns map[string]int
	rows    [][]string
}

// Row is one data row of a Table.
type Row struct {
	table *Table
	cells []string
}

// ReadFile parses a CSV export from disk, locating the header row by the
// given column name hints.
func ReadFile(path string, headerHints []string) (*Table, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open spreadsheet")
	}
	defer file.Close()

	return Read(file, headerHints)
}

// Read parses CSV data from a reader, skipping preamble rows until a row
// containing at least minHeaderMatches of the hinted column names is found.
func Read(r io.Reader, headerHints []string) (*Table, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1 // Preamble rows rarely match the data width.

	hints := make(map[string]struct{}, len(headerHints))
	for _, hint := range headerHints {
		hints[strings.ToLower(strings.TrimSpace(hint))] = struct{}{}
	}

	var table *Table
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrap(err, "failed to read spreadsheet row")
		}

		if table == nil {
			if isHeader(record, hints) {
				columns := make(map[string]int, len(record))
				for i, name := range record {
					columns[strings.TrimSpace(name)] = i
				}
				table = &Table{columns: columns}
			}

			continue
		}

		table.rows = append(table.rows, record)
	}

	if table == nil {
		return nil, errors.Errorf("no header row found (looked for columns like %s)", strings.Join(headerHints, ", "))
	}

	return table, nil
}

func isHeader(record []string, hints map[string]struct{}) bool {
	matches := 0
	for _, cell := range record {
		if _, ok := hints[strings.ToLower(strings.TrimSpace(cell))]; ok {
			matches++
		}
	}

	return matches >= minHeaderMatches
}

// Len returns the number of data rows.
func (t *Table) Len() int {
	return len(t.rows)
}

// Row returns the i-th data row.
func (t *Table) Row(i int) Row {
	return Row{table: t, cells: t.rows[i]}
}

// RequireColumns validates that every named column is present, returning a
// fatal SchemaError naming the missing ones otherwise. Pipelines call this
// before touching any row: fail fast, no partial processing.
func (t *Table) RequireColumns(source string, names ...string) error {
	var missing []string
	for _, name := range names {
		if _, ok := t.columns[name]; !ok {
			missing = append(missing, name)
		}
	}

	if len(missing) > 0 {
		return &domainerrors.SchemaError{Source: source, Missing: missing}
	}

	return nil
}

// Get returns the trimmed cell under the named column, or "" when the column
// is unknown or the row is too short.
func (r Row) Get(column string) string {
	idx, ok := r.table.columns[column]
	if !ok || idx >= len(r.cells) {
		return ""
	}

	return strings.TrimSpace(r.cells[idx])
}
