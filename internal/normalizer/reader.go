package normalizer

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
)

// World Bank export column names.
const (
	ColumnCountryName   = "Country Name"
	ColumnCountryCode   = "Country Code"
	ColumnIndicatorName = "Indicator Name"
	ColumnIndicatorCode = "Indicator Code"
)

// DefaultSkipRows is the number of metadata lines before the header in a World Bank export.
const DefaultSkipRows = 4

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// droppedColumns are identifier columns that carry no year values.
var droppedColumns = map[string]bool{
	ColumnCountryCode:   true,
	ColumnIndicatorName: true,
	ColumnIndicatorCode: true,
}

// ErrUnexpectedEOF is returned when the file ends before the header row.
var ErrUnexpectedEOF = errors.New("file ended before header row")

// WideTable is one source file after column cleanup: one row per country,
// one raw cell per year column.
type WideTable struct {
	Header []string
	Rows   []WideRow
}

// WideRow holds a country's raw cells, aligned on WideTable.Header.
type WideRow struct {
	Country string
	Line    int
	Cells   []string
}

// Reader parses World Bank wide-format CSV exports.
type Reader struct {
	skipRows int
}

// NewReader creates a reader that skips skipRows raw lines before the header.
func NewReader(skipRows int) *Reader {
	if skipRows < 0 {
		skipRows = 0
	}

	return &Reader{skipRows: skipRows}
}

// Read returns the cleaned wide table. Identifier columns and unnamed
// export artifacts are dropped; the remaining headers are left for the
// transformer to coerce into years.
func (r *Reader) Read(in io.Reader) (*WideTable, error) {
	br := bufio.NewReader(in)

	if bom, err := br.Peek(len(utf8BOM)); err == nil && bytes.Equal(bom, utf8BOM) {
		if _, err := br.Discard(len(utf8BOM)); err != nil {
			return nil, err
		}
	}

	// Metadata rows are counted as raw lines, blank ones included.
	for i := 0; i < r.skipRows; i++ {
		if _, err := br.ReadString('\n'); err != nil {
			if errors.Is(err, io.EOF) {
				return nil, ErrUnexpectedEOF
			}

			return nil, fmt.Errorf("failed to skip metadata row %d: %w", i+1, err)
		}
	}

	cr := csv.NewReader(br)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrUnexpectedEOF
		}

		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	countryIdx := -1

	var keep []int

	table := &WideTable{}

	for i, h := range header {
		name := strings.TrimSpace(h)

		switch {
		case name == ColumnCountryName:
			countryIdx = i
		case droppedColumns[name], isUnnamed(name):
			continue
		default:
			keep = append(keep, i)
			table.Header = append(table.Header, name)
		}
	}

	if countryIdx < 0 {
		return nil, fmt.Errorf("%w: header has no %q column", ErrMissingColumn, ColumnCountryName)
	}

	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}

		if err != nil {
			return nil, fmt.Errorf("failed to read row: %w", err)
		}

		line, _ := cr.FieldPos(0)

		row := WideRow{
			Country: strings.TrimSpace(cell(record, countryIdx)),
			Line:    line + r.skipRows,
			Cells:   make([]string, len(keep)),
		}

		for j, idx := range keep {
			row.Cells[j] = strings.TrimSpace(cell(record, idx))
		}

		table.Rows = append(table.Rows, row)
	}

	return table, nil
}

func cell(record []string, idx int) string {
	if idx < len(record) {
		return record[idx]
	}

	return ""
}

// isUnnamed matches export artifacts: trailing empty headers and
// "Unnamed: N" columns written by spreadsheet tools.
func isUnnamed(name string) bool {
	return name == "" || strings.HasPrefix(name, "Unnamed")
}
