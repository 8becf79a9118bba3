package export

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"wbpanel/internal/formatter"
)

// Export formats.
const (
	FormatCSV      = "csv"
	FormatMarkdown = "md"
	FormatXLSX     = "xlsx"
)

// ErrUnknownFormat is returned for an unsupported export format.
var ErrUnknownFormat = errors.New("export format must be one of: csv, md, xlsx")

// maxSheetName is the longest sheet name a workbook accepts, minus the ellipsis.
const maxSheetName = 28

// FileName returns the deterministic download name of t in format.
func FileName(t *Table, format string) string {
	return t.Stem + "." + strings.ToLower(format)
}

// Write renders t to w in format.
func Write(w io.Writer, t *Table, format string) error {
	switch strings.ToLower(format) {
	case FormatCSV:
		return WriteCSV(w, t)
	case FormatMarkdown:
		return WriteMarkdown(w, t)
	case FormatXLSX:
		return WriteXLSX(w, t)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

// Save writes t into dir under FileName and returns the path.
func Save(dir string, t *Table, format string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create export directory: %w", err)
	}

	path := filepath.Join(dir, FileName(t, format))

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create %s: %w", path, err)
	}

	if err := Write(f, t, format); err != nil {
		_ = f.Close()
		_ = os.Remove(path)

		return "", err
	}

	if err := f.Close(); err != nil {
		return "", fmt.Errorf("failed to close %s: %w", path, err)
	}

	return path, nil
}

// WriteCSV writes t as comma-separated values with a header row.
func WriteCSV(w io.Writer, t *Table) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(t.Header()); err != nil {
		return err
	}

	if err := cw.WriteAll(t.Records()); err != nil {
		return fmt.Errorf("failed to write csv: %w", err)
	}

	return nil
}

// WriteMarkdown writes t as an aligned markdown table.
func WriteMarkdown(w io.Writer, t *Table) error {
	_, err := io.WriteString(w, formatter.FormatTable(t.Header(), t.Records(), alignments(t)))
	return err
}

func alignments(t *Table) []formatter.Align {
	align := make([]formatter.Align, 0, len(t.LabelHeader)+len(t.ValueHeader))
	for range t.LabelHeader {
		align = append(align, formatter.AlignLeft)
	}

	for range t.ValueHeader {
		align = append(align, formatter.AlignRight)
	}

	return align
}

// WriteXLSX writes t as a single-sheet workbook. Values are stored as numbers,
// absent values as empty cells.
func WriteXLSX(w io.Writer, t *Table) error {
	f := excelize.NewFile()
	defer f.Close() //nolint:errcheck // In-memory workbook

	sheet := sheetName(t.Title)
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	for col, h := range t.Header() {
		if err := setCell(f, sheet, col+1, 1, h); err != nil {
			return err
		}
	}

	for r, row := range t.Rows {
		line := r + 2

		for c, label := range row.Labels {
			if err := setCell(f, sheet, c+1, line, label); err != nil {
				return err
			}
		}

		for c, v := range row.Values {
			if !v.Valid {
				continue
			}

			cell, err := excelize.CoordinatesToCellName(len(row.Labels)+c+1, line)
			if err != nil {
				return err
			}

			if err := f.SetCellFloat(sheet, cell, v.Float, -1, 64); err != nil {
				return fmt.Errorf("failed to write %s: %w", cell, err)
			}
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}

	return nil
}

func setCell(f *excelize.File, sheet string, col, row int, value string) error {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return err
	}

	if err := f.SetCellStr(sheet, cell, value); err != nil {
		return fmt.Errorf("failed to write %s: %w", cell, err)
	}

	return nil
}

// sheetName strips characters a workbook rejects and limits the length.
func sheetName(title string) string {
	name := strings.Map(func(r rune) rune {
		if strings.ContainsRune(`:\/?*[]`, r) {
			return -1
		}

		return r
	}, title)

	name = strs.TruncateString(strs.NormalizeWhitespace(name), maxSheetName)
	if name == "" {
		return "Data"
	}

	return name
}
