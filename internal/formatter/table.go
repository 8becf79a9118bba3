// Package formatter renders tables as aligned markdown for terminals and text exports.
package formatter

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// Align is a column alignment.
type Align int

// Column alignments.
const (
	AlignLeft Align = iota
	AlignRight
)

// minColumnWidth keeps separator rows at least "---".
const minColumnWidth = 3

// FormatTable renders header and rows as a markdown table whose columns are
// padded to the widest cell by display width, so CJK and accented country
// names line up. align may be shorter than the column count; missing entries
// default to AlignLeft.
func FormatTable(header []string, rows [][]string, align []Align) string {
	colCount := len(header)
	for _, row := range rows {
		if len(row) > colCount {
			colCount = len(row)
		}
	}

	if colCount == 0 {
		return ""
	}

	// 1. Calculate max widths (using display width)
	colWidths := make([]int, colCount)
	measure := func(row []string) {
		for i := 0; i < len(row) && i < colCount; i++ {
			if w := runewidth.StringWidth(row[i]); w > colWidths[i] {
				colWidths[i] = w
			}
		}
	}

	measure(header)

	for _, row := range rows {
		measure(row)
	}

	for i := range colWidths {
		if colWidths[i] < minColumnWidth {
			colWidths[i] = minColumnWidth
		}
	}

	// 2. Reconstruct lines
	var sb strings.Builder

	writeRow(&sb, header, colWidths, nil)

	sb.WriteString("|")

	for j := 0; j < colCount; j++ {
		sb.WriteString(" ")
		sb.WriteString(strings.Repeat("-", colWidths[j]))
		sb.WriteString(" |")
	}

	sb.WriteString("\n")

	for _, row := range rows {
		writeRow(&sb, row, colWidths, align)
	}

	return sb.String()
}

func writeRow(sb *strings.Builder, row []string, colWidths []int, align []Align) {
	sb.WriteString("|")

	for j := range colWidths {
		sb.WriteString(" ")

		content := ""
		if j < len(row) {
			content = strings.TrimSpace(row[j])
		}

		// Pad with spaces based on display width
		padding := strings.Repeat(" ", max(colWidths[j]-runewidth.StringWidth(content), 0))

		if j < len(align) && align[j] == AlignRight {
			sb.WriteString(padding)
			sb.WriteString(content)
		} else {
			sb.WriteString(content)
			sb.WriteString(padding)
		}

		sb.WriteString(" |")
	}

	sb.WriteString("\n")
}
