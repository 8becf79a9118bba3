package formatter

import (
	"strings"
	"testing"
)

func TestFormatTable(t *testing.T) {
	tests := []struct {
		name     string
		header   []string
		rows     [][]string
		align    []Align
		expected string
	}{
		{
			name:   "Basic table formatting",
			header: []string{"Header 1", "Header 2"},
			rows:   [][]string{{"val 1", "val 2"}},
			expected: `
| Header 1 | Header 2 |
| -------- | -------- |
| val 1    | val 2    |
`,
		},
		{
			name:   "Minimum width",
			header: []string{"Y", "X"},
			rows:   [][]string{{"a", "b"}},
			expected: `
| Y   | X   |
| --- | --- |
| a   | b   |
`,
		},
		{
			name:   "Right aligned values",
			header: []string{"Year", "Chile"},
			rows:   [][]string{{"2019", "0.7"}, {"2020", "-6.1"}},
			align:  []Align{AlignLeft, AlignRight},
			expected: `
| Year | Chile |
| ---- | ----- |
| 2019 |   0.7 |
| 2020 |  -6.1 |
`,
		},
		{
			name:   "Short rows are padded",
			header: []string{"Country", "2020"},
			rows:   [][]string{{"Kenya"}},
			expected: `
| Country | 2020 |
| ------- | ---- |
| Kenya   |      |
`,
		},
		{
			name:   "Mixed CJK and ASCII",
			header: []string{"Country", "GDP"},
			// "中国" is 2 runes of width 2 each.
			rows: [][]string{{"中国", "6.0"}, {"Türkiye", "5.5"}},
			expected: `
| Country | GDP |
| ------- | --- |
| 中国    | 6.0 |
| Türkiye | 5.5 |
`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FormatTable(tt.header, tt.rows, tt.align)

			if strings.TrimSpace(got) != strings.TrimSpace(tt.expected) {
				t.Errorf("FormatTable() = \n%v\nwant \n%v", got, tt.expected)
			}
		})
	}
}

func TestFormatTable_Empty(t *testing.T) {
	if got := FormatTable(nil, nil, nil); got != "" {
		t.Errorf("FormatTable(nil) = %q, want empty", got)
	}
}
