// Package export turns query results into downloadable tables.
package export

import (
	"strconv"

	"wbpanel/internal/models"
	"wbpanel/internal/query"
	"wbpanel/pkg/utils"
)

var strs = utils.NewStringHelper()

// Table is a query result laid out for export: leading label columns
// followed by numeric value columns.
type Table struct {
	// Stem is the deterministic file name without extension.
	Stem        string
	Title       string
	LabelHeader []string
	ValueHeader []string
	Rows        []Row
}

// Row is one table line.
type Row struct {
	Labels []string
	Values []models.Value
}

// Header returns the full column header.
func (t *Table) Header() []string {
	out := make([]string, 0, len(t.LabelHeader)+len(t.ValueHeader))
	out = append(out, t.LabelHeader...)

	return append(out, t.ValueHeader...)
}

// Records returns every row as strings. Absent values are empty.
func (t *Table) Records() [][]string {
	out := make([][]string, 0, len(t.Rows))

	for _, r := range t.Rows {
		rec := make([]string, 0, len(r.Labels)+len(r.Values))
		rec = append(rec, r.Labels...)

		for _, v := range r.Values {
			rec = append(rec, v.String())
		}

		out = append(out, rec)
	}

	return out
}

// CountryTable lays out a country projection: one row per year, one column per indicator.
func CountryTable(proj *query.CountryProjection) *Table {
	t := &Table{
		Stem:        strs.FileStem(proj.Country) + "_all_data",
		Title:       proj.Country,
		LabelHeader: []string{"Year"},
		ValueHeader: proj.Indicators,
	}

	for i, y := range proj.Years {
		row := Row{Labels: []string{strconv.Itoa(y)}}
		for _, ind := range proj.Indicators {
			row.Values = append(row.Values, proj.Series[ind][i].Value)
		}

		t.Rows = append(t.Rows, row)
	}

	return t
}

// ComparisonTable lays out a comparison: one row per year, one column per country.
func ComparisonTable(cmp *query.Comparison) *Table {
	t := &Table{
		Stem:        strs.FileStem(cmp.Indicator) + "_comparison_data",
		Title:       cmp.Indicator,
		LabelHeader: []string{"Year"},
		ValueHeader: cmp.Countries,
	}

	for i, y := range cmp.Years {
		row := Row{Labels: []string{strconv.Itoa(y)}}
		for _, c := range cmp.Countries {
			row.Values = append(row.Values, cmp.Series[c][i].Value)
		}

		t.Rows = append(t.Rows, row)
	}

	return t
}

// AllCountriesTable lays out one indicator for every country: one row per
// (indicator, country), one column per year.
func AllCountriesTable(cmp *query.Comparison) *Table {
	t := &Table{
		Stem:        strs.FileStem(cmp.Indicator) + "_all_countries",
		Title:       cmp.Indicator,
		LabelHeader: []string{"Indicator", "Country Name"},
	}

	for _, y := range cmp.Years {
		t.ValueHeader = append(t.ValueHeader, strconv.Itoa(y))
	}

	for _, c := range cmp.Countries {
		t.Rows = append(t.Rows, Row{
			Labels: []string{cmp.Indicator, c},
			Values: cmp.Series[c].Values(),
		})
	}

	return t
}

// CrossSectionTable lays out a cross-section: one row per country.
func CrossSectionTable(cs *query.CrossSectionResult) *Table {
	t := &Table{
		Stem:        strs.FileStem(cs.Indicator) + "_" + strconv.Itoa(cs.Year) + "_cross_section",
		Title:       cs.Indicator + " " + strconv.Itoa(cs.Year),
		LabelHeader: []string{"Country Name"},
		ValueHeader: []string{cs.Indicator},
	}

	for _, c := range cs.Countries {
		t.Rows = append(t.Rows, Row{Labels: []string{c}, Values: []models.Value{cs.Values[c]}})
	}

	return t
}

// SeriesTable lays out a single derived series such as a trade balance.
func SeriesTable(stem, column string, s query.Series) *Table {
	t := &Table{
		Stem:        strs.FileStem(stem),
		Title:       column,
		LabelHeader: []string{"Year"},
		ValueHeader: []string{column},
	}

	for _, pt := range s {
		t.Rows = append(t.Rows, Row{Labels: []string{strconv.Itoa(pt.Year)}, Values: []models.Value{pt.Value}})
	}

	return t
}
