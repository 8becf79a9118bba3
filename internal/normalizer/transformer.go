package normalizer

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"sort"
	"strconv"
	"strings"

	"wbpanel/internal/models"
)

// Transformation errors.
var (
	ErrInvalidYear   = errors.New("column header is not a year")
	ErrDuplicateYear = errors.New("duplicate year column")
	ErrInvalidValue  = errors.New("non-numeric value")
)

// missingMarkers are cell values that mean "no observation".
var missingMarkers = map[string]bool{
	"":    true,
	"..":  true,
	"NaN": true,
	"nan": true,
}

// nonDecimalChars mark hex floats and digit separators, which strconv accepts
// but a decimal export never contains.
const nonDecimalChars = "xXpP_"

// IndicatorSeries is one source file reshaped to country -> values over the
// file's own ascending years. Values are not filled yet.
type IndicatorSeries struct {
	Indicator string
	Years     []int
	Countries []string
	Values    map[string][]models.Value
}

// FirstYear returns the earliest year in the file.
func (s *IndicatorSeries) FirstYear() int {
	return s.Years[0]
}

// LastYear returns the latest year in the file.
func (s *IndicatorSeries) LastYear() int {
	return s.Years[len(s.Years)-1]
}

// Transformer reshapes wide tables into per-country series.
type Transformer struct{}

// NewTransformer creates a new transformer instance.
func NewTransformer() *Transformer {
	return &Transformer{}
}

// Transform turns the year columns of table into rows: every country gets a
// series indexed by integer year. Headers that are not integers and cells that
// are not numbers abort the transformation.
func (t *Transformer) Transform(indicator string, table *WideTable) (*IndicatorSeries, error) {
	years := make([]int, len(table.Header))
	seen := make(map[int]bool, len(table.Header))

	for i, h := range table.Header {
		year, err := strconv.Atoi(h)
		if err != nil {
			return nil, fmt.Errorf("%w: %w %q", models.ErrDataIntegrity, ErrInvalidYear, h)
		}

		if seen[year] {
			return nil, fmt.Errorf("%w: %w %d", models.ErrDataIntegrity, ErrDuplicateYear, year)
		}

		seen[year] = true
		years[i] = year
	}

	// Column order in the file is not trusted; order indexes by year.
	order := make([]int, len(years))
	for i := range order {
		order[i] = i
	}

	sort.Slice(order, func(a, b int) bool { return years[order[a]] < years[order[b]] })

	series := &IndicatorSeries{
		Indicator: indicator,
		Years:     make([]int, len(years)),
		Countries: make([]string, 0, len(table.Rows)),
		Values:    make(map[string][]models.Value, len(table.Rows)),
	}

	for i, idx := range order {
		series.Years[i] = years[idx]
	}

	for _, row := range table.Rows {
		vals := make([]models.Value, len(order))

		for i, idx := range order {
			v, err := parseValue(row.Cells[idx])
			if err != nil {
				return nil, fmt.Errorf("%w: %w %q for %s in %d (line %d)",
					models.ErrDataIntegrity, ErrInvalidValue, row.Cells[idx], row.Country, years[idx], row.Line)
			}

			vals[i] = v
		}

		series.Countries = append(series.Countries, row.Country)
		series.Values[row.Country] = vals
	}

	return series, nil
}

func parseValue(raw string) (models.Value, error) {
	if missingMarkers[raw] {
		return models.Absent, nil
	}

	if strings.ContainsAny(raw, nonDecimalChars) {
		return models.Absent, strconv.ErrSyntax
	}

	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return models.Absent, err
	}

	if math.IsInf(f, 0) || math.IsNaN(f) {
		return models.Absent, strconv.ErrRange
	}

	return models.Observed(f), nil
}

// Align places every country's values on the axis [first, last]. Years the
// file does not cover are absent.
func Align(s *IndicatorSeries, first, last int) map[string][]models.Value {
	out := make(map[string][]models.Value, len(s.Values))

	for country, vals := range s.Values {
		aligned := make([]models.Value, last-first+1)

		for i, year := range s.Years {
			if year >= first && year <= last {
				aligned[year-first] = vals[i]
			}
		}

		out[country] = aligned
	}

	return out
}

// ForwardFill replaces every absent value with the nearest prior observed
// value. A leading gap stays absent. The input is not modified.
func ForwardFill(vals []models.Value) []models.Value {
	out := slices.Clone(vals)

	last := models.Absent
	for i, v := range out {
		if v.Valid {
			last = v
			continue
		}

		out[i] = last
	}

	return out
}
