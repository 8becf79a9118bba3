// Package query implements read-only slicing of a normalized panel for the dashboard.
//
// Every function is pure: it reads the panel, never modifies it, and an error
// only concerns the single call that returned it.
package query

import "wbpanel/internal/models"

// Point is one year of a series.
type Point struct {
	Year  int          `json:"year"`
	Value models.Value `json:"value"`
}

// Series is an ordered sequence of points over the panel's year axis.
type Series []Point

// Values returns the values without years.
func (s Series) Values() []models.Value {
	out := make([]models.Value, len(s))
	for i, pt := range s {
		out[i] = pt.Value
	}

	return out
}

// Latest returns the last entry of s, or models.Absent when s is empty.
func Latest(s Series) models.Value {
	if len(s) == 0 {
		return models.Absent
	}

	return s[len(s)-1].Value
}

func seriesOf(p *models.Panel, key models.Key) (Series, bool) {
	vals, ok := p.Series(key)
	if !ok {
		return nil, false
	}

	return zip(p.Years(), vals), true
}

// absentSeries is a series with every year absent.
func absentSeries(years []int) Series {
	return zip(years, make([]models.Value, len(years)))
}

func zip(years []int, vals []models.Value) Series {
	s := make(Series, len(years))
	for i, y := range years {
		s[i] = Point{Year: y, Value: vals[i]}
	}

	return s
}
