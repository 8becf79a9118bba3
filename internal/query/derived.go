package query

import (
	"fmt"

	"wbpanel/internal/models"
)

// Default indicator names of the World Bank source set.
const (
	GDPGrowth   = "GDP Growth (%)"
	Exports     = "Exports (USD)"
	Imports     = "Imports (USD)"
	Agriculture = "Agriculture (%)"
	Industry    = "Industry (%)"
	Services    = "Services (%)"
)

// billion scales USD values for the headline metrics.
const billion = 1e9

// Names maps the roles used by derived views to indicator names.
type Names struct {
	GDPGrowth string
	Exports   string
	Imports   string
	Sectors   []string
}

// DefaultNames returns the indicator names of the standard source set.
func DefaultNames() Names {
	return Names{
		GDPGrowth: GDPGrowth,
		Exports:   Exports,
		Imports:   Imports,
		Sectors:   []string{Agriculture, Industry, Services},
	}
}

// TradeBalance returns exports minus imports for country, year by year.
// A year is absent when either side is absent.
func TradeBalance(p *models.Panel, country string, names Names) (Series, error) {
	if !p.HasCountry(country) {
		return nil, fmt.Errorf("%w: %q", models.ErrUnknownCountry, country)
	}

	for _, ind := range []string{names.Exports, names.Imports} {
		if !p.HasIndicator(ind) {
			return nil, fmt.Errorf("%w: %q", models.ErrUnknownIndicator, ind)
		}
	}

	years := p.Years()

	exp, ok := seriesOf(p, models.Key{Indicator: names.Exports, Country: country})
	if !ok {
		exp = absentSeries(years)
	}

	imp, ok := seriesOf(p, models.Key{Indicator: names.Imports, Country: country})
	if !ok {
		imp = absentSeries(years)
	}

	out := make(Series, len(years))
	for i, y := range years {
		out[i] = Point{Year: y, Value: exp[i].Value.Sub(imp[i].Value)}
	}

	return out, nil
}

// Slice is one pie segment.
type Slice struct {
	Label string
	Value models.Value
}

// SectorShares returns the sector indicator values of country at year, in
// names.Sectors order. Values are raw: they are expected to sum to roughly 100
// but are neither checked nor normalized. A sector without data is absent.
func SectorShares(p *models.Panel, country string, year int, names Names) ([]Slice, error) {
	if !p.HasCountry(country) {
		return nil, fmt.Errorf("%w: %q", models.ErrUnknownCountry, country)
	}

	if !p.HasYear(year) {
		first, last := p.YearRange()
		return nil, fmt.Errorf("%w: %d not in %d..%d", models.ErrUnknownYear, year, first, last)
	}

	out := make([]Slice, 0, len(names.Sectors))
	for _, ind := range names.Sectors {
		v, _ := p.At(models.Key{Indicator: ind, Country: country}, year)
		out = append(out, Slice{Label: ind, Value: v})
	}

	return out, nil
}

// Metric is one headline number.
type Metric struct {
	Label string
	Unit  string
	Value models.Value
}

// Overview returns the latest GDP growth and the latest exports and imports,
// in billions of USD, of country over the panel's axis.
func Overview(p *models.Panel, country string, names Names) ([]Metric, error) {
	proj, err := ProjectCountry(p, country)
	if err != nil {
		return nil, err
	}

	latest := func(ind string) models.Value {
		return Latest(proj.Series[ind])
	}

	return []Metric{
		{Label: "Latest GDP Growth", Unit: "%", Value: latest(names.GDPGrowth)},
		{Label: "Latest Exports", Unit: "B USD", Value: latest(names.Exports).Div(billion)},
		{Label: "Latest Imports", Unit: "B USD", Value: latest(names.Imports).Div(billion)},
	}, nil
}
