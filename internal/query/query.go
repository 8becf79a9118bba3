package query

import (
	"fmt"

	"wbpanel/internal/models"
)

// Countries returns every distinct country, sorted.
func Countries(p *models.Panel) []string {
	return p.Countries()
}

// Indicators returns every distinct indicator in source order.
func Indicators(p *models.Panel) []string {
	return p.Indicators()
}

// YearRange returns the first and last year of the panel.
func YearRange(p *models.Panel) (int, int) {
	return p.YearRange()
}

// FilterByYears returns the sub-panel over [lo, hi], both inclusive, clipped
// to the panel's own axis.
func FilterByYears(p *models.Panel, lo, hi int) (*models.Panel, error) {
	if lo > hi {
		return nil, fmt.Errorf("%w: %d > %d", models.ErrInvalidRange, lo, hi)
	}

	return p.Slice(lo, hi), nil
}

// CountryProjection holds every indicator of one country.
type CountryProjection struct {
	Country    string
	Years      []int
	Indicators []string
	Series     map[string]Series
}

// ProjectCountry returns one series per panel indicator for country. An
// indicator without data for the country yields an all-absent series.
func ProjectCountry(p *models.Panel, country string) (*CountryProjection, error) {
	if !p.HasCountry(country) {
		return nil, fmt.Errorf("%w: %q", models.ErrUnknownCountry, country)
	}

	years := p.Years()
	proj := &CountryProjection{
		Country:    country,
		Years:      years,
		Indicators: p.Indicators(),
		Series:     make(map[string]Series),
	}

	for _, ind := range proj.Indicators {
		s, ok := seriesOf(p, models.Key{Indicator: ind, Country: country})
		if !ok {
			s = absentSeries(years)
		}

		proj.Series[ind] = s
	}

	return proj, nil
}

// Comparison holds one indicator for several countries on the shared axis.
// Countries lists the resolved countries in request order; Errors holds a
// per-entry ErrUnknownCountry for every requested country without data.
type Comparison struct {
	Indicator string
	Years     []int
	Countries []string
	Series    map[string]Series
	Errors    map[string]error
}

// ProjectIndicatorAcrossCountries returns indicator for each of countries.
// Only an unknown indicator fails the call; unknown countries are reported in
// Comparison.Errors. This is deliberately more lenient than ProjectCountry.
func ProjectIndicatorAcrossCountries(p *models.Panel, indicator string, countries []string) (*Comparison, error) {
	if !p.HasIndicator(indicator) {
		return nil, fmt.Errorf("%w: %q", models.ErrUnknownIndicator, indicator)
	}

	cmp := &Comparison{
		Indicator: indicator,
		Years:     p.Years(),
		Series:    make(map[string]Series),
		Errors:    make(map[string]error),
	}

	for _, c := range countries {
		if _, dup := cmp.Series[c]; dup {
			continue
		}

		s, ok := seriesOf(p, models.Key{Indicator: indicator, Country: c})
		if !ok {
			cmp.Errors[c] = fmt.Errorf("%w: %q", models.ErrUnknownCountry, c)
			continue
		}

		cmp.Countries = append(cmp.Countries, c)
		cmp.Series[c] = s
	}

	return cmp, nil
}

// AllCountries returns indicator for every country that has it.
func AllCountries(p *models.Panel, indicator string) (*Comparison, error) {
	return ProjectIndicatorAcrossCountries(p, indicator, p.CountriesOf(indicator))
}

// CrossSectionResult is every country's value of one indicator in one year.
type CrossSectionResult struct {
	Indicator string
	Year      int
	Countries []string
	Values    map[string]models.Value
}

// CrossSection returns the raw value of indicator for each country at year.
// Values are not normalized.
func CrossSection(p *models.Panel, indicator string, year int) (*CrossSectionResult, error) {
	if !p.HasIndicator(indicator) {
		return nil, fmt.Errorf("%w: %q", models.ErrUnknownIndicator, indicator)
	}

	if !p.HasYear(year) {
		first, last := p.YearRange()
		return nil, fmt.Errorf("%w: %d not in %d..%d", models.ErrUnknownYear, year, first, last)
	}

	countries := p.CountriesOf(indicator)
	cs := &CrossSectionResult{
		Indicator: indicator,
		Year:      year,
		Countries: countries,
		Values:    make(map[string]models.Value, len(countries)),
	}

	for _, c := range countries {
		v, _ := p.At(models.Key{Indicator: indicator, Country: c}, year)
		cs.Values[c] = v
	}

	return cs, nil
}
