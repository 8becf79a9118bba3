// Package models defines the panel dataset shared by the normalizer, the cache and the query layer.
package models

import (
	"fmt"
	"slices"
	"sort"
)

// Key identifies one series in the panel.
type Key struct {
	Indicator string `json:"indicator"`
	Country   string `json:"country"`
}

// String returns "indicator/country".
func (k Key) String() string {
	return k.Indicator + "/" + k.Country
}

// Panel is the unified indicator x country dataset over one contiguous,
// ascending year axis. A Panel is never mutated after Build; every accessor
// returns copies.
type Panel struct {
	firstYear  int
	years      []int
	indicators []string
	countries  []string
	series     map[Key][]Value
}

// Years returns the year axis.
func (p *Panel) Years() []int {
	return slices.Clone(p.years)
}

// YearRange returns the first and last year of the axis.
func (p *Panel) YearRange() (int, int) {
	return p.firstYear, p.firstYear + len(p.years) - 1
}

// HasYear reports whether year is on the axis.
func (p *Panel) HasYear(year int) bool {
	return year >= p.firstYear && year < p.firstYear+len(p.years)
}

// Indicators returns the indicator names in the order they were added.
func (p *Panel) Indicators() []string {
	return slices.Clone(p.indicators)
}

// HasIndicator reports whether the panel contains the indicator.
func (p *Panel) HasIndicator(indicator string) bool {
	return slices.Contains(p.indicators, indicator)
}

// Countries returns every distinct country, sorted.
func (p *Panel) Countries() []string {
	return slices.Clone(p.countries)
}

// HasCountry reports whether any indicator has a series for country.
func (p *Panel) HasCountry(country string) bool {
	_, found := slices.BinarySearch(p.countries, country)
	return found
}

// CountriesOf returns the sorted countries that have a series for indicator.
func (p *Panel) CountriesOf(indicator string) []string {
	var out []string

	for _, c := range p.countries {
		if _, ok := p.series[Key{Indicator: indicator, Country: c}]; ok {
			out = append(out, c)
		}
	}

	return out
}

// Keys returns all series keys ordered by indicator insertion order, then country.
func (p *Panel) Keys() []Key {
	keys := make([]Key, 0, len(p.series))

	for _, ind := range p.indicators {
		for _, c := range p.countries {
			k := Key{Indicator: ind, Country: c}
			if _, ok := p.series[k]; ok {
				keys = append(keys, k)
			}
		}
	}

	return keys
}

// Len returns the number of series.
func (p *Panel) Len() int {
	return len(p.series)
}

// Series returns a copy of the values for key, aligned on Years().
func (p *Panel) Series(key Key) ([]Value, bool) {
	vals, ok := p.series[key]
	if !ok {
		return nil, false
	}

	return slices.Clone(vals), true
}

// At returns the value of key at year. ok is false when the key or the year is unknown.
func (p *Panel) At(key Key, year int) (Value, bool) {
	vals, ok := p.series[key]
	if !ok || !p.HasYear(year) {
		return Absent, false
	}

	return vals[year-p.firstYear], true
}

// Slice returns a sub-panel whose axis is [lo, hi] clipped to the panel's own axis.
// Callers validate lo <= hi. An interval that misses the axis yields an empty axis.
func (p *Panel) Slice(lo, hi int) *Panel {
	first, last := p.YearRange()
	lo = max(lo, first)
	hi = min(hi, last)

	if lo > hi {
		return &Panel{
			firstYear:  lo,
			indicators: slices.Clone(p.indicators),
			countries:  slices.Clone(p.countries),
			series:     emptySeries(p.series),
		}
	}

	from, to := lo-p.firstYear, hi-p.firstYear+1

	series := make(map[Key][]Value, len(p.series))
	for k, vals := range p.series {
		series[k] = slices.Clone(vals[from:to])
	}

	return &Panel{
		firstYear:  lo,
		years:      slices.Clone(p.years[from:to]),
		indicators: slices.Clone(p.indicators),
		countries:  slices.Clone(p.countries),
		series:     series,
	}
}

// Equal reports whether both panels have the same axis, keys and values.
func (p *Panel) Equal(o *Panel) bool {
	if !slices.Equal(p.years, o.years) ||
		!slices.Equal(p.indicators, o.indicators) ||
		!slices.Equal(p.countries, o.countries) ||
		len(p.series) != len(o.series) {
		return false
	}

	for k, vals := range p.series {
		other, ok := o.series[k]
		if !ok || !slices.Equal(vals, other) {
			return false
		}
	}

	return true
}

func emptySeries(in map[Key][]Value) map[Key][]Value {
	out := make(map[Key][]Value, len(in))
	for k := range in {
		out[k] = []Value{}
	}

	return out
}

// Builder assembles a Panel over a fixed contiguous year axis.
type Builder struct {
	firstYear  int
	lastYear   int
	indicators []string
	countries  map[string]struct{}
	series     map[Key][]Value
}

// NewBuilder creates a builder for the axis [firstYear, lastYear].
func NewBuilder(firstYear, lastYear int) (*Builder, error) {
	if lastYear < firstYear {
		return nil, fmt.Errorf("%w: %d..%d", ErrEmptyPanel, firstYear, lastYear)
	}

	return &Builder{
		firstYear: firstYear,
		lastYear:  lastYear,
		countries: make(map[string]struct{}),
		series:    make(map[Key][]Value),
	}, nil
}

// Add stores the series for key. values must cover the whole axis.
// Adding a key twice replaces the earlier series.
func (b *Builder) Add(key Key, values []Value) error {
	if want := b.lastYear - b.firstYear + 1; len(values) != want {
		return fmt.Errorf("%w: %s has %d values, want %d", ErrSeriesLength, key, len(values), want)
	}

	if !slices.Contains(b.indicators, key.Indicator) {
		b.indicators = append(b.indicators, key.Indicator)
	}

	b.countries[key.Country] = struct{}{}
	b.series[key] = slices.Clone(values)

	return nil
}

// Build returns the immutable panel. The builder must not be reused.
func (b *Builder) Build() *Panel {
	years := make([]int, 0, b.lastYear-b.firstYear+1)
	for y := b.firstYear; y <= b.lastYear; y++ {
		years = append(years, y)
	}

	countries := make([]string, 0, len(b.countries))
	for c := range b.countries {
		countries = append(countries, c)
	}

	sort.Strings(countries)

	return &Panel{
		firstYear:  b.firstYear,
		years:      years,
		indicators: b.indicators,
		countries:  countries,
		series:     b.series,
	}
}
