package normalizer

import (
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"wbpanel/internal/logger"
	"wbpanel/internal/models"
)

const exportsCSV = wbHeader +
	`"Country Name","Country Code","Indicator Name","Indicator Code","2019","2020","2021",
"Chile","CHL","Exports","NE.EXP.GNFS.CD","7.0e10","","7.5e10",
"Peru","PER","Exports","NE.EXP.GNFS.CD","","5.0e10","",
`

func writeSource(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write %s: %v", name, err)
	}

	return path
}

func TestNewProcessor(t *testing.T) {
	p := NewProcessor(DefaultSkipRows, logger.Discard())
	if p == nil {
		t.Fatal("NewProcessor returned nil")
	}
}

func TestProcessor_Build(t *testing.T) {
	dir := t.TempDir()
	sources := []Source{
		{Indicator: "GDP Growth (%)", Path: writeSource(t, dir, "gdp.csv", gdpCSV)},
		{Indicator: "Exports (USD)", Path: writeSource(t, dir, "exports.csv", exportsCSV)},
	}

	p, err := NewProcessor(DefaultSkipRows, logger.Discard()).Build(sources)
	if err != nil {
		t.Fatalf("Build returned unexpected error: %v", err)
	}

	// Union of 2018..2020 and 2019..2021.
	if want := []int{2018, 2019, 2020, 2021}; !slices.Equal(p.Years(), want) {
		t.Errorf("Years = %v, want %v", p.Years(), want)
	}

	wantKeys := []models.Key{
		{Indicator: "GDP Growth (%)", Country: "Chile"},
		{Indicator: "GDP Growth (%)", Country: "Kenya"},
		{Indicator: "Exports (USD)", Country: "Chile"},
		{Indicator: "Exports (USD)", Country: "Peru"},
	}
	if got := p.Keys(); !slices.Equal(got, wantKeys) {
		t.Errorf("Keys = %v, want %v", got, wantKeys)
	}

	a, o := models.Absent, models.Observed

	tests := []struct {
		key  models.Key
		want []models.Value
	}{
		// 2021 is past the end of the GDP file and carries 2020 forward.
		{models.Key{Indicator: "GDP Growth (%)", Country: "Chile"}, []models.Value{o(4.0), o(0.7), o(-6.1), o(-6.1)}},
		{models.Key{Indicator: "GDP Growth (%)", Country: "Kenya"}, []models.Value{a, o(5.1), o(5.1), o(5.1)}},
		{models.Key{Indicator: "Exports (USD)", Country: "Chile"}, []models.Value{a, o(7.0e10), o(7.0e10), o(7.5e10)}},
		{models.Key{Indicator: "Exports (USD)", Country: "Peru"}, []models.Value{a, a, o(5.0e10), o(5.0e10)}},
	}

	for _, tt := range tests {
		got, ok := p.Series(tt.key)
		if !ok {
			t.Errorf("missing series %s", tt.key)
			continue
		}

		if !slices.Equal(got, tt.want) {
			t.Errorf("%s = %v, want %v", tt.key, got, tt.want)
		}
	}
}

func TestProcessor_Build_MissingSourceFile(t *testing.T) {
	dir := t.TempDir()
	missing := filepath.Join(dir, "imports.csv")
	sources := []Source{
		{Indicator: "GDP Growth (%)", Path: writeSource(t, dir, "gdp.csv", gdpCSV)},
		{Indicator: "Imports (USD)", Path: missing},
	}

	p, err := NewProcessor(DefaultSkipRows, logger.Discard()).Build(sources)
	if !errors.Is(err, models.ErrMissingSourceFile) {
		t.Fatalf("Build error = %v, want ErrMissingSourceFile", err)
	}

	if !strings.Contains(err.Error(), missing) {
		t.Errorf("error %q does not name %s", err, missing)
	}

	if p != nil {
		t.Error("Build returned a panel alongside an error")
	}
}

func TestProcessor_Build_DataIntegrity(t *testing.T) {
	dir := t.TempDir()
	bad := wbHeader +
		"Country Name,Country Code,Indicator Name,Indicator Code,2019\n" +
		"Chile,CHL,x,y,abc\n"

	sources := []Source{{Indicator: "GDP Growth (%)", Path: writeSource(t, dir, "gdp.csv", bad)}}

	_, err := NewProcessor(DefaultSkipRows, logger.Discard()).Build(sources)
	if !errors.Is(err, models.ErrDataIntegrity) {
		t.Fatalf("Build error = %v, want ErrDataIntegrity", err)
	}

	if !errors.Is(err, ErrInvalidValue) {
		t.Errorf("Build error = %v, want ErrInvalidValue", err)
	}
}

func TestProcessor_Build_MissingCountryColumnIsIntegrityError(t *testing.T) {
	dir := t.TempDir()
	bad := wbHeader + "Country Code,2019\nCHL,1\n"
	sources := []Source{{Indicator: "GDP Growth (%)", Path: writeSource(t, dir, "gdp.csv", bad)}}

	_, err := NewProcessor(DefaultSkipRows, logger.Discard()).Build(sources)
	if !errors.Is(err, models.ErrDataIntegrity) || !errors.Is(err, ErrMissingColumn) {
		t.Fatalf("Build error = %v, want ErrDataIntegrity wrapping ErrMissingColumn", err)
	}
}

func TestProcessor_Build_NoSources(t *testing.T) {
	_, err := NewProcessor(DefaultSkipRows, logger.Discard()).Build(nil)
	if !errors.Is(err, models.ErrEmptyPanel) {
		t.Errorf("Build(nil) error = %v, want ErrEmptyPanel", err)
	}
}

func TestProcessor_Build_DuplicateIndicator(t *testing.T) {
	dir := t.TempDir()
	sources := []Source{
		{Indicator: "Exports (USD)", Path: writeSource(t, dir, "gdp.csv", gdpCSV)},
		{Indicator: "Exports (USD)", Path: writeSource(t, dir, "exports.csv", exportsCSV)},
	}

	_, err := NewProcessor(DefaultSkipRows, logger.Discard()).Build(sources)
	if !errors.Is(err, models.ErrDataIntegrity) || !errors.Is(err, ErrDuplicateSource) {
		t.Fatalf("Build error = %v, want ErrDataIntegrity wrapping ErrDuplicateSource", err)
	}
}

func TestJoin_DuplicateIndicator(t *testing.T) {
	series := func(country string) *IndicatorSeries {
		return &IndicatorSeries{
			Indicator: "GDP Growth (%)",
			Years:     []int{2019},
			Countries: []string{country},
			Values:    map[string][]models.Value{country: {models.Observed(1)}},
		}
	}

	_, err := Join([]*IndicatorSeries{series("Chile"), series("Peru")})
	if !errors.Is(err, models.ErrDataIntegrity) || !errors.Is(err, ErrDuplicateSource) {
		t.Fatalf("Join error = %v, want ErrDataIntegrity wrapping ErrDuplicateSource", err)
	}
}
