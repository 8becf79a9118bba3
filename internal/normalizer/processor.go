// Package normalizer reshapes World Bank wide-format indicator exports into a single panel.
package normalizer

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"wbpanel/internal/logger"
	"wbpanel/internal/models"
)

// Source binds an indicator name to its export file.
type Source struct {
	Indicator string
	Path      string
}

// Processor runs the read -> validate -> transform pipeline for every source
// and joins the results into one panel.
type Processor struct {
	reader      *Reader
	validator   *Validator
	transformer *Transformer
	log         *logger.Logger
}

// NewProcessor creates a new processor instance.
func NewProcessor(skipRows int, log *logger.Logger) *Processor {
	return &Processor{
		reader:      NewReader(skipRows),
		validator:   NewValidator(),
		transformer: NewTransformer(),
		log:         log,
	}
}

// Build produces the panel for sources. It fails before reading anything if a
// source file is missing, and aborts on the first data-integrity problem.
func (p *Processor) Build(sources []Source) (*models.Panel, error) {
	if len(sources) == 0 {
		return nil, models.ErrEmptyPanel
	}

	names := make([]string, 0, len(sources))
	for _, src := range sources {
		names = append(names, src.Indicator)
	}

	if err := checkIndicators(names); err != nil {
		return nil, err
	}

	for _, src := range sources {
		if err := checkSource(src.Path); err != nil {
			return nil, err
		}
	}

	all := make([]*IndicatorSeries, 0, len(sources))

	for _, src := range sources {
		log := p.log.With("indicator", src.Indicator, "path", src.Path)
		log.Debug("reading source")

		s, err := p.Process(src)
		if err != nil {
			return nil, err
		}

		log.Info("source normalized",
			"countries", len(s.Countries),
			"first_year", s.FirstYear(),
			"last_year", s.LastYear(),
		)

		all = append(all, s)
	}

	return Join(all)
}

// Process reads and reshapes one source file.
func (p *Processor) Process(src Source) (*IndicatorSeries, error) {
	f, err := os.Open(src.Path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", models.ErrMissingSourceFile, src.Path)
		}

		return nil, fmt.Errorf("failed to open %s: %w", src.Path, err)
	}
	defer f.Close()

	// 1. Parse and clean columns
	table, err := p.reader.Read(f)
	if err != nil {
		if errors.Is(err, models.ErrDataIntegrity) {
			return nil, fmt.Errorf("%s: %w", src.Path, err)
		}

		return nil, fmt.Errorf("%s: %w: %w", src.Path, models.ErrDataIntegrity, err)
	}

	// 2. Validate structure
	if err := p.validator.Validate(table); err != nil {
		return nil, fmt.Errorf("%s: validation failed: %w", src.Path, err)
	}

	// 3. Reshape to year-indexed series
	series, err := p.transformer.Transform(src.Indicator, table)
	if err != nil {
		return nil, fmt.Errorf("%s: transformation failed: %w", src.Path, err)
	}

	return series, nil
}

// Join merges indicator series into one panel over the union year axis.
// Each country series is aligned on the shared axis and then forward-filled.
func Join(all []*IndicatorSeries) (*models.Panel, error) {
	if len(all) == 0 {
		return nil, models.ErrEmptyPanel
	}

	names := make([]string, 0, len(all))
	for _, s := range all {
		names = append(names, s.Indicator)
	}

	if err := checkIndicators(names); err != nil {
		return nil, err
	}

	first, last := all[0].FirstYear(), all[0].LastYear()
	for _, s := range all[1:] {
		first = min(first, s.FirstYear())
		last = max(last, s.LastYear())
	}

	b, err := models.NewBuilder(first, last)
	if err != nil {
		return nil, err
	}

	for _, s := range all {
		aligned := Align(s, first, last)

		for _, country := range s.Countries {
			key := models.Key{Indicator: s.Indicator, Country: country}
			if err := b.Add(key, ForwardFill(aligned[country])); err != nil {
				return nil, err
			}
		}
	}

	return b.Build(), nil
}

// checkIndicators rejects an indicator fed by two sources, which would mix
// their series under the same keys.
func checkIndicators(names []string) error {
	seen := make(map[string]bool, len(names))
	for _, name := range names {
		if seen[name] {
			return fmt.Errorf("%w: %w %q", models.ErrDataIntegrity, ErrDuplicateSource, name)
		}

		seen[name] = true
	}

	return nil
}

func checkSource(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: %s", models.ErrMissingSourceFile, path)
		}

		return fmt.Errorf("failed to stat %s: %w", path, err)
	}

	if info.IsDir() {
		return fmt.Errorf("%w: %s is a directory", models.ErrMissingSourceFile, path)
	}

	return nil
}
