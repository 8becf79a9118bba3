// Package cache persists the normalized panel and loads it once per dashboard session.
package cache

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"wbpanel/internal/models"
	"wbpanel/pkg/metadata"

	"go.trai.ch/zerr"
)

// Artifact formats.
const (
	FormatJSON   = "json"
	FormatSQLite = "sqlite"
)

// ErrUnknownFormat is returned for an unsupported artifact format.
var ErrUnknownFormat = errors.New("cache format must be 'json' or 'sqlite'")

// Artifact is a loaded cache file.
type Artifact struct {
	Panel    *models.Panel
	Metadata *metadata.Metadata
}

// Store reads and writes the cache artifact.
type Store interface {
	// Save replaces the artifact atomically.
	Save(p *models.Panel, meta *metadata.Metadata) error
	// Load returns models.ErrCacheArtifactMissing when nothing was saved yet.
	Load() (*Artifact, error)
	// Path returns the artifact location.
	Path() string
}

// NewStore returns the store for format at path.
func NewStore(format, path string) (Store, error) {
	switch strings.ToLower(format) {
	case FormatJSON, "":
		return NewJSONStore(path), nil
	case FormatSQLite:
		return NewSQLiteStore(path), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

// checkArtifact maps a missing artifact to models.ErrCacheArtifactMissing.
func checkArtifact(path string) error {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: %s", models.ErrCacheArtifactMissing, path)
		}

		return zerr.With(zerr.Wrap(err, "failed to stat cache artifact"), "path", path)
	}

	return nil
}

// writeAtomic creates a temp file next to path, lets fill write it, and renames
// it over path only if fill succeeds.
func writeAtomic(path string, fill func(tmp string) error) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to create cache directory"), "dir", dir)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return zerr.With(zerr.Wrap(err, "failed to create temp artifact"), "dir", dir)
	}

	tmpPath := tmp.Name()
	_ = tmp.Close()

	if err := fill(tmpPath); err != nil {
		_ = os.Remove(tmpPath)
		return err
	}

	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return zerr.With(zerr.Wrap(err, "failed to replace cache artifact"), "path", path)
	}

	return nil
}

// restore rebuilds a panel from a flat list of series.
func restore(firstYear, lastYear int, records []seriesRecord) (*models.Panel, error) {
	b, err := models.NewBuilder(firstYear, lastYear)
	if err != nil {
		return nil, err
	}

	for _, r := range records {
		if err := b.Add(models.Key{Indicator: r.Indicator, Country: r.Country}, r.Values); err != nil {
			return nil, err
		}
	}

	return b.Build(), nil
}

// flatten lists every series of p in key order.
func flatten(p *models.Panel) ([]seriesRecord, error) {
	if len(p.Years()) == 0 {
		return nil, models.ErrEmptyPanel
	}

	keys := p.Keys()
	records := make([]seriesRecord, 0, len(keys))

	for _, k := range keys {
		vals, _ := p.Series(k)
		records = append(records, seriesRecord{Indicator: k.Indicator, Country: k.Country, Values: vals})
	}

	return records, nil
}

type seriesRecord struct {
	Indicator string         `json:"indicator"`
	Country   string         `json:"country"`
	Values    []models.Value `json:"values"`
}
