package cache

import (
	"encoding/json"
	"os"
	"path/filepath"

	"wbpanel/internal/models"
	"wbpanel/pkg/metadata"

	"go.trai.ch/zerr"
)

// JSONStore keeps the artifact in a single JSON file.
type JSONStore struct {
	path string
}

// NewJSONStore creates a store backed by the file at path.
func NewJSONStore(path string) *JSONStore {
	return &JSONStore{path: filepath.Clean(path)}
}

type jsonArtifact struct {
	Metadata  *metadata.Metadata `json:"metadata,omitempty"`
	FirstYear int                `json:"firstYear"`
	LastYear  int                `json:"lastYear"`
	Series    []seriesRecord     `json:"series"`
}

// Path returns the artifact location.
func (s *JSONStore) Path() string {
	return s.path
}

// Save writes the panel and its metadata.
func (s *JSONStore) Save(p *models.Panel, meta *metadata.Metadata) error {
	records, err := flatten(p)
	if err != nil {
		return err
	}

	first, last := p.YearRange()

	data, err := json.Marshal(jsonArtifact{
		Metadata:  meta,
		FirstYear: first,
		LastYear:  last,
		Series:    records,
	})
	if err != nil {
		return zerr.Wrap(err, "failed to marshal cache artifact")
	}

	return writeAtomic(s.path, func(tmp string) error {
		if err := os.WriteFile(tmp, data, 0644); err != nil {
			return zerr.With(zerr.Wrap(err, "failed to write cache artifact"), "path", tmp)
		}

		return nil
	})
}

// Load reads the artifact back.
func (s *JSONStore) Load() (*Artifact, error) {
	if err := checkArtifact(s.path); err != nil {
		return nil, err
	}

	//nolint:gosec // Path is cleaned and provided by configuration
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to read cache artifact"), "path", s.path)
	}

	var a jsonArtifact
	if err := json.Unmarshal(data, &a); err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to unmarshal cache artifact"), "path", s.path)
	}

	p, err := restore(a.FirstYear, a.LastYear, a.Series)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "corrupt cache artifact"), "path", s.path)
	}

	return &Artifact{Panel: p, Metadata: a.Metadata}, nil
}
