package cache

import (
	"sync"

	"wbpanel/internal/logger"
	"wbpanel/internal/models"
	"wbpanel/pkg/metadata"
)

// Session loads the artifact on first access and hands out the same
// read-only panel, or the same error, for the rest of the process.
type Session struct {
	store   Store
	log     *logger.Logger
	sources []metadata.Input

	once     sync.Once
	artifact *Artifact
	err      error
}

// SessionOption configures a Session.
type SessionOption func(*Session)

// WithSourceCheck makes the first load compare the artifact fingerprint with
// the given sources and log a warning when they changed since the last build.
func WithSourceCheck(sources []metadata.Input) SessionOption {
	return func(s *Session) {
		s.sources = sources
	}
}

// NewSession creates a session over store.
func NewSession(store Store, log *logger.Logger, opts ...SessionOption) *Session {
	s := &Session{store: store, log: log}
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Panel returns the loaded panel.
func (s *Session) Panel() (*models.Panel, error) {
	a, err := s.load()
	if err != nil {
		return nil, err
	}

	return a.Panel, nil
}

// Metadata returns the build metadata of the loaded artifact, nil if none was recorded.
func (s *Session) Metadata() (*metadata.Metadata, error) {
	a, err := s.load()
	if err != nil {
		return nil, err
	}

	return a.Metadata, nil
}

func (s *Session) load() (*Artifact, error) {
	s.once.Do(func() {
		s.artifact, s.err = s.store.Load()
		if s.err != nil {
			return
		}

		first, last := s.artifact.Panel.YearRange()
		s.log.Debug("cache artifact loaded",
			"path", s.store.Path(),
			"series", s.artifact.Panel.Len(),
			"first_year", first,
			"last_year", last,
		)

		if len(s.sources) > 0 {
			s.checkSources()
		}
	})

	return s.artifact, s.err
}

func (s *Session) checkSources() {
	if _, err := metadata.Verify(s.artifact.Metadata, s.sources); err != nil {
		s.log.Warn("cache artifact may be stale, rerun the normalizer",
			"path", s.store.Path(),
			"error", err,
		)
	}
}
