package cache_test

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wbpanel/internal/cache"
	"wbpanel/internal/logger"
	"wbpanel/internal/models"
	"wbpanel/pkg/metadata"
)

func testPanel(t *testing.T) *models.Panel {
	t.Helper()

	b, err := models.NewBuilder(2019, 2021)
	require.NoError(t, err)

	o := models.Observed
	require.NoError(t, b.Add(models.Key{Indicator: "GDP Growth (%)", Country: "Chile"},
		[]models.Value{o(0.7), o(-6.1), o(11.7)}))
	require.NoError(t, b.Add(models.Key{Indicator: "GDP Growth (%)", Country: "Kenya"},
		[]models.Value{models.Absent, o(-0.3), o(7.6)}))
	require.NoError(t, b.Add(models.Key{Indicator: "Exports (USD)", Country: "Chile"},
		[]models.Value{o(8.0e10), o(7.9e10), o(1.0000000000000002e11)}))
	require.NoError(t, b.Add(models.Key{Indicator: "Agriculture (%)", Country: "Kenya"},
		[]models.Value{models.Absent, models.Absent, models.Absent}))

	return b.Build()
}

func stores(t *testing.T) map[string]cache.Store {
	dir := t.TempDir()

	return map[string]cache.Store{
		cache.FormatJSON:   cache.NewJSONStore(filepath.Join(dir, "panel.json")),
		cache.FormatSQLite: cache.NewSQLiteStore(filepath.Join(dir, "panel.db")),
	}
}

func TestStore_RoundTrip(t *testing.T) {
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			p := testPanel(t)
			meta := &metadata.Metadata{Version: metadata.Version, Hash: "0123456789abcdef"}

			require.NoError(t, store.Save(p, meta))

			got, err := store.Load()
			require.NoError(t, err)

			assert.True(t, p.Equal(got.Panel), "reloaded panel differs")
			assert.Equal(t, p.Indicators(), got.Panel.Indicators())
			assert.Equal(t, p.Years(), got.Panel.Years())
			require.NotNil(t, got.Metadata)
			assert.Equal(t, "0123456789abcdef", got.Metadata.Hash)
		})
	}
}

func TestStore_LoadMissing(t *testing.T) {
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			_, err := store.Load()
			require.ErrorIs(t, err, models.ErrCacheArtifactMissing)
			assert.Contains(t, err.Error(), "run the normalizer first")
		})
	}
}

func TestStore_SaveEmptyPanelKeepsPreviousArtifact(t *testing.T) {
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			p := testPanel(t)
			require.NoError(t, store.Save(p, nil))

			empty := p.Slice(1990, 1991)
			err := store.Save(empty, nil)
			require.ErrorIs(t, err, models.ErrEmptyPanel)

			got, err := store.Load()
			require.NoError(t, err)
			assert.True(t, p.Equal(got.Panel))

			entries, err := os.ReadDir(filepath.Dir(store.Path()))
			require.NoError(t, err)

			for _, e := range entries {
				assert.False(t, strings.HasSuffix(e.Name(), ".tmp"), "temp file left behind: %s", e.Name())
			}
		})
	}
}

func TestNewStore(t *testing.T) {
	s, err := cache.NewStore("json", "a.json")
	require.NoError(t, err)
	assert.IsType(t, &cache.JSONStore{}, s)

	s, err = cache.NewStore("SQLITE", "a.db")
	require.NoError(t, err)
	assert.IsType(t, &cache.SQLiteStore{}, s)

	_, err = cache.NewStore("parquet", "a.parquet")
	require.ErrorIs(t, err, cache.ErrUnknownFormat)
}

type countingStore struct {
	cache.Store
	loads int
}

func (c *countingStore) Load() (*cache.Artifact, error) {
	c.loads++
	return c.Store.Load()
}

func TestSession_LoadsOnce(t *testing.T) {
	inner := cache.NewJSONStore(filepath.Join(t.TempDir(), "panel.json"))
	require.NoError(t, inner.Save(testPanel(t), nil))

	store := &countingStore{Store: inner}
	s := cache.NewSession(store, logger.Discard())

	first, err := s.Panel()
	require.NoError(t, err)

	second, err := s.Panel()
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Equal(t, 1, store.loads)
}

func TestSession_RemembersError(t *testing.T) {
	store := &countingStore{Store: cache.NewJSONStore(filepath.Join(t.TempDir(), "missing.json"))}
	s := cache.NewSession(store, logger.Discard())

	_, err := s.Panel()
	require.ErrorIs(t, err, models.ErrCacheArtifactMissing)

	_, err = s.Metadata()
	require.True(t, errors.Is(err, models.ErrCacheArtifactMissing))
	assert.Equal(t, 1, store.loads)
}

func TestSession_WarnsOnStaleSources(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "gdp.csv")
	require.NoError(t, os.WriteFile(src, []byte("v1"), 0644))

	inputs := []metadata.Input{{Indicator: "GDP Growth (%)", Path: src}}
	meta, err := metadata.Fingerprint(inputs)
	require.NoError(t, err)

	store := cache.NewJSONStore(filepath.Join(dir, "panel.json"))
	require.NoError(t, store.Save(testPanel(t), meta))

	require.NoError(t, os.WriteFile(src, []byte("v2"), 0644))

	var buf bytes.Buffer

	s := cache.NewSession(store, logger.New(&buf, "info", "text"), cache.WithSourceCheck(inputs))
	_, err = s.Panel()
	require.NoError(t, err)

	assert.Contains(t, buf.String(), "may be stale")
}
