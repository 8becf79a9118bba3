package cache

import (
	"database/sql"
	"encoding/json"
	"path/filepath"
	"strconv"

	"wbpanel/internal/models"
	"wbpanel/pkg/metadata"

	"go.trai.ch/zerr"
	_ "modernc.org/sqlite"
)

// SQLiteStore keeps the artifact as a SQLite database with one row per
// (indicator, country, year). Absent values are stored as NULL.
type SQLiteStore struct {
	path string
}

// NewSQLiteStore creates a store backed by the database file at path.
func NewSQLiteStore(path string) *SQLiteStore {
	return &SQLiteStore{path: filepath.Clean(path)}
}

var schema = []string{
	`CREATE TABLE meta (
		key   TEXT PRIMARY KEY,
		value TEXT NOT NULL
	)`,
	`CREATE TABLE indicators (
		position INTEGER PRIMARY KEY,
		name     TEXT NOT NULL UNIQUE
	)`,
	`CREATE TABLE observations (
		indicator TEXT    NOT NULL,
		country   TEXT    NOT NULL,
		year      INTEGER NOT NULL,
		value     REAL,
		PRIMARY KEY (indicator, country, year)
	)`,
}

// Path returns the artifact location.
func (s *SQLiteStore) Path() string {
	return s.path
}

// Save writes the panel into a fresh database and swaps it in.
func (s *SQLiteStore) Save(p *models.Panel, meta *metadata.Metadata) error {
	records, err := flatten(p)
	if err != nil {
		return err
	}

	return writeAtomic(s.path, func(tmp string) error {
		db, err := sql.Open("sqlite", tmp)
		if err != nil {
			return zerr.With(zerr.Wrap(err, "failed to open sqlite artifact"), "path", tmp)
		}
		defer db.Close()

		return writePanel(db, p, records, meta)
	})
}

func writePanel(db *sql.DB, p *models.Panel, records []seriesRecord, meta *metadata.Metadata) error {
	tx, err := db.Begin()
	if err != nil {
		return zerr.Wrap(err, "failed to begin transaction")
	}
	defer tx.Rollback() //nolint:errcheck // No-op after commit

	for _, stmt := range schema {
		if _, err := tx.Exec(stmt); err != nil {
			return zerr.Wrap(err, "failed to create schema")
		}
	}

	first, last := p.YearRange()
	metaRows := map[string]string{
		"first_year": strconv.Itoa(first),
		"last_year":  strconv.Itoa(last),
	}

	if meta != nil {
		data, err := json.Marshal(meta)
		if err != nil {
			return zerr.Wrap(err, "failed to marshal metadata")
		}

		metaRows["metadata"] = string(data)
	}

	for k, v := range metaRows {
		if _, err := tx.Exec(`INSERT INTO meta (key, value) VALUES (?, ?)`, k, v); err != nil {
			return zerr.With(zerr.Wrap(err, "failed to insert meta"), "key", k)
		}
	}

	for i, ind := range p.Indicators() {
		if _, err := tx.Exec(`INSERT INTO indicators (position, name) VALUES (?, ?)`, i, ind); err != nil {
			return zerr.With(zerr.Wrap(err, "failed to insert indicator"), "indicator", ind)
		}
	}

	stmt, err := tx.Prepare(`INSERT INTO observations (indicator, country, year, value) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return zerr.Wrap(err, "failed to prepare insert")
	}
	defer stmt.Close()

	for _, r := range records {
		for i, v := range r.Values {
			val := sql.NullFloat64{Float64: v.Float, Valid: v.Valid}
			if _, err := stmt.Exec(r.Indicator, r.Country, first+i, val); err != nil {
				return zerr.With(zerr.Wrap(err, "failed to insert observation"), "series", r.Indicator+"/"+r.Country)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return zerr.Wrap(err, "failed to commit artifact")
	}

	return nil
}

// Load reads the artifact back.
func (s *SQLiteStore) Load() (*Artifact, error) {
	if err := checkArtifact(s.path); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to open sqlite artifact"), "path", s.path)
	}
	defer db.Close()

	a, err := readPanel(db)
	if err != nil {
		return nil, zerr.With(err, "path", s.path)
	}

	return a, nil
}

func readPanel(db *sql.DB) (*Artifact, error) {
	metaRows := make(map[string]string)

	rows, err := db.Query(`SELECT key, value FROM meta`)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to query meta")
	}

	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			rows.Close()
			return nil, zerr.Wrap(err, "failed to scan meta")
		}

		metaRows[k] = v
	}

	rows.Close()

	first, err := strconv.Atoi(metaRows["first_year"])
	if err != nil {
		return nil, zerr.Wrap(err, "corrupt first_year")
	}

	last, err := strconv.Atoi(metaRows["last_year"])
	if err != nil {
		return nil, zerr.Wrap(err, "corrupt last_year")
	}

	var meta *metadata.Metadata

	if raw, ok := metaRows["metadata"]; ok {
		meta = &metadata.Metadata{}
		if err := json.Unmarshal([]byte(raw), meta); err != nil {
			return nil, zerr.Wrap(err, "corrupt metadata")
		}
	}

	rows, err = db.Query(`
		SELECT o.indicator, o.country, o.year, o.value
		FROM observations o
		JOIN indicators i ON i.name = o.indicator
		ORDER BY i.position, o.country, o.year`)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to query observations")
	}
	defer rows.Close()

	width := last - first + 1

	var (
		records []seriesRecord
		cur     *seriesRecord
	)

	for rows.Next() {
		var (
			ind, country string
			year         int
			val          sql.NullFloat64
		)

		if err := rows.Scan(&ind, &country, &year, &val); err != nil {
			return nil, zerr.Wrap(err, "failed to scan observation")
		}

		if cur == nil || cur.Indicator != ind || cur.Country != country {
			records = append(records, seriesRecord{
				Indicator: ind,
				Country:   country,
				Values:    make([]models.Value, width),
			})
			cur = &records[len(records)-1]
		}

		if idx := year - first; idx >= 0 && idx < width && val.Valid {
			cur.Values[idx] = models.Observed(val.Float64)
		}
	}

	if err := rows.Err(); err != nil {
		return nil, zerr.Wrap(err, "failed to iterate observations")
	}

	p, err := restore(first, last, records)
	if err != nil {
		return nil, zerr.Wrap(err, "corrupt cache artifact")
	}

	return &Artifact{Panel: p, Metadata: meta}, nil
}
