// Package store implements the embedded index: a SQLite-backed key-value
// table mapping image paths to their cryptographic and perceptual hashes,
// with atomic batched writes and prefix-range scans, following the WAL +
// transaction pattern the teacher's internal/database package established.
package store

import (
	"database/sql"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/mattn/go-sqlite3"

	"github.com/adewale/dupehash/internal/perr"
	"github.com/adewale/dupehash/pkg/models"
)

const (
	cryptoPrefix     = "C:"
	perceptualPrefix = "P:"
	vendorDir        = "adewale"
	appDir           = "dupehash"
)

// ResolvePath computes the index database's location per SPEC_FULL.md §6:
// "<user-config-dir>/<vendor>/<app>/<database_name>/index.db". The
// containing directory is created if it does not already exist, since Open
// expects the path's parent to be present.
func ResolvePath(databaseName string) (string, error) {
	if databaseName == "" {
		databaseName = appDir
	}
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", perr.New(perr.KindConfig, err, "")
	}
	dir := filepath.Join(configDir, vendorDir, appDir, databaseName)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", perr.New(perr.KindIo, err, dir)
	}
	return filepath.Join(dir, "index.db"), nil
}

// legacyPrefixes lists prefix conventions earlier revisions of the system
// used inconsistently (pc:/pp:, c:/p:); Diagnose flags rows under any of
// these as foreign, but this package never writes them.
var legacyPrefixes = []string{"pc:", "pp:", "c:", "p:"}

const schema = `
CREATE TABLE IF NOT EXISTS kv (
	key   TEXT PRIMARY KEY,
	value BLOB NOT NULL
);
`

// Store wraps a SQLite connection implementing the Index-Store contract.
type Store struct {
	db *sql.DB
}

// Open opens (creating if necessary) the index database at path. When
// reinitialize is true, any existing kv table is dropped first.
func Open(path string, reinitialize bool) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, perr.New(perr.KindStore, err, path)
	}

	for _, pragma := range []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, perr.New(perr.KindStore, err, path)
		}
	}

	if reinitialize {
		if _, err := db.Exec("DROP TABLE IF EXISTS kv"); err != nil {
			db.Close()
			return nil, perr.New(perr.KindStore, err, path)
		}
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, perr.New(perr.KindStore, err, path)
	}

	return &Store{db: db}, nil
}

// Close releases the underlying connection.
func (s *Store) Close() error { return s.db.Close() }

// Exists reports whether path has a persisted crypto hash entry.
func (s *Store) Exists(path models.PathKey) (bool, error) {
	var exists bool
	err := s.db.QueryRow("SELECT EXISTS(SELECT 1 FROM kv WHERE key = ?)", cryptoPrefix+string(path)).Scan(&exists)
	if err != nil {
		return false, perr.New(perr.KindStore, err, string(path))
	}
	return exists, nil
}

// FilterUnknown returns the subset of paths not already present in the
// store, chunked to bound memory the way the original find_new_images did.
func (s *Store) FilterUnknown(paths []string) ([]string, error) {
	const chunkSize = 1000
	var unknown []string

	for start := 0; start < len(paths); start += chunkSize {
		end := start + chunkSize
		if end > len(paths) {
			end = len(paths)
		}
		for _, p := range paths[start:end] {
			exists, err := s.Exists(models.PathKey(p))
			if err != nil {
				return nil, err
			}
			if !exists {
				unknown = append(unknown, p)
			}
		}
	}
	return unknown, nil
}

// PutBatch persists records atomically: every record writes both its C:
// and P: rows inside one transaction, so a reader never observes one
// without the other (invariant I1).
func (s *Store) PutBatch(records []models.ImageRecord) error {
	if len(records) == 0 {
		return nil
	}

	tx, err := s.db.Begin()
	if err != nil {
		return perr.New(perr.KindStore, err, "")
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare("INSERT OR REPLACE INTO kv (key, value) VALUES (?, ?)")
	if err != nil {
		return perr.New(perr.KindStore, err, "")
	}
	defer stmt.Close()

	for _, rec := range records {
		if _, err := stmt.Exec(cryptoPrefix+string(rec.Path), rec.Crypto[:]); err != nil {
			return perr.New(perr.KindStore, err, string(rec.Path))
		}
		if _, err := stmt.Exec(perceptualPrefix+string(rec.Path), rec.Perceptual.Encode()); err != nil {
			return perr.New(perr.KindStore, err, string(rec.Path))
		}
	}

	if err := tx.Commit(); err != nil {
		return perr.New(perr.KindStore, err, "")
	}
	return nil
}

// IterRecords joins the C: and P: ranges and yields every complete record.
func (s *Store) IterRecords() ([]models.ImageRecord, error) {
	rows, err := s.db.Query(
		"SELECT key, value FROM kv WHERE key >= ? AND key < ? ORDER BY key",
		cryptoPrefix, prefixUpperBound(cryptoPrefix),
	)
	if err != nil {
		return nil, perr.New(perr.KindStore, err, "")
	}
	defer rows.Close()

	var records []models.ImageRecord
	for rows.Next() {
		var key string
		var value []byte
		if err := rows.Scan(&key, &value); err != nil {
			return nil, perr.New(perr.KindStore, err, "")
		}
		path := strings.TrimPrefix(key, cryptoPrefix)

		var crypto models.CryptoHash
		copy(crypto[:], value)

		pValue, err := s.getRaw(perceptualPrefix + path)
		if err != nil {
			return nil, err
		}
		if pValue == nil {
			continue // inconsistent row; Diagnose reports these separately
		}
		perceptual, err := models.DecodePerceptualHash(pValue)
		if err != nil {
			return nil, perr.New(perr.KindStore, err, path)
		}

		records = append(records, models.ImageRecord{
			Path:       models.PathKey(path),
			Crypto:     crypto,
			Perceptual: perceptual,
		})
	}
	return records, rows.Err()
}

func (s *Store) getRaw(key string) ([]byte, error) {
	var value []byte
	err := s.db.QueryRow("SELECT value FROM kv WHERE key = ?", key).Scan(&value)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, perr.New(perr.KindStore, err, key)
	}
	return value, nil
}

// Stats reports the number of crypto and perceptual rows currently stored.
func (s *Store) Stats() (cryptoCount, perceptualCount int, err error) {
	if err = s.db.QueryRow(
		"SELECT COUNT(*) FROM kv WHERE key >= ? AND key < ?", cryptoPrefix, prefixUpperBound(cryptoPrefix),
	).Scan(&cryptoCount); err != nil {
		return 0, 0, perr.New(perr.KindStore, err, "")
	}
	if err = s.db.QueryRow(
		"SELECT COUNT(*) FROM kv WHERE key >= ? AND key < ?", perceptualPrefix, prefixUpperBound(perceptualPrefix),
	).Scan(&perceptualCount); err != nil {
		return 0, 0, perr.New(perr.KindStore, err, "")
	}
	return cryptoCount, perceptualCount, nil
}

// Inconsistency describes a path with only one of its two hash rows, or a
// row written under a prefix convention this package never produces.
type Inconsistency struct {
	Path          string
	HasCrypto     bool
	HasPerceptual bool
	ForeignPrefix string // set when the row's key uses a legacy pc:/pp:/c:/p: prefix
}

// Diagnose finds paths where exactly one of the C: / P: rows is present,
// and separately reports any row under a legacy prefix convention as
// foreign, matching the original database's diagnose_database.
func (s *Store) Diagnose() ([]Inconsistency, error) {
	cryptoPaths, err := s.pathsUnderPrefix(cryptoPrefix)
	if err != nil {
		return nil, err
	}
	perceptualPaths, err := s.pathsUnderPrefix(perceptualPrefix)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{}, len(cryptoPaths)+len(perceptualPaths))
	for p := range cryptoPaths {
		seen[p] = struct{}{}
	}
	for p := range perceptualPaths {
		seen[p] = struct{}{}
	}

	var out []Inconsistency
	for p := range seen {
		_, hasC := cryptoPaths[p]
		_, hasP := perceptualPaths[p]
		if hasC != hasP {
			out = append(out, Inconsistency{Path: p, HasCrypto: hasC, HasPerceptual: hasP})
		}
	}

	foreign, err := s.foreignPrefixRows()
	if err != nil {
		return nil, err
	}
	out = append(out, foreign...)

	return out, nil
}

// foreignPrefixRows reports any row whose key starts with a legacy prefix
// convention (pc:/pp:/c:/p:) this package never writes; their presence
// means the database was touched by a different tool or an older revision.
func (s *Store) foreignPrefixRows() ([]Inconsistency, error) {
	var out []Inconsistency
	for _, prefix := range legacyPrefixes {
		paths, err := s.pathsUnderPrefix(prefix)
		if err != nil {
			return nil, err
		}
		for p := range paths {
			out = append(out, Inconsistency{Path: p, ForeignPrefix: prefix})
		}
	}
	return out, nil
}

func (s *Store) pathsUnderPrefix(prefix string) (map[string]struct{}, error) {
	rows, err := s.db.Query("SELECT key FROM kv WHERE key >= ? AND key < ?", prefix, prefixUpperBound(prefix))
	if err != nil {
		return nil, perr.New(perr.KindStore, err, "")
	}
	defer rows.Close()

	out := make(map[string]struct{})
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, perr.New(perr.KindStore, err, "")
		}
		out[strings.TrimPrefix(key, prefix)] = struct{}{}
	}
	return out, rows.Err()
}

// Flush checkpoints the write-ahead log, ensuring durability of all
// committed batches.
func (s *Store) Flush() error {
	if _, err := s.db.Exec("PRAGMA wal_checkpoint(TRUNCATE)"); err != nil {
		return perr.New(perr.KindStore, err, "")
	}
	return nil
}

// Compact reclaims space freed by overwritten or deleted rows.
func (s *Store) Compact() error {
	if _, err := s.db.Exec("VACUUM"); err != nil {
		return perr.New(perr.KindStore, err, "")
	}
	return nil
}

// prefixUpperBound returns the lexicographic upper bound for a range scan
// over keys starting with prefix (prefix's last byte incremented), the
// same technique as the `key >= 'C:' AND key < 'C;'` scan SPEC_FULL.md §4.6
// names.
func prefixUpperBound(prefix string) string {
	b := []byte(prefix)
	b[len(b)-1]++
	return string(b)
}
