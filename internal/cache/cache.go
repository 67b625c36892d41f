// Package cache implements the result store spec.md §4.6 requires: an
// on-disk, content-hash-keyed cache of prior mutation-run outcomes, so a
// gremlin whose source and covering tests are unchanged since the last run
// is never re-executed. Grounded on internal/store's SQLite connection and
// table-creation pattern, trimmed to the single table this domain needs.
package cache

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	_ "modernc.org/sqlite"

	"github.com/gremlins-go/gremlins/internal/model"
)

// Store is a SQLite-backed result cache keyed by model.CacheKey.
type Store struct {
	db   *sql.DB
	mu   sync.RWMutex
	path string
}

// Open opens (creating if absent) the cache database at path.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("cache: create directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("cache: open database: %w", err)
	}

	s := &Store{db: db, path: path}
	if err := s.initialize(); err != nil {
		if recoverErr := s.recover(); recoverErr != nil {
			db.Close()
			return nil, fmt.Errorf("cache: corrupt database, recovery failed: %w", recoverErr)
		}
		if err := s.initialize(); err != nil {
			db.Close()
			return nil, fmt.Errorf("cache: initialize after recovery: %w", err)
		}
	}
	return s, nil
}

func (s *Store) initialize() error {
	const ddl = `
	CREATE TABLE IF NOT EXISTS results (
		cache_key    TEXT PRIMARY KEY,
		gremlin_id   TEXT NOT NULL,
		status       TEXT NOT NULL,
		killing_test TEXT,
		duration_ns  INTEGER NOT NULL,
		recorded_at  DATETIME DEFAULT CURRENT_TIMESTAMP
	);
	CREATE INDEX IF NOT EXISTS idx_results_gremlin ON results(gremlin_id);
	`
	if _, err := s.db.Exec(ddl); err != nil {
		return err
	}
	// consistency probe: a corrupt file opens fine but fails on first query.
	var n int
	return s.db.QueryRow("SELECT COUNT(*) FROM results").Scan(&n)
}

// recover deletes a corrupt cache file outright and reopens a fresh
// connection at the same path; unlike internal/store's backup/restore
// pair this cache has no durable source of truth to restore from, so a
// clean rebuild (every gremlin simply misses and reruns) is the correct
// recovery, not a restore.
func (s *Store) recover() error {
	s.db.Close()
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return err
	}
	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return err
	}
	s.db = db
	return nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Get looks up a previously recorded result by cache key. The second
// return value is false on a cache miss.
func (s *Store) Get(cacheKey string) (model.Result, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var res model.Result
	var status string
	var killingTest sql.NullString
	err := s.db.QueryRow(
		"SELECT gremlin_id, status, killing_test, duration_ns FROM results WHERE cache_key = ?",
		cacheKey,
	).Scan(&res.GremlinID, &status, &killingTest, &res.Duration)
	if err != nil {
		return model.Result{}, false
	}
	res.Status = model.Status(status)
	if killingTest.Valid {
		res.KillingTest = killingTest.String
	}
	return res, true
}

// Put records or replaces a result under cacheKey.
func (s *Store) Put(cacheKey string, res model.Result) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(
		`INSERT INTO results (cache_key, gremlin_id, status, killing_test, duration_ns)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(cache_key) DO UPDATE SET
		   status = excluded.status,
		   killing_test = excluded.killing_test,
		   duration_ns = excluded.duration_ns,
		   recorded_at = CURRENT_TIMESTAMP`,
		cacheKey, res.GremlinID, string(res.Status), nullableString(res.KillingTest), res.Duration,
	)
	return err
}

// PutBatch records multiple results in one transaction, for the
// deferred/batched flush path spec.md §4.6 allows as an alternative to
// per-result immediate writes.
func (s *Store) PutBatch(results map[string]model.Result) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	stmt, err := tx.Prepare(
		`INSERT INTO results (cache_key, gremlin_id, status, killing_test, duration_ns)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(cache_key) DO UPDATE SET
		   status = excluded.status,
		   killing_test = excluded.killing_test,
		   duration_ns = excluded.duration_ns,
		   recorded_at = CURRENT_TIMESTAMP`,
	)
	if err != nil {
		tx.Rollback()
		return err
	}
	defer stmt.Close()

	for key, res := range results {
		if _, err := stmt.Exec(key, res.GremlinID, string(res.Status), nullableString(res.KillingTest), res.Duration); err != nil {
			tx.Rollback()
			return err
		}
	}
	return tx.Commit()
}

// Clear removes every recorded result, for the `cache clear` subcommand.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.db.Exec("DELETE FROM results")
	return err
}

// Count returns the number of cached results.
func (s *Store) Count() (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var n int
	err := s.db.QueryRow("SELECT COUNT(*) FROM results").Scan(&n)
	return n, err
}

func nullableString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}
