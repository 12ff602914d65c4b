// Package store implements session durability over SQLite: the session
// repository (full campaign session records) and the tenant-scoped pointer
// store (org -> active session mapping that survives restarts).
package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	_ "modernc.org/sqlite"

	"strategos/internal/logging"
)

// LocalStore backs both the SessionRepository and the PointerStore with one
// SQLite database. The repository stands in for the collaborator data store;
// the pointer table is strictly client-local state.
type LocalStore struct {
	db     *sql.DB
	mu     sync.RWMutex
	dbPath string
}

// NewLocalStore initializes the SQLite database at the given path.
func NewLocalStore(path string) (*LocalStore, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &LocalStore{db: db, dbPath: path}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, err
	}

	logging.Store("Store opened: %s", path)
	return store, nil
}

// Close closes the underlying database.
func (s *LocalStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.Close()
}

// Path returns the database file path.
func (s *LocalStore) Path() string {
	return s.dbPath
}
