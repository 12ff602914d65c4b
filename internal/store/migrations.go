package store

import (
	"fmt"

	"strategos/internal/logging"
)

// Schema versions:
// v1: sessions table with JSON payload columns, tenant_pointers table
// v2: orchestration_json column (out-of-band orchestration completion signal)
const CurrentSchemaVersion = 2

type migration struct {
	version int
	stmts   []string
}

var migrations = []migration{
	{
		version: 1,
		stmts: []string{
			`CREATE TABLE IF NOT EXISTS sessions (
				id TEXT PRIMARY KEY,
				org_id TEXT NOT NULL,
				stage TEXT NOT NULL,
				campaign_goal TEXT NOT NULL,
				campaign_type TEXT NOT NULL,
				research_json TEXT,
				positioning_options_json TEXT,
				selected_positioning_json TEXT,
				selected_approach_json TEXT,
				blueprint_json TEXT,
				history_json TEXT,
				created_at DATETIME NOT NULL,
				updated_at DATETIME NOT NULL
			)`,
			`CREATE INDEX IF NOT EXISTS idx_sessions_org ON sessions(org_id)`,
			`CREATE TABLE IF NOT EXISTS tenant_pointers (
				org_id TEXT PRIMARY KEY,
				session_id TEXT NOT NULL,
				updated_at DATETIME NOT NULL
			)`,
		},
	},
	{
		version: 2,
		stmts: []string{
			`ALTER TABLE sessions ADD COLUMN orchestration_json TEXT`,
		},
	},
}

// migrate brings the schema up to CurrentSchemaVersion.
func (s *LocalStore) migrate() error {
	timer := logging.StartTimer(logging.CategoryStore, "migrate")
	defer timer.Stop()

	if _, err := s.db.Exec(
		`CREATE TABLE IF NOT EXISTS schema_version (version INTEGER NOT NULL)`); err != nil {
		return fmt.Errorf("failed to create schema_version table: %w", err)
	}

	var version int
	row := s.db.QueryRow(`SELECT COALESCE(MAX(version), 0) FROM schema_version`)
	if err := row.Scan(&version); err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}

	for _, m := range migrations {
		if m.version <= version {
			continue
		}
		logging.Store("Applying schema migration v%d", m.version)
		for _, stmt := range m.stmts {
			if _, err := s.db.Exec(stmt); err != nil {
				return fmt.Errorf("migration v%d failed: %w", m.version, err)
			}
		}
		if _, err := s.db.Exec(`INSERT INTO schema_version (version) VALUES (?)`, m.version); err != nil {
			return fmt.Errorf("failed to record migration v%d: %w", m.version, err)
		}
	}

	return nil
}
