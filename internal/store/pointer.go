package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"strategos/internal/logging"
)

// =============================================================================
// TENANT POINTER STORE
// =============================================================================
// One row per tenant, keyed by org id - never a single global key. The
// per-tenant key is the isolation mechanism: a stale or cross-wired pointer
// is caught by the state machine's org equality check on load.
//
// Pointer writes are last-writer-wins. Concurrent tabs or devices for the
// same tenant can race here; that is a documented limitation, not a bug.

// GetPointer returns the active session id for a tenant, if any.
func (s *LocalStore) GetPointer(orgID string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var sessionID string
	err := s.db.QueryRow(
		`SELECT session_id FROM tenant_pointers WHERE org_id = ?`, orgID,
	).Scan(&sessionID)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read pointer: %w", err)
	}
	return sessionID, true, nil
}

// SetPointer records the active session for a tenant.
func (s *LocalStore) SetPointer(orgID, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	logging.StoreDebug("Setting pointer: org=%s session=%s", orgID, sessionID)
	_, err := s.db.Exec(
		`INSERT INTO tenant_pointers (org_id, session_id, updated_at)
		 VALUES (?, ?, ?)
		 ON CONFLICT(org_id) DO UPDATE SET session_id = excluded.session_id,
			updated_at = excluded.updated_at`,
		orgID, sessionID, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to set pointer: %w", err)
	}
	return nil
}

// ClearPointer removes the tenant's pointer. Clearing an absent pointer is
// not an error.
func (s *LocalStore) ClearPointer(orgID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	logging.StoreDebug("Clearing pointer: org=%s", orgID)
	_, err := s.db.Exec(`DELETE FROM tenant_pointers WHERE org_id = ?`, orgID)
	if err != nil {
		return fmt.Errorf("failed to clear pointer: %w", err)
	}
	return nil
}
