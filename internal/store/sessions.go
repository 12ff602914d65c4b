package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"strategos/internal/logging"
	"strategos/internal/types"
)

// =============================================================================
// SESSION REPOSITORY
// =============================================================================

const sessionColumns = `id, org_id, stage, campaign_goal, campaign_type,
	research_json, positioning_options_json, selected_positioning_json,
	selected_approach_json, blueprint_json, orchestration_json, history_json,
	created_at, updated_at`

// CreateSession assigns an id and inserts the session record.
func (s *LocalStore) CreateSession(ctx context.Context, session *types.CampaignSession) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if session.ID == "" {
		session.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	session.CreatedAt = now
	session.UpdatedAt = now

	logging.StoreDebug("Creating session: id=%s org=%s", session.ID, session.OrgID)

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO sessions (`+sessionColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		session.ID, session.OrgID, string(session.Stage), session.CampaignGoal,
		string(session.CampaignType),
		marshalDoc(session.ResearchData),
		marshalDoc(session.PositioningOptions),
		marshalDoc(session.SelectedPositioning),
		marshalDoc(session.SelectedApproach),
		marshalDoc(session.Blueprint),
		marshalDoc(session.OrchestrationPlan),
		marshalHistory(session.ConversationHistory),
		session.CreatedAt, session.UpdatedAt,
	)
	if err != nil {
		logging.StoreError("Failed to create session %s: %v", session.ID, err)
		return fmt.Errorf("failed to create session: %w", err)
	}
	return nil
}

// FetchSession loads a full session record by id. Returns types.ErrNotFound
// when no record exists.
func (s *LocalStore) FetchSession(ctx context.Context, sessionID string) (*types.CampaignSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx,
		`SELECT `+sessionColumns+` FROM sessions WHERE id = ?`, sessionID)

	session, err := scanSession(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, types.ErrNotFound
	}
	if err != nil {
		logging.StoreError("Failed to fetch session %s: %v", sessionID, err)
		return nil, fmt.Errorf("failed to fetch session: %w", err)
	}
	return session, nil
}

// SaveSession writes the full session record back, bumping updated_at.
func (s *LocalStore) SaveSession(ctx context.Context, session *types.CampaignSession) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	session.UpdatedAt = time.Now().UTC()
	logging.StoreDebug("Saving session: id=%s stage=%s", session.ID, session.Stage)

	res, err := s.db.ExecContext(ctx,
		`UPDATE sessions SET
			stage = ?, campaign_goal = ?, campaign_type = ?,
			research_json = ?, positioning_options_json = ?,
			selected_positioning_json = ?, selected_approach_json = ?,
			blueprint_json = ?, orchestration_json = ?, history_json = ?,
			updated_at = ?
		 WHERE id = ?`,
		string(session.Stage), session.CampaignGoal, string(session.CampaignType),
		marshalDoc(session.ResearchData),
		marshalDoc(session.PositioningOptions),
		marshalDoc(session.SelectedPositioning),
		marshalDoc(session.SelectedApproach),
		marshalDoc(session.Blueprint),
		marshalDoc(session.OrchestrationPlan),
		marshalHistory(session.ConversationHistory),
		session.UpdatedAt, session.ID,
	)
	if err != nil {
		logging.StoreError("Failed to save session %s: %v", session.ID, err)
		return fmt.Errorf("failed to save session: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return types.ErrNotFound
	}
	return nil
}

// ListSessions returns all sessions for a tenant, newest first.
func (s *LocalStore) ListSessions(ctx context.Context, orgID string) ([]*types.CampaignSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		`SELECT `+sessionColumns+` FROM sessions
		 WHERE org_id = ? ORDER BY updated_at DESC`, orgID)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	defer rows.Close()

	var sessions []*types.CampaignSession
	for rows.Next() {
		session, err := scanSession(rows)
		if err != nil {
			logging.StoreError("Skipping unreadable session row: %v", err)
			continue
		}
		sessions = append(sessions, session)
	}
	return sessions, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSession(row rowScanner) (*types.CampaignSession, error) {
	var (
		session                                  types.CampaignSession
		stage, campaignType                      string
		research, options, positioning           sql.NullString
		approach, blueprint, orchestration, hist sql.NullString
	)
	err := row.Scan(
		&session.ID, &session.OrgID, &stage, &session.CampaignGoal, &campaignType,
		&research, &options, &positioning, &approach, &blueprint, &orchestration,
		&hist, &session.CreatedAt, &session.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	session.Stage = types.Stage(stage)
	session.CampaignType = types.CampaignType(campaignType)
	session.ResearchData = unmarshalDoc(research)
	session.PositioningOptions = unmarshalDoc(options)
	session.SelectedPositioning = unmarshalDoc(positioning)
	session.SelectedApproach = unmarshalDoc(approach)
	session.Blueprint = unmarshalDoc(blueprint)
	session.OrchestrationPlan = unmarshalDoc(orchestration)
	session.ConversationHistory = unmarshalHistory(hist)
	return &session, nil
}

func marshalDoc(doc types.Document) any {
	if doc == nil {
		return nil
	}
	data, err := json.Marshal(doc)
	if err != nil {
		return nil
	}
	return string(data)
}

func unmarshalDoc(col sql.NullString) types.Document {
	if !col.Valid || col.String == "" {
		return nil
	}
	var doc types.Document
	if err := json.Unmarshal([]byte(col.String), &doc); err != nil {
		return nil
	}
	return doc
}

func marshalHistory(entries []types.ConversationEntry) any {
	if len(entries) == 0 {
		return nil
	}
	data, err := json.Marshal(entries)
	if err != nil {
		return nil
	}
	return string(data)
}

func unmarshalHistory(col sql.NullString) []types.ConversationEntry {
	if !col.Valid || col.String == "" {
		return nil
	}
	var entries []types.ConversationEntry
	if err := json.Unmarshal([]byte(col.String), &entries); err != nil {
		return nil
	}
	return entries
}
