// Package session implements the campaign session state machine: the single
// source of truth for a session's current stage and payloads, and the only
// component allowed to mutate a CampaignSession.
package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"unicode/utf8"

	"strategos/internal/logging"
	"strategos/internal/types"
)

// MinGoalLength is the minimum rune count for a campaign goal before a
// session may leave the intent stage.
const MinGoalLength = 10

// StateMachine holds the in-memory session record and enforces legal stage
// transitions. Forward transitions persist; review navigation does not.
type StateMachine struct {
	mu       sync.RWMutex
	repo     types.SessionRepository
	pointers types.PointerStore

	session   *types.CampaignSession
	viewStage types.Stage
}

// NewStateMachine wires the machine to its repository and pointer store.
func NewStateMachine(repo types.SessionRepository, pointers types.PointerStore) *StateMachine {
	return &StateMachine{repo: repo, pointers: pointers}
}

// Session returns the current in-memory session, or nil before Create/LoadFor.
func (m *StateMachine) Session() *types.CampaignSession {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.session
}

// ViewStage returns the stage currently displayed. It trails behind the real
// stage only while the user reviews a prior stage.
func (m *StateMachine) ViewStage() types.Stage {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.viewStage
}

// Create validates the goal, creates a persisted session for the tenant, and
// immediately advances it into the research stage as the pipeline starts.
func (m *StateMachine) Create(ctx context.Context, orgID, goal string, campaignType types.CampaignType) (*types.CampaignSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if orgID == "" {
		return nil, &types.ValidationError{Field: "org_id", Reason: "required"}
	}
	goal = strings.TrimSpace(goal)
	if utf8.RuneCountInString(goal) < MinGoalLength {
		return nil, &types.ValidationError{
			Field:  "campaign_goal",
			Reason: fmt.Sprintf("must be at least %d characters", MinGoalLength),
		}
	}
	if campaignType == "" {
		campaignType = types.CampaignTypeMarketing
	}

	session := &types.CampaignSession{
		OrgID:        orgID,
		Stage:        types.StageIntent,
		CampaignGoal: goal,
		CampaignType: campaignType,
	}
	session.AppendHistory(types.EntryStageChange, "session created")

	if err := m.repo.CreateSession(ctx, session); err != nil {
		return nil, err
	}
	if err := m.pointers.SetPointer(orgID, session.ID); err != nil {
		logging.SessionWarn("Pointer write failed for org %s: %v", orgID, err)
	}

	m.session = session
	m.viewStage = session.Stage
	logging.Session("Session created: id=%s org=%s", session.ID, orgID)

	// The research pipeline starts as soon as the goal is accepted.
	if _, err := m.advanceLocked(ctx, types.StageResearch, nil); err != nil {
		return nil, err
	}
	return m.session, nil
}

// Advance moves the session to targetStage, recording payload as the output
// of the stage being left. targetStage must be the immediate successor and
// the departing stage's payload must be present after applying payload.
func (m *StateMachine) Advance(ctx context.Context, targetStage types.Stage, payload types.Document) (*types.CampaignSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.advanceLocked(ctx, targetStage, payload)
}

func (m *StateMachine) advanceLocked(ctx context.Context, targetStage types.Stage, payload types.Document) (*types.CampaignSession, error) {
	if m.session == nil {
		return nil, types.ErrNotFound
	}
	current := m.session.Stage
	if !targetStage.Valid() || targetStage != current.Next() {
		return nil, &types.IllegalTransitionError{From: current, To: targetStage}
	}

	if payload != nil {
		m.applyPayload(current, payload)
	}
	if err := m.checkDeparturePayload(current); err != nil {
		return nil, err
	}

	m.session.Stage = targetStage
	m.viewStage = targetStage
	m.session.AppendHistory(types.EntryStageChange,
		fmt.Sprintf("advanced %s -> %s", current, targetStage))

	if err := m.repo.SaveSession(ctx, m.session); err != nil {
		// Undo the in-memory move so memory and store agree.
		m.session.Stage = current
		m.viewStage = current
		return nil, err
	}

	logging.Session("Stage advanced: id=%s %s -> %s", m.session.ID, current, targetStage)
	return m.session, nil
}

// applyPayload stores payload as the output of the departing stage.
func (m *StateMachine) applyPayload(departing types.Stage, payload types.Document) {
	switch departing {
	case types.StageResearch:
		m.session.ResearchData = payload
	case types.StagePositioning:
		m.session.SelectedPositioning = payload
	case types.StageApproach:
		m.session.SelectedApproach = payload
	case types.StageBlueprint:
		m.session.Blueprint = payload
	}
}

// checkDeparturePayload enforces that no stage is left without its output.
func (m *StateMachine) checkDeparturePayload(departing types.Stage) error {
	if departing == types.StageIntent {
		// The goal is the intent payload; it was validated at creation.
		return nil
	}
	if m.session.PayloadFor(departing) == nil {
		return &types.ValidationError{
			Field:  string(departing),
			Reason: "stage payload missing, cannot advance",
		}
	}
	return nil
}

// ReviewStage changes only the displayed stage to a prior one. It never
// mutates payloads and never persists, since nothing changed.
func (m *StateMachine) ReviewStage(targetStage types.Stage) (*types.CampaignSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.session == nil {
		return nil, types.ErrNotFound
	}
	if !targetStage.Valid() || !targetStage.Before(m.session.Stage) {
		return nil, &types.IllegalTransitionError{From: m.session.Stage, To: targetStage}
	}
	m.viewStage = targetStage
	return m.session, nil
}

// Rollback reverts the session's stage to an earlier stage after a
// coordinator failure, leaving all payloads untouched, and persists.
func (m *StateMachine) Rollback(ctx context.Context, targetStage types.Stage) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.session == nil {
		return types.ErrNotFound
	}
	if !targetStage.Valid() || !targetStage.Before(m.session.Stage) {
		return &types.IllegalTransitionError{From: m.session.Stage, To: targetStage}
	}

	from := m.session.Stage
	m.session.Stage = targetStage
	m.viewStage = targetStage
	m.session.AppendHistory(types.EntryStageChange,
		fmt.Sprintf("rolled back %s -> %s", from, targetStage))

	if err := m.repo.SaveSession(ctx, m.session); err != nil {
		m.session.Stage = from
		m.viewStage = from
		return err
	}
	logging.SessionWarn("Stage rolled back: id=%s %s -> %s", m.session.ID, from, targetStage)
	return nil
}

// LoadFor resumes the tenant's session from its pointer. A fetched record
// whose org does not exactly equal the requesting org is treated as not
// found and the stale pointer is cleared: one organization's in-progress
// session must never be loaded by another. There is no loose mode.
func (m *StateMachine) LoadFor(ctx context.Context, orgID string) (*types.CampaignSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if orgID == "" {
		return nil, types.ErrNotFound
	}

	sessionID, ok, err := m.pointers.GetPointer(orgID)
	if err != nil || !ok {
		return nil, types.ErrNotFound
	}

	record, err := m.repo.FetchSession(ctx, sessionID)
	if errors.Is(err, types.ErrNotFound) {
		_ = m.pointers.ClearPointer(orgID)
		return nil, types.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	if record.OrgID == "" || record.OrgID != orgID {
		mismatch := &types.TenantMismatchError{Want: orgID, Got: record.OrgID}
		logging.SessionError("Tenant isolation check failed: session=%s: %v", sessionID, mismatch)
		_ = m.pointers.ClearPointer(orgID)
		return nil, types.ErrNotFound
	}

	m.session = record
	m.viewStage = record.Stage
	logging.Session("Session resumed: id=%s org=%s stage=%s", record.ID, orgID, record.Stage)
	return record, nil
}

// =============================================================================
// PAYLOAD SETTERS
// =============================================================================
// Used by coordinators that replace a payload without changing stage
// (research refinement, blueprint finalization, positioning generation).
// Each setter persists immediately.

// ReplaceResearchData atomically replaces the research payload.
func (m *StateMachine) ReplaceResearchData(ctx context.Context, data types.Document) error {
	return m.setAndSave(ctx, func(s *types.CampaignSession) { s.ResearchData = data })
}

// SetPositioningOptions stores the generated positioning options.
func (m *StateMachine) SetPositioningOptions(ctx context.Context, options types.Document) error {
	return m.setAndSave(ctx, func(s *types.CampaignSession) { s.PositioningOptions = options })
}

// SetBlueprint stores the finalized blueprint.
func (m *StateMachine) SetBlueprint(ctx context.Context, blueprint types.Document) error {
	return m.setAndSave(ctx, func(s *types.CampaignSession) { s.Blueprint = blueprint })
}

// ClearOrchestrationPlan resets the out-of-band completion signal before a
// fresh orchestrated blueprint run.
func (m *StateMachine) ClearOrchestrationPlan(ctx context.Context) error {
	return m.setAndSave(ctx, func(s *types.CampaignSession) { s.OrchestrationPlan = nil })
}

// AdoptOrchestrationPlan copies a plan observed on the persisted record into
// the in-memory session, so later full-record saves do not clobber what the
// collaborator wrote out-of-band. No save: the store already has it.
func (m *StateMachine) AdoptOrchestrationPlan(plan types.Document) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.session != nil {
		m.session.OrchestrationPlan = plan
	}
}

// RecordResponse appends a collaborator response summary to the history and
// persists it.
func (m *StateMachine) RecordResponse(ctx context.Context, summary string) error {
	return m.setAndSave(ctx, func(s *types.CampaignSession) {
		s.AppendHistory(types.EntryResponse, summary)
	})
}

func (m *StateMachine) setAndSave(ctx context.Context, mutate func(*types.CampaignSession)) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.session == nil {
		return types.ErrNotFound
	}
	snapshot := m.session.Clone()
	mutate(m.session)
	if err := m.repo.SaveSession(ctx, m.session); err != nil {
		m.session = snapshot
		return err
	}
	return nil
}
