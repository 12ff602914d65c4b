// Package types holds the shared domain model for strategos: the campaign
// session aggregate, the six-stage workflow, normalized content pieces, and
// the error taxonomy used across coordinators.
//
// Sessions move through a fixed total order of stages. Coordinators mutate
// a session only through the session.StateMachine; everything in this
// package is plain data.
package types

import (
	"encoding/json"
	"time"
)

// CampaignType represents the flavor of campaign being planned.
type CampaignType string

const (
	CampaignTypeMarketing    CampaignType = "/marketing"    // Product/brand launch campaigns
	CampaignTypeCrisis       CampaignType = "/crisis"       // Crisis response campaigns
	CampaignTypeIntelligence CampaignType = "/intelligence" // Intelligence-augmented campaigns
)

// Stage represents the coarse-grained position of a session in the workflow.
type Stage string

const (
	StageIntent      Stage = "/intent"      // Goal capture
	StageResearch    Stage = "/research"    // Four-phase research pipeline
	StagePositioning Stage = "/positioning" // Positioning option selection
	StageApproach    Stage = "/approach"    // Strategic approach selection
	StageBlueprint   Stage = "/blueprint"   // Blueprint assembly
	StageExecution   Stage = "/execution"   // Content piece generation
)

// stageOrder fixes the total order Intent < Research < ... < Execution.
var stageOrder = map[Stage]int{
	StageIntent:      0,
	StageResearch:    1,
	StagePositioning: 2,
	StageApproach:    3,
	StageBlueprint:   4,
	StageExecution:   5,
}

var stagesBySeq = []Stage{
	StageIntent,
	StageResearch,
	StagePositioning,
	StageApproach,
	StageBlueprint,
	StageExecution,
}

// Valid reports whether s is one of the six known stages.
func (s Stage) Valid() bool {
	_, ok := stageOrder[s]
	return ok
}

// Before reports whether s precedes other in the stage order.
func (s Stage) Before(other Stage) bool {
	return stageOrder[s] < stageOrder[other]
}

// Next returns the immediate successor stage, or "" if s is terminal.
func (s Stage) Next() Stage {
	idx := stageOrder[s] + 1
	if idx >= len(stagesBySeq) {
		return ""
	}
	return stagesBySeq[idx]
}

// PhaseStatus represents the status of a sub-phase within Research or
// Blueprint generation. Phases are transient; they are never persisted.
type PhaseStatus string

const (
	PhasePending   PhaseStatus = "/pending"
	PhaseRunning   PhaseStatus = "/running"
	PhaseCompleted PhaseStatus = "/completed"
	PhaseFailed    PhaseStatus = "/failed"
)

// StageProgress is one progress report for a sub-phase.
type StageProgress struct {
	PhaseName   string      `json:"phase_name"`
	PhaseStatus PhaseStatus `json:"phase_status"`
}

// ProgressFunc receives per-phase progress while a coordinator runs. A nil
// ProgressFunc is always legal.
type ProgressFunc func(phaseName string, status PhaseStatus)

// Document is an opaque, versioned payload returned by the generation
// collaborator. Coordinators thread documents through without interpreting
// them; only the inventory normalizer sniffs their structure.
type Document map[string]any

// EntryKind classifies a conversation history entry.
type EntryKind string

const (
	EntryStageChange EntryKind = "/stage_change"
	EntryResponse    EntryKind = "/response"
	EntryRefinement  EntryKind = "/refinement"
)

// ConversationEntry is one append-only audit record on a session.
type ConversationEntry struct {
	Kind      EntryKind `json:"kind"`
	Stage     Stage     `json:"stage"`
	Summary   string    `json:"summary"`
	Timestamp time.Time `json:"timestamp"`
}

// CampaignSession is the aggregate root: one user's campaign-building
// workflow from goal to generated content. OrgID is set at creation and
// immutable; every read is checked against the caller's tenant.
type CampaignSession struct {
	ID           string       `json:"id"`
	OrgID        string       `json:"org_id"`
	Stage        Stage        `json:"stage"`
	CampaignGoal string       `json:"campaign_goal"`
	CampaignType CampaignType `json:"campaign_type"`

	// Stage payloads, populated as stages complete.
	ResearchData        Document `json:"research_data,omitempty"`
	PositioningOptions  Document `json:"positioning_options,omitempty"`
	SelectedPositioning Document `json:"selected_positioning,omitempty"`
	SelectedApproach    Document `json:"selected_approach,omitempty"`
	Blueprint           Document `json:"blueprint,omitempty"`

	// OrchestrationPlan is populated out-of-band by the generation
	// collaborator during the orchestrated blueprint path. Its presence is
	// the only completion signal for that phase; the coordinator observes
	// it by re-fetching the persisted record.
	OrchestrationPlan Document `json:"orchestration_plan,omitempty"`

	ConversationHistory []ConversationEntry `json:"conversation_history,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Clone returns a deep copy of the session via JSON round-trip. Coordinators
// clone before speculative mutation so failures never leak partial state.
func (s *CampaignSession) Clone() *CampaignSession {
	data, err := json.Marshal(s)
	if err != nil {
		return nil
	}
	var out CampaignSession
	if err := json.Unmarshal(data, &out); err != nil {
		return nil
	}
	return &out
}

// PayloadFor returns the output payload a completed stage must have produced
// before the workflow may advance past it. Intent's payload is the goal text
// itself, checked separately at creation time.
func (s *CampaignSession) PayloadFor(stage Stage) Document {
	switch stage {
	case StageResearch:
		return s.ResearchData
	case StagePositioning:
		return s.SelectedPositioning
	case StageApproach:
		return s.SelectedApproach
	case StageBlueprint:
		return s.Blueprint
	default:
		return nil
	}
}

// RequiresOrchestration reports whether the selected approach needs the
// multi-stakeholder orchestrated blueprint path.
func (s *CampaignSession) RequiresOrchestration() bool {
	if s.SelectedApproach == nil {
		return false
	}
	coordination, _ := s.SelectedApproach["coordination"].(string)
	return coordination == "multi_stakeholder"
}

// IntelligenceAugmented reports whether the blueprint run should gather
// extra intelligence context before base generation.
func (s *CampaignSession) IntelligenceAugmented() bool {
	return s.CampaignType == CampaignTypeIntelligence
}

// AppendHistory records an audit entry on the session.
func (s *CampaignSession) AppendHistory(kind EntryKind, summary string) {
	s.ConversationHistory = append(s.ConversationHistory, ConversationEntry{
		Kind:      kind,
		Stage:     s.Stage,
		Summary:   summary,
		Timestamp: time.Now().UTC(),
	})
}

// PieceStatus represents the lifecycle of one content piece during the
// execution stage.
type PieceStatus string

const (
	PiecePending    PieceStatus = "/pending"
	PieceGenerating PieceStatus = "/generating"
	PieceCompleted  PieceStatus = "/completed"
	PieceFailed     PieceStatus = "/failed"
)

// PiecePriority represents content piece priority.
type PiecePriority string

const (
	PriorityHigh   PiecePriority = "/high"
	PriorityMedium PiecePriority = "/medium"
	PriorityLow    PiecePriority = "/low"
)

// ContentPiece is one unit of generated output (a pitch, a post, a release)
// tracked individually through the execution stage. Pieces are derived fresh
// from the blueprint each time the execution stage is entered; they are not
// independently persisted.
type ContentPiece struct {
	ID                string        `json:"id"`
	ContentType       string        `json:"content_type"`
	Title             string        `json:"title,omitempty"`
	Description       string        `json:"description,omitempty"`
	TargetStakeholder string        `json:"target_stakeholder,omitempty"`
	Phase             string        `json:"phase,omitempty"`
	Pillar            string        `json:"pillar,omitempty"`
	Priority          PiecePriority `json:"priority"`
	Status            PieceStatus   `json:"status"`
	Content           string        `json:"content,omitempty"`
	FailureReason     string        `json:"failure_reason,omitempty"`
}
