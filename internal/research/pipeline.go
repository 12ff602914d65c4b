// Package research drives the four-phase research pipeline: discovery,
// intelligence gathering, synthesis, and saving. Phases are strictly
// sequential - synthesis depends on intelligence output - and there is no
// partial-research state: any failure aborts the rest and rolls the session
// back to the intent stage.
package research

import (
	"context"
	"fmt"

	"strategos/internal/generation"
	"strategos/internal/logging"
	"strategos/internal/session"
	"strategos/internal/types"
)

// Phase names reported through the progress callback.
const (
	PhaseDiscovery    = "discovery"
	PhaseIntelligence = "intelligence-gathering"
	PhaseSynthesis    = "synthesis"
	PhaseSaving       = "saving"
)

// Coordinator runs the research pipeline against the generation collaborator
// and saves results through the state machine.
type Coordinator struct {
	gen     types.GenerationClient
	machine *session.StateMachine
}

// NewCoordinator creates a research pipeline coordinator.
func NewCoordinator(gen types.GenerationClient, machine *session.StateMachine) *Coordinator {
	return &Coordinator{gen: gen, machine: machine}
}

// Run executes the full pipeline for the current session. Each phase is
// reported Running before its call and Completed or Failed after. On any
// failure the session's stage rolls back to intent and the failure is
// surfaced; nothing partial is kept.
func (c *Coordinator) Run(ctx context.Context, progress types.ProgressFunc) (types.Document, error) {
	s := c.machine.Session()
	if s == nil {
		return nil, types.ErrNotFound
	}
	if s.Stage != types.StageResearch {
		return nil, &types.IllegalTransitionError{From: s.Stage, To: types.StageResearch}
	}

	logging.Research("Pipeline starting: session=%s", s.ID)

	data, err := c.generatePhases(ctx, s, s.CampaignGoal, progress)
	if err != nil {
		c.rollbackToIntent(ctx)
		return nil, err
	}

	if err := c.save(ctx, data, progress); err != nil {
		c.rollbackToIntent(ctx)
		return nil, err
	}

	logging.Research("Pipeline complete: session=%s", s.ID)
	return data, nil
}

// Refine re-runs the full pipeline with the refinement appended to the
// original goal and replaces the research data only when every phase
// succeeds. The previous research data is never touched before then.
func (c *Coordinator) Refine(ctx context.Context, refinement string, progress types.ProgressFunc) (types.Document, error) {
	s := c.machine.Session()
	if s == nil {
		return nil, types.ErrNotFound
	}
	if s.ResearchData == nil {
		return nil, &types.ValidationError{Field: "research_data", Reason: "nothing to refine"}
	}

	goal := fmt.Sprintf("%s\n\nRefinement from the user: %s", s.CampaignGoal, refinement)
	logging.Research("Refinement starting: session=%s", s.ID)

	data, err := c.generatePhases(ctx, s, goal, progress)
	if err != nil {
		return nil, err
	}
	if err := c.save(ctx, data, progress); err != nil {
		return nil, err
	}

	logging.Research("Refinement complete: session=%s", s.ID)
	return data, nil
}

// generatePhases runs the three collaborator phases in order and returns the
// synthesized research document. It mutates nothing.
func (c *Coordinator) generatePhases(ctx context.Context, s *types.CampaignSession, goal string, progress types.ProgressFunc) (types.Document, error) {
	discovery, err := c.callPhase(ctx, PhaseDiscovery, progress,
		generation.DiscoveryPrompt(goal, s.CampaignType))
	if err != nil {
		return nil, err
	}

	intelligence, err := c.callPhase(ctx, PhaseIntelligence, progress,
		generation.IntelligencePrompt(goal, discovery))
	if err != nil {
		return nil, err
	}

	synthesis, err := c.callPhase(ctx, PhaseSynthesis, progress,
		generation.SynthesisPrompt(goal, discovery, intelligence))
	if err != nil {
		return nil, err
	}

	return synthesis, nil
}

// callPhase performs one collaborator call with progress bracketing.
func (c *Coordinator) callPhase(ctx context.Context, phase string, progress types.ProgressFunc, prompt string) (types.Document, error) {
	report(progress, phase, types.PhaseRunning)

	text, err := c.gen.CompleteWithSystem(ctx, generation.StrategistSystem(), prompt)
	if err != nil {
		report(progress, phase, types.PhaseFailed)
		logging.ResearchError("Phase %s failed: %v", phase, err)
		return nil, &types.CollaboratorError{Phase: phase, Err: err}
	}

	doc, err := generation.ExtractDocument(text)
	if err != nil {
		report(progress, phase, types.PhaseFailed)
		logging.ResearchError("Phase %s returned malformed payload: %v", phase, err)
		return nil, &types.CollaboratorError{Phase: phase, Err: err}
	}

	report(progress, phase, types.PhaseCompleted)
	logging.ResearchDebug("Phase %s complete", phase)
	return doc, nil
}

// save is the fourth phase: persisting the research data through the data
// store collaborator, reported like any other phase.
func (c *Coordinator) save(ctx context.Context, data types.Document, progress types.ProgressFunc) error {
	report(progress, PhaseSaving, types.PhaseRunning)
	if err := c.machine.ReplaceResearchData(ctx, data); err != nil {
		report(progress, PhaseSaving, types.PhaseFailed)
		logging.ResearchError("Saving research data failed: %v", err)
		return &types.CollaboratorError{Phase: PhaseSaving, Err: err}
	}
	report(progress, PhaseSaving, types.PhaseCompleted)
	return nil
}

func (c *Coordinator) rollbackToIntent(ctx context.Context) {
	if err := c.machine.Rollback(ctx, types.StageIntent); err != nil {
		logging.ResearchError("Rollback to intent failed: %v", err)
	}
}

func report(progress types.ProgressFunc, phase string, status types.PhaseStatus) {
	if progress != nil {
		progress(phase, status)
	}
}
