// Package blueprint assembles campaign blueprints. Two structurally
// different paths exist, selected by the approach the user confirmed: a
// single synchronous generation call, or a four-phase orchestrated path
// whose second phase completes out-of-band and is observable only by
// polling the persisted session record. An augmented variant prepends an
// intelligence-gathering call whose output is threaded into the base and
// merge phases only; the coordination protocol itself never changes.
package blueprint

import (
	"context"
	"time"

	"strategos/internal/generation"
	"strategos/internal/logging"
	"strategos/internal/session"
	"strategos/internal/types"
)

// Phase names reported through the progress callback.
const (
	PhaseIntelligence  = "intelligence-gathering"
	PhaseGeneration    = "generation" // simple path's single phase
	PhaseBase          = "base"
	PhaseOrchestration = "orchestration"
	PhaseExecutionReqs = "execution-requirements"
	PhaseMerging       = "merging"
)

// Config bounds the orchestration poll.
type Config struct {
	PollInterval    time.Duration
	MaxPollAttempts int
}

// DefaultConfig matches the collaborator's worst observed orchestration
// latency: 120 polls at 2s is about four minutes.
func DefaultConfig() Config {
	return Config{
		PollInterval:    2 * time.Second,
		MaxPollAttempts: 120,
	}
}

// Coordinator drives blueprint generation for the current session.
type Coordinator struct {
	gen     types.GenerationClient
	repo    types.SessionRepository
	orch    generation.OrchestrationService
	machine *session.StateMachine
	cfg     Config
}

// NewCoordinator creates a blueprint coordinator.
func NewCoordinator(gen types.GenerationClient, repo types.SessionRepository, orch generation.OrchestrationService, machine *session.StateMachine, cfg Config) *Coordinator {
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = DefaultConfig().PollInterval
	}
	if cfg.MaxPollAttempts <= 0 {
		cfg.MaxPollAttempts = DefaultConfig().MaxPollAttempts
	}
	return &Coordinator{gen: gen, repo: repo, orch: orch, machine: machine, cfg: cfg}
}

// Run generates the blueprint for the current session and persists it on
// success. Any phase failure aborts the remainder, reverts the stage to
// approach (the last user-confirmed decision point), and persists nothing
// partial. Cancellation leaves the stage exactly where it was.
func (c *Coordinator) Run(ctx context.Context, progress types.ProgressFunc) (types.Document, error) {
	s := c.machine.Session()
	if s == nil {
		return nil, types.ErrNotFound
	}
	if s.Stage != types.StageBlueprint {
		return nil, &types.IllegalTransitionError{From: s.Stage, To: types.StageBlueprint}
	}
	if s.SelectedApproach == nil {
		return nil, &types.ValidationError{Field: "selected_approach", Reason: "required before blueprint generation"}
	}

	var (
		doc types.Document
		err error
	)
	if s.RequiresOrchestration() {
		logging.Blueprint("Orchestrated path: session=%s augmented=%v", s.ID, s.IntelligenceAugmented())
		doc, err = c.runOrchestrated(ctx, s, progress)
	} else {
		logging.Blueprint("Simple path: session=%s", s.ID)
		doc, err = c.runSimple(ctx, s, progress)
	}

	if err != nil {
		if ctx.Err() != nil {
			// User navigated away: no rollback, no partial persistence.
			logging.Blueprint("Generation cancelled: session=%s", s.ID)
			return nil, err
		}
		c.rollbackToApproach(ctx)
		return nil, err
	}

	if err := c.machine.SetBlueprint(ctx, doc); err != nil {
		c.rollbackToApproach(ctx)
		return nil, &types.CollaboratorError{Phase: PhaseMerging, Err: err}
	}

	logging.Blueprint("Blueprint persisted: session=%s", s.ID)
	return doc, nil
}

// runSimple is the single-call path for approaches without multi-stakeholder
// coordination.
func (c *Coordinator) runSimple(ctx context.Context, s *types.CampaignSession, progress types.ProgressFunc) (types.Document, error) {
	return c.callPhase(ctx, PhaseGeneration, progress, generation.SimpleBlueprintPrompt(s))
}

// runOrchestrated is the four-phase path. Phase 3 never starts before phase
// 2's completion is observed via the poll, not merely requested.
func (c *Coordinator) runOrchestrated(ctx context.Context, s *types.CampaignSession, progress types.ProgressFunc) (types.Document, error) {
	var intelligence types.Document
	if s.IntelligenceAugmented() {
		var err error
		intelligence, err = c.callPhase(ctx, PhaseIntelligence, progress,
			generation.BlueprintIntelligencePrompt(s))
		if err != nil {
			return nil, err
		}
	}

	// Reset the completion signal so a stale plan from an earlier attempt
	// cannot satisfy this run's poll.
	if err := c.machine.ClearOrchestrationPlan(ctx); err != nil {
		return nil, &types.CollaboratorError{Phase: PhaseBase, Err: err}
	}

	base, err := c.callPhase(ctx, PhaseBase, progress,
		generation.BaseBlueprintPrompt(s, intelligence))
	if err != nil {
		return nil, err
	}

	report(progress, PhaseOrchestration, types.PhaseRunning)
	if err := c.orch.Begin(ctx, s, base); err != nil {
		report(progress, PhaseOrchestration, types.PhaseFailed)
		return nil, &types.CollaboratorError{Phase: PhaseOrchestration, Err: err}
	}

	plan, err := c.awaitOrchestration(ctx, s.ID)
	if err != nil {
		report(progress, PhaseOrchestration, types.PhaseFailed)
		return nil, err
	}
	c.machine.AdoptOrchestrationPlan(plan)
	report(progress, PhaseOrchestration, types.PhaseCompleted)

	requirements, err := c.callPhase(ctx, PhaseExecutionReqs, progress,
		generation.ExecutionRequirementsPrompt(s, base, plan))
	if err != nil {
		return nil, err
	}

	return c.callPhase(ctx, PhaseMerging, progress,
		generation.MergePrompt(s, base, plan, requirements, intelligence))
}

// awaitOrchestration polls the persisted session record at a fixed interval
// until the orchestration plan appears, the context is cancelled, or the
// attempt budget is exhausted. Cancellation is honored at poll boundaries,
// never mid-fetch.
func (c *Coordinator) awaitOrchestration(ctx context.Context, sessionID string) (types.Document, error) {
	ticker := time.NewTicker(c.cfg.PollInterval)
	defer ticker.Stop()

	for attempt := 1; attempt <= c.cfg.MaxPollAttempts; attempt++ {
		select {
		case <-ctx.Done():
			logging.Blueprint("Orchestration poll cancelled after %d attempts: session=%s", attempt-1, sessionID)
			return nil, ctx.Err()
		case <-ticker.C:
			record, err := c.repo.FetchSession(ctx, sessionID)
			if err != nil {
				// Transient fetch errors burn an attempt but do not abort:
				// the collaborator may still complete within the budget.
				logging.BlueprintDebug("Poll %d fetch error: %v", attempt, err)
				continue
			}
			if record.OrchestrationPlan != nil {
				logging.Blueprint("Orchestration observed complete after %d polls: session=%s", attempt, sessionID)
				return record.OrchestrationPlan, nil
			}
			logging.BlueprintDebug("Poll %d/%d: orchestration pending", attempt, c.cfg.MaxPollAttempts)
		}
	}

	logging.BlueprintError("Orchestration timed out: session=%s attempts=%d", sessionID, c.cfg.MaxPollAttempts)
	return nil, &types.OrchestrationTimeoutError{
		Attempts: c.cfg.MaxPollAttempts,
		Interval: c.cfg.PollInterval,
	}
}

func (c *Coordinator) callPhase(ctx context.Context, phase string, progress types.ProgressFunc, prompt string) (types.Document, error) {
	report(progress, phase, types.PhaseRunning)

	text, err := c.gen.CompleteWithSystem(ctx, generation.StrategistSystem(), prompt)
	if err != nil {
		report(progress, phase, types.PhaseFailed)
		logging.BlueprintError("Phase %s failed: %v", phase, err)
		return nil, &types.CollaboratorError{Phase: phase, Err: err}
	}

	doc, err := generation.ExtractDocument(text)
	if err != nil {
		report(progress, phase, types.PhaseFailed)
		logging.BlueprintError("Phase %s returned malformed payload: %v", phase, err)
		return nil, &types.CollaboratorError{Phase: phase, Err: err}
	}

	report(progress, phase, types.PhaseCompleted)
	return doc, nil
}

func (c *Coordinator) rollbackToApproach(ctx context.Context) {
	if err := c.machine.Rollback(ctx, types.StageApproach); err != nil {
		logging.BlueprintError("Rollback to approach failed: %v", err)
	}
}

func report(progress types.ProgressFunc, phase string, status types.PhaseStatus) {
	if progress != nil {
		progress(phase, status)
	}
}
