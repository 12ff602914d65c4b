// Package positioning produces the decision payloads between research and
// blueprint generation: positioning options for the user to choose between,
// and strategic approach proposals for the selected positioning.
package positioning

import (
	"context"

	"strategos/internal/generation"
	"strategos/internal/logging"
	"strategos/internal/session"
	"strategos/internal/types"
)

// Coordinator generates positioning and approach options.
type Coordinator struct {
	gen     types.GenerationClient
	machine *session.StateMachine
}

// NewCoordinator creates a positioning coordinator.
func NewCoordinator(gen types.GenerationClient, machine *session.StateMachine) *Coordinator {
	return &Coordinator{gen: gen, machine: machine}
}

// GenerateOptions asks the collaborator for positioning options based on the
// research data and stores them on the session.
func (c *Coordinator) GenerateOptions(ctx context.Context) (types.Document, error) {
	s := c.machine.Session()
	if s == nil {
		return nil, types.ErrNotFound
	}
	if s.ResearchData == nil {
		return nil, &types.ValidationError{Field: "research_data", Reason: "required before positioning"}
	}

	text, err := c.gen.CompleteWithSystem(ctx, generation.StrategistSystem(),
		generation.PositioningPrompt(s.CampaignGoal, s.ResearchData))
	if err != nil {
		return nil, &types.CollaboratorError{Phase: "positioning-options", Err: err}
	}
	options, err := generation.ExtractDocument(text)
	if err != nil {
		return nil, &types.CollaboratorError{Phase: "positioning-options", Err: err}
	}

	if err := c.machine.SetPositioningOptions(ctx, options); err != nil {
		return nil, err
	}
	logging.Session("Positioning options generated: session=%s", s.ID)
	return options, nil
}

// ProposeApproaches asks the collaborator for strategic approaches for the
// selected positioning. The result is returned for display; the user's
// choice enters the session through the state machine's advance call.
func (c *Coordinator) ProposeApproaches(ctx context.Context) (types.Document, error) {
	s := c.machine.Session()
	if s == nil {
		return nil, types.ErrNotFound
	}
	if s.SelectedPositioning == nil {
		return nil, &types.ValidationError{Field: "selected_positioning", Reason: "required before approach selection"}
	}

	text, err := c.gen.CompleteWithSystem(ctx, generation.StrategistSystem(),
		generation.ApproachPrompt(s.CampaignGoal, s.SelectedPositioning))
	if err != nil {
		return nil, &types.CollaboratorError{Phase: "approach-options", Err: err}
	}
	approaches, err := generation.ExtractDocument(text)
	if err != nil {
		return nil, &types.CollaboratorError{Phase: "approach-options", Err: err}
	}
	return approaches, nil
}
