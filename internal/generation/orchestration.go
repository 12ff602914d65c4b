package generation

import (
	"context"

	"strategos/internal/logging"
	"strategos/internal/types"
)

// OrchestrationService begins the out-of-band orchestration phase. The
// collaborator performs the work on its own schedule and signals completion
// only by populating OrchestrationPlan on the persisted session record;
// Begin returns as soon as the work is accepted.
type OrchestrationService interface {
	Begin(ctx context.Context, session *types.CampaignSession, base types.Document) error
}

// StoreBackedOrchestrator runs the orchestration call in the background and
// writes the result straight to the session repository, mimicking the
// collaborator's out-of-band contract. The blueprint coordinator never sees
// the response directly; it observes completion by polling the store.
type StoreBackedOrchestrator struct {
	gen  types.GenerationClient
	repo types.SessionRepository
}

// NewStoreBackedOrchestrator wires the generation client to the repository.
func NewStoreBackedOrchestrator(gen types.GenerationClient, repo types.SessionRepository) *StoreBackedOrchestrator {
	return &StoreBackedOrchestrator{gen: gen, repo: repo}
}

// Begin kicks off orchestration for the session. Errors inside the
// background work are logged, not surfaced: from the caller's point of view
// a failed orchestration is indistinguishable from a slow one, and the
// bounded poll converts it into a timeout.
func (o *StoreBackedOrchestrator) Begin(ctx context.Context, session *types.CampaignSession, base types.Document) error {
	prompt := OrchestrationPrompt(session, base)
	sessionID := session.ID

	// Detach from the caller's context: the orchestration outlives the
	// request that started it. Cancellation of the caller only stops the
	// polling, not the collaborator.
	bg := context.WithoutCancel(ctx)

	go func() {
		logging.Blueprint("Orchestration started out-of-band: session=%s", sessionID)

		text, err := o.gen.CompleteWithSystem(bg, StrategistSystem(), prompt)
		if err != nil {
			logging.BlueprintError("Orchestration generation failed: session=%s: %v", sessionID, err)
			return
		}

		plan, err := ExtractDocument(text)
		if err != nil {
			logging.BlueprintError("Orchestration response unparseable: session=%s: %v", sessionID, err)
			return
		}

		rec, err := o.repo.FetchSession(bg, sessionID)
		if err != nil {
			logging.BlueprintError("Orchestration fetch-back failed: session=%s: %v", sessionID, err)
			return
		}
		rec.OrchestrationPlan = plan
		if err := o.repo.SaveSession(bg, rec); err != nil {
			logging.BlueprintError("Orchestration save failed: session=%s: %v", sessionID, err)
			return
		}
		logging.Blueprint("Orchestration plan persisted: session=%s", sessionID)
	}()

	return nil
}
