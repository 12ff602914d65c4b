package types

import (
	"context"
)

// GenerationClient defines the interface to the text-generation collaborator.
// Calls range from ~1s to minutes; every implementation must honor context
// cancellation.
type GenerationClient interface {
	Complete(ctx context.Context, prompt string) (string, error)
	CompleteWithSystem(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// SessionRepository reads and writes full session records through the
// collaborator data store. It owns no business logic; tenant checks live in
// the state machine.
type SessionRepository interface {
	CreateSession(ctx context.Context, session *CampaignSession) error
	FetchSession(ctx context.Context, sessionID string) (*CampaignSession, error)
	SaveSession(ctx context.Context, session *CampaignSession) error
	ListSessions(ctx context.Context, orgID string) ([]*CampaignSession, error)
}

// PointerStore is the client-local, tenant-scoped key -> sessionID mapping
// that survives restarts. One key per tenant, never a global key: the
// per-tenant namespace is the isolation mechanism.
type PointerStore interface {
	GetPointer(orgID string) (sessionID string, ok bool, err error)
	SetPointer(orgID, sessionID string) error
	ClearPointer(orgID string) error
}
