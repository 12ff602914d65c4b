package generation

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"strategos/internal/types"
)

type fakeGen struct {
	response string
	err      error
}

func (g *fakeGen) Complete(ctx context.Context, prompt string) (string, error) {
	return g.response, g.err
}

func (g *fakeGen) CompleteWithSystem(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	return g.response, g.err
}

type oneSessionRepo struct {
	mu  sync.Mutex
	rec *types.CampaignSession
}

func (r *oneSessionRepo) CreateSession(ctx context.Context, s *types.CampaignSession) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rec = s.Clone()
	return nil
}

func (r *oneSessionRepo) FetchSession(ctx context.Context, sessionID string) (*types.CampaignSession, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.rec == nil || r.rec.ID != sessionID {
		return nil, types.ErrNotFound
	}
	return r.rec.Clone(), nil
}

func (r *oneSessionRepo) SaveSession(ctx context.Context, s *types.CampaignSession) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rec = s.Clone()
	return nil
}

func (r *oneSessionRepo) ListSessions(ctx context.Context, orgID string) ([]*types.CampaignSession, error) {
	return nil, nil
}

func (r *oneSessionRepo) plan() types.Document {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.rec == nil {
		return nil
	}
	return r.rec.OrchestrationPlan
}

func orchSession() *types.CampaignSession {
	return &types.CampaignSession{
		ID:           "sess-1",
		OrgID:        "acme",
		CampaignGoal: "Launch our new platform and build credibility",
	}
}

func TestBeginWritesPlanToStore(t *testing.T) {
	repo := &oneSessionRepo{}
	s := orchSession()
	require.NoError(t, repo.CreateSession(context.Background(), s))

	gen := &fakeGen{response: `{"stakeholder_strategies": [{"stakeholder": "press"}]}`}
	o := NewStoreBackedOrchestrator(gen, repo)

	require.NoError(t, o.Begin(context.Background(), s, types.Document{"goal_framework": map[string]any{}}))

	require.Eventually(t, func() bool {
		return repo.plan() != nil
	}, 2*time.Second, 5*time.Millisecond, "plan must appear on the persisted record")

	plan := repo.plan()
	strategies, ok := plan["stakeholder_strategies"].([]any)
	require.True(t, ok)
	assert.Len(t, strategies, 1)
}

func TestBeginSurvivesCallerCancellation(t *testing.T) {
	repo := &oneSessionRepo{}
	s := orchSession()
	require.NoError(t, repo.CreateSession(context.Background(), s))

	gen := &fakeGen{response: `{"stakeholder_strategies": []}`}
	o := NewStoreBackedOrchestrator(gen, repo)

	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, o.Begin(ctx, s, nil))
	cancel() // the background work is detached from the caller

	require.Eventually(t, func() bool {
		return repo.plan() != nil
	}, 2*time.Second, 5*time.Millisecond)
}

func TestBeginFailureLeavesRecordUntouched(t *testing.T) {
	repo := &oneSessionRepo{}
	s := orchSession()
	require.NoError(t, repo.CreateSession(context.Background(), s))

	gen := &fakeGen{err: errors.New("collaborator unavailable")}
	o := NewStoreBackedOrchestrator(gen, repo)

	// Begin still succeeds: failure is only observable as a poll timeout.
	require.NoError(t, o.Begin(context.Background(), s, nil))

	time.Sleep(50 * time.Millisecond)
	assert.Nil(t, repo.plan())
}
