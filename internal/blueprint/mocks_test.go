package blueprint

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"strategos/internal/types"
)

// memRepo is an in-memory SessionRepository that can surface an
// orchestration plan after a set number of fetches, standing in for the
// collaborator's out-of-band write.
type memRepo struct {
	mu      sync.Mutex
	records map[string]*types.CampaignSession
	nextID  int
	fetches int

	// deliverPlanAfter, when > 0, injects plan into the record once fetches
	// reaches it.
	deliverPlanAfter int
	plan             types.Document
}

func newMemRepo() *memRepo {
	return &memRepo{records: map[string]*types.CampaignSession{}}
}

func (r *memRepo) CreateSession(ctx context.Context, s *types.CampaignSession) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	s.ID = fmt.Sprintf("sess-%d", r.nextID)
	s.CreatedAt = time.Now().UTC()
	s.UpdatedAt = s.CreatedAt
	r.records[s.ID] = s.Clone()
	return nil
}

func (r *memRepo) FetchSession(ctx context.Context, sessionID string) (*types.CampaignSession, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fetches++
	rec, ok := r.records[sessionID]
	if !ok {
		return nil, types.ErrNotFound
	}
	if r.deliverPlanAfter > 0 && r.fetches >= r.deliverPlanAfter {
		rec.OrchestrationPlan = r.plan
	}
	return rec.Clone(), nil
}

func (r *memRepo) SaveSession(ctx context.Context, s *types.CampaignSession) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.records[s.ID]; !ok {
		return types.ErrNotFound
	}
	s.UpdatedAt = time.Now().UTC()
	r.records[s.ID] = s.Clone()
	return nil
}

func (r *memRepo) ListSessions(ctx context.Context, orgID string) ([]*types.CampaignSession, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*types.CampaignSession
	for _, rec := range r.records {
		if rec.OrgID == orgID {
			out = append(out, rec.Clone())
		}
	}
	return out, nil
}

func (r *memRepo) fetchCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.fetches
}

// memPointers is an in-memory PointerStore.
type memPointers struct {
	mu       sync.Mutex
	pointers map[string]string
}

func newMemPointers() *memPointers {
	return &memPointers{pointers: map[string]string{}}
}

func (p *memPointers) GetPointer(orgID string) (string, bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	id, ok := p.pointers[orgID]
	return id, ok, nil
}

func (p *memPointers) SetPointer(orgID, sessionID string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.pointers[orgID] = sessionID
	return nil
}

func (p *memPointers) ClearPointer(orgID string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.pointers, orgID)
	return nil
}

// scriptedGen returns canned JSON payloads in call order.
type scriptedGen struct {
	mu      sync.Mutex
	calls   int
	failAt  int
	prompts []string
}

func (g *scriptedGen) CompleteWithSystem(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls++
	g.prompts = append(g.prompts, userPrompt)
	if g.failAt != 0 && g.calls == g.failAt {
		return "", errors.New("collaborator unavailable")
	}
	return fmt.Sprintf(`{"call": %d}`, g.calls), nil
}

func (g *scriptedGen) Complete(ctx context.Context, prompt string) (string, error) {
	return g.CompleteWithSystem(ctx, "", prompt)
}

func (g *scriptedGen) callCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.calls
}

// mockOrch records Begin calls without spawning anything.
type mockOrch struct {
	mu       sync.Mutex
	begun    int
	beginErr error
}

func (o *mockOrch) Begin(ctx context.Context, s *types.CampaignSession, base types.Document) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.begun++
	return o.beginErr
}
