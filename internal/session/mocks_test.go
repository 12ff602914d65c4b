package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"strategos/internal/types"
)

// memRepo is an in-memory SessionRepository with injectable failures.
type memRepo struct {
	mu      sync.Mutex
	records map[string]*types.CampaignSession
	nextID  int

	saveErr error
	saves   int
	fetches int
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
	return rec.Clone(), nil
}

func (r *memRepo) SaveSession(ctx context.Context, s *types.CampaignSession) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.saves++
	if r.saveErr != nil {
		return r.saveErr
	}
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

// stored returns the persisted record, bypassing the machine.
func (r *memRepo) stored(sessionID string) *types.CampaignSession {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.records[sessionID]
	if !ok {
		return nil
	}
	return rec.Clone()
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
