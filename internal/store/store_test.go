package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"strategos/internal/types"
)

func newTestStore(t *testing.T) *LocalStore {
	t.Helper()
	st, err := NewLocalStore(filepath.Join(t.TempDir(), "sessions.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	return st
}

func testSession(org string) *types.CampaignSession {
	return &types.CampaignSession{
		OrgID:        org,
		Stage:        types.StageIntent,
		CampaignGoal: "Launch our new platform and build credibility",
		CampaignType: types.CampaignTypeMarketing,
	}
}

func TestCreateAssignsIdentity(t *testing.T) {
	st := newTestStore(t)

	s := testSession("acme")
	require.NoError(t, st.CreateSession(context.Background(), s))

	assert.NotEmpty(t, s.ID)
	assert.False(t, s.CreatedAt.IsZero())
	assert.False(t, s.UpdatedAt.IsZero())
}

func TestFetchRoundTrip(t *testing.T) {
	st := newTestStore(t)

	s := testSession("acme")
	s.ResearchData = types.Document{"summary": "landscape", "stakeholders": []any{"press", "investors"}}
	s.OrchestrationPlan = types.Document{"sequencing": []any{"owned first"}}
	s.AppendHistory(types.EntryStageChange, "session created")
	require.NoError(t, st.CreateSession(context.Background(), s))

	got, err := st.FetchSession(context.Background(), s.ID)
	require.NoError(t, err)

	assert.Equal(t, s.OrgID, got.OrgID)
	assert.Equal(t, s.CampaignGoal, got.CampaignGoal)
	if diff := cmp.Diff(s.ResearchData, got.ResearchData); diff != "" {
		t.Errorf("research data mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(s.OrchestrationPlan, got.OrchestrationPlan); diff != "" {
		t.Errorf("orchestration plan mismatch (-want +got):\n%s", diff)
	}
	require.Len(t, got.ConversationHistory, 1)
	assert.Equal(t, types.EntryStageChange, got.ConversationHistory[0].Kind)
}

func TestFetchUnknownSession(t *testing.T) {
	st := newTestStore(t)
	_, err := st.FetchSession(context.Background(), "missing")
	require.ErrorIs(t, err, types.ErrNotFound)
}

func TestSavePersistsFullRecord(t *testing.T) {
	st := newTestStore(t)

	s := testSession("acme")
	require.NoError(t, st.CreateSession(context.Background(), s))

	s.Stage = types.StagePositioning
	s.ResearchData = types.Document{"summary": "updated"}
	s.SelectedPositioning = types.Document{"id": "opt-1"}
	require.NoError(t, st.SaveSession(context.Background(), s))

	got, err := st.FetchSession(context.Background(), s.ID)
	require.NoError(t, err)
	assert.Equal(t, types.StagePositioning, got.Stage)
	assert.Equal(t, "updated", got.ResearchData["summary"])
	assert.Equal(t, "opt-1", got.SelectedPositioning["id"])
}

func TestSaveUnknownSession(t *testing.T) {
	st := newTestStore(t)
	s := testSession("acme")
	s.ID = "never-created"
	require.ErrorIs(t, st.SaveSession(context.Background(), s), types.ErrNotFound)
}

func TestListSessionsScopedToOrg(t *testing.T) {
	st := newTestStore(t)

	a1 := testSession("org-a")
	require.NoError(t, st.CreateSession(context.Background(), a1))
	a2 := testSession("org-a")
	require.NoError(t, st.CreateSession(context.Background(), a2))
	b := testSession("org-b")
	require.NoError(t, st.CreateSession(context.Background(), b))

	sessions, err := st.ListSessions(context.Background(), "org-a")
	require.NoError(t, err)
	require.Len(t, sessions, 2)
	for _, s := range sessions {
		assert.Equal(t, "org-a", s.OrgID)
	}
}

func TestReopenKeepsData(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sessions.db")

	st, err := NewLocalStore(path)
	require.NoError(t, err)
	s := testSession("acme")
	require.NoError(t, st.CreateSession(context.Background(), s))
	require.NoError(t, st.Close())

	// Reopening runs migrations again; they must be idempotent.
	st2, err := NewLocalStore(path)
	require.NoError(t, err)
	defer st2.Close()

	got, err := st2.FetchSession(context.Background(), s.ID)
	require.NoError(t, err)
	assert.Equal(t, s.CampaignGoal, got.CampaignGoal)
}

// =============================================================================
// POINTERS
// =============================================================================

func TestPointerLifecycle(t *testing.T) {
	st := newTestStore(t)

	_, ok, err := st.GetPointer("acme")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, st.SetPointer("acme", "sess-1"))
	id, ok, err := st.GetPointer("acme")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "sess-1", id)

	// Upsert replaces.
	require.NoError(t, st.SetPointer("acme", "sess-2"))
	id, _, _ = st.GetPointer("acme")
	assert.Equal(t, "sess-2", id)

	require.NoError(t, st.ClearPointer("acme"))
	_, ok, err = st.GetPointer("acme")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestPointersAreTenantScoped(t *testing.T) {
	st := newTestStore(t)

	require.NoError(t, st.SetPointer("org-a", "sess-a"))
	require.NoError(t, st.SetPointer("org-b", "sess-b"))
	require.NoError(t, st.ClearPointer("org-a"))

	_, ok, _ := st.GetPointer("org-a")
	assert.False(t, ok)
	id, ok, _ := st.GetPointer("org-b")
	require.True(t, ok)
	assert.Equal(t, "sess-b", id)
}
