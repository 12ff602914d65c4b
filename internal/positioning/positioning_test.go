package positioning

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"strategos/internal/session"
	"strategos/internal/store"
	"strategos/internal/types"
)

const testGoal = "Launch our new platform and build credibility"

type scriptedGen struct {
	mu       sync.Mutex
	calls    int
	response string
	err      error
	prompts  []string
}

func (g *scriptedGen) CompleteWithSystem(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls++
	g.prompts = append(g.prompts, userPrompt)
	return g.response, g.err
}

func (g *scriptedGen) Complete(ctx context.Context, prompt string) (string, error) {
	return g.CompleteWithSystem(ctx, "", prompt)
}

func newTestCoordinator(t *testing.T, gen *scriptedGen) (*Coordinator, *session.StateMachine) {
	t.Helper()
	st, err := store.NewLocalStore(filepath.Join(t.TempDir(), "sessions.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	machine := session.NewStateMachine(st, st)
	_, err = machine.Create(context.Background(), "acme", testGoal, "")
	require.NoError(t, err)
	return NewCoordinator(gen, machine), machine
}

func TestGenerateOptionsRequiresResearch(t *testing.T) {
	gen := &scriptedGen{}
	c, _ := newTestCoordinator(t, gen)

	_, err := c.GenerateOptions(context.Background())

	var verr *types.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Zero(t, gen.calls)
}

func TestGenerateOptionsStoresResult(t *testing.T) {
	gen := &scriptedGen{response: `{"options": [{"id": "opt-1", "headline": "Trusted"}]}`}
	c, machine := newTestCoordinator(t, gen)
	_, err := machine.Advance(context.Background(), types.StagePositioning, types.Document{"summary": "x"})
	require.NoError(t, err)

	options, err := c.GenerateOptions(context.Background())
	require.NoError(t, err)

	assert.Equal(t, options, machine.Session().PositioningOptions)
	assert.Contains(t, gen.prompts[0], `"summary":"x"`, "research data feeds the prompt")
}

func TestGenerateOptionsWrapsFailures(t *testing.T) {
	gen := &scriptedGen{err: errors.New("boom")}
	c, machine := newTestCoordinator(t, gen)
	_, err := machine.Advance(context.Background(), types.StagePositioning, types.Document{"summary": "x"})
	require.NoError(t, err)

	_, err = c.GenerateOptions(context.Background())

	var cerr *types.CollaboratorError
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, "positioning-options", cerr.Phase)
	assert.Nil(t, machine.Session().PositioningOptions)
}

func TestProposeApproachesRequiresPositioning(t *testing.T) {
	gen := &scriptedGen{}
	c, _ := newTestCoordinator(t, gen)

	_, err := c.ProposeApproaches(context.Background())

	var verr *types.ValidationError
	require.ErrorAs(t, err, &verr)
}

func TestProposeApproachesDoesNotPersist(t *testing.T) {
	gen := &scriptedGen{response: `{"approaches": [{"id": "a1", "coordination": "single_track"}]}`}
	c, machine := newTestCoordinator(t, gen)
	ctx := context.Background()
	_, err := machine.Advance(ctx, types.StagePositioning, types.Document{"summary": "x"})
	require.NoError(t, err)
	_, err = machine.Advance(ctx, types.StageApproach, types.Document{"id": "opt-1"})
	require.NoError(t, err)

	approaches, err := c.ProposeApproaches(ctx)
	require.NoError(t, err)
	require.NotNil(t, approaches)

	// Proposals are display-only; the chosen approach arrives via Advance.
	assert.Nil(t, machine.Session().SelectedApproach["approaches"])
	assert.Equal(t, "opt-1", machine.Session().SelectedPositioning["id"])
}
