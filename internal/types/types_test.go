package types

import (
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStageOrderIsTotal(t *testing.T) {
	order := []Stage{StageIntent, StageResearch, StagePositioning, StageApproach, StageBlueprint, StageExecution}
	for i := 0; i < len(order)-1; i++ {
		assert.True(t, order[i].Before(order[i+1]), "%s < %s", order[i], order[i+1])
		assert.Equal(t, order[i+1], order[i].Next())
	}
	assert.Equal(t, Stage(""), StageExecution.Next(), "execution is terminal")
	assert.False(t, Stage("/bogus").Valid())
}

func TestRequiresOrchestration(t *testing.T) {
	s := &CampaignSession{}
	assert.False(t, s.RequiresOrchestration())

	s.SelectedApproach = Document{"coordination": "single_track"}
	assert.False(t, s.RequiresOrchestration())

	s.SelectedApproach = Document{"coordination": "multi_stakeholder"}
	assert.True(t, s.RequiresOrchestration())
}

func TestCloneIsDeep(t *testing.T) {
	s := &CampaignSession{
		ID:           "sess-1",
		OrgID:        "acme",
		Stage:        StagePositioning,
		CampaignGoal: "Launch our new platform and build credibility",
		ResearchData: Document{"segments": []any{"press"}},
		CreatedAt:    time.Now().UTC().Truncate(time.Second),
	}
	s.AppendHistory(EntryStageChange, "created")

	clone := s.Clone()
	require.NotNil(t, clone)
	if diff := cmp.Diff(s, clone); diff != "" {
		t.Fatalf("clone differs (-orig +clone):\n%s", diff)
	}

	clone.ResearchData["segments"] = []any{"mutated"}
	assert.Equal(t, []any{"press"}, s.ResearchData["segments"].([]any))
}

func TestPayloadFor(t *testing.T) {
	s := &CampaignSession{
		ResearchData:        Document{"r": 1},
		SelectedPositioning: Document{"p": 1},
		SelectedApproach:    Document{"a": 1},
		Blueprint:           Document{"b": 1},
	}
	assert.Equal(t, s.ResearchData, s.PayloadFor(StageResearch))
	assert.Equal(t, s.SelectedPositioning, s.PayloadFor(StagePositioning))
	assert.Equal(t, s.SelectedApproach, s.PayloadFor(StageApproach))
	assert.Equal(t, s.Blueprint, s.PayloadFor(StageBlueprint))
	assert.Nil(t, s.PayloadFor(StageIntent))
	assert.Nil(t, s.PayloadFor(StageExecution))
}

func TestCollaboratorErrorUnwraps(t *testing.T) {
	cause := errors.New("boom")
	err := &CollaboratorError{Phase: "synthesis", Err: cause}
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "synthesis")
}

func TestOrchestrationTimeoutErrorMessage(t *testing.T) {
	err := &OrchestrationTimeoutError{Attempts: 120, Interval: 2 * time.Second}
	assert.Contains(t, err.Error(), "120")
}
