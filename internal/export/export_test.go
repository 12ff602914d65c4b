package export

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"strategos/internal/types"
)

func exportFixture() *Document {
	s := &types.CampaignSession{
		ID:           "sess-1",
		OrgID:        "acme",
		Stage:        types.StageExecution,
		CampaignGoal: "Launch our new platform and build credibility",
		CampaignType: types.CampaignTypeMarketing,
		SelectedPositioning: types.Document{
			"id": "opt-1", "headline": "The platform developers trust",
		},
		Blueprint: types.Document{
			"goal_framework": map[string]any{"objective": "credible launch"},
		},
	}
	pieces := []types.ContentPiece{
		{
			ID: "p1", ContentType: "press release", Title: "Funding announcement",
			Phase: "launch", Status: types.PieceCompleted,
			Content: "FOR IMMEDIATE RELEASE...",
		},
		{
			ID: "p2", ContentType: "media pitch", Title: "Exclusive briefing",
			TargetStakeholder: "TechDaily", Status: types.PieceFailed,
			FailureReason: "collaborator unavailable",
		},
	}
	return Build(s, pieces)
}

func TestBuildCarriesSessionFields(t *testing.T) {
	d := exportFixture()

	assert.Equal(t, "sess-1", d.SessionID)
	assert.Equal(t, types.CampaignTypeMarketing, d.CampaignType)
	assert.Len(t, d.Pieces, 2)
	assert.False(t, d.ExportedAt.IsZero())
}

func TestWriteJSONIsParseable(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, exportFixture().WriteJSON(&buf))

	var round map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &round))
	assert.Equal(t, "sess-1", round["session_id"])

	pieces, ok := round["content_pieces"].([]any)
	require.True(t, ok)
	assert.Len(t, pieces, 2)
}

func TestWriteTextContainsEverySection(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, exportFixture().WriteText(&buf))
	out := buf.String()

	assert.Contains(t, out, "CAMPAIGN PLAN")
	assert.Contains(t, out, "Launch our new platform")
	assert.Contains(t, out, "BLUEPRINT")
	assert.Contains(t, out, "credible launch")

	assert.Contains(t, out, "[PRESS RELEASE] Funding announcement")
	assert.Contains(t, out, "FOR IMMEDIATE RELEASE...")
	assert.Contains(t, out, "[MEDIA PITCH] Exclusive briefing")
	assert.Contains(t, out, "Target: TechDaily")
	assert.Contains(t, out, "(not generated)", "failed pieces still appear")

	// One delimiter block per piece plus the header.
	assert.GreaterOrEqual(t, strings.Count(out, sectionDelimiter), 4)
}

func TestWriteTextWithoutBlueprint(t *testing.T) {
	d := exportFixture()
	d.Blueprint = nil

	var buf bytes.Buffer
	require.NoError(t, d.WriteText(&buf))
	assert.NotContains(t, buf.String(), "BLUEPRINT")
}
