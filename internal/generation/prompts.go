package generation

import (
	"fmt"
	"strings"

	"strategos/internal/types"
)

// =============================================================================
// PHASE PROMPTS
// =============================================================================
// Each builder returns the full prompt for one collaborator call. Prompts
// always demand a bare JSON object so ExtractDocument can parse the reply.

const jsonOnly = "Respond with a single JSON object and nothing else. No markdown fences, no commentary."

const strategistSystem = `You are a senior communications strategist. You design
multi-stage marketing and crisis campaign plans. You are precise, concrete,
and you always answer in the exact JSON structure requested.`

// StrategistSystem returns the shared system instruction for planning calls.
func StrategistSystem() string { return strategistSystem }

// DiscoveryPrompt opens the research pipeline: landscape and audience scan.
func DiscoveryPrompt(goal string, campaignType types.CampaignType) string {
	return fmt.Sprintf(`Campaign goal: %s
Campaign type: %s

Phase 1 of research: discovery. Map the landscape for this campaign.
Return JSON with keys:
  "industry_context": string,
  "audience_segments": [{"name": string, "channels": [string], "concerns": [string]}],
  "competitive_landscape": [string],
  "risks": [string]

%s`, goal, campaignTypeLabel(campaignType), jsonOnly)
}

// IntelligencePrompt deepens discovery with stakeholder and narrative intel.
func IntelligencePrompt(goal string, discovery types.Document) string {
	return fmt.Sprintf(`Campaign goal: %s
Discovery findings: %s

Phase 2 of research: intelligence gathering. Identify the stakeholders,
narratives, and proof points this campaign must work with.
Return JSON with keys:
  "stakeholders": [{"name": string, "influence": string, "disposition": string}],
  "active_narratives": [string],
  "proof_points": [string],
  "information_gaps": [string]

%s`, goal, CompactJSON(discovery), jsonOnly)
}

// SynthesisPrompt merges discovery and intelligence into the research data
// document that downstream stages consume.
func SynthesisPrompt(goal string, discovery, intelligence types.Document) string {
	return fmt.Sprintf(`Campaign goal: %s
Discovery: %s
Intelligence: %s

Phase 3 of research: synthesis. Merge the findings into a single research
summary for campaign planning.
Return JSON with keys:
  "summary": string,
  "key_insights": [string],
  "audience_segments": [...as discovered],
  "stakeholders": [...as gathered],
  "recommended_emphasis": [string]

%s`, goal, CompactJSON(discovery), CompactJSON(intelligence), jsonOnly)
}

// PositioningPrompt produces the positioning options for the user to choose
// between once research completes.
func PositioningPrompt(goal string, research types.Document) string {
	return fmt.Sprintf(`Campaign goal: %s
Research data: %s

Generate three distinct positioning options for this campaign.
Return JSON with key "options": a list of
  {"id": string, "headline": string, "narrative": string,
   "tone": string, "differentiators": [string]}

%s`, goal, CompactJSON(research), jsonOnly)
}

// ApproachPrompt proposes strategic approaches for the selected positioning.
func ApproachPrompt(goal string, positioning types.Document) string {
	return fmt.Sprintf(`Campaign goal: %s
Selected positioning: %s

Propose two strategic approaches: one single-track approach and one
multi-stakeholder approach.
Return JSON with key "approaches": a list of
  {"id": string, "name": string, "coordination": "single_track"|"multi_stakeholder",
   "summary": string, "tradeoffs": [string]}

%s`, goal, CompactJSON(positioning), jsonOnly)
}

// SimpleBlueprintPrompt produces a complete blueprint in one call, used when
// the approach needs no multi-stakeholder orchestration.
func SimpleBlueprintPrompt(s *types.CampaignSession) string {
	return fmt.Sprintf(`Campaign goal: %s
Positioning: %s
Approach: %s
Research data: %s

Produce a complete campaign blueprint.
Return JSON with keys:
  "goal_framework": {"objective": string, "success_metrics": [string]},
  "phases": [{"name": string, "timeline": string,
    "owned_actions": [item], "partner_activations": [item],
    "narrative_content": [item], "media_engagement": [item]}]
where item is {"title": string, "description": string, "content_type": string}.

%s`, s.CampaignGoal, CompactJSON(s.SelectedPositioning),
		CompactJSON(s.SelectedApproach), CompactJSON(s.ResearchData), jsonOnly)
}

// BaseBlueprintPrompt starts the orchestrated path: goal framework plus
// stakeholder map. Intelligence context is threaded in only for augmented
// campaigns.
func BaseBlueprintPrompt(s *types.CampaignSession, intelligence types.Document) string {
	var b strings.Builder
	fmt.Fprintf(&b, `Campaign goal: %s
Positioning: %s
Approach: %s
Research data: %s
`, s.CampaignGoal, CompactJSON(s.SelectedPositioning),
		CompactJSON(s.SelectedApproach), CompactJSON(s.ResearchData))

	if intelligence != nil {
		fmt.Fprintf(&b, "Additional intelligence context: %s\n", CompactJSON(intelligence))
	}

	fmt.Fprintf(&b, `
Produce the base of a multi-stakeholder campaign blueprint.
Return JSON with keys:
  "goal_framework": {"objective": string, "success_metrics": [string]},
  "stakeholder_map": [{"name": string, "role": string, "influence": string}]

%s`, jsonOnly)
	return b.String()
}

// OrchestrationPrompt is the long-running out-of-band phase: per-stakeholder
// influence strategies. The collaborator writes the result onto the persisted
// session; the caller only sees an acknowledgement.
func OrchestrationPrompt(s *types.CampaignSession, base types.Document) string {
	return fmt.Sprintf(`Campaign goal: %s
Blueprint base: %s

Build the stakeholder orchestration plan: for every stakeholder in the map,
the influence levers and channel tactics to move them.
Return JSON with key "stakeholder_strategies": a list of
  {"stakeholder": string,
   "influence_levers": [{"lever": string,
     "media_pitches": [item], "social_posts": [item],
     "thought_leadership": [item], "other_tactics": [item]}]}
where item is {"title": string, "description": string}.

%s`, s.CampaignGoal, CompactJSON(base), jsonOnly)
}

// ExecutionRequirementsPrompt runs after orchestration is observed complete.
func ExecutionRequirementsPrompt(s *types.CampaignSession, base, orchestration types.Document) string {
	return fmt.Sprintf(`Campaign goal: %s
Blueprint base: %s
Orchestration plan: %s

Derive the execution requirements: sequencing, dependencies, and resourcing
for the orchestration plan.
Return JSON with keys:
  "sequencing": [{"step": string, "depends_on": [string]}],
  "resources": [string],
  "timeline": string

%s`, s.CampaignGoal, CompactJSON(base), CompactJSON(orchestration), jsonOnly)
}

// MergePrompt finalizes the orchestrated path by folding base,
// orchestration, and execution requirements into the blueprint shape.
// Intelligence context reappears here (and only here) for augmented runs.
func MergePrompt(s *types.CampaignSession, base, orchestration, requirements, intelligence types.Document) string {
	var b strings.Builder
	fmt.Fprintf(&b, `Campaign goal: %s
Blueprint base: %s
Orchestration plan: %s
Execution requirements: %s
`, s.CampaignGoal, CompactJSON(base), CompactJSON(orchestration), CompactJSON(requirements))

	if intelligence != nil {
		fmt.Fprintf(&b, "Additional intelligence context: %s\n", CompactJSON(intelligence))
	}

	fmt.Fprintf(&b, `
Merge everything into the final campaign blueprint.
Return JSON with keys:
  "goal_framework": {...from base},
  "stakeholder_strategies": [...from orchestration],
  "execution_requirements": {...from requirements}

%s`, jsonOnly)
	return b.String()
}

// BlueprintIntelligencePrompt is the extra pre-base call for
// intelligence-augmented campaigns.
func BlueprintIntelligencePrompt(s *types.CampaignSession) string {
	return fmt.Sprintf(`Campaign goal: %s
Research data: %s
Selected approach: %s

Gather tactical intelligence to sharpen blueprint generation: recent
precedents, timing considerations, and channel-specific constraints.
Return JSON with keys:
  "precedents": [string],
  "timing": [string],
  "channel_constraints": [{"channel": string, "constraint": string}]

%s`, s.CampaignGoal, CompactJSON(s.ResearchData), CompactJSON(s.SelectedApproach), jsonOnly)
}

// ContentPiecePrompt generates one piece of campaign content.
func ContentPiecePrompt(s *types.CampaignSession, piece types.ContentPiece) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Campaign goal: %s\n", s.CampaignGoal)
	fmt.Fprintf(&b, "Positioning: %s\n", CompactJSON(s.SelectedPositioning))
	fmt.Fprintf(&b, "Content type: %s\n", piece.ContentType)
	if piece.Title != "" {
		fmt.Fprintf(&b, "Title: %s\n", piece.Title)
	}
	if piece.Description != "" {
		fmt.Fprintf(&b, "Brief: %s\n", piece.Description)
	}
	if piece.TargetStakeholder != "" {
		fmt.Fprintf(&b, "Target stakeholder: %s\n", piece.TargetStakeholder)
	}
	b.WriteString("\nWrite the full content for this piece. Respond with the content text only.")
	return b.String()
}

// RefinePiecePrompt rewrites an existing piece according to feedback.
func RefinePiecePrompt(s *types.CampaignSession, piece types.ContentPiece, feedback string) string {
	return fmt.Sprintf(`Campaign goal: %s
Content type: %s
Current draft:
%s

Feedback: %s

Rewrite the draft applying the feedback. Respond with the revised content
text only.`, s.CampaignGoal, piece.ContentType, piece.Content, feedback)
}

func campaignTypeLabel(t types.CampaignType) string {
	switch t {
	case types.CampaignTypeCrisis:
		return "crisis response"
	case types.CampaignTypeIntelligence:
		return "intelligence-augmented marketing"
	default:
		return "marketing"
	}
}
