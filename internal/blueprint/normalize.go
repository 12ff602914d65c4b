package blueprint

import (
	"fmt"

	"strategos/internal/logging"
	"strategos/internal/types"
)

// Normalize maps any of the three historical blueprint shapes into one
// uniform content piece inventory. The collaborator emits no schema version
// field, so the shape is resolved by structural sniffing, newest first:
//
//	Shape C: stakeholder -> influence lever -> channel item lists
//	Shape B: phase -> pillar -> items (four pillars per phase)
//	Shape A: flat top-level release/outlet lists
//	legacy:  explicit content_pieces list
//
// The first matching shape wins and is extracted fully; shapes are never
// merged. An unrecognized document yields an empty inventory with a warning,
// not an error: "no extractable content" is a valid, if unusual, state.
func Normalize(blueprint types.Document, campaignType types.CampaignType) []types.ContentPiece {
	if blueprint == nil {
		return nil
	}

	if pieces := extractStakeholderCentric(blueprint); pieces != nil {
		return pieces
	}
	if pieces := extractFourPillar(blueprint); pieces != nil {
		return pieces
	}
	if pieces := extractFlat(blueprint, campaignType); pieces != nil {
		return pieces
	}
	if pieces := extractLegacy(blueprint); pieces != nil {
		return pieces
	}

	logging.Get(logging.CategoryBlueprint).Warn(
		"Blueprint matched no known shape; returning empty inventory (keys=%d)", len(blueprint))
	return []types.ContentPiece{}
}

// channelTypes maps Shape C channel keys to content type labels, in a fixed
// extraction order.
var channelTypes = []struct {
	key   string
	label string
}{
	{"media_pitches", "media pitch"},
	{"social_posts", "social post"},
	{"thought_leadership", "thought leadership"},
	{"other_tactics", "tactic"},
}

// extractStakeholderCentric handles Shape C. Returns nil when the shape does
// not match, never an empty non-nil slice for a matching-but-empty document.
func extractStakeholderCentric(blueprint types.Document) []types.ContentPiece {
	strategies := asList(blueprint["stakeholder_strategies"])
	if strategies == nil {
		return nil
	}

	pieces := []types.ContentPiece{}
	for si, raw := range strategies {
		strategy := asMap(raw)
		if strategy == nil {
			continue
		}
		stakeholder := asString(strategy["stakeholder"])
		for li, rawLever := range asList(strategy["influence_levers"]) {
			lever := asMap(rawLever)
			if lever == nil {
				continue
			}
			leverName := asString(lever["lever"])
			for _, ch := range channelTypes {
				for ii, rawItem := range asList(lever[ch.key]) {
					item := asMap(rawItem)
					if item == nil {
						continue
					}
					pieces = append(pieces, types.ContentPiece{
						ID:                fmt.Sprintf("s%d-l%d-%s-%d", si, li, ch.key, ii),
						ContentType:       ch.label,
						Title:             asString(item["title"]),
						Description:       asString(item["description"]),
						TargetStakeholder: stakeholder,
						Phase:             leverName,
						Priority:          itemPriority(item, ii),
						Status:            types.PiecePending,
					})
				}
			}
		}
	}
	return pieces
}

// pillars maps Shape B pillar keys to display names, in pillar order.
var pillars = []struct {
	key  string
	name string
}{
	{"owned_actions", "Owned Actions"},
	{"partner_activations", "Partner Activations"},
	{"narrative_content", "Narrative Content"},
	{"media_engagement", "Media Engagement"},
}

// extractFourPillar handles Shape B: nested phase -> pillar -> items.
func extractFourPillar(blueprint types.Document) []types.ContentPiece {
	phases := asList(blueprint["phases"])
	if phases == nil {
		return nil
	}

	// Only claim the shape when at least one phase carries a pillar key;
	// other shapes may also use a "phases" list.
	matched := false
	for _, raw := range phases {
		phase := asMap(raw)
		if phase == nil {
			continue
		}
		for _, p := range pillars {
			if _, ok := phase[p.key]; ok {
				matched = true
			}
		}
	}
	if !matched {
		return nil
	}

	pieces := []types.ContentPiece{}
	for pi, raw := range phases {
		phase := asMap(raw)
		if phase == nil {
			continue
		}
		phaseName := asString(phase["name"])
		if phaseName == "" {
			phaseName = fmt.Sprintf("Phase %d", pi+1)
		}
		for _, p := range pillars {
			for ii, rawItem := range asList(phase[p.key]) {
				item := asMap(rawItem)
				if item == nil {
					continue
				}
				pieces = append(pieces, types.ContentPiece{
					ID:          fmt.Sprintf("p%d-%s-%d", pi, p.key, ii),
					ContentType: asString(item["content_type"]),
					Title:       asString(item["title"]),
					Description: asString(item["description"]),
					Phase:       phaseName,
					Pillar:      p.name,
					Priority:    itemPriority(item, ii),
					Status:      types.PiecePending,
				})
			}
		}
	}
	return pieces
}

// extractFlat handles Shape A: top-level lists of releases and outlets.
func extractFlat(blueprint types.Document, campaignType types.CampaignType) []types.ContentPiece {
	releases := asList(blueprint["press_releases"])
	outlets := asList(blueprint["media_outlets"])
	if releases == nil && outlets == nil {
		return nil
	}

	phase := "launch"
	if campaignType == types.CampaignTypeCrisis {
		phase = "immediate response"
	}

	pieces := []types.ContentPiece{}
	for i, raw := range releases {
		item := asMap(raw)
		if item == nil {
			continue
		}
		pieces = append(pieces, types.ContentPiece{
			ID:          fmt.Sprintf("release-%d", i),
			ContentType: "press release",
			Title:       asString(item["title"]),
			Description: asString(item["description"]),
			Phase:       phase,
			Priority:    itemPriority(item, i),
			Status:      types.PiecePending,
		})
	}
	for i, raw := range outlets {
		item := asMap(raw)
		if item == nil {
			continue
		}
		pieces = append(pieces, types.ContentPiece{
			ID:                fmt.Sprintf("outlet-%d", i),
			ContentType:       "media pitch",
			Title:             asString(item["name"]),
			Description:       asString(item["angle"]),
			TargetStakeholder: asString(item["name"]),
			Phase:             phase,
			Priority:          itemPriority(item, i),
			Status:            types.PiecePending,
		})
	}
	return pieces
}

// extractLegacy handles pre-shape documents with an explicit piece list.
func extractLegacy(blueprint types.Document) []types.ContentPiece {
	items := asList(blueprint["content_pieces"])
	if items == nil {
		return nil
	}

	pieces := []types.ContentPiece{}
	for i, raw := range items {
		item := asMap(raw)
		if item == nil {
			continue
		}
		contentType := asString(item["content_type"])
		if contentType == "" {
			contentType = asString(item["type"])
		}
		pieces = append(pieces, types.ContentPiece{
			ID:          fmt.Sprintf("legacy-%d", i),
			ContentType: contentType,
			Title:       asString(item["title"]),
			Description: asString(item["description"]),
			Priority:    itemPriority(item, i),
			Status:      types.PiecePending,
		})
	}
	return pieces
}

// itemPriority honors explicit priority metadata; otherwise the first item
// of each group is high and the rest medium.
func itemPriority(item map[string]any, index int) types.PiecePriority {
	switch asString(item["priority"]) {
	case "high", "critical":
		return types.PriorityHigh
	case "medium", "normal":
		return types.PriorityMedium
	case "low":
		return types.PriorityLow
	}
	if index == 0 {
		return types.PriorityHigh
	}
	return types.PriorityMedium
}

func asList(v any) []any {
	list, ok := v.([]any)
	if !ok {
		return nil
	}
	return list
}

func asMap(v any) map[string]any {
	m, ok := v.(map[string]any)
	if !ok {
		return nil
	}
	return m
}

func asString(v any) string {
	s, _ := v.(string)
	return s
}
