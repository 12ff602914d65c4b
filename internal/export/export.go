// Package export renders a finalized blueprint and its generated content
// pieces for handoff to an external planning surface: one structured JSON
// document, or a delimited plain-text concatenation.
package export

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"strategos/internal/logging"
	"strategos/internal/types"
)

// Document is the single structured export of a session's final output.
type Document struct {
	SessionID    string               `json:"session_id"`
	CampaignGoal string               `json:"campaign_goal"`
	CampaignType types.CampaignType   `json:"campaign_type"`
	Positioning  types.Document       `json:"positioning,omitempty"`
	Blueprint    types.Document       `json:"blueprint"`
	Pieces       []types.ContentPiece `json:"content_pieces"`
	ExportedAt   time.Time            `json:"exported_at"`
}

// Build assembles the export document from a session and its inventory.
func Build(s *types.CampaignSession, pieces []types.ContentPiece) *Document {
	return &Document{
		SessionID:    s.ID,
		CampaignGoal: s.CampaignGoal,
		CampaignType: s.CampaignType,
		Positioning:  s.SelectedPositioning,
		Blueprint:    s.Blueprint,
		Pieces:       pieces,
		ExportedAt:   time.Now().UTC(),
	}
}

// WriteJSON writes the export as indented JSON.
func (d *Document) WriteJSON(w io.Writer) error {
	timer := logging.StartTimer(logging.CategoryExport, "WriteJSON")
	defer timer.Stop()

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(d); err != nil {
		return fmt.Errorf("failed to encode export: %w", err)
	}
	return nil
}

const sectionDelimiter = "================================================================"

// WriteText writes the export as a delimited plain-text concatenation:
// blueprint summary first, then every piece with its generated content.
func (d *Document) WriteText(w io.Writer) error {
	timer := logging.StartTimer(logging.CategoryExport, "WriteText")
	defer timer.Stop()

	var b strings.Builder
	b.WriteString(sectionDelimiter + "\n")
	b.WriteString("CAMPAIGN PLAN\n")
	fmt.Fprintf(&b, "Goal: %s\n", d.CampaignGoal)
	fmt.Fprintf(&b, "Exported: %s\n", d.ExportedAt.Format(time.RFC3339))
	b.WriteString(sectionDelimiter + "\n\n")

	if d.Blueprint != nil {
		blueprintJSON, err := json.MarshalIndent(d.Blueprint, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to render blueprint: %w", err)
		}
		b.WriteString("BLUEPRINT\n")
		b.Write(blueprintJSON)
		b.WriteString("\n\n")
	}

	for _, piece := range d.Pieces {
		b.WriteString(sectionDelimiter + "\n")
		fmt.Fprintf(&b, "[%s] %s\n", strings.ToUpper(piece.ContentType), piece.Title)
		if piece.TargetStakeholder != "" {
			fmt.Fprintf(&b, "Target: %s\n", piece.TargetStakeholder)
		}
		if piece.Phase != "" {
			fmt.Fprintf(&b, "Phase: %s\n", piece.Phase)
		}
		fmt.Fprintf(&b, "Status: %s\n", piece.Status)
		b.WriteString(sectionDelimiter + "\n")
		if piece.Content != "" {
			b.WriteString(piece.Content)
			b.WriteString("\n")
		} else {
			b.WriteString("(not generated)\n")
		}
		b.WriteString("\n")
	}

	_, err := io.WriteString(w, b.String())
	return err
}
