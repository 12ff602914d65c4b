package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"strategos/internal/blueprint"
	"strategos/internal/export"
	"strategos/internal/types"
)

var (
	executeOut    string
	executeFormat string
)

// executeCmd generates content for every piece of the blueprint.
var executeCmd = &cobra.Command{
	Use:   "execute",
	Short: "Generate content for every piece in the blueprint",
	Long: `Normalizes the blueprint into a content inventory and generates each
piece. Pieces fail independently: a failed piece is reported and skipped
while the rest complete. With --out the finished campaign is exported.`,
	RunE: runExecute,
}

func init() {
	executeCmd.Flags().StringVar(&executeOut, "out", "", "write the finished campaign export to this file")
	executeCmd.Flags().StringVar(&executeFormat, "format", "json", "export format: json or text")
	rootCmd.AddCommand(executeCmd)
}

func runExecute(cmd *cobra.Command, args []string) error {
	if err := requireOrg(); err != nil {
		return err
	}
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	s, err := a.machine.LoadFor(ctx, orgID)
	if err != nil {
		return err
	}

	if s.Stage == types.StageBlueprint {
		if _, err := a.machine.Advance(ctx, types.StageExecution, nil); err != nil {
			return err
		}
	} else if s.Stage != types.StageExecution {
		return &types.IllegalTransitionError{From: s.Stage, To: types.StageExecution}
	}

	pieces := blueprint.Normalize(s.Blueprint, s.CampaignType)
	if len(pieces) == 0 {
		fmt.Println("Blueprint contains no recognizable content items; nothing to generate.")
		return nil
	}

	fmt.Printf("Generating %d pieces...\n", len(pieces))
	pieces = a.execution.GenerateAll(ctx, s, pieces, func(p types.ContentPiece) {
		switch p.Status {
		case types.PieceGenerating:
			fmt.Printf("  %-40s ...\n", p.Title)
		case types.PieceCompleted:
			fmt.Printf("  %-40s done\n", p.Title)
		case types.PieceFailed:
			fmt.Printf("  %-40s FAILED: %s\n", p.Title, p.FailureReason)
		}
	})

	completed, failed := 0, 0
	for _, p := range pieces {
		switch p.Status {
		case types.PieceCompleted:
			completed++
		case types.PieceFailed:
			failed++
		}
	}
	fmt.Printf("\n%d completed, %d failed\n", completed, failed)

	if executeOut == "" {
		return nil
	}
	return writeExport(export.Build(s, pieces), executeOut, executeFormat)
}

func writeExport(doc *export.Document, path, format string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create export file: %w", err)
	}
	defer f.Close()

	switch format {
	case "text":
		err = doc.WriteText(f)
	case "json":
		err = doc.WriteJSON(f)
	default:
		return &types.ValidationError{Field: "format", Reason: "must be json or text"}
	}
	if err != nil {
		return err
	}
	fmt.Println("Exported to", path)
	return nil
}
