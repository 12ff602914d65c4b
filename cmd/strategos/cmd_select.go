package main

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"strategos/internal/types"
)

var (
	optionID string

	approachID           string
	approachName         string
	approachCoordination string
)

// selectPositioningCmd confirms a positioning option and proposes approaches.
var selectPositioningCmd = &cobra.Command{
	Use:   "select-positioning",
	Short: "Confirm a positioning option and get approach proposals",
	RunE:  runSelectPositioning,
}

// selectApproachCmd confirms a strategic approach and generates the blueprint.
var selectApproachCmd = &cobra.Command{
	Use:   "select-approach",
	Short: "Confirm a strategic approach and generate the blueprint",
	Long: `Records the chosen approach and runs blueprint generation. Approaches
with multi_stakeholder coordination take the long orchestrated path, which
can run for several minutes; Ctrl-C abandons the run without losing the
approach decision.`,
	RunE: runSelectApproach,
}

func init() {
	selectPositioningCmd.Flags().StringVar(&optionID, "option", "", "id of the positioning option to select")
	selectPositioningCmd.MarkFlagRequired("option")

	selectApproachCmd.Flags().StringVar(&approachID, "id", "", "id of the approach")
	selectApproachCmd.Flags().StringVar(&approachName, "name", "", "approach name")
	selectApproachCmd.Flags().StringVar(&approachCoordination, "coordination", "single_track",
		"coordination mode: single_track or multi_stakeholder")
	selectApproachCmd.MarkFlagRequired("id")

	rootCmd.AddCommand(selectPositioningCmd, selectApproachCmd)
}

func runSelectPositioning(cmd *cobra.Command, args []string) error {
	if err := requireOrg(); err != nil {
		return err
	}
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	ctx := cmd.Context()
	s, err := a.machine.LoadFor(ctx, orgID)
	if err != nil {
		return err
	}

	chosen, err := pickOption(s.PositioningOptions, optionID)
	if err != nil {
		return err
	}

	if _, err := a.machine.Advance(ctx, types.StageApproach, chosen); err != nil {
		return err
	}

	approaches, err := a.positioning.ProposeApproaches(ctx)
	if err != nil {
		return err
	}

	fmt.Println("Positioning confirmed. Proposed approaches:")
	printDocument(approaches)
	fmt.Println("\nNext: strategos select-approach --org", orgID, "--id <id> [--coordination multi_stakeholder]")
	return nil
}

func runSelectApproach(cmd *cobra.Command, args []string) error {
	if err := requireOrg(); err != nil {
		return err
	}
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	if approachCoordination != "single_track" && approachCoordination != "multi_stakeholder" {
		return &types.ValidationError{Field: "coordination", Reason: "must be single_track or multi_stakeholder"}
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	s, err := a.machine.LoadFor(ctx, orgID)
	if err != nil {
		return err
	}

	if s.Stage == types.StageBlueprint && s.Blueprint == nil {
		// An interrupted run already recorded the approach and moved the
		// session here; advancing again would be illegal. Go straight back
		// to generation.
		fmt.Println("Resuming blueprint generation...")
	} else {
		approach := types.Document{
			"id":           approachID,
			"coordination": approachCoordination,
		}
		if approachName != "" {
			approach["name"] = approachName
		}

		if _, err := a.machine.Advance(ctx, types.StageBlueprint, approach); err != nil {
			return err
		}
		fmt.Println("Approach confirmed. Generating blueprint...")
	}
	doc, err := a.blueprint.Run(ctx, printProgress)
	if err != nil {
		if ctx.Err() != nil {
			fmt.Println("\nGeneration abandoned. Run select-approach again to retry.")
		}
		return err
	}

	fmt.Println("\nBlueprint:")
	printDocument(doc)
	fmt.Println("\nNext: strategos execute --org", orgID)
	return nil
}

// pickOption finds the option with the given id inside a positioning options
// document. Both "options" and "positioning_options" keys are accepted.
func pickOption(options types.Document, id string) (types.Document, error) {
	if options == nil {
		return nil, &types.ValidationError{Field: "positioning_options", Reason: "none generated; run 'new' first"}
	}
	for _, key := range []string{"options", "positioning_options"} {
		list, ok := options[key].([]any)
		if !ok {
			continue
		}
		for _, item := range list {
			entry, ok := item.(map[string]any)
			if !ok {
				continue
			}
			if fmt.Sprint(entry["id"]) == id {
				return types.Document(entry), nil
			}
		}
	}
	return nil, &types.ValidationError{Field: "option", Reason: fmt.Sprintf("no positioning option with id %q", id)}
}
