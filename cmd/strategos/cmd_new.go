package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"strategos/internal/types"
)

var campaignTypeFlag string

// newCmd creates a session and runs the research pipeline.
var newCmd = &cobra.Command{
	Use:   "new [goal]",
	Short: "Start a campaign session from a goal and run research",
	Long: `Creates a session for the organization, runs the four-phase research
pipeline, and generates positioning options to choose between.

Example:
  strategos new --org acme "Launch our new platform and build credibility"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runNew,
}

func init() {
	newCmd.Flags().StringVar(&campaignTypeFlag, "type", "marketing",
		"campaign type: marketing, crisis, or intelligence")
	rootCmd.AddCommand(newCmd)
}

func runNew(cmd *cobra.Command, args []string) error {
	if err := requireOrg(); err != nil {
		return err
	}
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	goal := strings.Join(args, " ")
	ctx := cmd.Context()

	s, err := a.machine.Create(ctx, orgID, goal, parseCampaignType(campaignTypeFlag))
	if err != nil {
		return err
	}
	logger.Info("Session created", zap.String("session", s.ID), zap.String("org", orgID))
	fmt.Printf("Session %s created. Running research...\n", s.ID)

	if _, err := a.research.Run(ctx, printProgress); err != nil {
		return err
	}

	if _, err := a.machine.Advance(ctx, types.StagePositioning, nil); err != nil {
		return err
	}

	options, err := a.positioning.GenerateOptions(ctx)
	if err != nil {
		return err
	}

	fmt.Println("\nPositioning options:")
	printDocument(options)
	fmt.Println("\nNext: strategos select-positioning --org", orgID, "--option <id>")
	return nil
}

func parseCampaignType(v string) types.CampaignType {
	switch v {
	case "crisis":
		return types.CampaignTypeCrisis
	case "intelligence":
		return types.CampaignTypeIntelligence
	default:
		return types.CampaignTypeMarketing
	}
}

// printProgress renders per-phase status lines as coordinators report them.
func printProgress(phase string, status types.PhaseStatus) {
	switch status {
	case types.PhaseRunning:
		fmt.Printf("  %-26s ...\n", phase)
	case types.PhaseCompleted:
		fmt.Printf("  %-26s done\n", phase)
	case types.PhaseFailed:
		fmt.Printf("  %-26s FAILED\n", phase)
	}
}

func printDocument(doc types.Document) {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		fmt.Println("(unrenderable payload)")
		return
	}
	fmt.Println(string(data))
}
