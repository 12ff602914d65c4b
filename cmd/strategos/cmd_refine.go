package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// refineResearchCmd re-runs the research pipeline with user feedback.
var refineResearchCmd = &cobra.Command{
	Use:   "refine-research [feedback]",
	Short: "Re-run research with a refinement from the user",
	Long: `Re-runs the full research pipeline with the feedback appended to the
campaign goal. The existing research data is replaced only if every phase
succeeds; a failed refinement leaves it untouched.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runRefineResearch,
}

func init() {
	rootCmd.AddCommand(refineResearchCmd)
}

func runRefineResearch(cmd *cobra.Command, args []string) error {
	if err := requireOrg(); err != nil {
		return err
	}
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	ctx := cmd.Context()
	if _, err := a.machine.LoadFor(ctx, orgID); err != nil {
		return err
	}

	feedback := strings.Join(args, " ")
	fmt.Println("Refining research...")
	data, err := a.research.Refine(ctx, feedback, printProgress)
	if err != nil {
		return err
	}

	fmt.Println("\nUpdated research:")
	printDocument(data)
	return nil
}
