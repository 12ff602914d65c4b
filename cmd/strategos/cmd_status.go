package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"strategos/internal/types"
)

var (
	statusAll     bool
	historyLimit  int
	showHistoryFl bool
)

// statusCmd shows where the organization's session left off.
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the organization's current session and stage",
	RunE:  runStatus,
}

// reviewCmd displays a prior stage's payload without changing anything.
var reviewCmd = &cobra.Command{
	Use:   "review [stage]",
	Short: "Review the payload of an earlier stage",
	Long: `Displays an earlier stage's output in read-only mode. Reviewing never
changes the session: the real stage, all payloads, and the stored record
stay exactly as they were.`,
	Args: cobra.ExactArgs(1),
	RunE: runReview,
}

func init() {
	statusCmd.Flags().BoolVar(&statusAll, "all", false, "list every session for the organization")
	statusCmd.Flags().BoolVar(&showHistoryFl, "history", false, "show the conversation history")
	statusCmd.Flags().IntVar(&historyLimit, "history-limit", 20, "most recent history entries to show")
	rootCmd.AddCommand(statusCmd, reviewCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	if err := requireOrg(); err != nil {
		return err
	}
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	ctx := cmd.Context()

	if statusAll {
		sessions, err := a.store.ListSessions(ctx, orgID)
		if err != nil {
			return err
		}
		if len(sessions) == 0 {
			fmt.Println("No sessions for", orgID)
			return nil
		}
		for _, s := range sessions {
			fmt.Printf("%s  %-13s  %s\n", s.ID, s.Stage, truncate(s.CampaignGoal, 60))
		}
		return nil
	}

	s, err := a.machine.LoadFor(ctx, orgID)
	if errors.Is(err, types.ErrNotFound) {
		fmt.Println("No active session for", orgID, "- start one with 'strategos new'")
		return nil
	}
	if err != nil {
		return err
	}

	fmt.Println("Session: ", s.ID)
	fmt.Println("Goal:    ", s.CampaignGoal)
	fmt.Println("Type:    ", s.CampaignType)
	fmt.Println("Stage:   ", s.Stage)
	fmt.Println("Updated: ", s.UpdatedAt.Format("2006-01-02 15:04:05"))
	fmt.Println("\nNext:    ", nextHint(s))

	if showHistoryFl || verbose {
		entries := s.ConversationHistory
		if historyLimit > 0 && len(entries) > historyLimit {
			entries = entries[len(entries)-historyLimit:]
		}
		fmt.Println("\nHistory:")
		for _, e := range entries {
			fmt.Printf("  %s  %-13s  %s\n", e.Timestamp.Format("15:04:05"), e.Kind, e.Summary)
		}
	}
	return nil
}

func runReview(cmd *cobra.Command, args []string) error {
	if err := requireOrg(); err != nil {
		return err
	}
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	if _, err := a.machine.LoadFor(cmd.Context(), orgID); err != nil {
		return err
	}

	target := types.Stage("/" + args[0])
	s, err := a.machine.ReviewStage(target)
	if err != nil {
		return err
	}

	fmt.Printf("Reviewing %s (session is at %s)\n\n", target, s.Stage)
	payload := s.PayloadFor(target)
	if payload == nil {
		fmt.Println("(no payload recorded for this stage)")
		return nil
	}
	printDocument(payload)
	return nil
}

// nextHint suggests the command that resumes the session from its stage.
func nextHint(s *types.CampaignSession) string {
	switch s.Stage {
	case types.StageIntent:
		return "strategos new (research did not complete; start again)"
	case types.StageResearch:
		return "research in progress or interrupted; re-run 'strategos new'"
	case types.StagePositioning:
		return "strategos select-positioning --option <id>"
	case types.StageApproach:
		return "strategos select-approach --id <id>"
	case types.StageBlueprint:
		if s.Blueprint == nil {
			return "strategos select-approach (resume interrupted blueprint generation)"
		}
		return "strategos execute"
	case types.StageExecution:
		return "strategos execute (re-run) or strategos export"
	}
	return ""
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n-3]) + "..."
}
