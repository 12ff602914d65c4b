// strategos is a CLI for building multi-stage marketing and crisis campaign
// plans with a generation collaborator: research, positioning, approach
// selection, blueprint assembly, and content execution, with resumable
// per-tenant sessions.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"strategos/internal/blueprint"
	"strategos/internal/config"
	"strategos/internal/execution"
	"strategos/internal/generation"
	"strategos/internal/logging"
	"strategos/internal/positioning"
	"strategos/internal/research"
	"strategos/internal/session"
	"strategos/internal/store"
)

var (
	// Global flags
	orgID      string
	configPath string
	verbose    bool

	// Logger
	logger *zap.Logger
)

// rootCmd represents the base command.
var rootCmd = &cobra.Command{
	Use:   "strategos",
	Short: "strategos - campaign plan generation orchestrator",
	Long: `strategos drives a campaign goal through research, positioning,
approach selection, blueprint assembly, and content execution using a
text-generation collaborator.

Sessions are persisted per organization and survive restarts: run
'strategos status' to see where a session left off and resume from there.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		zcfg := zap.NewProductionConfig()
		if verbose {
			zcfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = zcfg.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
		logging.CloseAll()
	},
}

// app bundles the wired components behind every command.
type app struct {
	cfg         *config.Config
	store       *store.LocalStore
	machine     *session.StateMachine
	research    *research.Coordinator
	positioning *positioning.Coordinator
	blueprint   *blueprint.Coordinator
	execution   *execution.BatchGenerator
}

// newApp loads configuration and wires the full component graph.
func newApp() (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	if err := logging.Initialize(cfg.StateDir(), logging.Settings{
		DebugMode:  cfg.Logging.DebugMode,
		Level:      cfg.Logging.Level,
		Categories: cfg.Logging.Categories,
	}); err != nil {
		return nil, err
	}

	dbPath := cfg.Storage.DatabaseFile
	if !filepath.IsAbs(dbPath) {
		dbPath = filepath.Join(cfg.StateDir(), dbPath)
	}
	st, err := store.NewLocalStore(dbPath)
	if err != nil {
		return nil, err
	}

	gen, err := generation.NewGeminiClient(cfg.LLM)
	if err != nil {
		st.Close()
		return nil, err
	}

	machine := session.NewStateMachine(st, st)
	orch := generation.NewStoreBackedOrchestrator(gen, st)

	return &app{
		cfg:         cfg,
		store:       st,
		machine:     machine,
		research:    research.NewCoordinator(gen, machine),
		positioning: positioning.NewCoordinator(gen, machine),
		blueprint: blueprint.NewCoordinator(gen, st, orch, machine, blueprint.Config{
			PollInterval:    cfg.Polling.Interval(),
			MaxPollAttempts: cfg.Polling.MaxAttempts,
		}),
		execution: execution.NewBatchGenerator(gen, execution.DefaultConcurrency),
	}, nil
}

func (a *app) close() {
	if a.store != nil {
		a.store.Close()
	}
}

func requireOrg() error {
	if orgID == "" {
		return fmt.Errorf("--org is required")
	}
	return nil
}

func main() {
	rootCmd.PersistentFlags().StringVar(&orgID, "org", os.Getenv("STRATEGOS_ORG"), "organization (tenant) id")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file path (default ~/.strategos/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose logging")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
