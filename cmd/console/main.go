// Package main is the terminal front end. It runs a session engine in
// process and persists it to the configured store.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/jwebster45206/keep-terminal/internal/config"
	"github.com/jwebster45206/keep-terminal/internal/game"
	"github.com/jwebster45206/keep-terminal/internal/logger"
	"github.com/jwebster45206/keep-terminal/internal/services"
	"github.com/jwebster45206/keep-terminal/internal/storage"
	"github.com/jwebster45206/keep-terminal/pkg/dice"
	"github.com/jwebster45206/keep-terminal/pkg/scenario"
	"github.com/jwebster45206/keep-terminal/pkg/signals"
	"github.com/jwebster45206/keep-terminal/pkg/sound"
)

// DefaultSessionID is resumed when no --session is given.
const DefaultSessionID = "console"

var (
	sessionID  string
	storeName  string
	sqlitePath string
	scenarioID string
)

var rootCmd = &cobra.Command{
	Use:   "keep-console",
	Short: "Terminal dungeon crawl",
	Long: `keep-console runs an AD&D 1E style dungeon crawl in the terminal, narrated by an LLM.

The session is saved after every change and resumed on the next start.`,
	Args:         cobra.NoArgs,
	SilenceUsage: true,
	RunE:         runConsole,
}

func init() {
	rootCmd.Flags().StringVar(&sessionID, "session", DefaultSessionID, "session id to resume or create")
	rootCmd.Flags().StringVar(&storeName, "store", "", "snapshot store: sqlite, redis or memory (default sqlite, or $STORE)")
	rootCmd.Flags().StringVar(&sqlitePath, "sqlite-path", "", "sqlite database file (default $SQLITE_PATH)")
	rootCmd.Flags().StringVar(&scenarioID, "scenario", "", "module for new sessions (default $SCENARIO)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// applyFlags layers command-line flags over the environment. The console
// keeps its snapshots in sqlite unless told otherwise.
func applyFlags(cmd *cobra.Command, cfg *config.Config) error {
	switch {
	case cmd.Flags().Changed("store"):
		cfg.Store = storeName
	case os.Getenv("STORE") == "":
		cfg.Store = config.StoreSQLite
	}
	if sqlitePath != "" {
		cfg.SQLitePath = sqlitePath
	}
	if scenarioID != "" {
		cfg.Scenario = scenarioID
	}
	return cfg.Validate()
}

func runConsole(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if err := applyFlags(cmd, cfg); err != nil {
		return err
	}

	log, logFile, err := logger.SetupFile(cfg)
	if err != nil {
		return err
	}
	defer logFile.Close()

	registry, err := scenario.Builtin()
	if err != nil {
		return fmt.Errorf("failed to load scenarios: %w", err)
	}
	if cfg.ScenarioDir != "" {
		if err := registry.LoadFS(os.DirFS(cfg.ScenarioDir), ".", log); err != nil {
			return err
		}
	}
	scn, err := registry.Get(cfg.Scenario)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	startCtx, startCancel := context.WithTimeout(ctx, 30*time.Second)
	defer startCancel()

	store, err := storage.Open(startCtx, cfg, log)
	if err != nil {
		return err
	}
	defer store.Close()

	llm, err := services.NewLLMService(cfg, log)
	if err != nil {
		return err
	}
	if err := llm.InitModel(startCtx, cfg.ModelName); err != nil {
		return fmt.Errorf("failed to initialize LLM model %s: %w", cfg.ModelName, err)
	}

	bell := sound.NewBell(os.Stderr)
	defer bell.Close()

	opts := game.Options{
		Scenario: scn,
		Registry: registry,
		Narrator: services.NewLLMNarrator(llm, cfg.HistoryLimit, log),
		Store:    store,
		Notifier: bell,
		Roller:   dice.New(dice.WithNotifier(bell), dice.WithLogger(log)),
		Signals:  signals.NewKeywordExtractor(cfg.CombatStartPhrases, cfg.CombatEndPhrases),
		Logger:   log,
		Settings: game.SettingsFromConfig(cfg),
	}
	engine, err := game.Open(startCtx, sessionID, opts)
	if err != nil {
		return err
	}
	log.Info("Console session ready",
		"session_id", engine.State().ID,
		"module", engine.Scenario().ID,
		"store", cfg.Store,
		"provider", cfg.LLMProvider)

	p := tea.NewProgram(NewConsoleUI(ctx, engine, opts, registry),
		tea.WithAltScreen(),
		tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running program: %w", err)
	}
	return nil
}
