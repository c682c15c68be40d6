package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jwebster45206/keep-terminal/internal/config"
	"github.com/jwebster45206/keep-terminal/internal/game"
	"github.com/jwebster45206/keep-terminal/internal/handlers"
	"github.com/jwebster45206/keep-terminal/internal/logger"
	"github.com/jwebster45206/keep-terminal/internal/middleware"
	"github.com/jwebster45206/keep-terminal/internal/services"
	"github.com/jwebster45206/keep-terminal/internal/storage"
	"github.com/jwebster45206/keep-terminal/pkg/dice"
	"github.com/jwebster45206/keep-terminal/pkg/scenario"
	"github.com/jwebster45206/keep-terminal/pkg/signals"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	log := logger.Setup(cfg)

	log.Info("Starting Keep Terminal API",
		"port", cfg.Port,
		"environment", cfg.Environment,
		"llm_provider", cfg.LLMProvider,
		"model_name", cfg.ModelName,
		"store", cfg.Store)

	registry, err := scenario.Builtin()
	if err != nil {
		log.Error("Failed to load built-in scenarios", "error", err)
		os.Exit(1)
	}
	if cfg.ScenarioDir != "" {
		if err := registry.LoadFS(os.DirFS(cfg.ScenarioDir), ".", log); err != nil {
			log.Error("Failed to load scenario directory", "dir", cfg.ScenarioDir, "error", err)
			os.Exit(1)
		}
	}
	scn, err := registry.Get(cfg.Scenario)
	if err != nil {
		log.Error("Default scenario not found", "scenario", cfg.Scenario, "available", registry.IDs())
		os.Exit(1)
	}

	llmService, err := services.NewLLMService(cfg, log)
	if err != nil {
		log.Error("Invalid LLM provider specified", "provider", cfg.LLMProvider, "error", err)
		os.Exit(1)
	}

	storeCtx, storeCancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer storeCancel()
	store, err := storage.Open(storeCtx, cfg, log)
	if err != nil {
		log.Error("Failed to connect to storage", "error", err)
		os.Exit(1)
	}
	log.Info("Storage connection established successfully")

	// Initialize the model on startup
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()
	if err := llmService.InitModel(ctx, cfg.ModelName); err != nil {
		log.Error("Failed to initialize LLM model", "error", err, "model", cfg.ModelName)
		os.Exit(1)
	}

	manager, err := game.NewManager(game.Options{
		Scenario: scn,
		Registry: registry,
		Narrator: services.NewLLMNarrator(llmService, cfg.HistoryLimit, log),
		Store:    store,
		Roller:   dice.New(dice.WithLogger(log)),
		Signals:  signals.NewKeywordExtractor(cfg.CombatStartPhrases, cfg.CombatEndPhrases),
		Logger:   log,
		Settings: game.SettingsFromConfig(cfg),
	})
	if err != nil {
		log.Error("Failed to create session manager", "error", err)
		os.Exit(1)
	}

	mux := http.NewServeMux()

	healthHandler := handlers.NewHealthHandler(store, cfg.LLMProvider, cfg.ModelName, log)
	mux.Handle("/health", healthHandler)

	sessionHandler := handlers.NewSessionHandler(manager, log)
	mux.Handle("/v1/sessions", sessionHandler)
	mux.Handle("/v1/sessions/", sessionHandler)

	scenarioHandler := handlers.NewScenarioHandler(log, manager)
	mux.Handle("/v1/scenarios", scenarioHandler)

	handler := middleware.Logger(mux)
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("Server starting", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Server is shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", "error", err)
	}

	manager.Close()
	if err := store.Close(); err != nil {
		log.Error("Error closing storage connection", "error", err)
	}

	log.Info("Server exited")
}
