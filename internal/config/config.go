package config

import (
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// Supported LLM providers.
const (
	ProviderAnthropic = "anthropic"
	ProviderVenice    = "venice"
	ProviderGemini    = "gemini"
	ProviderOllama    = "ollama"
	ProviderMock      = "mock"
)

// Supported snapshot stores.
const (
	StoreRedis  = "redis"
	StoreSQLite = "sqlite"
	StoreMemory = "memory"
)

var defaultModels = map[string]string{
	ProviderAnthropic: "claude-sonnet-4-5",
	ProviderVenice:    "llama-3.3-70b",
	ProviderGemini:    "gemini-2.5-pro",
	ProviderOllama:    "llama3.1",
	ProviderMock:      "mock",
}

type Config struct {
	Port         string     `env:"PORT" envDefault:"8080"`
	Environment  string     `env:"ENVIRONMENT" envDefault:"development"`
	LogLevelName string     `env:"LOG_LEVEL" envDefault:"info"`
	LogLevel     slog.Level `env:"-"`
	LogFile      string     `env:"LOG_FILE" envDefault:"keep-terminal.log"`

	LLMProvider     string  `env:"LLM_PROVIDER" envDefault:"anthropic"`
	ModelName       string  `env:"MODEL_NAME"`
	AnthropicAPIKey string  `env:"ANTHROPIC_API_KEY"`
	VeniceAPIKey    string  `env:"VENICE_API_KEY"`
	GeminiAPIKey    string  `env:"GEMINI_API_KEY"`
	OllamaURL       string  `env:"OLLAMA_URL" envDefault:"http://localhost:11434"`
	Temperature     float64 `env:"LLM_TEMPERATURE" envDefault:"0.8"`

	Store       string        `env:"STORE" envDefault:"redis"`
	RedisURL    string        `env:"REDIS_URL" envDefault:"localhost:6379"`
	SQLitePath  string        `env:"SQLITE_PATH" envDefault:"keep-terminal.db"`
	SnapshotTTL time.Duration `env:"SNAPSHOT_TTL" envDefault:"0s"`

	Scenario    string `env:"SCENARIO" envDefault:"b2"`
	ScenarioDir string `env:"SCENARIO_DIR"`

	NarratorTimeout    time.Duration `env:"NARRATOR_TIMEOUT" envDefault:"90s"`
	CombatTickDelay    time.Duration `env:"COMBAT_TICK_DELAY" envDefault:"800ms"`
	MonsterTurnDelay   time.Duration `env:"MONSTER_TURN_DELAY" envDefault:"1200ms"`
	HistoryLimit       int           `env:"HISTORY_LIMIT" envDefault:"20"`
	CombatStartPhrases []string      `env:"COMBAT_START_PHRASES" envSeparator:","`
	CombatEndPhrases   []string      `env:"COMBAT_END_PHRASES" envSeparator:","`
	ResetClearsStarted bool          `env:"RESET_CLEARS_STARTED" envDefault:"false"`
}

// Load reads the configuration from the environment and validates it.
func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	cfg.LogLevel = parseLogLevel(cfg.LogLevelName)
	cfg.LLMProvider = strings.ToLower(strings.TrimSpace(cfg.LLMProvider))
	cfg.Store = strings.ToLower(strings.TrimSpace(cfg.Store))
	if cfg.ModelName == "" {
		cfg.ModelName = defaultModels[cfg.LLMProvider]
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks that the selected provider and store are usable.
func (c *Config) Validate() error {
	switch c.LLMProvider {
	case ProviderAnthropic:
		if c.AnthropicAPIKey == "" {
			return fmt.Errorf("ANTHROPIC_API_KEY is required for provider %s", c.LLMProvider)
		}
	case ProviderVenice:
		if c.VeniceAPIKey == "" {
			return fmt.Errorf("VENICE_API_KEY is required for provider %s", c.LLMProvider)
		}
	case ProviderGemini:
		if c.GeminiAPIKey == "" {
			return fmt.Errorf("GEMINI_API_KEY is required for provider %s", c.LLMProvider)
		}
	case ProviderOllama:
		if c.OllamaURL == "" {
			return fmt.Errorf("OLLAMA_URL is required for provider %s", c.LLMProvider)
		}
	case ProviderMock:
	default:
		return fmt.Errorf("unsupported LLM_PROVIDER %q", c.LLMProvider)
	}

	if !slices.Contains([]string{StoreRedis, StoreSQLite, StoreMemory}, c.Store) {
		return fmt.Errorf("unsupported STORE %q", c.Store)
	}
	if c.HistoryLimit < 1 {
		return fmt.Errorf("HISTORY_LIMIT must be positive, got %d", c.HistoryLimit)
	}
	if c.NarratorTimeout <= 0 {
		return fmt.Errorf("NARRATOR_TIMEOUT must be positive")
	}
	if c.CombatTickDelay < 0 || c.MonsterTurnDelay < 0 {
		return fmt.Errorf("combat delays cannot be negative")
	}
	if c.Temperature < 0 || c.Temperature > 2 {
		return fmt.Errorf("LLM_TEMPERATURE must be within [0, 2], got %v", c.Temperature)
	}
	return nil
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
