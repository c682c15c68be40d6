package config

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("LLM_PROVIDER", "mock")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
	assert.Equal(t, "mock", cfg.ModelName)
	assert.Equal(t, StoreRedis, cfg.Store)
	assert.Equal(t, "b2", cfg.Scenario)
	assert.Equal(t, 800*time.Millisecond, cfg.CombatTickDelay)
	assert.Equal(t, 1200*time.Millisecond, cfg.MonsterTurnDelay)
	assert.Equal(t, 90*time.Second, cfg.NarratorTimeout)
	assert.Equal(t, 20, cfg.HistoryLimit)
	assert.Equal(t, 0.8, cfg.Temperature)
	assert.Nil(t, cfg.CombatStartPhrases)
	assert.False(t, cfg.ResetClearsStarted)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("LLM_PROVIDER", "Anthropic")
	t.Setenv("ANTHROPIC_API_KEY", "sk-test")
	t.Setenv("LOG_LEVEL", "WARNING")
	t.Setenv("STORE", "sqlite")
	t.Setenv("MONSTER_TURN_DELAY", "2s")
	t.Setenv("COMBAT_START_PHRASES", "roll initiative,charges")
	t.Setenv("RESET_CLEARS_STARTED", "true")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ProviderAnthropic, cfg.LLMProvider)
	assert.Equal(t, defaultModels[ProviderAnthropic], cfg.ModelName)
	assert.Equal(t, slog.LevelWarn, cfg.LogLevel)
	assert.Equal(t, StoreSQLite, cfg.Store)
	assert.Equal(t, 2*time.Second, cfg.MonsterTurnDelay)
	assert.Equal(t, []string{"roll initiative", "charges"}, cfg.CombatStartPhrases)
	assert.True(t, cfg.ResetClearsStarted)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"missing anthropic key", map[string]string{"LLM_PROVIDER": "anthropic"}},
		{"missing venice key", map[string]string{"LLM_PROVIDER": "venice"}},
		{"missing gemini key", map[string]string{"LLM_PROVIDER": "gemini"}},
		{"unknown provider", map[string]string{"LLM_PROVIDER": "hal9000"}},
		{"unknown store", map[string]string{"LLM_PROVIDER": "mock", "STORE": "floppy"}},
		{"bad history", map[string]string{"LLM_PROVIDER": "mock", "HISTORY_LIMIT": "0"}},
		{"bad duration", map[string]string{"LLM_PROVIDER": "mock", "COMBAT_TICK_DELAY": "soon"}},
		{"bad temperature", map[string]string{"LLM_PROVIDER": "mock", "LLM_TEMPERATURE": "3"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestParseLogLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"INFO":    slog.LevelInfo,
		"warn":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"chatty":  slog.LevelInfo,
	}
	for in, want := range tests {
		if got := parseLogLevel(in); got != want {
			t.Errorf("parseLogLevel(%q) = %v, want %v", in, got, want)
		}
	}
}
