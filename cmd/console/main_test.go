package main

import (
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwebster45206/keep-terminal/internal/config"
)

func flagCommand(t *testing.T, args ...string) *cobra.Command {
	t.Helper()
	storeName, sqlitePath, scenarioID = "", "", ""
	cmd := &cobra.Command{Use: "test"}
	cmd.Flags().StringVar(&storeName, "store", "", "")
	cmd.Flags().StringVar(&sqlitePath, "sqlite-path", "", "")
	cmd.Flags().StringVar(&scenarioID, "scenario", "", "")
	require.NoError(t, cmd.ParseFlags(args))
	return cmd
}

func baseConfig() *config.Config {
	return &config.Config{
		LLMProvider:     config.ProviderMock,
		Store:           config.StoreRedis,
		SQLitePath:      "keep-terminal.db",
		Scenario:        "b2",
		HistoryLimit:    20,
		NarratorTimeout: time.Second,
	}
}

func TestApplyFlags(t *testing.T) {
	t.Run("defaults to sqlite", func(t *testing.T) {
		t.Setenv("STORE", "")
		cfg := baseConfig()
		require.NoError(t, applyFlags(flagCommand(t), cfg))
		assert.Equal(t, config.StoreSQLite, cfg.Store)
	})

	t.Run("environment store wins over default", func(t *testing.T) {
		t.Setenv("STORE", "redis")
		cfg := baseConfig()
		require.NoError(t, applyFlags(flagCommand(t), cfg))
		assert.Equal(t, config.StoreRedis, cfg.Store)
	})

	t.Run("flags override environment", func(t *testing.T) {
		t.Setenv("STORE", "redis")
		cfg := baseConfig()
		cmd := flagCommand(t, "--store", "memory", "--sqlite-path", "/tmp/x.db", "--scenario", "caves")
		require.NoError(t, applyFlags(cmd, cfg))
		assert.Equal(t, config.StoreMemory, cfg.Store)
		assert.Equal(t, "/tmp/x.db", cfg.SQLitePath)
		assert.Equal(t, "caves", cfg.Scenario)
	})

	t.Run("invalid store", func(t *testing.T) {
		cfg := baseConfig()
		err := applyFlags(flagCommand(t, "--store", "postgres"), cfg)
		assert.Error(t, err)
	})
}
