package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/jwebster45206/keep-terminal/pkg/prompts"
	"github.com/jwebster45206/keep-terminal/pkg/scenario"
	"github.com/jwebster45206/keep-terminal/pkg/state"
)

// Narrator is the external dungeon master. Implementations may be slow and
// may fail; callers bound them with ctx.
type Narrator interface {
	Respond(ctx context.Context, req *NarratorRequest) (string, error)
}

// NarratorRequest carries everything the narrator needs for one turn. Session
// is a snapshot owned by the request.
type NarratorRequest struct {
	Session     *state.SessionState
	Scenario    *scenario.Scenario
	Instruction string
	Actor       string // character performing the instruction, if any
}

// LLMNarrator renders requests into prompts and sends them to an LLMService.
type LLMNarrator struct {
	llm          LLMService
	historyLimit int
	logger       *slog.Logger
}

// NewLLMNarrator creates a narrator backed by llm.
func NewLLMNarrator(llm LLMService, historyLimit int, logger *slog.Logger) *LLMNarrator {
	return &LLMNarrator{
		llm:          llm,
		historyLimit: historyLimit,
		logger:       logger,
	}
}

// Respond returns the narrator's prose for req.
func (n *LLMNarrator) Respond(ctx context.Context, req *NarratorRequest) (string, error) {
	if req == nil || req.Session == nil || req.Scenario == nil {
		return "", fmt.Errorf("narrator request is incomplete")
	}

	messages, err := prompts.New().
		WithSession(req.Session).
		WithScenario(req.Scenario).
		WithInstruction(req.Instruction).
		WithSpeaker(req.Actor).
		WithHistoryLimit(n.historyLimit).
		Build()
	if err != nil {
		return "", fmt.Errorf("failed to build prompt: %w", err)
	}

	start := time.Now()
	resp, err := n.llm.Chat(ctx, messages)
	if err != nil {
		n.logger.Warn("Narrator call failed",
			"session_id", req.Session.ID,
			"duration", time.Since(start),
			"error", err)
		return "", fmt.Errorf("narrator: %w", err)
	}

	text := strings.TrimSpace(resp.Message)
	if text == "" {
		return "", fmt.Errorf("narrator: %w", ErrEmptyResponse)
	}

	n.logger.Debug("Narrator responded",
		"session_id", req.Session.ID,
		"turn", req.Session.TurnCount,
		"duration", time.Since(start),
		"chars", len(text))
	return text, nil
}
