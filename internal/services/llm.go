package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/jwebster45206/keep-terminal/internal/config"
	"github.com/jwebster45206/keep-terminal/pkg/chat"
)

// ErrEmptyResponse is returned when a provider answers with no text.
var ErrEmptyResponse = errors.New("empty response from LLM")

// LLMService defines the interface for interacting with an LLM API
type LLMService interface {
	// InitModel prepares the model on startup
	InitModel(ctx context.Context, modelName string) error

	// Chat generates a chat response
	Chat(ctx context.Context, messages []chat.ChatMessage) (*chat.ChatResponse, error)
}

// NewLLMService builds the provider selected in cfg.
func NewLLMService(cfg *config.Config, logger *slog.Logger) (LLMService, error) {
	switch cfg.LLMProvider {
	case config.ProviderAnthropic:
		return NewAnthropicService(cfg.AnthropicAPIKey, cfg.ModelName, cfg.Temperature, logger), nil
	case config.ProviderVenice:
		return NewVeniceService(cfg.VeniceAPIKey, cfg.ModelName, cfg.Temperature), nil
	case config.ProviderGemini:
		return NewGeminiService(cfg.GeminiAPIKey, cfg.ModelName, cfg.Temperature, logger), nil
	case config.ProviderOllama:
		return NewOllamaService(cfg.OllamaURL, cfg.ModelName, logger), nil
	case config.ProviderMock:
		return NewMockLLMAPI(), nil
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", cfg.LLMProvider)
	}
}

// splitSystemMessages joins all system messages into one prompt and returns
// the remaining conversation.
func splitSystemMessages(messages []chat.ChatMessage) (string, []chat.ChatMessage) {
	var systemParts []string
	var rest []chat.ChatMessage

	for _, msg := range messages {
		if msg.Role == chat.ChatRoleSystem {
			systemParts = append(systemParts, msg.Content)
		} else {
			rest = append(rest, msg)
		}
	}
	return strings.Join(systemParts, "\n\n"), rest
}

func nonEmpty(text string) (*chat.ChatResponse, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyResponse
	}
	return &chat.ChatResponse{Message: text}, nil
}
