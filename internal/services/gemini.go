package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/jwebster45206/keep-terminal/pkg/chat"
)

const (
	geminiBaseURL = "https://generativelanguage.googleapis.com/v1beta"

	DefaultGeminiMaxTokens = 2048
)

// GeminiService implements LLMService for Google Gemini generateContent
type GeminiService struct {
	apiKey      string
	modelName   string
	temperature float64
	baseURL     string
	httpClient  *http.Client
	logger      *slog.Logger
}

type GeminiPart struct {
	Text string `json:"text"`
}

type GeminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []GeminiPart `json:"parts"`
}

type GeminiGenerationConfig struct {
	Temperature     float64 `json:"temperature"`
	MaxOutputTokens int     `json:"maxOutputTokens,omitempty"`
}

type GeminiRequest struct {
	SystemInstruction *GeminiContent         `json:"systemInstruction,omitempty"`
	Contents          []GeminiContent        `json:"contents"`
	GenerationConfig  GeminiGenerationConfig `json:"generationConfig"`
}

type GeminiResponse struct {
	Candidates []struct {
		Content      GeminiContent `json:"content"`
		FinishReason string        `json:"finishReason"`
	} `json:"candidates"`
	PromptFeedback *struct {
		BlockReason string `json:"blockReason"`
	} `json:"promptFeedback,omitempty"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error,omitempty"`
}

func NewGeminiService(apiKey string, modelName string, temperature float64, logger *slog.Logger) *GeminiService {
	return &GeminiService{
		apiKey:      apiKey,
		modelName:   modelName,
		temperature: temperature,
		baseURL:     geminiBaseURL,
		httpClient: &http.Client{
			Timeout: 120 * time.Second,
		},
		logger: logger,
	}
}

// WithBaseURL points the service at another endpoint.
func (g *GeminiService) WithBaseURL(url string) *GeminiService {
	g.baseURL = url
	return g
}

func (g *GeminiService) InitModel(ctx context.Context, modelName string) error {
	return nil
}

// toGeminiContents maps chat roles onto Gemini's user/model roles.
func toGeminiContents(messages []chat.ChatMessage) []GeminiContent {
	contents := make([]GeminiContent, 0, len(messages))
	for _, m := range messages {
		role := "user"
		if m.Role == chat.ChatRoleAgent {
			role = "model"
		}
		contents = append(contents, GeminiContent{Role: role, Parts: []GeminiPart{{Text: m.Content}}})
	}
	return contents
}

// Chat generates a chat response using Gemini
func (g *GeminiService) Chat(ctx context.Context, messages []chat.ChatMessage) (*chat.ChatResponse, error) {
	systemPrompt, conversation := splitSystemMessages(messages)

	geminiReq := GeminiRequest{
		Contents: toGeminiContents(conversation),
		GenerationConfig: GeminiGenerationConfig{
			Temperature:     g.temperature,
			MaxOutputTokens: DefaultGeminiMaxTokens,
		},
	}
	if systemPrompt != "" {
		geminiReq.SystemInstruction = &GeminiContent{Parts: []GeminiPart{{Text: systemPrompt}}}
	}

	reqBody, err := json.Marshal(geminiReq)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent", g.baseURL, g.modelName)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(reqBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("x-goog-api-key", g.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to make request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		g.logger.Error("Gemini API returned error", "status_code", resp.StatusCode, "response_body", string(body))
		return nil, fmt.Errorf("API request failed with status %d: %s", resp.StatusCode, string(body))
	}

	var geminiResp GeminiResponse
	if err := json.Unmarshal(body, &geminiResp); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	if geminiResp.Error != nil {
		return nil, fmt.Errorf("API error: %s", geminiResp.Error.Message)
	}
	if geminiResp.PromptFeedback != nil && geminiResp.PromptFeedback.BlockReason != "" {
		return nil, fmt.Errorf("prompt blocked: %s", geminiResp.PromptFeedback.BlockReason)
	}
	if len(geminiResp.Candidates) == 0 {
		return nil, ErrEmptyResponse
	}

	var sb strings.Builder
	for _, part := range geminiResp.Candidates[0].Content.Parts {
		sb.WriteString(part.Text)
	}
	return nonEmpty(sb.String())
}
