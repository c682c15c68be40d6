package services

import (
	"context"
	"sync"

	"github.com/jwebster45206/keep-terminal/pkg/chat"
)

// MockLLMAPI is a mock implementation of LLMService for testing and offline play
type MockLLMAPI struct {
	InitModelFunc func(ctx context.Context, modelName string) error
	ChatFunc      func(ctx context.Context, messages []chat.ChatMessage) (*chat.ChatResponse, error)

	// Track calls for testing
	InitModelCalls []string
	ChatCalls      [][]chat.ChatMessage

	mu sync.Mutex // protects all fields above
}

// MockResponse is the canned reply when no ChatFunc is set.
const MockResponse = "Torchlight flickers across damp stone. Nothing stirs.\n\nCOMMAND?"

// NewMockLLMAPI creates a new mock LLM service
func NewMockLLMAPI() *MockLLMAPI {
	return &MockLLMAPI{
		InitModelCalls: make([]string, 0),
		ChatCalls:      make([][]chat.ChatMessage, 0),
	}
}

// InitModel mocks model initialization
func (m *MockLLMAPI) InitModel(ctx context.Context, modelName string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.InitModelCalls = append(m.InitModelCalls, modelName)
	if m.InitModelFunc != nil {
		return m.InitModelFunc(ctx, modelName)
	}
	return nil
}

// Chat mocks response generation
func (m *MockLLMAPI) Chat(ctx context.Context, messages []chat.ChatMessage) (*chat.ChatResponse, error) {
	m.mu.Lock()
	m.ChatCalls = append(m.ChatCalls, messages)
	fn := m.ChatFunc
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx, messages)
	}
	return &chat.ChatResponse{Message: MockResponse}, nil
}

// SetChatError sets up the mock to fail every Chat call
func (m *MockLLMAPI) SetChatError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ChatFunc = func(ctx context.Context, messages []chat.ChatMessage) (*chat.ChatResponse, error) {
		return nil, err
	}
}

// SetChatResponse sets up the mock to return text from every Chat call
func (m *MockLLMAPI) SetChatResponse(text string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ChatFunc = func(ctx context.Context, messages []chat.ChatMessage) (*chat.ChatResponse, error) {
		return &chat.ChatResponse{Message: text}, nil
	}
}

// GetChatCalls returns a copy of the recorded Chat calls
func (m *MockLLMAPI) GetChatCalls() [][]chat.ChatMessage {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([][]chat.ChatMessage, len(m.ChatCalls))
	copy(out, m.ChatCalls)
	return out
}

// Reset clears all call tracking
func (m *MockLLMAPI) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.InitModelCalls = make([]string, 0)
	m.ChatCalls = make([][]chat.ChatMessage, 0)
}
