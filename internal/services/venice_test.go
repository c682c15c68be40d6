package services

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/jwebster45206/keep-terminal/pkg/chat"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewVeniceService(t *testing.T) {
	service := NewVeniceService("test-api-key", "test-model", 0.8)

	if service.apiKey != "test-api-key" {
		t.Errorf("Expected apiKey %s, got %s", "test-api-key", service.apiKey)
	}
	if service.modelName != "test-model" {
		t.Errorf("Expected modelName %s, got %s", "test-model", service.modelName)
	}
	if service.baseURL != veniceBaseURL {
		t.Errorf("Expected default base URL, got %s", service.baseURL)
	}
}

func TestVeniceService_Chat(t *testing.T) {
	var got VeniceChatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer v-key", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		_, _ = w.Write([]byte(`{"choices":[{"index":0,"message":{"role":"assistant","content":"Rats scatter."}}]}`))
	}))
	defer srv.Close()

	messages := []chat.ChatMessage{
		{Role: chat.ChatRoleSystem, Content: "DM"},
		{Role: chat.ChatRoleUser, Content: "Light a torch."},
	}
	resp, err := NewVeniceService("v-key", "llama", 0.8).WithBaseURL(srv.URL).Chat(context.Background(), messages)
	require.NoError(t, err)

	assert.Equal(t, "Rats scatter.", resp.Message)
	assert.Equal(t, messages, got.Messages, "system messages are passed through")
	assert.Equal(t, "off", got.VeniceParameters.EnableWebSearch)
	assert.False(t, got.Stream)
}

func TestVeniceService_Failures(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		body      string
		wantEmpty bool
	}{
		{"server error", http.StatusInternalServerError, `oops`, false},
		{"api error", http.StatusOK, `{"error":{"message":"bad model"}}`, false},
		{"no choices", http.StatusOK, `{"choices":[]}`, true},
		{"blank content", http.StatusOK, `{"choices":[{"message":{"content":""}}]}`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			_, err := NewVeniceService("k", "m", 0.8).WithBaseURL(srv.URL).Chat(context.Background(), []chat.ChatMessage{{Role: "user", Content: "x"}})
			require.Error(t, err)
			assert.Equal(t, tt.wantEmpty, errors.Is(err, ErrEmptyResponse))
		})
	}
}
