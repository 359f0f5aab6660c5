package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/finbrief/pkg/config"
	"github.com/wonny/finbrief/pkg/logger"
)

func testLLMConfig(provider, baseURL string) config.LLMConfig {
	return config.LLMConfig{
		Provider: provider,
		APIKey:   "test-key",
		Model:    "test-model",
		BaseURL:  baseURL,
		Timeout:  5 * time.Second,
	}
}

func TestOpenAI_Generate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var body struct {
			Model     string `json:"model"`
			MaxTokens int    `json:"max_tokens"`
			Messages  []struct {
				Role    string `json:"role"`
				Content string `json:"content"`
			} `json:"messages"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "test-model", body.Model)
		assert.Equal(t, 50, body.MaxTokens)
		require.Len(t, body.Messages, 2)
		assert.Equal(t, "system", body.Messages[0].Role)
		assert.Equal(t, "user", body.Messages[1].Role)
		assert.Equal(t, "애플", body.Messages[1].Content)

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"id": "chatcmpl-1",
			"object": "chat.completion",
			"model": "test-model",
			"choices": [{"index": 0, "message": {"role": "assistant", "content": "  Apple Inc.\n"}, "finish_reason": "stop"}]
		}`))
	}))
	defer server.Close()

	provider := NewOpenAI(testLLMConfig(config.ProviderOpenAI, server.URL))
	assert.Equal(t, "openai", provider.Name())
	assert.Equal(t, "test-model", provider.Model())

	text, err := provider.Generate(context.Background(), Request{
		System:      "translate",
		Prompt:      "애플",
		MaxTokens:   50,
		Temperature: 0.7,
	})
	require.NoError(t, err)
	assert.Equal(t, "Apple Inc.", text)
}

func TestOpenAI_EmptyChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id": "chatcmpl-1", "choices": []}`))
	}))
	defer server.Close()

	_, err := NewOpenAI(testLLMConfig(config.ProviderOpenAI, server.URL)).
		Generate(context.Background(), Request{Prompt: "x"})
	assert.ErrorIs(t, err, ErrEmptyResponse)
}

func TestOpenAI_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error": {"message": "bad key", "type": "invalid_request_error"}}`))
	}))
	defer server.Close()

	_, err := NewOpenAI(testLLMConfig(config.ProviderOpenAI, server.URL)).
		Generate(context.Background(), Request{Prompt: "x"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad key")
}

func TestClaude_Generate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasSuffix(r.URL.Path, "/v1/messages"))
		assert.Equal(t, "test-key", r.Header.Get("X-Api-Key"))

		var body struct {
			Model     string `json:"model"`
			MaxTokens int    `json:"max_tokens"`
			System    []struct {
				Text string `json:"text"`
			} `json:"system"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "test-model", body.Model)
		assert.Equal(t, defaultClaudeMaxTokens, body.MaxTokens)
		require.Len(t, body.System, 1)
		assert.Equal(t, "summarize", body.System[0].Text)

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"id": "msg_1",
			"type": "message",
			"role": "assistant",
			"model": "test-model",
			"content": [{"type": "text", "text": "요약입니다."}],
			"stop_reason": "end_turn",
			"usage": {"input_tokens": 10, "output_tokens": 5}
		}`))
	}))
	defer server.Close()

	provider := NewClaude(testLLMConfig(config.ProviderClaude, server.URL))
	assert.Equal(t, "claude", provider.Name())

	text, err := provider.Generate(context.Background(), Request{System: "summarize", Prompt: "doc"})
	require.NoError(t, err)
	assert.Equal(t, "요약입니다.", text)
}

func TestGemini_Generate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasSuffix(r.URL.Path, "test-model:generateContent"), r.URL.Path)

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"candidates": [{
				"content": {"role": "model", "parts": [{"text": "Apple Inc."}]},
				"finishReason": "STOP"
			}]
		}`))
	}))
	defer server.Close()

	provider, err := NewGemini(context.Background(), testLLMConfig(config.ProviderGemini, server.URL))
	require.NoError(t, err)
	assert.Equal(t, "gemini", provider.Name())

	text, err := provider.Generate(context.Background(), Request{System: "s", Prompt: "애플", Temperature: 0.7})
	require.NoError(t, err)
	assert.Equal(t, "Apple Inc.", text)
}

func TestNewProvider(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		provider string
		wantName string
		wantErr  bool
	}{
		{config.ProviderOpenAI, "openai", false},
		{config.ProviderClaude, "claude", false},
		{config.ProviderGemini, "gemini", false},
		{"mistral", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.provider, func(t *testing.T) {
			provider, err := NewProvider(ctx, testLLMConfig(tt.provider, ""), logger.Nop())
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantName, provider.Name())
			assert.Equal(t, "test-model", provider.Model())
		})
	}
}

func TestNewProvider_MissingKey(t *testing.T) {
	cfg := testLLMConfig(config.ProviderOpenAI, "")
	cfg.APIKey = ""

	_, err := NewProvider(context.Background(), cfg, logger.Nop())
	assert.Error(t, err)
}
