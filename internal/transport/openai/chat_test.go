package openai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"

	"github.com/sagarpimpale/weather-rag-agent/internal/domain"
)

// chatResponse mirrors the OpenAI-compatible chat completion response.
type chatResponse struct {
	ID      string `json:"id"`
	Object  string `json:"object"`
	Model   string `json:"model"`
	Choices []struct {
		Index   int `json:"index"`
		Message struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
		TotalTokens      int `json:"total_tokens"`
	} `json:"usage"`
}

func chatServer(t *testing.T, content string, check func(body map[string]any)) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if check != nil {
			var body map[string]any
			if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
				t.Errorf("decode request: %v", err)
			}
			check(body)
		}

		resp := chatResponse{ID: "cmpl-1", Object: "chat.completion", Model: "test-model"}
		resp.Choices = append(resp.Choices, struct {
			Index   int `json:"index"`
			Message struct {
				Role    string `json:"role"`
				Content string `json:"content"`
			} `json:"message"`
			FinishReason string `json:"finish_reason"`
		}{
			Message: struct {
				Role    string `json:"role"`
				Content string `json:"content"`
			}{Role: "assistant", Content: content},
			FinishReason: "stop",
		})
		resp.Usage.PromptTokens = 30
		resp.Usage.CompletionTokens = 12
		resp.Usage.TotalTokens = 42

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newChat(url string) *ChatClient {
	return NewChatClient(&ChatConfig{
		APIKey:      "test-key",
		BaseURL:     url,
		Model:       "test-model",
		Temperature: 0.2,
		MaxTokens:   512,
		Logger:      zap.NewNop(),
	})
}

func TestChatClient_Complete(t *testing.T) {
	srv := chatServer(t, "The company serves healthcare clients.", func(body map[string]any) {
		if body["model"] != "test-model" {
			t.Errorf("model = %v", body["model"])
		}
		if temp, _ := body["temperature"].(float64); temp < 0.19 || temp > 0.21 {
			t.Errorf("temperature = %v, want 0.2", body["temperature"])
		}
		msgs, _ := body["messages"].([]any)
		if len(msgs) != 1 {
			t.Fatalf("expected single message, got %d", len(msgs))
		}
		msg, _ := msgs[0].(map[string]any)
		if msg["role"] != "user" {
			t.Errorf("role = %v, want user", msg["role"])
		}
	})

	result, err := newChat(srv.URL).Complete(context.Background(), "what clients?")
	if err != nil {
		t.Fatalf("Complete failed: %v", err)
	}
	if result.Content != "The company serves healthcare clients." {
		t.Errorf("content = %q", result.Content)
	}
	if result.PromptTokens != 30 || result.CompletionTokens != 12 {
		t.Errorf("usage = (%d, %d), want (30, 12)", result.PromptTokens, result.CompletionTokens)
	}
}

func TestChatClient_EmptyChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(chatResponse{ID: "cmpl-1", Object: "chat.completion"})
	}))
	defer srv.Close()

	_, err := newChat(srv.URL).Complete(context.Background(), "prompt")
	if !errors.Is(err, domain.ErrGeneration) {
		t.Errorf("expected ErrGeneration, got %v", err)
	}
}

func TestChatClient_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]any{"message": "upstream failure", "type": "server_error"},
		})
	}))
	defer srv.Close()

	_, err := newChat(srv.URL).Complete(context.Background(), "prompt")
	if !errors.Is(err, domain.ErrGeneration) {
		t.Errorf("expected ErrGeneration, got %v", err)
	}
}

func TestChatClient_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	_, err := newChat(srv.URL).Complete(context.Background(), "prompt")
	if !errors.Is(err, domain.ErrGeneration) {
		t.Errorf("expected ErrGeneration, got %v", err)
	}
}
