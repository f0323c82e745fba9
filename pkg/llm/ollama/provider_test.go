package ollama

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"krishi-voice-be/pkg/llm"
)

func TestChatWithToolsToolCall(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req ollamaChatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if req.Stream {
			t.Error("stream must be disabled")
		}
		w.Write([]byte(`{"model":"qwen2.5","message":{"role":"assistant","content":"","tool_calls":[{"function":{"name":"get_market_prices","arguments":{"crop":"Wheat"}}}]},"done":true}`))
	}))
	defer srv.Close()

	provider := NewOllamaProvider(srv.URL, "qwen2.5")
	decision, err := provider.ChatWithTools(context.Background(), []llm.Message{
		{Role: "user", Content: "wheat price"},
	}, nil)
	if err != nil {
		t.Fatalf("ChatWithTools: %v", err)
	}
	if !decision.IsToolCall() {
		t.Fatal("expected a tool call")
	}
	call := decision.ToolCalls[0]
	if call.Function.Name != "get_market_prices" {
		t.Errorf("tool = %q", call.Function.Name)
	}
	// Ollama sends arguments as a JSON object, already decoded.
	if call.Function.Arguments["crop"] != "Wheat" {
		t.Errorf("arguments = %v", call.Function.Arguments)
	}
	if call.ID == "" {
		t.Error("expected a synthesized call id")
	}
}

func TestChatWithToolsAnswer(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"model":"qwen2.5","message":{"role":"assistant","content":"Irrigate every ten days."},"done":true}`))
	}))
	defer srv.Close()

	provider := NewOllamaProvider(srv.URL, "qwen2.5")
	decision, err := provider.ChatWithTools(context.Background(), nil, nil)
	if err != nil {
		t.Fatalf("ChatWithTools: %v", err)
	}
	if decision.Answer != "Irrigate every ten days." {
		t.Errorf("Answer = %q", decision.Answer)
	}
}

func TestChatWithToolsEmptyResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"model":"qwen2.5","message":{"role":"assistant","content":""},"done":true}`))
	}))
	defer srv.Close()

	provider := NewOllamaProvider(srv.URL, "qwen2.5")
	if _, err := provider.ChatWithTools(context.Background(), nil, nil); !errors.Is(err, llm.ErrMalformedDecision) {
		t.Fatalf("err = %v, want ErrMalformedDecision", err)
	}
}
