package groq

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"krishi-voice-be/pkg/llm"
)

const defaultBaseURL = "https://api.groq.com/openai/v1"

// GroqProvider talks to Groq's OpenAI-compatible chat completions API.
type GroqProvider struct {
	BaseURL   string
	APIKey    string
	ModelName string
	Client    *http.Client
}

var _ llm.LLMProvider = &GroqProvider{}

func NewGroqProvider(apiKey, modelName string) *GroqProvider {
	return &GroqProvider{
		BaseURL:   defaultBaseURL,
		APIKey:    apiKey,
		ModelName: modelName,
		Client: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

// --- Request/Response structs (Internal to this package) ---

type groqChatRequest struct {
	Model       string               `json:"model"`
	Messages    []groqMessage        `json:"messages"`
	Tools       []llm.ToolDefinition `json:"tools,omitempty"`
	Temperature float64              `json:"temperature"`
	MaxTokens   int                  `json:"max_tokens,omitempty"`
}

type groqMessage struct {
	Role       string         `json:"role"`
	Content    string         `json:"content"`
	ToolCalls  []groqToolCall `json:"tool_calls,omitempty"`
	ToolCallID string         `json:"tool_call_id,omitempty"`
}

type groqToolCall struct {
	ID       string `json:"id"`
	Type     string `json:"type"`
	Function struct {
		Name      string `json:"name"`
		Arguments string `json:"arguments"` // JSON-encoded per the OpenAI wire format
	} `json:"function"`
}

type groqChatResponse struct {
	Choices []struct {
		Message struct {
			Role      string         `json:"role"`
			Content   string         `json:"content"`
			ToolCalls []groqToolCall `json:"tool_calls"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
}

// --- Interface Implementation ---

func (g *GroqProvider) ChatWithTools(ctx context.Context, history []llm.Message, tools []llm.ToolDefinition, opts ...llm.Option) (*llm.Decision, error) {
	options := &llm.Options{
		Temperature: 0.0, // Deterministic, fact-based responses
	}
	for _, opt := range opts {
		opt(options)
	}

	messages := make([]groqMessage, len(history))
	for i, msg := range history {
		role := msg.Role
		if role == "model" {
			role = "assistant"
		}
		messages[i] = groqMessage{
			Role:       role,
			Content:    msg.Content,
			ToolCalls:  encodeToolCalls(msg.ToolCalls),
			ToolCallID: msg.ToolCallID,
		}
	}

	model := g.ModelName
	if options.Model != "" {
		model = options.Model
	}

	reqPayload := groqChatRequest{
		Model:       model,
		Messages:    messages,
		Tools:       tools,
		Temperature: options.Temperature,
		MaxTokens:   options.MaxTokens,
	}

	payloadBytes, err := json.Marshal(reqPayload)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	url := g.BaseURL + "/chat/completions"
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(payloadBytes))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+g.APIKey)

	resp, err := g.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("groq request failed: %w", err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("groq error: status %d, body: %s", resp.StatusCode, string(bodyBytes))
	}

	var groqResp groqChatResponse
	if err := json.Unmarshal(bodyBytes, &groqResp); err != nil {
		return nil, fmt.Errorf("%w: %v", llm.ErrMalformedDecision, err)
	}
	if len(groqResp.Choices) == 0 {
		return nil, fmt.Errorf("%w: empty choices", llm.ErrMalformedDecision)
	}

	choice := groqResp.Choices[0].Message

	if len(choice.ToolCalls) > 0 {
		calls := make([]llm.ToolCall, len(choice.ToolCalls))
		for i, tc := range choice.ToolCalls {
			var args map[string]interface{}
			if tc.Function.Arguments != "" {
				// Unparseable argument JSON is left nil so schema validation
				// rejects the call and the loop feeds the error back to the model.
				_ = json.Unmarshal([]byte(tc.Function.Arguments), &args)
			}
			calls[i] = llm.ToolCall{
				ID: tc.ID,
				Function: llm.FunctionCall{
					Name:      tc.Function.Name,
					Arguments: args,
				},
			}
		}
		return &llm.Decision{ToolCalls: calls}, nil
	}

	if choice.Content == "" {
		return nil, fmt.Errorf("%w: neither content nor tool calls present", llm.ErrMalformedDecision)
	}
	return &llm.Decision{Answer: choice.Content}, nil
}

// encodeToolCalls re-encodes prior assistant tool requests into the OpenAI
// wire format, arguments as a JSON string.
func encodeToolCalls(calls []llm.ToolCall) []groqToolCall {
	if len(calls) == 0 {
		return nil
	}
	encoded := make([]groqToolCall, len(calls))
	for i, call := range calls {
		argBytes, _ := json.Marshal(call.Function.Arguments)
		encoded[i].ID = call.ID
		encoded[i].Type = "function"
		encoded[i].Function.Name = call.Function.Name
		encoded[i].Function.Arguments = string(argBytes)
	}
	return encoded
}
