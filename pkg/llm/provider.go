package llm

import (
	"context"
	"errors"
)

// Message represents a chat message in a provider-agnostic format
type Message struct {
	Role       string // "user", "assistant", "system", "tool"
	Content    string
	ToolCalls  []ToolCall // set on "assistant" messages that requested tools
	ToolCallID string     // set on "tool" messages, echoes the call being answered
}

// FunctionCall is the function half of a requested tool call.
type FunctionCall struct {
	Name      string                 `json:"name"`
	Arguments map[string]interface{} `json:"arguments"`
}

// ToolCall is a single tool invocation requested by the model.
type ToolCall struct {
	ID       string       `json:"id"`
	Function FunctionCall `json:"function"`
}

// FunctionDefinition describes a callable function in JSON-schema form.
type FunctionDefinition struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	Parameters  map[string]interface{} `json:"parameters"`
}

// ToolDefinition is the descriptor handed to the model per registered tool.
type ToolDefinition struct {
	Type     string             `json:"type"` // always "function"
	Function FunctionDefinition `json:"function"`
}

// Decision is the structured output of one reasoning invocation.
// Exactly one of Answer or ToolCalls is populated.
type Decision struct {
	Answer    string
	ToolCalls []ToolCall
}

// IsToolCall reports whether the model asked for a tool instead of answering.
func (d *Decision) IsToolCall() bool {
	return len(d.ToolCalls) > 0
}

// ErrMalformedDecision is returned when a provider responds with output that
// cannot be mapped to a Decision. Callers treat it as a reasoning-engine
// failure, fatal to the current turn.
var ErrMalformedDecision = errors.New("llm: malformed decision payload")

// Option allows for optional parameters like Temperature, MaxTokens, etc.
type Option func(*Options)

type Options struct {
	Temperature float64
	MaxTokens   int
	Model       string // Override default model
}

func WithTemperature(temp float64) Option {
	return func(o *Options) {
		o.Temperature = temp
	}
}

func WithMaxTokens(n int) Option {
	return func(o *Options) {
		o.MaxTokens = n
	}
}

func WithModel(model string) Option {
	return func(o *Options) {
		o.Model = model
	}
}

// LLMProvider defines the contract for any LLM backend.
type LLMProvider interface {
	// ChatWithTools sends a chat history plus tool descriptors and returns the
	// model's decision: either a final answer or a tool invocation request.
	// A nil error guarantees exactly one variant is populated.
	ChatWithTools(ctx context.Context, history []Message, tools []ToolDefinition, options ...Option) (*Decision, error)
}
