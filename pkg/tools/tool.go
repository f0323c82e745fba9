package tools

import (
	"context"
	"errors"

	"krishi-voice-be/pkg/llm"
)

// Tool is a typed external capability the reasoning engine may invoke mid-turn.
// Invoke receives already-validated arguments and returns a structured payload;
// the reasoning engine composes the final phrasing, never the tool.
type Tool interface {
	Definition() llm.ToolDefinition
	Invoke(ctx context.Context, args map[string]interface{}) (interface{}, error)
}

var (
	// ErrUnknownTool: the reasoning engine asked for a name nobody registered.
	ErrUnknownTool = errors.New("tools: unknown tool")

	// ErrInvalidArguments: arguments do not satisfy the tool's schema.
	// Raised before any outbound call is made.
	ErrInvalidArguments = errors.New("tools: invalid arguments")

	// ErrToolUnavailable: the external provider timed out or answered non-success.
	ErrToolUnavailable = errors.New("tools: provider unavailable")
)

// definition is a small helper to cut the boilerplate of JSON-schema descriptors.
func definition(name, description string, properties map[string]interface{}, required []string) llm.ToolDefinition {
	if required == nil {
		required = []string{}
	}
	return llm.ToolDefinition{
		Type: "function",
		Function: llm.FunctionDefinition{
			Name:        name,
			Description: description,
			Parameters: map[string]interface{}{
				"type":       "object",
				"properties": properties,
				"required":   required,
			},
		},
	}
}
