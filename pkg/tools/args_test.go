package tools

import (
	"context"
	"errors"
	"testing"

	"krishi-voice-be/pkg/llm"
)

type fakeTool struct {
	name string
}

func (f *fakeTool) Definition() llm.ToolDefinition {
	return definition(f.name, "fake", map[string]interface{}{}, nil)
}

func (f *fakeTool) Invoke(ctx context.Context, args map[string]interface{}) (interface{}, error) {
	return nil, nil
}

func TestValidateArguments(t *testing.T) {
	def := definition("test_tool", "test", map[string]interface{}{
		"location": map[string]interface{}{"type": "string"},
		"days":     map[string]interface{}{"type": "integer"},
		"amount":   map[string]interface{}{"type": "number"},
		"urgent":   map[string]interface{}{"type": "boolean"},
		"topic": map[string]interface{}{
			"type": "string",
			"enum": []string{"general", "market"},
		},
	}, []string{"location"})

	tests := []struct {
		name    string
		args    map[string]interface{}
		wantErr bool
	}{
		{
			name: "valid minimal",
			args: map[string]interface{}{"location": "Hisar"},
		},
		{
			name: "valid full",
			args: map[string]interface{}{
				"location": "Hisar",
				"days":     float64(3), // json numbers decode as float64
				"amount":   2.5,
				"urgent":   true,
				"topic":    "market",
			},
		},
		{
			name:    "missing required",
			args:    map[string]interface{}{"days": float64(3)},
			wantErr: true,
		},
		{
			name:    "unexpected argument",
			args:    map[string]interface{}{"location": "Hisar", "city": "Pune"},
			wantErr: true,
		},
		{
			name:    "wrong type",
			args:    map[string]interface{}{"location": 42},
			wantErr: true,
		},
		{
			name:    "fractional integer",
			args:    map[string]interface{}{"location": "Hisar", "days": 2.5},
			wantErr: true,
		},
		{
			name:    "enum violation",
			args:    map[string]interface{}{"location": "Hisar", "topic": "gossip"},
			wantErr: true,
		},
		{
			name: "whole float accepted as integer",
			args: map[string]interface{}{"location": "Hisar", "days": float64(7)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateArguments(def, tt.args)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateArguments() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidArguments) {
				t.Errorf("error %v should wrap ErrInvalidArguments", err)
			}
		})
	}
}

func TestRegistry(t *testing.T) {
	reg := NewRegistry()

	first := &fakeTool{name: "alpha"}
	second := &fakeTool{name: "beta"}

	if err := reg.Register(first); err != nil {
		t.Fatal(err)
	}
	if err := reg.Register(second); err != nil {
		t.Fatal(err)
	}
	if err := reg.Register(&fakeTool{name: "alpha"}); err == nil {
		t.Fatal("duplicate registration must fail")
	}

	got, err := reg.Get("alpha")
	if err != nil || got != first {
		t.Fatalf("Get(alpha) = %v, %v", got, err)
	}

	if _, err := reg.Get("gamma"); !errors.Is(err, ErrUnknownTool) {
		t.Fatalf("Get(gamma) err = %v, want ErrUnknownTool", err)
	}

	defs := reg.Definitions()
	if len(defs) != 2 || defs[0].Function.Name != "alpha" || defs[1].Function.Name != "beta" {
		t.Errorf("Definitions() not in registration order: %+v", defs)
	}
}
