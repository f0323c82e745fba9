package tools

import (
	"fmt"

	"krishi-voice-be/pkg/llm"
)

// ValidateArguments checks a requested argument map against a tool's declared
// schema before any outbound call is made. It covers the subset of JSON schema
// the registry actually uses: required properties, primitive types, and enums.
func ValidateArguments(def llm.ToolDefinition, args map[string]interface{}) error {
	params := def.Function.Parameters

	properties, _ := params["properties"].(map[string]interface{})

	if required, ok := params["required"].([]string); ok {
		for _, name := range required {
			if _, present := args[name]; !present {
				return fmt.Errorf("%w: missing required argument %q", ErrInvalidArguments, name)
			}
		}
	}

	for name, value := range args {
		propSchema, known := properties[name]
		if !known {
			return fmt.Errorf("%w: unexpected argument %q", ErrInvalidArguments, name)
		}
		prop, _ := propSchema.(map[string]interface{})

		if typeName, ok := prop["type"].(string); ok {
			if err := checkType(name, typeName, value); err != nil {
				return err
			}
		}

		if enum, ok := prop["enum"].([]string); ok {
			str, _ := value.(string)
			if !contains(enum, str) {
				return fmt.Errorf("%w: argument %q must be one of %v", ErrInvalidArguments, name, enum)
			}
		}
	}

	return nil
}

func checkType(name, typeName string, value interface{}) error {
	ok := true
	switch typeName {
	case "string":
		_, ok = value.(string)
	case "number":
		switch value.(type) {
		case float64, float32, int, int64: // json decodes numbers as float64
		default:
			ok = false
		}
	case "integer":
		switch v := value.(type) {
		case int, int64:
		case float64:
			ok = v == float64(int64(v))
		default:
			ok = false
		}
	case "boolean":
		_, ok = value.(bool)
	}
	if !ok {
		return fmt.Errorf("%w: argument %q must be a %s", ErrInvalidArguments, name, typeName)
	}
	return nil
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}

// stringArg extracts an optional string argument, defaulting when absent.
func stringArg(args map[string]interface{}, name, fallback string) string {
	if v, ok := args[name].(string); ok && v != "" {
		return v
	}
	return fallback
}
