package factory

import (
	"fmt"

	"krishi-voice-be/pkg/llm"
	"krishi-voice-be/pkg/llm/groq"
	"krishi-voice-be/pkg/llm/ollama"
)

func NewLLMProvider(providerType, modelName, baseURL, apiKey string) (llm.LLMProvider, error) {
	switch providerType {
	case "groq":
		if apiKey == "" {
			return nil, fmt.Errorf("groq provider requires an API key")
		}
		provider := groq.NewGroqProvider(apiKey, modelName)
		if baseURL != "" {
			provider.BaseURL = baseURL
		}
		return provider, nil
	case "ollama":
		if baseURL == "" {
			baseURL = "http://localhost:11434" // Default
		}
		return ollama.NewOllamaProvider(baseURL, modelName), nil
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", providerType)
	}
}
