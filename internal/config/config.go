package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Keys     APIKeys
	Ai       AIConfig
	Voice    VoiceConfig
}

type AppConfig struct {
	Port               string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
	NatsURL            string
}

type DatabaseConfig struct {
	Connection string
}

type APIKeys struct {
	OpenWeather    string
	GovData        string
	GNews          string
	Groq           string
	GoogleGemini   string
	TelephonyToken string
	ArchiveTopic   string // Transcript archiving topic
}

type AIConfig struct {
	EmbeddingProvider string // "gemini" or "ollama"
	OllamaBaseURL     string
	OllamaModel       string
	LLMProvider       string // "groq" or "ollama"
	LLMModel          string // e.g. "llama-3.3-70b-versatile", "qwen2.5"
	GroqBaseURL       string
}

// VoiceConfig bounds the dialogue loop. Defaults are tuned for a live phone
// call: a caller waiting through more than a few tool rounds hangs up.
type VoiceConfig struct {
	SessionTimeoutSeconds int
	TurnBudget            int
	RetrievalK            int
	ToolTimeoutSeconds    int
	ToolMaxRetries        int
	MaxAnswerChars        int
	MarketPriceAPIURL     string
	SoilDataAPIURL        string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "app.log.csv"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			NatsURL:            getEnv("NATS_URL", "nats://localhost:4222"),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		Keys: APIKeys{
			OpenWeather:    getEnv("OPENWEATHER_API_KEY", ""),
			GovData:        getEnv("GOV_DATA_API_KEY", ""),
			GNews:          getEnv("GNEWS_API_KEY", ""),
			Groq:           getEnv("GROQ_API_KEY", ""),
			GoogleGemini:   getEnv("GOOGLE_GEMINI_API_KEY", ""),
			TelephonyToken: getEnv("TELEPHONY_TOKEN", ""),
			ArchiveTopic:   getEnv("ARCHIVE_CALL_TOPIC_NAME", "ARCHIVE_CALL_TRANSCRIPT"),
		},
		Ai: AIConfig{
			EmbeddingProvider: getEnv("EMBEDDING_PROVIDER", "gemini"),
			OllamaBaseURL:     getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
			OllamaModel:       getEnv("OLLAMA_EMBEDDING_MODEL", "nomic-embed-text"),
			LLMProvider:       getEnv("LLM_PROVIDER", "groq"),
			LLMModel:          getEnv("LLM_MODEL", "llama-3.3-70b-versatile"),
			GroqBaseURL:       getEnv("GROQ_BASE_URL", ""),
		},
		Voice: VoiceConfig{
			SessionTimeoutSeconds: getEnvAsInt("SESSION_TIMEOUT_SECONDS", 300),
			TurnBudget:            getEnvAsInt("TURN_BUDGET", 4),
			RetrievalK:            getEnvAsInt("RETRIEVAL_K", 4),
			ToolTimeoutSeconds:    getEnvAsInt("TOOL_TIMEOUT_SECONDS", 5),
			ToolMaxRetries:        getEnvAsInt("TOOL_MAX_RETRIES", 0),
			MaxAnswerChars:        getEnvAsInt("MAX_ANSWER_CHARS", 600),
			MarketPriceAPIURL:     getEnv("MARKET_PRICE_API_URL", "https://api.data.gov.in/resource/9ef84268-d588-465a-a308-a864a43d0070"),
			SoilDataAPIURL:        getEnv("SOIL_API_URL", ""), // no stable public resource id; deployment supplies it
		},
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}
