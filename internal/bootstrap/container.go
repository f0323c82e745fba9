package bootstrap

import (
	"log"
	"net/http"
	"time"

	"krishi-voice-be/internal/config"
	"krishi-voice-be/internal/controller"
	"krishi-voice-be/internal/pkg/logger"
	"krishi-voice-be/internal/repository/implementation"
	"krishi-voice-be/internal/repository/memory"
	"krishi-voice-be/internal/service"
	"krishi-voice-be/pkg/dialog/executor"
	"krishi-voice-be/pkg/dialog/session"
	"krishi-voice-be/pkg/embedding"
	"krishi-voice-be/pkg/llm/factory"
	"krishi-voice-be/pkg/rag/search"
	"krishi-voice-be/pkg/tools"

	pktNats "krishi-voice-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	VoiceController controller.IVoiceController

	// Background Services (Exposed for main.go to run)
	ArchiverService service.IArchiverService
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// 3. AI Providers
	// Initialize Embedding Provider based on Config
	var embeddingProvider embedding.EmbeddingProvider
	if cfg.Ai.EmbeddingProvider == "ollama" {
		embeddingProvider = embedding.NewOllamaProvider(
			cfg.Ai.OllamaBaseURL,
			cfg.Ai.OllamaModel,
		)
		log.Printf("[INFO] Using Embedding Provider: OLLAMA (%s)", cfg.Ai.OllamaModel)
	} else {
		embeddingProvider = embedding.NewGeminiProvider(cfg.Keys.GoogleGemini)
		log.Printf("[INFO] Using Embedding Provider: GEMINI")
	}

	// Initialize LLM Provider based on Config
	llmBaseURL := cfg.Ai.OllamaBaseURL
	if cfg.Ai.LLMProvider == "groq" {
		llmBaseURL = cfg.Ai.GroqBaseURL
	}
	llmProvider, err := factory.NewLLMProvider(
		cfg.Ai.LLMProvider,
		cfg.Ai.LLMModel,
		llmBaseURL,
		cfg.Keys.Groq,
	)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize LLM Provider: %v", err)
	}
	log.Printf("[INFO] Using LLM Provider: %s (%s)", cfg.Ai.LLMProvider, cfg.Ai.LLMModel)

	// 4. Session State
	sessionTimeout := time.Duration(cfg.Voice.SessionTimeoutSeconds) * time.Second
	sessionRepo := memory.NewSessionRepository(sessionTimeout)
	sessionManager := session.NewManager(sessionRepo)

	// 5. Infrastructure
	// NATS
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
	}

	// 6. Repositories
	passageRepo := implementation.NewPassageEmbeddingRepository(db)
	transcriptRepo := implementation.NewCallTranscriptRepository(db)

	// 7. Retrieval + Tools
	orchestrator := search.NewOrchestrator(embeddingProvider, passageRepo, log.Default())

	toolTimeout := time.Duration(cfg.Voice.ToolTimeoutSeconds) * time.Second
	httpCfg := tools.HTTPConfig{
		Client:     &http.Client{Timeout: toolTimeout},
		MaxRetries: cfg.Voice.ToolMaxRetries,
	}

	registry := tools.NewRegistry()
	registryTools := []tools.Tool{
		tools.NewWeatherTool(cfg.Keys.OpenWeather, httpCfg),
		tools.NewMarketPriceTool(cfg.Keys.GovData, cfg.Voice.MarketPriceAPIURL, httpCfg),
		tools.NewNewsTool(cfg.Keys.GNews, httpCfg),
		tools.NewKnowledgeBaseTool(orchestrator, cfg.Voice.RetrievalK),
		tools.NewDateTimeTool(),
	}
	if cfg.Voice.SoilDataAPIURL != "" {
		registryTools = append(registryTools, tools.NewSoilMoistureTool(cfg.Keys.GovData, cfg.Voice.SoilDataAPIURL, httpCfg))
	} else {
		log.Printf("[WARN] SOIL_API_URL not set, soil moisture tool disabled")
	}
	for _, tool := range registryTools {
		if err := registry.Register(tool); err != nil {
			log.Fatalf("[FATAL] Failed to register tool: %v", err)
		}
	}

	turnExecutor := executor.NewTurnExecutor(llmProvider, registry, executor.Config{
		TurnBudget:   cfg.Voice.TurnBudget,
		ToolTimeout:  toolTimeout,
		MaxAnswerLen: cfg.Voice.MaxAnswerChars,
	}, log.Default())

	// 8. Services
	publisherService := service.NewPublisherService(cfg.Keys.ArchiveTopic, pubSub)
	archiverService := service.NewArchiverService(
		pubSub,
		cfg.Keys.ArchiveTopic,
		transcriptRepo,
	)

	voiceService := service.NewVoiceService(
		sessionManager,
		turnExecutor,
		publisherService,
		natsPub,
		sysLogger,
	)

	return &Container{
		VoiceController: controller.NewVoiceController(voiceService),

		ArchiverService: archiverService,
	}
}
