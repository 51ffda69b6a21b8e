package bootstrap

import (
	"log"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/erickyegon/finsolve-rag-rbac-assistant-sub000/internal/config"
	"github.com/erickyegon/finsolve-rag-rbac-assistant-sub000/internal/pkg/logger"
	"github.com/erickyegon/finsolve-rag-rbac-assistant-sub000/internal/repository/memory"
	"github.com/erickyegon/finsolve-rag-rbac-assistant-sub000/internal/service"
	"github.com/erickyegon/finsolve-rag-rbac-assistant-sub000/pkg/agent"
	"github.com/erickyegon/finsolve-rag-rbac-assistant-sub000/pkg/auth"
	"github.com/erickyegon/finsolve-rag-rbac-assistant-sub000/pkg/corpus"
	"github.com/erickyegon/finsolve-rag-rbac-assistant-sub000/pkg/docindex"
	"github.com/erickyegon/finsolve-rag-rbac-assistant-sub000/pkg/embedding"
	"github.com/erickyegon/finsolve-rag-rbac-assistant-sub000/pkg/events"
	"github.com/erickyegon/finsolve-rag-rbac-assistant-sub000/pkg/fusion"
	"github.com/erickyegon/finsolve-rag-rbac-assistant-sub000/pkg/llm"
	"github.com/erickyegon/finsolve-rag-rbac-assistant-sub000/pkg/llm/cascade"
	"github.com/erickyegon/finsolve-rag-rbac-assistant-sub000/pkg/llm/factory"
	pktNats "github.com/erickyegon/finsolve-rag-rbac-assistant-sub000/pkg/nats"
)

type Container struct {
	Assistant IAssistant
	Catalog   *corpus.Catalog
	Accessor  *corpus.Accessor
	Index     docindex.Index
	Embedder  embedding.Provider
	Chunker   *docindex.Chunker
	Logger    logger.ILogger

	natsPub *pktNats.Publisher
}

// IAssistant re-exports the service boundary so callers depend on bootstrap
// alone.
type IAssistant = service.IAssistantService

func NewContainer(cfg *config.Config) *Container {
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	// Corpus and access control
	authorizer := auth.NewAuthorizer()
	catalog := corpus.NewCatalog(cfg.Corpus.DataDir, sysLogger)
	accessor := corpus.NewAccessor(catalog, authorizer, sysLogger)

	// Embedding provider
	var embeddingProvider embedding.Provider
	if cfg.Ai.EmbeddingProvider == "ollama" {
		embeddingProvider = embedding.NewOllamaProvider(cfg.Ai.OllamaBaseURL, cfg.Ai.OllamaModel)
		log.Printf("[INFO] Using Embedding Provider: OLLAMA (%s)", cfg.Ai.OllamaModel)
	} else {
		embeddingProvider = embedding.NewGeminiProvider(cfg.Ai.GeminiApiKey)
		log.Printf("[INFO] Using Embedding Provider: GEMINI")
	}

	// Vector index: Postgres with pgvector when configured, in-memory
	// otherwise.
	searchOptions := docindex.SearchOptions{
		Limit:     cfg.Corpus.MaxRetrieved,
		Threshold: cfg.Corpus.SearchThreshold,
		Timeout:   10 * time.Second,
	}
	var index docindex.Index
	if cfg.Database.Connection != "" {
		db, err := gorm.Open(postgres.Open(cfg.Database.Connection), &gorm.Config{})
		if err != nil {
			log.Fatalf("[FATAL] Failed to connect to database: %v", err)
		}
		pgIndex := docindex.NewPGIndex(db, searchOptions)
		if err := pgIndex.Migrate(); err != nil {
			log.Fatalf("[FATAL] Failed to migrate document index: %v", err)
		}
		index = pgIndex
		log.Printf("[INFO] Using Postgres document index")
	} else {
		index = docindex.NewMemoryIndex(searchOptions)
		log.Printf("[INFO] Using in-memory document index")
	}

	// LLM cascade: primary plus optional fallback
	primary, err := factory.NewProvider(cfg.Ai.LLMProvider, cfg.Ai.LLMModel, cfg.Ai.OllamaBaseURL, cfg.Ai.GeminiApiKey)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize LLM Provider: %v", err)
	}
	log.Printf("[INFO] Using LLM Provider: %s (%s)", cfg.Ai.LLMProvider, cfg.Ai.LLMModel)

	var fallback llm.Provider
	if cfg.Ai.FallbackProvider != "" {
		fallback, err = factory.NewProvider(cfg.Ai.FallbackProvider, cfg.Ai.FallbackModel, cfg.Ai.OllamaBaseURL, cfg.Ai.GeminiApiKey)
		if err != nil {
			log.Printf("[WARN] Failed to initialize fallback LLM Provider: %v", err)
		} else {
			log.Printf("[INFO] Using fallback LLM Provider: %s (%s)", cfg.Ai.FallbackProvider, cfg.Ai.FallbackModel)
		}
	}
	cascadeClient := cascade.NewClient(primary, fallback, cascade.Config{
		AttemptsPerProvider: cfg.Ai.AttemptsPerProvider,
		Timeout:             time.Duration(cfg.Ai.RequestTimeoutSecs) * time.Second,
		MaxPerMinute:        cfg.Ai.RequestsPerMinute,
	}, sysLogger)

	// Audit bus, optional
	var natsPub *pktNats.Publisher
	var bus events.EventBus
	if cfg.App.NatsURL != "" {
		natsPub, err = pktNats.NewPublisher(cfg.App.NatsURL)
		if err != nil {
			log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
		} else {
			bus = natsPub
		}
	}
	audit := events.NewNatsAuditPublisher(bus, sysLogger)

	// Agent and service
	fusionEngine := fusion.NewEngine(fusion.NewAnalyzer(), sysLogger)
	assistantAgent := agent.New(agent.Deps{
		Authorizer: authorizer,
		Accessor:   accessor,
		Index:      index,
		Embedder:   embeddingProvider,
		Fusion:     fusionEngine,
		LLM:        cascadeClient,
		Logger:     sysLogger,
		MaxDocs:    cfg.Corpus.MaxRetrieved,
	})

	sessionRepo := memory.NewSessionRepository()
	assistant := service.NewAssistantService(assistantAgent, sessionRepo, audit, sysLogger)

	return &Container{
		Assistant: assistant,
		Catalog:   catalog,
		Accessor:  accessor,
		Index:     index,
		Embedder:  embeddingProvider,
		Chunker:   docindex.NewChunker(cfg.Corpus.ChunkSize, cfg.Corpus.ChunkOverlap),
		Logger:    sysLogger,
		natsPub:   natsPub,
	}
}

// Close releases external connections.
func (c *Container) Close() {
	if c.natsPub != nil {
		c.natsPub.Close()
	}
	if c.Logger != nil {
		_ = c.Logger.Sync()
	}
}
