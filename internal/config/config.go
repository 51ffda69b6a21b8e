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
	Corpus   CorpusConfig
	Ai       AIConfig
}

type AppConfig struct {
	Environment string
	LogFilePath string
	NatsURL     string
}

type DatabaseConfig struct {
	Connection string
}

type CorpusConfig struct {
	DataDir         string
	ChunkSize       int
	ChunkOverlap    int
	MaxRetrieved    int
	SearchThreshold float64
}

type AIConfig struct {
	EmbeddingProvider string // "gemini" or "ollama"
	OllamaBaseURL     string
	OllamaModel       string

	LLMProvider         string // primary: "ollama" or "gemini"
	LLMModel            string
	FallbackProvider    string // optional second backend
	FallbackModel       string
	GeminiApiKey        string
	RequestsPerMinute   int
	AttemptsPerProvider int
	RequestTimeoutSecs  int
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Environment: getEnv("GO_ENV", "development"),
			LogFilePath: getEnv("LOG_FILE_PATH", "assistant.log"),
			NatsURL:     getEnv("NATS_URL", ""),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		Corpus: CorpusConfig{
			DataDir:         getEnv("CORPUS_DATA_DIR", "./data"),
			ChunkSize:       getEnvAsInt("CORPUS_CHUNK_SIZE", 1000),
			ChunkOverlap:    getEnvAsInt("CORPUS_CHUNK_OVERLAP", 200),
			MaxRetrieved:    getEnvAsInt("MAX_RETRIEVED_DOCS", 5),
			SearchThreshold: getEnvAsFloat("SEARCH_SIMILARITY_THRESHOLD", 0.3),
		},
		Ai: AIConfig{
			EmbeddingProvider:   getEnv("EMBEDDING_PROVIDER", "ollama"),
			OllamaBaseURL:       getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
			OllamaModel:         getEnv("OLLAMA_EMBEDDING_MODEL", "nomic-embed-text"),
			LLMProvider:         getEnv("LLM_PROVIDER", "ollama"),
			LLMModel:            getEnv("LLM_MODEL", "llama3"),
			FallbackProvider:    getEnv("LLM_FALLBACK_PROVIDER", ""),
			FallbackModel:       getEnv("LLM_FALLBACK_MODEL", ""),
			GeminiApiKey:        getEnv("GOOGLE_GEMINI_API_KEY", ""),
			RequestsPerMinute:   getEnvAsInt("LLM_REQUESTS_PER_MINUTE", 14),
			AttemptsPerProvider: getEnvAsInt("LLM_ATTEMPTS_PER_PROVIDER", 2),
			RequestTimeoutSecs:  getEnvAsInt("LLM_REQUEST_TIMEOUT_SECS", 45),
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

func getEnvAsFloat(key string, fallback float64) float64 {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseFloat(strValue, 64); err == nil {
		return value
	}
	return fallback
}
