package factory

import (
	"fmt"

	"github.com/erickyegon/finsolve-rag-rbac-assistant-sub000/pkg/llm"
	"github.com/erickyegon/finsolve-rag-rbac-assistant-sub000/pkg/llm/gemini"
	"github.com/erickyegon/finsolve-rag-rbac-assistant-sub000/pkg/llm/ollama"
)

func NewProvider(providerType, modelName, baseURL, apiKey string) (llm.Provider, error) {
	switch providerType {
	case "ollama":
		if baseURL == "" {
			baseURL = "http://localhost:11434"
		}
		return ollama.NewOllamaProvider(baseURL, modelName), nil
	case "gemini":
		if apiKey == "" {
			return nil, fmt.Errorf("gemini provider requires an api key")
		}
		return gemini.NewGeminiProvider(apiKey, modelName), nil
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", providerType)
	}
}
