package inference

import (
	"fmt"
	"os"
	"strings"
)

// Provider names accepted by the factory.
const (
	ProviderOpenAI = "openai"
	ProviderOllama = "ollama"
	ProviderLocal  = "local"
)

// Environment variables consulted by NewFromEnv.
const (
	EnvProvider     = "DOCSIFT_MODEL_PROVIDER"
	EnvModelName    = "DOCSIFT_MODEL_NAME"
	EnvOpenAIAPIKey = "OPENAI_API_KEY"
	EnvOllamaHost   = "OLLAMA_HOST"
)

// NewFromEnv creates a model based on environment variables. Priority
// mirrors the embedding factory:
//  1. DOCSIFT_MODEL_PROVIDER (openai, ollama, local)
//  2. OPENAI_API_KEY set -> OpenAI
//  3. OLLAMA_HOST set -> Ollama
//  4. Local fallback (lexical QA, no abstractive summarization)
func NewFromEnv() (Model, error) {
	name := os.Getenv(EnvModelName)

	if provider := strings.ToLower(os.Getenv(EnvProvider)); provider != "" {
		switch provider {
		case ProviderOpenAI:
			return NewOpenAIModel(os.Getenv(EnvOpenAIAPIKey), name)
		case ProviderOllama:
			return NewOllamaModel(os.Getenv(EnvOllamaHost), name), nil
		case ProviderLocal:
			return NewLocalModel(), nil
		default:
			return nil, fmt.Errorf("%w: %s", ErrUnknownProvider, provider)
		}
	}

	if key := os.Getenv(EnvOpenAIAPIKey); key != "" {
		return NewOpenAIModel(key, name)
	}
	if host := os.Getenv(EnvOllamaHost); host != "" {
		return NewOllamaModel(host, name), nil
	}
	return NewLocalModel(), nil
}
