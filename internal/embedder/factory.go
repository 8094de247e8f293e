package embedder

import (
	"fmt"
	"os"
	"strings"
)

// Environment variables consulted by NewFromEnv.
const (
	EnvProvider     = "DOCSIFT_EMBEDDING_PROVIDER"
	EnvOpenAIAPIKey = "OPENAI_API_KEY"
	EnvOllamaHost   = "OLLAMA_HOST"
)

// Config holds explicit embedder configuration.
type Config struct {
	Provider  string
	APIKey    string
	BaseURL   string
	CacheSize int
}

// NewFromEnv creates an embedder based on environment variables.
// Priority:
//  1. DOCSIFT_EMBEDDING_PROVIDER (openai, ollama, local)
//  2. OPENAI_API_KEY set -> OpenAI
//  3. OLLAMA_HOST set -> Ollama
//  4. Local fallback (offline, deterministic)
func NewFromEnv() (Embedder, error) {
	cache := NewCache(10000)

	if provider := strings.ToLower(os.Getenv(EnvProvider)); provider != "" {
		switch provider {
		case ProviderOpenAI:
			return NewOpenAIEmbedder(os.Getenv(EnvOpenAIAPIKey), cache)
		case ProviderOllama:
			return NewOllamaEmbedder(os.Getenv(EnvOllamaHost), cache), nil
		case ProviderLocal:
			return NewLocalEmbedder(cache), nil
		default:
			return nil, fmt.Errorf("%w: %s", ErrUnknownProvider, provider)
		}
	}

	if key := os.Getenv(EnvOpenAIAPIKey); key != "" {
		return NewOpenAIEmbedder(key, cache)
	}
	if host := os.Getenv(EnvOllamaHost); host != "" {
		return NewOllamaEmbedder(host, cache), nil
	}
	return NewLocalEmbedder(cache), nil
}

// New creates an embedder from explicit configuration.
func New(cfg Config) (Embedder, error) {
	var cache *Cache
	if cfg.CacheSize > 0 {
		cache = NewCache(cfg.CacheSize)
	}

	switch strings.ToLower(cfg.Provider) {
	case ProviderOpenAI:
		return NewOpenAIEmbedder(cfg.APIKey, cache)
	case ProviderOllama:
		return NewOllamaEmbedder(cfg.BaseURL, cache), nil
	case ProviderLocal, "":
		return NewLocalEmbedder(cache), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownProvider, cfg.Provider)
	}
}
