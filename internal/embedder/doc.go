// Package embedder turns text into fixed-dimension vectors for
// similarity search.
//
// Providers (OpenAI, Ollama, and an offline deterministic local
// fallback) sit behind one Embedder interface. All vectors are
// normalized to unit length before they leave the package, so callers
// can use a plain dot product as cosine similarity. Results are cached
// in-memory by content hash and remote calls retry with exponential
// backoff.
package embedder
