// Package inference defines the model collaborators the core pipeline
// calls into: extractive question answering, abstractive summarization,
// and sentence tokenization.
//
// Every collaborator failure wraps ErrModel so callers can always
// substitute a documented fallback instead of surfacing an inference
// error to the user. Providers mirror the embedding package: OpenAI,
// Ollama, and an offline local fallback.
package inference
