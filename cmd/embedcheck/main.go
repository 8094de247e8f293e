// embedcheck is a smoke check for the configured embedding and model
// providers: it ingests a small fixture document, stores it in a
// temporary database, runs one query and one summary, and prints what
// it finds. Useful for verifying provider configuration before wiring
// the server into an MCP client.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/docsift/docsift/internal/docstore"
	"github.com/docsift/docsift/internal/embedder"
	"github.com/docsift/docsift/internal/inference"
	"github.com/docsift/docsift/internal/ingest"
	"github.com/docsift/docsift/internal/retriever"
	"github.com/docsift/docsift/internal/summarizer"
)

const fixture = "Problem Statement 1: Build a rate limiter. " +
	"Requests above the configured limit must be rejected with a retry hint. " +
	"Problem Statement 2: Build a token bucket. " +
	"Tokens refill at a fixed rate and each request consumes one token."

func main() {
	log.SetOutput(os.Stderr)
	ctx := context.Background()

	emb, err := embedder.NewFromEnv()
	if err != nil {
		log.Fatalf("embedder: %v", err)
	}
	defer func() { _ = emb.Close() }()
	fmt.Printf("embedding provider ready (dimension %d)\n", emb.Dimension())

	model, err := inference.NewFromEnv()
	if err != nil {
		log.Fatalf("model: %v", err)
	}
	defer func() { _ = model.Close() }()

	tmpDir, err := os.MkdirTemp("", "embedcheck")
	if err != nil {
		log.Fatalf("temp dir: %v", err)
	}
	defer func() { _ = os.RemoveAll(tmpDir) }()

	store, err := docstore.NewSQLiteStore(filepath.Join(tmpDir, "check.db"))
	if err != nil {
		log.Fatalf("store: %v", err)
	}
	defer func() { _ = store.Close() }()
	fmt.Printf("sqlite store ready (driver %s, mode %s)\n", docstore.DriverName, docstore.BuildMode)

	doc, err := ingest.New(emb).Ingest(ctx, "fixture", fixture)
	if err != nil {
		log.Fatalf("ingest: %v", err)
	}
	if err := store.Put(ctx, doc); err != nil {
		log.Fatalf("store put: %v", err)
	}
	fmt.Printf("ingested %d sections, %d chunks\n", len(doc.Sections), len(doc.Chunks))

	stored, err := store.Get(ctx, doc.ID)
	if err != nil {
		log.Fatalf("store get: %v", err)
	}

	engine := retriever.New(emb, model)
	result, err := engine.Retrieve(ctx, retriever.Request{
		Chunks:     stored.Chunks,
		Embeddings: stored.Embeddings,
		Query:      "problem statement 2: how do tokens refill",
	})
	if err != nil {
		log.Fatalf("query: %v", err)
	}
	fmt.Printf("query answer (score %.3f): %s\n", result.Score, result.Answer)

	summary := summarizer.New(model).Summarize(ctx, stored.FullText, 0)
	fmt.Printf("summary: %s\n", summary)

	fmt.Println("embedcheck passed")
}
