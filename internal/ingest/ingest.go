// Package ingest turns raw document text into a fully indexed Document:
// section detection, fixed-window chunking, and batched embedding.
package ingest

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/docsift/docsift/internal/chunker"
	"github.com/docsift/docsift/internal/embedder"
	"github.com/docsift/docsift/internal/section"
	"github.com/docsift/docsift/pkg/types"
)

// EmbedBatchSize caps the texts handed to one EmbedBatch call.
const EmbedBatchSize = 50

// Pipeline runs the full ingestion sequence for one document.
type Pipeline struct {
	detector *section.Detector
	chunker  *chunker.Chunker
	embedder embedder.Embedder
}

// New creates a pipeline around the given embedder with default
// section detection and chunking.
func New(emb embedder.Embedder) *Pipeline {
	return &Pipeline{
		detector: section.NewDetector(),
		chunker:  chunker.New(chunker.DefaultWindowSize),
		embedder: emb,
	}
}

// Ingest builds a Document from raw text. Sections are detected,
// chunked into fixed word windows, and every chunk is embedded. The
// returned document always satisfies len(Embeddings) == len(Chunks).
func (p *Pipeline) Ingest(ctx context.Context, name, text string) (*types.Document, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("ingest %q: %w", name, types.ErrNoContent)
	}

	sections := p.detector.Detect(text)
	chunks := p.chunker.ChunkSections(sections)
	if len(chunks) == 0 {
		return nil, fmt.Errorf("ingest %q: %w", name, types.ErrNoContent)
	}

	embeddings, err := p.embedChunks(ctx, chunks)
	if err != nil {
		return nil, fmt.Errorf("ingest %q: %w", name, err)
	}

	doc := &types.Document{
		ID:         uuid.New().String(),
		Name:       name,
		RawText:    text,
		Sections:   sections,
		Chunks:     chunks,
		Embeddings: embeddings,
		FullText:   text,
	}
	if err := doc.Validate(); err != nil {
		return nil, fmt.Errorf("ingest %q: %w", name, err)
	}
	return doc, nil
}

// embedChunks embeds all chunk texts in concurrent batches, preserving
// chunk order in the result.
func (p *Pipeline) embedChunks(ctx context.Context, chunks []types.Chunk) ([][]float32, error) {
	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Text
	}

	embeddings := make([][]float32, len(texts))
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(4)

	for start := 0; start < len(texts); start += EmbedBatchSize {
		end := start + EmbedBatchSize
		if end > len(texts) {
			end = len(texts)
		}
		start, end := start, end

		g.Go(func() error {
			vectors, err := p.embedder.EmbedBatch(gctx, texts[start:end])
			if err != nil {
				return fmt.Errorf("embedding chunks %d-%d: %w", start, end-1, err)
			}
			mu.Lock()
			copy(embeddings[start:end], vectors)
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return embeddings, nil
}
