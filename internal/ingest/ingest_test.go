package ingest

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docsift/docsift/internal/embedder"
	"github.com/docsift/docsift/pkg/types"
)

func testPipeline() *Pipeline {
	return New(embedder.NewLocalEmbedder(nil))
}

func TestIngest_BasicDocument(t *testing.T) {
	p := testPipeline()

	text := "Problem Statement 1: Build a parser.\n" +
		strings.Repeat("The parser reads tokens from the input stream. ", 10) +
		"\nProblem Statement 2: Build an evaluator.\n" +
		strings.Repeat("The evaluator walks the tree produced by the parser. ", 10)

	doc, err := p.Ingest(context.Background(), "assignment.pdf", text)
	require.NoError(t, err)

	assert.NotEmpty(t, doc.ID)
	assert.Equal(t, "assignment.pdf", doc.Name)
	assert.Len(t, doc.Sections, 2)
	assert.Equal(t, "problem statement 1", doc.Sections[0].StdTitle)
	assert.Equal(t, "problem statement 2", doc.Sections[1].StdTitle)

	require.NotEmpty(t, doc.Chunks)
	assert.Len(t, doc.Embeddings, len(doc.Chunks))
	for i, e := range doc.Embeddings {
		assert.NotEmpty(t, e, "embedding %d", i)
	}
	assert.NoError(t, doc.Validate())
}

func TestIngest_EmptyText(t *testing.T) {
	p := testPipeline()

	_, err := p.Ingest(context.Background(), "empty.pdf", "   \n\t  ")
	assert.ErrorIs(t, err, types.ErrNoContent)
}

func TestIngest_ChunkMetadata(t *testing.T) {
	p := testPipeline()

	text := "Section 1: Overview\n" +
		strings.Repeat("word ", 600) +
		"\nSection 2: Details\n" +
		strings.Repeat("item ", 100)

	doc, err := p.Ingest(context.Background(), "doc", text)
	require.NoError(t, err)

	var sawFirst, sawSecond bool
	for _, c := range doc.Chunks {
		switch c.SectionNum {
		case "1":
			sawFirst = true
		case "2":
			sawSecond = true
		}
	}
	assert.True(t, sawFirst, "chunks from section 1")
	assert.True(t, sawSecond, "chunks from section 2")
}

func TestIngest_ManyChunksBatched(t *testing.T) {
	p := testPipeline()

	// Enough words for well over EmbedBatchSize chunks.
	text := strings.Repeat("alpha beta gamma delta epsilon ", 60*500/5)

	doc, err := p.Ingest(context.Background(), "big", text)
	require.NoError(t, err)
	require.Greater(t, len(doc.Chunks), EmbedBatchSize)
	assert.Len(t, doc.Embeddings, len(doc.Chunks))

	// Order preserved: each embedding matches a direct embed of its chunk.
	e := embedder.NewLocalEmbedder(nil)
	for _, i := range []int{0, len(doc.Chunks) / 2, len(doc.Chunks) - 1} {
		want, err := e.Embed(context.Background(), doc.Chunks[i].Text)
		require.NoError(t, err)
		assert.Equal(t, want, doc.Embeddings[i], "chunk %d", i)
	}
}
