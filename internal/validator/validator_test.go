package validator

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docsift/docsift/internal/embedder"
	"github.com/docsift/docsift/pkg/types"
)

func TestValidate_MissingInput(t *testing.T) {
	v := New(embedder.NewLocalEmbedder(nil))
	ctx := context.Background()

	for _, tc := range []struct{ summary, source string }{
		{"", "source text"},
		{"summary text", ""},
		{"  ", "  "},
	} {
		res, err := v.Validate(ctx, tc.summary, tc.source, 0)
		require.NoError(t, err)
		assert.False(t, res.Valid)
		assert.Zero(t, res.Score)
		assert.Equal(t, "Missing summary or source content", res.Message)
	}
}

func TestValidate_IdenticalTextScoresHigh(t *testing.T) {
	v := New(embedder.NewLocalEmbedder(nil))

	// A summary that IS the source matches it exactly under any
	// embedding, so the max similarity is 1.
	text := "The scheduler assigns each task to the least loaded worker in the pool."
	res, err := v.Validate(context.Background(), text, text, 0)
	require.NoError(t, err)

	assert.True(t, res.Valid)
	assert.InDelta(t, 1.0, res.Score, 1e-5)
	assert.Equal(t, types.ConfidenceHigh, res.Confidence)
	assert.Equal(t, "Summary is valid and supported by the document.", res.Message)
}

func TestValidate_ShortSentencesSkipped(t *testing.T) {
	v := New(embedder.NewLocalEmbedder(nil))

	// Every sentence is under five words, so no sentence is scoreable
	// and fact validity is vacuously perfect.
	res, err := v.Validate(context.Background(), "Yes. It works. Done now.", strings.Repeat("source words here ", 20), 0)
	require.NoError(t, err)
	assert.Equal(t, 1.0, res.FactValidity)
}

func TestValidate_AvgAtMostMax(t *testing.T) {
	v := New(embedder.NewLocalEmbedder(nil))

	source := strings.Repeat("alpha beta gamma delta epsilon zeta ", 200)
	res, err := v.Validate(context.Background(), "A summary of the greek letters in the text.", source, 0)
	require.NoError(t, err)
	assert.LessOrEqual(t, res.AvgScore, res.Score)
}

func TestValidateWithQuery_MissingInput(t *testing.T) {
	v := New(embedder.NewLocalEmbedder(nil))

	res, err := v.ValidateWithQuery(context.Background(), "", "query", nil, nil, 0)
	require.NoError(t, err)
	assert.False(t, res.Valid)
	assert.Equal(t, "Missing summary or query", res.Message)
}

func TestValidateWithQuery_NoChunks(t *testing.T) {
	v := New(embedder.NewLocalEmbedder(nil))

	_, err := v.ValidateWithQuery(context.Background(), "summary", "query", nil, nil, 0)
	assert.ErrorIs(t, err, types.ErrNoContent)
}

func TestValidateWithQuery_MismatchedEmbeddings(t *testing.T) {
	v := New(embedder.NewLocalEmbedder(nil))

	chunks := []types.Chunk{{Text: "chunk one"}, {Text: "chunk two"}}
	_, err := v.ValidateWithQuery(context.Background(), "summary", "query", chunks, [][]float32{{1}}, 0)
	assert.ErrorIs(t, err, types.ErrMismatchedEmbeddings)
}

func TestValidateWithQuery_SetsQueryRelevance(t *testing.T) {
	e := embedder.NewLocalEmbedder(nil)
	v := New(e)
	ctx := context.Background()

	chunks := []types.Chunk{
		{Text: "The first chunk describes the ingestion pipeline in detail."},
		{Text: "The second chunk describes retrieval and scoring of candidate chunks."},
	}
	embeddings, err := e.EmbedBatch(ctx, []string{chunks[0].Text, chunks[1].Text})
	require.NoError(t, err)

	// Summary identical to the query maximizes query relevance.
	query := "How does retrieval scoring work in the pipeline?"
	res, err := v.ValidateWithQuery(ctx, query, query, chunks, embeddings, 0)
	require.NoError(t, err)

	assert.InDelta(t, 1.0, res.QueryRelevance, 1e-5)
	assert.NotEmpty(t, res.Message)
}
