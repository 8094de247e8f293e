package retriever

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docsift/docsift/internal/inference"
	"github.com/docsift/docsift/pkg/types"
)

// stubEmbedder returns canned vectors per text, defaulting to a fixed
// direction so every lookup succeeds.
type stubEmbedder struct {
	vectors map[string][]float32
}

func (s *stubEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if v, ok := s.vectors[text]; ok {
		return v, nil
	}
	return []float32{1, 0, 0}, nil
}

func (s *stubEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, t := range texts {
		v, err := s.Embed(ctx, t)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func (s *stubEmbedder) Dimension() int { return 3 }
func (s *stubEmbedder) Close() error   { return nil }

// failingQA always reports a model failure so retrieval exercises the
// extractive fallback.
type failingQA struct{}

func (failingQA) AnswerQuestion(ctx context.Context, question, passage string, maxAnswerLen int) (string, error) {
	return "", fmt.Errorf("%w: offline", inference.ErrModel)
}

// echoQA returns a fixed marker so tests can tell the model path ran.
type echoQA struct{}

func (echoQA) AnswerQuestion(ctx context.Context, question, passage string, maxAnswerLen int) (string, error) {
	return "model answer", nil
}

func sectionedChunks() ([]types.Chunk, [][]float32) {
	chunks := []types.Chunk{
		{Text: "Sorting must be stable. The comparator is user supplied.", Section: "Problem Statement 1", SectionNum: "1"},
		{Text: "The cache evicts the least recently used entry. Capacity is fixed.", Section: "Problem Statement 2", SectionNum: "2"},
		{Text: "Use two heaps for the running median. Rebalance after every insert.", Section: "Problem Statement 3", SectionNum: "3"},
	}
	embeddings := [][]float32{
		{1, 0, 0},
		{0, 1, 0},
		{0, 0, 1},
	}
	return chunks, embeddings
}

func TestRetrieve_SectionScoped(t *testing.T) {
	chunks, embeddings := sectionedChunks()
	// The query scores highest against the section 3 chunk, but the
	// identifier in the query pins the search to section 2.
	e := New(&stubEmbedder{vectors: map[string][]float32{
		"what data structure should I use": {0, 0.2, 0.9},
	}}, failingQA{})

	res, err := e.Retrieve(context.Background(), Request{
		Chunks:     chunks,
		Embeddings: embeddings,
		Query:      "problem statement 2: what data structure should I use",
	})
	require.NoError(t, err)

	assert.Equal(t, "Problem Statement 2", res.SourceSection)
	assert.True(t, strings.HasPrefix(res.Answer, "From Problem Statement 2: "), res.Answer)
	assert.Contains(t, res.Answer, "least recently used")
}

func TestRetrieve_ExplicitTargetSection(t *testing.T) {
	chunks, embeddings := sectionedChunks()
	e := New(&stubEmbedder{}, failingQA{})

	res, err := e.Retrieve(context.Background(), Request{
		Chunks:        chunks,
		Embeddings:    embeddings,
		Query:         "how does rebalancing work",
		TargetSection: "3",
	})
	require.NoError(t, err)

	assert.Equal(t, "Problem Statement 3", res.SourceSection)
	assert.Contains(t, res.Answer, "heaps")
}

func TestRetrieve_GlobalFallbackForUnknownSection(t *testing.T) {
	chunks, embeddings := sectionedChunks()
	// The canned vector is keyed on the full query text: the global
	// fallback scores the query as-is, identifier included.
	e := New(&stubEmbedder{vectors: map[string][]float32{
		"problem statement 9: what is the eviction policy": {0, 1, 0},
	}}, failingQA{})

	// No section 9 exists; all chunks are searched, with no section
	// prefix on the answer.
	res, err := e.Retrieve(context.Background(), Request{
		Chunks:     chunks,
		Embeddings: embeddings,
		Query:      "problem statement 9: what is the eviction policy",
	})
	require.NoError(t, err)

	assert.Empty(t, res.SourceSection)
	assert.False(t, strings.HasPrefix(res.Answer, "From "), res.Answer)
	assert.Contains(t, res.Answer, "least recently used")
}

func TestRetrieve_UnscopedQuery(t *testing.T) {
	chunks, embeddings := sectionedChunks()
	e := New(&stubEmbedder{vectors: map[string][]float32{
		"how is the median maintained": {0, 0, 1},
	}}, failingQA{})

	res, err := e.Retrieve(context.Background(), Request{
		Chunks:     chunks,
		Embeddings: embeddings,
		Query:      "how is the median maintained",
	})
	require.NoError(t, err)

	assert.Empty(t, res.SourceSection)
	assert.Contains(t, res.Answer, "heaps")
	assert.InDelta(t, 1.0, res.Score, 1e-6)
}

func TestRetrieve_ModelAnswerPreferred(t *testing.T) {
	chunks, embeddings := sectionedChunks()
	e := New(&stubEmbedder{}, echoQA{})

	res, err := e.Retrieve(context.Background(), Request{
		Chunks:     chunks,
		Embeddings: embeddings,
		Query:      "anything",
	})
	require.NoError(t, err)
	assert.Equal(t, "model answer", res.Answer)
}

func TestRetrieve_Errors(t *testing.T) {
	e := New(&stubEmbedder{}, failingQA{})

	_, err := e.Retrieve(context.Background(), Request{Query: "q"})
	assert.ErrorIs(t, err, types.ErrNoContent)

	chunks, _ := sectionedChunks()
	_, err = e.Retrieve(context.Background(), Request{
		Chunks:     chunks,
		Embeddings: [][]float32{{1, 0, 0}},
		Query:      "q",
	})
	assert.ErrorIs(t, err, types.ErrMismatchedEmbeddings)
}

func TestRetrieveTopK_CombinesChunks(t *testing.T) {
	chunks, embeddings := sectionedChunks()
	// Capture the passage handed to QA to check the top-2 concatenation.
	var captured string
	qa := qaFunc(func(ctx context.Context, q, passage string, maxLen int) (string, error) {
		captured = passage
		return "combined answer", nil
	})
	e := New(&stubEmbedder{vectors: map[string][]float32{
		"query": {0, 0.9, 0.6},
	}}, qa)

	res, err := e.RetrieveTopK(context.Background(), Request{
		Chunks:     chunks,
		Embeddings: embeddings,
		Query:      "query",
	}, 2)
	require.NoError(t, err)

	assert.Equal(t, "combined answer", res.Answer)
	assert.Contains(t, captured, "least recently used")
	assert.Contains(t, captured, "two heaps")
	assert.NotContains(t, captured, "Sorting must be stable")
	// Best chunk first in the combined passage.
	assert.Less(t, strings.Index(captured, "least recently used"), strings.Index(captured, "two heaps"))
}

type qaFunc func(ctx context.Context, question, passage string, maxAnswerLen int) (string, error)

func (f qaFunc) AnswerQuestion(ctx context.Context, question, passage string, maxAnswerLen int) (string, error) {
	return f(ctx, question, passage, maxAnswerLen)
}

func TestSnippet_RespectsMaxLen(t *testing.T) {
	tok := inference.NewRegexTokenizer()

	passage := "First sentence here. Second sentence follows. Third one closes."
	s := snippet(tok, passage, 45)
	assert.Equal(t, "First sentence here. Second sentence follows.", s)

	// Always at least one sentence, even when it overflows the limit.
	s = snippet(tok, passage, 5)
	assert.Equal(t, "First sentence here.", s)
}
