// Package validator scores generated text against source content to
// estimate factual grounding. Validation is advisory: results carry a
// confidence bucket and a human-readable message, and a failed
// validation never blocks the answer it describes.
package validator

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/docsift/docsift/internal/chunker"
	"github.com/docsift/docsift/internal/embedder"
	"github.com/docsift/docsift/internal/inference"
	"github.com/docsift/docsift/pkg/types"
)

// DefaultThreshold is the similarity a summary must reach against some
// source chunk to count as grounded.
const DefaultThreshold = 0.65

// minFactWords is the sentence length below which a sentence is too
// slight to fact-check.
const minFactWords = 5

// topRelevantChunks is how many query-relevant chunks form the source
// text for query-aware validation.
const topRelevantChunks = 3

// Validator checks generated text against source embeddings.
type Validator struct {
	embedder  embedder.Embedder
	chunker   *chunker.Chunker
	tokenizer inference.SentenceTokenizer
}

// New creates a validator around the given embedder.
func New(emb embedder.Embedder) *Validator {
	return &Validator{
		embedder:  emb,
		chunker:   chunker.New(chunker.DefaultWindowSize),
		tokenizer: inference.NewRegexTokenizer(),
	}
}

// Validate scores summary against source text. The source is chunked
// and embedded; the summary's best chunk similarity decides validity,
// and each substantial summary sentence is checked individually for the
// fact-validity ratio. Missing input fails closed.
func (v *Validator) Validate(ctx context.Context, summary, source string, threshold float64) (*types.ValidationResult, error) {
	if strings.TrimSpace(summary) == "" || strings.TrimSpace(source) == "" {
		return &types.ValidationResult{
			Valid:      false,
			Score:      0,
			Confidence: types.ConfidenceLow,
			Message:    "Missing summary or source content",
		}, nil
	}
	if threshold <= 0 {
		threshold = DefaultThreshold
	}

	chunks := v.chunker.Split(source)
	chunkVecs := make([][]float32, 0, len(chunks))
	for start := 0; start < len(chunks); start += embedder.MaxBatchSize {
		end := start + embedder.MaxBatchSize
		if end > len(chunks) {
			end = len(chunks)
		}
		vecs, err := v.embedder.EmbedBatch(ctx, chunks[start:end])
		if err != nil {
			return nil, fmt.Errorf("embedding source chunks: %w", err)
		}
		chunkVecs = append(chunkVecs, vecs...)
	}

	summaryVec, err := v.embedder.Embed(ctx, summary)
	if err != nil {
		return nil, fmt.Errorf("embedding summary: %w", err)
	}

	maxScore, avgScore := scoreAgainst(chunkVecs, summaryVec)

	factValidity, err := v.factValidity(ctx, summary, chunkVecs, threshold)
	if err != nil {
		return nil, err
	}

	valid := maxScore >= threshold
	message := "Summary may contain inaccuracies or unsupported information."
	if valid {
		message = "Summary is valid and supported by the document."
	}

	return &types.ValidationResult{
		Valid:        valid,
		Score:        maxScore,
		AvgScore:     avgScore,
		FactValidity: factValidity,
		Confidence:   types.ConfidenceForScore(maxScore),
		Message:      message,
	}, nil
}

// ValidateWithQuery scores summary against the chunks most relevant to
// the query, then additionally requires the summary to address the
// query itself.
func (v *Validator) ValidateWithQuery(ctx context.Context, summary, query string, chunks []types.Chunk, embeddings [][]float32, threshold float64) (*types.ValidationResult, error) {
	if strings.TrimSpace(summary) == "" || strings.TrimSpace(query) == "" {
		return &types.ValidationResult{
			Valid:      false,
			Score:      0,
			Confidence: types.ConfidenceLow,
			Message:    "Missing summary or query",
		}, nil
	}
	if len(chunks) == 0 {
		return nil, types.ErrNoContent
	}
	if len(embeddings) != len(chunks) {
		return nil, types.ErrMismatchedEmbeddings
	}
	if threshold <= 0 {
		threshold = DefaultThreshold
	}

	queryVec, err := v.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embedding query: %w", err)
	}

	relevant := topChunksByScore(chunks, embeddings, queryVec, topRelevantChunks)
	result, err := v.Validate(ctx, summary, strings.Join(relevant, " "), threshold)
	if err != nil {
		return nil, err
	}

	summaryVec, err := v.embedder.Embed(ctx, summary)
	if err != nil {
		return nil, fmt.Errorf("embedding summary: %w", err)
	}
	queryRelevance := embedder.Dot(queryVec, summaryVec)

	grounded := result.Valid
	result.QueryRelevance = queryRelevance
	result.Valid = grounded && queryRelevance > threshold

	if queryRelevance < threshold {
		result.Message = "Summary doesn't specifically address the query."
	} else if !grounded {
		result.Message = "Summary contains information not supported by the document."
	}
	return result, nil
}

// factValidity checks each substantial summary sentence against the
// source chunks and returns the fraction that clears the threshold.
// With no substantial sentences the summary is vacuously fact-valid.
func (v *Validator) factValidity(ctx context.Context, summary string, chunkVecs [][]float32, threshold float64) (float64, error) {
	var scoreable, supported int
	for _, sentence := range v.tokenizer.Split(summary) {
		if types.WordCount(sentence) < minFactWords {
			continue
		}
		scoreable++

		vec, err := v.embedder.Embed(ctx, sentence)
		if err != nil {
			return 0, fmt.Errorf("embedding summary sentence: %w", err)
		}
		best, _ := scoreAgainst(chunkVecs, vec)
		if best > threshold {
			supported++
		}
	}
	if scoreable == 0 {
		return 1.0, nil
	}
	return float64(supported) / float64(scoreable), nil
}

// scoreAgainst returns the max and mean similarity of target against
// the chunk vectors.
func scoreAgainst(chunkVecs [][]float32, target []float32) (maxScore, avgScore float64) {
	if len(chunkVecs) == 0 {
		return 0, 0
	}
	var sum float64
	for i, cv := range chunkVecs {
		score := embedder.Dot(cv, target)
		sum += score
		if i == 0 || score > maxScore {
			maxScore = score
		}
	}
	return maxScore, sum / float64(len(chunkVecs))
}

// topChunksByScore returns the texts of the k chunks most similar to
// the query vector, best first.
func topChunksByScore(chunks []types.Chunk, embeddings [][]float32, queryVec []float32, k int) []string {
	type scored struct {
		index int
		score float64
	}
	ranked := make([]scored, len(chunks))
	for i := range chunks {
		ranked[i] = scored{i, embedder.Dot(queryVec, embeddings[i])}
	}
	sort.SliceStable(ranked, func(a, b int) bool { return ranked[a].score > ranked[b].score })
	if len(ranked) > k {
		ranked = ranked[:k]
	}

	texts := make([]string, len(ranked))
	for i, r := range ranked {
		texts[i] = chunks[r.index].Text
	}
	return texts
}
