// Package retriever answers queries against an ingested document using
// tiered section-scoped similarity search plus extractive QA.
package retriever

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/docsift/docsift/internal/embedder"
	"github.com/docsift/docsift/internal/inference"
	"github.com/docsift/docsift/internal/section"
	"github.com/docsift/docsift/pkg/types"
)

// Retrieval defaults
const (
	DefaultMaxAnswerLen = 2000
	DefaultTopK         = 3
)

// Engine runs retrieval over pre-embedded chunks.
type Engine struct {
	embedder  embedder.Embedder
	qa        inference.QuestionAnswerer
	tokenizer inference.SentenceTokenizer
}

// New creates a retrieval engine.
func New(emb embedder.Embedder, qa inference.QuestionAnswerer) *Engine {
	return &Engine{
		embedder:  emb,
		qa:        qa,
		tokenizer: inference.NewRegexTokenizer(),
	}
}

// Request is one retrieval call. Chunks and Embeddings come from an
// ingested document and must be the same length.
type Request struct {
	Chunks     []types.Chunk
	Embeddings [][]float32

	// Query is the user's question.
	Query string

	// TargetSection pins the search to a section identifier ("2", "b").
	// When empty the identifier embedded in the query, if any, is used.
	TargetSection string

	// MaxAnswerLen bounds the extracted answer; DefaultMaxAnswerLen when
	// zero.
	MaxAnswerLen int
}

// Retrieve answers the query. Candidate chunks are resolved in three
// tiers: chunks of the named section, chunks whose section title
// loosely references the identifier, and finally every chunk. The best
// candidate by cosine similarity feeds extractive QA; if the model is
// unavailable the leading sentences of the chunk stand in for the
// answer.
func (e *Engine) Retrieve(ctx context.Context, req Request) (*types.RetrievalResult, error) {
	ranked, scoped, scoreQuery, err := e.rank(ctx, req)
	if err != nil {
		return nil, err
	}
	best := ranked[0]
	chunk := req.Chunks[best.index]

	answer := e.answer(ctx, scoreQuery, chunk.Text, req.MaxAnswerLen)

	result := &types.RetrievalResult{
		Answer: answer,
		Score:  best.score,
	}
	if scoped {
		result.SourceSection = chunk.Section
		result.Answer = fmt.Sprintf("From %s: %s", chunk.Section, answer)
	}
	return result, nil
}

// RetrieveTopK answers the query from the concatenated top-k candidate
// chunks instead of a single one, for queries whose answer spans
// windows. k defaults to DefaultTopK.
func (e *Engine) RetrieveTopK(ctx context.Context, req Request, k int) (*types.RetrievalResult, error) {
	ranked, scoped, scoreQuery, err := e.rank(ctx, req)
	if err != nil {
		return nil, err
	}
	if k <= 0 {
		k = DefaultTopK
	}
	if len(ranked) > k {
		ranked = ranked[:k]
	}

	parts := make([]string, len(ranked))
	for i, r := range ranked {
		parts[i] = req.Chunks[r.index].Text
	}
	combined := strings.Join(parts, " ")

	answer := e.answer(ctx, scoreQuery, combined, req.MaxAnswerLen)

	result := &types.RetrievalResult{
		Answer: answer,
		Score:  ranked[0].score,
	}
	if scoped {
		best := req.Chunks[ranked[0].index]
		result.SourceSection = best.Section
		result.Answer = fmt.Sprintf("From %s: %s", best.Section, answer)
	}
	return result, nil
}

// TopChunks returns the k best candidate chunks for the query, best
// first, with their similarity scores. Callers that want to summarize
// retrieved context rather than extract an answer use this directly.
func (e *Engine) TopChunks(ctx context.Context, req Request, k int) ([]types.Chunk, []float64, error) {
	ranked, _, _, err := e.rank(ctx, req)
	if err != nil {
		return nil, nil, err
	}
	if k <= 0 {
		k = DefaultTopK
	}
	if len(ranked) > k {
		ranked = ranked[:k]
	}

	chunks := make([]types.Chunk, len(ranked))
	scores := make([]float64, len(ranked))
	for i, r := range ranked {
		chunks[i] = req.Chunks[r.index]
		scores[i] = r.score
	}
	return chunks, scores, nil
}

type scoredChunk struct {
	index int
	score float64
}

// rank validates the request, resolves the candidate tier, and returns
// every candidate ordered by similarity to the query. Identifier
// phrases are stripped from the query only once the search is
// section-scoped; the global fallback scores the query as-is.
func (e *Engine) rank(ctx context.Context, req Request) ([]scoredChunk, bool, string, error) {
	if len(req.Chunks) == 0 {
		return nil, false, "", types.ErrNoContent
	}
	if len(req.Embeddings) != len(req.Chunks) {
		return nil, false, "", types.ErrMismatchedEmbeddings
	}

	target := strings.ToLower(strings.TrimSpace(req.TargetSection))
	if target == "" {
		target, _ = section.ExtractID(req.Query)
	}

	candidates, scoped := e.resolveCandidates(req.Chunks, target)

	scoreQuery := req.Query
	if scoped {
		scoreQuery = section.StripIDPhrases(req.Query)
	}

	queryVec, err := e.embedder.Embed(ctx, scoreQuery)
	if err != nil {
		return nil, false, "", fmt.Errorf("embedding query: %w", err)
	}

	ranked := make([]scoredChunk, 0, len(candidates))
	for _, i := range candidates {
		ranked = append(ranked, scoredChunk{i, embedder.Dot(queryVec, req.Embeddings[i])})
	}
	sort.SliceStable(ranked, func(a, b int) bool { return ranked[a].score > ranked[b].score })
	return ranked, scoped, scoreQuery, nil
}

// resolveCandidates returns the chunk indexes to search and whether the
// search ended up section-scoped. Tier one requires a real section
// match for the identifier; tier two accepts loose title references;
// tier three drops the identifier and searches everything.
func (e *Engine) resolveCandidates(chunks []types.Chunk, target string) ([]int, bool) {
	all := make([]int, len(chunks))
	for i := range chunks {
		all[i] = i
	}
	if target == "" {
		return all, false
	}

	var tier []int
	for i, c := range chunks {
		if matchesSection(c, target) {
			tier = append(tier, i)
		}
	}
	if len(tier) > 0 {
		return tier, true
	}

	for i, c := range chunks {
		if looselyReferences(c, target) {
			tier = append(tier, i)
		}
	}
	if len(tier) > 0 {
		return tier, true
	}

	return all, false
}

// matchesSection reports whether a chunk belongs to the section the
// identifier names.
func matchesSection(c types.Chunk, target string) bool {
	if strings.ToLower(c.SectionNum) == target {
		return true
	}
	title := strings.ToLower(c.Section)
	for _, form := range []string{
		"problem statement " + target,
		"problem " + target,
		"ps " + target,
		"ps" + target,
		"ps-" + target,
	} {
		if strings.Contains(title, form) {
			return true
		}
	}
	return false
}

// looselyReferences reports whether a chunk's section title mentions
// the identifier at all.
func looselyReferences(c types.Chunk, target string) bool {
	title := strings.ToLower(c.Section)
	return strings.Contains(title, "statement "+target) ||
		strings.Contains(title, "section "+target) ||
		strings.Contains(title, target)
}

// answer runs extractive QA over the passage, falling back to the
// passage's leading sentences when the model is unavailable.
func (e *Engine) answer(ctx context.Context, query, passage string, maxLen int) string {
	if maxLen <= 0 {
		maxLen = DefaultMaxAnswerLen
	}
	answer, err := e.qa.AnswerQuestion(ctx, query, passage, maxLen)
	if err == nil && strings.TrimSpace(answer) != "" {
		return answer
	}
	return snippet(e.tokenizer, passage, maxLen)
}

// snippet returns the leading sentences of passage that fit maxLen.
func snippet(tok inference.SentenceTokenizer, passage string, maxLen int) string {
	sentences := tok.Split(passage)
	if len(sentences) == 0 {
		if len(passage) > maxLen {
			return strings.TrimSpace(passage[:maxLen])
		}
		return strings.TrimSpace(passage)
	}

	var b strings.Builder
	for _, s := range sentences {
		if b.Len() > 0 && b.Len()+1+len(s) > maxLen {
			break
		}
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(s)
	}
	if b.Len() == 0 {
		return strings.TrimSpace(passage[:min(maxLen, len(passage))])
	}
	return b.String()
}
