package inference

import (
	"context"
	"fmt"
	"strings"
)

// LocalModel is the offline fallback model. Question answering is
// lexical: it returns the sentences of the passage that share the most
// words with the question. Abstractive summarization is not available
// offline, so SummarizeText always fails with ErrModel and callers use
// their extractive fallback.
type LocalModel struct {
	tokenizer SentenceTokenizer
}

// NewLocalModel creates the offline model.
func NewLocalModel() *LocalModel {
	return &LocalModel{tokenizer: NewRegexTokenizer()}
}

func (m *LocalModel) AnswerQuestion(ctx context.Context, question, passage string, maxAnswerLen int) (string, error) {
	if strings.TrimSpace(question) == "" || strings.TrimSpace(passage) == "" {
		return "", fmt.Errorf("%w: question and passage required", ErrEmptyInput)
	}
	if maxAnswerLen <= 0 {
		maxAnswerLen = DefaultMaxAnswerLen
	}

	queryWords := wordSet(question)
	sentences := m.tokenizer.Split(passage)
	if len(sentences) == 0 {
		return "", fmt.Errorf("%w: passage has no sentences", ErrModel)
	}

	type scored struct {
		index int
		score int
	}
	best := scored{index: -1}
	for i, s := range sentences {
		overlap := 0
		for w := range wordSet(s) {
			if _, ok := queryWords[w]; ok {
				overlap++
			}
		}
		if overlap > best.score || best.index < 0 {
			best = scored{index: i, score: overlap}
		}
	}

	// Extend the answer with following sentences while it still fits.
	answer := sentences[best.index]
	for i := best.index + 1; i < len(sentences); i++ {
		next := answer + " " + sentences[i]
		if len(next) > maxAnswerLen {
			break
		}
		answer = next
	}
	return truncate(answer, maxAnswerLen), nil
}

func (m *LocalModel) SummarizeText(ctx context.Context, text string, maxLen, minLen int) (string, error) {
	return "", fmt.Errorf("%w: no local summarization model", ErrModel)
}

func (m *LocalModel) Close() error { return nil }

func wordSet(text string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, w := range strings.Fields(strings.ToLower(text)) {
		w = strings.Trim(w, ".,!?:;\"'()[]")
		if len(w) > 2 {
			set[w] = struct{}{}
		}
	}
	return set
}

func truncate(s string, maxLen int) string {
	if maxLen <= 0 || len(s) <= maxLen {
		return s
	}
	return strings.TrimSpace(s[:maxLen])
}
