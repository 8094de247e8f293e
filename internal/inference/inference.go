package inference

import (
	"context"
	"errors"
)

// ErrModel marks any collaborator inference failure. Callers never let
// it propagate to the request boundary; each model-calling path has a
// non-throwing fallback.
var ErrModel = errors.New("model inference failed")

// ErrEmptyInput is returned before any model call when there is nothing
// to run inference on.
var ErrEmptyInput = errors.New("empty inference input")

// Factory errors
var (
	ErrUnknownProvider   = errors.New("unknown model provider")
	ErrNoProviderEnabled = errors.New("no model provider configured")
)

// QuestionAnswerer extracts an answer span for a question from the
// given passage, bounded to maxAnswerLen characters.
type QuestionAnswerer interface {
	AnswerQuestion(ctx context.Context, question, passage string, maxAnswerLen int) (string, error)
}

// Summarizer produces an abstractive summary of text, targeting at
// most maxLen and at least minLen output tokens.
type Summarizer interface {
	SummarizeText(ctx context.Context, text string, maxLen, minLen int) (string, error)
}

// SentenceTokenizer splits text into sentences. Best-effort and
// optional: components that need sentences always carry the regex
// fallback from this package.
type SentenceTokenizer interface {
	Split(text string) []string
}

// Model bundles the inference capabilities one provider serves.
type Model interface {
	QuestionAnswerer
	Summarizer
	Close() error
}

// DefaultMaxAnswerLen bounds extracted answers when the caller passes
// no explicit limit.
const DefaultMaxAnswerLen = 2000
