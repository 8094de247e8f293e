package inference

import (
	"regexp"
	"strings"
)

var sentencePattern = regexp.MustCompile(`[^.!?]+[.!?]+`)

// RegexTokenizer splits text into sentences on terminal punctuation.
// It is the always-available fallback tokenizer; no model required.
type RegexTokenizer struct{}

// NewRegexTokenizer creates the regex sentence tokenizer.
func NewRegexTokenizer() *RegexTokenizer {
	return &RegexTokenizer{}
}

// Split returns the trimmed sentences of text. A trailing run without
// terminal punctuation is kept as the final sentence. Empty or
// whitespace-only input yields nil.
func (t *RegexTokenizer) Split(text string) []string {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil
	}

	var sentences []string
	last := 0
	for _, loc := range sentencePattern.FindAllStringIndex(trimmed, -1) {
		s := strings.TrimSpace(trimmed[loc[0]:loc[1]])
		if s != "" {
			sentences = append(sentences, s)
		}
		last = loc[1]
	}
	if tail := strings.TrimSpace(trimmed[last:]); tail != "" {
		sentences = append(sentences, tail)
	}
	return sentences
}
