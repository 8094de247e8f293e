// Package summarizer produces length-adaptive document summaries.
// Strategy is chosen by word count; every abstractive path has an
// extractive fallback, so Summarize always returns usable text and
// never an error.
package summarizer

import (
	"context"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/docsift/docsift/internal/inference"
	"github.com/docsift/docsift/pkg/types"
)

// Tier boundaries and targets, in words unless noted.
const (
	// MinSummarizableChars is the minimum trimmed character length worth
	// summarizing at all.
	MinSummarizableChars = 50

	// ShortDocWords: below this the cleaned text is its own summary.
	ShortDocWords = 100

	// MediumDocWords: above this only the head and tail are summarized.
	MediumDocWords = 800

	// LargeDocWords: above this three windows are summarized in parallel.
	LargeDocWords = 3000

	// WindowWords is the size of each head/middle/tail window.
	WindowWords = 400

	DefaultMaxLength = 1024
	targetLength     = 150
	windowLength     = 100
	minLength        = 30
)

// TooShortMessage is returned for documents with nothing to summarize.
const TooShortMessage = "Document is too short or empty to summarize."

// Summarizer produces summaries using an abstractive model when one is
// available.
type Summarizer struct {
	model     inference.Summarizer
	tokenizer inference.SentenceTokenizer
}

// New creates a summarizer around the given model.
func New(model inference.Summarizer) *Summarizer {
	return &Summarizer{
		model:     model,
		tokenizer: inference.NewRegexTokenizer(),
	}
}

// Summarize summarizes text, bounded to roughly maxLength output words
// (DefaultMaxLength when zero). The strategy scales with document size:
// short documents pass through, mid-size documents are summarized
// whole, long ones by head and tail, and very long ones by three
// windows summarized concurrently.
func (s *Summarizer) Summarize(ctx context.Context, text string, maxLength int) string {
	if len(strings.TrimSpace(text)) < MinSummarizableChars {
		return TooShortMessage
	}
	if maxLength <= 0 {
		maxLength = DefaultMaxLength
	}

	cleaned := CleanText(text)
	words := strings.Fields(cleaned)

	switch total := len(words); {
	case total < ShortDocWords:
		return cleaned

	case total > LargeDocWords:
		return s.summarizeWindows(ctx, cleaned, words)

	case total > MediumDocWords:
		// Head and tail carry most of the signal; the middle is skipped.
		selected := strings.Join(words[:WindowWords], " ") + " " + strings.Join(words[len(words)-WindowWords:], " ")
		summary, err := s.model.SummarizeText(ctx, CleanText(selected), targetLength, minLength)
		if err != nil || strings.TrimSpace(summary) == "" {
			return "Key points: " + ExtractKeySentences(s.tokenizer, cleaned, 5)
		}
		return summary

	default:
		target := maxLength
		if target > targetLength {
			target = targetLength
		}
		summary, err := s.model.SummarizeText(ctx, cleaned, target, minLength)
		if err != nil || strings.TrimSpace(summary) == "" {
			return ExtractKeySentences(s.tokenizer, cleaned, 3)
		}
		return summary
	}
}

// summarizeWindows summarizes the head, middle, and tail of a very long
// document concurrently and joins the results in document order.
func (s *Summarizer) summarizeWindows(ctx context.Context, cleaned string, words []string) string {
	total := len(words)
	middleStart := total/2 - WindowWords
	if middleStart < 0 {
		middleStart = 0
	}
	windows := []string{
		strings.Join(words[:2*WindowWords], " "),
		strings.Join(words[middleStart:middleStart+2*WindowWords], " "),
		strings.Join(words[total-2*WindowWords:], " "),
	}

	parts := make([]string, len(windows))
	g, gctx := errgroup.WithContext(ctx)
	for i, w := range windows {
		i, w := i, w
		g.Go(func() error {
			summary, err := s.model.SummarizeText(gctx, CleanText(w), windowLength, minLength)
			if err != nil || strings.TrimSpace(summary) == "" {
				summary = ExtractKeySentences(s.tokenizer, w, 2)
			}
			parts[i] = strings.TrimSpace(summary)
			return nil
		})
	}
	_ = g.Wait() // workers never return errors; fallbacks absorb them

	result := strings.TrimSpace(strings.Join(parts, " "))
	if result == "" {
		return "Key points: " + ExtractKeySentences(s.tokenizer, cleaned, 5)
	}
	return result
}

// SummarizeSection summarizes one section of a document, resolved by
// title. The boolean reports whether the section was found.
func (s *Summarizer) SummarizeSection(ctx context.Context, doc *types.Document, title string, maxLength int) (string, bool) {
	sec, ok := doc.FindSection(title)
	if !ok {
		return "", false
	}
	return s.Summarize(ctx, sec.Content, maxLength), true
}

// CleanText normalizes text for summarization: whitespace runs collapse
// to single spaces, bullets become asterisks, and a terminal period is
// added when no sentence-ending punctuation closes the text.
func CleanText(text string) string {
	text = strings.Join(strings.Fields(text), " ")
	text = strings.ReplaceAll(text, "•", "*")
	if text != "" && !strings.HasSuffix(text, ".") && !strings.HasSuffix(text, "!") && !strings.HasSuffix(text, "?") {
		text += "."
	}
	return text
}

// ExtractKeySentences builds an extractive summary from the start,
// middle, and end of the text. Texts with at most n sentences come back
// whole; unpunctuated text tokenizes as a single sentence and so also
// comes back whole.
func ExtractKeySentences(tok inference.SentenceTokenizer, text string, n int) string {
	if n <= 0 {
		n = 5
	}
	sentences := tok.Split(text)
	if len(sentences) == 0 {
		if len(text) > 1000 {
			return text[:1000] + "..."
		}
		return text
	}
	if len(sentences) <= n {
		return strings.Join(sentences, " ")
	}

	half := n / 2
	if half < 1 {
		half = 1
	}
	start := sentences[:half]
	middle := sentences[len(sentences)/2 : len(sentences)/2+1]
	end := sentences[len(sentences)-(n/2+1):]

	picked := make([]string, 0, len(start)+1+len(end))
	picked = append(picked, start...)
	picked = append(picked, middle...)
	picked = append(picked, end...)
	return strings.Join(picked, " ")
}
