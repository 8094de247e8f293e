package types

// Confidence buckets a validation score for human consumption.
type Confidence string

const (
	ConfidenceHigh   Confidence = "High"
	ConfidenceMedium Confidence = "Medium"
	ConfidenceLow    Confidence = "Low"
)

// RetrievalResult is the outcome of one query against a document.
type RetrievalResult struct {
	// Answer is the answer text, already prefixed with the source
	// section label when the search was section-scoped.
	Answer string

	// SourceSection is the title of the section the answer came from.
	// Empty when the search ran over the whole document.
	SourceSection string

	// Score is the similarity score of the chunk the answer was
	// extracted from.
	Score float64
}

// ValidationResult scores generated text against source embeddings to
// estimate factual grounding. Derived per call, never persisted.
type ValidationResult struct {
	// Valid reports whether the best similarity cleared the threshold
	// (and, for query-aware validation, whether the text addresses the
	// query at all).
	Valid bool

	// Score is the maximum similarity between the summary and any
	// source chunk.
	Score float64

	// AvgScore is the mean similarity across all source chunks.
	AvgScore float64

	// FactValidity is the fraction of scoreable summary sentences
	// (those with at least five words) whose best chunk similarity
	// clears the threshold. Vacuously 1.0 when no sentence qualifies.
	FactValidity float64

	// QueryRelevance is the summary-to-query similarity. Only set by
	// query-aware validation; zero otherwise.
	QueryRelevance float64

	Confidence Confidence
	Message    string
}

// ConfidenceForScore buckets a grounding score.
func ConfidenceForScore(score float64) Confidence {
	switch {
	case score > 0.8:
		return ConfidenceHigh
	case score > 0.7:
		return ConfidenceMedium
	default:
		return ConfidenceLow
	}
}
