// Package types defines the shared data model for document ingestion,
// retrieval, summarization, and grounding validation.
//
// A Document is the unit of ingestion: raw text partitioned into titled
// Sections, each Section split into fixed word-window Chunks, with one
// embedding vector per chunk. Documents are immutable snapshots once
// built; query-time components only read them.
//
// # Invariants
//
// Sections are contiguous, non-overlapping, ordered by StartOffset, and
// (for heading-detected sections) cover the raw text end to end. Chunks
// preserve the whitespace-normalized word sequence of their section, and
// Embeddings[i] always corresponds to Chunks[i].
package types
