package types

import (
	"errors"
	"strings"
)

// Section is a titled, contiguous span of document text delimited by a
// detected heading. Offsets are byte offsets into the document's raw text.
type Section struct {
	// Title is the heading text exactly as it appeared in the document.
	Title string

	// StdTitle is the normalized form used for matching, e.g. headings
	// like "PS-2" or "Problem Statement 2" both normalize to
	// "problem statement 2". Non-problem headings pass through unchanged.
	StdTitle string

	// SectionNum is the numeric or letter identifier extracted from the
	// heading ("2", "b"). Empty when the heading carried none.
	SectionNum string

	// StartOffset and EndOffset delimit the section span [start, end)
	// including the heading itself.
	StartOffset int
	EndOffset   int

	// Content is the section body (heading excluded), trimmed.
	Content string
}

// Chunk is a fixed-size word window of a section's content, the unit of
// embedding and retrieval. Section metadata travels with the chunk so
// section-scoped search never needs to re-resolve it.
type Chunk struct {
	Text       string
	Section    string // title of the owning section
	SectionNum string // identifier of the owning section, if any
}

// Document is an ingested document: the immutable result of running the
// ingestion pipeline once over extracted text.
type Document struct {
	ID       string
	Name     string
	RawText  string
	Sections []Section
	Chunks   []Chunk

	// Embeddings holds one unit-length vector per chunk.
	Embeddings [][]float32

	// FullText is the text the chunks were produced from. It equals
	// RawText today; it exists so callers never reach for RawText when
	// they mean "the text to summarize".
	FullText string
}

// Validate checks the cross-field invariants of an ingested document.
func (d *Document) Validate() error {
	if d.ID == "" {
		return errors.New("document ID is required")
	}
	if len(d.Embeddings) != len(d.Chunks) {
		return errors.New("embedding count must equal chunk count")
	}
	prev := 0
	for i := range d.Sections {
		s := &d.Sections[i]
		if s.StartOffset > s.EndOffset {
			return errors.New("section start offset after end offset")
		}
		if s.StartOffset < prev {
			return errors.New("sections must be ordered and non-overlapping")
		}
		prev = s.EndOffset
	}
	return nil
}

// SectionTitles returns the section titles in document order.
func (d *Document) SectionTitles() []string {
	titles := make([]string, len(d.Sections))
	for i, s := range d.Sections {
		titles[i] = s.Title
	}
	return titles
}

// FindSection returns the first section whose title contains target
// (case-insensitive), preferring an exact title match when several
// sections contain it. The second return is false when nothing matches.
func (d *Document) FindSection(target string) (*Section, bool) {
	targetLower := strings.ToLower(strings.TrimSpace(target))
	if targetLower == "" {
		return nil, false
	}

	var first *Section
	for i := range d.Sections {
		s := &d.Sections[i]
		title := strings.ToLower(s.Title)
		if !strings.Contains(title, targetLower) {
			continue
		}
		if title == targetLower {
			return s, true
		}
		if first == nil {
			first = s
		}
	}
	if first != nil {
		return first, true
	}
	return nil, false
}

// WordCount reports the number of whitespace-separated words in text.
func WordCount(text string) int {
	return len(strings.Fields(text))
}
