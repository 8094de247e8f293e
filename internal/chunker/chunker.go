package chunker

import (
	"strings"

	"github.com/docsift/docsift/pkg/types"
)

// DefaultWindowSize is the number of words per chunk.
const DefaultWindowSize = 500

// Chunker splits text into fixed word windows.
type Chunker struct {
	window int
}

// New creates a Chunker with the given window size; zero or negative
// selects DefaultWindowSize.
func New(window int) *Chunker {
	if window <= 0 {
		window = DefaultWindowSize
	}
	return &Chunker{window: window}
}

// WindowSize reports the configured words-per-chunk.
func (c *Chunker) WindowSize() int {
	return c.window
}

// Split returns the consecutive word windows of text, each window
// joined with single spaces. The final window may be shorter; empty or
// whitespace-only input yields nil.
func (c *Chunker) Split(text string) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}

	chunks := make([]string, 0, (len(words)+c.window-1)/c.window)
	for i := 0; i < len(words); i += c.window {
		end := i + c.window
		if end > len(words) {
			end = len(words)
		}
		chunks = append(chunks, strings.Join(words[i:end], " "))
	}
	return chunks
}

// ChunkSections windows every section's content and tags each chunk
// with its owning section's title and identifier.
func (c *Chunker) ChunkSections(sections []types.Section) []types.Chunk {
	var chunks []types.Chunk
	for _, sec := range sections {
		for _, text := range c.Split(sec.Content) {
			chunks = append(chunks, types.Chunk{
				Text:       text,
				Section:    sec.Title,
				SectionNum: sec.SectionNum,
			})
		}
	}
	return chunks
}
