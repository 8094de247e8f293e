package section

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/docsift/docsift/pkg/types"
)

// MinParagraphChars is the minimum trimmed length for a paragraph to
// count as a section in the paragraph fallback.
const MinParagraphChars = 100

// headingPatterns is the fixed priority list of heading forms. Order
// matters: the combined alternation is built in this order and Go's
// regexp engine prefers earlier alternatives at the same position, so
// overlapping phrasings resolve deterministically.
var headingPatterns = []string{
	`\bproblem\s+statement\s+(\d+|[a-z])`,
	`\bproblem\s+statement[\s\-]*(\d+|[a-z])`,
	`\bproblem\s*(\d+|[a-z])\s*[:.]+`,
	`\bps\s*[-.\s]*(\d+|[a-z])`,
	`\bsection\s+(\d+|[a-z])\s*[:.]*`,
	`\bchapter\s+(\d+|[a-z])`,
	`\bpart\s+(\d+|[a-z])`,
}

var paragraphSep = regexp.MustCompile(`\n\s*\n`)

// Detector splits raw text into titled sections.
type Detector struct {
	combined   *regexp.Regexp
	priorities []*regexp.Regexp
}

// NewDetector compiles the heading pattern set.
func NewDetector() *Detector {
	parts := make([]string, len(headingPatterns))
	priorities := make([]*regexp.Regexp, len(headingPatterns))
	for i, p := range headingPatterns {
		parts[i] = "(?:" + p + ")"
		priorities[i] = regexp.MustCompile("(?i)" + p)
	}
	return &Detector{
		combined:   regexp.MustCompile("(?i)" + strings.Join(parts, "|")),
		priorities: priorities,
	}
}

// Detect partitions text into ordered, contiguous sections. Heading
// matches delimit sections; text before the first heading becomes a
// leading "Document" section so the spans cover the whole input. With
// no headings at all, Detect falls back to blank-line paragraphs longer
// than MinParagraphChars, and finally to a single whole-document
// section.
func (d *Detector) Detect(text string) []types.Section {
	matches := d.combined.FindAllStringIndex(text, -1)
	if len(matches) == 0 {
		return d.paragraphSections(text)
	}

	sections := make([]types.Section, 0, len(matches)+1)

	first := matches[0][0]
	if preamble := strings.TrimSpace(text[:first]); preamble != "" {
		sections = append(sections, types.Section{
			Title:       "Document",
			StdTitle:    "document",
			StartOffset: 0,
			EndOffset:   first,
			Content:     preamble,
		})
	}

	for i, m := range matches {
		start := m[0]
		if i == 0 && len(sections) == 0 {
			// Leading whitespace folds into the first section so the
			// spans still cover the text from offset zero.
			start = 0
		}
		end := len(text)
		if i+1 < len(matches) {
			end = matches[i+1][0]
		}

		title := strings.TrimSpace(text[m[0]:m[1]])
		num := d.headingID(title)
		sections = append(sections, types.Section{
			Title:       title,
			StdTitle:    standardizeTitle(title, num),
			SectionNum:  num,
			StartOffset: start,
			EndOffset:   end,
			Content:     strings.TrimSpace(text[m[1]:end]),
		})
	}

	return sections
}

// headingID extracts the section identifier from a heading by trying
// the priority patterns in declaration order.
func (d *Detector) headingID(title string) string {
	for _, re := range d.priorities {
		if sm := re.FindStringSubmatch(title); sm != nil && sm[1] != "" {
			return strings.ToLower(sm[1])
		}
	}
	return ""
}

// standardizeTitle normalizes problem-statement style headings to a
// canonical "problem statement {num}" form; other headings pass
// through unchanged.
func standardizeTitle(title, num string) string {
	lower := strings.ToLower(title)
	if strings.Contains(lower, "problem statement") || strings.HasPrefix(lower, "ps") {
		if num != "" {
			return "problem statement " + num
		}
	}
	return title
}

// paragraphSections is the no-headings fallback: blank-line delimited
// paragraphs longer than MinParagraphChars become numbered sections.
// Numbering follows paragraph position, so short skipped paragraphs
// leave gaps.
func (d *Detector) paragraphSections(text string) []types.Section {
	spans := paragraphSpans(text)
	var sections []types.Section
	for i, span := range spans {
		content := strings.TrimSpace(text[span[0]:span[1]])
		if len(content) <= MinParagraphChars {
			continue
		}
		n := i + 1
		sections = append(sections, types.Section{
			Title:       fmt.Sprintf("Section %d", n),
			StdTitle:    fmt.Sprintf("section %d", n),
			SectionNum:  strconv.Itoa(n),
			StartOffset: span[0],
			EndOffset:   span[1],
			Content:     content,
		})
	}
	if len(sections) == 0 {
		return []types.Section{wholeDocument(text)}
	}
	return sections
}

// paragraphSpans returns the [start, end) spans between blank-line
// separators.
func paragraphSpans(text string) [][2]int {
	seps := paragraphSep.FindAllStringIndex(text, -1)
	spans := make([][2]int, 0, len(seps)+1)
	cursor := 0
	for _, sep := range seps {
		spans = append(spans, [2]int{cursor, sep[0]})
		cursor = sep[1]
	}
	spans = append(spans, [2]int{cursor, len(text)})
	return spans
}

func wholeDocument(text string) types.Section {
	return types.Section{
		Title:       "Document",
		StdTitle:    "document",
		StartOffset: 0,
		EndOffset:   len(text),
		Content:     text,
	}
}
