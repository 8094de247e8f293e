package section

import (
	"regexp"
	"strings"
)

// Query-side identifier patterns, tried in order. These are the same
// shapes the heading detector recognizes, so a query and a heading that
// name the same section always resolve to the same identifier.
var queryIDPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\bproblem\s+statement\s*[-.\s]*(\d+|[a-z])`),
	regexp.MustCompile(`(?i)\bproblem\s*[-.\s]*(\d+|[a-z])`),
	regexp.MustCompile(`(?i)\bps\s*[-.\s]*(\d+|[a-z])`),
}

// stripIDPhrase removes the section-naming phrase (and any punctuation
// that trailed it) from a query once the identifier has been resolved,
// so "problem statement 2: what is X" scores as "what is X".
var stripIDPhrase = regexp.MustCompile(`(?i)(?:\bproblem\s+statement\s*[-.\s]*\d+|\bps\s*[-.\s]*\d+)\s*[:,.\-]*\s*`)

var spaceRun = regexp.MustCompile(`\s+`)

// ExtractID pulls an embedded section identifier out of free text.
// The second return is false when the text names no section.
func ExtractID(text string) (string, bool) {
	for _, re := range queryIDPatterns {
		if sm := re.FindStringSubmatch(text); sm != nil && sm[1] != "" {
			return strings.ToLower(sm[1]), true
		}
	}
	return "", false
}

// StripIDPhrases removes section-naming phrases from a query. When
// stripping would leave nothing, the original query is returned
// unchanged so similarity scoring always has input to work with.
func StripIDPhrases(query string) string {
	cleaned := stripIDPhrase.ReplaceAllString(query, " ")
	cleaned = strings.TrimSpace(spaceRun.ReplaceAllString(cleaned, " "))
	if cleaned == "" {
		return query
	}
	return cleaned
}
