// Package section detects titled sections in raw document text using an
// ordered list of heading patterns, and extracts section identifiers
// from free text so queries like "what does problem statement 2 ask"
// can be scoped to the right section.
//
// Detection is heuristic and best-effort: heading patterns are scanned
// left to right in one combined alternation, with earlier patterns
// winning ties at the same position. Documents without any recognizable
// heading fall back to paragraph splitting, and finally to a single
// whole-document section.
package section
