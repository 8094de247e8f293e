// Package chunker splits section content into fixed-size word windows,
// the unit of embedding and retrieval. Splitting is deterministic and
// pure: consecutive non-overlapping windows whose concatenation
// reproduces the whitespace-normalized word sequence of the input.
package chunker
