package types

import "errors"

// Domain errors shared across packages. Per the error policy, only
// ErrNoContent and ErrNotFound may reach the request boundary, and both
// are surfaced as structured results rather than crashes; model failures
// are always absorbed by a fallback before they propagate.
var (
	// ErrNoContent means there are no chunks (or embeddings) to search.
	ErrNoContent = errors.New("no document content to search")

	// ErrNotFound means a requested document or section does not exist.
	ErrNotFound = errors.New("not found")

	// ErrMismatchedEmbeddings means the chunk and embedding slices
	// passed to a query-time component disagree in length.
	ErrMismatchedEmbeddings = errors.New("chunk and embedding counts differ")
)
