// Package docstore persists ingested documents. Two implementations
// are provided: an in-memory store for tests and single-shot use, and
// a SQLite store for durable multi-session use.
package docstore

import (
	"context"
	"time"

	"github.com/docsift/docsift/pkg/types"
)

// DocumentInfo is the listing view of a stored document.
type DocumentInfo struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Sections  int       `json:"sections"`
	Chunks    int       `json:"chunks"`
	CreatedAt time.Time `json:"created_at"`
}

// Store persists ingested documents keyed by ID.
type Store interface {
	// Put stores a document, replacing any existing document with the
	// same ID.
	Put(ctx context.Context, doc *types.Document) error

	// Get returns the document with the given ID, or types.ErrNotFound.
	Get(ctx context.Context, id string) (*types.Document, error)

	// Delete removes a document; deleting an unknown ID returns
	// types.ErrNotFound.
	Delete(ctx context.Context, id string) error

	// List returns listing info for every stored document, newest first.
	List(ctx context.Context) ([]DocumentInfo, error)

	// Close releases the store's resources.
	Close() error
}
