package docstore

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/docsift/docsift/pkg/types"
)

// MemoryStore is a threadsafe in-memory Store. Documents are deep
// copied on the way in and out so callers can never mutate stored
// state.
type MemoryStore struct {
	mu      sync.RWMutex
	docs    map[string]*types.Document
	created map[string]time.Time
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		docs:    make(map[string]*types.Document),
		created: make(map[string]time.Time),
	}
}

func (m *MemoryStore) Put(ctx context.Context, doc *types.Document) error {
	if err := doc.Validate(); err != nil {
		return fmt.Errorf("put document: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.docs[doc.ID]; !exists {
		m.created[doc.ID] = time.Now()
	}
	m.docs[doc.ID] = copyDocument(doc)
	return nil
}

func (m *MemoryStore) Get(ctx context.Context, id string) (*types.Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	doc, ok := m.docs[id]
	if !ok {
		return nil, fmt.Errorf("document %s: %w", id, types.ErrNotFound)
	}
	return copyDocument(doc), nil
}

func (m *MemoryStore) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.docs[id]; !ok {
		return fmt.Errorf("document %s: %w", id, types.ErrNotFound)
	}
	delete(m.docs, id)
	delete(m.created, id)
	return nil
}

func (m *MemoryStore) List(ctx context.Context) ([]DocumentInfo, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	infos := make([]DocumentInfo, 0, len(m.docs))
	for id, doc := range m.docs {
		infos = append(infos, DocumentInfo{
			ID:        id,
			Name:      doc.Name,
			Sections:  len(doc.Sections),
			Chunks:    len(doc.Chunks),
			CreatedAt: m.created[id],
		})
	}
	sort.Slice(infos, func(a, b int) bool {
		if infos[a].CreatedAt.Equal(infos[b].CreatedAt) {
			return infos[a].ID < infos[b].ID
		}
		return infos[a].CreatedAt.After(infos[b].CreatedAt)
	})
	return infos, nil
}

func (m *MemoryStore) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.docs = make(map[string]*types.Document)
	m.created = make(map[string]time.Time)
	return nil
}

func copyDocument(doc *types.Document) *types.Document {
	out := &types.Document{
		ID:       doc.ID,
		Name:     doc.Name,
		RawText:  doc.RawText,
		FullText: doc.FullText,
	}
	out.Sections = append([]types.Section(nil), doc.Sections...)
	out.Chunks = append([]types.Chunk(nil), doc.Chunks...)
	if doc.Embeddings != nil {
		out.Embeddings = make([][]float32, len(doc.Embeddings))
		for i, e := range doc.Embeddings {
			out.Embeddings[i] = append([]float32(nil), e...)
		}
	}
	return out
}
