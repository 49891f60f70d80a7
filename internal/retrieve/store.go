package retrieve

import (
	"context"
	"sync"
)

// StoredChunk is a corpus chunk as the document store hands it out.
// Chunks without an embedding are skipped by the retriever.
type StoredChunk struct {
	ID         string
	TenantID   string
	DocumentID string
	Text       string
	Embedding  []float32
	Page       int // 0 when unknown
}

// StoredSource is the document record a chunk originated from.
type StoredSource struct {
	ID    string
	Title string
	URL   string
}

// Filter narrows a corpus scan. Zero value matches everything.
type Filter struct {
	DocumentIDs []string // Restrict to these documents when non-empty
}

// DocumentStore is the read-only corpus the retriever scans. Find must
// return a static snapshot for the duration of one retrieval call.
type DocumentStore interface {
	Find(ctx context.Context, tenantID string, filter Filter) ([]StoredChunk, error)
	FindSource(ctx context.Context, documentID string) (*StoredSource, error)
}

// MemoryStore is an in-memory DocumentStore for tests and local corpora.
type MemoryStore struct {
	mu      sync.RWMutex
	chunks  []StoredChunk
	sources map[string]StoredSource
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sources: make(map[string]StoredSource)}
}

// AddSource registers a document record.
func (s *MemoryStore) AddSource(source StoredSource) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sources[source.ID] = source
}

// AddChunk appends a chunk to the corpus. Insertion order is the scan
// order the retriever sees.
func (s *MemoryStore) AddChunk(chunk StoredChunk) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.chunks = append(s.chunks, chunk)
}

// Find returns a snapshot of the tenant's chunks in insertion order.
func (s *MemoryStore) Find(ctx context.Context, tenantID string, filter Filter) ([]StoredChunk, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	wanted := make(map[string]bool, len(filter.DocumentIDs))
	for _, id := range filter.DocumentIDs {
		wanted[id] = true
	}

	var out []StoredChunk
	for _, chunk := range s.chunks {
		if chunk.TenantID != tenantID {
			continue
		}
		if len(wanted) > 0 && !wanted[chunk.DocumentID] {
			continue
		}
		out = append(out, chunk)
	}
	return out, nil
}

// FindSource returns the document record, or nil when unknown.
func (s *MemoryStore) FindSource(ctx context.Context, documentID string) (*StoredSource, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	source, ok := s.sources[documentID]
	if !ok {
		return nil, nil
	}
	return &source, nil
}
