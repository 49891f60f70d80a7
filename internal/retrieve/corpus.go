package retrieve

import (
	"encoding/json"
	"fmt"
	"os"
)

// corpusFile is the on-disk snapshot format consumed by the CLI. Real
// deployments plug a live DocumentStore in instead.
type corpusFile struct {
	Sources []corpusSource `json:"sources"`
	Chunks  []corpusChunk  `json:"chunks"`
}

type corpusSource struct {
	ID    string `json:"id"`
	Title string `json:"title,omitempty"`
	URL   string `json:"url,omitempty"`
}

type corpusChunk struct {
	ID         string    `json:"id"`
	TenantID   string    `json:"tenant_id"`
	DocumentID string    `json:"document_id"`
	Text       string    `json:"text"`
	Embedding  []float32 `json:"embedding"`
	Page       int       `json:"page,omitempty"`
}

// LoadCorpus reads a corpus snapshot file into a MemoryStore. Chunks keep
// file order, which is the retriever's scan order.
func LoadCorpus(path string) (*MemoryStore, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read corpus: %w", err)
	}

	var file corpusFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("decode corpus: %w", err)
	}

	store := NewMemoryStore()
	for _, s := range file.Sources {
		store.AddSource(StoredSource{ID: s.ID, Title: s.Title, URL: s.URL})
	}
	for _, c := range file.Chunks {
		store.AddChunk(StoredChunk{
			ID:         c.ID,
			TenantID:   c.TenantID,
			DocumentID: c.DocumentID,
			Text:       c.Text,
			Embedding:  c.Embedding,
			Page:       c.Page,
		})
	}
	return store, nil
}
