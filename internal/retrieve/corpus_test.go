package retrieve

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

const corpusFixture = `{
  "sources": [
    {"id": "doc-1", "title": "Contratto quadro", "url": "https://example.com/doc-1.pdf"}
  ],
  "chunks": [
    {"id": "a", "tenant_id": "tenant-1", "document_id": "doc-1", "text": "alpha", "embedding": [1, 0], "page": 2},
    {"id": "b", "tenant_id": "tenant-1", "document_id": "doc-1", "text": "beta", "embedding": [0, 1]}
  ]
}`

func TestLoadCorpus(t *testing.T) {
	path := filepath.Join(t.TempDir(), "corpus.json")
	if err := os.WriteFile(path, []byte(corpusFixture), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	store, err := LoadCorpus(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	chunks, err := store.Find(context.Background(), "tenant-1", Filter{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(chunks) != 2 {
		t.Fatalf("expected 2 chunks, got %d", len(chunks))
	}
	// File order is scan order.
	if chunks[0].ID != "a" || chunks[1].ID != "b" {
		t.Errorf("chunk order not preserved: %s, %s", chunks[0].ID, chunks[1].ID)
	}
	if chunks[0].Page != 2 {
		t.Errorf("expected page 2, got %d", chunks[0].Page)
	}

	source, err := store.FindSource(context.Background(), "doc-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if source == nil || source.Title != "Contratto quadro" {
		t.Errorf("source not loaded: %+v", source)
	}
}

func TestLoadCorpus_MissingFile(t *testing.T) {
	if _, err := LoadCorpus(filepath.Join(t.TempDir(), "absent.json")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestLoadCorpus_InvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "corpus.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	if _, err := LoadCorpus(path); err == nil {
		t.Error("expected error for invalid JSON")
	}
}

func TestMemoryStore_DocumentFilter(t *testing.T) {
	store := NewMemoryStore()
	store.AddChunk(StoredChunk{ID: "a", TenantID: "t", DocumentID: "doc-1", Text: "alpha"})
	store.AddChunk(StoredChunk{ID: "b", TenantID: "t", DocumentID: "doc-2", Text: "beta"})

	chunks, err := store.Find(context.Background(), "t", Filter{DocumentIDs: []string{"doc-2"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(chunks) != 1 || chunks[0].ID != "b" {
		t.Errorf("filter not applied: %+v", chunks)
	}
}

func TestMemoryStore_UnknownSource(t *testing.T) {
	store := NewMemoryStore()

	source, err := store.FindSource(context.Background(), "absent")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if source != nil {
		t.Errorf("expected nil for unknown document, got %+v", source)
	}
}
