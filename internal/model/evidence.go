package model

// SourceRef resolves an evidence chunk back to the document it came from.
type SourceRef struct {
	DocumentID string `json:"document_id"`
	Title      string `json:"title,omitempty"`
	URL        string `json:"url,omitempty"`  // Page anchor appended when the page is known
	Page       int    `json:"page,omitempty"` // 0 when unknown
}

// EvidenceChunk is a ranked unit of retrieved text.
//
// OrdinalID is assigned by the retriever as a 1-based position in the ranked
// list ("chunk_1", "chunk_2", ...). It is the only identifier claims may cite
// and is scoped to a single retrieval call, never globally stable.
type EvidenceChunk struct {
	OrdinalID       string    `json:"ordinal_id"`
	Text            string    `json:"text"`
	Embedding       []float32 `json:"-"` // Not serialized: large and caller-irrelevant
	SimilarityScore float64   `json:"similarity_score"`
	Source          SourceRef `json:"source"`
	TenantID        string    `json:"tenant_id"`
}
