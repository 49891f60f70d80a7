// Package retrieve ranks tenant-scoped corpus chunks against a query
// embedding by cosine similarity.
package retrieve

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/AutobookNft/NATAN-LOC-sub001/internal/model"
)

// Retriever scans a document store and returns ranked evidence chunks.
//
// The scan is deliberately linear over all tenant chunks per query:
// correctness over amortized performance. An index may replace the scan
// as long as threshold and ranking semantics stay identical.
type Retriever struct {
	store DocumentStore
}

// NewRetriever creates a retriever over the given store.
func NewRetriever(store DocumentStore) *Retriever {
	return &Retriever{store: store}
}

// Retrieve returns up to limit chunks with similarity >= minScore, sorted
// by descending score. Equal scores keep corpus scan order (stable sort);
// the tie-break is testable but carries no semantic meaning.
//
// Ordinal ids ("chunk_1", ...) are assigned after ranking and truncation
// and are only valid for claims produced from this same call.
func (r *Retriever) Retrieve(ctx context.Context, queryEmbedding []float32, tenantID string, limit int, minScore float64, filter Filter) ([]model.EvidenceChunk, error) {
	if len(queryEmbedding) == 0 {
		return nil, fmt.Errorf("empty query embedding")
	}
	if limit <= 0 {
		limit = 8
	}

	stored, err := r.store.Find(ctx, tenantID, filter)
	if err != nil {
		return nil, fmt.Errorf("find chunks: %w", err)
	}

	type scored struct {
		chunk StoredChunk
		score float64
	}

	var candidates []scored
	for _, chunk := range stored {
		if len(chunk.Embedding) == 0 {
			continue
		}
		score := CosineSimilarity(queryEmbedding, chunk.Embedding)
		if score < minScore {
			continue
		}
		candidates = append(candidates, scored{chunk: chunk, score: score})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].score > candidates[j].score
	})

	if len(candidates) > limit {
		candidates = candidates[:limit]
	}

	chunks := make([]model.EvidenceChunk, 0, len(candidates))
	for i, c := range candidates {
		source, err := r.resolveSource(ctx, c.chunk)
		if err != nil {
			return nil, fmt.Errorf("resolve source for chunk %s: %w", c.chunk.ID, err)
		}
		chunks = append(chunks, model.EvidenceChunk{
			OrdinalID:       fmt.Sprintf("chunk_%d", i+1),
			Text:            c.chunk.Text,
			Embedding:       c.chunk.Embedding,
			SimilarityScore: c.score,
			Source:          source,
			TenantID:        c.chunk.TenantID,
		})
	}

	return chunks, nil
}

// resolveSource joins a chunk to its originating document and appends a
// page anchor when the page is known.
func (r *Retriever) resolveSource(ctx context.Context, chunk StoredChunk) (model.SourceRef, error) {
	ref := model.SourceRef{
		DocumentID: chunk.DocumentID,
		Page:       chunk.Page,
	}

	source, err := r.store.FindSource(ctx, chunk.DocumentID)
	if err != nil {
		return ref, err
	}
	if source == nil {
		return ref, nil
	}

	ref.Title = source.Title
	ref.URL = source.URL
	if ref.URL != "" && chunk.Page > 0 {
		ref.URL = fmt.Sprintf("%s#page=%d", source.URL, chunk.Page)
	}
	return ref, nil
}

// CosineSimilarity computes dot(a,b) / (|a|*|b|), or 0.0 when either norm
// is zero so a degenerate vector never divides by zero.
func CosineSimilarity(a, b []float32) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}

	var dot, normA, normB float64
	for i := 0; i < n; i++ {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	if normA == 0 || normB == 0 {
		return 0.0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
