// Package cache provides the process-scoped embedding cache. Embedding
// the same text twice for the same tenant and model is pure waste, so
// vectors are kept for a bounded TTL.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"
)

// Cache defines the interface for caching.
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// EmbeddingKey generates a cache key for an embedding request. The tenant
// is part of the key so vectors never leak across tenant boundaries, even
// for identical text.
func EmbeddingKey(tenantID, model, text string) string {
	hash := sha256.Sum256([]byte(strings.Join([]string{tenantID, model, text}, "\x00")))
	return "natan:emb:v1:" + hex.EncodeToString(hash[:])
}
