package cache

import (
	"testing"
	"time"
)

func TestMemoryCache_SetGet(t *testing.T) {
	c := NewMemoryCache(time.Minute, time.Minute)

	if err := c.Set("k", []byte("v"), time.Minute); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, ok := c.Get("k")
	if !ok {
		t.Fatal("expected hit")
	}
	if string(got) != "v" {
		t.Errorf("expected v, got %s", got)
	}

	if _, ok := c.Get("absent"); ok {
		t.Error("expected miss for absent key")
	}
}

func TestMemoryCache_Expiry(t *testing.T) {
	c := NewMemoryCache(time.Minute, time.Minute)

	if err := c.Set("k", []byte("v"), 10*time.Millisecond); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	time.Sleep(30 * time.Millisecond)

	if _, ok := c.Get("k"); ok {
		t.Error("expected expired entry to miss")
	}
}

func TestMemoryCache_DeleteAndClear(t *testing.T) {
	c := NewMemoryCache(time.Minute, time.Minute)

	_ = c.Set("a", []byte("1"), time.Minute)
	_ = c.Set("b", []byte("2"), time.Minute)

	if err := c.Delete("a"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := c.Get("a"); ok {
		t.Error("expected miss after delete")
	}

	if err := c.Clear(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := c.Get("b"); ok {
		t.Error("expected miss after clear")
	}
}

func TestEmbeddingKey_TenantSeparation(t *testing.T) {
	a := EmbeddingKey("tenant-1", "text-embedding-3-small", "stesso testo")
	b := EmbeddingKey("tenant-2", "text-embedding-3-small", "stesso testo")
	if a == b {
		t.Error("identical text must not collide across tenants")
	}

	c := EmbeddingKey("tenant-1", "nomic-embed-text", "stesso testo")
	if a == c {
		t.Error("identical text must not collide across models")
	}

	if a != EmbeddingKey("tenant-1", "text-embedding-3-small", "stesso testo") {
		t.Error("key must be deterministic")
	}
}

func TestEmbeddingKey_DelimiterSafety(t *testing.T) {
	// Concatenation ambiguity: ("ab","c") and ("a","bc") must differ.
	a := EmbeddingKey("ab", "c", "x")
	b := EmbeddingKey("a", "bc", "x")
	if a == b {
		t.Error("key components must be unambiguously delimited")
	}
}
