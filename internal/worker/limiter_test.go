package worker

import (
	"context"
	"testing"
	"time"
)

func TestLimiter_AllowWithinBurst(t *testing.T) {
	l := NewLimiter(1, 3)

	for i := 0; i < 3; i++ {
		if !l.Allow("openai") {
			t.Errorf("request %d should be within burst", i)
		}
	}
	if l.Allow("openai") {
		t.Error("request beyond burst should be denied")
	}
}

func TestLimiter_KeysAreIndependent(t *testing.T) {
	l := NewLimiter(1, 1)

	if !l.Allow("openai") {
		t.Fatal("first openai request should pass")
	}
	if l.Allow("openai") {
		t.Error("second openai request should be denied")
	}
	// A different provider has its own bucket.
	if !l.Allow("ollama") {
		t.Error("ollama must not share openai's bucket")
	}
}

func TestLimiter_SetKeyRate(t *testing.T) {
	l := NewLimiter(1, 1)
	l.SetKeyRate("anthropic", 100, 10)

	for i := 0; i < 10; i++ {
		if !l.Allow("anthropic") {
			t.Errorf("request %d should be within the custom burst", i)
		}
	}
}

func TestLimiter_DefaultBurst(t *testing.T) {
	l := NewLimiter(1, 0)
	if l.defaultBurst != 5 {
		t.Errorf("expected default burst 5, got %d", l.defaultBurst)
	}
}

func TestLimiter_WaitHonorsContext(t *testing.T) {
	l := NewLimiter(0.001, 1)

	// Drain the single burst slot.
	if !l.Allow("slow") {
		t.Fatal("first request should pass")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	if err := l.Wait(ctx, "slow"); err == nil {
		t.Error("Wait should fail when the context expires first")
	}
}
