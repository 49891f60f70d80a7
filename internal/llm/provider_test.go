package llm

import (
	"strings"
	"testing"

	"github.com/AutobookNft/NATAN-LOC-sub001/internal/model"
)

func TestBuildPrompt(t *testing.T) {
	chunks := []model.EvidenceChunk{
		{OrdinalID: "chunk_1", Text: "Il contratto è stato firmato nel 2021."},
		{OrdinalID: "chunk_2", Text: "La durata è di cinque anni."},
	}

	prompt := BuildPrompt("Quando è stato firmato il contratto?", chunks)

	if !strings.Contains(prompt, "[chunk_1] Il contratto è stato firmato nel 2021.") {
		t.Error("Prompt missing first evidence chunk with its ordinal id")
	}
	if !strings.Contains(prompt, "[chunk_2]") {
		t.Error("Prompt missing second evidence chunk")
	}
	if !strings.Contains(prompt, "Quando è stato firmato il contratto?") {
		t.Error("Prompt missing the question")
	}
	if !strings.Contains(prompt, "source_ids") {
		t.Error("Prompt missing the claim JSON contract")
	}
}

func TestParseGenerateOutput_PlainJSON(t *testing.T) {
	raw := `{"answer": "Firmato nel 2021.", "claims": [{"text": "Il contratto è stato firmato nel 2021.", "source_ids": ["chunk_1"], "is_inference": false}]}`

	answer, claims, err := ParseGenerateOutput(raw)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if answer != "Firmato nel 2021." {
		t.Errorf("Wrong answer: %q", answer)
	}
	if len(claims) != 1 {
		t.Fatalf("Expected 1 claim, got %d", len(claims))
	}
	if claims[0].SourceIDs[0] != "chunk_1" || claims[0].IsInference {
		t.Errorf("Claim fields wrong: %+v", claims[0])
	}
}

func TestParseGenerateOutput_FencedJSON(t *testing.T) {
	raw := "Here is the result:\n```json\n{\"answer\": \"ok\", \"claims\": []}\n```\n"

	answer, claims, err := ParseGenerateOutput(raw)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if answer != "ok" {
		t.Errorf("Wrong answer: %q", answer)
	}
	if len(claims) != 0 {
		t.Errorf("Expected no claims, got %d", len(claims))
	}
}

func TestParseGenerateOutput_BracesInStrings(t *testing.T) {
	raw := `{"answer": "uses {braces} inside", "claims": [{"text": "a } b", "source_ids": ["chunk_1"]}]}`

	answer, claims, err := ParseGenerateOutput(raw)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if answer != "uses {braces} inside" {
		t.Errorf("Wrong answer: %q", answer)
	}
	if len(claims) != 1 || claims[0].Text != "a } b" {
		t.Errorf("Claim text mangled: %+v", claims)
	}
}

func TestParseGenerateOutput_NoJSON(t *testing.T) {
	if _, _, err := ParseGenerateOutput("I cannot answer that."); err == nil {
		t.Fatal("Expected error for output without JSON")
	}
}

func TestParseGenerateOutput_InvalidJSON(t *testing.T) {
	if _, _, err := ParseGenerateOutput(`{"answer": 42, "claims": "nope"}`); err == nil {
		t.Fatal("Expected error for malformed payload")
	}
}

func TestNewGenerator_UnknownProvider(t *testing.T) {
	if _, err := NewGenerator(Config{Provider: "mystery"}); err == nil {
		t.Fatal("Expected error for unknown provider")
	}
}

func TestNewEmbedder_AnthropicRejected(t *testing.T) {
	// Anthropic has no embeddings API.
	if _, err := NewEmbedder(Config{Provider: "anthropic", APIKey: "k"}); err == nil {
		t.Fatal("Expected error for anthropic embedder")
	}
}

func TestNewOpenAIProvider_RequiresKey(t *testing.T) {
	if _, err := NewOpenAIProvider(Config{Provider: "openai"}); err == nil {
		t.Fatal("Expected error without API key")
	}
}
