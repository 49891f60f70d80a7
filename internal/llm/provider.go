// Package llm holds the external provider contracts: embedding generation
// and evidence-grounded claim generation. Providers are replaceable behind
// the Embedder and Generator interfaces.
package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/AutobookNft/NATAN-LOC-sub001/internal/model"
)

// Embedder turns text into an embedding vector.
type Embedder interface {
	// Name returns the provider name
	Name() string

	// Embed generates an embedding for the given text
	Embed(ctx context.Context, text string) (*EmbeddingResult, error)

	// IsAvailable checks if the provider is properly configured and accessible
	IsAvailable(ctx context.Context) bool
}

// EmbeddingResult is the embedding provider's output.
type EmbeddingResult struct {
	Vector     []float32
	Dimensions int
	TokenCount int
}

// Generator produces a draft answer plus atomic claims from a question and
// the evidence chunks handed to it. Claims must cite evidence strictly by
// the ordinal ids present in that call.
type Generator interface {
	// Name returns the provider name
	Name() string

	// Generate produces an answer and its supporting claims
	Generate(ctx context.Context, req GenerateRequest) (*GenerateResponse, error)

	// IsAvailable checks if the provider is properly configured and accessible
	IsAvailable(ctx context.Context) bool
}

// GenerateRequest contains the input for claim generation.
type GenerateRequest struct {
	// Question is the user's question text
	Question string

	// Chunks is the ranked evidence the answer must be grounded on.
	// Their ordinal ids are the only valid citation keys.
	Chunks []model.EvidenceChunk

	// Model is the specific model to use (provider-specific)
	Model string

	// MaxTokens limits the response length
	MaxTokens int
}

// GenerateResponse contains the generator's output.
type GenerateResponse struct {
	// Answer is the draft answer text
	Answer string

	// Claims are the atomic assertions backing the answer
	Claims []model.Claim

	// Model is the model that generated the response
	Model string

	// TokensUsed tracks token consumption
	TokensUsed int
}

// Config holds provider configuration.
type Config struct {
	// Provider name: "openai", "anthropic", "ollama"
	Provider string

	// Model name (provider-specific)
	Model string

	// APIKey for OpenAI/Anthropic
	APIKey string

	// BaseURL for custom endpoints (e.g., Ollama)
	BaseURL string

	// Timeout for API requests
	Timeout int // seconds

	// MaxTokens for response generation
	MaxTokens int

	// Proxy settings
	HTTPProxy  string
	HTTPSProxy string
	NoProxy    string
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		Provider:  "openai",
		Timeout:   30,
		MaxTokens: 1500,
	}
}

// GenerationConfig builds a provider Config from the runtime generation
// settings.
func GenerationConfig(cfg model.LLMConfig) Config {
	return Config{
		Provider:   cfg.Provider,
		Model:      cfg.Model,
		APIKey:     cfg.APIKey,
		BaseURL:    cfg.BaseURL,
		Timeout:    cfg.Timeout,
		MaxTokens:  cfg.MaxTokens,
		HTTPProxy:  cfg.HTTPProxy,
		HTTPSProxy: cfg.HTTPSProxy,
		NoProxy:    cfg.NoProxy,
	}
}

// EmbeddingConfig builds a provider Config from the runtime embedding
// settings. Proxy settings are shared with the generation side.
func EmbeddingConfig(cfg model.EmbeddingConfig, llmCfg model.LLMConfig) Config {
	return Config{
		Provider:   cfg.Provider,
		Model:      cfg.Model,
		APIKey:     cfg.APIKey,
		BaseURL:    cfg.BaseURL,
		Timeout:    cfg.Timeout,
		HTTPProxy:  llmCfg.HTTPProxy,
		HTTPSProxy: llmCfg.HTTPSProxy,
		NoProxy:    llmCfg.NoProxy,
	}
}

// systemPrompt is shared by every generator implementation.
const systemPrompt = "You answer questions strictly from the provided evidence chunks and emit machine-readable claims with citations."

// BuildPrompt constructs the generation prompt with strict citation rules.
// The evidence list fixes the only ordinal ids the model may cite.
func BuildPrompt(question string, chunks []model.EvidenceChunk) string {
	var b strings.Builder

	b.WriteString(`Answer the question using ONLY the evidence chunks below.

CRITICAL RULES:
1. Every statement in your answer must be backed by a claim citing chunk ids from the list below.
2. Cite chunks ONLY by their ids (chunk_1, chunk_2, ...). Never invent ids.
3. If a statement combines evidence rather than restating it, mark the claim as an inference.
4. If the evidence does not answer the question, say so and emit no claims.
5. Respond with a single JSON object, no prose around it:
   {"answer": "...", "claims": [{"text": "...", "source_ids": ["chunk_1"], "is_inference": false}]}

Evidence:
`)

	for _, chunk := range chunks {
		fmt.Fprintf(&b, "[%s] %s\n", chunk.OrdinalID, chunk.Text)
	}

	fmt.Fprintf(&b, "\nQuestion: %s\n", question)
	return b.String()
}

// generateOutput mirrors the JSON object the prompt demands.
type generateOutput struct {
	Answer string        `json:"answer"`
	Claims []model.Claim `json:"claims"`
}

// ParseGenerateOutput extracts the answer and claims from raw model output.
// Models routinely wrap JSON in markdown fences or prose; the first
// top-level JSON object found is decoded.
func ParseGenerateOutput(raw string) (string, []model.Claim, error) {
	payload := extractJSONObject(raw)
	if payload == "" {
		return "", nil, fmt.Errorf("no JSON object in model output")
	}

	var out generateOutput
	if err := json.Unmarshal([]byte(payload), &out); err != nil {
		return "", nil, fmt.Errorf("decode model output: %w", err)
	}
	return strings.TrimSpace(out.Answer), out.Claims, nil
}

// extractJSONObject returns the first balanced top-level JSON object in
// the text, or "" when none exists. Braces inside JSON strings are
// accounted for.
func extractJSONObject(text string) string {
	start := strings.IndexByte(text, '{')
	if start < 0 {
		return ""
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(text); i++ {
		c := text[i]
		switch {
		case escaped:
			escaped = false
		case c == '\\' && inString:
			escaped = true
		case c == '"':
			inString = !inString
		case inString:
		case c == '{':
			depth++
		case c == '}':
			depth--
			if depth == 0 {
				return text[start : i+1]
			}
		}
	}
	return ""
}
