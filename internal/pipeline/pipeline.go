// Package pipeline sequences the query-gating stages: classify, route,
// retrieve, generate, verify. Everything between the external calls is
// synchronous and deterministic.
package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/AutobookNft/NATAN-LOC-sub001/internal/cache"
	"github.com/AutobookNft/NATAN-LOC-sub001/internal/classify"
	"github.com/AutobookNft/NATAN-LOC-sub001/internal/llm"
	"github.com/AutobookNft/NATAN-LOC-sub001/internal/model"
	"github.com/AutobookNft/NATAN-LOC-sub001/internal/retrieve"
	"github.com/AutobookNft/NATAN-LOC-sub001/internal/route"
	"github.com/AutobookNft/NATAN-LOC-sub001/internal/verify"
	"github.com/AutobookNft/NATAN-LOC-sub001/internal/worker"
)

// Pipeline orchestrates one query end to end. It holds no per-request
// state, so a single Pipeline serves concurrent requests.
type Pipeline struct {
	classifier *classify.Classifier
	router     *route.Router
	retriever  *retrieve.Retriever
	verifier   *verify.Verifier
	registry   *llm.Registry
	policy     *llm.Policy
	embedCache cache.Cache // nil when caching is disabled
	limiter    *worker.Limiter
	config     *model.Config
	logger     *slog.Logger
}

// NewPipeline creates a pipeline over the given corpus store.
func NewPipeline(cfg *model.Config, store retrieve.DocumentStore, logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}

	var embedCache cache.Cache
	if cfg.Cache.Enabled {
		embedCache = cache.NewMemoryCache(cfg.Cache.TTL, cfg.Cache.CleanupInterval)
	}

	return &Pipeline{
		classifier: classify.NewClassifier(nil),
		router:     route.NewRouter(),
		retriever:  retrieve.NewRetriever(store),
		verifier:   verify.NewVerifier(),
		registry:   llm.NewRegistry(),
		policy:     llm.NewPolicy(cfg),
		embedCache: embedCache,
		limiter:    worker.NewLimiter(cfg.Concurrency.ProviderRateLimit, cfg.Concurrency.ProviderRateBurst),
		config:     cfg,
		logger:     logger,
	}
}

// Request is one question to process.
type Request struct {
	Question string
	TenantID string
	Persona  string
	Model    string // Optional explicit model override

	// QueryEmbedding, when non-empty, skips the embedding call.
	QueryEmbedding []float32

	Debug bool
}

// ProcessQuery runs the full pipeline for one question.
//
// Degraded data (zero chunks, zero claims) is a normal no_results outcome.
// External-service failures are returned as errors: masking a provider
// failure as an empty answer would violate the reliability contract.
func (p *Pipeline) ProcessQuery(ctx context.Context, req Request) (*model.QueryResult, error) {
	if req.Question == "" {
		return nil, fmt.Errorf("empty question")
	}
	if req.TenantID == "" {
		return nil, fmt.Errorf("empty tenant id")
	}

	// 1. Classify
	classification := p.classifier.Classify(req.Question, req.TenantID, req.Model)
	p.logger.Debug("classified question",
		"tenant", req.TenantID,
		"intent", classification.Intent,
		"confidence", classification.Confidence)

	// 2. Route
	decision := p.router.Route(classification.Intent, classification.Confidence, req.Question, req.TenantID, classification.Constraints)
	if !decision.RequiresGeneration {
		return p.earlyResult(decision), nil
	}

	usage := model.TokenUsage{}

	// 3. Embed (unless precomputed)
	queryEmbedding := req.QueryEmbedding
	if len(queryEmbedding) == 0 {
		result, err := p.embed(ctx, req)
		if err != nil {
			return nil, fmt.Errorf("embed query: %w", err)
		}
		queryEmbedding = result.Vector
		usage.EmbeddingTokens = result.TokenCount
	}

	// 4. Retrieve
	chunks, err := p.retriever.Retrieve(ctx, queryEmbedding, req.TenantID, p.config.Retrieval.Limit, p.config.Retrieval.MinScore, retrieve.Filter{})
	if err != nil {
		return nil, fmt.Errorf("retrieve evidence: %w", err)
	}
	if len(chunks) == 0 {
		p.logger.Info("no evidence above threshold", "tenant", req.TenantID)
		return p.noResults("no evidence found in the tenant corpus", usage), nil
	}

	// 5. Generate (external)
	gen, err := p.generate(ctx, req, chunks)
	if err != nil {
		return nil, fmt.Errorf("generate claims: %w", err)
	}
	usage.GenerationTokens = gen.TokensUsed
	usage.TotalTokens = usage.EmbeddingTokens + usage.GenerationTokens

	if len(gen.Claims) == 0 {
		// An answer without claims is unattributed; never surface it.
		p.logger.Info("generation produced no claims", "tenant", req.TenantID, "model", gen.Model)
		result := p.noResults("generation produced no verifiable claims", usage)
		result.ModelUsed = gen.Model
		return result, nil
	}

	// 6. Verify
	verification := p.verifier.Verify(gen.Claims, chunks, req.TenantID)
	p.logger.Info("verified claims",
		"tenant", req.TenantID,
		"verified", len(verification.VerifiedClaims),
		"blocked", len(verification.BlockedClaims),
		"avg_urs", verification.AvgURS,
		"status", verification.Status)

	return &model.QueryResult{
		Status:             model.StatusSuccess,
		Answer:             gen.Answer,
		VerifiedClaims:     verification.VerifiedClaims,
		BlockedClaims:      verification.BlockedClaims,
		AvgURS:             verification.AvgURS,
		VerificationStatus: verification.Status,
		ModelUsed:          gen.Model,
		TokenUsage:         usage,
	}, nil
}

// embed resolves the embedding provider through the policy chain and
// produces the query vector, consulting the cache first.
func (p *Pipeline) embed(ctx context.Context, req Request) (*llm.EmbeddingResult, error) {
	candidates := p.policy.Select(req.TenantID, llm.TaskEmbedding, req.Persona, "")

	var lastErr error
	for _, candidate := range candidates {
		embedder, err := p.registry.Embedder(candidate)
		if err != nil {
			lastErr = err
			continue
		}

		key := cache.EmbeddingKey(req.TenantID, candidate.Model, req.Question)
		if p.embedCache != nil {
			if data, ok := p.embedCache.Get(key); ok {
				var vector []float32
				if err := json.Unmarshal(data, &vector); err == nil {
					return &llm.EmbeddingResult{Vector: vector, Dimensions: len(vector)}, nil
				}
			}
		}

		if err := p.limiter.Wait(ctx, embedder.Name()); err != nil {
			return nil, err
		}

		result, err := embedder.Embed(ctx, req.Question)
		if err != nil {
			lastErr = err
			p.logger.Warn("embedding provider failed, trying next", "provider", embedder.Name(), "error", err)
			continue
		}

		if p.embedCache != nil {
			if data, err := json.Marshal(result.Vector); err == nil {
				_ = p.embedCache.Set(key, data, p.config.Cache.TTL)
			}
		}
		return result, nil
	}

	return nil, fmt.Errorf("all embedding providers failed: %w", lastErr)
}

// generate resolves the generation provider through the policy chain and
// runs the claim-producing call.
func (p *Pipeline) generate(ctx context.Context, req Request, chunks []model.EvidenceChunk) (*llm.GenerateResponse, error) {
	candidates := p.policy.Select(req.TenantID, llm.TaskGeneration, req.Persona, req.Model)

	var lastErr error
	for _, candidate := range candidates {
		generator, err := p.registry.Generator(candidate)
		if err != nil {
			lastErr = err
			continue
		}

		if err := p.limiter.Wait(ctx, generator.Name()); err != nil {
			return nil, err
		}

		resp, err := generator.Generate(ctx, llm.GenerateRequest{
			Question:  req.Question,
			Chunks:    chunks,
			Model:     candidate.Model,
			MaxTokens: p.config.LLM.MaxTokens,
		})
		if err != nil {
			lastErr = err
			p.logger.Warn("generation provider failed, trying next", "provider", generator.Name(), "error", err)
			continue
		}
		return resp, nil
	}

	return nil, fmt.Errorf("all generation providers failed: %w", lastErr)
}

// earlyResult builds the block/no-op result for routes that skip
// generation. A blocked route carries BLOCKED; the inert direct_query
// path carries NO_DATA since no claims were produced.
func (p *Pipeline) earlyResult(decision model.RoutingDecision) *model.QueryResult {
	result := &model.QueryResult{
		Status:         model.StatusSuccess,
		VerifiedClaims: []model.VerifiedClaim{},
		BlockedClaims:  []model.VerifiedClaim{},
		Reason:         decision.Reason,
	}

	if decision.Action == model.ActionBlock {
		result.VerificationStatus = model.VerificationBlocked
		return result
	}

	// direct_query: the contract allows a direct answer but no direct
	// answering logic exists yet.
	result.VerificationStatus = model.VerificationNoData
	result.Reason = decision.Reason + " (direct answering not implemented)"
	return result
}

func (p *Pipeline) noResults(reason string, usage model.TokenUsage) *model.QueryResult {
	usage.TotalTokens = usage.EmbeddingTokens + usage.GenerationTokens
	return &model.QueryResult{
		Status:             model.StatusNoResults,
		VerifiedClaims:     []model.VerifiedClaim{},
		BlockedClaims:      []model.VerifiedClaim{},
		VerificationStatus: model.VerificationNoData,
		TokenUsage:         usage,
		Reason:             reason,
	}
}
