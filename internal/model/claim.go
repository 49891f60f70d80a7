package model

// Claim is an atomic assertion produced by the generative provider.
// SourceIDs reference EvidenceChunk.OrdinalID values from the same
// retrieval call, nothing else.
type Claim struct {
	Text        string   `json:"text"`
	SourceIDs   []string `json:"source_ids"`             // Ordinal ids ("chunk_1", ...)
	IsInference bool     `json:"is_inference,omitempty"` // Drawn from evidence but not stated verbatim

	// Optional quality signals supplied by the extractor. When nil the
	// verifier applies its defaults (0.9 and 1.0 respectively).
	ExtractorQuality *float64 `json:"extractor_quality,omitempty"`
	DateCoherence    *float64 `json:"date_coherence,omitempty"`

	// OutOfDomain flags a claim that draws on out-of-tenant or external
	// material; it halves the domain sub-score.
	OutOfDomain bool `json:"out_of_domain,omitempty"`
}

// ReliabilityLabel is the letter grade assigned from the URS score.
type ReliabilityLabel string

const (
	LabelA ReliabilityLabel = "A" // urs >= 0.85
	LabelB ReliabilityLabel = "B" // urs >= 0.70
	LabelC ReliabilityLabel = "C" // urs >= 0.50
	LabelX ReliabilityLabel = "X" // urs < 0.50, always blocked
)

// ScoreBreakdown exposes the five URS sub-scores so every grade is
// explainable from its inputs.
type ScoreBreakdown struct {
	Coverage         float64 `json:"coverage"`
	ReferenceScore   float64 `json:"reference_score"`
	ExtractorQuality float64 `json:"extractor_quality"`
	DateCoherence    float64 `json:"date_coherence"`
	DomainScore      float64 `json:"domain_score"` // 1.0 in-domain, 0.5 out-of-domain
}

// VerifiedClaim is a Claim after scoring and source resolution.
type VerifiedClaim struct {
	Claim      Claim            `json:"claim"`
	URSScore   float64          `json:"urs_score"`
	Label      ReliabilityLabel `json:"label"`
	Reason     string           `json:"reason"`
	Breakdown  ScoreBreakdown   `json:"score_breakdown"`
	SourceRefs []SourceRef      `json:"resolved_source_refs"`
}
