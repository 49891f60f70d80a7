package model

// QueryStatus is the outer outcome of a query.
// no_results is a normal outcome, not an error.
type QueryStatus string

const (
	StatusSuccess   QueryStatus = "success"
	StatusNoResults QueryStatus = "no_results"
)

// VerificationStatus summarizes the verified/blocked partition.
// It is a function of the partition, never of claim content.
type VerificationStatus string

const (
	VerificationSafe    VerificationStatus = "SAFE"    // Zero claims blocked
	VerificationWarning VerificationStatus = "WARNING" // Blocked < half of total
	VerificationBlocked VerificationStatus = "BLOCKED" // Blocked >= half of total
	VerificationNoData  VerificationStatus = "NO_DATA" // No claims produced at all
)

// TokenUsage accumulates provider token consumption for one query.
type TokenUsage struct {
	EmbeddingTokens  int `json:"embedding_tokens"`
	GenerationTokens int `json:"generation_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// QueryResult is the orchestrator's published result object.
type QueryResult struct {
	Status             QueryStatus        `json:"status"`
	Answer             string             `json:"answer,omitempty"`
	VerifiedClaims     []VerifiedClaim    `json:"verified_claims"`
	BlockedClaims      []VerifiedClaim    `json:"blocked_claims"`
	AvgURS             float64            `json:"avg_urs"` // Mean over verified claims, 0.0 when none
	VerificationStatus VerificationStatus `json:"verification_status"`
	ModelUsed          string             `json:"model_used,omitempty"`
	TokenUsage         TokenUsage         `json:"token_usage"`
	Reason             string             `json:"reason,omitempty"` // Set on routing blocks and no-op paths
}
