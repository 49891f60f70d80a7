// Package verify gates generated claims on a transparent reliability
// score before they can reach the caller.
package verify

import (
	"fmt"

	"github.com/AutobookNft/NATAN-LOC-sub001/internal/model"
)

// URS weights. The five sub-scores sum to 1.0, so the total is always
// in [0,1].
const (
	WeightCoverage  = 0.30
	WeightReference = 0.25
	WeightExtractor = 0.20
	WeightDate      = 0.15
	WeightDomain    = 0.10
)

// Grade thresholds.
const (
	ThresholdA = 0.85
	ThresholdB = 0.70
	ThresholdC = 0.50 // Below this a claim is always blocked
)

// Defaults applied when a claim carries no quality overrides.
const (
	defaultExtractorQuality = 0.9
	defaultDateCoherence    = 1.0
)

// Result is the verifier's output: the partition, the aggregate score and
// the derived status.
type Result struct {
	VerifiedClaims []model.VerifiedClaim
	BlockedClaims  []model.VerifiedClaim
	AvgURS         float64
	Status         model.VerificationStatus
}

// Verifier scores claims against the evidence chunks they cite. It is
// pure and side-effect free: identical inputs always produce identical
// outputs.
type Verifier struct{}

// NewVerifier creates a verifier.
func NewVerifier() *Verifier {
	return &Verifier{}
}

// Verify scores every claim, partitions verified from blocked, and derives
// the aggregate status.
//
// Claims cite evidence by the 1-based ordinal ids the retriever assigned
// for this call. A cited id absent from the evidence set resolves to no
// source reference rather than an error. AvgURS is the mean over verified
// claims only and 0.0 when that set is empty.
func (v *Verifier) Verify(claims []model.Claim, chunks []model.EvidenceChunk, tenantID string) Result {
	byOrdinal := make(map[string]model.EvidenceChunk, len(chunks))
	for _, chunk := range chunks {
		byOrdinal[chunk.OrdinalID] = chunk
	}

	result := Result{
		VerifiedClaims: []model.VerifiedClaim{},
		BlockedClaims:  []model.VerifiedClaim{},
	}

	var sum float64
	for _, claim := range claims {
		scored := v.scoreClaim(claim, byOrdinal)
		if scored.URSScore < ThresholdC {
			result.BlockedClaims = append(result.BlockedClaims, scored)
			continue
		}
		result.VerifiedClaims = append(result.VerifiedClaims, scored)
		sum += scored.URSScore
	}

	if len(result.VerifiedClaims) > 0 {
		result.AvgURS = sum / float64(len(result.VerifiedClaims))
	}

	result.Status = aggregateStatus(len(result.BlockedClaims), len(claims))
	return result
}

// scoreClaim computes the URS breakdown for one claim and resolves its
// cited sources.
func (v *Verifier) scoreClaim(claim model.Claim, byOrdinal map[string]model.EvidenceChunk) model.VerifiedClaim {
	breakdown := model.ScoreBreakdown{
		Coverage:         coverageScore(claim),
		ReferenceScore:   referenceScore(len(claim.SourceIDs)),
		ExtractorQuality: defaultExtractorQuality,
		DateCoherence:    defaultDateCoherence,
		DomainScore:      1.0,
	}
	if claim.ExtractorQuality != nil {
		breakdown.ExtractorQuality = clamp01(*claim.ExtractorQuality)
	}
	if claim.DateCoherence != nil {
		breakdown.DateCoherence = clamp01(*claim.DateCoherence)
	}
	if claim.OutOfDomain {
		breakdown.DomainScore = 0.5
	}

	urs := WeightCoverage*breakdown.Coverage +
		WeightReference*breakdown.ReferenceScore +
		WeightExtractor*breakdown.ExtractorQuality +
		WeightDate*breakdown.DateCoherence +
		WeightDomain*breakdown.DomainScore

	label := labelFor(urs)

	var refs []model.SourceRef
	for _, id := range claim.SourceIDs {
		// Unmatched ordinal ids yield no source reference, by design
		// of the degraded-data contract.
		if chunk, ok := byOrdinal[id]; ok {
			refs = append(refs, chunk.Source)
		}
	}

	return model.VerifiedClaim{
		Claim:      claim,
		URSScore:   urs,
		Label:      label,
		Reason:     reasonFor(urs, label, claim),
		Breakdown:  breakdown,
		SourceRefs: refs,
	}
}

// coverageScore: 1.0 with sources and stated verbatim, 0.7 with sources
// but marked inference, 0.0 without sources.
func coverageScore(claim model.Claim) float64 {
	if len(claim.SourceIDs) == 0 {
		return 0.0
	}
	if claim.IsInference {
		return 0.7
	}
	return 1.0
}

// referenceScore weights by cited source count.
func referenceScore(count int) float64 {
	switch {
	case count >= 3:
		return 1.0
	case count == 2:
		return 0.8
	case count == 1:
		return 0.6
	default:
		return 0.0
	}
}

func labelFor(urs float64) model.ReliabilityLabel {
	switch {
	case urs >= ThresholdA:
		return model.LabelA
	case urs >= ThresholdB:
		return model.LabelB
	case urs >= ThresholdC:
		return model.LabelC
	default:
		return model.LabelX
	}
}

func reasonFor(urs float64, label model.ReliabilityLabel, claim model.Claim) string {
	if label == model.LabelX {
		if len(claim.SourceIDs) == 0 {
			return fmt.Sprintf("blocked: no cited sources (urs %.2f)", urs)
		}
		return fmt.Sprintf("blocked: reliability %.2f below %.2f", urs, ThresholdC)
	}
	return fmt.Sprintf("grade %s: reliability %.2f from %d cited sources", label, urs, len(claim.SourceIDs))
}

// aggregateStatus derives the status from the partition alone, never from
// claim content. The NO_DATA case for zero produced claims is assigned
// upstream by the orchestrator.
func aggregateStatus(blocked, total int) model.VerificationStatus {
	switch {
	case blocked == 0:
		return model.VerificationSafe
	case blocked*2 < total:
		return model.VerificationWarning
	default:
		return model.VerificationBlocked
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
