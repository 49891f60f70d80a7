package verify

import (
	"math"
	"testing"

	"github.com/AutobookNft/NATAN-LOC-sub001/internal/model"
)

const epsilon = 1e-9

func chunks(n int) []model.EvidenceChunk {
	out := make([]model.EvidenceChunk, n)
	for i := range out {
		out[i] = model.EvidenceChunk{
			OrdinalID: "chunk_" + string(rune('1'+i)),
			Text:      "evidence",
			TenantID:  "tenant-1",
			Source:    model.SourceRef{DocumentID: "doc-1", URL: "https://example.com/doc-1"},
		}
	}
	return out
}

func TestVerifier_ThreeSourcesFullScore(t *testing.T) {
	v := NewVerifier()

	claim := model.Claim{
		Text:      "The contract was signed in 2021.",
		SourceIDs: []string{"chunk_1", "chunk_2", "chunk_3"},
	}

	result := v.Verify([]model.Claim{claim}, chunks(3), "tenant-1")

	if len(result.VerifiedClaims) != 1 || len(result.BlockedClaims) != 0 {
		t.Fatalf("Expected 1 verified, 0 blocked; got %d/%d", len(result.VerifiedClaims), len(result.BlockedClaims))
	}

	got := result.VerifiedClaims[0]
	// 0.30*1.0 + 0.25*1.0 + 0.20*0.9 + 0.15*1.0 + 0.10*1.0 = 0.98
	if math.Abs(got.URSScore-0.98) > epsilon {
		t.Errorf("Expected urs 0.98, got %.4f", got.URSScore)
	}
	if got.Label != model.LabelA {
		t.Errorf("Expected label A, got %s", got.Label)
	}
	if len(got.SourceRefs) != 3 {
		t.Errorf("Expected 3 resolved source refs, got %d", len(got.SourceRefs))
	}
	if result.Status != model.VerificationSafe {
		t.Errorf("Expected SAFE, got %s", result.Status)
	}
}

func TestVerifier_SingleSource(t *testing.T) {
	v := NewVerifier()

	claim := model.Claim{Text: "c", SourceIDs: []string{"chunk_1"}}
	result := v.Verify([]model.Claim{claim}, chunks(1), "tenant-1")

	if len(result.VerifiedClaims) != 1 {
		t.Fatalf("Expected claim verified")
	}
	// 0.30*1.0 + 0.25*0.6 + 0.20*0.9 + 0.15*1.0 + 0.10*1.0 = 0.88
	got := result.VerifiedClaims[0]
	if math.Abs(got.URSScore-0.88) > epsilon {
		t.Errorf("Expected urs 0.88, got %.4f", got.URSScore)
	}
	if got.Label != model.LabelA {
		t.Errorf("Expected label A, got %s", got.Label)
	}
}

func TestVerifier_NoSourcesBlocked(t *testing.T) {
	v := NewVerifier()

	claim := model.Claim{Text: "unsupported"}
	result := v.Verify([]model.Claim{claim}, chunks(1), "tenant-1")

	if len(result.BlockedClaims) != 1 || len(result.VerifiedClaims) != 0 {
		t.Fatalf("Expected 0 verified, 1 blocked; got %d/%d", len(result.VerifiedClaims), len(result.BlockedClaims))
	}

	got := result.BlockedClaims[0]
	// 0.30*0 + 0.25*0 + 0.20*0.9 + 0.15*1.0 + 0.10*1.0 = 0.43
	if math.Abs(got.URSScore-0.43) > epsilon {
		t.Errorf("Expected urs 0.43, got %.4f", got.URSScore)
	}
	if got.Label != model.LabelX {
		t.Errorf("Expected label X, got %s", got.Label)
	}
	if result.AvgURS != 0.0 {
		t.Errorf("Expected avg 0.0 with no verified claims, got %.4f", result.AvgURS)
	}
	if result.Status != model.VerificationBlocked {
		t.Errorf("Expected BLOCKED, got %s", result.Status)
	}
}

func TestVerifier_InferenceCoverage(t *testing.T) {
	v := NewVerifier()

	claim := model.Claim{Text: "c", SourceIDs: []string{"chunk_1", "chunk_2"}, IsInference: true}
	result := v.Verify([]model.Claim{claim}, chunks(2), "tenant-1")

	if len(result.VerifiedClaims) != 1 {
		t.Fatalf("Expected claim verified")
	}
	// 0.30*0.7 + 0.25*0.8 + 0.20*0.9 + 0.15*1.0 + 0.10*1.0 = 0.84
	got := result.VerifiedClaims[0]
	if math.Abs(got.URSScore-0.84) > epsilon {
		t.Errorf("Expected urs 0.84, got %.4f", got.URSScore)
	}
	if got.Label != model.LabelB {
		t.Errorf("Expected label B, got %s", got.Label)
	}
}

func TestVerifier_OutOfDomainPenalty(t *testing.T) {
	v := NewVerifier()

	inDomain := model.Claim{Text: "c", SourceIDs: []string{"chunk_1", "chunk_2", "chunk_3"}}
	outOfDomain := inDomain
	outOfDomain.OutOfDomain = true

	result := v.Verify([]model.Claim{inDomain, outOfDomain}, chunks(3), "tenant-1")

	if len(result.VerifiedClaims) != 2 {
		t.Fatalf("Expected both claims verified")
	}
	diff := result.VerifiedClaims[0].URSScore - result.VerifiedClaims[1].URSScore
	// The domain sub-score halves: 0.10*1.0 vs 0.10*0.5.
	if math.Abs(diff-0.05) > epsilon {
		t.Errorf("Expected out-of-domain penalty 0.05, got %.4f", diff)
	}
}

func TestVerifier_QualityOverrides(t *testing.T) {
	v := NewVerifier()

	quality := 0.5
	coherence := 0.2
	claim := model.Claim{
		Text:             "c",
		SourceIDs:        []string{"chunk_1", "chunk_2", "chunk_3"},
		ExtractorQuality: &quality,
		DateCoherence:    &coherence,
	}

	result := v.Verify([]model.Claim{claim}, chunks(3), "tenant-1")

	var got model.VerifiedClaim
	if len(result.VerifiedClaims) == 1 {
		got = result.VerifiedClaims[0]
	} else {
		t.Fatalf("Expected claim verified")
	}
	// 0.30*1.0 + 0.25*1.0 + 0.20*0.5 + 0.15*0.2 + 0.10*1.0 = 0.78
	if math.Abs(got.URSScore-0.78) > epsilon {
		t.Errorf("Expected urs 0.78, got %.4f", got.URSScore)
	}
	if got.Breakdown.ExtractorQuality != 0.5 || got.Breakdown.DateCoherence != 0.2 {
		t.Errorf("Breakdown should carry the overrides, got %+v", got.Breakdown)
	}
}

func TestVerifier_UnmatchedOrdinalResolvesEmpty(t *testing.T) {
	v := NewVerifier()

	// chunk_9 does not exist in this retrieval call. Scoring still
	// counts the reference; resolution silently yields no source ref.
	claim := model.Claim{Text: "c", SourceIDs: []string{"chunk_9"}}
	result := v.Verify([]model.Claim{claim}, chunks(2), "tenant-1")

	if len(result.VerifiedClaims) != 1 {
		t.Fatalf("Expected claim verified, got %d blocked", len(result.BlockedClaims))
	}
	if len(result.VerifiedClaims[0].SourceRefs) != 0 {
		t.Errorf("Expected no resolved refs for unmatched ordinal, got %d", len(result.VerifiedClaims[0].SourceRefs))
	}
}

func TestVerifier_BlockingThreshold(t *testing.T) {
	v := NewVerifier()

	// Sweep configurations across the 0.5 boundary and check the
	// partition matches urs < 0.5 exactly.
	claims := []model.Claim{
		{Text: "none"},                                                        // 0.43, blocked
		{Text: "one", SourceIDs: []string{"chunk_1"}},                         // 0.88
		{Text: "inf", SourceIDs: []string{"chunk_1"}, IsInference: true},      // 0.79
		{Text: "two", SourceIDs: []string{"chunk_1", "chunk_2"}},              // 0.93
	}

	result := v.Verify(claims, chunks(2), "tenant-1")

	for _, c := range result.VerifiedClaims {
		if c.URSScore < 0.5 {
			t.Errorf("Verified claim %q has urs %.4f below threshold", c.Claim.Text, c.URSScore)
		}
	}
	for _, c := range result.BlockedClaims {
		if c.URSScore >= 0.5 {
			t.Errorf("Blocked claim %q has urs %.4f above threshold", c.Claim.Text, c.URSScore)
		}
	}
	if len(result.BlockedClaims) != 1 {
		t.Errorf("Expected exactly 1 blocked claim, got %d", len(result.BlockedClaims))
	}
}

func TestVerifier_AvgOverVerifiedOnly(t *testing.T) {
	v := NewVerifier()

	claims := []model.Claim{
		{Text: "a", SourceIDs: []string{"chunk_1"}},              // 0.88
		{Text: "b", SourceIDs: []string{"chunk_1", "chunk_2"}},   // 0.93
		{Text: "c"},                                              // 0.43, blocked
	}

	result := v.Verify(claims, chunks(2), "tenant-1")

	want := (0.88 + 0.93) / 2
	if math.Abs(result.AvgURS-want) > epsilon {
		t.Errorf("Expected avg %.4f over verified only, got %.4f", want, result.AvgURS)
	}
}

func TestVerifier_StatusFromPartition(t *testing.T) {
	v := NewVerifier()

	supported := model.Claim{Text: "s", SourceIDs: []string{"chunk_1"}}
	unsupported := model.Claim{Text: "u"}

	tests := []struct {
		name   string
		claims []model.Claim
		status model.VerificationStatus
	}{
		{"all verified", []model.Claim{supported, supported}, model.VerificationSafe},
		{"minority blocked", []model.Claim{supported, supported, unsupported}, model.VerificationWarning},
		{"half blocked", []model.Claim{supported, unsupported}, model.VerificationBlocked},
		{"all blocked", []model.Claim{unsupported}, model.VerificationBlocked},
	}

	for _, tt := range tests {
		result := v.Verify(tt.claims, chunks(1), "tenant-1")
		if result.Status != tt.status {
			t.Errorf("%s: expected %s, got %s", tt.name, tt.status, result.Status)
		}
	}
}

func TestVerifier_Deterministic(t *testing.T) {
	v := NewVerifier()

	claims := []model.Claim{
		{Text: "a", SourceIDs: []string{"chunk_1"}, IsInference: true},
		{Text: "b"},
	}
	evidence := chunks(2)

	first := v.Verify(claims, evidence, "tenant-1")
	second := v.Verify(claims, evidence, "tenant-1")

	if first.AvgURS != second.AvgURS || first.Status != second.Status {
		t.Errorf("Verification is not deterministic")
	}
	for i := range first.VerifiedClaims {
		if first.VerifiedClaims[i].URSScore != second.VerifiedClaims[i].URSScore {
			t.Errorf("Claim %d scored differently across runs", i)
		}
	}
}

func TestVerifier_GradeMonotonicity(t *testing.T) {
	v := NewVerifier()
	evidence := chunks(3)

	score := func(c model.Claim) float64 {
		r := v.Verify([]model.Claim{c}, evidence, "tenant-1")
		if len(r.VerifiedClaims) == 1 {
			return r.VerifiedClaims[0].URSScore
		}
		return r.BlockedClaims[0].URSScore
	}

	// More sources never lowers the score.
	prev := score(model.Claim{Text: "c"})
	for n := 1; n <= 3; n++ {
		ids := make([]string, n)
		for i := range ids {
			ids[i] = "chunk_" + string(rune('1'+i))
		}
		cur := score(model.Claim{Text: "c", SourceIDs: ids})
		if cur < prev {
			t.Errorf("Score decreased from %.4f to %.4f when adding source %d", prev, cur, n)
		}
		prev = cur
	}

	// Inference never scores above verbatim, holding sources fixed.
	verbatim := score(model.Claim{Text: "c", SourceIDs: []string{"chunk_1"}})
	inferred := score(model.Claim{Text: "c", SourceIDs: []string{"chunk_1"}, IsInference: true})
	if inferred > verbatim {
		t.Errorf("Inference scored %.4f above verbatim %.4f", inferred, verbatim)
	}

	// Out-of-domain never scores above in-domain.
	inDomain := score(model.Claim{Text: "c", SourceIDs: []string{"chunk_1"}})
	outDomain := score(model.Claim{Text: "c", SourceIDs: []string{"chunk_1"}, OutOfDomain: true})
	if outDomain > inDomain {
		t.Errorf("Out-of-domain scored %.4f above in-domain %.4f", outDomain, inDomain)
	}
}
