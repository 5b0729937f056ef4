package aggregate

import (
	"math"

	"claim-verify-be/internal/entity"
)

// VerdictThresholds holds the four-way verdict policy. The rule is
// evaluated in order: False, True, PartiallyTrue, Unverified. Boundary
// behavior between the bands is exactly the ordered evaluation; there is
// no finer-grained interpolation.
type VerdictThresholds struct {
	FalseMaxCredibility   int // credibility <= this => False
	FalseMinBias          int // bias >= this => False
	TrueMinCredibility    int // credibility >= this (and bias low) => True
	TrueMaxBias           int
	PartialMinCredibility int
}

// DefaultVerdictThresholds returns the calibrated policy constants.
func DefaultVerdictThresholds() VerdictThresholds {
	return VerdictThresholds{
		FalseMaxCredibility:   30,
		FalseMinBias:          70,
		TrueMinCredibility:    80,
		TrueMaxBias:           20,
		PartialMinCredibility: 55,
	}
}

// DetermineVerdict maps a (credibility, bias) pair to a verdict. Pure
// function of the thresholds.
func (v VerdictThresholds) DetermineVerdict(credibility, bias int) entity.Verdict {
	switch {
	case credibility <= v.FalseMaxCredibility || bias >= v.FalseMinBias:
		return entity.VerdictFalse
	case credibility >= v.TrueMinCredibility && bias <= v.TrueMaxBias:
		return entity.VerdictTrue
	case credibility >= v.PartialMinCredibility:
		return entity.VerdictPartiallyTrue
	default:
		return entity.VerdictUnverified
	}
}

// OverallClaimScore combines credibility and bias into one per-claim score:
// round((credibility + (100 - bias)) / 2).
func OverallClaimScore(credibility, bias int) int {
	return int(math.Round((float64(credibility) + float64(100-bias)) / 2))
}

// ClaimConfidence is credibility normalized to 0..1.
func ClaimConfidence(credibility int) float64 {
	return float64(credibility) / 100
}

// ConfidenceLevel buckets a 0..1 confidence for presentation.
func ConfidenceLevel(confidence float64) entity.ConfidenceLevel {
	switch {
	case confidence >= 0.75:
		return entity.ConfidenceHigh
	case confidence >= 0.45:
		return entity.ConfidenceMedium
	default:
		return entity.ConfidenceLow
	}
}

// ManipulationWeights are the fixed increments each missing or suspicious
// provenance indicator contributes. Additive until clamped to 1.0.
type ManipulationWeights struct {
	MissingCameraMetadata   float64
	MissingCaptureTimestamp float64
	MissingEditSoftwareTag  float64
	EditingToolSignature    float64
}

// DefaultManipulationWeights returns the calibrated indicator increments.
func DefaultManipulationWeights() ManipulationWeights {
	return ManipulationWeights{
		MissingCameraMetadata:   0.2,
		MissingCaptureTimestamp: 0.2,
		MissingEditSoftwareTag:  0.2,
		EditingToolSignature:    0.4,
	}
}

// ManipulationScore derives a 0..1 manipulation likelihood from provenance
// indicators. A nil provenance report is treated as fully unknown and
// scores 0: absent signals never hard-fail aggregation.
func (w ManipulationWeights) ManipulationScore(p *entity.ProvenanceInfo) float64 {
	if p == nil {
		return 0
	}
	score := 0.0
	if !p.HasCameraMetadata {
		score += w.MissingCameraMetadata
	}
	if !p.HasCaptureTimestamp {
		score += w.MissingCaptureTimestamp
	}
	if !p.HasEditSoftwareTag {
		score += w.MissingEditSoftwareTag
	}
	if p.EditingToolDetected != "" {
		score += w.EditingToolSignature
	}
	if score > 1 {
		score = 1
	}
	return score
}

// AdjustConfidence applies the manipulation adjustment:
// final = rawConfidence * (1 - manipulationScore).
func AdjustConfidence(rawConfidence, manipulationScore float64) float64 {
	return rawConfidence * (1 - manipulationScore)
}

// WeightBySourceTrust multiplies a signal's contribution by its source's
// trust weight. Multiplicative so a low-trust source can only shrink a
// signal, never inflate it.
func WeightBySourceTrust(contribution, trustWeight float64) float64 {
	return contribution * trustWeight
}
