package aggregate

import (
	"testing"

	"claim-verify-be/internal/entity"

	"github.com/stretchr/testify/assert"
)

func TestDetermineVerdict(t *testing.T) {
	thresholds := DefaultVerdictThresholds()

	tests := []struct {
		name        string
		credibility int
		bias        int
		want        entity.Verdict
	}{
		{name: "high credibility low bias", credibility: 90, bias: 10, want: entity.VerdictTrue},
		{name: "moderate credibility", credibility: 65, bias: 40, want: entity.VerdictPartiallyTrue},
		{name: "middling signals", credibility: 45, bias: 40, want: entity.VerdictUnverified},
		{name: "low credibility high bias", credibility: 30, bias: 80, want: entity.VerdictFalse},
		{name: "low credibility alone is false", credibility: 30, bias: 0, want: entity.VerdictFalse},
		{name: "high bias overrides high credibility", credibility: 85, bias: 75, want: entity.VerdictFalse},
		{name: "true boundary", credibility: 80, bias: 20, want: entity.VerdictTrue},
		{name: "high credibility but bias blocks true", credibility: 80, bias: 21, want: entity.VerdictPartiallyTrue},
		{name: "partial boundary", credibility: 55, bias: 40, want: entity.VerdictPartiallyTrue},
		{name: "just above false band", credibility: 31, bias: 69, want: entity.VerdictUnverified},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, thresholds.DetermineVerdict(tt.credibility, tt.bias))
		})
	}
}

func TestOverallClaimScore(t *testing.T) {
	assert.Equal(t, 90, OverallClaimScore(90, 10))
	assert.Equal(t, 50, OverallClaimScore(50, 50))
	assert.Equal(t, 63, OverallClaimScore(65, 40))
}

func TestConfidenceLevel(t *testing.T) {
	assert.Equal(t, entity.ConfidenceHigh, ConfidenceLevel(0.75))
	assert.Equal(t, entity.ConfidenceMedium, ConfidenceLevel(0.45))
	assert.Equal(t, entity.ConfidenceMedium, ConfidenceLevel(0.74))
	assert.Equal(t, entity.ConfidenceLow, ConfidenceLevel(0.44))
}

func TestManipulationScore(t *testing.T) {
	weights := DefaultManipulationWeights()

	t.Run("nil provenance scores zero", func(t *testing.T) {
		assert.Equal(t, 0.0, weights.ManipulationScore(nil))
	})

	t.Run("clean provenance scores zero", func(t *testing.T) {
		p := &entity.ProvenanceInfo{
			HasCameraMetadata:   true,
			HasCaptureTimestamp: true,
			HasEditSoftwareTag:  true,
		}
		assert.Equal(t, 0.0, weights.ManipulationScore(p))
	})

	t.Run("missing camera plus tool signature", func(t *testing.T) {
		p := &entity.ProvenanceInfo{
			HasCaptureTimestamp: true,
			HasEditSoftwareTag:  true,
			EditingToolDetected: "photoshop",
		}
		assert.InDelta(t, 0.6, weights.ManipulationScore(p), 1e-9)
	})

	t.Run("all indicators clamp to one", func(t *testing.T) {
		p := &entity.ProvenanceInfo{EditingToolDetected: "deepfake-gen"}
		assert.Equal(t, 1.0, weights.ManipulationScore(p))
	})
}

func TestAdjustConfidence(t *testing.T) {
	assert.InDelta(t, 0.36, AdjustConfidence(0.9, 0.6), 1e-9)
	assert.InDelta(t, 0.9, AdjustConfidence(0.9, 0), 1e-9)
	assert.InDelta(t, 0.0, AdjustConfidence(0.9, 1), 1e-9)
}

func TestWeightBySourceTrust(t *testing.T) {
	// Trust multiplies, never adds: weighting by a low-trust source can
	// only shrink a contribution.
	assert.InDelta(t, 0.45, WeightBySourceTrust(0.9, 0.5), 1e-9)
	assert.LessOrEqual(t, WeightBySourceTrust(0.9, 0.1), 0.9)
	assert.InDelta(t, 0.9, WeightBySourceTrust(0.9, 1.0), 1e-9)
}
