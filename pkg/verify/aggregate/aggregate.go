package aggregate

import (
	"fmt"
	"math"

	"claim-verify-be/internal/entity"
)

// Engine combines per-item and per-source scores into per-claim and overall
// verdicts. Pure and deterministic: no I/O, no clock, and it never fails —
// unparseable or missing signals score zero/absent and the aggregation
// still produces a well-formed result.
type Engine struct {
	Table      KeywordTable
	Thresholds VerdictThresholds
	Weights    ManipulationWeights
}

// NewEngine returns an engine with the default keyword table, thresholds,
// and manipulation weights.
func NewEngine() *Engine {
	return &Engine{
		Table:      DefaultKeywordTable(),
		Thresholds: DefaultVerdictThresholds(),
		Weights:    DefaultManipulationWeights(),
	}
}

// claimStats accumulates one post's derived scores.
type claimStats struct {
	credSum   int
	credCount int
	maxBias   int
	// confidence contributions per completed item, manipulation-adjusted
	contributions []float64
}

func (s *claimStats) credibility(baseline int) int {
	if s.credCount == 0 {
		return baseline
	}
	return int(math.Round(float64(s.credSum) / float64(s.credCount)))
}

// BuildClaims derives one Claim per post from its completed work items.
// Evidence order follows work item registration order, not completion
// order. Failed items contribute no signals.
func (e *Engine) BuildClaims(claimText string, posts []*entity.Post) []*entity.Claim {
	claims := make([]*entity.Claim, 0, len(posts))
	for _, post := range posts {
		stats, evidence := e.scorePost(post)
		cred := stats.credibility(e.Table.CredibilityBaseline)
		confidence := ClaimConfidence(cred)
		claims = append(claims, &entity.Claim{
			PostId:          post.Id,
			Text:            claimText,
			Evidence:        evidence,
			ConfidenceLevel: ConfidenceLevel(confidence),
		})
	}
	return claims
}

func (e *Engine) scorePost(post *entity.Post) (claimStats, []entity.CredibilitySignal) {
	var stats claimStats
	var evidence []entity.CredibilitySignal

	for _, item := range post.Items {
		if item.Status != entity.StatusCompleted || item.Result == nil {
			continue
		}
		res := item.Result
		cred := e.Table.CredibilityScore(res.Analysis+" "+res.Description+" "+res.Transcript, res.ClaimsText)
		bias := e.Table.BiasScore(firstNonEmpty(res.Sentiment, res.Analysis))
		stats.credSum += cred
		stats.credCount++
		if bias > stats.maxBias {
			stats.maxBias = bias
		}

		origin := item.Id.String()
		if item.MediaType == entity.MediaText {
			evidence = append(evidence,
				entity.CredibilitySignal{Kind: entity.SignalBias, Value: float64(bias), Origin: origin},
				entity.CredibilitySignal{Kind: entity.SignalSentiment, Value: float64(SentimentScore(res.Sentiment)), Origin: origin},
			)
			stats.contributions = append(stats.contributions, ClaimConfidence(cred))
		} else {
			manip := e.Weights.ManipulationScore(res.Provenance)
			evidence = append(evidence,
				entity.CredibilitySignal{Kind: entity.SignalManipulation, Value: manip, Origin: origin},
			)
			stats.contributions = append(stats.contributions, AdjustConfidence(ClaimConfidence(cred), manip))
		}
	}
	return stats, evidence
}

// Aggregate produces the terminal VerdictResult for a session from its
// posts and ranked verification sources. Reaching this function guarantees
// a verdict: every malformed input path degrades to neutral scores.
func (e *Engine) Aggregate(claimText string, posts []*entity.Post, sources []entity.Source) *entity.VerdictResult {
	var breakdown entity.EvidenceBreakdown
	credSum, credCount, maxBias := 0, 0, 0
	var contributions []float64

	for _, post := range posts {
		stats, _ := e.scorePost(post)
		if stats.credCount > 0 {
			credSum += stats.credibility(e.Table.CredibilityBaseline)
			credCount++
		}
		if stats.maxBias > maxBias {
			maxBias = stats.maxBias
		}
		contributions = append(contributions, stats.contributions...)
		e.tally(post, &breakdown)
	}

	credibility := e.Table.CredibilityBaseline
	if credCount > 0 {
		credibility = int(math.Round(float64(credSum) / float64(credCount)))
	}

	// Ranked sources contribute trust-weighted confidence, never additive
	// boosts: a low-trust source cannot inflate a weak signal.
	for _, src := range sources {
		contributions = append(contributions, WeightBySourceTrust(ClaimConfidence(credibility), src.TrustWeight))
	}

	confidence := 0.0
	if len(contributions) > 0 {
		for _, c := range contributions {
			confidence += c
		}
		confidence /= float64(len(contributions))
	}
	if confidence < 0 {
		confidence = 0
	}
	if confidence > 1 {
		confidence = 1
	}

	verdict := e.Thresholds.DetermineVerdict(credibility, maxBias)
	return &entity.VerdictResult{
		OverallVerdict:  verdict,
		ConfidenceScore: confidence,
		Reasoning:       e.reasoning(verdict, credibility, maxBias, breakdown),
		Breakdown:       breakdown,
	}
}

// tally counts each completed item into the modality breakdown. Plain
// tallies, surfaced unmodified. Failed items are absent signals and count
// nowhere.
func (e *Engine) tally(post *entity.Post, b *entity.EvidenceBreakdown) {
	const manipulatedThreshold = 0.5
	for _, item := range post.Items {
		if item.Status != entity.StatusCompleted || item.Result == nil {
			continue
		}
		switch item.MediaType {
		case entity.MediaText:
			for _, ev := range e.Table.ExtractEvidence(item.Result.ClaimsText) {
				if ev.Classification == EvidenceRefuting {
					b.TextSources.Refuting++
				} else {
					b.TextSources.Supporting++
				}
			}
		case entity.MediaImage:
			if e.Weights.ManipulationScore(item.Result.Provenance) >= manipulatedThreshold {
				b.Images.Manipulated++
			} else {
				b.Images.Verified++
			}
		case entity.MediaVideo:
			if e.Weights.ManipulationScore(item.Result.Provenance) >= manipulatedThreshold {
				b.Videos.Deepfake++
			} else {
				b.Videos.Authentic++
			}
		case entity.MediaAudio:
			if e.Weights.ManipulationScore(item.Result.Provenance) >= manipulatedThreshold {
				b.Audio.Cloned++
			} else {
				b.Audio.Authentic++
			}
		}
	}
}

func (e *Engine) reasoning(verdict entity.Verdict, credibility, bias int, b entity.EvidenceBreakdown) string {
	return fmt.Sprintf(
		"Verdict %s at credibility %d and bias %d: %d supporting and %d refuting text sources, %d/%d verified images, %d/%d authentic videos, %d/%d authentic audio clips.",
		verdict, credibility, bias,
		b.TextSources.Supporting, b.TextSources.Refuting,
		b.Images.Verified, b.Images.Verified+b.Images.Manipulated,
		b.Videos.Authentic, b.Videos.Authentic+b.Videos.Deepfake,
		b.Audio.Authentic, b.Audio.Authentic+b.Audio.Cloned,
	)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
