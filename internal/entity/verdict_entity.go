package entity

// SignalKind enumerates the credibility signal categories the aggregation
// engine understands.
type SignalKind string

const (
	SignalSourceTrust    SignalKind = "SOURCE_TRUST"
	SignalManipulation   SignalKind = "MANIPULATION"
	SignalBias           SignalKind = "BIAS"
	SignalSentiment      SignalKind = "SENTIMENT"
	SignalCrossReference SignalKind = "CROSS_REFERENCE"
)

// CredibilitySignal is a scalar score produced by analyzing one work item,
// post, or the session globally. Value range depends on Kind:
// Manipulation and SourceTrust are 0..1, Bias and Sentiment are 0..100.
type CredibilitySignal struct {
	Kind   SignalKind `json:"kind"`
	Value  float64    `json:"value"`
	Origin string     `json:"origin"` // work item id, post id, or "global"
}

// ConfidenceLevel buckets a claim's numeric confidence for presentation.
type ConfidenceLevel string

const (
	ConfidenceLow    ConfidenceLevel = "low"
	ConfidenceMedium ConfidenceLevel = "medium"
	ConfidenceHigh   ConfidenceLevel = "high"
)

// Claim is the per-post unit the aggregation engine consumes.
// Evidence preserves work item registration order, never completion order,
// so output is deterministic across runs.
type Claim struct {
	PostId          string              `json:"post_id"`
	Text            string              `json:"text"`
	Evidence        []CredibilitySignal `json:"evidence"`
	ConfidenceLevel ConfidenceLevel     `json:"confidence_level"`
}

// Verdict is the four-way categorical truth assessment.
type Verdict string

const (
	VerdictTrue          Verdict = "True"
	VerdictPartiallyTrue Verdict = "PartiallyTrue"
	VerdictUnverified    Verdict = "Unverified"
	VerdictFalse         Verdict = "False"
)

// EvidenceBreakdown tallies per-modality evidence counts. Counts are plain
// tallies of item classifications, surfaced unmodified.
type EvidenceBreakdown struct {
	TextSources struct {
		Supporting int `json:"supporting"`
		Refuting   int `json:"refuting"`
	} `json:"text_sources"`
	Images struct {
		Verified    int `json:"verified"`
		Manipulated int `json:"manipulated"`
	} `json:"images"`
	Videos struct {
		Authentic int `json:"authentic"`
		Deepfake  int `json:"deepfake"`
	} `json:"videos"`
	Audio struct {
		Authentic int `json:"authentic"`
		Cloned    int `json:"cloned"`
	} `json:"audio"`
}

// VerdictResult is the terminal artifact of a session. Never mutated after
// creation.
type VerdictResult struct {
	OverallVerdict  Verdict           `json:"overall_verdict"`
	ConfidenceScore float64           `json:"confidence_score"` // 0..1
	Reasoning       string            `json:"reasoning"`
	Breakdown       EvidenceBreakdown `json:"breakdown"`
}
