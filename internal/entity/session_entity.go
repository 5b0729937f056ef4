package entity

import (
	"time"
)

// Phase is a step in the fixed verification pipeline.
// Phases are monotonic: a session only moves forward, except PhaseFailed
// which is terminal and reachable from any single-collaborator phase.
type Phase string

const (
	PhaseIngest                Phase = "INGEST"
	PhaseInitialAnalysis       Phase = "INITIAL_ANALYSIS"
	PhaseDiscovery             Phase = "DISCOVERY"
	PhaseSegregation           Phase = "SEGREGATION"
	PhaseMultimodalAnalysis    Phase = "MULTIMODAL_ANALYSIS"
	PhaseVerificationDiscovery Phase = "VERIFICATION_DISCOVERY"
	PhaseAggregation           Phase = "AGGREGATION"
	PhaseDone                  Phase = "DONE"
	PhaseFailed                Phase = "FAILED"
)

// phaseOrder drives Next(). Failed is excluded: it is entered explicitly.
var phaseOrder = []Phase{
	PhaseIngest,
	PhaseInitialAnalysis,
	PhaseDiscovery,
	PhaseSegregation,
	PhaseMultimodalAnalysis,
	PhaseVerificationDiscovery,
	PhaseAggregation,
	PhaseDone,
}

// Next returns the phase that follows p. Done and Failed return themselves.
func (p Phase) Next() Phase {
	for i, ph := range phaseOrder {
		if ph == p && i < len(phaseOrder)-1 {
			return phaseOrder[i+1]
		}
	}
	return p
}

// Terminal reports whether the pipeline can still advance from p.
func (p Phase) Terminal() bool {
	return p == PhaseDone || p == PhaseFailed
}

// Session is one end-to-end verification run for a single submitted claim.
// It is mutated only by the orchestrator; the store handles concurrency.
type Session struct {
	Id        string     `json:"id"`
	Phase     Phase      `json:"phase"`
	ClaimText string     `json:"claim_text"`
	MediaRefs []MediaRef `json:"media_refs,omitempty"`

	// InitialAnalysis output: the collaborator's first read of the claim.
	InitialAnalysis string `json:"initial_analysis,omitempty"`

	// Discovery output.
	Posts []*Post `json:"posts,omitempty"`

	// VerificationDiscovery output: ranked corroborating sources.
	VerificationSources []Source `json:"verification_sources,omitempty"`

	// Claims assembled for aggregation, one per analyzed post.
	Claims []*Claim `json:"claims,omitempty"`

	// Verdict is set once the aggregation phase has run.
	Verdict *VerdictResult `json:"verdict,omitempty"`

	// Error is set when a single-collaborator phase fails (Phase == FAILED).
	Error string `json:"error,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

// MediaRef is a user-supplied media attachment on the original claim.
type MediaRef struct {
	MediaType MediaType `json:"media_type"`
	SourceRef string    `json:"source_ref"`
}

// Source is a ranked external source found during verification discovery.
type Source struct {
	Title       string  `json:"title"`
	URL         string  `json:"url"`
	TrustWeight float64 `json:"trust_weight"` // 0..1, multiplies signal contribution
}
