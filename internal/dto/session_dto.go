package dto

import (
	"time"

	"claim-verify-be/internal/entity"
)

type MediaRefRequest struct {
	MediaType string `json:"media_type" validate:"required,oneof=image video audio text"`
	SourceRef string `json:"source_ref" validate:"required"`
}

type CreateSessionRequest struct {
	ClaimText string            `json:"claim_text" validate:"required"`
	MediaRefs []MediaRefRequest `json:"media_refs" validate:"dive"`
}

type CreateSessionResponse struct {
	SessionId string    `json:"session_id"`
	Phase     string    `json:"phase"`
	CreatedAt time.Time `json:"created_at"`
}

type AdvanceResponse struct {
	SessionId string `json:"session_id"`
	Phase     string `json:"phase"`
	Error     string `json:"error,omitempty"`
}

type WorkItemStatus struct {
	Id            string `json:"id"`
	MediaType     string `json:"media_type"`
	Status        string `json:"status"`
	ResultSummary string `json:"result_summary,omitempty"`
	Error         string `json:"error,omitempty"`
}

type PostStatus struct {
	PostId   string           `json:"post_id"`
	Title    string           `json:"title"`
	Platform string           `json:"platform"`
	Status   string           `json:"status"`
	Items    []WorkItemStatus `json:"items"`
}

type SessionStatusResponse struct {
	SessionId string       `json:"session_id"`
	Phase     string       `json:"phase"`
	Error     string       `json:"error,omitempty"`
	Pending   int          `json:"pending_items"`
	Posts     []PostStatus `json:"posts"`
}

type ClaimResponse struct {
	PostId          string                     `json:"post_id"`
	Text            string                     `json:"text"`
	ConfidenceLevel string                     `json:"confidence_level"`
	Evidence        []entity.CredibilitySignal `json:"evidence"`
}

type SessionResultResponse struct {
	SessionId       string                `json:"session_id"`
	Phase           string                `json:"phase"`
	InitialAnalysis string                `json:"initial_analysis,omitempty"`
	Claims          []ClaimResponse       `json:"claims"`
	Sources         []entity.Source       `json:"sources"`
	Verdict         *entity.VerdictResult `json:"verdict,omitempty"`
}

type ServiceInfoResponse struct {
	Service      string   `json:"service"`
	Version      string   `json:"version"`
	Phases       []string `json:"phases"`
	MediaTypes   []string `json:"media_types"`
	Capabilities []string `json:"capabilities"`
}
