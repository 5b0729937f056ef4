package entity

import (
	"time"

	"github.com/google/uuid"
)

// MediaType classifies a WorkItem's payload.
type MediaType string

const (
	MediaImage MediaType = "image"
	MediaVideo MediaType = "video"
	MediaAudio MediaType = "audio"
	MediaText  MediaType = "text"
)

// ItemStatus is the lifecycle of one WorkItem.
// Completed and Failed are terminal; the tracker rejects later updates.
type ItemStatus string

const (
	StatusPending    ItemStatus = "PENDING"
	StatusProcessing ItemStatus = "PROCESSING"
	StatusCompleted  ItemStatus = "COMPLETED"
	StatusFailed     ItemStatus = "FAILED"
)

// Terminal reports whether the status allows no further transitions.
func (s ItemStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// Platform tags for discovered posts. Closed set; PlatformOther is the
// fallback when no URL pattern matches.
const (
	PlatformReddit    = "reddit"
	PlatformTwitter   = "twitter"
	PlatformYouTube   = "youtube"
	PlatformFacebook  = "facebook"
	PlatformInstagram = "instagram"
	PlatformTikTok    = "tiktok"
	PlatformOther     = "other"
)

// Post is a discovered social item with its extracted media.
// Items keeps registration order; evidence ordering downstream depends on it.
type Post struct {
	Id       string      `json:"id"`
	Title    string      `json:"title"`
	URL      string      `json:"url"`
	Platform string      `json:"platform"`
	Items    []*WorkItem `json:"items"`
}

// WorkItem is one analyzable unit of media or text belonging to one post.
// Exactly one analysis task ever writes to a given item (single-writer
// invariant); everything else reads through tracker snapshots.
type WorkItem struct {
	Id         uuid.UUID       `json:"id"`
	PostId     string          `json:"post_id"`
	MediaType  MediaType       `json:"media_type"`
	SourceRef  string          `json:"source_ref"` // local path or URL
	Status     ItemStatus      `json:"status"`
	Result     *AnalysisResult `json:"result,omitempty"`
	Error      string          `json:"error,omitempty"`
	StartedAt  *time.Time      `json:"started_at,omitempty"`
	FinishedAt *time.Time      `json:"finished_at,omitempty"`
}

// AnalysisResult is the typed output of the Analysis Provider for one item.
// Text fields are raw collaborator output; the aggregation engine derives
// scores from them with its keyword table.
type AnalysisResult struct {
	Description string `json:"description,omitempty"` // image/video description
	Transcript  string `json:"transcript,omitempty"`  // audio transcription
	Analysis    string `json:"analysis"`              // free-text analysis
	ClaimsText  string `json:"claims_text,omitempty"` // "Claim: ..." lines
	Sentiment   string `json:"sentiment,omitempty"`   // raw sentiment phrasing
	ModelUsed   string `json:"model_used,omitempty"`

	// Provenance captures the indicators the manipulation heuristic
	// inspects. Absent indicators raise the manipulation score.
	Provenance *ProvenanceInfo `json:"provenance,omitempty"`
}

// ProvenanceInfo holds the media provenance indicators reported by the
// analysis collaborator for image/video/audio items.
type ProvenanceInfo struct {
	HasCameraMetadata   bool   `json:"has_camera_metadata"`
	HasEditSoftwareTag  bool   `json:"has_edit_software_tag"`
	HasCaptureTimestamp bool   `json:"has_capture_timestamp"`
	EditingToolDetected string `json:"editing_tool_detected,omitempty"`
}
