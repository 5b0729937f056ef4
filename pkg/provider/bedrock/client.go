package bedrock

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"claim-verify-be/internal/entity"
	"claim-verify-be/pkg/verify/provider"
)

// Client calls a Bedrock-compatible converse HTTP endpoint with the Nova
// model family: nova-lite for text, nova-pro for media. Failures come back
// as errors, never panics; the orchestrator records them on the item and
// never retries here.
type Client struct {
	BaseURL         string
	APIKey          string
	TextModel       string
	MultimodalModel string
	HTTPClient      *http.Client
}

var _ provider.AnalysisProvider = &Client{}

// NewClient returns a client with the working Nova model ids.
func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		BaseURL:         baseURL,
		APIKey:          apiKey,
		TextModel:       "amazon.nova-lite-v1:0",
		MultimodalModel: "amazon.nova-pro-v1:0",
		HTTPClient: &http.Client{
			Timeout: 120 * time.Second,
		},
	}
}

// --- Request/Response structs (internal to this package) ---

type converseRequest struct {
	ModelId         string            `json:"modelId"`
	Messages        []converseMessage `json:"messages"`
	InferenceConfig inferenceConfig   `json:"inferenceConfig"`
}

type converseMessage struct {
	Role    string          `json:"role"`
	Content []contentBlock  `json:"content"`
}

type contentBlock struct {
	Text  string      `json:"text,omitempty"`
	Media *mediaBlock `json:"media,omitempty"`
}

type mediaBlock struct {
	Kind      string `json:"kind"` // image, video, audio
	SourceRef string `json:"source_ref"`
}

type inferenceConfig struct {
	MaxTokens   int     `json:"maxTokens"`
	Temperature float64 `json:"temperature"`
}

type converseResponse struct {
	Output struct {
		Message struct {
			Content []struct {
				Text string `json:"text"`
			} `json:"content"`
		} `json:"message"`
	} `json:"output"`
	Provenance *entity.ProvenanceInfo `json:"provenance,omitempty"`
}

// Analyze runs the media-type-specific prompt against the converse API and
// maps the reply into a typed AnalysisResult.
func (c *Client) Analyze(ctx context.Context, item *entity.WorkItem) (*entity.AnalysisResult, error) {
	model := c.MultimodalModel
	if item.MediaType == entity.MediaText {
		model = c.TextModel
	}

	reqPayload := converseRequest{
		ModelId: model,
		Messages: []converseMessage{{
			Role:    "user",
			Content: contentFor(item),
		}},
		InferenceConfig: inferenceConfig{
			MaxTokens:   1000,
			Temperature: 0.3,
		},
	}

	payloadBytes, err := json.Marshal(reqPayload)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	url := c.BaseURL + "/model/converse"
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(payloadBytes))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.APIKey)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("converse call: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("converse returned status %d: %s", resp.StatusCode, string(body))
	}

	var parsed converseResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if len(parsed.Output.Message.Content) == 0 {
		return nil, fmt.Errorf("converse returned empty content")
	}

	text := parsed.Output.Message.Content[0].Text
	return resultFor(item.MediaType, model, text, parsed.Provenance), nil
}

// contentFor builds the per-modality prompt, following the original
// analyzer's prompt templates.
func contentFor(item *entity.WorkItem) []contentBlock {
	switch item.MediaType {
	case entity.MediaImage:
		return []contentBlock{
			{Media: &mediaBlock{Kind: "image", SourceRef: item.SourceRef}},
			{Text: "Describe this image in detail and note any signs of manipulation or editing."},
		}
	case entity.MediaVideo:
		return []contentBlock{
			{Media: &mediaBlock{Kind: "video", SourceRef: item.SourceRef}},
			{Text: "Describe this video and note any signs of manipulation, splicing, or synthetic generation."},
		}
	case entity.MediaAudio:
		return []contentBlock{
			{Media: &mediaBlock{Kind: "audio", SourceRef: item.SourceRef}},
			{Text: "Transcribe this audio. Then analyze the sentiment and emotional tone of the transcription. Is it positive, negative, or neutral?"},
		}
	default:
		return []contentBlock{
			{Text: "Fact-check the following statement. List each factual claim on its own line prefixed with \"Claim:\" and state whether it is accurate or misleading.\n\n" + item.SourceRef},
		}
	}
}

// resultFor maps raw reply text into the typed result. Claim lines are
// lifted into ClaimsText; everything feeds the keyword scorers downstream.
func resultFor(mediaType entity.MediaType, model, text string, prov *entity.ProvenanceInfo) *entity.AnalysisResult {
	res := &entity.AnalysisResult{
		Analysis:   text,
		ModelUsed:  model,
		Provenance: prov,
	}
	switch mediaType {
	case entity.MediaText:
		res.ClaimsText = claimLines(text)
		res.Sentiment = text
	case entity.MediaAudio:
		res.Transcript = text
		res.Sentiment = text
	default:
		res.Description = text
	}
	return res
}

func claimLines(text string) string {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		if strings.HasPrefix(strings.ToLower(strings.TrimSpace(line)), "claim:") {
			lines = append(lines, strings.TrimSpace(line))
		}
	}
	return strings.Join(lines, "\n")
}
