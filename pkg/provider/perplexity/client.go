package perplexity

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"claim-verify-be/internal/entity"
	"claim-verify-be/pkg/verify/provider"
)

// Client queries the Perplexity search API for corroborating sources.
type Client struct {
	BaseURL    string
	APIKey     string
	MaxResults int
	HTTPClient *http.Client
}

var _ provider.VerificationProvider = &Client{}

func NewClient(apiKey string) *Client {
	return &Client{
		BaseURL:    "https://api.perplexity.ai",
		APIKey:     apiKey,
		MaxResults: 5,
		HTTPClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

type searchRequest struct {
	Query      string `json:"query"`
	MaxResults int    `json:"max_results"`
}

type searchResponse struct {
	Results []struct {
		Title string `json:"title"`
		URL   string `json:"url"`
	} `json:"results"`
}

// FindSources returns ranked sources for the claim. Trust weight decays
// with rank so the top result dominates the weighted confidence.
func (c *Client) FindSources(ctx context.Context, query string) ([]entity.Source, error) {
	reqPayload := searchRequest{Query: query, MaxResults: c.MaxResults}
	payloadBytes, err := json.Marshal(reqPayload)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.BaseURL+"/search", bytes.NewBuffer(payloadBytes))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.APIKey)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search call: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("search returned status %d: %s", resp.StatusCode, string(body))
	}

	var parsed searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	sources := make([]entity.Source, 0, len(parsed.Results))
	for rank, r := range parsed.Results {
		sources = append(sources, entity.Source{
			Title:       r.Title,
			URL:         r.URL,
			TrustWeight: trustForRank(rank),
		})
	}
	return sources, nil
}

func trustForRank(rank int) float64 {
	weight := 1.0 - 0.15*float64(rank)
	if weight < 0.1 {
		weight = 0.1
	}
	return weight
}
