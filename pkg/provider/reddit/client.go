package reddit

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"claim-verify-be/internal/entity"
	"claim-verify-be/pkg/verify/provider"
)

// Client searches reddit for posts related to a claim using the
// script-app password grant. Tokens are cached until shortly before
// expiry.
type Client struct {
	ClientID     string
	ClientSecret string
	Username     string
	Password     string
	UserAgent    string
	Limit        int
	HTTPClient   *http.Client

	tokenMu     sync.Mutex
	accessToken string
	tokenExpiry time.Time
}

var _ provider.DiscoveryProvider = &Client{}

func NewClient(clientID, clientSecret, username, password string) *Client {
	return &Client{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		Username:     username,
		Password:     password,
		UserAgent:    "claim-verify-be/1.0",
		Limit:        10,
		HTTPClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
}

type listingResponse struct {
	Data struct {
		Children []struct {
			Data struct {
				Title     string `json:"title"`
				URL       string `json:"url"`
				Permalink string `json:"permalink"`
				Selftext  string `json:"selftext"`
				Name      string `json:"name"`
			} `json:"data"`
		} `json:"children"`
	} `json:"data"`
}

func (c *Client) token(ctx context.Context) (string, error) {
	c.tokenMu.Lock()
	defer c.tokenMu.Unlock()
	if c.accessToken != "" && time.Now().Before(c.tokenExpiry) {
		return c.accessToken, nil
	}

	form := url.Values{}
	form.Set("grant_type", "password")
	form.Set("username", c.Username)
	form.Set("password", c.Password)

	req, err := http.NewRequestWithContext(ctx, "POST", "https://www.reddit.com/api/v1/access_token", strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("create token request: %w", err)
	}
	req.SetBasicAuth(c.ClientID, c.ClientSecret)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("User-Agent", c.UserAgent)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("token call: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("token returned status %d: %s", resp.StatusCode, string(body))
	}

	var parsed tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("decode token: %w", err)
	}
	if parsed.AccessToken == "" {
		return "", fmt.Errorf("token response missing access_token")
	}

	c.accessToken = parsed.AccessToken
	// refresh a minute early
	c.tokenExpiry = time.Now().Add(time.Duration(parsed.ExpiresIn-60) * time.Second)
	return c.accessToken, nil
}

// Search returns posts matching the claim, relevance-sorted. Self posts
// keep their body text on the post so segregation can emit a text item.
func (c *Client) Search(ctx context.Context, query string) ([]*entity.Post, error) {
	token, err := c.token(ctx)
	if err != nil {
		return nil, fmt.Errorf("authenticate: %w", err)
	}

	endpoint := "https://oauth.reddit.com/search?" + url.Values{
		"q":     {query},
		"limit": {strconv.Itoa(c.Limit)},
		"sort":  {"relevance"},
	}.Encode()

	req, err := http.NewRequestWithContext(ctx, "GET", endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("create search request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("User-Agent", c.UserAgent)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search call: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("search returned status %d: %s", resp.StatusCode, string(body))
	}

	var parsed listingResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decode listing: %w", err)
	}

	posts := make([]*entity.Post, 0, len(parsed.Data.Children))
	for _, child := range parsed.Data.Children {
		d := child.Data
		posts = append(posts, &entity.Post{
			Id:       d.Name,
			Title:    strings.TrimSpace(d.Title + "\n" + d.Selftext),
			URL:      d.URL,
			Platform: entity.PlatformReddit,
		})
	}
	return posts, nil
}
