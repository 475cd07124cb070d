package firecrawl

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"voxassist/internal/application"
	"voxassist/internal/domain"
	"voxassist/internal/infra"
)

const providerName = "Firecrawl web search"

const (
	msgMissingKey  = "Real-time search is not configured. Set the FIRECRAWL_API_KEY environment variable to enable it."
	msgAuthError   = "The search service refused the configured API key. Check the credential."
	msgRateLimited = "The search service is rate limiting requests. Please try again in a moment."
	msgNetwork     = "I couldn't reach the search service due to a network error. Please try again."
	msgNoResults   = "I couldn't find any real-time results for that question."
)

// Client queries Firecrawl's search-and-scrape endpoint and merges the top
// hits into a single answer blob.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

func NewClient(apiKey string) *Client {
	return NewClientWithURL(apiKey, "https://api.firecrawl.dev")
}

func NewClientWithURL(apiKey, baseURL string) *Client {
	return &Client{
		apiKey:     apiKey,
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *Client) Name() string {
	return providerName
}

type searchRequest struct {
	Query         string        `json:"query"`
	Limit         int           `json:"limit"`
	ScrapeOptions scrapeOptions `json:"scrapeOptions"`
}

type scrapeOptions struct {
	Formats []string `json:"formats"`
}

type searchResponse struct {
	Success bool `json:"success"`
	Data    []struct {
		Title       string `json:"title"`
		URL         string `json:"url"`
		Markdown    string `json:"markdown"`
		Description string `json:"description"`
	} `json:"data"`
	Error string `json:"error"`
}

// Fetch runs one search. Like the primary provider, every failure is a
// tagged result rather than a Go error, so the resolver can present it or
// keep the primary's answer instead.
func (c *Client) Fetch(ctx context.Context, query domain.Query) domain.ProviderResult {
	if strings.TrimSpace(query.String()) == "" {
		return domain.Failure(domain.StatusInputError, application.EmptyQueryPrompt)
	}
	if strings.TrimSpace(c.apiKey) == "" {
		return domain.Failure(domain.StatusConfigError, msgMissingKey)
	}

	reqBody := searchRequest{
		Query: query.String(),
		Limit: infra.MaxSearchItems,
		ScrapeOptions: scrapeOptions{
			Formats: []string{"markdown"},
		},
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return domain.Failure(domain.StatusTransportError, msgNetwork)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/search", bytes.NewReader(bodyBytes))
	if err != nil {
		return domain.Failure(domain.StatusTransportError, msgNetwork)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.Failure(domain.StatusTransportError, msgNetwork)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return domain.Failure(domain.StatusTransportError, msgNetwork)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		switch resp.StatusCode {
		case http.StatusUnauthorized, http.StatusForbidden:
			return domain.Failure(domain.StatusAuthError, msgAuthError)
		case http.StatusTooManyRequests:
			return domain.Failure(domain.StatusRateLimited, msgRateLimited)
		default:
			return domain.Failure(domain.StatusProviderError,
				fmt.Sprintf("The search service reported an error (%d): %s", resp.StatusCode, strings.TrimSpace(string(respBody))))
		}
	}

	var result searchResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return domain.Failure(domain.StatusProviderError,
			fmt.Sprintf("The search service returned an unreadable response: %v", err))
	}

	if !result.Success {
		return domain.Failure(domain.StatusEmpty, msgNoResults)
	}

	items := make([]infra.SearchItem, 0, len(result.Data))
	for _, d := range result.Data {
		content := d.Markdown
		if strings.TrimSpace(content) == "" {
			content = d.Description
		}
		items = append(items, infra.SearchItem{Title: d.Title, URL: d.URL, Content: content})
	}

	combined, kept := infra.CombineItems(items)
	if kept == 0 {
		return domain.Failure(domain.StatusEmpty, msgNoResults)
	}

	return domain.Answer(combined, domain.SourceWebSearch, providerName, true)
}
