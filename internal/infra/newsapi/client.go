package newsapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"voxassist/internal/application"
	"voxassist/internal/domain"
	"voxassist/internal/infra"
)

const providerName = "NewsAPI"

const (
	msgMissingKey  = "News search is not configured. Set the NEWSAPI_API_KEY environment variable to enable it."
	msgAuthError   = "The news service refused the configured API key. Check the credential."
	msgRateLimited = "The news service is rate limiting requests. Please try again in a moment."
	msgNetwork     = "I couldn't reach the news service due to a network error. Please try again."
	msgNoResults   = "I couldn't find any recent news for that question."
)

// Client is the news-index fallback variant: a GET with query parameters
// against NewsAPI's everything endpoint.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

func NewClient(apiKey string) *Client {
	return NewClientWithURL(apiKey, "https://newsapi.org")
}

func NewClientWithURL(apiKey, baseURL string) *Client {
	return &Client{
		apiKey:     apiKey,
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 20 * time.Second},
	}
}

func (c *Client) Name() string {
	return providerName
}

type everythingResponse struct {
	Status   string `json:"status"`
	Code     string `json:"code"`
	Message  string `json:"message"`
	Articles []struct {
		Source struct {
			Name string `json:"name"`
		} `json:"source"`
		Title       string `json:"title"`
		Description string `json:"description"`
		Content     string `json:"content"`
		URL         string `json:"url"`
	} `json:"articles"`
}

func (c *Client) Fetch(ctx context.Context, query domain.Query) domain.ProviderResult {
	if strings.TrimSpace(query.String()) == "" {
		return domain.Failure(domain.StatusInputError, application.EmptyQueryPrompt)
	}
	if strings.TrimSpace(c.apiKey) == "" {
		return domain.Failure(domain.StatusConfigError, msgMissingKey)
	}

	params := url.Values{}
	params.Set("q", query.String())
	params.Set("pageSize", strconv.Itoa(infra.MaxSearchItems*2))
	params.Set("sortBy", "publishedAt")
	params.Set("language", "en")
	params.Set("apiKey", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.baseURL+"/v2/everything?"+params.Encode(), nil)
	if err != nil {
		return domain.Failure(domain.StatusTransportError, msgNetwork)
	}

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
				fmt.Sprintf("The news service reported an error (%d): %s", resp.StatusCode, strings.TrimSpace(string(respBody))))
		}
	}

	var result everythingResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return domain.Failure(domain.StatusProviderError,
			fmt.Sprintf("The news service returned an unreadable response: %v", err))
	}

	if result.Status != "ok" {
		return domain.Failure(domain.StatusEmpty, msgNoResults)
	}

	items := make([]infra.SearchItem, 0, len(result.Articles))
	for _, a := range result.Articles {
		content := a.Content
		if strings.TrimSpace(content) == "" {
			content = a.Description
		}
		title := a.Title
		if a.Source.Name != "" {
			title = fmt.Sprintf("%s, %s", a.Title, a.Source.Name)
		}
		items = append(items, infra.SearchItem{Title: title, URL: a.URL, Content: content})
	}

	combined, kept := infra.CombineItems(items)
	if kept == 0 {
		return domain.Failure(domain.StatusEmpty, msgNoResults)
	}

	return domain.Answer(combined, domain.SourceWebSearch, providerName, true)
}
